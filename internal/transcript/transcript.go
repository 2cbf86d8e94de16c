// Package transcript holds the word-timed transcription result that feeds
// subtitle construction, in the JSON shape WhisperX writes.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Word is a single aligned token. A nil Start or End marks an alignment gap.
type Word struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// Segment is one recognition unit with its text and optional word timings.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

// Transcript is the complete collaborator output.
type Transcript struct {
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments"`

	// Raw is the collaborator's own JSON, when it produced one. Dump writes
	// it back unchanged.
	Raw []byte `json:"-"`
}

// Seconds returns a pointer to v, for building word timings.
func Seconds(v float64) *float64 {
	return &v
}

// Timed builds a word carrying both start and end.
func Timed(word string, start, end float64) Word {
	return Word{Word: word, Start: Seconds(start), End: Seconds(end)}
}

// reads and parses a transcript JSON file
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return Parse(data)
}

// parses transcript JSON, keeping the original bytes
func Parse(data []byte) (*Transcript, error) {
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse transcript json: %w", err)
	}
	t.Raw = append([]byte(nil), data...)
	return &t, nil
}

// writes the raw result dump; the collaborator's bytes win over re-encoding
func (t *Transcript) Dump(path string) error {
	data := t.Raw
	if len(data) == 0 {
		encoded, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode transcript: %w", err)
		}
		data = encoded
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

// FullText joins every segment's text with single spaces.
func (t *Transcript) FullText() string {
	texts := make([]string, len(t.Segments))
	for i, seg := range t.Segments {
		texts[i] = seg.Text
	}
	return strings.Join(texts, " ")
}

// WordCount is the number of word timings across all segments.
func (t *Transcript) WordCount() int {
	n := 0
	for _, seg := range t.Segments {
		n += len(seg.Words)
	}
	return n
}

// Shift returns a copy of the segment moved forward by offset seconds.
// Gaps stay gaps.
func (s Segment) Shift(offset float64) Segment {
	out := Segment{
		Start: s.Start + offset,
		End:   s.End + offset,
		Text:  s.Text,
	}
	if len(s.Words) > 0 {
		out.Words = make([]Word, len(s.Words))
		for i, w := range s.Words {
			out.Words[i] = w.Shift(offset)
		}
	}
	return out
}

// Shift returns a copy of the word moved forward by offset seconds.
func (w Word) Shift(offset float64) Word {
	out := Word{Word: w.Word, Score: w.Score}
	if w.Start != nil {
		out.Start = Seconds(*w.Start + offset)
	}
	if w.End != nil {
		out.End = Seconds(*w.End + offset)
	}
	return out
}
