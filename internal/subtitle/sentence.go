package subtitle

import (
	"regexp"
	"strings"

	"github.com/mgpai22/srtalign/internal/transcript"
)

// punctuation followed by a whitespace run; the cut lands after the punctuation
var sentenceBoundary = regexp.MustCompile(`[.!?][\s\p{Z}]+`)

// length of a synthesized cue in seconds
const fallbackDuration = 1.0

// SplitSentences splits text after '.', '!' or '?' when whitespace follows.
// Empty pieces are dropped and the punctuation stays with its sentence.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		sentences = appendSentence(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	return appendSentence(sentences, text[start:])
}

func appendSentence(sentences []string, piece string) []string {
	piece = strings.TrimSpace(piece)
	if piece == "" {
		return sentences
	}
	return append(sentences, piece)
}

// Aligner maps each sentence of a segment to its slice of word timings.
// The returned slice has one entry per sentence; entries may be empty.
type Aligner interface {
	Align(sentences []string, words []transcript.Word) [][]transcript.Word
}

// CountAligner walks the word list in order, giving each sentence as many
// words as it has whitespace-separated tokens. Slices are clamped to the end
// of the list, so a short word list leaves trailing sentences empty.
type CountAligner struct{}

func (CountAligner) Align(sentences []string, words []transcript.Word) [][]transcript.Word {
	slices := make([][]transcript.Word, len(sentences))
	cursor := 0
	for i, sentence := range sentences {
		n := len(strings.Fields(sentence))
		from := min(cursor, len(words))
		to := min(cursor+n, len(words))
		slices[i] = words[from:to]
		cursor += n
	}
	return slices
}

// Segmenter turns segments into sentence cues.
type Segmenter struct {
	Aligner Aligner

	// OnFallback, when set, is called for every sentence whose timing had
	// to be synthesized from its predecessor.
	OnFallback func(text string)
}

func NewSegmenter(aligner Aligner) *Segmenter {
	if aligner == nil {
		aligner = CountAligner{}
	}
	return &Segmenter{Aligner: aligner}
}

// SegmentSentences splits one segment into timed sentence cues. prev is the
// cue emitted just before this segment, or nil at the start of the
// transcript; it seeds the fallback timing for sentences without usable
// word timings.
func (s *Segmenter) SegmentSentences(seg transcript.Segment, prev *SentenceCue) []SentenceCue {
	sentences := SplitSentences(seg.Text)
	if len(sentences) == 0 {
		return nil
	}

	aligner := s.Aligner
	if aligner == nil {
		aligner = CountAligner{}
	}
	slices := aligner.Align(sentences, seg.Words)

	cues := make([]SentenceCue, 0, len(sentences))
	for i, text := range sentences {
		var words []transcript.Word
		if i < len(slices) {
			words = slices[i]
		}

		start, end, ok := sentenceBounds(words)
		if !ok {
			start, end = fallbackBounds(prev)
			if s.OnFallback != nil {
				s.OnFallback(text)
			}
		}

		cue := SentenceCue{Text: text, Start: start, End: end}
		cues = append(cues, cue)
		prev = &cue
	}
	return cues
}

// Segment runs SegmentSentences over every segment in order, threading the
// last emitted cue across segment boundaries.
func (s *Segmenter) Segment(t *transcript.Transcript) []SentenceCue {
	var cues []SentenceCue
	var prev *SentenceCue
	for _, seg := range t.Segments {
		out := s.SegmentSentences(seg, prev)
		if len(out) == 0 {
			continue
		}
		cues = append(cues, out...)
		last := out[len(out)-1]
		prev = &last
	}
	return cues
}

// first known start and last known end of a word slice
func sentenceBounds(words []transcript.Word) (float64, float64, bool) {
	var start, end *float64
	for _, w := range words {
		if w.Start != nil {
			start = w.Start
			break
		}
	}
	for i := len(words) - 1; i >= 0; i-- {
		if words[i].End != nil {
			end = words[i].End
			break
		}
	}

	if start == nil || end == nil || *end < *start {
		return 0, 0, false
	}
	return *start, *end, true
}

func fallbackBounds(prev *SentenceCue) (float64, float64) {
	if prev == nil {
		return 0, fallbackDuration
	}
	return prev.End, prev.End + fallbackDuration
}
