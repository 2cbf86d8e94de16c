// Package completeness compares the words of a transcript with the words
// that made it into a rendered SRT file.
package completeness

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mgpai22/srtalign/internal/transcript"
)

// word characters, optionally joined by internal apostrophes
var wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+(?:'+[\p{L}\p{M}\p{N}_]+)*`)

// Report is the outcome of a completeness check.
type Report struct {
	// Missing holds words of the transcript absent from the SRT, sorted.
	Missing []string

	TranscriptWords int
	RenderedWords   int
}

func (r *Report) Complete() bool {
	return len(r.Missing) == 0
}

// ExtractWords returns the set of lowercase word tokens in text.
func ExtractWords(text string) map[string]struct{} {
	lower := cases.Lower(language.Und).String(text)

	words := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(lower, -1) {
		words[w] = struct{}{}
	}
	return words
}

// Missing lists the words of original that rendered lacks, sorted.
func Missing(original, rendered string) []string {
	have := ExtractWords(rendered)

	var missing []string
	for w := range ExtractWords(original) {
		if _, ok := have[w]; !ok {
			missing = append(missing, w)
		}
	}
	sort.Strings(missing)
	return missing
}

// Compare builds a report from the two texts.
func Compare(original, rendered string) *Report {
	return &Report{
		Missing:         Missing(original, rendered),
		TranscriptWords: len(ExtractWords(original)),
		RenderedWords:   len(ExtractWords(rendered)),
	}
}

// Check compares the transcript with the whole text of the SRT at srtPath.
// Index and timestamp lines count as rendered text; the file is not parsed.
func Check(t *transcript.Transcript, srtPath string) (*Report, error) {
	data, err := os.ReadFile(srtPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered subtitles: %w", err)
	}
	return Compare(t.FullText(), string(data)), nil
}
