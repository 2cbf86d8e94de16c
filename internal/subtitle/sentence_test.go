package subtitle

import (
	"reflect"
	"testing"

	"github.com/mgpai22/srtalign/internal/transcript"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
	}{
		{"Hi there. How are you?", []string{"Hi there.", "How are you?"}},
		{"Wait!  Really?\nYes.", []string{"Wait!", "Really?", "Yes."}},
		{"No boundary here", []string{"No boundary here"}},
		{"Version 1.5 is out.", []string{"Version 1.5 is out."}},
		{"  Trailing space.  ", []string{"Trailing space."}},
		{"", nil},
		{"   ", nil},
	}

	for _, tt := range tests {
		got := SplitSentences(tt.text)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("SplitSentences(%q): expected %q, got %q", tt.text, tt.expected, got)
		}
	}
}

func TestCountAlignerClampsShortWordList(t *testing.T) {
	words := []transcript.Word{
		transcript.Timed("one", 0, 1),
		transcript.Timed("two", 1, 2),
		transcript.Timed("three", 2, 3),
	}

	slices := CountAligner{}.Align([]string{"one two.", "three four.", "five."}, words)
	if len(slices) != 3 {
		t.Fatalf("expected 3 slices, got %d", len(slices))
	}
	if len(slices[0]) != 2 || len(slices[1]) != 1 || len(slices[2]) != 0 {
		t.Errorf("expected slice lengths 2,1,0, got %d,%d,%d",
			len(slices[0]), len(slices[1]), len(slices[2]))
	}
}

func TestSegmentSentences(t *testing.T) {
	seg := transcript.Segment{
		Text: "Hi there. How are you?",
		Words: []transcript.Word{
			transcript.Timed("Hi", 0, 0.2),
			transcript.Timed("there", 0.2, 0.5),
			transcript.Timed("How", 0.6, 0.8),
			transcript.Timed("are", 0.8, 0.9),
			transcript.Timed("you", 0.9, 1.2),
		},
	}

	got := NewSegmenter(nil).SegmentSentences(seg, nil)
	expected := []SentenceCue{
		{Text: "Hi there.", Start: 0, End: 0.5},
		{Text: "How are you?", Start: 0.6, End: 1.2},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %+v, got %+v", expected, got)
	}
}

func TestSegmentSentencesSkipsUntimedEdges(t *testing.T) {
	seg := transcript.Segment{
		Text: "Well then here we go.",
		Words: []transcript.Word{
			{Word: "Well"},
			{Word: "then", Start: transcript.Seconds(1.5), End: transcript.Seconds(1.8)},
			{Word: "here", Start: transcript.Seconds(1.9), End: transcript.Seconds(2.1)},
			{Word: "we", Start: transcript.Seconds(2.2)},
			{Word: "go"},
		},
	}

	got := NewSegmenter(nil).SegmentSentences(seg, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(got))
	}
	if got[0].Start != 1.5 || got[0].End != 2.1 {
		t.Errorf("expected [1.5, 2.1], got [%v, %v]", got[0].Start, got[0].End)
	}
}

func TestSegmentFallback(t *testing.T) {
	tr := &transcript.Transcript{
		Segments: []transcript.Segment{
			{Text: "Nothing aligned here."},
			{Text: "Timed words. Then silence.", Words: []transcript.Word{
				transcript.Timed("Timed", 4, 4.5),
				transcript.Timed("words", 4.5, 5),
			}},
			{Text: "Still nothing."},
		},
	}

	var fallbacks []string
	seg := NewSegmenter(nil)
	seg.OnFallback = func(text string) { fallbacks = append(fallbacks, text) }

	got := seg.Segment(tr)
	expected := []SentenceCue{
		{Text: "Nothing aligned here.", Start: 0, End: 1},
		{Text: "Timed words.", Start: 4, End: 5},
		{Text: "Then silence.", Start: 5, End: 6},
		{Text: "Still nothing.", Start: 6, End: 7},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %+v, got %+v", expected, got)
	}
	if len(fallbacks) != 3 {
		t.Errorf("expected 3 fallbacks, got %d: %q", len(fallbacks), fallbacks)
	}
}

func TestSegmentFallbackOnInvertedTiming(t *testing.T) {
	prev := &SentenceCue{Text: "Before.", Start: 1, End: 2}
	seg := transcript.Segment{
		Text: "Backwards.",
		Words: []transcript.Word{
			{Word: "Backwards", Start: transcript.Seconds(5), End: transcript.Seconds(4)},
		},
	}

	got := NewSegmenter(nil).SegmentSentences(seg, prev)
	if len(got) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(got))
	}
	if got[0].Start != 2 || got[0].End != 3 {
		t.Errorf("expected fallback [2, 3], got [%v, %v]", got[0].Start, got[0].End)
	}
}

type fixedAligner struct {
	slices [][]transcript.Word
}

func (a fixedAligner) Align([]string, []transcript.Word) [][]transcript.Word {
	return a.slices
}

func TestSegmenterUsesCustomAligner(t *testing.T) {
	seg := transcript.Segment{Text: "First. Second."}
	aligner := fixedAligner{slices: [][]transcript.Word{
		{transcript.Timed("x", 10, 11)},
	}}

	got := NewSegmenter(aligner).SegmentSentences(seg, nil)
	expected := []SentenceCue{
		{Text: "First.", Start: 10, End: 11},
		{Text: "Second.", Start: 11, End: 12},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %+v, got %+v", expected, got)
	}
}
