package subtitle

import (
	"reflect"
	"testing"

	"github.com/mgpai22/srtalign/internal/transcript"
)

func sampleTranscript() *transcript.Transcript {
	return &transcript.Transcript{
		Language: "en",
		Segments: []transcript.Segment{
			{
				Start: 0,
				End:   1.2,
				Text:  "Hi there. How are you?",
				Words: []transcript.Word{
					transcript.Timed("Hi", 0, 0.2),
					transcript.Timed("there", 0.2, 0.5),
					transcript.Timed("How", 0.6, 0.8),
					transcript.Timed("are", 0.8, 0.9),
					transcript.Timed("you", 0.9, 1.2),
				},
			},
			{
				Start: 2,
				End:   9,
				Text:  "This sentence is long enough to need wrapping on a narrow screen.",
				Words: []transcript.Word{
					transcript.Timed("This", 2, 2.4),
					transcript.Timed("sentence", 2.4, 3),
					transcript.Timed("is", 3, 3.2),
					transcript.Timed("long", 3.2, 3.6),
					transcript.Timed("enough", 3.6, 4),
					transcript.Timed("to", 4, 4.2),
					transcript.Timed("need", 4.2, 4.6),
					transcript.Timed("wrapping", 4.6, 5.2),
					transcript.Timed("on", 5.2, 5.4),
					transcript.Timed("a", 5.4, 5.5),
					transcript.Timed("narrow", 5.5, 6),
					{Word: "screen."},
				},
			},
			{
				Text: "Unaligned tail.",
			},
		},
	}
}

func TestBuilderBuild(t *testing.T) {
	b := NewBuilder(Options{MaxLineChars: 30}, nil)
	sub := b.Build(sampleTranscript())

	if sub.Language != "en" {
		t.Errorf("expected language en, got %q", sub.Language)
	}
	if sub.Sentences != 4 {
		t.Errorf("expected 4 sentences, got %d", sub.Sentences)
	}
	if sub.Fallbacks != 1 {
		t.Errorf("expected 1 fallback, got %d", sub.Fallbacks)
	}

	expected := []RenderedCue{
		{
			Index: 1,
			Start: 0,
			End:   1.2,
			Lines: []string{"Hi there. How are you?"},
		},
		{
			Index: 2,
			Start: 2,
			End:   6,
			Lines: []string{
				"This sentence is long enough",
				"to need wrapping on a narrow",
				"screen.",
			},
		},
		{
			Index: 3,
			Start: 6,
			End:   7,
			Lines: []string{"Unaligned tail."},
		},
	}
	if !reflect.DeepEqual(sub.Cues, expected) {
		t.Errorf("expected %+v, got %+v", expected, sub.Cues)
	}
}

func TestBuilderDefaults(t *testing.T) {
	opts := NewBuilder(Options{}, nil).Options()
	if opts.MinCueDuration != DefaultMinCueDuration {
		t.Errorf("expected min duration %v, got %v", DefaultMinCueDuration, opts.MinCueDuration)
	}
	if opts.MaxLineChars != DefaultMaxLineChars {
		t.Errorf("expected max chars %d, got %d", DefaultMaxLineChars, opts.MaxLineChars)
	}
}

func TestBuilderLanguageHint(t *testing.T) {
	tr := &transcript.Transcript{Segments: []transcript.Segment{{Text: "Hola."}}}
	sub := NewBuilder(Options{LanguageHint: "es"}, nil).Build(tr)
	if sub.Language != "es" {
		t.Errorf("expected hint language es, got %q", sub.Language)
	}
}

func TestBuildIndicesAndRanges(t *testing.T) {
	tr := sampleTranscript()
	tr.Segments = append(tr.Segments,
		transcript.Segment{Text: "More. And more! Done?", Words: []transcript.Word{
			transcript.Timed("More", 20, 20.5),
			{Word: "And", Start: transcript.Seconds(21)},
			{Word: "more", End: transcript.Seconds(20.9)},
		}},
		transcript.Segment{Text: ""},
	)

	for _, minDuration := range []float64{0.5, 1, 3, 10} {
		sub := NewBuilder(Options{MinCueDuration: minDuration}, nil).Build(tr)
		if len(sub.Cues) == 0 {
			t.Fatalf("min %v: expected cues", minDuration)
		}
		if issues := Validate(sub.Cues); len(issues) > 0 {
			t.Errorf("min %v: unexpected issues %q", minDuration, issues)
		}
	}
}

func TestBuildEmptyTranscript(t *testing.T) {
	sub := NewBuilder(DefaultOptions(), nil).Build(&transcript.Transcript{})
	if len(sub.Cues) != 0 {
		t.Errorf("expected no cues, got %d", len(sub.Cues))
	}
}
