package transcribe

import (
	"strings"
	"testing"
)

const wordTimedSegment = `{"start": 0.0, "end": 1.0, "text": "Good morning.", "words": [
	{"word": "Good", "start": 0.0, "end": 0.4},
	{"word": "morning.", "start": 0.4, "end": 1.0}
]}`

func TestExtractTranscriptSegmentsLocatesArray(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantWords int
		wantErr   bool
	}{
		{
			name:      "bare array",
			input:     "[" + wordTimedSegment + "]",
			wantCount: 1,
			wantWords: 2,
		},
		{
			name:      "prose around the array",
			input:     "Here is the word-timed transcript:\n[" + wordTimedSegment + "]\nLet me know if you need changes.",
			wantCount: 1,
			wantWords: 2,
		},
		{
			name:      "segments wrapper",
			input:     `{"segments": [` + wordTimedSegment + `]}`,
			wantCount: 1,
			wantWords: 2,
		},
		{
			name:      "unknown wrapper key nested twice",
			input:     `{"result": {"items": [` + wordTimedSegment + `]}}`,
			wantCount: 1,
			wantWords: 2,
		},
		{
			name:      "number array skipped for the transcript",
			input:     "[1, 2]\n[" + wordTimedSegment + `, {"start": 1.0, "end": 2.0, "text": "No words."}]`,
			wantCount: 2,
			wantWords: 2,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantErr: true,
		},
		{
			name:    "all-zero segments",
			input:   `[{"start": 0, "end": 0, "text": ""}]`,
			wantErr: true,
		},
		{
			name:    "truncated JSON",
			input:   `[{"start": 0.0, "end": 1.0, "text": "cut`,
			wantErr: true,
		},
		{
			name:    "plain text",
			input:   `I could not hear any speech.`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := extractTranscriptSegments(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(segments) != tt.wantCount {
				t.Fatalf("got %d segments, want %d", len(segments), tt.wantCount)
			}
			if got := len(segments[0].Words); got != tt.wantWords {
				t.Errorf("got %d words in first segment, want %d", got, tt.wantWords)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	want := "[" + wordTimedSegment + "]"
	inputs := []string{
		want,
		"```json\n" + want + "\n```",
		"  \n```\n" + want + "\n```\n ",
	}

	for _, input := range inputs {
		if got := cleanJSONResponse(input); got != want {
			t.Errorf("cleanJSONResponse(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestValidateSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []transcriptSegment
		want     bool
	}{
		{"nil", nil, false},
		{"only zero values", []transcriptSegment{{}, {}}, false},
		{"timing without text", []transcriptSegment{{}, {End: 2.0}}, true},
		{"text without timing", []transcriptSegment{{Text: "hello"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateSegments(tt.segments); got != tt.want {
				t.Errorf("validateSegments() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("abcdef", 3); got != "abc..." {
		t.Errorf("expected abc..., got %q", got)
	}
	if got := truncateString("abc", 3); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
}

func TestExtractTranscriptSegmentsWords(t *testing.T) {
	input := `[{"start": 0, "end": 1.2, "text": "Hi there.", "words": [
		{"word": "Hi", "start": 0, "end": 0.2},
		{"word": "there", "start": 0.2, "end": null}
	]}, {"start": 2, "end": 3, "text": "   "}]`

	raw, err := extractTranscriptSegments(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	segments := toSegments(raw)
	if len(segments) != 1 {
		t.Fatalf("expected blank segment dropped, got %d segments", len(segments))
	}
	words := segments[0].Words
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[1].Start == nil || *words[1].Start != 0.2 {
		t.Errorf("expected start 0.2 on second word, got %v", words[1].Start)
	}
	if words[1].End != nil {
		t.Errorf("expected null end to stay a gap, got %v", *words[1].End)
	}
}

func TestBuildTranscriptionPrompt(t *testing.T) {
	tr := &GeminiTranscriber{options: Options{Language: "ja", Prompt: "Speaker is a chef."}}
	prompt := tr.buildTranscriptionPrompt()

	for _, want := range []string{"'words'", "The audio is in ja", "Speaker is a chef.", "Return ONLY the JSON array"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q: %s", want, prompt)
		}
	}
}
