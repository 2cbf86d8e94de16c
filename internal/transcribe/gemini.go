package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/mgpai22/srtalign/internal/audio"
	"github.com/mgpai22/srtalign/internal/transcript"
)

// implements Transcriber interface using Google Gemini
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

// word from Gemini's JSON response
type transcriptWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// segment from Gemini's JSON response
type transcriptSegment struct {
	Start float64          `json:"start"`
	End   float64          `json:"end"`
	Text  string           `json:"text"`
	Words []transcriptWord `json:"words"`
}

// keys tried first when the model wraps its array in an object
var wrapperKeys = []string{"segments", "transcript", "data"}

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*")

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	uploadedFile, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}

	defer func() {
		_, _ = t.client.Files.Delete(ctx, uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(t.buildTranscriptionPrompt()),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := t.parseTranscriptionResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}

	return &transcript.Transcript{
		Segments: segments,
		Language: t.options.Language,
	}, nil
}

// transcribes multiple chunks in parallel
func (t *GeminiTranscriber) TranscribeWithChunks(ctx context.Context, chunks []audio.ChunkInfo, concurrency int) (*transcript.Transcript, error) {
	segments, err := transcribeChunks(ctx, chunks, concurrency, shiftedChunk(t))
	if err != nil {
		return nil, err
	}

	return &transcript.Transcript{
		Segments: segments,
		Language: t.options.Language,
	}, nil
}

// creates the prompt for transcription
func (t *GeminiTranscriber) buildTranscriptionPrompt() string {
	var sb strings.Builder

	sb.WriteString("Generate a detailed transcript of this audio. ")
	sb.WriteString("Split it into segments of one or more sentences. ")
	sb.WriteString("For each segment provide the start timestamp, end timestamp, the exact text spoken, ")
	sb.WriteString("and a 'words' array listing every spoken word in order with its own 'word', 'start' and 'end'. ")
	sb.WriteString("Format your response as a JSON array of objects with 'start', 'end', 'text' and 'words' fields, ")
	sb.WriteString("where every timestamp is in seconds (as numbers). ")
	sb.WriteString("Use null for a word timestamp you cannot determine. ")

	if t.options.Language != "" {
		sb.WriteString(fmt.Sprintf("The audio is in %s; transcribe it in that language. ", t.options.Language))
	}

	if t.options.Prompt != "" {
		sb.WriteString(t.options.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")

	return sb.String()
}

// parses Gemini's response into segments
func (t *GeminiTranscriber) parseTranscriptionResponse(result *genai.GenerateContentResponse) ([]transcript.Segment, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, candidate := range result.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					responseText += part.Text
				}
			}
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	raw, err := extractTranscriptSegments(cleanJSONResponse(responseText))
	if err != nil {
		return nil, fmt.Errorf("%w (response: %s)", err, truncateString(responseText, 200))
	}

	return toSegments(raw), nil
}

// finds the first JSON array in s that decodes into usable segments. The
// model sometimes adds prose around the JSON or wraps the array in an object.
func extractTranscriptSegments(s string) ([]transcriptSegment, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '[' && s[i] != '{' {
			continue
		}

		var value json.RawMessage
		if err := json.NewDecoder(strings.NewReader(s[i:])).Decode(&value); err != nil {
			continue
		}

		if segments, ok := segmentsFromJSON(value); ok {
			return segments, nil
		}
	}

	return nil, fmt.Errorf("no transcript segments found in response")
}

func segmentsFromJSON(value json.RawMessage) ([]transcriptSegment, bool) {
	trimmed := strings.TrimSpace(string(value))
	if trimmed == "" {
		return nil, false
	}

	switch trimmed[0] {
	case '[':
		var segments []transcriptSegment
		if err := json.Unmarshal(value, &segments); err != nil {
			return nil, false
		}
		return segments, validateSegments(segments)

	case '{':
		var object map[string]json.RawMessage
		if err := json.Unmarshal(value, &object); err != nil {
			return nil, false
		}
		for _, key := range wrapperKeys {
			if nested, ok := object[key]; ok {
				if segments, ok := segmentsFromJSON(nested); ok {
					return segments, true
				}
			}
		}
		for _, nested := range object {
			if segments, ok := segmentsFromJSON(nested); ok {
				return segments, true
			}
		}
	}

	return nil, false
}

// a segment list is usable if any entry carries text or a timestamp
func validateSegments(segments []transcriptSegment) bool {
	for _, seg := range segments {
		if seg.Text != "" || seg.Start != 0 || seg.End != 0 {
			return true
		}
	}
	return false
}

func toSegments(raw []transcriptSegment) []transcript.Segment {
	segments := make([]transcript.Segment, 0, len(raw))
	for _, ts := range raw {
		text := strings.TrimSpace(ts.Text)
		if text == "" {
			continue
		}

		seg := transcript.Segment{
			Start: ts.Start,
			End:   ts.End,
			Text:  text,
		}
		for _, w := range ts.Words {
			seg.Words = append(seg.Words, transcript.Word{
				Word:  strings.TrimSpace(w.Word),
				Start: w.Start,
				End:   w.End,
			})
		}
		segments = append(segments, seg)
	}
	return segments
}

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func (t *GeminiTranscriber) Close() error {
	return nil
}
