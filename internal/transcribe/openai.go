package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mgpai22/srtalign/internal/audio"
	"github.com/mgpai22/srtalign/internal/transcript"
)

// implements Transcriber interface using OpenAI Audio API
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// word from verbose_json with word granularity
type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// segment from OpenAI Whisper verbose_json response
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Words    []whisperWord    `json:"words"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file with word and segment timestamps
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*transcript.Transcript, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	duration, _ := audio.GetDuration(audioPath)

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word", "segment"},
	}

	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}

	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, err := t.parseVerboseJSONResponse(resp.RawJSON(), duration)
	if err != nil {
		segments = []transcript.Segment{{
			Start: 0,
			End:   duration.Seconds(),
			Text:  strings.TrimSpace(resp.Text),
		}}
	}

	return &transcript.Transcript{
		Segments: segments,
		Language: t.options.Language,
	}, nil
}

func (t *OpenAITranscriber) parseVerboseJSONResponse(
	rawJSON string,
	fallbackDuration time.Duration,
) ([]transcript.Segment, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var verboseResp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verboseResp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(verboseResp.Segments) == 0 {
		if verboseResp.Text == "" {
			return nil, fmt.Errorf("no segments or text in response")
		}
		end := fallbackDuration.Seconds()
		if verboseResp.Duration > 0 {
			end = verboseResp.Duration
		}
		return assignWords([]transcript.Segment{{
			Start: 0,
			End:   end,
			Text:  strings.TrimSpace(verboseResp.Text),
		}}, verboseResp.Words), nil
	}

	segments := make([]transcript.Segment, 0, len(verboseResp.Segments))
	for _, seg := range verboseResp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, transcript.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}

	return assignWords(segments, verboseResp.Words), nil
}

// distributes the response's flat word list over its segments; a word
// belongs to the last segment that starts at or before it
func assignWords(segments []transcript.Segment, words []whisperWord) []transcript.Segment {
	if len(segments) == 0 {
		return segments
	}

	i := 0
	for _, w := range words {
		for i+1 < len(segments) && w.Start >= segments[i+1].Start {
			i++
		}
		segments[i].Words = append(segments[i].Words,
			transcript.Timed(strings.TrimSpace(w.Word), w.Start, w.End))
	}
	return segments
}

// transcribes multiple chunks in parallel
func (t *OpenAITranscriber) TranscribeWithChunks(
	ctx context.Context,
	chunks []audio.ChunkInfo,
	concurrency int,
) (*transcript.Transcript, error) {
	segments, err := transcribeChunks(ctx, chunks, concurrency, shiftedChunk(t))
	if err != nil {
		return nil, err
	}

	return &transcript.Transcript{
		Segments: segments,
		Language: t.options.Language,
	}, nil
}

func (t *OpenAITranscriber) Close() error {
	return nil
}
