package transcribe

import (
	"context"
	"fmt"

	"github.com/mgpai22/srtalign/internal/audio"
	"github.com/mgpai22/srtalign/internal/logging"
	"github.com/mgpai22/srtalign/internal/transcript"
)

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error)
}

// transcribers that can split long audio across parallel requests
type ConcurrentTranscriber interface {
	Transcriber
	TranscribeWithChunks(
		ctx context.Context,
		chunks []audio.ChunkInfo,
		concurrency int,
	) (*transcript.Transcript, error)
}

// transcription service provider
type Provider string

const (
	ProviderWhisperX Provider = "whisperx"
	ProviderOpenAI   Provider = "openai"
	ProviderGemini   Provider = "gemini"
)

// transcription options
type Options struct {
	Language string // source language of audio, ISO code
	Model    string
	Prompt   string

	// whisperx only
	Device        string
	ComputeType   string
	BatchSize     int
	ChunkSize     int
	CharAlignment bool
	PrintProgress bool
	HFToken       string
}

// creates transcriber based on provider; apiKey is ignored by whisperx
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
	logger *logging.Logger,
) (Transcriber, error) {
	switch provider {
	case ProviderWhisperX:
		return NewWhisperXTranscriber(opts, logger), nil
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
