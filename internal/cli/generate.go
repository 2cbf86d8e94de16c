package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mgpai22/srtalign/internal/audio"
	"github.com/mgpai22/srtalign/internal/cache"
	"github.com/mgpai22/srtalign/internal/config"
	"github.com/mgpai22/srtalign/internal/logging"
	"github.com/mgpai22/srtalign/internal/subtitle"
	"github.com/mgpai22/srtalign/internal/transcribe"
	"github.com/mgpai22/srtalign/internal/transcript"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Transcribe an audio or video file and write word-aligned SRT subtitles",
	Long: `Transcribe the specified audio or video file and build SRT subtitles from
the word timings of the transcript.

By default the local WhisperX aligner is used (run through uvx). The hosted
openai and gemini providers are also supported; for those the audio is
compressed, split into chunks and transcribed in parallel.

The raw transcript is saved next to the media as JSON before the subtitles
are built, so they can be rebuilt later with "srtalign render".

Examples:
  srtalign generate video.mp4
  srtalign generate video.mp4 -l en --device cpu --compute-type int8
  srtalign generate podcast.mp3 --provider openai -d 5 --concurrency 4
  srtalign generate lecture.mkv --max-line-chars 32 -o lecture.ja.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		StringP("provider", "p", "", "Transcription provider (whisperx, openai, gemini)")
	generateCmd.Flags().
		String("model", "", "Model to use (provider-specific, uses sensible defaults)")
	generateCmd.Flags().
		StringP("api-key", "k", "", "API key for openai/gemini (or set OPENAI_API_KEY/GEMINI_API_KEY env var)")
	generateCmd.Flags().
		IntP("chunk-duration", "d", 0, "Chunk duration in minutes for API providers")
	generateCmd.Flags().
		Int("concurrency", 0, "Number of parallel transcription workers for API providers")
	generateCmd.Flags().
		String("device", "", "WhisperX device (cuda, cpu)")
	generateCmd.Flags().
		String("compute-type", "", "WhisperX compute type (float16, float32, int8)")
	generateCmd.Flags().
		String("json", "", "Path for the raw transcript dump (default <media>.json)")
	generateCmd.Flags().
		Bool("no-cache", false, "Skip the transcript cache")
	addSubtitleFlags(generateCmd)
}

// shared by generate and render
func addSubtitleFlags(cmd *cobra.Command) {
	cmd.Flags().
		Float64("min-cue-duration", 0, "Minimum cue duration in seconds before merging")
	cmd.Flags().
		Int("max-line-chars", 0, "Maximum characters per subtitle line")
}

func applySubtitleFlags(cmd *cobra.Command, c *config.Config) {
	if cmd.Flags().Changed("min-cue-duration") {
		c.Subtitles.MinCueDuration, _ = cmd.Flags().GetFloat64("min-cue-duration")
	}
	if cmd.Flags().Changed("max-line-chars") {
		c.Subtitles.MaxLineChars, _ = cmd.Flags().GetInt("max-line-chars")
	}
}

// copies explicitly set flags over the loaded config and re-validates it
func applyGenerateFlags(cmd *cobra.Command, c *config.Config) error {
	tc := &c.Transcription
	flags := cmd.Flags()

	if flags.Changed("provider") {
		provider, _ := flags.GetString("provider")
		provider = strings.ToLower(strings.TrimSpace(provider))
		if !flags.Changed("model") && tc.Model == config.DefaultModel(tc.Provider) {
			tc.Model = config.DefaultModel(provider)
		}
		tc.Provider = provider
	}
	if flags.Changed("model") {
		tc.Model, _ = flags.GetString("model")
	}
	if flags.Changed("api-key") {
		key, _ := flags.GetString("api-key")
		switch transcribe.Provider(tc.Provider) {
		case transcribe.ProviderOpenAI:
			tc.OpenAIAPIKey = key
		case transcribe.ProviderGemini:
			tc.GeminiAPIKey = key
		}
	}
	if flags.Changed("chunk-duration") {
		tc.ChunkMinutes, _ = flags.GetInt("chunk-duration")
	}
	if flags.Changed("concurrency") {
		tc.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("device") {
		tc.Device, _ = flags.GetString("device")
	}
	if flags.Changed("compute-type") {
		tc.ComputeType, _ = flags.GetString("compute-type")
	}
	if flags.Changed("no-cache") {
		noCache, _ := flags.GetBool("no-cache")
		c.Cache.Enabled = !noCache
	}
	applySubtitleFlags(cmd, c)

	return c.Validate()
}

func apiKeyFor(tc config.Transcription) string {
	switch transcribe.Provider(tc.Provider) {
	case transcribe.ProviderOpenAI:
		return tc.OpenAIAPIKey
	case transcribe.ProviderGemini:
		return tc.GeminiAPIKey
	default:
		return ""
	}
}

func transcribeOptions(tc config.Transcription) transcribe.Options {
	return transcribe.Options{
		Language:      tc.Language,
		Model:         tc.Model,
		Prompt:        tc.Prompt,
		Device:        tc.Device,
		ComputeType:   tc.ComputeType,
		BatchSize:     tc.BatchSize,
		ChunkSize:     tc.ChunkSize,
		CharAlignment: tc.CharAlignment,
		PrintProgress: tc.PrintProgress,
		HFToken:       tc.HFToken,
	}
}

// <media without ext> + ext, unless override is set
func siblingPath(mediaPath, override, ext string) string {
	if override != "" {
		return override
	}
	return strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ext
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := cmd.Context()
	started := time.Now()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	if err := applyGenerateFlags(cmd, cfg); err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	jsonPath, _ := cmd.Flags().GetString("json")
	outputPath = siblingPath(mediaPath, outputPath, ".srt")
	jsonPath = siblingPath(mediaPath, jsonPath, ".json")

	tc := cfg.Transcription
	log := logger.With("run_id", uuid.NewString())

	log.Infow("Starting subtitle generation",
		"input", mediaPath,
		"output", outputPath,
		"provider", tc.Provider,
		"model", tc.Model,
		"language", tc.Language,
	)

	store := openCache(ctx, log, cfg)
	if store != nil {
		defer store.Close()
	}

	result, cached, err := cachedTranscript(ctx, log, store, mediaPath, tc)
	if err != nil {
		return err
	}
	if !cached {
		result, err = transcribeMedia(ctx, log, tc, mediaPath)
		if err != nil {
			return fmt.Errorf("transcription failed: %w", err)
		}
		if result.Language == "" {
			result.Language = tc.Language
		}
		storeTranscript(ctx, log, store, mediaPath, tc, result)
	}

	log.Infow("Transcription ready",
		"segments", len(result.Segments),
		"words", result.WordCount(),
		"cached", cached,
	)

	if err := result.Dump(jsonPath); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}

	sub, err := buildAndWrite(log, result, outputPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(out, "Transcription complete. SRT file saved as: %s\n", absOutput)

	report := checkCompleteness(out, log, result, outputPath)

	printSummary(out, runSummary{
		Media:      mediaPath,
		Transcript: jsonPath,
		Subtitles:  outputPath,
		Provider:   tc.Provider,
		Model:      tc.Model,
		Language:   sub.Language,
		Segments:   len(result.Segments),
		Words:      result.WordCount(),
		Sentences:  sub.Sentences,
		Cues:       len(sub.Cues),
		Fallbacks:  sub.Fallbacks,
		Report:     report,
		Cached:     cached,
		Elapsed:    time.Since(started),
	})

	return nil
}

// builds cues from the transcript and writes them to outputPath
func buildAndWrite(log *logging.Logger, t *transcript.Transcript, outputPath string) (*subtitle.Subtitle, error) {
	sub := subtitle.NewBuilder(subtitleOptions(cfg), log).Build(t)
	if sub.Fallbacks > 0 {
		log.Debugw("Some sentences were timed without word alignment",
			"fallbacks", sub.Fallbacks,
		)
	}
	if err := subtitle.WriteSRTFile(outputPath, sub.Cues); err != nil {
		return nil, fmt.Errorf("failed to write subtitles: %w", err)
	}
	return sub, nil
}

// prepares audio for the provider and runs the transcriber over it
func transcribeMedia(
	ctx context.Context,
	log *logging.Logger,
	tc config.Transcription,
	mediaPath string,
) (*transcript.Transcript, error) {
	provider := transcribe.Provider(tc.Provider)
	transcriber, err := transcribe.Factory(ctx, provider, apiKeyFor(tc), transcribeOptions(tc), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcriber: %w", err)
	}
	if closer, ok := transcriber.(io.Closer); ok {
		defer closer.Close()
	}

	tempDir, err := os.MkdirTemp("", "srtalign-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if provider == transcribe.ProviderWhisperX {
		log.Infow("Preparing audio for alignment")
		audioPath, err := audio.Prepare(ctx, mediaPath, tempDir, audio.AlignerOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to prepare audio: %w", err)
		}
		return transcriber.Transcribe(ctx, audioPath)
	}

	log.Infow("Compressing audio for transcription")
	audioPath, err := audio.Prepare(ctx, mediaPath, tempDir, audio.CompressionOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to compress audio: %w", err)
	}

	concurrent, ok := transcriber.(transcribe.ConcurrentTranscriber)
	if !ok {
		return transcriber.Transcribe(ctx, audioPath)
	}

	chunkDur := time.Duration(tc.ChunkMinutes) * time.Minute
	log.Infow("Splitting audio into chunks",
		"chunk_duration", chunkDur.String(),
	)
	chunks, err := audio.ChunkAudioConcurrent(ctx, audioPath, chunkDur, filepath.Join(tempDir, "chunks"), tc.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to split audio: %w", err)
	}

	log.Infow("Transcribing audio",
		"chunks", len(chunks),
		"concurrency", tc.Concurrency,
	)
	return concurrent.TranscribeWithChunks(ctx, chunks, tc.Concurrency)
}

// opens the transcript cache; failures disable caching for this run
func openCache(ctx context.Context, log *logging.Logger, c *config.Config) *cache.Store {
	if !c.Cache.Enabled {
		return nil
	}
	store, err := cache.Open(ctx, c.Cache.Path)
	if err != nil {
		log.Warnw("Transcript cache unavailable",
			"path", c.Cache.Path,
			"error", err,
		)
		return nil
	}
	return store
}

func cacheKey(mediaPath string, tc config.Transcription) (cache.Key, error) {
	return cache.NewKey(mediaPath, tc.Provider, tc.Model, tc.Language)
}

func cachedTranscript(
	ctx context.Context,
	log *logging.Logger,
	store *cache.Store,
	mediaPath string,
	tc config.Transcription,
) (*transcript.Transcript, bool, error) {
	if store == nil {
		return nil, false, nil
	}
	key, err := cacheKey(mediaPath, tc)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read media: %w", err)
	}
	t, ok, err := store.Get(ctx, key)
	if err != nil {
		log.Warnw("Transcript cache lookup failed", "error", err)
		return nil, false, nil
	}
	if ok {
		log.Infow("Using cached transcript", "media_hash", key.MediaHash)
	}
	return t, ok, nil
}

func storeTranscript(
	ctx context.Context,
	log *logging.Logger,
	store *cache.Store,
	mediaPath string,
	tc config.Transcription,
	t *transcript.Transcript,
) {
	if store == nil {
		return
	}
	key, err := cacheKey(mediaPath, tc)
	if err == nil {
		err = store.Put(ctx, key, t)
	}
	if err != nil {
		log.Warnw("Failed to cache transcript", "error", err)
	}
}
