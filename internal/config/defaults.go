package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultConfigPath      = "~/.config/srtalign/config.toml"
	projectConfigName      = "srtalign.toml"
	defaultMinCueDuration  = 3.0
	defaultMaxLineChars    = 42
	defaultProvider        = "whisperx"
	defaultLanguage        = "ja"
	defaultDevice          = "cuda"
	defaultComputeType     = "float16"
	defaultBatchSize       = 16
	defaultChunkSize       = 10
	defaultChunkMinutes    = 10
	defaultConcurrency     = 3
	defaultWhisperXModel   = "large-v3-turbo"
	defaultOpenAIModel     = "whisper-1"
	defaultGeminiModel     = "gemini-2.5-flash"
	defaultCacheEnabled    = true
	defaultCacheFileName   = "transcripts.db"
	defaultCacheSubdirName = "srtalign"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Subtitles: Subtitles{
			MinCueDuration: defaultMinCueDuration,
			MaxLineChars:   defaultMaxLineChars,
		},
		Transcription: Transcription{
			Provider:      defaultProvider,
			Language:      defaultLanguage,
			Device:        defaultDevice,
			ComputeType:   defaultComputeType,
			BatchSize:     defaultBatchSize,
			ChunkSize:     defaultChunkSize,
			CharAlignment: true,
			PrintProgress: true,
			ChunkMinutes:  defaultChunkMinutes,
			Concurrency:   defaultConcurrency,
		},
		Cache: Cache{
			Enabled: defaultCacheEnabled,
			Path:    defaultCachePath(),
		},
	}
}

// DefaultModel is the model used for provider when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		return defaultOpenAIModel
	case "gemini":
		return defaultGeminiModel
	default:
		return defaultWhisperXModel
	}
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, defaultCacheSubdirName, defaultCacheFileName)
	}
	return "~/.cache/" + defaultCacheSubdirName + "/" + defaultCacheFileName
}
