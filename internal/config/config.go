// Package config loads srtalign's TOML configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Subtitles controls cue construction.
type Subtitles struct {
	MinCueDuration float64 `toml:"min_cue_duration" validate:"gt=0"`
	MaxLineChars   int     `toml:"max_line_chars" validate:"gte=1"`
	// LanguageHint defaults to transcription.language when empty.
	LanguageHint string `toml:"language_hint"`
}

// Transcription selects and tunes the speech recognition collaborator.
type Transcription struct {
	Provider string `toml:"provider" validate:"oneof=whisperx openai gemini"`
	Model    string `toml:"model"`
	Language string `toml:"language"`

	// whisperx only
	Device        string `toml:"device" validate:"oneof=cuda cpu"`
	ComputeType   string `toml:"compute_type" validate:"oneof=float16 float32 int8"`
	BatchSize     int    `toml:"batch_size" validate:"gte=1"`
	ChunkSize     int    `toml:"chunk_size" validate:"gte=1"`
	CharAlignment bool   `toml:"char_alignment"`
	PrintProgress bool   `toml:"print_progress"`
	HFToken       string `toml:"hf_token"`

	// API providers
	ChunkMinutes int    `toml:"chunk_minutes" validate:"gte=1,lte=60"`
	Concurrency  int    `toml:"concurrency" validate:"gte=1,lte=16"`
	OpenAIAPIKey string `toml:"openai_api_key"`
	GeminiAPIKey string `toml:"gemini_api_key"`
	Prompt       string `toml:"prompt"`
}

// Cache configures the transcript cache database.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path" validate:"required_if=Enabled true"`
}

// Config encapsulates all configuration values for srtalign.
type Config struct {
	Subtitles     Subtitles     `toml:"subtitles"`
	Transcription Transcription `toml:"transcription"`
	Cache         Cache         `toml:"cache"`
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, normalizes and validates a configuration file. A
// missing file is not an error; defaults apply. The resolved path and whether
// it existed are returned alongside the config.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// SampleConfig returns the commented sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the sample configuration to path. An existing file is
// left alone unless overwrite is set.
func CreateSample(path string, overwrite bool) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(expanded); err == nil {
			return fmt.Errorf("config already exists at %s", expanded)
		}
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
