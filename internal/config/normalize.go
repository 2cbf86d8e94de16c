package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizeTranscription(); err != nil {
		return err
	}
	if err := c.normalizeSubtitles(); err != nil {
		return err
	}
	return c.normalizeCache()
}

func (c *Config) normalizeTranscription() error {
	t := &c.Transcription
	t.Provider = strings.ToLower(strings.TrimSpace(t.Provider))
	if t.Provider == "" {
		t.Provider = defaultProvider
	}
	t.Model = strings.TrimSpace(t.Model)
	if t.Model == "" {
		t.Model = DefaultModel(t.Provider)
	}
	t.Device = strings.ToLower(strings.TrimSpace(t.Device))
	t.ComputeType = strings.ToLower(strings.TrimSpace(t.ComputeType))

	lang, err := NormalizeLanguage(t.Language)
	if err != nil {
		return fmt.Errorf("transcription.language: %w", err)
	}
	t.Language = lang

	if t.OpenAIAPIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			t.OpenAIAPIKey = value
		}
	}
	if t.GeminiAPIKey == "" {
		if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
			t.GeminiAPIKey = value
		}
	}
	if t.HFToken == "" {
		if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			t.HFToken = value
		}
	}
	return nil
}

func (c *Config) normalizeSubtitles() error {
	hint, err := NormalizeLanguage(c.Subtitles.LanguageHint)
	if err != nil {
		return fmt.Errorf("subtitles.language_hint: %w", err)
	}
	if hint == "" {
		hint = c.Transcription.Language
	}
	c.Subtitles.LanguageHint = hint
	return nil
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	var err error
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

// NormalizeLanguage reduces a language name or tag to its ISO 639 base code,
// so "en-US" and "EN" both become "en". Empty input stays empty.
func NormalizeLanguage(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", fmt.Errorf("unknown language %q: %w", value, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}
