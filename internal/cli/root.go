package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/srtalign/internal/config"
	"github.com/mgpai22/srtalign/internal/logging"
	"github.com/mgpai22/srtalign/internal/subtitle"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "srtalign",
	Short: "Word-aligned SRT subtitles from speech transcripts",
	Long: `srtalign turns a word-timed speech transcript into an SRT subtitle file.

Each sentence is timed from its own words, short sentences are merged into
cues that stay on screen long enough to read, and long lines are wrapped.
After writing, the subtitles are checked for words that went missing.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Close()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Config file path (default ./srtalign.toml or ~/.config/srtalign/config.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code of the speech (e.g., ja, en, es)")
}

// creates the logger and loads the effective configuration
func setup(cmd *cobra.Command, args []string) error {
	logger = logging.NewLogger(verbose)

	loaded, path, exists, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyLanguageFlag(cmd, loaded); err != nil {
		return err
	}

	logger.Debugw("Configuration loaded",
		"path", path,
		"exists", exists,
		"provider", loaded.Transcription.Provider,
	)
	cfg = loaded
	return nil
}

// --language overrides both the transcription language and the hint
func applyLanguageFlag(cmd *cobra.Command, c *config.Config) error {
	lang, _ := cmd.Flags().GetString("language")
	if lang == "" {
		return nil
	}
	normalized, err := config.NormalizeLanguage(lang)
	if err != nil {
		return fmt.Errorf("invalid --language: %w", err)
	}
	c.Transcription.Language = normalized
	c.Subtitles.LanguageHint = normalized
	return nil
}

// subtitle options derived from config
func subtitleOptions(c *config.Config) subtitle.Options {
	return subtitle.Options{
		MinCueDuration: c.Subtitles.MinCueDuration,
		MaxLineChars:   c.Subtitles.MaxLineChars,
		LanguageHint:   c.Subtitles.LanguageHint,
	}
}
