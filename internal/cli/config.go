package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/srtalign/internal/config"
	"github.com/mgpai22/srtalign/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the srtalign configuration file",
	// init must work even when the existing file does not parse
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented sample configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path := configPath
		if path == "" {
			var err error
			if path, err = config.DefaultConfigPath(); err != nil {
				return err
			}
		}
		if err := config.CreateSample(path, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sample configuration written to: %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd, args); err != nil {
			return err
		}
		shown := *cfg
		shown.Transcription.OpenAIAPIKey = redact(shown.Transcription.OpenAIAPIKey)
		shown.Transcription.GeminiAPIKey = redact(shown.Transcription.GeminiAPIKey)
		shown.Transcription.HFToken = redact(shown.Transcription.HFToken)
		encoded, err := shown.Encode()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), encoded)
		return nil
	},
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "<redacted>"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}
