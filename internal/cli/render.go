package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/srtalign/internal/transcript"
)

var renderCmd = &cobra.Command{
	Use:   "render [transcript_json]",
	Short: "Rebuild SRT subtitles from a saved transcript",
	Long: `Build SRT subtitles from a transcript JSON file written by "srtalign generate"
or by WhisperX itself. No transcription is performed.

Examples:
  srtalign render video.json
  srtalign render video.json -o video.srt --min-cue-duration 2.5
  srtalign render video.json --max-line-chars 32`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addSubtitleFlags(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	transcriptPath := args[0]

	applySubtitleFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	outputPath = siblingPath(transcriptPath, outputPath, ".srt")

	result, err := transcript.Load(transcriptPath)
	if err != nil {
		return err
	}

	logger.Infow("Rendering subtitles",
		"input", transcriptPath,
		"output", outputPath,
		"segments", len(result.Segments),
	)

	sub, err := buildAndWrite(logger, result, outputPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(out, "SRT file saved as: %s\n", absOutput)

	report := checkCompleteness(out, logger, result, outputPath)

	printSummary(out, runSummary{
		Media:      transcriptPath,
		Transcript: transcriptPath,
		Subtitles:  outputPath,
		Language:   sub.Language,
		Segments:   len(result.Segments),
		Words:      result.WordCount(),
		Sentences:  sub.Sentences,
		Cues:       len(sub.Cues),
		Fallbacks:  sub.Fallbacks,
		Report:     report,
	})
	return nil
}
