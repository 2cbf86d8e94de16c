package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/srtalign/internal/completeness"
	"github.com/mgpai22/srtalign/internal/subtitle"
	"github.com/mgpai22/srtalign/internal/transcript"
)

var checkCmd = &cobra.Command{
	Use:   "check [transcript_json] [srt_file]",
	Short: "Report transcript words missing from an SRT file",
	Long: `Compare a transcript JSON file with an SRT file and list every word of the
transcript that does not appear in the subtitles. Structural problems in the
SRT file (overlapping cues, bad numbering) are reported too.

The check is advisory: findings never change the exit status.

Examples:
  srtalign check video.json video.srt`,
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	transcriptPath, srtPath := args[0], args[1]

	result, err := transcript.Load(transcriptPath)
	if err != nil {
		return err
	}
	report, err := completeness.Check(result, srtPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	issues := srtProblems(srtPath)
	for _, issue := range issues {
		fmt.Fprintf(out, "Problem: %s\n", issue)
	}

	logger.Debugw("Completeness check",
		"transcript_words", report.TranscriptWords,
		"rendered_words", report.RenderedWords,
		"missing", len(report.Missing),
		"problems", len(issues),
	)
	reportMissing(out, report)
	return nil
}

// structural problems of the SRT; a file that does not parse is one problem
func srtProblems(srtPath string) []string {
	cues, err := subtitle.ReadSRTFile(srtPath)
	if err != nil {
		return []string{err.Error()}
	}
	return subtitle.Validate(cues)
}
