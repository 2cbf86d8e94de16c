package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/srtalign/internal/audio"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract audio from a video file",
	Long: `Extract the audio track from a video file and save it as a separate audio file.

The default output is 16 kHz mono PCM WAV, the input the WhisperX aligner
expects. Other formats: mp3, aac, flac.

Examples:
  srtalign extract video.mp4
  srtalign extract video.mp4 -o audio.mp3 -f mp3 -b 64k
  srtalign extract video.mp4 --format wav --sample-rate 44100 --channels 2`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	defaults := audio.AlignerOptions()
	extractCmd.Flags().
		StringP("format", "f", defaults.Format, "Output audio format (wav, mp3, aac, flac)")
	extractCmd.Flags().
		IntP("sample-rate", "r", defaults.SampleRate, "Sample rate in Hz (e.g., 16000, 44100, 48000)")
	extractCmd.Flags().
		Int("channels", defaults.Channels, "Number of audio channels (1=mono, 2=stereo)")
	extractCmd.Flags().
		StringP("bitrate", "b", "", "Bitrate for lossy formats (e.g., 128k, 320k)")
}

var validFormats = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"aac":  true,
	"flac": true,
}

func extractOptions(cmd *cobra.Command) (audio.Options, error) {
	format, _ := cmd.Flags().GetString("format")
	sampleRate, _ := cmd.Flags().GetInt("sample-rate")
	channels, _ := cmd.Flags().GetInt("channels")
	bitrate, _ := cmd.Flags().GetString("bitrate")

	format = strings.ToLower(format)
	if !validFormats[format] {
		return audio.Options{}, fmt.Errorf(
			"invalid format %q: supported formats are wav, mp3, aac, flac",
			format,
		)
	}
	if sampleRate <= 0 {
		return audio.Options{}, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if channels < 1 || channels > 2 {
		return audio.Options{}, fmt.Errorf("invalid channel count %d: use 1 or 2", channels)
	}

	return audio.Options{
		Format:     format,
		SampleRate: sampleRate,
		Channels:   channels,
		Bitrate:    bitrate,
	}, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	opts, err := extractOptions(cmd)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	outputPath = siblingPath(videoPath, outputPath, opts.Ext())
	if filepath.Clean(outputPath) == filepath.Clean(videoPath) {
		return fmt.Errorf("output path %s would overwrite the input", outputPath)
	}

	logger.Infow("Extracting audio",
		"video", videoPath,
		"output", outputPath,
		"format", opts.Format,
		"sample_rate", opts.SampleRate,
		"channels", opts.Channels,
	)

	if err := audio.Convert(cmd.Context(), videoPath, outputPath, opts); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Audio extracted successfully: %s\n", absOutput)

	return nil
}
