package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/srtalign/internal/ffmpeg"
)

// audio chunk info
type ChunkInfo struct {
	Path      string
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
}

// target encoding for a conversion
type Options struct {
	Format     string // wav, mp3, aac or flac
	SampleRate int    // Hz
	Channels   int    // 1 = mono, 2 = stereo
	Bitrate    string // lossy formats only, e.g. "64k"
}

// 16 kHz mono PCM, what the local aligner expects
func AlignerOptions() Options {
	return Options{
		Format:     "wav",
		SampleRate: 16000,
		Channels:   1,
	}
}

// small mono mp3 for upload to hosted transcription APIs
func CompressionOptions() Options {
	return Options{
		Format:     "mp3",
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

// file extension for the options' format
func (o Options) Ext() string {
	switch o.Format {
	case "mp3", "aac", "flac":
		return "." + o.Format
	default:
		return ".wav"
	}
}

// ffmpeg output arguments for the options
func (o Options) kwargs() ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"vn": "",
		"ar": o.SampleRate,
		"ac": o.Channels,
	}

	switch o.Format {
	case "mp3":
		kwargs["acodec"] = "libmp3lame"
	case "aac":
		kwargs["acodec"] = "aac"
	case "flac":
		kwargs["acodec"] = "flac"
	default:
		kwargs["acodec"] = "pcm_s16le"
	}

	if o.Bitrate != "" && (o.Format == "mp3" || o.Format == "aac") {
		kwargs["b:a"] = o.Bitrate
	}
	return kwargs
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// duration of an audio/video file
func GetDuration(filePath string) (time.Duration, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeDuration(out.Bytes())
}

func parseProbeDuration(data []byte) (time.Duration, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// Convert re-encodes the audio track of inputPath into outputPath. Video
// streams are dropped, so this doubles as audio extraction.
func Convert(
	ctx context.Context,
	inputPath, outputPath string,
	opts Options,
) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	err = ffmpeg.Input(inputPath).
		Output(outputPath, opts.kwargs()).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w", err)
	}

	return nil
}

// Prepare converts media into workDir with opts and returns the new path.
func Prepare(ctx context.Context, mediaPath, workDir string, opts Options) (string, error) {
	baseName := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	outputPath := filepath.Join(workDir, baseName+opts.Ext())
	if err := Convert(ctx, mediaPath, outputPath, opts); err != nil {
		return "", err
	}
	return outputPath, nil
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".flv":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
		".3gp":  true,
	}
	return videoExts[ext]
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	audioExts := map[string]bool{
		".mp3":  true,
		".wav":  true,
		".aac":  true,
		".flac": true,
		".ogg":  true,
		".m4a":  true,
		".wma":  true,
		".aiff": true,
		".opus": true,
	}
	return audioExts[ext]
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
