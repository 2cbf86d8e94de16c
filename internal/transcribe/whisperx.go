package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mgpai22/srtalign/internal/logging"
	"github.com/mgpai22/srtalign/internal/transcript"
)

// WhisperX settings used when Options leaves a field empty.
const (
	WhisperXDefaultModel       = "large-v3-turbo"
	WhisperXDefaultDevice      = "cuda"
	WhisperXDefaultComputeType = "float16"
	WhisperXDefaultBatchSize   = 16
	WhisperXDefaultChunkSize   = 10

	uvxCommand   = "uvx"
	cudaIndexURL = "https://download.pytorch.org/whl/cu128"
	pypiIndexURL = "https://pypi.org/simple"
)

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// WhisperXTranscriber runs WhisperX through uvx and loads the JSON it
// writes. The JSON already has per-word timings, including gaps where
// alignment failed, and is kept verbatim as the transcript's raw dump.
type WhisperXTranscriber struct {
	options Options
	workDir string
	runner  CommandRunner
	logger  *logging.Logger
}

func NewWhisperXTranscriber(opts Options, logger *logging.Logger) *WhisperXTranscriber {
	if logger == nil {
		logger = logging.Nop()
	}
	return &WhisperXTranscriber{
		options: opts,
		logger:  logger,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *WhisperXTranscriber) WithCommandRunner(runner CommandRunner) *WhisperXTranscriber {
	t.runner = runner
	return t
}

// WithWorkDir makes WhisperX write its output under dir instead of a
// temporary directory.
func (t *WhisperXTranscriber) WithWorkDir(dir string) *WhisperXTranscriber {
	t.workDir = dir
	return t
}

func (t *WhisperXTranscriber) Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	outputDir := t.workDir
	if outputDir == "" {
		dir, err := os.MkdirTemp("", "srtalign-whisperx-")
		if err != nil {
			return nil, fmt.Errorf("failed to create work directory: %w", err)
		}
		defer os.RemoveAll(dir)
		outputDir = dir
	} else if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}

	args := t.buildArgs(audioPath, outputDir)
	t.logger.Debugw("running whisperx",
		"model", t.model(),
		"device", t.device(),
		"output_dir", outputDir,
	)
	if err := t.run(ctx, uvxCommand, args...); err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	result, err := transcript.Load(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to load whisperx output: %w", err)
	}
	if result.Language == "" {
		result.Language = t.options.Language
	}
	return result, nil
}

func (t *WhisperXTranscriber) run(ctx context.Context, name string, args ...string) error {
	if t.runner != nil {
		return t.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// torch 2.6 defaults torch.load to weights_only, which the alignment
	// checkpoints cannot satisfy
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if t.options.PrintProgress {
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (t *WhisperXTranscriber) buildArgs(source, outputDir string) []string {
	args := make([]string, 0, 32)

	device := t.device()
	if device == "cuda" {
		args = append(args,
			"--index-url", cudaIndexURL,
			"--extra-index-url", pypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", pypiIndexURL)
	}

	computeType := t.options.ComputeType
	if computeType == "" {
		computeType = WhisperXDefaultComputeType
	}
	batchSize := t.options.BatchSize
	if batchSize <= 0 {
		batchSize = WhisperXDefaultBatchSize
	}
	chunkSize := t.options.ChunkSize
	if chunkSize <= 0 {
		chunkSize = WhisperXDefaultChunkSize
	}

	args = append(args,
		"whisperx",
		source,
		"--model", t.model(),
		"--device", device,
		"--compute_type", computeType,
		"--batch_size", strconv.Itoa(batchSize),
		"--chunk_size", strconv.Itoa(chunkSize),
		"--output_dir", outputDir,
		"--output_format", "json",
		"--print_progress", strconv.FormatBool(t.options.PrintProgress),
	)

	if t.options.CharAlignment {
		args = append(args, "--return_char_alignments")
	}
	if t.options.Language != "" {
		args = append(args, "--language", t.options.Language)
	}
	if t.options.HFToken != "" {
		args = append(args, "--hf_token", t.options.HFToken)
	}

	return args
}

func (t *WhisperXTranscriber) model() string {
	if t.options.Model != "" {
		return t.options.Model
	}
	return WhisperXDefaultModel
}

func (t *WhisperXTranscriber) device() string {
	if t.options.Device != "" {
		return t.options.Device
	}
	return WhisperXDefaultDevice
}

func (t *WhisperXTranscriber) Close() error {
	return nil
}
