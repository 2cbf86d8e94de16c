package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const whisperXOutput = `{"segments": [{"start": 0.0, "end": 1.2, "text": "Hi there.", "words": [
	{"word": "Hi", "start": 0.0, "end": 0.2, "score": 0.9},
	{"word": "there."}
]}], "language": "en"}`

func argValue(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}

func TestWhisperXBuildArgsDefaults(t *testing.T) {
	tr := NewWhisperXTranscriber(Options{Language: "ja", CharAlignment: true}, nil)
	args := tr.buildArgs("/tmp/audio.wav", "/tmp/out")

	if argValue(args, "--index-url") != cudaIndexURL {
		t.Errorf("expected CUDA index url, got %q", argValue(args, "--index-url"))
	}
	want := map[string]string{
		"--model":          "large-v3-turbo",
		"--device":         "cuda",
		"--compute_type":   "float16",
		"--batch_size":     "16",
		"--chunk_size":     "10",
		"--language":       "ja",
		"--output_dir":     "/tmp/out",
		"--output_format":  "json",
		"--print_progress": "false",
	}
	for flag, value := range want {
		if got := argValue(args, flag); got != value {
			t.Errorf("%s: expected %q, got %q", flag, value, got)
		}
	}
	if !slices.Contains(args, "--return_char_alignments") {
		t.Error("expected char alignments flag")
	}
	if i := slices.Index(args, "whisperx"); i < 0 || args[i+1] != "/tmp/audio.wav" {
		t.Errorf("expected whisperx followed by source, got %v", args)
	}
}

func TestWhisperXBuildArgsCPU(t *testing.T) {
	tr := NewWhisperXTranscriber(Options{
		Model:       "small",
		Device:      "cpu",
		ComputeType: "int8",
		BatchSize:   4,
		HFToken:     "hf_x",
	}, nil)
	args := tr.buildArgs("a.wav", "out")

	if argValue(args, "--index-url") != pypiIndexURL {
		t.Errorf("expected pypi index url, got %q", argValue(args, "--index-url"))
	}
	if slices.Contains(args, "--extra-index-url") {
		t.Error("expected no extra index url on cpu")
	}
	if argValue(args, "--model") != "small" || argValue(args, "--compute_type") != "int8" {
		t.Errorf("unexpected model/compute in %v", args)
	}
	if argValue(args, "--batch_size") != "4" {
		t.Errorf("expected batch size 4, got %q", argValue(args, "--batch_size"))
	}
	if argValue(args, "--hf_token") != "hf_x" {
		t.Errorf("expected hf token, got %q", argValue(args, "--hf_token"))
	}
	if slices.Contains(args, "--language") || slices.Contains(args, "--return_char_alignments") {
		t.Errorf("unexpected optional flags in %v", args)
	}
}

func TestWhisperXTranscribeLoadsJSON(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "clip.wav")
	if err := os.WriteFile(audioPath, []byte("RIFF"), 0644); err != nil {
		t.Fatalf("failed to write audio: %v", err)
	}
	workDir := filepath.Join(dir, "work")

	var gotName string
	runner := func(ctx context.Context, name string, args ...string) error {
		gotName = name
		out := argValue(args, "--output_dir")
		return os.WriteFile(filepath.Join(out, "clip.json"), []byte(whisperXOutput), 0644)
	}

	tr := NewWhisperXTranscriber(Options{Language: "ja"}, nil).
		WithCommandRunner(runner).
		WithWorkDir(workDir)

	result, err := tr.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if gotName != "uvx" {
		t.Errorf("expected uvx, got %q", gotName)
	}
	if result.Language != "en" {
		t.Errorf("expected detected language en, got %q", result.Language)
	}
	if len(result.Segments) != 1 || len(result.Segments[0].Words) != 2 {
		t.Fatalf("unexpected segments %+v", result.Segments)
	}
	if result.Segments[0].Words[1].Start != nil {
		t.Error("expected missing word timing to stay a gap")
	}
	if string(result.Raw) != whisperXOutput {
		t.Error("expected raw whisperx json to be kept verbatim")
	}
}

func TestWhisperXTranscribeErrors(t *testing.T) {
	tr := NewWhisperXTranscriber(Options{}, nil)
	if _, err := tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "none.wav")); err == nil {
		t.Error("expected error for missing audio")
	}

	audioPath := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(audioPath, []byte("RIFF"), 0644); err != nil {
		t.Fatalf("failed to write audio: %v", err)
	}

	failing := NewWhisperXTranscriber(Options{}, nil).WithCommandRunner(
		func(context.Context, string, ...string) error { return errors.New("cuda not available") },
	)
	_, err := failing.Transcribe(context.Background(), audioPath)
	if err == nil || !strings.Contains(err.Error(), "cuda not available") {
		t.Errorf("expected runner error to propagate, got %v", err)
	}

	silent := NewWhisperXTranscriber(Options{}, nil).WithCommandRunner(
		func(context.Context, string, ...string) error { return nil },
	)
	if _, err := silent.Transcribe(context.Background(), audioPath); err == nil {
		t.Error("expected error when whisperx writes no json")
	}
}

func TestFactory(t *testing.T) {
	ctx := context.Background()

	tr, err := Factory(ctx, ProviderWhisperX, "", Options{}, nil)
	if err != nil {
		t.Fatalf("whisperx factory failed: %v", err)
	}
	if _, ok := tr.(*WhisperXTranscriber); !ok {
		t.Errorf("expected *WhisperXTranscriber, got %T", tr)
	}

	if _, err := Factory(ctx, ProviderOpenAI, "", Options{}, nil); err == nil {
		t.Error("expected error for missing OpenAI key")
	}
	if _, err := Factory(ctx, Provider("vosk"), "", Options{}, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}
