package subtitle

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
)

func TestEncode(t *testing.T) {
	cues := []RenderedCue{
		{Index: 1, Start: 0, End: 2.5, Lines: []string{"Hello, world!"}},
		{Index: 2, Start: 3725.5, End: 3727, Lines: []string{"Two", "lines"}},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, cues); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	expected := "1\n00:00:00,000 --> 00:00:02,500\nHello, world!\n\n" +
		"2\n01:02:05,500 --> 01:02:07,000\nTwo\nlines\n\n"
	if buf.String() != expected {
		t.Errorf("expected:\n%q\ngot:\n%q", expected, buf.String())
	}
}

func TestWriteSRTFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "out.srt")

	cues := []RenderedCue{
		{Index: 1, Start: 1, End: 4, Lines: []string{"こんにちは"}},
	}
	if err := WriteSRTFile(path, cues); err != nil {
		t.Fatalf("WriteSRTFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	expected := "1\n00:00:01,000 --> 00:00:04,000\nこんにちは\n\n"
	if string(data) != expected {
		t.Errorf("expected %q, got %q", expected, string(data))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("failed to list output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the SRT file in the output dir, got %d entries", len(entries))
	}
}

func TestWriteSRTFileRefusesLockedPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "busy.srt")

	held := flock.New(lockPath(path))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("failed to take lock: %v", err)
	}
	defer held.Unlock()

	if err := WriteSRTFile(path, nil); err == nil {
		t.Error("expected error while another writer holds the lock")
	}
}
