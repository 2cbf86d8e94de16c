package subtitle

import (
	"bufio"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// Encode writes cues as SubRip blocks: index, time range, text lines and a
// blank separator line.
func Encode(w io.Writer, cues []RenderedCue) error {
	for _, cue := range cues {
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			cue.Index,
			FormatTimestamp(cue.Start),
			FormatTimestamp(cue.End),
			strings.Join(cue.Lines, "\n"),
		)
		if err != nil {
			return fmt.Errorf("failed to write cue %d: %w", cue.Index, err)
		}
	}
	return nil
}

// WriteSRTFile writes cues to path as UTF-8. Concurrent writers targeting the
// same path are refused rather than interleaved.
func WriteSRTFile(path string, cues []RenderedCue) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	lock := flock.New(lockPath(path))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("%s is being written by another process", path)
	}
	defer func() { _ = lock.Unlock() }()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create SRT file: %w", err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	if err := Encode(bw, cues); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush SRT file: %w", err)
	}
	return file.Close()
}

// lock files live in the temp dir so output directories stay clean
func lockPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha1.Sum([]byte(abs))
	return filepath.Join(os.TempDir(), "srtalign-"+hex.EncodeToString(sum[:8])+".lock")
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
