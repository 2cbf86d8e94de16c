// Package ffmpeg locates the ffmpeg and ffprobe executables.
package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// Environment overrides for the binary locations.
const (
	EnvFFmpegPath  = "SRTALIGN_FFMPEG_PATH"
	EnvFFprobePath = "SRTALIGN_FFPROBE_PATH"
)

// ErrNotFound is returned when a binary is neither configured nor on PATH.
var ErrNotFound = errors.New("not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure resolves both binaries once per process.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = resolve(os.Getenv, exec.LookPath)
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func resolve(getenv func(string) string, lookPath func(string) (string, error)) (BinaryPaths, error) {
	ffmpegPath, err := locate("ffmpeg", getenv(EnvFFmpegPath), lookPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobePath, err := locate("ffprobe", getenv(EnvFFprobePath), lookPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

func locate(name, override string, lookPath func(string) (string, error)) (string, error) {
	if override != "" {
		if !fileExists(override) {
			return "", fmt.Errorf("%s at %s: %w", name, override, ErrNotFound)
		}
		return override, nil
	}
	found, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s %w on PATH; install it or set %s", name, ErrNotFound, envFor(name))
	}
	return found, nil
}

func envFor(name string) string {
	if name == "ffprobe" {
		return EnvFFprobePath
	}
	return EnvFFmpegPath
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
