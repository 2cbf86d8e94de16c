package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/srtalign/internal/ffmpeg"
)

// chunkJob represents a single chunk to be created
type chunkJob struct {
	index        int
	startSeconds float64
	endSeconds   float64
	chunkPath    string
}

// splits total into consecutive windows of chunk length; the last window
// is cut short at total
func planChunks(total, chunk time.Duration, outputDir, baseName, ext string) []chunkJob {
	chunkSeconds := chunk.Seconds()
	totalSeconds := total.Seconds()

	var jobs []chunkJob
	for i := 0; ; i++ {
		startSeconds := float64(i) * chunkSeconds
		if startSeconds >= totalSeconds {
			break
		}

		endSeconds := min(startSeconds+chunkSeconds, totalSeconds)
		jobs = append(jobs, chunkJob{
			index:        i,
			startSeconds: startSeconds,
			endSeconds:   endSeconds,
			chunkPath: filepath.Join(
				outputDir,
				fmt.Sprintf("%s_chunk_%03d%s", baseName, i, ext),
			),
		})
	}
	return jobs
}

// splits an audio file into chunks of specified duration
func ChunkAudio(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
) ([]ChunkInfo, error) {
	return ChunkAudioConcurrent(ctx, audioPath, chunkDuration, outputDir, 0)
}

// ChunkAudioConcurrent splits an audio file into chunks with configurable
// concurrency. Zero or negative concurrency means 10 workers.
func ChunkAudioConcurrent(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
	concurrency int,
) ([]ChunkInfo, error) {
	if chunkDuration <= 0 {
		return nil, fmt.Errorf(
			"chunk duration must be positive, got %v",
			chunkDuration,
		)
	}

	if concurrency <= 0 {
		concurrency = 10
	}

	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	totalDuration, err := GetDuration(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	ext := filepath.Ext(audioPath)
	baseName := strings.TrimSuffix(filepath.Base(audioPath), ext)
	jobs := planChunks(totalDuration, chunkDuration, outputDir, baseName, ext)

	var (
		mu       sync.Mutex
		chunks   []ChunkInfo
		firstErr error
		wg       sync.WaitGroup
	)

	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	sem := make(chan struct{}, concurrency)

	for _, job := range jobs {
		if ctx.Err() != nil || failed() {
			break
		}

		wg.Go(func() {
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil || failed() {
				return
			}

			kwargs := ffmpeg.KwArgs{
				"ss": job.startSeconds,
				"t":  job.endSeconds - job.startSeconds,
				"c":  "copy",
			}

			err := ffmpeg.Input(audioPath).
				Output(job.chunkPath, kwargs).
				OverWriteOutput().
				SetFfmpegPath(ffmpegPath).
				Run()

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf(
						"failed to create chunk %d: %w",
						job.index,
						err,
					)
				}
				return
			}

			chunks = append(chunks, ChunkInfo{
				Path:      job.chunkPath,
				Index:     job.index,
				StartTime: time.Duration(job.startSeconds * float64(time.Second)),
				EndTime:   time.Duration(job.endSeconds * float64(time.Second)),
			})
		})
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}

	// sort chunks by index to maintain order
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Index < chunks[j].Index
	})

	return chunks, nil
}

// removes all chunk files
func CleanupChunks(chunks []ChunkInfo) error {
	var lastErr error
	for _, chunk := range chunks {
		if err := os.Remove(chunk.Path); err != nil && !os.IsNotExist(err) {
			lastErr = err
		}
	}
	return lastErr
}
