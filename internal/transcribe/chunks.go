package transcribe

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mgpai22/srtalign/internal/audio"
	"github.com/mgpai22/srtalign/internal/transcript"
)

// holds the result of transcribing a chunk
type chunkResult struct {
	Index    int
	Segments []transcript.Segment
	Error    error
}

type chunkFunc func(ctx context.Context, chunk audio.ChunkInfo) ([]transcript.Segment, error)

// transcribes a single chunk and moves its timings to the chunk offset
func shiftedChunk(t Transcriber) chunkFunc {
	return func(ctx context.Context, chunk audio.ChunkInfo) ([]transcript.Segment, error) {
		result, err := t.Transcribe(ctx, chunk.Path)
		if err != nil {
			return nil, err
		}

		offset := chunk.StartTime.Seconds()
		adjusted := make([]transcript.Segment, len(result.Segments))
		for i, seg := range result.Segments {
			adjusted[i] = seg.Shift(offset)
		}
		return adjusted, nil
	}
}

// runs fn over chunks with a bounded worker pool; the first failure cancels
// the rest. Segments come back in chunk order.
func transcribeChunks(
	ctx context.Context,
	chunks []audio.ChunkInfo,
	concurrency int,
	fn chunkFunc,
) ([]transcript.Segment, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	if concurrency <= 0 {
		concurrency = 3
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan audio.ChunkInfo)
	resultChan := make(chan chunkResult, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case chunk, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					segments, err := fn(ctx, chunk)
					if err != nil {
						cancel()
					}
					resultChan <- chunkResult{
						Index:    chunk.Index,
						Segments: segments,
						Error:    err,
					}
				}
			}
		})
	}

	go func() {
		defer close(workChan)
		for _, chunk := range chunks {
			select {
			case <-ctx.Done():
				return
			case workChan <- chunk:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]chunkResult, 0, len(chunks))
	var firstErr error
	for result := range resultChan {
		if result.Error != nil && firstErr == nil {
			firstErr = fmt.Errorf(
				"chunk %d failed: %w",
				result.Index,
				result.Error,
			)
			cancel()
		}
		if result.Error == nil {
			results = append(results, result)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil && len(results) < len(chunks) {
		return nil, err
	}

	// sort by index to maintain order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	var allSegments []transcript.Segment
	for _, r := range results {
		allSegments = append(allSegments, r.Segments...)
	}
	return allSegments, nil
}
