package transcribe

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mgpai22/srtalign/internal/audio"
	"github.com/mgpai22/srtalign/internal/transcript"
)

type fakeTranscriber struct {
	calls atomic.Int32
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (*transcript.Transcript, error) {
	f.calls.Add(1)
	return &transcript.Transcript{Segments: []transcript.Segment{{
		Start: 0,
		End:   2,
		Text:  audioPath,
		Words: []transcript.Word{
			transcript.Timed(audioPath, 0.5, 1),
			{Word: "gap"},
		},
	}}}, nil
}

func testChunks(n int) []audio.ChunkInfo {
	chunks := make([]audio.ChunkInfo, n)
	for i := range chunks {
		chunks[i] = audio.ChunkInfo{
			Index:     i,
			Path:      string(rune('a' + i)),
			StartTime: time.Duration(i) * 10 * time.Second,
			EndTime:   time.Duration(i+1) * 10 * time.Second,
		}
	}
	return chunks
}

func TestTranscribeChunksOrdersAndShifts(t *testing.T) {
	fake := &fakeTranscriber{}
	segments, err := transcribeChunks(context.Background(), testChunks(5), 3, shiftedChunk(fake))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(segments) != 5 {
		t.Fatalf("expected 5 segments, got %d", len(segments))
	}
	for i, seg := range segments {
		if seg.Text != string(rune('a'+i)) {
			t.Errorf("segment %d: expected text %q, got %q", i, string(rune('a'+i)), seg.Text)
		}
		offset := float64(i * 10)
		if seg.Start != offset || seg.End != offset+2 {
			t.Errorf("segment %d: expected [%v, %v], got [%v, %v]", i, offset, offset+2, seg.Start, seg.End)
		}
		if *seg.Words[0].Start != offset+0.5 {
			t.Errorf("segment %d: expected word start %v, got %v", i, offset+0.5, *seg.Words[0].Start)
		}
		if seg.Words[1].Start != nil {
			t.Errorf("segment %d: expected gap to survive shifting", i)
		}
	}
	if fake.calls.Load() != 5 {
		t.Errorf("expected 5 calls, got %d", fake.calls.Load())
	}
}

func TestTranscribeChunksFailure(t *testing.T) {
	boom := errors.New("boom")
	fn := func(ctx context.Context, chunk audio.ChunkInfo) ([]transcript.Segment, error) {
		if chunk.Index == 2 {
			return nil, boom
		}
		return []transcript.Segment{{Text: chunk.Path}}, nil
	}

	_, err := transcribeChunks(context.Background(), testChunks(6), 2, fn)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestTranscribeChunksEmpty(t *testing.T) {
	segments, err := transcribeChunks(context.Background(), nil, 3, shiftedChunk(&fakeTranscriber{}))
	if err != nil || segments != nil {
		t.Errorf("expected nothing, got %v, %v", segments, err)
	}
}
