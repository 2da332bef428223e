package world

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func drainOne(t *testing.T, d *Decoder) DecodedChunk {
	t.Helper()
	deadline := time.Now().Add(time.Second * 5)
	for time.Now().Before(deadline) {
		var got *DecodedChunk
		d.Drain(func(dc DecodedChunk) {
			got = &dc
		})
		if got != nil {
			return *got
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no decoded chunk arrived in time")
	return DecodedChunk{}
}

func testMessage(pos ChunkPos) ChunkMessage {
	c := NewChunk(pos)
	c.SetBlock(1, 2, 3, 9)
	l := NewLightChunk(pos)
	l.SetLight(1, 3, 3, 15)
	return ChunkMessage{Chunk: c.Compress(), Light: l.Compress()}
}

func TestDecoderDeliversChunkPair(t *testing.T) {
	d := NewDecoder(testLogger())
	defer d.Close()

	d.Enqueue(testMessage(ChunkPos{2, 0, -1}))
	dc := drainOne(t, d)

	if dc.Chunk.Pos != (ChunkPos{2, 0, -1}) || dc.Light.Pos != dc.Chunk.Pos {
		t.Fatalf("chunk pair arrived at wrong position: %v / %v", dc.Chunk.Pos, dc.Light.Pos)
	}
	if dc.Chunk.Block(1, 2, 3) != 9 {
		t.Fatalf("block data corrupted in decode")
	}
	if dc.Light.Light(1, 3, 3) != 15 {
		t.Fatalf("light data corrupted in decode")
	}
}

func TestDecoderCachesIdenticalPayloads(t *testing.T) {
	d := NewDecoder(testLogger())
	defer d.Close()

	// Two chunks with identical block content at different positions share
	// one compressed payload. The cached copy must still come back under the
	// position of the later message.
	first := NewChunk(ChunkPos{0, 0, 0})
	first.SetBlock(0, 0, 0, 3)
	second := NewChunk(ChunkPos{7, 0, 0})
	second.SetBlock(0, 0, 0, 3)

	d.Enqueue(ChunkMessage{Chunk: first.Compress(), Light: NewLightChunk(first.Pos).Compress()})
	drainOne(t, d)

	d.Enqueue(ChunkMessage{Chunk: second.Compress(), Light: NewLightChunk(second.Pos).Compress()})
	dc := drainOne(t, d)

	if dc.Chunk.Pos != (ChunkPos{7, 0, 0}) {
		t.Fatalf("cached chunk came back at position %v", dc.Chunk.Pos)
	}
	if dc.Chunk.Block(0, 0, 0) != 3 {
		t.Fatalf("cached chunk lost its block data")
	}
}

func TestDecoderDropsCorruptMessage(t *testing.T) {
	d := NewDecoder(testLogger())
	defer d.Close()

	d.Enqueue(ChunkMessage{
		Chunk: CompressedChunk{Payload: []byte("garbage")},
		Light: CompressedLightChunk{Payload: []byte("garbage")},
	})
	d.Enqueue(testMessage(ChunkPos{1, 1, 1}))

	dc := drainOne(t, d)
	if dc.Chunk.Pos != (ChunkPos{1, 1, 1}) {
		t.Fatalf("corrupt message must be dropped, got chunk at %v", dc.Chunk.Pos)
	}
}

func TestDecoderCloseDiscards(t *testing.T) {
	d := NewDecoder(testLogger())
	d.Close()

	d.Enqueue(testMessage(ChunkPos{}))
	time.Sleep(time.Millisecond * 50)

	delivered := false
	d.Drain(func(DecodedChunk) { delivered = true })
	if delivered {
		t.Fatalf("messages enqueued after close must be discarded")
	}
}
