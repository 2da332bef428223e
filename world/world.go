package world

import (
	"github.com/sasha-s/go-deadlock"

	"github.com/quarry-gg/quarry/assert"
)

// World is the sparse, partially resident block store of the client. Chunks
// and their light chunks are inserted as they arrive from the server and
// evicted in pairs when they fall outside the render distance.
//
// The tick driver owns all mutation: chunks are inserted and evicted between
// ticks only. The lock exists for the background decode workers that read
// nothing but still must not race a concurrent Retain pass on shutdown.
type World struct {
	chunks map[ChunkPos]*Chunk
	light  map[ChunkPos]*LightChunk

	deadlock.RWMutex
}

// New returns an empty world with no resident chunks.
func New() *World {
	return &World{
		chunks: make(map[ChunkPos]*Chunk),
		light:  make(map[ChunkPos]*LightChunk),
	}
}

// Block returns the block id at the given position. Positions in chunks that
// are not resident resolve to 0 (air), never to an error, so physics and
// raycasts degrade gracefully while the world is still loading.
func (w *World) Block(pos BlockPos) uint16 {
	w.RLock()
	c := w.chunks[pos.ContainingChunkPos()]
	w.RUnlock()
	if c == nil {
		return 0
	}
	return c.Block(int(pos.X&chunkMask), int(pos.Y&chunkMask), int(pos.Z&chunkMask))
}

// Light returns the light value at the given position, 0 when the containing
// chunk is not resident.
func (w *World) Light(pos BlockPos) uint8 {
	w.RLock()
	c := w.light[pos.ContainingChunkPos()]
	w.RUnlock()
	if c == nil {
		return 0
	}
	return c.Light(int(pos.X&chunkMask), int(pos.Y&chunkMask), int(pos.Z&chunkMask))
}

// SetChunk inserts the chunk, replacing any chunk already stored at its
// position.
func (w *World) SetChunk(c *Chunk) {
	w.Lock()
	w.chunks[c.Pos] = c
	w.Unlock()
}

// SetLightChunk inserts the light chunk, replacing any light chunk already
// stored at its position.
func (w *World) SetLightChunk(c *LightChunk) {
	w.Lock()
	w.light[c.Pos] = c
	w.Unlock()
}

// HasChunk returns whether a chunk is resident at the given position.
func (w *World) HasChunk(pos ChunkPos) bool {
	w.RLock()
	_, ok := w.chunks[pos]
	w.RUnlock()
	return ok
}

// HasLightChunk returns whether a light chunk is resident at the given
// position.
func (w *World) HasLightChunk(pos ChunkPos) bool {
	w.RLock()
	_, ok := w.light[pos]
	w.RUnlock()
	return ok
}

// ChunkCount returns the amount of resident chunks.
func (w *World) ChunkCount() int {
	w.RLock()
	defer w.RUnlock()
	return len(w.chunks)
}

// Retain removes every chunk for which pred returns false. It is the sole
// eviction path: the chunk and its light chunk are removed together under one
// write lock, so no reader can observe one map updated without the other.
func (w *World) Retain(pred func(pos ChunkPos) bool) {
	w.Lock()
	defer w.Unlock()

	for pos := range w.chunks {
		if !pred(pos) {
			delete(w.chunks, pos)
			delete(w.light, pos)
		}
	}
	assert.IsTrue(len(w.chunks) == len(w.light),
		"chunk/light pairing broken after retain: %d chunks, %d light chunks", len(w.chunks), len(w.light))
}

// Clear drops every resident chunk. Called when the owning session ends so
// that no partial state leaks across session boundaries.
func (w *World) Clear() {
	w.Lock()
	w.chunks = make(map[ChunkPos]*Chunk)
	w.light = make(map[ChunkPos]*LightChunk)
	w.Unlock()
}
