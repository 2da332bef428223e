package world

// Chunk is the dense block id storage for one cubic section of the world.
// Block id 0 denotes air.
type Chunk struct {
	Pos    ChunkPos
	blocks [ChunkVolume]uint16
}

// NewChunk returns an empty chunk at the given position.
func NewChunk(pos ChunkPos) *Chunk {
	return &Chunk{Pos: pos}
}

// Block returns the block id at the given local offsets, each within
// [0, ChunkSize).
func (c *Chunk) Block(x, y, z int) uint16 {
	return c.blocks[chunkIndex(x, y, z)]
}

// SetBlock sets the block id at the given local offsets.
func (c *Chunk) SetBlock(x, y, z int, id uint16) {
	c.blocks[chunkIndex(x, y, z)] = id
}

// LightChunk carries the per-block light values paired with a Chunk. A light
// chunk exists for a position if and only if a chunk exists there too.
type LightChunk struct {
	Pos   ChunkPos
	light [ChunkVolume]uint8
}

// NewLightChunk returns a fully dark light chunk at the given position.
func NewLightChunk(pos ChunkPos) *LightChunk {
	return &LightChunk{Pos: pos}
}

// Light returns the light value at the given local offsets.
func (c *LightChunk) Light(x, y, z int) uint8 {
	return c.light[chunkIndex(x, y, z)]
}

// SetLight sets the light value at the given local offsets.
func (c *LightChunk) SetLight(x, y, z int, value uint8) {
	c.light[chunkIndex(x, y, z)] = value
}

func chunkIndex(x, y, z int) int {
	return (x<<chunkShift|y)<<chunkShift | z
}
