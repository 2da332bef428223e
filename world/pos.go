package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ChunkSize is the edge length of a cubic chunk, in blocks.
	ChunkSize = 32
	// ChunkVolume is the amount of blocks stored in one chunk.
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize

	chunkShift = 5
	chunkMask  = ChunkSize - 1
)

// BlockPos identifies a single block cell in the world.
type BlockPos struct {
	X, Y, Z int64
}

// BlockPosFromVec3 returns the block containing the given continuous position.
// Coordinates are floored, not truncated, so negative positions resolve to the
// correct cell.
func BlockPosFromVec3(v mgl64.Vec3) BlockPos {
	return BlockPos{
		X: int64(math.Floor(v[0])),
		Y: int64(math.Floor(v[1])),
		Z: int64(math.Floor(v[2])),
	}
}

// Vec3 returns the minimum corner of the block cell as a continuous position.
func (p BlockPos) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(p.X), float64(p.Y), float64(p.Z)}
}

// ContainingChunkPos returns the position of the chunk that holds this block.
// The arithmetic shift floors toward negative infinity, which keeps chunk
// boundaries aligned on the negative side of each axis.
func (p BlockPos) ContainingChunkPos() ChunkPos {
	return ChunkPos{
		X: p.X >> chunkShift,
		Y: p.Y >> chunkShift,
		Z: p.Z >> chunkShift,
	}
}

// ChunkPos identifies a single chunk. It is the key type for chunk storage.
type ChunkPos struct {
	X, Y, Z int64
}

// Offset returns the chunk position translated by the given deltas.
func (p ChunkPos) Offset(dx, dy, dz int64) ChunkPos {
	return ChunkPos{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}
