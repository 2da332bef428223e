package player

import "github.com/quarry-gg/quarry/world"

// RenderDistance is the per-axis, per-direction chunk radius within which
// chunks are kept resident. The six bounds are independent, so the view
// volume may be asymmetric, e.g. taller upward than downward.
type RenderDistance struct {
	XMax, XMin int64
	YMax, YMin int64
	ZMax, ZMin int64
}

// IsChunkVisible reports whether the candidate chunk lies within the render
// distance of the player's chunk: per axis, candidate-player must lie in
// [-min, +max], bounds included. Pure function; the tick driver calls it once
// per resident chunk per tick to decide eviction.
func (r RenderDistance) IsChunkVisible(playerChunk, candidate world.ChunkPos) bool {
	dx := candidate.X - playerChunk.X
	dy := candidate.Y - playerChunk.Y
	dz := candidate.Z - playerChunk.Z
	return dx >= -r.XMin && dx <= r.XMax &&
		dy >= -r.YMin && dy <= r.YMax &&
		dz >= -r.ZMin && dz <= r.ZMax
}
