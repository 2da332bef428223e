package game

import "github.com/quarry-gg/quarry/world"

// BlockSource provides block id lookups for collision tests and raycasts.
// *world.World satisfies it; tests substitute fixed geometry.
type BlockSource interface {
	Block(pos world.BlockPos) uint16
}
