package player

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/quarry-gg/quarry/game"
	"github.com/quarry-gg/quarry/world"
)

// cameraOffset is the position of the camera relative to the box's minimum
// corner: centered horizontally, at eye height.
var cameraOffset = mgl64.Vec3{0.4, 1.6, 0.4}

// defaultSpawnPos is where a player's box is anchored before the first
// authoritative snapshot arrives.
var defaultSpawnPos = mgl64.Vec3{1.46, 52.6, 1.85}

// PhysicsPlayer is the physical representation of an actor: a collision box
// and its current velocity. OnGround is derived from the last collision
// resolution and gates jumping.
type PhysicsPlayer struct {
	AABB     game.AABB
	Velocity mgl64.Vec3
	OnGround bool
}

// NewPhysicsPlayer returns a player at the default spawn position with zero
// velocity.
func NewPhysicsPlayer() PhysicsPlayer {
	return PhysicsPlayer{
		AABB: game.NewAABB(defaultSpawnPos, mgl64.Vec3{game.PlayerSide, game.PlayerHeight, game.PlayerSide}),
	}
}

// CameraPosition returns the position of the player's camera.
func (p *PhysicsPlayer) CameraPosition() mgl64.Vec3 {
	return p.AABB.Pos.Add(cameraOffset)
}

// PointedAt traces from the camera along dir and returns the first solid
// block within maxDist and the face the ray entered it through.
func (p *PhysicsPlayer) PointedAt(dir mgl64.Vec3, maxDist float64, src game.BlockSource) (world.BlockPos, game.Face, bool) {
	return game.PointedBlock(p.CameraPosition(), dir, maxDist, src)
}

// SelectedBlock returns the block the player is looking at, within normal
// player reach, given the view rotation in degrees.
func (p *PhysicsPlayer) SelectedBlock(src game.BlockSource, yaw, pitch float64) (world.BlockPos, game.Face, bool) {
	return p.PointedAt(game.DirectionFromYawPitch(yaw, pitch), game.PlayerReach, src)
}
