package game

const (
	// NormalGravity is the downward acceleration applied to a falling
	// player, in blocks per second squared.
	NormalGravity = 30.0
	// DefaultWalkSpeed is the horizontal speed of a walking player, in
	// blocks per second.
	DefaultWalkSpeed = 8.0
	// DefaultFlySpeed is the speed of a flying player on every axis.
	DefaultFlySpeed = 15.0
	// DefaultJumpSpeed is the upward velocity applied when a grounded
	// player jumps.
	DefaultJumpSpeed = 9.5

	// PlayerReach is the maximum distance of the pointed-block raycast.
	PlayerReach = 10.0
	// PlayerSide and PlayerHeight are the extents of the player's box.
	PlayerSide   = 0.8
	PlayerHeight = 1.8
)

const (
	// collisionTolerance is the absolute gap at which the collision binary
	// search terminates. Together with the half-distance nudge applied
	// afterwards it leaves the box a hair's breadth away from the obstacle
	// instead of flush against it, which prevents the box from re-colliding
	// and oscillating on the next tick.
	collisionTolerance = 0.01

	// rayAxisEpsilon filters boundary planes that the ray moves away from
	// or parallel to.
	rayAxisEpsilon = 1e-6
	// rayBoundaryNudge pushes the ray past the boundary it just reached.
	// Without it a ray parallel to an axis re-hits the same plane at zero
	// distance forever.
	rayBoundaryNudge = 1e-5
)
