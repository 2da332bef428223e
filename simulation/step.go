package simulation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/quarry-gg/quarry/game"
	"github.com/quarry-gg/quarry/player"
)

// achievedEpsilon is the slack allowed between the requested and achieved
// displacement of an axis before the axis counts as blocked. It absorbs the
// rounding of the collision binary search.
const achievedEpsilon = 1e-9

// stepPlayer integrates one tick of player physics: movement acceleration
// from the input, gravity, then a single collision-resolved move. It is
// shared between the optimistic local step and the reconciliation replay so
// that both produce identical motion for identical inputs.
func stepPlayer(p *player.PhysicsPlayer, in player.Input, dt float64, src game.BlockSource, opts Options) {
	yaw := mgl64.DegToRad(in.Yaw)
	forward := mgl64.Vec3{-math.Sin(yaw), 0, -math.Cos(yaw)}
	right := mgl64.Vec3{math.Cos(yaw), 0, -math.Sin(yaw)}

	speed := opts.WalkSpeed
	if in.Flying {
		speed = opts.FlySpeed
	}

	var wish mgl64.Vec3
	if in.Moving() {
		if in.Forward {
			wish = wish.Add(forward)
		}
		if in.Backward {
			wish = wish.Sub(forward)
		}
		if in.Right {
			wish = wish.Add(right)
		}
		if in.Left {
			wish = wish.Sub(right)
		}
		// Opposing axes cancel out, so the sum may still be zero.
		if wish.Len() > 0 {
			wish = wish.Normalize().Mul(speed)
		}
	}
	p.Velocity[0] = wish[0]
	p.Velocity[2] = wish[2]

	if in.Flying {
		p.Velocity[1] = 0
		if in.Jump {
			p.Velocity[1] = speed
		}
		if in.Sneak {
			p.Velocity[1] = -speed
		}
	} else {
		p.Velocity[1] -= opts.Gravity * dt
		if in.Jump && p.OnGround {
			p.Velocity[1] = opts.JumpSpeed
		}
	}

	requested := p.Velocity.Mul(dt)
	achieved := p.AABB.MoveWithCollision(src, requested)

	// Only the achieved displacement feeds back into state: an axis that
	// fell short of its request hit something, so its velocity is gone.
	p.OnGround = false
	for axis := 0; axis < 3; axis++ {
		if math.Abs(achieved[axis]-requested[axis]) <= achievedEpsilon {
			continue
		}
		if axis == 1 && requested[1] < 0 {
			p.OnGround = true
		}
		p.Velocity[axis] = 0
	}
}
