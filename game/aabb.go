package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/quarry-gg/quarry/assert"
	"github.com/quarry-gg/quarry/world"
)

// AABB is an axis-aligned box anchored at its minimum corner. It is the
// collision shape of every actor in the world.
type AABB struct {
	Pos  mgl64.Vec3
	Size mgl64.Vec3
}

// NewAABB returns a box at the given minimum corner with the given extents.
// All extents must be positive.
func NewAABB(pos, size mgl64.Vec3) AABB {
	assert.IsTrue(size[0] > 0 && size[1] > 0 && size[2] > 0, "AABB with non-positive extents %v", size)
	return AABB{Pos: pos, Size: size}
}

// NewCube returns a cubic box with the given edge length.
func NewCube(pos mgl64.Vec3, size float64) AABB {
	return NewAABB(pos, mgl64.Vec3{size, size, size})
}

// Max returns the maximum corner of the box.
func (b AABB) Max() mgl64.Vec3 {
	return b.Pos.Add(b.Size)
}

// Translate returns the box moved by the given delta.
func (b AABB) Translate(delta mgl64.Vec3) AABB {
	return AABB{Pos: b.Pos.Add(delta), Size: b.Size}
}

// Intersects returns whether the two boxes share interior volume. Boxes that
// only touch at a face, edge or corner do not intersect.
func (b AABB) Intersects(other AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if other.Pos[axis] >= b.Pos[axis]+b.Size[axis] || other.Pos[axis]+other.Size[axis] <= b.Pos[axis] {
			return false
		}
	}
	return true
}

// ContainsPoint returns whether the point lies within the box, inclusive on
// all six faces.
func (b AABB) ContainsPoint(p mgl64.Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < b.Pos[axis] || p[axis] > b.Pos[axis]+b.Size[axis] {
			return false
		}
	}
	return true
}

// IntersectsWorld returns whether any solid block cell overlaps the box's
// bounding integer range. Blocks in unloaded chunks read as air.
func (b AABB) IntersectsWorld(src BlockSource) bool {
	min := b.Pos
	max := b.Max()
	minX, maxX := int64(math.Floor(min[0])), int64(math.Ceil(max[0]))
	minY, maxY := int64(math.Floor(min[1])), int64(math.Ceil(max[1]))
	minZ, maxZ := int64(math.Floor(min[2])), int64(math.Ceil(max[2]))

	for i := minX; i < maxX; i++ {
		for j := minY; j < maxY; j++ {
			for k := minZ; k < maxZ; k++ {
				if src.Block(world.BlockPos{X: i, Y: j, Z: k}) != 0 {
					return true
				}
			}
		}
	}
	return false
}

// MoveWithCollision moves the box by up to delta, stopping each axis at the
// first solid block in the way, and returns the displacement actually
// achieved. Callers must feed the returned delta, never the requested one,
// back into dependent state such as velocity.
//
// The axes are resolved independently and sequentially (x, then y, then z),
// each axis starting from the position the previous axis produced. This is
// not a true 3-D sweep and has known corner-catching artifacts near
// multi-block edges; the behavior is kept as is for compatibility with the
// rest of the simulation.
func (b *AABB) MoveWithCollision(src BlockSource, delta mgl64.Vec3) mgl64.Vec3 {
	// A box that is already embedded in terrain (spawned inside a wall,
	// terrain loaded on top of it) moves unimpeded. Colliding here would
	// trap the actor permanently.
	if b.IntersectsWorld(src) {
		b.Pos = b.Pos.Add(delta)
		return delta
	}

	var achieved mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		achieved[axis] = b.resolveAxis(src, axis, delta[axis])
	}
	return achieved
}

// resolveAxis advances the box along one axis, splitting the motion into
// sub-steps no longer than the box's own extent on that axis so that it
// cannot tunnel through a one-block-thick wall.
func (b *AABB) resolveAxis(src BlockSource, axis int, d float64) float64 {
	if d == 0 {
		return 0
	}
	steps := int(math.Ceil(math.Abs(d) / b.Size[axis]))
	dd := d / float64(steps)
	sign := 1.0
	if d < 0 {
		sign = -1.0
	}
	start := b.Pos[axis]

	for i := 0; i < steps; i++ {
		b.Pos[axis] += dd
		if !b.IntersectsWorld(src) {
			continue
		}
		// Cancel the colliding sub-step, then binary search the largest
		// fraction of it that stays clear.
		b.Pos[axis] -= dd

		minD, maxD := 0.0, math.Abs(dd)
		for maxD-minD > collisionTolerance {
			med := (minD + maxD) / 2
			b.Pos[axis] += med * sign
			if b.IntersectsWorld(src) {
				maxD = med
			} else {
				minD = med
			}
			b.Pos[axis] -= med * sign
		}

		b.Pos[axis] += sign * minD / 2
		break
	}
	return b.Pos[axis] - start
}
