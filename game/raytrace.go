package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/quarry-gg/quarry/world"
)

// Face identifies one of the six faces of a block. Opposing faces are paired
// adjacently so that f^1 flips a face to its opposite.
type Face int

const (
	FaceNegX Face = iota
	FacePosX
	FaceNegY
	FacePosY
	FaceNegZ
	FacePosZ
)

// Opposite returns the face on the other side of the block.
func (f Face) Opposite() Face {
	return f ^ 1
}

// Direction returns the outward unit normal of the face.
func (f Face) Direction() mgl64.Vec3 {
	return faceDirs[f]
}

func (f Face) String() string {
	return faceNames[f]
}

var faceDirs = [6]mgl64.Vec3{
	{-1, 0, 0},
	{1, 0, 0},
	{0, -1, 0},
	{0, 1, 0},
	{0, 0, -1},
	{0, 0, 1},
}

var faceNames = [6]string{"-x", "+x", "-y", "+y", "-z", "+z"}

// PointedBlock traces a ray from origin along dir and returns the first solid
// block within maxDist together with the face the ray entered it through.
// The third return is false when no solid block is within reach.
//
// If the origin is already inside a solid block, that block is returned
// immediately with the opposite of the closest axis plane along the ray, as
// if looking at the block's inside.
func PointedBlock(origin, dir mgl64.Vec3, maxDist float64, src BlockSource) (world.BlockPos, Face, bool) {
	dir = dir.Normalize()
	pos := origin
	wasInside := src.Block(world.BlockPosFromVec3(pos)) != 0

	for {
		// Of the six axis-aligned planes at the next integer boundary,
		// find the closest one the ray is actually approaching.
		curMin := math.MaxFloat64
		face := FaceNegX
		for i, fd := range faceDirs {
			eff := dir.Dot(fd)
			if eff <= rayAxisEpsilon {
				continue
			}
			axis := i >> 1
			var boundary float64
			if i&1 == 0 {
				boundary = math.Floor(pos[axis])
			} else {
				boundary = math.Ceil(pos[axis])
			}
			if dist := math.Abs(boundary-pos[axis]) / eff; dist < curMin {
				curMin = dist
				face = Face(i)
			}
		}

		if wasInside {
			return world.BlockPosFromVec3(pos), face.Opposite(), true
		}
		if curMin > maxDist {
			return world.BlockPos{}, 0, false
		}

		// Step past the boundary by a small nudge; landing exactly on it
		// would yield the same plane at zero distance forever.
		curMin += rayBoundaryNudge
		maxDist -= curMin
		pos = pos.Add(dir.Mul(curMin))

		if blockPos := world.BlockPosFromVec3(pos); src.Block(blockPos) != 0 {
			return blockPos, face.Opposite(), true
		}
	}
}
