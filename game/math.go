package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DirectionFromYawPitch converts a view rotation in degrees to a unit
// direction vector. Yaw 0 faces -z, positive pitch looks up.
func DirectionFromYawPitch(yaw, pitch float64) mgl64.Vec3 {
	y := mgl64.DegToRad(yaw)
	p := mgl64.DegToRad(pitch)
	return mgl64.Vec3{
		-math.Sin(y) * math.Cos(p),
		math.Sin(p),
		-math.Cos(y) * math.Cos(p),
	}
}

// ClampFloat clamps the given value to the given range.
func ClampFloat(num, min, max float64) float64 {
	if num < min {
		return min
	}
	return math.Min(num, max)
}
