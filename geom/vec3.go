// Package geom provides the small vector type shared by the simulation packages.
package geom

import "math"

// normalizeEpsilon is the length below which a vector is treated as degenerate.
const normalizeEpsilon = 0.0001

// Vec3 is a 3-component float vector with value semantics.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LengthSquared avoids the sqrt when only comparisons are needed.
func (v Vec3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSquared())))
}

// Normalized returns the unit vector along v, or the zero vector when v is
// too short to have a meaningful direction.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l > normalizeEpsilon {
		return Vec3{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
	}
	return Vec3{}
}

// PlanarDistance returns the distance between v and o in the XY plane.
func (v Vec3) PlanarDistance(o Vec3) float32 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}
