// Package camera provides an orbital camera for viewing the wall scene.
package camera

import (
	"math"

	"github.com/pthm-cable/holeswarm/geom"
)

// Orbit circles a target point. Yaw is measured around +Y from +Z, pitch
// is the elevation above the XZ plane. Angles are in radians.
type Orbit struct {
	Target   geom.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32

	// Zoom constraints
	MinDistance, MaxDistance float32
}

// maxPitch keeps the camera off the poles, where the up vector degenerates.
const maxPitch = 1.4

// New creates an orbit looking at target from behind the start side of the
// wall, slightly above it.
func New(target geom.Vec3, distance float32) *Orbit {
	return &Orbit{
		Target:      target,
		Distance:    distance,
		Yaw:         -2.4,
		Pitch:       0.45,
		MinDistance: 5,
		MaxDistance: 150,
	}
}

// Position returns the camera eye in world coordinates.
func (o *Orbit) Position() geom.Vec3 {
	cp := float32(math.Cos(float64(o.Pitch)))
	sp := float32(math.Sin(float64(o.Pitch)))
	cy := float32(math.Cos(float64(o.Yaw)))
	sy := float32(math.Sin(float64(o.Yaw)))
	offset := geom.V3(cp*sy, sp, cp*cy).Scale(o.Distance)
	return o.Target.Add(offset)
}

// Rotate turns the camera by the given yaw and pitch deltas.
// Pitch is clamped short of straight up or down.
func (o *Orbit) Rotate(dYaw, dPitch float32) {
	o.Yaw = wrapAngle(o.Yaw + dYaw)
	o.Pitch = clamp(o.Pitch+dPitch, -maxPitch, maxPitch)
}

// ZoomBy multiplies the distance by factor, clamped to min/max.
func (o *Orbit) ZoomBy(factor float32) {
	o.Distance = clamp(o.Distance*factor, o.MinDistance, o.MaxDistance)
}

// FitBounds targets the center of a box and backs off far enough to see it.
func (o *Orbit) FitBounds(min, max geom.Vec3) {
	o.Target = min.Add(max).Scale(0.5)
	o.Distance = clamp(max.Sub(min).Length()*0.9, o.MinDistance, o.MaxDistance)
}

// wrapAngle wraps a to [-pi, pi].
func wrapAngle(a float32) float32 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
