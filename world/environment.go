// Package world holds the physical side of the simulation: the wall with its
// hole, and the agents that try to fly through it.
package world

import (
	"math/rand"

	"github.com/pthm-cable/holeswarm/geom"
)

// Window thresholds around the wall plane.
const (
	// HoleBand is the half-thickness of the slab in which a point can count as
	// inside the hole.
	HoleBand = 0.5
	// approachBand is how far in front of the wall collisions are evaluated.
	approachBand = 1.0
)

// EnvironmentParams configures an Environment.
type EnvironmentParams struct {
	WallZ      float32
	HoleRadius float32
	HoleRange  float32 // hole center x,y drawn from [-HoleRange, HoleRange]
	BoundsMin  geom.Vec3
	BoundsMax  geom.Vec3
}

// DefaultEnvironmentParams returns a wall at z=0 with a hole only slightly
// wider than an agent.
func DefaultEnvironmentParams() EnvironmentParams {
	return EnvironmentParams{
		WallZ:      0,
		HoleRadius: 0.6,
		HoleRange:  10,
		BoundsMin:  geom.V3(-12, -12, -40),
		BoundsMax:  geom.V3(12, 12, 10),
	}
}

// Environment is a planar wall at WallZ with a circular hole.
type Environment struct {
	HoleCenter geom.Vec3
	HoleRadius float32
	WallZ      float32
	BoundsMin  geom.Vec3
	BoundsMax  geom.Vec3

	holeRange float32
}

// NewEnvironment creates an environment with the hole at the wall origin.
// Call Reset to place the hole randomly.
func NewEnvironment(p EnvironmentParams) *Environment {
	return &Environment{
		HoleCenter: geom.V3(0, 0, p.WallZ),
		HoleRadius: p.HoleRadius,
		WallZ:      p.WallZ,
		BoundsMin:  p.BoundsMin,
		BoundsMax:  p.BoundsMax,
		holeRange:  p.HoleRange,
	}
}

// Reset redraws the hole center uniformly over the configured range.
// Radius and bounds are left alone.
func (e *Environment) Reset(rng *rand.Rand) {
	x := (rng.Float32()*2 - 1) * e.holeRange
	y := (rng.Float32()*2 - 1) * e.holeRange
	e.HoleCenter = geom.V3(x, y, e.WallZ)
}

// SetHole places the hole at the given x,y on the wall plane.
func (e *Environment) SetHole(center geom.Vec3) {
	e.HoleCenter = geom.V3(center.X, center.Y, e.WallZ)
}

// IsInHole reports whether p is near the wall plane and within the hole
// radius in XY. The boundary counts as inside.
func (e *Environment) IsInHole(p geom.Vec3) bool {
	if abs32(p.Z-e.WallZ) > HoleBand {
		return false
	}
	dx := p.X - e.HoleCenter.X
	dy := p.Y - e.HoleCenter.Y
	return dx*dx+dy*dy <= e.HoleRadius*e.HoleRadius
}

// CollidesWithWall reports whether a sphere of radius r at p touches the
// solid part of the wall.
func (e *Environment) CollidesWithWall(p geom.Vec3, r float32) bool {
	// Already through.
	if p.Z > e.WallZ+HoleBand {
		return false
	}
	if p.Z < e.WallZ-approachBand {
		return false
	}
	if e.IsInHole(p) {
		return false
	}
	return abs32(p.Z-e.WallZ) < r
}

// IsOutOfBounds reports whether any axis of p leaves the world box.
func (e *Environment) IsOutOfBounds(p geom.Vec3) bool {
	return p.X < e.BoundsMin.X || p.X > e.BoundsMax.X ||
		p.Y < e.BoundsMin.Y || p.Y > e.BoundsMax.Y ||
		p.Z < e.BoundsMin.Z || p.Z > e.BoundsMax.Z
}

// abs32 returns the absolute value of x.
func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
