package world

import "github.com/pthm-cable/holeswarm/geom"

// NumSensors is the length of the vector returned by Agent.Sensors.
//
// Layout:
//
//	[0:3]   position / 10
//	[3:6]   velocity / 5
//	[6:9]   unit direction to hole (zero when on top of it)
//	[9]     distance to hole / 20
//	[10]    |z - wallZ| / 15
//	[11]    alignment of velocity with direction to hole
//	[12:14] planar offset from hole / 10
//	[14:22] ray casts against the wall plane
const NumSensors = 22

// Sensor slots read elsewhere.
const (
	SensorDirToHole = 6
	SensorMinLength = 11
)

// Sensor normalization.
const (
	positionScale  = 10.0
	velocityScale  = 5.0
	holeDistScale  = 20.0
	wallDistScale  = 15.0
	offsetScale    = 10.0
	rayMaxDistance = 20.0

	nearZero    = 0.001
	parallelTol = 0.001
)

var wallNormal = geom.V3(0, 0, 1)

// rayDirections are the fixed unit directions used for the ray sensors.
var rayDirections = [8]geom.Vec3{
	geom.V3(1, 0, 0),
	geom.V3(-1, 0, 0),
	geom.V3(0, 1, 0),
	geom.V3(0, -1, 0),
	geom.V3(0, 0, 1),
	geom.V3(0, 0, -1),
	geom.V3(1, 1, 0).Normalized(),
	geom.V3(-1, -1, 0).Normalized(),
}

// Sensors builds the controller input for the agent's current state.
func (a *Agent) Sensors(env *Environment) []float32 {
	s := make([]float32, 0, NumSensors)

	s = append(s,
		a.Position.X/positionScale,
		a.Position.Y/positionScale,
		a.Position.Z/positionScale,
	)
	s = append(s,
		a.Velocity.X/velocityScale,
		a.Velocity.Y/velocityScale,
		a.Velocity.Z/velocityScale,
	)

	toHole := env.HoleCenter.Sub(a.Position)
	dist := toHole.Length()
	var dir geom.Vec3
	if dist > nearZero {
		dir = toHole.Normalized()
	}
	s = append(s, dir.X, dir.Y, dir.Z)
	s = append(s, dist/holeDistScale)
	s = append(s, abs32(a.Position.Z-env.WallZ)/wallDistScale)

	var alignment float32
	if a.Velocity.LengthSquared() > nearZero && dist > nearZero {
		alignment = a.Velocity.Normalized().Dot(dir)
	}
	s = append(s, alignment)

	s = append(s,
		(a.Position.X-env.HoleCenter.X)/offsetScale,
		(a.Position.Y-env.HoleCenter.Y)/offsetScale,
	)

	for _, d := range rayDirections {
		s = append(s, a.castRay(d, env))
	}
	return s
}

// castRay returns the normalized distance along dir to the wall plane,
// or 1 when the ray never reaches it.
func (a *Agent) castRay(dir geom.Vec3, env *Environment) float32 {
	if abs32(dir.Dot(wallNormal)) < parallelTol {
		return 1
	}
	t := (env.WallZ - a.Position.Z) / dir.Z
	if t < 0 {
		return 1
	}
	if v := t / rayMaxDistance; v < 1 {
		return v
	}
	return 1
}
