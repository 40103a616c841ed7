package world

import "github.com/pthm-cable/holeswarm/geom"

// AgentParams holds the physics constants shared by every agent.
type AgentParams struct {
	Radius          float32
	ControlStrength float32 // velocity change per unit of control
	ForwardBias     float32 // constant +Z nudge applied with every control step
	MaxSpeed        float32
	Damping         float32 // velocity multiplier per integration step
}

// DefaultAgentParams returns the tuned defaults.
func DefaultAgentParams() AgentParams {
	return AgentParams{
		Radius:          0.5,
		ControlStrength: 1.5,
		ForwardBias:     0.06,
		MaxSpeed:        10,
		Damping:         0.995,
	}
}

// Agent is a single flyer. Once inactive it receives no control or physics
// until the next Reset; successful implies inactive.
type Agent struct {
	Position geom.Vec3
	Velocity geom.Vec3
	Radius   float32

	active     bool
	successful bool
	trajectory [][]float32

	params AgentParams
}

// NewAgent creates an active agent at start.
func NewAgent(start geom.Vec3, p AgentParams) *Agent {
	a := &Agent{Radius: p.Radius, params: p}
	a.Reset(start)
	return a
}

// Reset returns the agent to start with zero velocity and clears its
// trajectory.
func (a *Agent) Reset(start geom.Vec3) {
	a.Position = start
	a.Velocity = geom.Vec3{}
	a.active = true
	a.successful = false
	a.trajectory = a.trajectory[:0]
}

// Active reports whether the agent is still flying.
func (a *Agent) Active() bool { return a.active }

// Successful reports whether the agent made it through the hole this episode.
func (a *Agent) Successful() bool { return a.successful }

// Deactivate stops the agent for the rest of the episode.
func (a *Agent) Deactivate() { a.active = false }

// MarkSuccessful flags the agent as through the hole, which also stops it.
func (a *Agent) MarkSuccessful() {
	a.successful = true
	a.active = false
}

// Update integrates position and applies momentum damping.
func (a *Agent) Update(dt float32) {
	if !a.active {
		return
	}
	a.Position = a.Position.Add(a.Velocity.Scale(dt))
	a.Velocity = a.Velocity.Scale(a.params.Damping)
}

// ApplyControl adds the controller's thrust to the velocity.
// c[0..2] is a velocity delta; c[3] is carried but unused by the physics.
// Short control vectors are ignored.
func (a *Agent) ApplyControl(c []float32) {
	if !a.active || len(c) < 4 {
		return
	}
	a.Velocity = a.Velocity.Add(geom.V3(c[0], c[1], c[2]).Scale(a.params.ControlStrength))
	a.Velocity.Z += a.params.ForwardBias

	maxSpeed := a.params.MaxSpeed
	if a.Velocity.LengthSquared() > maxSpeed*maxSpeed {
		a.Velocity = a.Velocity.Normalized().Scale(maxSpeed)
	}
}

// HasPassedThroughHole reports whether the agent sits in the narrow band
// around the wall where a pass is counted.
func (a *Agent) HasPassedThroughHole(env *Environment) bool {
	z := a.Position.Z
	return z > env.WallZ-0.3 && z < env.WallZ+0.5 && !a.successful
}

// HasCollided reports whether the agent touches the solid wall.
func (a *Agent) HasCollided(env *Environment) bool {
	return env.CollidesWithWall(a.Position, a.Radius)
}

// RecordStep appends a sensor snapshot to the trajectory.
// The snapshot is copied; callers may reuse their buffer.
func (a *Agent) RecordStep(sensors []float32) {
	snap := make([]float32, len(sensors))
	copy(snap, sensors)
	a.trajectory = append(a.trajectory, snap)
}

// Trajectory returns the snapshots recorded this episode, oldest first.
// The returned slice must not be modified.
func (a *Agent) Trajectory() [][]float32 {
	return a.trajectory
}
