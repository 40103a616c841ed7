package sim

import (
	"github.com/pthm-cable/holeswarm/geom"
	"github.com/pthm-cable/holeswarm/neural"
)

// AgentView is the drawable state of one agent.
type AgentView struct {
	Position   geom.Vec3
	Radius     float32
	Active     bool
	Successful bool
}

// EnvironmentView is the drawable state of the wall.
type EnvironmentView struct {
	WallZ      float32
	HoleCenter geom.Vec3
	HoleRadius float32
	BoundsMin  geom.Vec3
	BoundsMax  geom.Vec3
}

// AgentSample is the full state of one slot, for inspection.
type AgentSample struct {
	Slot       int
	Position   geom.Vec3
	Velocity   geom.Vec3
	Fitness    float32
	Active     bool
	Successful bool
	Steps      int
	Sensors    []float32
	Controller *neural.FFNN
}

// View is the read-only surface used by renderers and reporting.
type View interface {
	Agents() []AgentView
	Environment() EnvironmentView
	Generation() int
	BestFitness() float32
	EpisodeTime() float32
	MaxEpisodeTime() float32
	State() State
}

var _ View = (*Population)(nil)

// Agents returns a snapshot of every agent.
func (p *Population) Agents() []AgentView {
	out := make([]AgentView, len(p.agents))
	for i, a := range p.agents {
		out[i] = AgentView{
			Position:   a.Position,
			Radius:     a.Radius,
			Active:     a.Active(),
			Successful: a.Successful(),
		}
	}
	return out
}

// Environment returns a snapshot of the wall and bounds.
func (p *Population) Environment() EnvironmentView {
	return EnvironmentView{
		WallZ:      p.env.WallZ,
		HoleCenter: p.env.HoleCenter,
		HoleRadius: p.env.HoleRadius,
		BoundsMin:  p.env.BoundsMin,
		BoundsMax:  p.env.BoundsMax,
	}
}

// Generation returns the number of completed generations.
func (p *Population) Generation() int { return p.generation }

// BestFitness returns the best elite fitness seen at any generation end.
func (p *Population) BestFitness() float32 { return p.bestFitness }

// EpisodeTime returns simulated seconds since the episode began.
func (p *Population) EpisodeTime() float32 { return p.episodeTime }

// MaxEpisodeTime returns the episode time limit.
func (p *Population) MaxEpisodeTime() float32 { return p.maxEpisodeTime }

// State returns the run state.
func (p *Population) State() State { return p.state }

// Inspect samples slot i. Sensors are read fresh from the environment.
func (p *Population) Inspect(i int) (AgentSample, bool) {
	if i < 0 || i >= len(p.agents) {
		return AgentSample{}, false
	}
	a := p.agents[i]
	return AgentSample{
		Slot:       i,
		Position:   a.Position,
		Velocity:   a.Velocity,
		Fitness:    p.fitness[i],
		Active:     a.Active(),
		Successful: a.Successful(),
		Steps:      len(a.Trajectory()),
		Sensors:    a.Sensors(p.env),
		Controller: p.controllers[i],
	}, true
}
