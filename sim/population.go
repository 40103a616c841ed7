// Package sim runs the swarm: the per-tick sense/think/act loop, the
// generation boundary, and the success broadcast.
package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/holeswarm/geom"
	"github.com/pthm-cable/holeswarm/neural"
	"github.com/pthm-cable/holeswarm/training"
	"github.com/pthm-cable/holeswarm/world"
)

// Crossing window around the wall in which a pass is evaluated.
const (
	crossingBefore = 0.5
	crossingAfter  = 1.0
)

// Population owns N agents and N controllers, index aligned. Every slot
// holds its own controller value; copies never share storage.
type Population struct {
	agents      []*world.Agent
	controllers []*neural.FFNN
	fitness     []float32

	env     *world.Environment
	trainer *training.Trainer
	src     Sources
	opts    Options

	episodeTime    float32
	maxEpisodeTime float32
	generation     int
	bestFitness    float32

	state      State
	successIdx int
}

// NewPopulation builds the swarm, places the hole, and gives every slot
// except the first a diversifying mutation.
func NewPopulation(opts Options, src Sources) (*Population, error) {
	if opts.Size < 1 {
		return nil, fmt.Errorf("population size must be positive, got %d", opts.Size)
	}
	if src.Init == nil || src.Mutation == nil || src.Hole == nil {
		return nil, errors.New("population needs all random sources")
	}

	p := &Population{
		agents:      make([]*world.Agent, opts.Size),
		controllers: make([]*neural.FFNN, opts.Size),
		fitness:     make([]float32, opts.Size),
		env:         world.NewEnvironment(opts.Environment),
		trainer: &training.Trainer{
			MutationRate:     opts.MutationRate,
			MutationStrength: opts.MutationStrength,
			GoalReward:       opts.GoalReward,
		},
		src:            src,
		opts:           opts,
		maxEpisodeTime: opts.MaxEpisodeTime,
		successIdx:     -1,
	}

	for i := range p.agents {
		p.agents[i] = world.NewAgent(opts.Start, opts.Agent)

		nn, err := neural.NewFFNN(src.Init, opts.LayerSizes)
		if err != nil {
			return nil, fmt.Errorf("creating controller %d: %w", i, err)
		}
		if i == 0 {
			if err := checkLayout(nn); err != nil {
				return nil, err
			}
		}
		if i > 0 {
			nn.Mutate(src.Mutation, opts.DiversityRate, opts.DiversityStrength)
		}
		p.controllers[i] = nn
	}

	p.env.Reset(src.Hole)
	return p, nil
}

// Reset puts every agent back at the start and zeroes fitness and the
// episode clock. The hole stays where it is.
func (p *Population) Reset() {
	for _, a := range p.agents {
		a.Reset(p.opts.Start)
	}
	for i := range p.fitness {
		p.fitness[i] = 0
	}
	p.episodeTime = 0
}

// Restart leaves the success state and starts a fresh episode with the
// current controllers.
func (p *Population) Restart() {
	p.Reset()
	p.state = StateRunning
	p.successIdx = -1
}

// Update advances the swarm by dt. See State for the transition table.
func (p *Population) Update(dt float32) StepResult {
	if p.state == StateSuccess {
		return p.result(nil)
	}

	p.episodeTime += dt

	for i, a := range p.agents {
		if !a.Active() {
			continue
		}

		sensors := a.Sensors(p.env)
		a.RecordStep(sensors)
		a.ApplyControl(p.controllers[i].Forward(sensors))
		a.Update(dt)

		if p.inCrossingWindow(a.Position) && !a.Successful() && p.env.IsInHole(a.Position) {
			a.MarkSuccessful()
			p.fitness[i] += p.trainer.CalculateReward(a, p.env, true, false)
			p.learnFromSuccessfulTrajectory(i)
			p.state = StateSuccess
			p.successIdx = i
			return p.result(nil)
		}

		switch {
		case a.HasCollided(p.env):
			a.Deactivate()
			p.fitness[i] += p.trainer.CalculateReward(a, p.env, false, true)
		case p.env.IsOutOfBounds(a.Position):
			a.Deactivate()
			p.fitness[i] += p.trainer.CalculateReward(a, p.env, false, true)
		default:
			p.fitness[i] += p.trainer.CalculateReward(a, p.env, false, false) * dt
		}
	}

	if p.state == StateSuccess {
		return p.result(nil)
	}

	allInactive := p.ActiveCount() == 0
	if allInactive || p.episodeTime >= p.maxEpisodeTime {
		reason := EndTimeLimit
		if allInactive {
			reason = EndAllInactive
		}
		return p.result(p.endGeneration(reason))
	}
	return p.result(nil)
}

func (p *Population) inCrossingWindow(pos geom.Vec3) bool {
	return pos.Z > p.env.WallZ-crossingBefore && pos.Z < p.env.WallZ+crossingAfter
}

// endGeneration trains the controllers, resets the episode, and advances
// the generation counter.
func (p *Population) endGeneration(reason EndReason) *GenerationSummary {
	summary := &GenerationSummary{
		Generation:  p.generation,
		Reason:      reason,
		EpisodeTime: p.episodeTime,
		Fitness:     p.Fitness(),
		Inactive:    len(p.agents) - p.ActiveCount(),
	}

	elite := p.trainer.TrainStep(p.controllers, p.fitness, p.src.Mutation)
	summary.Elite = elite
	summary.EliteFitness = p.fitness[elite]
	if p.fitness[elite] > p.bestFitness {
		p.bestFitness = p.fitness[elite]
		summary.NewBest = true
	}
	summary.BestFitness = p.bestFitness

	p.Reset()
	p.generation++
	return summary
}

func (p *Population) result(ended *GenerationSummary) StepResult {
	return StepResult{State: p.state, SuccessIndex: p.successIdx, Ended: ended}
}

// Save writes the controller with the highest current fitness to path.
func (p *Population) Save(path string) error {
	best := training.BestIndex(p.fitness)
	if err := p.controllers[best].Save(path); err != nil {
		return fmt.Errorf("saving best controller: %w", err)
	}
	slog.Debug("controller saved", "path", path, "slot", best)
	return nil
}

// Load reads a controller from path and copies it into every slot. On
// failure the population is unchanged.
func (p *Population) Load(path string) error {
	nn, err := neural.LoadFFNN(path)
	if err != nil {
		return err
	}
	if err := p.Adopt(nn); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Adopt copies nn into every slot after checking it fits the sensor and
// control layout.
func (p *Population) Adopt(nn *neural.FFNN) error {
	if err := checkLayout(nn); err != nil {
		return err
	}
	for _, c := range p.controllers {
		c.CopyFrom(nn)
	}
	return nil
}

func checkLayout(nn *neural.FFNN) error {
	if nn.InputSize() != world.NumSensors {
		return fmt.Errorf("%w: controller takes %d inputs, agents provide %d",
			neural.ErrTopology, nn.InputSize(), world.NumSensors)
	}
	if nn.OutputSize() < 4 {
		return fmt.Errorf("%w: controller has %d outputs, need at least 4",
			neural.ErrTopology, nn.OutputSize())
	}
	return nil
}

// SetHole moves the hole, e.g. to replay a known layout.
func (p *Population) SetHole(center geom.Vec3) {
	p.env.SetHole(center)
}

// Size returns the number of slots.
func (p *Population) Size() int { return len(p.agents) }

// ActiveCount returns how many agents are still flying.
func (p *Population) ActiveCount() int {
	n := 0
	for _, a := range p.agents {
		if a.Active() {
			n++
		}
	}
	return n
}

// Fitness returns a copy of the per-slot fitness for the current episode.
func (p *Population) Fitness() []float32 {
	return append([]float32(nil), p.fitness...)
}

// Controller returns slot i's controller. Callers must not modify it.
func (p *Population) Controller(i int) *neural.FFNN { return p.controllers[i] }

// BestController returns the controller with the highest current fitness.
func (p *Population) BestController() *neural.FFNN {
	return p.controllers[training.BestIndex(p.fitness)]
}

// SuccessIndex returns the slot that reached the hole, or -1.
func (p *Population) SuccessIndex() int { return p.successIdx }
