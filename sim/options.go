package sim

import (
	"math/rand"

	"github.com/pthm-cable/holeswarm/geom"
	"github.com/pthm-cable/holeswarm/neural"
	"github.com/pthm-cable/holeswarm/training"
	"github.com/pthm-cable/holeswarm/world"
)

// Options configures a Population.
type Options struct {
	Size           int
	LayerSizes     []int
	Start          geom.Vec3
	MaxEpisodeTime float32

	Environment world.EnvironmentParams
	Agent       world.AgentParams

	// Initial mutation given to every slot but the first so the founders
	// do not all fly the same path.
	DiversityRate     float32
	DiversityStrength float32

	// Learning rate for replaying a successful trajectory.
	LearningRate float32

	MutationRate     float32
	MutationStrength float32
	GoalReward       float32
}

// DefaultOptions returns a 100-agent swarm starting 35 units before the wall.
func DefaultOptions() Options {
	return Options{
		Size:              100,
		LayerSizes:        append([]int(nil), neural.DefaultLayerSizes...),
		Start:             geom.V3(0, 0, -35),
		MaxEpisodeTime:    40,
		Environment:       world.DefaultEnvironmentParams(),
		Agent:             world.DefaultAgentParams(),
		DiversityRate:     0.3,
		DiversityStrength: 0.5,
		LearningRate:      0.01,
		MutationRate:      training.DefaultMutationRate,
		MutationStrength:  training.DefaultMutationStrength,
		GoalReward:        training.DefaultGoalReward,
	}
}

// Sources holds one random generator per stochastic concern.
type Sources struct {
	Init     *rand.Rand // controller weights
	Mutation *rand.Rand // diversity and per-generation mutation
	Hole     *rand.Rand // hole placement
}

// NewSources derives independent generators from a single seed.
func NewSources(seed int64) Sources {
	return Sources{
		Init:     rand.New(rand.NewSource(seed)),
		Mutation: rand.New(rand.NewSource(seed ^ 0x5deece66d)),
		Hole:     rand.New(rand.NewSource(seed ^ 0x2545f4914f6cdd1d)),
	}
}
