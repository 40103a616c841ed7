package training

import (
	"math/rand"

	"github.com/pthm-cable/holeswarm/neural"
)

// Default selection hyperparameters.
const (
	DefaultMutationRate     = 0.05
	DefaultMutationStrength = 0.1
)

// Trainer holds the reward and mutation hyperparameters. It keeps no other
// state between generations.
type Trainer struct {
	MutationRate     float32
	MutationStrength float32
	GoalReward       float32
}

// NewTrainer returns a trainer with the default hyperparameters.
func NewTrainer() *Trainer {
	return &Trainer{
		MutationRate:     DefaultMutationRate,
		MutationStrength: DefaultMutationStrength,
		GoalReward:       DefaultGoalReward,
	}
}

// Tier returns the mutation multiplier applied to slot i of n when it is
// refilled from the elite. Low slots fine-tune, the last two explore.
func Tier(i, n int) float32 {
	switch {
	case i == 0:
		return 0.3
	case i == 1:
		return 0.6
	case i == n-1:
		return 3.0
	case i == n-2:
		return 1.8
	default:
		return 1.0
	}
}

// TrainStep overwrites every non-elite controller with a copy of the elite
// and mutates it according to its tier. The elite is left untouched.
// It is a no-op when there are no controllers or the fitness length does not
// match. Returns the elite index.
func (t *Trainer) TrainStep(controllers []*neural.FFNN, fitness []float32, rng *rand.Rand) int {
	if len(controllers) == 0 || len(fitness) != len(controllers) {
		return 0
	}

	elite := BestIndex(fitness)
	best := controllers[elite]
	n := len(controllers)

	for i, c := range controllers {
		if i == elite {
			continue
		}
		c.CopyFrom(best)
		m := Tier(i, n)
		c.Mutate(rng, t.MutationRate*m, t.MutationStrength*m)
	}
	return elite
}

// BestIndex returns the index of the highest fitness. Ties go to the lowest
// index; an empty slice yields 0.
func BestIndex(fitness []float32) int {
	best := 0
	for i, f := range fitness {
		if f > fitness[best] {
			best = i
		}
	}
	return best
}
