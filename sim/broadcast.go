package sim

import (
	"log/slog"

	"github.com/pthm-cable/holeswarm/world"
)

// forwardThrustTarget is the desired value of the fourth control channel
// while imitating a successful flight.
const forwardThrustTarget = 1.0

// learnFromSuccessfulTrajectory replays the winner's recorded sensors,
// nudging its controller toward "fly at the hole" on every step, then copies
// the result into every other slot. Outputs past the four control channels
// are trained toward zero.
func (p *Population) learnFromSuccessfulTrajectory(idx int) {
	trajectory := p.agents[idx].Trajectory()
	if len(trajectory) == 0 {
		return
	}

	winner := p.controllers[idx]
	desired := make([]float32, winner.OutputSize())
	for _, s := range trajectory {
		if len(s) < world.SensorMinLength {
			continue
		}
		d := world.SensorDirToHole
		desired[0], desired[1], desired[2] = s[d], s[d+1], s[d+2]
		desired[3] = forwardThrustTarget
		winner.LearnFromGradient(s, desired, p.opts.LearningRate)
	}

	for i, c := range p.controllers {
		if i != idx {
			c.CopyFrom(winner)
		}
	}

	slog.Info("knowledge broadcast",
		"slot", idx,
		"steps", len(trajectory),
		"population", len(p.controllers),
	)
}
