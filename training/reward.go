// Package training scores agents and turns a generation's fitness into the
// next generation's controllers.
package training

import (
	"math"

	"github.com/pthm-cable/holeswarm/world"
)

// Reward shaping constants.
const (
	DefaultGoalReward = 2000

	collisionPenalty  = 10
	collisionReach    = 25 // distance under which a crash still earns credit
	collisionReachMul = 3

	proximityReach = 25
	proximityMul   = 0.15
	planarBonusMul = 15

	alignEpsilon   = 0.01
	alignTowardMul = 8
	alignAwayMul   = 4 // moving away costs less than moving toward earns

	loiterSpeed      = 3
	loiterDistance   = 5
	loiterPenaltyMul = 0.5

	tickCost = 0.02
)

// CalculateReward scores an agent for the current tick. reachedGoal wins
// over collided; out-of-bounds is reported as collided by the caller.
func (t *Trainer) CalculateReward(a *world.Agent, env *world.Environment, reachedGoal, collided bool) float32 {
	if reachedGoal {
		return t.GoalReward
	}

	toHole := env.HoleCenter.Sub(a.Position)
	dist := toHole.Length()

	if collided {
		return -collisionPenalty + max32(0, (collisionReach-dist)*collisionReachMul)
	}

	var reward float32

	proximity := max32(0, proximityReach-dist)
	reward += proximity * proximity * proximityMul

	xy := a.Position.PlanarDistance(env.HoleCenter)
	if span := env.HoleRadius * 2; xy < span {
		reward += (1 - xy/span) * planarBonusMul
	}

	speedSq := a.Velocity.LengthSquared()
	if speedSq > alignEpsilon && dist > alignEpsilon {
		align := a.Velocity.Normalized().Dot(toHole.Normalized())
		if align > 0 {
			reward += align * alignTowardMul
		} else {
			reward += align * alignAwayMul
		}
	}

	speed := float32(math.Sqrt(float64(speedSq)))
	if speed > loiterSpeed && dist > loiterDistance {
		reward -= speed * loiterPenaltyMul
	}

	reward -= tickCost
	return reward
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
