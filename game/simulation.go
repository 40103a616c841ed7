package game

import "github.com/pthm-cable/holeswarm/telemetry"

// UpdateHeadless advances the simulation without drawing.
func (g *Game) UpdateHeadless() {
	g.Step()
}

// Step runs up to StepsPerUpdate ticks, stopping early on success.
func (g *Game) Step() {
	for i := 0; i < g.opts.StepsPerUpdate && !g.done; i++ {
		g.simulationStep()
	}
}

func (g *Game) simulationStep() {
	g.perf.StartTick()
	g.perf.StartPhase(telemetry.PhaseSimulate)

	res := g.pop.Update(g.dt)
	g.tick++

	if res.Ended != nil {
		g.onGenerationEnd(res.Ended)
	}
	if res.Succeeded() && !g.done {
		g.done = true
		g.onSuccess(res.SuccessIndex)
	}

	g.perf.EndTick()
}
