package game

import (
	"log/slog"

	"github.com/pthm-cable/holeswarm/history"
	"github.com/pthm-cable/holeswarm/sim"
	"github.com/pthm-cable/holeswarm/telemetry"
)

// onGenerationEnd records a finished generation everywhere it is tracked.
func (g *Game) onGenerationEnd(s *sim.GenerationSummary) {
	g.perf.StartPhase(telemetry.PhaseTelemetry)

	stats := telemetry.ComputeGenerationStats(s)
	if err := g.output.WriteGeneration(stats); err != nil {
		slog.Error("failed to write generation", "error", err)
	}
	if g.shouldReport(s.Generation) {
		telemetry.LogGeneration(stats, g.tick)
		perfStats := g.perf.Stats()
		perfStats.LogStats()
		if err := g.output.WritePerf(perfStats, s.Generation); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
	if s.NewBest {
		telemetry.LogNewBest(s.Generation, s.BestFitness)
	}

	// TrainStep leaves the elite's controller untouched, so it still holds
	// the generation's best.
	elite := g.pop.Controller(s.Elite)
	if _, err := g.hall.Consider(s.Generation, s.EliteFitness, elite); err != nil {
		slog.Error("failed to record elite", "error", err)
	}

	g.perf.StartPhase(telemetry.PhaseHistory)
	g.recordGeneration(stats)

	if every := g.cfg.Autosave.EveryGenerations; every > 0 && (s.Generation+1)%every == 0 {
		g.perf.StartPhase(telemetry.PhaseAutosave)
		g.autosave(s)
	}
}

// onSuccess records the winning flight and saves the broadcast controller.
func (g *Game) onSuccess(slot int) {
	g.perf.StartPhase(telemetry.PhaseTelemetry)

	stats := telemetry.SuccessStats(g.pop.Generation(), g.pop.EpisodeTime(), g.pop.Fitness(), slot)
	stats.BestFitness = float64(g.pop.BestFitness())
	telemetry.LogSuccess(stats.Generation, slot, g.pop.EpisodeTime(), g.tick)
	if err := g.output.WriteGeneration(stats); err != nil {
		slog.Error("failed to write success", "error", err)
	}

	g.perf.StartPhase(telemetry.PhaseHistory)
	g.recordGeneration(stats)

	g.perf.StartPhase(telemetry.PhaseAutosave)
	if err := g.Save(); err != nil {
		slog.Error("failed to save controller after success", "error", err)
	}
}

func (g *Game) shouldReport(generation int) bool {
	interval := g.cfg.Telemetry.ReportInterval
	return interval <= 1 || generation%interval == 0
}

func (g *Game) recordGeneration(stats telemetry.GenerationStats) {
	rec := history.GenerationRecord{
		Generation:   stats.Generation,
		Reason:       stats.Reason,
		EliteFitness: stats.EliteFitness,
		BestFitness:  stats.BestFitness,
		FitnessMean:  stats.FitnessMean,
		Success:      stats.Success,
	}
	if err := g.store.AppendGeneration(g.ctx, g.runID, rec); err != nil {
		slog.Error("failed to record generation", "run_id", g.runID, "error", err)
	}
}
