// Package telemetry provides generation statistics, CSV experiment output,
// timing, and structured run events.
package telemetry

import (
	"log/slog"

	"github.com/dustin/go-humanize"
)

// LogGeneration reports a finished generation.
func LogGeneration(s GenerationStats, ticks int64) {
	slog.Info("generation complete",
		"generation", s.Generation,
		"reason", s.Reason,
		"ticks", humanize.Comma(ticks),
		"elite", s.Elite,
		"elite_fitness", s.EliteFitness,
		"best_fitness", s.BestFitness,
		"fitness_mean", s.FitnessMean,
		"inactive", s.Inactive,
	)
}

// LogNewBest reports that a generation beat every earlier elite.
func LogNewBest(generation int, fitness float32) {
	slog.Info("new best fitness",
		"generation", generation,
		"fitness", fitness,
	)
}

// LogSuccess reports that an agent flew through the hole.
func LogSuccess(generation, slot int, episodeTime float32, ticks int64) {
	slog.Info("agent reached the hole",
		"generation", generation,
		"slot", slot,
		"episode_time", episodeTime,
		"ticks", humanize.Comma(ticks),
	)
}
