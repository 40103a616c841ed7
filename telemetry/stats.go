package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/holeswarm/sim"
)

// GenerationStats is one row of generations.csv.
type GenerationStats struct {
	Generation   int     `csv:"generation"`
	Reason       string  `csv:"reason"`
	EpisodeTime  float64 `csv:"episode_time"`
	Elite        int     `csv:"elite"`
	EliteFitness float64 `csv:"elite_fitness"`
	BestFitness  float64 `csv:"best_fitness"`

	// Fitness distribution over all slots
	FitnessMean float64 `csv:"fitness_mean"`
	FitnessStd  float64 `csv:"fitness_std"`
	FitnessP10  float64 `csv:"fitness_p10"`
	FitnessP50  float64 `csv:"fitness_p50"`
	FitnessP90  float64 `csv:"fitness_p90"`

	Inactive int  `csv:"inactive"`
	Success  bool `csv:"success"`
}

// ComputeGenerationStats summarizes a finished generation.
func ComputeGenerationStats(s *sim.GenerationSummary) GenerationStats {
	gs := GenerationStats{
		Generation:   s.Generation,
		Reason:       s.Reason.String(),
		EpisodeTime:  float64(s.EpisodeTime),
		Elite:        s.Elite,
		EliteFitness: float64(s.EliteFitness),
		BestFitness:  float64(s.BestFitness),
		Inactive:     s.Inactive,
	}
	gs.FitnessMean, gs.FitnessStd, gs.FitnessP10, gs.FitnessP50, gs.FitnessP90 = ComputeFitnessStats(s.Fitness)
	return gs
}

// SuccessStats builds the row written when a run ends with an agent through
// the hole.
func SuccessStats(generation int, episodeTime float32, fitness []float32, winner int) GenerationStats {
	gs := GenerationStats{
		Generation:  generation,
		Reason:      "success",
		EpisodeTime: float64(episodeTime),
		Elite:       winner,
		Success:     true,
	}
	if winner >= 0 && winner < len(fitness) {
		gs.EliteFitness = float64(fitness[winner])
	}
	gs.FitnessMean, gs.FitnessStd, gs.FitnessP10, gs.FitnessP50, gs.FitnessP90 = ComputeFitnessStats(fitness)
	return gs
}

// ComputeFitnessStats returns mean, population std and empirical
// percentiles. All zero for an empty slice.
func ComputeFitnessStats(fitness []float32) (mean, std, p10, p50, p90 float64) {
	if len(fitness) == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, len(fitness))
	for i, f := range fitness {
		sorted[i] = float64(f)
	}
	sort.Float64s(sorted)

	mean, std = stat.PopMeanStdDev(sorted, nil)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.String("reason", s.Reason),
		slog.Float64("episode_time", s.EpisodeTime),
		slog.Int("elite", s.Elite),
		slog.Float64("elite_fitness", s.EliteFitness),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("fitness_mean", s.FitnessMean),
		slog.Float64("fitness_std", s.FitnessStd),
		slog.Float64("fitness_p10", s.FitnessP10),
		slog.Float64("fitness_p50", s.FitnessP50),
		slog.Float64("fitness_p90", s.FitnessP90),
		slog.Int("inactive", s.Inactive),
		slog.Bool("success", s.Success),
	)
}
