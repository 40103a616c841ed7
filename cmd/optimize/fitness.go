package main

import (
	"fmt"
	"math"
	"path/filepath"
	"sync"

	"github.com/pthm-cable/holeswarm/config"
	"github.com/pthm-cable/holeswarm/game"
)

// FitnessEvaluator runs headless training runs and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	maxTicks    int64
	seeds       []int64
	baseConfig  *config.Config
	outputDir   string

	mu            sync.Mutex
	bestFitness   float64
	lastSuccesses int // seeds that reached the hole in the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, maxTicks int64, seeds []int64, baseCfg *config.Config, outputDir string) *FitnessEvaluator {
	return &FitnessEvaluator{
		outputDir:   outputDir,
		params:      params,
		generations: generations,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastSuccesses returns how many seeds succeeded in the most recent evaluation.
func (fe *FitnessEvaluator) LastSuccesses() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSuccesses
}

// runResult holds the outcome of a single training run.
type runResult struct {
	bestFitness float64
	succeeded   bool
	generation  int // generation the run stopped in
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runTraining(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	successes := 0
	for _, r := range results {
		total += fe.computeFitness(r)
		if r.succeeded {
			successes++
		}
	}
	avg := total / float64(len(fe.seeds))

	fe.mu.Lock()
	fe.bestFitness = min(fe.bestFitness, avg)
	fe.lastSuccesses = successes
	fe.mu.Unlock()

	return avg
}

// runTraining trains one headless population until it succeeds, runs out
// of generations, or hits the tick cap.
func (fe *FitnessEvaluator) runTraining(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGame(cfg, game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		StoreKind:      "memory",
		SavePath:       filepath.Join(fe.outputDir, fmt.Sprintf("controller_seed_%d.bin", seed)),
	})
	if err != nil {
		return runResult{bestFitness: math.Inf(-1)}
	}
	defer g.Unload()

	view := g.View()
	for !g.Done() && view.Generation() < fe.generations && g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}

	return runResult{
		bestFitness: float64(view.BestFitness()),
		succeeded:   g.Done(),
		generation:  view.Generation(),
	}
}

// copyConfig returns a copy of the base config. Sections are plain values;
// the layer size slice is only read.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Autosave.EveryGenerations = 0
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// A success scores the goal reward scaled up the earlier it happened;
// otherwise the best elite fitness of the run counts.
func (fe *FitnessEvaluator) computeFitness(r runResult) float64 {
	if r.succeeded {
		goal := fe.baseConfig.Training.GoalReward
		early := 1.0 - float64(r.generation)/float64(max(fe.generations, 1))
		return -(goal * (1.0 + clamp01(early)))
	}
	if math.IsInf(r.bestFitness, 0) {
		return math.Inf(1)
	}
	return -r.bestFitness
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
