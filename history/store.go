// Package history persists run metadata, per-generation results, and
// controller checkpoints so runs can be compared and resumed.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunRecord describes one training run.
type RunRecord struct {
	ID             string
	Seed           int64
	PopulationSize int
	StartedAt      time.Time
	Config         []byte // YAML snapshot
}

// GenerationRecord is the stored result of one finished generation.
type GenerationRecord struct {
	Generation   int
	Reason       string
	EliteFitness float64
	BestFitness  float64
	FitnessMean  float64
	Success      bool
}

// Store persists run history.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	AppendGeneration(ctx context.Context, runID string, rec GenerationRecord) error
	Generations(ctx context.Context, runID string) ([]GenerationRecord, error)
	SaveController(ctx context.Context, runID string, generation int, data []byte) error
	// LatestController returns the checkpoint with the highest generation.
	LatestController(ctx context.Context, runID string) (generation int, data []byte, ok bool, err error)
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}
