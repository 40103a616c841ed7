// Package main provides CMA-ES optimization for holeswarm training parameters.
package main

import (
	"github.com/pthm-cable/holeswarm/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Generational mutation
			{Name: "mutation_rate", Path: "training.mutation_rate", Min: 0.005, Max: 0.3, Default: 0.05},
			{Name: "mutation_strength", Path: "training.mutation_strength", Min: 0.01, Max: 0.5, Default: 0.1},
			// Initial diversity
			{Name: "diversity_rate", Path: "training.diversity_rate", Min: 0.05, Max: 1.0, Default: 0.3},
			{Name: "diversity_strength", Path: "training.diversity_strength", Min: 0.05, Max: 1.5, Default: 0.5},
			// Imitation
			{Name: "learning_rate", Path: "training.learning_rate", Min: 0.001, Max: 0.1, Default: 0.01},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.Training.MutationRate = clamped[0]
	cfg.Training.MutationStrength = clamped[1]
	cfg.Training.DiversityRate = clamped[2]
	cfg.Training.DiversityStrength = clamped[3]
	cfg.Training.LearningRate = clamped[4]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Training.MutationRate,
		cfg.Training.MutationStrength,
		cfg.Training.DiversityRate,
		cfg.Training.DiversityStrength,
		cfg.Training.LearningRate,
	}
}
