package telemetry

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pthm-cable/holeswarm/neural"
)

// HallEntry is a generation's elite controller and its fitness.
type HallEntry struct {
	Generation int
	Fitness    float32
	Controller []byte // neural binary encoding
}

// HallOfFame keeps the fittest elites seen over a run, best first.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider offers a generation's elite. Returns true if it was added.
func (hof *HallOfFame) Consider(generation int, fitness float32, nn *neural.FFNN) (bool, error) {
	// Sorted descending by fitness; equal fitness keeps the earlier entry first.
	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Fitness < fitness
	})
	if idx >= hof.maxSize {
		return false, nil
	}

	data, err := nn.MarshalBinary()
	if err != nil {
		return false, fmt.Errorf("encoding elite: %w", err)
	}

	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = HallEntry{Generation: generation, Fitness: fitness, Controller: data}

	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true, nil
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int { return len(hof.entries) }

// TopFitness returns the highest fitness in the hall, or 0 if it is empty.
func (hof *HallOfFame) TopFitness() float32 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// Best decodes the top controller. Returns nil if the hall is empty.
func (hof *HallOfFame) Best() (*neural.FFNN, error) {
	if len(hof.entries) == 0 {
		return nil, nil
	}
	nn := &neural.FFNN{}
	if err := nn.UnmarshalBinary(hof.entries[0].Controller); err != nil {
		return nil, fmt.Errorf("decoding hall entry: %w", err)
	}
	return nn, nil
}

// hallEntryJSON is the JSON-serializable representation of a hall entry.
type hallEntryJSON struct {
	Generation int     `json:"generation"`
	Fitness    float32 `json:"fitness"`
	Controller []byte  `json:"controller"`
}

// MarshalJSON serializes the hall, best first. Controllers are base64.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	out := make([]hallEntryJSON, len(hof.entries))
	for i, e := range hof.entries {
		out[i] = hallEntryJSON(e)
	}
	return json.MarshalIndent(out, "", "  ")
}
