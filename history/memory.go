package history

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type controllerKey struct {
	runID      string
	generation int
}

// MemoryStore keeps history in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]RunRecord
	generations map[string][]GenerationRecord
	controllers map[controllerKey][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]RunRecord)
	s.generations = make(map[string][]GenerationRecord)
	s.controllers = make(map[controllerKey][]byte)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	run.Config = append([]byte(nil), run.Config...)
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return RunRecord{}, false, errNotInitialized
	}
	run, ok := s.runs[id]
	return run, ok, nil
}

// AppendGeneration replaces an existing record for the same generation.
func (s *MemoryStore) AppendGeneration(_ context.Context, runID string, rec GenerationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	recs := s.generations[runID]
	for i := range recs {
		if recs[i].Generation == rec.Generation {
			recs[i] = rec
			return nil
		}
	}
	s.generations[runID] = append(recs, rec)
	return nil
}

// Generations returns the run's records ordered by generation.
func (s *MemoryStore) Generations(_ context.Context, runID string) ([]GenerationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	out := append([]GenerationRecord(nil), s.generations[runID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Generation < out[j].Generation })
	return out, nil
}

func (s *MemoryStore) SaveController(_ context.Context, runID string, generation int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.controllers[controllerKey{runID, generation}] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) LatestController(_ context.Context, runID string) (int, []byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return 0, nil, false, errNotInitialized
	}
	best, found := 0, false
	for k := range s.controllers {
		if k.runID != runID {
			continue
		}
		if !found || k.generation > best {
			best, found = k.generation, true
		}
	}
	if !found {
		return 0, nil, false, nil
	}
	data := s.controllers[controllerKey{runID, best}]
	return best, append([]byte(nil), data...), true, nil
}

var errNotInitialized = errors.New("store is not initialized")
