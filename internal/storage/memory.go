package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"morphogen/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	targets     map[string]model.Target
	runs        map[string]model.Run
	phenotypes  map[string][]model.Phenotype
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.targets = make(map[string]model.Target)
	s.runs = make(map[string]model.Run)
	s.phenotypes = make(map[string][]model.Phenotype)
	return nil
}

func (s *MemoryStore) SaveTarget(_ context.Context, target model.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.targets[target.Name] = cloneTarget(target)
	return nil
}

func (s *MemoryStore) GetTarget(_ context.Context, name string) (model.Target, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target, ok := s.targets[name]
	if !ok {
		return model.Target{}, false, nil
	}
	return cloneTarget(target), true, nil
}

func (s *MemoryStore) ListTargets(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.targets))
	for name := range s.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

// ListRuns returns runs oldest first.
func (s *MemoryStore) ListRuns(_ context.Context) ([]model.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]model.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sortRuns(runs)
	return runs, nil
}

func (s *MemoryStore) SavePhenotypes(_ context.Context, runID string, phenotypes []model.Phenotype) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	copied := make([]model.Phenotype, len(phenotypes))
	copy(copied, phenotypes)
	s.phenotypes[runID] = copied
	return nil
}

func (s *MemoryStore) GetPhenotypes(_ context.Context, runID string) ([]model.Phenotype, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	phenotypes, ok := s.phenotypes[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.Phenotype, len(phenotypes))
	copy(copied, phenotypes)
	return copied, true, nil
}

func cloneTarget(t model.Target) model.Target {
	voxels := make([]model.Voxel, len(t.Voxels))
	for i, v := range t.Voxels {
		sensors := make([]model.Sensor, len(v.Sensors))
		for j, s := range v.Sensors {
			s.Constant = append([]float64(nil), s.Constant...)
			sensors[j] = s
		}
		voxels[i] = model.Voxel{X: v.X, Y: v.Y, Sensors: sensors}
	}
	t.Voxels = voxels
	return t
}

func sortRuns(runs []model.Run) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.Before(runs[j].StartedAt)
		}
		return runs[i].ID < runs[j].ID
	})
}
