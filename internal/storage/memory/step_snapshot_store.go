package memory

import (
	"context"
	"sort"
	"sync"

	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/storage"
)

// snapshotKey is the composite key for step snapshots.
type snapshotKey struct {
	runID string
	step  int
}

// StepSnapshotStore is an in-memory implementation of storage.StepSnapshotStore.
type StepSnapshotStore struct {
	mu   sync.RWMutex
	data map[snapshotKey]*domain.StepSnapshot
}

// NewStepSnapshotStore creates a new in-memory step snapshot store.
func NewStepSnapshotStore() *StepSnapshotStore {
	return &StepSnapshotStore{
		data: make(map[snapshotKey]*domain.StepSnapshot),
	}
}

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate
// (run_id, step).
func (s *StepSnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.StepSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[snapshotKey]struct{}, len(snapshots))

	for _, snap := range snapshots {
		if snap == nil || snap.RunID == "" {
			return storage.ErrInvalidInput
		}

		k := snapshotKey{snap.RunID, snap.Step}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, snap := range snapshots {
		copy := *snap
		s.data[snapshotKey{snap.RunID, snap.Step}] = &copy
	}

	return nil
}

// GetByRunID retrieves all snapshots for a run, ordered by step ASC.
func (s *StepSnapshotStore) GetByRunID(_ context.Context, runID string) ([]*domain.StepSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StepSnapshot
	for _, snap := range s.data {
		if snap.RunID == runID {
			copy := *snap
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Step < result[j].Step
	})

	return result, nil
}

// GetByStepRange retrieves snapshots for a run within [from, to] (inclusive).
func (s *StepSnapshotStore) GetByStepRange(_ context.Context, runID string, from, to int) ([]*domain.StepSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StepSnapshot
	for _, snap := range s.data {
		if snap.RunID == runID && snap.Step >= from && snap.Step <= to {
			copy := *snap
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Step < result[j].Step
	})

	return result, nil
}

var _ storage.StepSnapshotStore = (*StepSnapshotStore)(nil)
