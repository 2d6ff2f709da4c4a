package memory

import (
	"context"
	"sort"
	"sync"

	"fixedrate-amm-lab/internal/domain"
	"fixedrate-amm-lab/internal/storage"
)

// reportKey is the composite key for agent reports.
type reportKey struct {
	runID   string
	address int
}

// AgentReportStore is an in-memory implementation of storage.AgentReportStore.
type AgentReportStore struct {
	mu   sync.RWMutex
	data map[reportKey]*domain.AgentReportRecord
}

// NewAgentReportStore creates a new in-memory agent report store.
func NewAgentReportStore() *AgentReportStore {
	return &AgentReportStore{
		data: make(map[reportKey]*domain.AgentReportRecord),
	}
}

// InsertBulk adds multiple reports atomically. Fails entire batch on duplicate
// (run_id, address).
func (s *AgentReportStore) InsertBulk(_ context.Context, reports []*domain.AgentReportRecord) error {
	if len(reports) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[reportKey]struct{}, len(reports))

	for _, r := range reports {
		if r == nil || r.RunID == "" {
			return storage.ErrInvalidInput
		}

		k := reportKey{r.RunID, r.Address}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	for _, r := range reports {
		copy := *r
		s.data[reportKey{r.RunID, r.Address}] = &copy
	}

	return nil
}

// GetByRunID retrieves all reports for a run, ordered by address ASC.
func (s *AgentReportStore) GetByRunID(_ context.Context, runID string) ([]*domain.AgentReportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AgentReportRecord
	for _, r := range s.data {
		if r.RunID == runID {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})

	return result, nil
}

var _ storage.AgentReportStore = (*AgentReportStore)(nil)
