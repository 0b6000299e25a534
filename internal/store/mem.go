package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/n7z/jobradar/internal/model"
)

// MemStore is an in-memory JobStore used in dry-run mode and tests. Nothing
// survives process exit.
type MemStore struct {
	mu   sync.RWMutex
	jobs map[string]model.Job

	// FailPuts forces PutBatch to fail, for exercising persistence-failure
	// paths in tests.
	FailPuts bool
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{jobs: make(map[string]model.Job)}
}

func (s *MemStore) All() ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (s *MemStore) Get(id string) (model.Job, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return j, ok, nil
}

func (s *MemStore) PutBatch(jobs []model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPuts {
		return fmt.Errorf("mem store: writes disabled")
	}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return nil
}

func (s *MemStore) SetApplied(id string, applied bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %s not found", id)
	}
	j.Applied = applied
	if applied {
		now := time.Now().UTC()
		j.AppliedAt = &now
	} else {
		j.AppliedAt = nil
	}
	s.jobs[id] = j
	return nil
}

func (s *MemStore) SetHidden(id string, hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %s not found", id)
	}
	j.Hidden = hidden
	s.jobs[id] = j
	return nil
}

func (s *MemStore) Close() error { return nil }
