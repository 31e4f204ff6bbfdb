// Package memory holds mutex-guarded in-process implementations of the
// store interfaces. They back the test suite and DB-less development runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/model"
	"github.com/jayeshpatil25/Gate-Pass-Management-System/internal/store"
)

type IdentityStore struct {
	mu   sync.RWMutex
	data map[string]model.Identity
}

func NewIdentityStore() *IdentityStore {
	return &IdentityStore{data: make(map[string]model.Identity)}
}

func (s *IdentityStore) Create(_ context.Context, identity model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[identity.ID]; ok {
		return store.ErrDuplicate
	}
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now().UTC()
	}
	s.data[identity.ID] = identity
	return nil
}

func (s *IdentityStore) Get(_ context.Context, id string) (model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.data[id]
	if !ok {
		return model.Identity{}, store.ErrNotFound
	}
	return identity, nil
}

type GatePassStore struct {
	mu   sync.RWMutex
	data map[string]model.GatePass
}

func NewGatePassStore() *GatePassStore {
	return &GatePassStore{data: make(map[string]model.GatePass)}
}

func (s *GatePassStore) Create(_ context.Context, pass model.GatePass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[pass.ID]; ok {
		return store.ErrDuplicate
	}
	s.data[pass.ID] = pass
	return nil
}

func (s *GatePassStore) Get(_ context.Context, id string) (model.GatePass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pass, ok := s.data[id]
	if !ok {
		return model.GatePass{}, store.ErrNotFound
	}
	return pass, nil
}

func (s *GatePassStore) ListByStudent(_ context.Context, studentID string) ([]model.GatePass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	passes := make([]model.GatePass, 0)
	for _, pass := range s.data {
		if pass.StudentID == studentID {
			passes = append(passes, pass)
		}
	}
	sort.Slice(passes, func(i, j int) bool {
		return passes[i].CreatedAt.After(passes[j].CreatedAt)
	})
	return passes, nil
}

func (s *GatePassStore) ListPending(_ context.Context) ([]model.GatePass, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	passes := make([]model.GatePass, 0)
	for _, pass := range s.data {
		if pass.Status == model.StatusPending {
			passes = append(passes, pass)
		}
	}
	sort.Slice(passes, func(i, j int) bool {
		return passes[i].Date.After(passes[j].Date)
	})
	return passes, nil
}

func (s *GatePassStore) HasPending(_ context.Context, studentID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pass := range s.data {
		if pass.StudentID == studentID && pass.Status == model.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (s *GatePassStore) UpdateStatus(_ context.Context, id string, status model.Status) (model.GatePass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pass, ok := s.data[id]
	if !ok {
		return model.GatePass{}, store.ErrNotFound
	}
	pass.Status = status
	s.data[id] = pass
	return pass, nil
}

func (s *GatePassStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.data, id)
	return nil
}
