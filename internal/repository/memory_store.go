package repository

import (
	"context"
	"fmt"
	"sync"

	"SignalGate/internal/domain/models"
	"SignalGate/internal/domain/repository"
)

// MemoryStore is the authoritative in-memory signal registry. A single
// mutex serializes all mutations, which is what makes concurrent
// approve/reject races resolve to exactly one winner. Reads hand out
// clones so callers never see a partially written record or hold a
// mutable reference into the store.
type MemoryStore struct {
	mu      sync.RWMutex
	signals map[string]*models.Signal
	order   []string // insertion order, preserved for listings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{signals: make(map[string]*models.Signal)}
}

func (m *MemoryStore) Create(_ context.Context, s *models.Signal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.signals[s.ID]; exists {
		return fmt.Errorf("create %s: %w", s.ID, models.ErrDuplicateID)
	}
	m.signals[s.ID] = s.Clone()
	m.order = append(m.order, s.ID)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.signals[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, models.ErrNotFound)
	}
	return s.Clone(), nil
}

// List returns signals in insertion order. An empty status means no
// filter. limit <= 0 means no truncation.
func (m *MemoryStore) List(_ context.Context, status models.Status, limit int) ([]*models.Signal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Signal, 0, len(m.order))
	for _, id := range m.order {
		s := m.signals[id]
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, s.Clone())
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// UpdateStatus is the approval state machine. Unknown ids fail with
// ErrNotFound before transition legality is considered; anything not
// PENDING fails with ErrInvalidTransition. The check and the write happen
// under one lock, so exactly one of two racing transitions wins.
func (m *MemoryStore) UpdateStatus(_ context.Context, id string, status models.Status) (*models.Signal, error) {
	if status != models.StatusApproved && status != models.StatusRejected {
		return nil, fmt.Errorf("update %s to %s: %w", id, status, models.ErrInvalidTransition)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.signals[id]
	if !ok {
		return nil, fmt.Errorf("update %s: %w", id, models.ErrNotFound)
	}
	if s.Status != models.StatusPending {
		return nil, fmt.Errorf("update %s (%s): %w", id, s.Status, models.ErrInvalidTransition)
	}
	s.Status = status
	return s.Clone(), nil
}

func (m *MemoryStore) Stats(_ context.Context) (models.StatusCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := models.StatusCounts{Total: len(m.signals)}
	for _, s := range m.signals {
		switch s.Status {
		case models.StatusApproved:
			c.Approved++
		case models.StatusPending:
			c.Pending++
		case models.StatusRejected:
			c.Rejected++
		}
	}
	return c, nil
}

var _ repository.SignalStore = (*MemoryStore)(nil)
