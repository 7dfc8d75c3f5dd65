package order

import (
	"context"
	"slices"
	"sync"
)

type MemStore struct {
	mu        sync.RWMutex
	m         map[string]Order
	bySession map[string]string
	seq       []string
}

func NewMemStore() *MemStore {
	return &MemStore{
		m:         map[string]Order{},
		bySession: map[string]string{},
	}
}

func NewStore() Store {
	return NewMemStore()
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) Create(_ context.Context, o Order) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.bySession[o.SessionID]; dup {
		return false, nil
	}
	o.ProductIDs = slices.Clone(o.ProductIDs)
	s.m[o.ID] = o
	s.bySession[o.SessionID] = o.ID
	s.seq = append(s.seq, o.ID)
	return true, nil
}

func (s *MemStore) Get(_ context.Context, id string) (Order, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.m[id]
	return o, ok, nil
}

func (s *MemStore) GetBySession(ctx context.Context, sessionID string) (Order, bool, error) {
	s.mu.RLock()
	id, ok := s.bySession[sessionID]
	s.mu.RUnlock()
	if !ok {
		return Order{}, false, nil
	}
	return s.Get(ctx, id)
}

func (s *MemStore) SetStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.m[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	s.m[id] = o
	return nil
}

// List returns the newest orders first.
func (s *MemStore) List(_ context.Context, limit int) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, 0, min(limit, len(s.seq)))
	for i := len(s.seq) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.m[s.seq[i]])
	}
	return out, nil
}
