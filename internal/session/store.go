package session

import (
	"context"
	"sync"
)

// Store is the anchor for all dialogue state: one Session per customer
// identity. GetOrCreate lazily creates sessions on first contact; there is no
// delete in the normal flow.
type Store interface {
	GetOrCreate(ctx context.Context, customerID, displayNameHint string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Count(ctx context.Context) (int64, error)
}

// MemoryStore keeps sessions in a process-local map. It is the default
// backend for single-instance deployments and for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the customer's session, creating one at the welcome
// step if absent. An existing display name is never overwritten by the hint.
func (m *MemoryStore) GetOrCreate(_ context.Context, customerID, displayNameHint string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[customerID]; ok {
		return cloneSession(s), nil
	}
	s := New(customerID, displayNameHint)
	m.sessions[customerID] = cloneSession(s)
	return s, nil
}

// Save upserts the session keyed by customer ID.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.CustomerID] = cloneSession(s)
	return nil
}

// Count returns the number of live sessions.
func (m *MemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.sessions)), nil
}

// cloneSession copies a session so callers never share mutable state with
// the store's map.
func cloneSession(s *Session) *Session {
	out := *s
	if s.Scratch.Complaint != nil {
		draft := *s.Scratch.Complaint
		out.Scratch.Complaint = &draft
	}
	return &out
}
