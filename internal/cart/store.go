package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store keeps one cart per terminal. Mutate runs fn against the current
// state and persists the result atomically with respect to other calls
// for the same terminal.
type Store interface {
	Get(ctx context.Context, terminalID uuid.UUID) (State, error)
	Mutate(ctx context.Context, terminalID uuid.UUID, fn func(*State)) (State, error)
	Clear(ctx context.Context, terminalID uuid.UUID) error
}

// MemoryStore is the default single-process store. A terminal with no
// cart yet reads as an empty state.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[uuid.UUID]*State)}
}

func (m *MemoryStore) Get(_ context.Context, terminalID uuid.UUID) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.carts[terminalID]; ok {
		return st.clone(), nil
	}
	return State{}, nil
}

func (m *MemoryStore) Mutate(_ context.Context, terminalID uuid.UUID, fn func(*State)) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.carts[terminalID]
	if !ok {
		st = &State{}
		m.carts[terminalID] = st
	}
	fn(st)
	return st.clone(), nil
}

func (m *MemoryStore) Clear(_ context.Context, terminalID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, terminalID)
	return nil
}
