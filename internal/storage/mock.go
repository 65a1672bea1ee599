package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MockStore is an in-memory SaveStore. It backs the "memory" save backend
// and tests.
type MockStore struct {
	mu        sync.RWMutex
	games     map[uuid.UUID]SaveGame
	pingError error
}

// Ensure MockStore implements SaveStore interface
var _ SaveStore = (*MockStore)(nil)

// NewMockStore creates an empty store
func NewMockStore() *MockStore {
	return &MockStore{
		games: make(map[uuid.UUID]SaveGame),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) SaveGame(ctx context.Context, sg *SaveGame) error {
	if err := prepare(sg); err != nil {
		return err
	}
	stored := *sg
	stored.Data = append([]byte(nil), sg.Data...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[sg.ID] = stored
	return nil
}

func (m *MockStore) LoadGame(ctx context.Context, id uuid.UUID) (*SaveGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sg, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	sg.Data = append([]byte(nil), sg.Data...)
	return &sg, nil
}

func (m *MockStore) ListGames(ctx context.Context) ([]SaveGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	games := make([]SaveGame, 0, len(m.games))
	for _, sg := range m.games {
		games = append(games, sg)
	}
	sortNewestFirst(games)
	return games, nil
}

func (m *MockStore) DeleteGame(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}
