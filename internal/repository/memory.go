package repository

import (
	"context"
	"sync"

	"github.com/boardkit/boardkit/internal/model"
)

// MemoryStore is a process-local credential store.
// Used for development and tests; data is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*model.User
	byLogin map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*model.User),
		byLogin: make(map[string]string),
	}
}

// Ping always succeeds.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// CreateUser stores a copy of user. The login check and insert happen under one lock.
func (m *MemoryStore) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byLogin[user.Login]; exists {
		return ErrLoginExists
	}

	stored := user.Clone()
	if stored.Boards == nil {
		stored.Boards = []string{}
	}
	m.byID[stored.ID] = stored
	m.byLogin[stored.Login] = stored.ID
	return nil
}

// GetUserByID retrieves a user by their ID.
func (m *MemoryStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user.Clone(), nil
}

// GetUserByLogin retrieves a user by their login.
func (m *MemoryStore) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byLogin[login]
	if !ok {
		return nil, ErrUserNotFound
	}
	return m.byID[id].Clone(), nil
}

// Len returns the number of stored users.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
