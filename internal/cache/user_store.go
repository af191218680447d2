package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/boardkit/boardkit/internal/model"
)

// Store is the credential store being decorated.
type Store interface {
	Ping(ctx context.Context) error
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
}

// UserStore is a read-through cache in front of a Store.
// Only lookups by ID are cached; token logins resolve users that way.
// Redis failures are logged and fall through to the store.
type UserStore struct {
	store  Store
	cache  *Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewUserStore wraps store with cache.
func NewUserStore(store Store, cache *Cache, ttl time.Duration, logger *slog.Logger) *UserStore {
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{store: store, cache: cache, ttl: ttl, logger: logger}
}

// Ping checks the underlying store. Cache health is reported separately.
func (s *UserStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// CreateUser persists the user and primes the cache.
func (s *UserStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.store.CreateUser(ctx, user); err != nil {
		return err
	}
	if err := s.cache.SetUser(ctx, user, s.ttl); err != nil {
		s.logger.Debug("user cache write failed", "user_id", user.ID, "error", err)
	}
	return nil
}

// GetUserByID serves from cache, falling back to the store on a miss.
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.cache.GetUser(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.Debug("user cache read failed", "user_id", id, "error", err)
	}

	user, err = s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetUser(ctx, user, s.ttl); err != nil {
		s.logger.Debug("user cache write failed", "user_id", id, "error", err)
	}
	return user, nil
}

// GetUserByLogin always reads the store.
func (s *UserStore) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	return s.store.GetUserByLogin(ctx, login)
}
