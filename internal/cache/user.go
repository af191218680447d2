package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/boardkit/boardkit/internal/model"
)

const (
	userKeyPrefix = "user:id:"

	// DefaultUserTTL is the TTL for cached users when none is configured.
	DefaultUserTTL = time.Minute
)

// ErrCacheMiss is returned when a key is absent or unreadable.
var ErrCacheMiss = errors.New("cache miss")

// cachedUser is the Redis representation of a user.
// Unlike model.User it keeps the password hash.
type cachedUser struct {
	ID           string    `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"password_hash"`
	PublicName   string    `json:"public_name"`
	Userpic      string    `json:"userpic"`
	Boards       []string  `json:"boards"`
	CreatedAt    time.Time `json:"created_at"`
}

func userKey(id string) string {
	return userKeyPrefix + id
}

func encodeUser(user *model.User) ([]byte, error) {
	boards := user.Boards
	if boards == nil {
		boards = []string{}
	}
	return json.Marshal(cachedUser{
		ID:           user.ID,
		Login:        user.Login,
		PasswordHash: user.PasswordHash,
		PublicName:   user.PublicName,
		Userpic:      user.Userpic,
		Boards:       boards,
		CreatedAt:    user.CreatedAt,
	})
}

func decodeUser(data []byte) (*model.User, error) {
	var cached cachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	if cached.ID == "" {
		return nil, errors.New("cached user has no id")
	}
	boards := cached.Boards
	if boards == nil {
		boards = []string{}
	}
	return &model.User{
		ID:           cached.ID,
		Login:        cached.Login,
		PasswordHash: cached.PasswordHash,
		PublicName:   cached.PublicName,
		Userpic:      cached.Userpic,
		Boards:       boards,
		CreatedAt:    cached.CreatedAt,
	}, nil
}

// GetUser retrieves a cached user by ID.
// Returns ErrCacheMiss if not found or if the entry is corrupted.
func (c *Cache) GetUser(ctx context.Context, id string) (*model.User, error) {
	data, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	user, err := decodeUser(data)
	if err != nil {
		// Corrupted cache entry - treat as miss
		return nil, ErrCacheMiss
	}
	return user, nil
}

// SetUser caches a user under its ID.
func (c *Cache) SetUser(ctx context.Context, user *model.User, ttl time.Duration) error {
	data, err := encodeUser(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	return c.client.Set(ctx, userKey(user.ID), data, ttl).Err()
}
