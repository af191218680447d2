package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/boardkit/boardkit/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrLoginExists  = errors.New("login already exists")
)

const userColumns = `id, login, password_hash, public_name, userpic, boards, created_at`

// CreateUser inserts a new user into the database.
// The users_login_key constraint makes concurrent inserts of one login race-free.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	boards := user.Boards
	if boards == nil {
		boards = []string{}
	}

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Login,
		user.PasswordHash,
		user.PublicName,
		user.Userpic,
		pq.Array(boards),
		user.CreatedAt,
	)

	if err != nil {
		if isLoginTaken(err) {
			return ErrLoginExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetUserByLogin retrieves a user by their login.
func (r *Repository) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE login = $1
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, login))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}
	return user, nil
}

// scanUser scans a single row into a User model.
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var boards []string

	err := row.Scan(
		&user.ID,
		&user.Login,
		&user.PasswordHash,
		&user.PublicName,
		&user.Userpic,
		pq.Array(&boards),
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Boards = boards
	return &user, nil
}
