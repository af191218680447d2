// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/boardkit/boardkit/internal/auth"
	"github.com/boardkit/boardkit/internal/metrics"
	"github.com/boardkit/boardkit/internal/model"
	"github.com/boardkit/boardkit/internal/repository"
)

// Service errors. Each maps to one client-facing error kind.
var (
	ErrLoginRequired    = errors.New("login is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrLoginRegistered  = errors.New("login is already registered")
	ErrAccessDenied     = errors.New("access denied")
	ErrWrongCredentials = errors.New("wrong login or password")
	ErrBadToken         = errors.New("bad token")
)

// dummyPassword is hashed once at startup and verified against when a login is unknown.
const dummyPassword = "boardkit-dummy-password"

// UserStore is the persistence the auth flow needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
}

// PasswordHasher derives and checks password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenCodec issues and verifies session tokens.
type TokenCodec interface {
	Issue(userID string) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// AuthService handles sign-up and login.
type AuthService struct {
	store     UserStore
	hasher    PasswordHasher
	codec     TokenCodec
	metrics   metrics.Recorder
	logger    *slog.Logger
	dummyHash string
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, hasher PasswordHasher, codec TokenCodec, recorder metrics.Recorder, logger *slog.Logger) (*AuthService, error) {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}

	return &AuthService{
		store:     store,
		hasher:    hasher,
		codec:     codec,
		metrics:   recorder,
		logger:    logger,
		dummyHash: dummyHash,
		now:       time.Now,
	}, nil
}

// SignUpInput defines input for creating an account.
type SignUpInput struct {
	Login      string
	Password   string
	PublicName string
	Userpic    string
}

// LoginInput defines input for logging in.
// A non-empty Token selects token mode and Login/Password are ignored.
type LoginInput struct {
	Login    string
	Password string
	Token    string
}

// AuthResult is returned by a successful sign-up or login.
// Token is empty for token-mode logins.
type AuthResult struct {
	User  *model.User
	Token string
}

// SignUp registers a new user and issues a token for it.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	if input.Login == "" {
		return s.rejectSignup(ErrLoginRequired)
	}
	if input.Password == "" {
		return s.rejectSignup(ErrPasswordRequired)
	}

	_, err := s.store.GetUserByLogin(ctx, input.Login)
	switch {
	case err == nil:
		return s.rejectSignup(ErrLoginRegistered)
	case !errors.Is(err, repository.ErrUserNotFound):
		s.metrics.IncSignup(metrics.StatusError)
		return nil, fmt.Errorf("check login: %w", err)
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		s.metrics.IncSignup(metrics.StatusError)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	publicName := input.PublicName
	if publicName == "" {
		publicName = input.Login
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Login:        input.Login,
		PasswordHash: hash,
		PublicName:   publicName,
		Userpic:      input.Userpic,
		Boards:       []string{},
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrLoginExists) {
			return s.rejectSignup(ErrLoginRegistered)
		}
		s.metrics.IncSignup(metrics.StatusError)
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issue(user.ID)
	if err != nil {
		s.metrics.IncSignup(metrics.StatusError)
		return nil, err
	}

	s.metrics.IncSignup(metrics.StatusSuccess)
	s.logger.Info("user signed up", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates by token or by credentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if input.Token != "" {
		return s.loginWithToken(ctx, input.Token)
	}
	return s.loginWithCredentials(ctx, input.Login, input.Password)
}

func (s *AuthService) loginWithToken(ctx context.Context, token string) (*AuthResult, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return s.rejectLogin(metrics.ModeToken, ErrBadToken, "invalid_token")
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return s.rejectLogin(metrics.ModeToken, ErrBadToken, "unknown_user")
		}
		s.metrics.IncLogin(metrics.ModeToken, metrics.StatusError)
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	s.metrics.IncLogin(metrics.ModeToken, metrics.StatusSuccess)
	return &AuthResult{User: user}, nil
}

func (s *AuthService) loginWithCredentials(ctx context.Context, login, password string) (*AuthResult, error) {
	if login == "" || password == "" {
		return s.rejectLogin(metrics.ModeCredentials, ErrAccessDenied, "empty_credentials")
	}

	user, err := s.store.GetUserByLogin(ctx, login)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin(metrics.ModeCredentials, metrics.StatusError)
			return nil, fmt.Errorf("get user by login: %w", err)
		}
		// Same cost as a real verify so timing does not reveal unknown logins.
		_, _ = s.verifyPassword(password, s.dummyHash)
		return s.rejectLogin(metrics.ModeCredentials, ErrWrongCredentials, "unknown_login")
	}

	ok, err := s.verifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash unreadable", "user_id", user.ID, "error", err)
		return s.rejectLogin(metrics.ModeCredentials, ErrWrongCredentials, "bad_hash")
	}
	if !ok {
		return s.rejectLogin(metrics.ModeCredentials, ErrWrongCredentials, "password_mismatch")
	}

	token, err := s.issue(user.ID)
	if err != nil {
		s.metrics.IncLogin(metrics.ModeCredentials, metrics.StatusError)
		return nil, err
	}

	s.metrics.IncLogin(metrics.ModeCredentials, metrics.StatusSuccess)
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) issue(userID string) (string, error) {
	token, err := s.codec.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	s.metrics.IncTokenIssued()
	return token, nil
}

func (s *AuthService) hashPassword(password string) (string, error) {
	start := time.Now()
	defer func() { s.metrics.ObservePasswordHash(time.Since(start)) }()
	return s.hasher.Hash(password)
}

func (s *AuthService) verifyPassword(password, hash string) (bool, error) {
	start := time.Now()
	defer func() { s.metrics.ObservePasswordHash(time.Since(start)) }()
	return s.hasher.Verify(password, hash)
}

func (s *AuthService) rejectSignup(err error) (*AuthResult, error) {
	s.metrics.IncSignup(metrics.StatusRejected)
	s.logger.Warn("signup rejected", "reason", err.Error())
	return nil, err
}

func (s *AuthService) rejectLogin(mode string, err error, reason string) (*AuthResult, error) {
	s.metrics.IncLogin(mode, metrics.StatusRejected)
	s.logger.Warn("login rejected", "mode", mode, "reason", reason)
	return nil, err
}
