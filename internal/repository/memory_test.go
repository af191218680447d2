package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/boardkit/boardkit/internal/testutil"
)

func TestMemoryStore_CreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	user := testutil.NewTestUser(t, "alice")
	user.Boards = []string{"board-1"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user by ID: %v", err)
	}
	if byID.Login != "alice" || byID.PasswordHash != user.PasswordHash {
		t.Fatalf("unexpected user: %+v", byID)
	}

	byLogin, err := store.GetUserByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("get user by login: %v", err)
	}
	if byLogin.ID != user.ID {
		t.Fatalf("id mismatch: %q vs %q", byLogin.ID, user.ID)
	}
	if len(byLogin.Boards) != 1 || byLogin.Boards[0] != "board-1" {
		t.Fatalf("boards mismatch: %v", byLogin.Boards)
	}
}

func TestMemoryStore_NilBoardsStoredEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	user := testutil.NewTestUser(t, "bob")
	user.Boards = nil
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Boards == nil {
		t.Fatal("expected non-nil boards")
	}
}

func TestMemoryStore_DuplicateLogin(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.CreateUser(ctx, testutil.NewTestUser(t, "alice")); err != nil {
		t.Fatalf("create user: %v", err)
	}

	err := store.CreateUser(ctx, testutil.NewTestUser(t, "alice"))
	if !errors.Is(err, ErrLoginExists) {
		t.Fatalf("expected ErrLoginExists, got %v", err)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound by ID, got %v", err)
	}
	if _, err := store.GetUserByLogin(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound by login, got %v", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	user := testutil.NewTestUser(t, "carol")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Mutating the caller's value or a returned value must not leak into the store.
	user.PublicName = "mutated"
	got, _ := store.GetUserByID(ctx, user.ID)
	got.Boards = append(got.Boards, "injected")

	again, _ := store.GetUserByID(ctx, user.ID)
	if again.PublicName == "mutated" {
		t.Error("store shares memory with the inserted value")
	}
	if len(again.Boards) != 0 {
		t.Errorf("store shares boards with a returned value: %v", again.Boards)
	}
}

func TestMemoryStore_ConcurrentCreateSameLogin(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const workers = 32
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.CreateUser(ctx, testutil.NewTestUser(t, "racer"))
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrLoginExists):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes.Load() != 1 {
		t.Errorf("expected exactly 1 success, got %d", successes.Load())
	}
	if conflicts.Load() != workers-1 {
		t.Errorf("expected %d conflicts, got %d", workers-1, conflicts.Load())
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 stored user, got %d", store.Len())
	}
}
