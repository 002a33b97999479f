package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
)

func TestBootstrap_CreatesFirstSuperuser(t *testing.T) {
	repo := newStubUserRepo()
	boot := NewBootstrap(repo, NewArgon2Hasher(), nil, zerolog.Nop())

	err := boot.Run(context.Background(), FirstSuperuser{
		Email:    "admin@example.com",
		Username: "admin",
		FullName: "Admin",
		Password: "changeme-please",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	user, err := repo.FindByEmail(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("superuser not stored: %v", err)
	}
	if user.Role != domain.RoleSuperuser || !user.Active {
		t.Fatalf("unexpected account state: role=%q active=%v", user.Role, user.Active)
	}
	if user.QuestionNumber != 1 {
		t.Fatalf("question number = %d, want 1", user.QuestionNumber)
	}
	ok, err := NewArgon2Hasher().Verify("changeme-please", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not match password: ok=%v err=%v", ok, err)
	}
}

func TestBootstrap_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	boot := NewBootstrap(repo, NewArgon2Hasher(), nil, zerolog.Nop())
	first := FirstSuperuser{Email: "admin@example.com", Username: "admin", Password: "changeme-please"}

	if err := boot.Run(context.Background(), first); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := boot.Run(context.Background(), first); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected exactly one create, got %d", repo.creates)
	}
}

func TestBootstrap_MissingCredentials(t *testing.T) {
	boot := NewBootstrap(newStubUserRepo(), NewArgon2Hasher(), nil, zerolog.Nop())

	if err := boot.Run(context.Background(), FirstSuperuser{Email: "", Password: "x"}); err == nil {
		t.Fatalf("expected error for missing email")
	}
	if err := boot.Run(context.Background(), FirstSuperuser{Email: "a@example.com", Password: ""}); err == nil {
		t.Fatalf("expected error for missing password")
	}
}

func TestBootstrap_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.fail = errors.New("connection reset")
	boot := NewBootstrap(repo, NewArgon2Hasher(), nil, zerolog.Nop())

	err := boot.Run(context.Background(), FirstSuperuser{Email: "admin@example.com", Password: "changeme-please"})
	if err == nil {
		t.Fatalf("expected error when the store is down")
	}
}

// A concurrent replica inserting the same account between the lookup and the
// create must not fail the boot.
func TestBootstrap_LosesCreateRace(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed(&domain.User{Email: "other@example.com", Username: "admin", Role: domain.RoleSuperuser, Active: true})
	boot := NewBootstrap(repo, NewArgon2Hasher(), nil, zerolog.Nop())

	// The email lookup misses, but the username collides on insert.
	err := boot.Run(context.Background(), FirstSuperuser{Email: "admin@example.com", Username: "admin", Password: "changeme-please"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}
