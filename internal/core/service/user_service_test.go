package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
	"github.com/decrypto-hq/decrypto-api/internal/core/ports"
)

func TestUserService_Create(t *testing.T) {
	repo := newStubUserRepo()
	at := time.Date(2021, 12, 20, 9, 0, 0, 0, time.UTC)
	svc := NewUserService(repo, NewArgon2Hasher(), fixedClock(at), zerolog.Nop())

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Email:     "root@example.com",
		Username:  "root",
		FullName:  "Root",
		Password:  "changeme-please",
		Superuser: true,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if user.Role != domain.RoleSuperuser {
		t.Fatalf("role = %q, want superuser", user.Role)
	}
	if !user.Active || user.QuestionNumber != 1 {
		t.Fatalf("unexpected defaults: active=%v qn=%d", user.Active, user.QuestionNumber)
	}
	ok, err := NewArgon2Hasher().Verify("changeme-please", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not match password: ok=%v err=%v", ok, err)
	}
}

func TestUserService_Create_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, NewArgon2Hasher(), nil, zerolog.Nop())
	repo.seed(&domain.User{Email: "taken@example.com", Username: "taken"})

	_, err := svc.Create(context.Background(), ports.CreateUserInput{
		Email: "taken@example.com", Username: "someone", Password: "longenough",
	})
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Update_Progress(t *testing.T) {
	repo := newStubUserRepo()
	current := time.Date(2021, 12, 25, 10, 0, 0, 0, time.UTC)
	svc := NewUserService(repo, NewArgon2Hasher(), func() time.Time { return current }, zerolog.Nop())
	seeded := repo.seed(&domain.User{
		Email: "p@example.com", Username: "p", Role: domain.RoleRegular, Active: true,
		QuestionNumber: 3, QuestionNumberUpdatedAt: current.Add(-time.Hour),
	})

	qn := 4
	user, err := svc.Update(context.Background(), seeded.ID, ports.UpdateUserInput{QuestionNumber: &qn})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if user.QuestionNumber != 4 {
		t.Fatalf("question number = %d, want 4", user.QuestionNumber)
	}
	if !user.QuestionNumberUpdatedAt.Equal(current) {
		t.Fatalf("advance time = %v, want %v", user.QuestionNumberUpdatedAt, current)
	}

	// Re-submitting the same number must not reset the tie-break clock.
	current = current.Add(time.Hour)
	user, err = svc.Update(context.Background(), seeded.ID, ports.UpdateUserInput{QuestionNumber: &qn})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if user.QuestionNumberUpdatedAt.Equal(current) {
		t.Fatalf("advance time moved on a no-op progress update")
	}
}

func TestUserService_Update_Password(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, NewArgon2Hasher(), nil, zerolog.Nop())
	old, err := NewArgon2Hasher().Hash("old-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	seeded := repo.seed(&domain.User{Email: "p@example.com", Username: "p", PasswordHash: old, Active: true})

	pw := "brand-new-password"
	user, err := svc.Update(context.Background(), seeded.ID, ports.UpdateUserInput{Password: &pw})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if user.PasswordHash == old {
		t.Fatalf("password hash unchanged")
	}
	ok, err := NewArgon2Hasher().Verify(pw, user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("new hash does not match new password: ok=%v err=%v", ok, err)
	}
}

func TestUserService_Update_NotFound(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), NewArgon2Hasher(), nil, zerolog.Nop())

	name := "x"
	if _, err := svc.Update(context.Background(), "user-404", ports.UpdateUserInput{FullName: &name}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, NewArgon2Hasher(), nil, zerolog.Nop())
	seeded := repo.seed(&domain.User{
		Email: "me@example.com", Username: "me", FullName: "Old Name",
		Role: domain.RoleRegular, Active: true, QuestionNumber: 7,
	})

	name := "New Name"
	user, err := svc.UpdateProfile(context.Background(), seeded, ports.UpdateProfileInput{FullName: &name})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if user.FullName != "New Name" {
		t.Fatalf("full name = %q", user.FullName)
	}
	if user.QuestionNumber != 7 || user.Role != domain.RoleRegular || !user.Active {
		t.Fatalf("profile update touched restricted fields: %+v", user)
	}
}

func TestUserService_Deactivate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, NewArgon2Hasher(), nil, zerolog.Nop())
	seeded := repo.seed(&domain.User{Email: "d@example.com", Username: "d", Active: true})

	if err := svc.Deactivate(context.Background(), seeded.ID); err != nil {
		t.Fatalf("Deactivate returned error: %v", err)
	}
	stored, err := repo.FindByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Active {
		t.Fatalf("user still active after deactivation")
	}

	if err := svc.Deactivate(context.Background(), "user-404"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_List_Pagination(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, NewArgon2Hasher(), nil, zerolog.Nop())
	for i := 0; i < 5; i++ {
		repo.seed(&domain.User{Email: string(rune('a'+i)) + "@example.com", Username: string(rune('a' + i))})
	}

	page, err := svc.List(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(page) != 2 || page[0].ID != "user-3" || page[1].ID != "user-4" {
		t.Fatalf("unexpected page: %+v", page)
	}

	// Out-of-range arguments fall back to the first full page.
	all, err := svc.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected all 5 users, got %d", len(all))
	}
}

func TestUserService_Leaderboard_DenseRank(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, NewArgon2Hasher(), nil, zerolog.Nop())
	t0 := time.Date(2021, 12, 25, 10, 0, 0, 0, time.UTC)

	seedPlayer := func(username string, qn int, at time.Time, role string, active bool) {
		repo.seed(&domain.User{
			Username: username, Email: username + "@example.com",
			Role: role, Active: active,
			QuestionNumber: qn, QuestionNumberUpdatedAt: at,
		})
	}
	seedPlayer("ada", 5, t0, domain.RoleRegular, true)
	seedPlayer("ben", 5, t0, domain.RoleRegular, true) // exact tie with ada
	seedPlayer("cleo", 5, t0.Add(time.Hour), domain.RoleRegular, true)
	seedPlayer("dev", 3, t0.Add(-time.Hour), domain.RoleRegular, true)
	seedPlayer("ghost", 9, t0, domain.RoleRegular, false) // inactive: excluded
	seedPlayer("root", 9, t0, domain.RoleSuperuser, true) // operator: excluded

	entries, err := svc.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("Leaderboard returned error: %v", err)
	}

	want := []struct {
		username string
		rank     int
	}{
		{"ada", 1},
		{"ben", 1},
		{"cleo", 2},
		{"dev", 3},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(entries), entries)
	}
	for i, w := range want {
		if entries[i].Username != w.username || entries[i].Rank != w.rank {
			t.Errorf("entry %d = %s/%d, want %s/%d", i, entries[i].Username, entries[i].Rank, w.username, w.rank)
		}
	}
}
