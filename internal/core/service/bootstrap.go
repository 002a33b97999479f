package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
	"github.com/decrypto-hq/decrypto-api/internal/core/ports"
)

// FirstSuperuser describes the operator account seeded at startup.
type FirstSuperuser struct {
	Email    string
	Username string
	FullName string
	Password string
}

// Bootstrap seeds the initial operator account so a fresh deployment is
// never locked out. Run is idempotent and safe to execute on every boot.
type Bootstrap struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	now    func() time.Time
	log    zerolog.Logger
}

func NewBootstrap(users ports.UserRepository, hasher ports.PasswordHasher, now func() time.Time, log zerolog.Logger) *Bootstrap {
	if now == nil {
		now = time.Now
	}
	return &Bootstrap{users: users, hasher: hasher, now: now, log: log}
}

func (b *Bootstrap) Run(ctx context.Context, first FirstSuperuser) error {
	if first.Email == "" || first.Password == "" {
		return errors.New("bootstrap: first superuser email and password are required")
	}

	_, err := b.users.FindByEmail(ctx, first.Email)
	switch {
	case err == nil:
		b.log.Debug().Str("email", first.Email).Msg("first superuser already present")
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("bootstrap: look up first superuser: %w", err)
	}

	hash, err := b.hasher.Hash(first.Password)
	if err != nil {
		return fmt.Errorf("bootstrap: hash first superuser password: %w", err)
	}

	username := first.Username
	if username == "" {
		username = first.Email
	}
	now := b.now().UTC()
	user := &domain.User{
		FullName:                first.FullName,
		Username:                username,
		Email:                   first.Email,
		PasswordHash:            hash,
		Role:                    domain.RoleSuperuser,
		Active:                  true,
		QuestionNumber:          1,
		QuestionNumberUpdatedAt: now,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	created, err := b.users.Create(ctx, user)
	if err != nil {
		// Another replica can win the race between the lookup and the insert.
		if errors.Is(err, domain.ErrUserExists) {
			b.log.Debug().Str("email", first.Email).Msg("first superuser created concurrently")
			return nil
		}
		return fmt.Errorf("bootstrap: create first superuser: %w", err)
	}

	b.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("first superuser created")
	return nil
}
