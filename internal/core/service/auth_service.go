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

// ResetTokenStore tracks consumed password-reset tokens (Redis) so each token
// redeems at most once.
type ResetTokenStore interface {
	// MarkUsed records the token as consumed. Returns false when the token
	// had already been marked.
	MarkUsed(ctx context.Context, token string) (bool, error)
}

// dummyPasswordHash is verified when the email is unknown so that lookups for
// existing and non-existing accounts take comparable time. It is an all-zeros
// fixture, not a credential, and matches no password.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// AuthService implements login, open registration and the password-reset flow.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	resets   ResetTokenStore
	mailer   ports.Mailer
	audit    ports.AuditRecorder
	tokenTTL time.Duration
	openReg  bool
	now      func() time.Time
	log      zerolog.Logger
}

// AuthServiceParams collects the collaborators for NewAuthService.
type AuthServiceParams struct {
	Users            ports.UserRepository
	Hasher           ports.PasswordHasher
	Tokens           ports.TokenService
	Resets           ResetTokenStore
	Mailer           ports.Mailer
	Audit            ports.AuditRecorder
	AccessTokenTTL   time.Duration
	OpenRegistration bool
	Now              func() time.Time
	Log              zerolog.Logger
}

func NewAuthService(p AuthServiceParams) *AuthService {
	if p.AccessTokenTTL <= 0 {
		p.AccessTokenTTL = 192 * time.Hour
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &AuthService{
		users:    p.Users,
		hasher:   p.Hasher,
		tokens:   p.Tokens,
		resets:   p.Resets,
		mailer:   p.Mailer,
		audit:    p.Audit,
		tokenTTL: p.AccessTokenTTL,
		openReg:  p.OpenRegistration,
		now:      p.Now,
		log:      p.Log,
	}
}

// Login verifies the credentials and issues an access token. Unknown email,
// wrong password and inactive account are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Equalize timing with the verification the found path performs.
			_, _ = s.hasher.Verify(password, dummyPasswordHash)
			s.record(domain.AuthEvent{Kind: domain.AuditLoginFailed, Email: email, Reason: "unknown email"})
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		// Malformed stored hash is an internal fault, not a login failure.
		return "", nil, fmt.Errorf("login: verify password: %w", err)
	}
	if !ok || !user.Active {
		reason := "wrong password"
		if ok {
			reason = "inactive account"
		}
		s.record(domain.AuthEvent{Kind: domain.AuditLoginFailed, Email: email, Subject: user.ID, Reason: reason})
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.record(domain.AuthEvent{Kind: domain.AuditLogin, Email: user.Email, Subject: user.ID})
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}

// Register creates a regular active account through open registration.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if !s.openReg {
		return nil, domain.ErrRegistrationClosed
	}
	if input.Email == "" || input.Username == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		FullName:                input.FullName,
		Username:                input.Username,
		Email:                   input.Email,
		PasswordHash:            hash,
		Role:                    domain.RoleRegular,
		Active:                  true,
		QuestionNumber:          1,
		QuestionNumberUpdatedAt: now,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuthEvent{Kind: domain.AuditRegistration, Email: created.Email, Subject: created.ID})
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// RecoverPassword issues a reset token for the account and hands it to the
// mailer. The token itself is never logged.
func (s *AuthService) RecoverPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.tokens.IssueReset(user.Email)
	if err != nil {
		return fmt.Errorf("recover password: issue reset token: %w", err)
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("recover password: send mail: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password recovery initiated")
	return nil
}

// ResetPassword redeems a reset token and stores the new password hash. The
// token is marked consumed before the write so a concurrent replay cannot
// redeem it twice.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}

	email, err := s.tokens.ValidateReset(token)
	if err != nil {
		return domain.ErrTokenInvalid
	}

	first, err := s.resets.MarkUsed(ctx, token)
	if err != nil {
		return fmt.Errorf("reset password: mark token used: %w", err)
	}
	if !first {
		return domain.ErrTokenInvalid
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("reset password: hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("reset password: update hash: %w", err)
	}

	s.record(domain.AuthEvent{Kind: domain.AuditPasswordReset, Email: user.Email, Subject: user.ID})
	s.log.Info().Str("user_id", user.ID).Msg("password reset completed")
	return nil
}

func (s *AuthService) record(event domain.AuthEvent) {
	if s.audit == nil {
		return
	}
	if event.At.IsZero() {
		event.At = s.now().UTC()
	}
	s.audit.Record(event)
}
