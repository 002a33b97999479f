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

type guardService struct {
	tokens ports.TokenService
	users  ports.UserRepository
	window domain.EventWindow
	audit  ports.AuditRecorder
	now    func() time.Time
	log    zerolog.Logger
}

// NewGuardService builds the authorization decision point. Every protected
// request funnels through Authorize; route-level policies reuse Check.
func NewGuardService(
	tokens ports.TokenService,
	users ports.UserRepository,
	window domain.EventWindow,
	audit ports.AuditRecorder,
	now func() time.Time,
	log zerolog.Logger,
) ports.GuardService {
	if now == nil {
		now = time.Now
	}
	return &guardService{
		tokens: tokens,
		users:  users,
		window: window,
		audit:  audit,
		now:    now,
		log:    log,
	}
}

// Authorize resolves a bearer token to a live user and applies the policy.
// Token failures of every flavor collapse into ErrUnauthenticated so the
// response does not reveal whether a token was malformed, forged or expired.
// A store outage is the one exception: it surfaces as a wrapped error.
func (s *guardService) Authorize(ctx context.Context, rawToken string, policy ports.Policy) (*domain.User, error) {
	if rawToken == "" {
		s.deny("", "missing token")
		return nil, domain.ErrUnauthenticated
	}

	subject, err := s.tokens.Validate(rawToken)
	if err != nil {
		s.deny("", "invalid token")
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.deny(subject, "unknown subject")
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("guard: load subject %s: %w", subject, err)
	}
	if !user.Active {
		s.deny(subject, "inactive subject")
		return nil, domain.ErrUnauthenticated
	}

	if err := s.Check(user, policy); err != nil {
		return nil, err
	}
	return user, nil
}

// Check applies a policy to an already-authenticated user.
func (s *guardService) Check(user *domain.User, policy ports.Policy) error {
	switch policy {
	case ports.PolicyAuthenticated:
		return nil
	case ports.PolicySuperuser:
		if !user.IsSuperuser() {
			s.deny(user.ID, "insufficient privileges")
			return domain.ErrForbidden
		}
		return nil
	case ports.PolicyActiveEvent:
		// Superusers administer the event from outside its window.
		if user.IsSuperuser() {
			return nil
		}
		if s.window.Phase(s.now()) != domain.PhaseActive {
			s.deny(user.ID, "event not active")
			return domain.ErrEventNotActive
		}
		return nil
	default:
		return fmt.Errorf("guard: unknown policy %d", policy)
	}
}

func (s *guardService) deny(subject, reason string) {
	s.log.Debug().Str("subject", subject).Str("reason", reason).Msg("request denied")
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Kind:    domain.AuditGuardDenial,
		Subject: subject,
		Reason:  reason,
		At:      s.now().UTC(),
	})
}
