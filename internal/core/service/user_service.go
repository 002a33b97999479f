package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
	"github.com/decrypto-hq/decrypto-api/internal/core/ports"
)

const (
	defaultPageSize = 100
	maxPageSize     = 100
)

type userService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	now    func() time.Time
	log    zerolog.Logger
}

// NewUserService builds the account management use cases.
func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, now func() time.Time, log zerolog.Logger) ports.UserService {
	if now == nil {
		now = time.Now
	}
	return &userService{users: users, hasher: hasher, now: now, log: log}
}

func (s *userService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("users: hash password: %w", err)
	}

	role := domain.RoleRegular
	if input.Superuser {
		role = domain.RoleSuperuser
	}
	now := s.now().UTC()
	user := &domain.User{
		FullName:                input.FullName,
		Username:                input.Username,
		Email:                   input.Email,
		PasswordHash:            hash,
		Role:                    role,
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
	s.log.Info().Str("user_id", created.ID).Str("role", role).Msg("user created")
	return created, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *userService) List(ctx context.Context, page, limit int) ([]*domain.User, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.users.List(ctx, (page-1)*limit, limit)
}

func (s *userService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("users: hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	// Progress updates reset the tie-break clock only when the number moves.
	if input.QuestionNumber != nil && *input.QuestionNumber != user.QuestionNumber {
		user.QuestionNumber = *input.QuestionNumber
		user.QuestionNumberUpdatedAt = now
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	user.UpdatedAt = now

	return s.users.Update(ctx, user)
}

func (s *userService) UpdateProfile(ctx context.Context, user *domain.User, input ports.UpdateProfileInput) (*domain.User, error) {
	return s.Update(ctx, user.ID, ports.UpdateUserInput{
		FullName: input.FullName,
		Email:    input.Email,
		Password: input.Password,
	})
}

func (s *userService) Deactivate(ctx context.Context, id string) error {
	if err := s.users.Deactivate(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deactivated")
	return nil
}

// Leaderboard ranks active players by progress. Rank is dense over the pair
// (question number, last advance time): later advances to the same question
// rank below earlier ones.
func (s *userService) Leaderboard(ctx context.Context) ([]ports.LeaderboardEntry, error) {
	users, err := s.users.Leaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("users: load leaderboard: %w", err)
	}

	entries := make([]ports.LeaderboardEntry, 0, len(users))
	rank := 0
	var prevQN int
	var prevAt time.Time
	for i, u := range users {
		if i == 0 || u.QuestionNumber != prevQN || !u.QuestionNumberUpdatedAt.Equal(prevAt) {
			rank++
			prevQN, prevAt = u.QuestionNumber, u.QuestionNumberUpdatedAt
		}
		entries = append(entries, ports.LeaderboardEntry{
			Rank:                    rank,
			Username:                u.Username,
			FullName:                u.FullName,
			QuestionNumber:          u.QuestionNumber,
			QuestionNumberUpdatedAt: u.QuestionNumberUpdatedAt,
		})
	}
	return entries, nil
}
