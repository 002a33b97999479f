package handler

import (
	"time"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
	"github.com/decrypto-hq/decrypto-api/internal/core/ports"
)

type createUserRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	Username  string `json:"username"  validate:"required,min=3,max=30"`
	FullName  string `json:"full_name" validate:"max=100"`
	Password  string `json:"password"  validate:"required,min=8"`
	Superuser bool   `json:"superuser"`
}

// updateUserRequest is the operator-side patch; nil fields stay unchanged.
// omitnil rather than omitempty so a present-but-zero value still gets
// validated instead of silently skipped.
type updateUserRequest struct {
	FullName       *string `json:"full_name"       validate:"omitnil,max=100"`
	Email          *string `json:"email"           validate:"omitnil,email"`
	Password       *string `json:"password"        validate:"omitnil,min=8"`
	QuestionNumber *int    `json:"question_number" validate:"omitnil,gte=1"`
	Active         *bool   `json:"active"`
}

// updateProfileRequest is the self-service patch; progress and status fields
// are deliberately absent.
type updateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitnil,max=100"`
	Email    *string `json:"email"     validate:"omitnil,email"`
	Password *string `json:"password"  validate:"omitnil,min=8"`
}

type userResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	FullName       string    `json:"full_name,omitempty"`
	Role           string    `json:"role"`
	Active         bool      `json:"active"`
	QuestionNumber int       `json:"question_number"`
	CreatedAt      time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		FullName:       u.FullName,
		Role:           u.Role,
		Active:         u.Active,
		QuestionNumber: u.QuestionNumber,
		CreatedAt:      u.CreatedAt,
	}
}

type leaderboardEntryResponse struct {
	Rank           int    `json:"rank"`
	Username       string `json:"username"`
	FullName       string `json:"full_name,omitempty"`
	QuestionNumber int    `json:"question_number"`
}

func toLeaderboardResponse(entries []ports.LeaderboardEntry) []leaderboardEntryResponse {
	out := make([]leaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryResponse{
			Rank:           e.Rank,
			Username:       e.Username,
			FullName:       e.FullName,
			QuestionNumber: e.QuestionNumber,
		})
	}
	return out
}
