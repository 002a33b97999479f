package domain

import "time"

const (
	RoleRegular   = "regular"
	RoleSuperuser = "superuser"
)

// User models a registered participant or operator of the event.
type User struct {
	ID                      string    `json:"id"`
	FullName                string    `json:"full_name,omitempty"`
	Username                string    `json:"username"`
	Email                   string    `json:"email"`
	PasswordHash            string    `json:"-"`
	Role                    string    `json:"role"`
	Active                  bool      `json:"active"`
	QuestionNumber          int       `json:"question_number"`
	QuestionNumberUpdatedAt time.Time `json:"question_number_updated_at"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// IsSuperuser reports whether the user holds the superuser role.
func (u *User) IsSuperuser() bool {
	return u.Role == RoleSuperuser
}
