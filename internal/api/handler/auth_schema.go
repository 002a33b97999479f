package handler

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// tokenResponse follows the OAuth2 bearer convention so stock clients can
// consume it.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Username string `json:"username"  validate:"required,min=3,max=30"`
	FullName string `json:"full_name" validate:"max=100"`
	Password string `json:"password"  validate:"required,min=8"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse mirrors the envelope the HTTP error handler renders. It is
// referenced by the generated API documentation only.
type errorResponse struct {
	Error string `json:"error"`
}
