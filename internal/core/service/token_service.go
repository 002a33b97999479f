package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
	"github.com/decrypto-hq/decrypto-api/internal/core/ports"
)

// resetAudience distinguishes password-reset tokens from access tokens even
// though both are signed with the same secret.
const resetAudience = "password-reset"

type tokenService struct {
	secret   []byte
	resetTTL time.Duration
	now      func() time.Time
}

// NewTokenService returns a TokenService signing with HS256 under secret.
// now may be nil, in which case time.Now is used; tests inject a fake clock
// and the same source should drive the event clock.
func NewTokenService(secret string, resetTTL time.Duration, now func() time.Time) ports.TokenService {
	if now == nil {
		now = time.Now
	}
	return &tokenService{secret: []byte(secret), resetTTL: resetTTL, now: now}
}

func (s *tokenService) Issue(userID string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *tokenService) Validate(raw string) (string, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return "", err
	}
	// A reset token must not authenticate a request.
	for _, aud := range claims.Audience {
		if aud == resetAudience {
			return "", domain.ErrTokenInvalid
		}
	}
	if claims.Subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.Subject, nil
}

func (s *tokenService) IssueReset(email string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		Audience:  jwt.ClaimStrings{resetAudience},
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.resetTTL)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

func (s *tokenService) ValidateReset(raw string) (string, error) {
	claims, err := s.parse(raw, jwt.WithAudience(resetAudience))
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.Subject, nil
}

// parse verifies the signature before inspecting any claim (jwt/v5 enforces
// this ordering) and narrows the library's failure modes to the two domain
// sentinels.
func (s *tokenService) parse(raw string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	opts = append(opts, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	tkn, err := jwt.ParseWithClaims(raw, claims, s.keyFunc, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func (s *tokenService) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return s.secret, nil
}
