package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/decrypto-hq/decrypto-api/internal/core/domain"
	"github.com/decrypto-hq/decrypto-api/internal/core/ports"
)

// stubGuard lets the middleware tests script the guard's verdicts and
// observe what was asked of it.
type stubGuard struct {
	user     *domain.User
	err      error
	checkErr error

	gotToken  string
	gotPolicy ports.Policy
}

func (g *stubGuard) Authorize(_ context.Context, token string, policy ports.Policy) (*domain.User, error) {
	g.gotToken = token
	g.gotPolicy = policy
	if g.err != nil {
		return nil, g.err
	}
	return g.user, nil
}

func (g *stubGuard) Check(_ *domain.User, policy ports.Policy) error {
	g.gotPolicy = policy
	return g.checkErr
}

func newTestContext(t *testing.T, header string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	user := &domain.User{ID: "user-1", Role: domain.RoleRegular, Active: true}
	guard := &stubGuard{user: user}
	c, rec := newTestContext(t, "Bearer tok-123")

	called := false
	handler := Authenticate(guard)(func(c echo.Context) error {
		called = true
		got, ok := c.Get("user").(*domain.User)
		if !ok || got.ID != "user-1" {
			t.Fatalf("user not stored in context: %v", c.Get("user"))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if guard.gotToken != "tok-123" {
		t.Fatalf("guard saw token %q", guard.gotToken)
	}
	if guard.gotPolicy != ports.PolicyAuthenticated {
		t.Fatalf("guard saw policy %v", guard.gotPolicy)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	guard := &stubGuard{err: domain.ErrUnauthenticated}
	c, _ := newTestContext(t, "")

	handler := Authenticate(guard)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if guard.gotToken != "" {
		t.Fatalf("guard saw token %q, want empty", guard.gotToken)
	}
}

// A non-bearer scheme is treated exactly like a missing token.
func TestAuthenticate_WrongScheme(t *testing.T) {
	guard := &stubGuard{err: domain.ErrUnauthenticated}
	c, _ := newTestContext(t, "Basic dXNlcjpwYXNz")

	handler := Authenticate(guard)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if guard.gotToken != "" {
		t.Fatalf("guard saw token %q, want empty", guard.gotToken)
	}
}

// The scheme comparison is case-insensitive per RFC 9110.
func TestAuthenticate_LowercaseScheme(t *testing.T) {
	guard := &stubGuard{user: &domain.User{ID: "user-1", Active: true}}
	c, _ := newTestContext(t, "bearer tok-456")

	handler := Authenticate(guard)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if guard.gotToken != "tok-456" {
		t.Fatalf("guard saw token %q", guard.gotToken)
	}
}

func TestAuthenticate_GuardRejects(t *testing.T) {
	guard := &stubGuard{err: domain.ErrUnauthenticated}
	c, _ := newTestContext(t, "Bearer expired-or-forged")

	handler := Authenticate(guard)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
