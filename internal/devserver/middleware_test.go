package devserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mediride/transit-client/internal/core/domain"
)

const testSecret = "middleware-test-secret"

func invokeAuth(t *testing.T, header string) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/rides", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	h := auth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, h(c)
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuth_MissingHeader(t *testing.T) {
	_, err := invokeAuth(t, "")
	if code := httpCode(t, err); code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", code)
	}
}

func TestAuth_WrongScheme(t *testing.T) {
	_, err := invokeAuth(t, "Basic dXNlcjpwYXNz")
	if code := httpCode(t, err); code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", code)
	}
}

func TestAuth_GarbageToken(t *testing.T) {
	_, err := invokeAuth(t, "Bearer not.a.jwt")
	if code := httpCode(t, err); code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", code)
	}
}

func TestAuth_WrongSigningKey(t *testing.T) {
	token, err := issueToken(&domain.User{ID: "u1", Role: domain.RoleUser}, "some-other-secret", time.Hour)
	if err != nil {
		t.Fatalf("issueToken failed: %v", err)
	}

	_, err = invokeAuth(t, "Bearer "+token)
	if code := httpCode(t, err); code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	token, err := issueToken(&domain.User{ID: "u1", Role: domain.RoleUser}, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("issueToken failed: %v", err)
	}

	_, err = invokeAuth(t, "Bearer "+token)
	if code := httpCode(t, err); code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", code)
	}
}

func TestAuth_ValidTokenSetsActor(t *testing.T) {
	token, err := issueToken(&domain.User{ID: "u1", Role: domain.RoleRider}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issueToken failed: %v", err)
	}

	c, err := invokeAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if got, _ := c.Get("user_id").(string); got != "u1" {
		t.Fatalf("user_id = %q, want u1", got)
	}
	if got, _ := c.Get("role").(string); got != "rider" {
		t.Fatalf("role = %q, want rider", got)
	}
}

func TestRequireRole(t *testing.T) {
	h := requireRole(domain.RoleUser, domain.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	newCtx := func(role string) echo.Context {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/rides", nil), httptest.NewRecorder())
		c.Set("role", role)
		return c
	}

	if err := h(newCtx("user")); err != nil {
		t.Fatalf("allowed role rejected: %v", err)
	}
	if err := h(newCtx("rider")); err == nil {
		t.Fatalf("rider must be forbidden")
	} else if code := httpCode(t, err); code != http.StatusForbidden {
		t.Fatalf("got %d, want 403", code)
	}
	if err := h(newCtx("")); err == nil {
		t.Fatalf("missing role must be forbidden")
	}
}
