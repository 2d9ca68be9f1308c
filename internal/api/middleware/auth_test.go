package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicbook/appointment-system/internal/core/domain"
)

type stubAuthService struct {
	resolveFn func(ctx context.Context, token string) (*domain.Caller, error)
}

func (s *stubAuthService) Login(context.Context, string, string) (string, error) {
	panic("not used")
}

func (s *stubAuthService) ResolveToken(ctx context.Context, token string) (*domain.Caller, error) {
	return s.resolveFn(ctx, token)
}

func TestAuth_ResolvesCaller(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer goodtoken")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	stub := &stubAuthService{resolveFn: func(_ context.Context, token string) (*domain.Caller, error) {
		if token != "goodtoken" {
			t.Fatalf("unexpected token: %q", token)
		}
		return &domain.Caller{ID: "u1", Username: "root", Role: domain.RoleAdmin}, nil
	}}

	var got domain.Caller
	handler := Auth(stub)(func(c echo.Context) error {
		got, _ = c.Get(CallerKey).(domain.Caller)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.ID != "u1" || got.Role != domain.RoleAdmin {
		t.Fatalf("caller not injected: %+v", got)
	}
}

func TestAuth_RejectsMissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(&stubAuthService{})(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_RejectsNonBearerScheme(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(&stubAuthService{})(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_RejectsUnknownToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	stub := &stubAuthService{resolveFn: func(context.Context, string) (*domain.Caller, error) {
		return nil, domain.ErrInvalidCredentials
	}}

	handler := Auth(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
