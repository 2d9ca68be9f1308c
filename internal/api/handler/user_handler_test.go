package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicbook/appointment-system/internal/core/domain"
	"github.com/clinicbook/appointment-system/internal/core/ports"
)

type stubUserService struct {
	createFn func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error)
	listFn   func(ctx context.Context, roleFilter string) ([]*domain.User, error)
	updateFn func(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error)
}

func (s *stubUserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, input)
}

func (s *stubUserService) Get(context.Context, string) (*domain.User, error) {
	panic("not used")
}

func (s *stubUserService) List(ctx context.Context, roleFilter string) ([]*domain.User, error) {
	return s.listFn(ctx, roleFilter)
}

func (s *stubUserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubUserService) Delete(context.Context, string) error {
	panic("not used")
}

func TestUserHandler_Create_Success(t *testing.T) {
	stub := &stubUserService{createFn: func(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
		if input.Role != domain.RoleDoctor || input.Specialization != "cardiology" {
			t.Fatalf("unexpected input: %+v", input)
		}
		return &domain.User{ID: "u1", Username: input.Username, Email: input.Email, Role: input.Role, Specialization: input.Specialization}, nil
	}}
	h := NewUserHandler(stub)

	body := `{"username":"drwho","email":"who@example.com","password":"p","role":"doctor","specialization":"cardiology"}`
	c, rec := newTestContext(t, http.MethodPost, "/users", body)
	if err := h.Create(c); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "u1" || resp.Username != "drwho" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if containsPasswordField(rec.Body.String()) {
		t.Fatalf("password hash leaked into response: %s", rec.Body.String())
	}
}

func containsPasswordField(body string) bool {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return false
	}
	_, ok := raw["password"]
	if !ok {
		_, ok = raw["password_hash"]
	}
	return ok
}

func TestUserHandler_Create_RejectsBadRole(t *testing.T) {
	h := NewUserHandler(&stubUserService{createFn: func(context.Context, ports.CreateUserInput) (*domain.User, error) {
		t.Fatalf("service must not be called for a bad role")
		return nil, nil
	}})

	body := `{"username":"x","email":"x@example.com","password":"p","role":"nurse"}`
	c, _ := newTestContext(t, http.MethodPost, "/users", body)
	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 from validator, got %v", err)
	}
}

func TestUserHandler_List_PassesRoleFilter(t *testing.T) {
	stub := &stubUserService{listFn: func(_ context.Context, roleFilter string) ([]*domain.User, error) {
		if roleFilter != "doctor" {
			t.Fatalf("unexpected filter: %q", roleFilter)
		}
		return []*domain.User{{ID: "u1", Username: "drwho", Role: domain.RoleDoctor}}, nil
	}}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/users?role=doctor", "")
	if err := h.List(c); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_List_FilterErrorPassesThrough(t *testing.T) {
	h := NewUserHandler(&stubUserService{listFn: func(context.Context, string) ([]*domain.User, error) {
		return nil, domain.ErrInvalidRoleFilter
	}})

	c, _ := newTestContext(t, http.MethodGet, "/users?role=admin", "")
	if err := h.List(c); !errors.Is(err, domain.ErrInvalidRoleFilter) {
		t.Fatalf("expected ErrInvalidRoleFilter to pass through, got %v", err)
	}
}

func TestUserHandler_Update_ParsesPartialBody(t *testing.T) {
	stub := &stubUserService{updateFn: func(_ context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
		if id != "u1" {
			t.Fatalf("unexpected id: %q", id)
		}
		if input.Role == nil || *input.Role != domain.RoleAdmin {
			t.Fatalf("role not parsed: %+v", input.Role)
		}
		if input.Email != nil || input.Password != nil {
			t.Fatalf("absent fields must stay nil: %+v", input)
		}
		return &domain.User{ID: id, Role: domain.RoleAdmin, IsSuperuser: true, IsStaff: true}, nil
	}}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPut, "/users/u1", `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.Update(c); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
