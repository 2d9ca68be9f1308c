package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicbook/appointment-system/internal/core/domain"
	"github.com/clinicbook/appointment-system/internal/core/ports"
)

func TestUserService_Create_HashesAndDerivesFlags(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, nil, nil, zerolog.Nop())

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Username: "root",
		Email:    "root@example.com",
		Password: "adminpass",
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.PasswordHash == "adminpass" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("adminpass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !user.IsSuperuser || !user.IsStaff {
		t.Fatalf("admin must carry both privilege flags: %+v", user)
	}
}

func TestUserService_Create_DoctorKeepsSpecialization(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, nil, nil, zerolog.Nop())

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Username:       "drhouse",
		Email:          "house@example.com",
		Password:       "pass",
		Role:           domain.RoleDoctor,
		Specialization: "diagnostics",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Specialization != "diagnostics" {
		t.Fatalf("doctor specialization dropped: %+v", user)
	}
	if user.IsSuperuser || user.IsStaff {
		t.Fatalf("doctor must not carry privilege flags: %+v", user)
	}
}

func TestUserService_Create_PatientSpecializationCleared(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, nil, nil, zerolog.Nop())

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Username:       "sickjoe",
		Email:          "joe@example.com",
		Password:       "pass",
		Role:           domain.RolePatient,
		Specialization: "should vanish",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Specialization != "" {
		t.Fatalf("non-doctor specialization must be cleared, got %q", user.Specialization)
	}
}

func TestUserService_Create_Validation(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, nil, nil, zerolog.Nop())

	if _, err := svc.Create(context.Background(), ports.CreateUserInput{Username: "x", Password: "p", Role: domain.RoleDoctor}); !errors.Is(err, domain.ErrMissingUserField) {
		t.Fatalf("expected ErrMissingUserField for missing email, got %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.CreateUserInput{Username: "x", Email: "x@example.com", Password: "p", Role: "nurse"}); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_Create_DuplicateUsername(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, nil, nil, zerolog.Nop())

	input := ports.CreateUserInput{Username: "drhouse", Email: "a@example.com", Password: "p", Role: domain.RoleDoctor}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_List_RoleFilter(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, nil, nil, zerolog.Nop())

	seedUser(t, repo, "root", "p", domain.RoleAdmin)
	seedUser(t, repo, "drhouse", "p", domain.RoleDoctor)
	seedUser(t, repo, "sickjoe", "p", domain.RolePatient)

	all, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 users, got %d", len(all))
	}

	doctors, err := svc.List(context.Background(), "doctor")
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if len(doctors) != 1 || doctors[0].Username != "drhouse" {
		t.Fatalf("unexpected doctors: %+v", doctors)
	}

	// Only doctor and patient are valid filter values.
	if _, err := svc.List(context.Background(), "admin"); !errors.Is(err, domain.ErrInvalidRoleFilter) {
		t.Fatalf("expected ErrInvalidRoleFilter for admin, got %v", err)
	}
	if _, err := svc.List(context.Background(), "nurse"); !errors.Is(err, domain.ErrInvalidRoleFilter) {
		t.Fatalf("expected ErrInvalidRoleFilter for nurse, got %v", err)
	}
}

func TestUserService_Update_RoleChangeRederivesFlags(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, nil, nil, zerolog.Nop())

	doctor, err := svc.Create(context.Background(), ports.CreateUserInput{
		Username:       "drhouse",
		Email:          "house@example.com",
		Password:       "pass",
		Role:           domain.RoleDoctor,
		Specialization: "diagnostics",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	adminRole := domain.RoleAdmin
	updated, err := svc.Update(context.Background(), doctor.ID, ports.UpdateUserInput{Role: &adminRole})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.IsSuperuser || !updated.IsStaff {
		t.Fatalf("promoted admin must carry privilege flags: %+v", updated)
	}
	if updated.Specialization != "" {
		t.Fatalf("specialization must be cleared when role leaves doctor, got %q", updated.Specialization)
	}
}

func TestUserService_Update_RehashesPassword(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, nil, nil, zerolog.Nop())

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Username: "drhouse", Email: "h@example.com", Password: "oldpass", Role: domain.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newPass := "newpass"
	updated, err := svc.Update(context.Background(), user.ID, ports.UpdateUserInput{Password: &newPass})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpass")); err != nil {
		t.Fatalf("new password not stored: %v", err)
	}
}

func TestUserService_Update_EvictsCachedCaller(t *testing.T) {
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	cache := &memCallerCache{entries: make(map[string]*domain.Caller)}
	svc := NewUserService(users, tokens, cache, zerolog.Nop())
	auth := NewAuthService(users, tokens, cache, zerolog.Nop())

	admin := seedUser(t, users, "root", "adminpass", domain.RoleAdmin)
	token, err := auth.Login(context.Background(), "root", "adminpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := auth.ResolveToken(context.Background(), token); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	patientRole := domain.RolePatient
	if _, err := svc.Update(context.Background(), admin.ID, ports.UpdateUserInput{Role: &patientRole}); err != nil {
		t.Fatalf("demote failed: %v", err)
	}

	// The next resolve must see the demoted role, not the cached admin.
	caller, err := auth.ResolveToken(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve after demotion failed: %v", err)
	}
	if caller.Role != domain.RolePatient {
		t.Fatalf("demoted user still resolves as %q", caller.Role)
	}
}

func TestUserService_Delete_RevokesToken(t *testing.T) {
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	cache := &memCallerCache{entries: make(map[string]*domain.Caller)}
	svc := NewUserService(users, tokens, cache, zerolog.Nop())
	auth := NewAuthService(users, tokens, cache, zerolog.Nop())

	doctor := seedUser(t, users, "drhouse", "s3cret", domain.RoleDoctor)
	token, err := auth.Login(context.Background(), "drhouse", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := auth.ResolveToken(context.Background(), token); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if err := svc.Delete(context.Background(), doctor.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := tokens.FindByToken(context.Background(), token); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expected token row gone, got %v", err)
	}
	if _, err := auth.ResolveToken(context.Background(), token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("deleted user's token must stop resolving, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo, nil, nil, zerolog.Nop())

	user := seedUser(t, repo, "gone", "p", domain.RolePatient)
	if err := svc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on double delete, got %v", err)
	}
}
