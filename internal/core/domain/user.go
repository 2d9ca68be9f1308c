package domain

import "time"

// Role is the closed set of actor roles in the system.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ParseRole converts a raw string into a Role, rejecting anything outside
// the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RolePatient:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// User models an account in the directory. IsSuperuser and IsStaff are
// derived from Role and never set directly.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	Specialization string    `json:"specialization,omitempty"`
	IsSuperuser    bool      `json:"is_superuser"`
	IsStaff        bool      `json:"is_staff"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Normalize re-derives the privilege flags from the role and clears
// specialization for non-doctors. Runs on every save path, not only at the
// API boundary.
func (u *User) Normalize() {
	if u.Role != RoleDoctor {
		u.Specialization = ""
	}
	elevated := u.Role == RoleAdmin
	u.IsSuperuser = elevated
	u.IsStaff = elevated
}

// Caller is the identity resolved from a bearer token for one request.
type Caller struct {
	ID       string
	Username string
	Role     Role
}
