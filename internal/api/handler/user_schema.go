package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type createUserRequest struct {
	Username       string `json:"username"        validate:"required"`
	Email          string `json:"email"           validate:"required,email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Password       string `json:"password"        validate:"required"`
	Role           string `json:"role"            validate:"required,oneof=admin doctor patient"`
	Specialization string `json:"specialization"`
}

// updateUserRequest is a partial update; absent fields stay untouched.
// Password is write-only and optional.
type updateUserRequest struct {
	Email          *string `json:"email"          validate:"omitempty,email"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Password       *string `json:"password"`
	Role           *string `json:"role"           validate:"omitempty,oneof=admin doctor patient"`
	Specialization *string `json:"specialization"`
}
