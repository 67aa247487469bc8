package dto

import "time"

// CreateUserRequest alta de usuario por un administrador (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username           string `json:"username" validate:"required,min=3,max=150"`
	Email              string `json:"email" validate:"required,email,max=254"`
	Name               string `json:"name" validate:"required,max=200"`
	Phone              string `json:"phone" validate:"omitempty,max=20"`
	RoleID             string `json:"role_id" validate:"required,uuid"`
	Password           string `json:"password" validate:"required"`
	IsActive           *bool  `json:"is_active"`
	MustChangePassword *bool  `json:"must_change_password"`
}

// UpdateUserRequest password vacío conserva la contraseña actual.
type UpdateUserRequest struct {
	Username           string `json:"username" validate:"required,min=3,max=150"`
	Email              string `json:"email" validate:"required,email,max=254"`
	Name               string `json:"name" validate:"required,max=200"`
	Phone              string `json:"phone" validate:"omitempty,max=20"`
	RoleID             string `json:"role_id" validate:"required,uuid"`
	Password           string `json:"password"`
	IsActive           *bool  `json:"is_active"`
	MustChangePassword *bool  `json:"must_change_password"`
}

// SetUserStatusRequest activar/desactivar.
type SetUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Phone               string     `json:"phone"`
	RoleID              string     `json:"role_id"`
	Role                string     `json:"role"`
	IsActive            bool       `json:"is_active"`
	MustChangePassword  bool       `json:"must_change_password"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LockedUntil         *time.Time `json:"locked_until,omitempty"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TemporaryPasswordResponse contraseña temporal emitida por un administrador.
type TemporaryPasswordResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	TemporaryPassword string `json:"temporary_password"`
}
