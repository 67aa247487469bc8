package dto

import "time"

// LoginRequest username puede ser el nombre de usuario o el email.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=254"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de sesión; Redirect apunta al cambio de contraseña si es obligatorio.
type LoginResponse struct {
	Success            bool         `json:"success"`
	Token              string       `json:"token"`
	ExpiresAt          time.Time    `json:"expires_at"`
	MustChangePassword bool         `json:"must_change_password"`
	Redirect           string       `json:"redirect"`
	User               UserResponse `json:"user"`
}

// LockedResponse cuerpo del 423 de cuenta bloqueada.
type LockedResponse struct {
	Success          bool      `json:"success"`
	Code             string    `json:"code"`
	Message          string    `json:"message"`
	LockedUntil      time.Time `json:"locked_until"`
	RemainingSeconds int       `json:"remaining_seconds"`
}

// ChangePasswordRequest cambio voluntario (o forzado) de la propia contraseña.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// ForgotPasswordRequest solicitud de enlace de recuperación.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest restablecimiento con token del correo.
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required,uuid"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// PasswordGateResponse respuesta del bloqueo por cambio de contraseña pendiente (peticiones AJAX).
type PasswordGateResponse struct {
	Success            bool   `json:"success"`
	MustChangePassword bool   `json:"must_change_password"`
	Redirect           string `json:"redirect"`
	Message            string `json:"message"`
}
