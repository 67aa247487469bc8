package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
	"github.com/jhoicas/dulceria-api/pkg/jwt"
	"github.com/jhoicas/dulceria-api/pkg/logger"
	"github.com/jhoicas/dulceria-api/pkg/password"
)

// Config parámetros de sesión, bloqueo y recuperación.
type Config struct {
	JWTSecret          string
	JWTIssuer          string
	TokenTTL           time.Duration
	Lockout            entity.LockoutPolicy
	ResetTokenTTL      time.Duration
	ResetURL           string // pantalla de restablecimiento; se agrega ?token=
	PasswordChangePath string
	HomePath           string
}

// AuthUseCase login con bloqueo por intentos, sesiones y gestión de contraseñas.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.PasswordResetTokenRepository
	sessions  SessionStore
	mailer    Mailer
	tx        TxRunner
	policy    password.Policy
	cfg       Config
	log       *logger.Logger
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	tokenRepo repository.PasswordResetTokenRepository,
	sessions SessionStore,
	mailer Mailer,
	cfg Config,
	log *logger.Logger,
) *AuthUseCase {
	if cfg.Lockout.MaxAttempts <= 0 {
		cfg.Lockout = entity.DefaultLockoutPolicy()
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = entity.DefaultResetTokenTTL
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 8 * time.Hour
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		sessions:  sessions,
		mailer:    mailer,
		policy:    password.DefaultPolicy(),
		cfg:       cfg,
		log:       log.Named("auth"),
		now:       time.Now,
	}
}

// WithTx ejecuta el restablecimiento por token dentro de transacciones de tx.
// Sin runner los pasos usan los repositorios directamente.
func (uc *AuthUseCase) WithTx(tx TxRunner) *AuthUseCase {
	uc.tx = tx
	return uc
}

// WithClock reemplaza el reloj (tests).
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

// Login verifica credenciales aplicando el bloqueo por intentos fallidos.
// Mientras la cuenta está bloqueada se rechaza sin comprobar la contraseña ni sumar intentos.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	login := strings.TrimSpace(in.Username)
	user, err := uc.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.log.Warn().Str("login", login).Msg("intento de login con usuario inexistente")
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now()
	if user.IsLocked(now) {
		return nil, &domain.LockedError{Until: *user.LockedUntil, Remaining: user.LockRemaining(now)}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		locked := user.RegisterFailedLogin(now, uc.cfg.Lockout)
		if err := uc.userRepo.UpdateLoginState(ctx, user); err != nil {
			return nil, err
		}
		if locked {
			uc.log.Warn().Str("user_id", user.ID).Int("attempts", user.FailedLoginAttempts).
				Time("locked_until", *user.LockedUntil).Msg("cuenta bloqueada por intentos fallidos")
			return nil, &domain.LockedError{Until: *user.LockedUntil, Remaining: user.LockRemaining(now)}
		}
		uc.log.Warn().Str("user_id", user.ID).Int("attempts", user.FailedLoginAttempts).Msg("contraseña incorrecta")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	user.RegisterSuccessfulLogin(now)
	if err := uc.userRepo.UpdateLoginState(ctx, user); err != nil {
		return nil, err
	}

	tok, err := jwt.Generate(uc.cfg.JWTSecret, user.ID, user.RoleName, uc.cfg.JWTIssuer, uc.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	redirect := uc.cfg.HomePath
	if user.MustChangePassword {
		redirect = uc.cfg.PasswordChangePath
	}
	uc.log.Info().Str("user_id", user.ID).Bool("must_change_password", user.MustChangePassword).Msg("login exitoso")
	return &dto.LoginResponse{
		Success:            true,
		Token:              tok.Value,
		ExpiresAt:          tok.ExpiresAt,
		MustChangePassword: user.MustChangePassword,
		Redirect:           redirect,
		User:               *toUserResponse(user),
	}, nil
}

// Authenticate valida el token de sesión y recarga el usuario para que la desactivación
// y el flag de cambio de contraseña tengan efecto inmediato.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, *jwt.Claims, error) {
	claims, err := jwt.Parse(uc.cfg.JWTSecret, token)
	if err != nil {
		return nil, nil, domain.ErrUnauthorized
	}
	if claims.ID != "" && uc.sessions != nil {
		revoked, err := uc.sessions.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, err
		}
		if revoked {
			return nil, nil, domain.ErrUnauthorized
		}
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !user.IsActive {
		return nil, nil, domain.ErrUnauthorized
	}
	return user, claims, nil
}

// Logout revoca la sesión hasta su expiración.
func (uc *AuthUseCase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil || claims.ID == "" || uc.sessions == nil {
		return nil
	}
	ttl := claims.ExpiresAtTime().Sub(uc.now())
	if ttl <= 0 {
		return nil
	}
	if err := uc.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revocar sesión: %w", err)
	}
	return nil
}

// CurrentUser datos del usuario autenticado.
func (uc *AuthUseCase) CurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// ChangePassword cambio voluntario de la propia contraseña. Es la única vía, junto con el
// restablecimiento por token, que limpia must_change_password.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.FieldError("current_password", "La contraseña actual es incorrecta.")
	}
	if err := uc.checkNewPassword(in.NewPassword, in.ConfirmPassword); err != nil {
		return err
	}
	if in.NewPassword == in.CurrentPassword {
		return domain.FieldError("new_password", "La nueva contraseña debe ser distinta de la actual.")
	}
	if err := uc.setPassword(ctx, uc.userRepo, user, in.NewPassword); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("contraseña cambiada por el usuario")
	return nil
}

// ForgotPassword crea un token y envía el enlace. Nunca revela si el email existe:
// los errores de envío sólo se registran en el log.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		uc.log.Info().Str("email", email).Msg("recuperación solicitada para email desconocido o inactivo")
		return nil
	}

	now := uc.now()
	if err := uc.tokenRepo.InvalidateForUser(ctx, user.ID, now); err != nil {
		return err
	}
	token := entity.NewPasswordResetToken(user.ID, now, uc.cfg.ResetTokenTTL)
	if err := uc.tokenRepo.Create(ctx, token); err != nil {
		return err
	}

	msg := PasswordResetMail{
		To:        user.Email,
		Name:      user.Name,
		Link:      uc.cfg.ResetURL + "?token=" + token.Token,
		ExpiresIn: uc.cfg.ResetTokenTTL,
	}
	if err := uc.mailer.SendPasswordReset(ctx, msg); err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("envío de correo de recuperación")
		return nil
	}
	uc.log.Info().Str("user_id", user.ID).Time("expires_at", token.ExpiresAt).Msg("enlace de recuperación enviado")
	return nil
}

// ValidateResetToken comprueba que el token siga vigente (para mostrar el formulario).
func (uc *AuthUseCase) ValidateResetToken(ctx context.Context, token string) error {
	_, err := uc.validToken(ctx, token)
	return err
}

// ResetPassword restablece la contraseña con un token de un solo uso. También desbloquea la cuenta.
// El token se reclama antes de tocar la contraseña; si otra petición ya lo usó, no se cambia nada.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	token, err := uc.validToken(ctx, in.Token)
	if err != nil {
		return err
	}
	if err := uc.checkNewPassword(in.NewPassword, in.ConfirmPassword); err != nil {
		return err
	}
	var userID string
	err = uc.runTx(ctx, func(users repository.UserRepository, tokens repository.PasswordResetTokenRepository) error {
		claimed, err := tokens.Claim(ctx, token.ID, uc.now())
		if err != nil {
			return err
		}
		if !claimed {
			return domain.ErrTokenInvalid
		}
		user, err := users.GetByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrTokenInvalid
		}
		user.Unlock()
		userID = user.ID
		return uc.setPassword(ctx, users, user, in.NewPassword)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("user_id", userID).Msg("contraseña restablecida con token")
	return nil
}

func (uc *AuthUseCase) runTx(ctx context.Context, fn func(repository.UserRepository, repository.PasswordResetTokenRepository) error) error {
	if uc.tx == nil {
		return fn(uc.userRepo, uc.tokenRepo)
	}
	return uc.tx.RunAuth(ctx, fn)
}

// CleanupTokens borra los tokens vencidos y los usados con más de olderThan de antigüedad.
func (uc *AuthUseCase) CleanupTokens(ctx context.Context, olderThan time.Duration) (expired, used int64, err error) {
	now := uc.now()
	expired, used, err = uc.tokenRepo.DeleteExpired(ctx, now, now.Add(-olderThan))
	if err != nil {
		return 0, 0, err
	}
	uc.log.Info().Int64("expired", expired).Int64("used", used).Msg("limpieza de tokens de recuperación")
	return expired, used, nil
}

// CheckPasswordPolicy valida composición y devuelve un error por campo.
func (uc *AuthUseCase) CheckPasswordPolicy(field, pw string) error {
	if failed := uc.policy.Check(pw); len(failed) > 0 {
		v := domain.NewValidationError()
		for _, msg := range failed {
			v.Add(field, msg)
		}
		return v
	}
	return nil
}

func (uc *AuthUseCase) validToken(ctx context.Context, value string) (*entity.PasswordResetToken, error) {
	if strings.TrimSpace(value) == "" {
		return nil, domain.ErrTokenInvalid
	}
	token, err := uc.tokenRepo.GetByToken(ctx, value)
	if err != nil {
		return nil, err
	}
	if token == nil || !token.IsValid(uc.now()) {
		return nil, domain.ErrTokenInvalid
	}
	return token, nil
}

func (uc *AuthUseCase) checkNewPassword(pw, confirm string) error {
	if pw != confirm {
		return domain.FieldError("confirm_password", "Las contraseñas no coinciden.")
	}
	return uc.CheckPasswordPolicy("new_password", pw)
}

func (uc *AuthUseCase) setPassword(ctx context.Context, users repository.UserRepository, user *entity.User, pw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.MustChangePassword = false
	user.UpdatedAt = uc.now()
	if err := users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		Name:                u.Name,
		Phone:               u.Phone,
		RoleID:              u.RoleID,
		Role:                u.RoleName,
		IsActive:            u.IsActive,
		MustChangePassword:  u.MustChangePassword,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockedUntil:         u.LockedUntil,
		LastLogin:           u.LastLogin,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}
