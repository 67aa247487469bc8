package entity

import (
	"strings"
	"time"
)

// Nombres de rol conocidos por la autorización.
const (
	RoleAdministrador = "Administrador"
	RoleBodeguero     = "Bodeguero"
	RoleVendedor      = "Vendedor"
	RoleCliente       = "Cliente"
)

// DefaultRoles roles que crea el seed inicial.
var DefaultRoles = []Role{
	{Name: RoleAdministrador, Description: "Acceso completo a la administración"},
	{Name: RoleBodeguero, Description: "Gestión de productos e inventario"},
	{Name: RoleVendedor, Description: "Consulta de productos e inventario"},
	{Name: RoleCliente, Description: "Acceso de sólo lectura"},
}

// User usuario del back-office.
type User struct {
	ID                  string
	Username            string
	Email               string
	Name                string
	Phone               string
	RoleID              string
	RoleName            string // nombre del rol (join)
	PasswordHash        string
	IsActive            bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	MustChangePassword  bool
	LastLogin           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// LockoutPolicy parámetros del bloqueo por intentos fallidos.
type LockoutPolicy struct {
	MaxAttempts int
	Duration    time.Duration
}

// DefaultLockoutPolicy 5 intentos fallidos consecutivos bloquean la cuenta 30 minutos.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{MaxAttempts: 5, Duration: 30 * time.Minute}
}

// IsLocked indica si la cuenta sigue bloqueada en now. Un bloqueo vencido no cuenta.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// LockRemaining tiempo restante de bloqueo (0 si no está bloqueada).
func (u *User) LockRemaining(now time.Time) time.Duration {
	if !u.IsLocked(now) {
		return 0
	}
	return u.LockedUntil.Sub(now)
}

// RegisterFailedLogin suma un intento fallido y bloquea al alcanzar el máximo.
// El contador no decae con el tiempo: sólo un login exitoso lo reinicia.
// Devuelve true si este intento dejó la cuenta bloqueada.
func (u *User) RegisterFailedLogin(now time.Time, p LockoutPolicy) bool {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= p.MaxAttempts {
		until := now.Add(p.Duration)
		u.LockedUntil = &until
		return true
	}
	return false
}

// RegisterSuccessfulLogin reinicia contador y bloqueo y registra el último acceso.
func (u *User) RegisterSuccessfulLogin(now time.Time) {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLogin = &now
}

// Unlock limpia el estado de bloqueo (reset de contraseña por token o por un administrador).
func (u *User) Unlock() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
}

// IsAdmin true si el rol es Administrador.
func (u *User) IsAdmin() bool { return u.RoleName == RoleAdministrador }

// HasRole true si el rol del usuario está entre roles.
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.RoleName == r {
			return true
		}
	}
	return false
}

// DisplayName nombre completo o, si falta, el username.
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Username
}
