package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidCredentials = errors.New("usuario o contraseña incorrectos")
	ErrAccountLocked      = errors.New("cuenta bloqueada temporalmente")
	ErrAccountInactive    = errors.New("la cuenta está inactiva")
	ErrTokenInvalid       = errors.New("el enlace de recuperación ha expirado o ya fue usado")
	ErrSelfAction         = errors.New("no puedes realizar esta acción sobre tu propia cuenta")
)

// LockedError cuenta bloqueada por intentos fallidos; lleva la hora de desbloqueo.
type LockedError struct {
	Until     time.Time
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("cuenta bloqueada por demasiados intentos fallidos. Intenta nuevamente en %d minuto(s)", e.RemainingMinutes())
}

// Is permite errors.Is(err, ErrAccountLocked).
func (e *LockedError) Is(target error) bool { return target == ErrAccountLocked }

// RemainingMinutes redondea hacia arriba (nunca 0 mientras siga bloqueada).
func (e *LockedError) RemainingMinutes() int {
	if e.Remaining <= 0 {
		return 0
	}
	return int(math.Ceil(e.Remaining.Minutes()))
}

// ValidationError errores de validación por campo.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError crea un acumulador vacío.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// Add agrega un mensaje al campo.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

// Err devuelve nil si no hay errores acumulados.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	for _, f := range sortedKeys(e.Fields) {
		if msgs := e.Fields[f]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ErrInvalidInput.Error()
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// FieldError atajo para un único campo inválido.
func FieldError(field, msg string) error {
	return NewValidationError().Add(field, msg)
}

// InUseError eliminación bloqueada por registros dependientes.
type InUseError struct {
	Count int
	What  string // "usuario(s)"
	Of    string // "rol"
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("No se puede eliminar. Hay %d %s con este %s", e.Count, e.What, e.Of)
}

// Is permite errors.Is(err, ErrConflict).
func (e *InUseError) Is(target error) bool { return target == ErrConflict }

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
