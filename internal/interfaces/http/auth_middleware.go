package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/pkg/jwt"
)

// Locals keys de la sesión en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
	LocalUser   = "user"
	LocalClaims = "claims"
)

// Authenticator valida el token y recarga el usuario (lo implementa *auth.AuthUseCase).
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.User, *jwt.Claims, error)
}

// AuthMiddleware acepta la cookie de sesión o un header "Authorization: Bearer <token>"
// y deja usuario, rol y claims en c.Locals.
func AuthMiddleware(authn Authenticator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, code, msg := extractToken(c, cookieName)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
		}
		user, claims, err := authn.Authenticate(c.Context(), tokenString)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalRole, user.RoleName)
		c.Locals(LocalUser, user)
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx, cookieName string) (token, code, msg string) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", "INVALID_TOKEN", "formato: Bearer <token>"
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return "", "MISSING_TOKEN", "token vacío"
		}
		return tokenString, "", ""
	}
	if cookieName != "" {
		if v := c.Cookies(cookieName); v != "" {
			return v, "", ""
		}
	}
	return "", "MISSING_TOKEN", "sesión requerida"
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el nombre del rol del usuario autenticado.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetUser devuelve el usuario recargado por el middleware.
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetClaims claims del token de la petición.
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	cl, _ := c.Locals(LocalClaims).(*jwt.Claims)
	return cl
}

// RequireRole autoriza sólo a los roles indicados. Debe usarse DESPUÉS de AuthMiddleware.
//   - 401 MISSING_ROLE si la sesión no trae rol.
//   - 403 FORBIDDEN si el rol no está permitido.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "MISSING_ROLE", Message: "la sesión no tiene un rol asignado",
			})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code: "FORBIDDEN", Message: "no tienes permisos para acceder a este recurso",
		})
	}
}

// isAdmin atajo para los handlers que ajustan la respuesta según el rol.
func isAdmin(c *fiber.Ctx) bool {
	return GetRole(c) == entity.RoleAdministrador
}
