package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

// PasswordGateConfig rutas exentas y destino del bloqueo por contraseña temporal.
type PasswordGateConfig struct {
	ChangePath string   // pantalla de cambio de contraseña (destino del 302)
	Allow      []string // prefijos permitidos aunque el cambio esté pendiente
	Log        *logger.Logger
}

// PasswordChangeGate intercepta a los usuarios con must_change_password. Las peticiones AJAX/JSON
// reciben 403 con el destino; el resto, un 302 a la pantalla de cambio. Va DESPUÉS de AuthMiddleware.
func PasswordChangeGate(cfg PasswordGateConfig) fiber.Handler {
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	allow := append([]string{cfg.ChangePath}, cfg.Allow...)
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil || !user.MustChangePassword || isAllowed(c.Path(), allow) {
			return c.Next()
		}
		cfg.Log.Info().Str("user_id", user.ID).Str("path", c.Path()).Msg("acceso bloqueado: cambio de contraseña pendiente")
		if wantsJSON(c) {
			return c.Status(fiber.StatusForbidden).JSON(dto.PasswordGateResponse{
				MustChangePassword: true,
				Redirect:           cfg.ChangePath,
				Message:            "Debes cambiar tu contraseña temporal antes de continuar.",
			})
		}
		return c.Redirect(cfg.ChangePath, fiber.StatusFound)
	}
}

func isAllowed(path string, allow []string) bool {
	for _, p := range allow {
		if p == "" {
			continue
		}
		if path == p || (strings.HasSuffix(p, "/") && strings.HasPrefix(path, p)) ||
			strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

// wantsJSON peticiones AJAX (X-Requested-With) o clientes que aceptan JSON.
func wantsJSON(c *fiber.Ctx) bool {
	if strings.EqualFold(c.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return strings.Contains(strings.ToLower(c.Get(fiber.HeaderAccept)), fiber.MIMEApplicationJSON)
}
