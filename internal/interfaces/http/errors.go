package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/pkg/logger"
)

// respondError traduce errores de dominio a status HTTP. Los errores desconocidos se devuelven
// tal cual para que los registre ErrorHandler como 500.
func respondError(c *fiber.Ctx, err error) error {
	var (
		verr   *domain.ValidationError
		locked *domain.LockedError
		inUse  *domain.InUseError
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: verr.Error(), Errors: verr.Fields,
		})
	case errors.As(err, &locked):
		return c.Status(fiber.StatusLocked).JSON(dto.LockedResponse{
			Code:             "ACCOUNT_LOCKED",
			Message:          locked.Error(),
			LockedUntil:      locked.Until,
			RemainingSeconds: int(locked.Remaining.Seconds()),
		})
	case errors.As(err, &inUse):
		return fail(c, fiber.StatusConflict, "IN_USE", inUse.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sesión inválida o expirada")
	case errors.Is(err, domain.ErrAccountInactive):
		return fail(c, fiber.StatusForbidden, "ACCOUNT_INACTIVE", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusConflict, "DUPLICATE", err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, domain.ErrSelfAction):
		return fail(c, fiber.StatusBadRequest, "SELF_ACTION", err.Error())
	case errors.Is(err, domain.ErrTokenInvalid):
		return fail(c, fiber.StatusBadRequest, "TOKEN_INVALID", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	return err
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler último recurso de Fiber: errores de la librería (404 de ruta, body demasiado grande)
// y errores inesperados de los casos de uso, que se registran y responden como 500 INTERNAL.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return fail(c, ferr.Code, "HTTP_ERROR", ferr.Message)
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).
			Str("user_id", GetUserID(c)).Msg("error interno")
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "error interno del servidor")
	}
}

// parseBody decodifica el JSON y aplica las etiquetas validate del DTO.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.FieldError("body", "cuerpo inválido")
	}
	return dto.Validate(out)
}
