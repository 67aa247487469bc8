package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dulceria-api/internal/application/usecase"
)

// DashboardHandler maneja el resumen de la pantalla de inicio.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen del dashboard
// @Description  Conteos de productos, inventarios y niveles de stock, valor del stock e inventarios críticos.
// @Description  Los conteos de proveedores y usuarios sólo se incluyen para administradores.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), isAdmin(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
