package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dulceria-api/internal/application/usecase"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/metrics"
)

// AuditHandler consulta del registro de auditoría.
type AuditHandler struct {
	uc      *usecase.AuditUseCase
	export  *usecase.ExportUseCase
	metrics *metrics.Metrics
}

func NewAuditHandler(uc *usecase.AuditUseCase, export *usecase.ExportUseCase, m *metrics.Metrics) *AuditHandler {
	return &AuditHandler{uc: uc, export: export, metrics: m}
}

// List godoc
// @Summary      Registro de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        search           query  string  false  "entidad, acción, detalle o usuario"
// @Param        order_by         query  string  false  "created_at, action, entity"
// @Param        order_direction  query  string  false  "asc o desc"
// @Param        page             query  int     false  "página"
// @Param        per_page         query  int     false  "elementos por página"
// @Success      200  {object}  dto.ListResponse[dto.AuditEntryResponse]
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), listQuery(c, "audit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar auditoría a Excel
// @Tags         audit
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        all  query  bool  false  "todos los registros"
// @Success      200
// @Router       /api/audit/export [get]
func (h *AuditHandler) Export(c *fiber.Ctx) error {
	f, err := h.export.Audit(c.UserContext(), listQuery(c, "audit"))
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.Export("audit", "xlsx")
	return sendFile(c, f)
}
