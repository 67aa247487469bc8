package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dulceria-api/internal/application/dto"
	"github.com/jhoicas/dulceria-api/internal/application/inventory"
	"github.com/jhoicas/dulceria-api/internal/application/usecase"
	"github.com/jhoicas/dulceria-api/internal/infrastructure/metrics"
)

const defaultReplenishmentLimit = 50

// InventoryHandler existencias por ubicación, movimientos de stock y reposición.
type InventoryHandler struct {
	uc            *usecase.InventoryUseCase
	movements     *inventory.RegisterMovementUseCase
	replenishment *inventory.ReplenishmentUseCase
	export        *usecase.ExportUseCase
	metrics       *metrics.Metrics
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	uc *usecase.InventoryUseCase,
	movements *inventory.RegisterMovementUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	export *usecase.ExportUseCase,
	m *metrics.Metrics,
) *InventoryHandler {
	return &InventoryHandler{uc: uc, movements: movements, replenishment: replenishment, export: export, metrics: m}
}

// Create godoc
// @Summary      Crear inventario
// @Description  Un solo registro por producto y ubicación. Cantidad y mínimo >= 0; máximo >= mínimo.
// @Tags         inventories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InventoryRequest  true  "producto, cantidades y ubicación"
// @Success      201   {object}  dto.InventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventories [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.InventoryRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener inventario
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del inventario"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar inventarios
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        search           query  string  false  "producto o ubicación"
// @Param        order_by         query  string  false  "product, quantity, location, updated_at"
// @Param        order_direction  query  string  false  "asc o desc"
// @Param        page             query  int     false  "página"
// @Param        per_page         query  int     false  "elementos por página"
// @Success      200  {object}  dto.ListResponse[dto.InventoryResponse]
// @Router       /api/inventories [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), listQuery(c, "inventories"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar inventario
// @Tags         inventories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del inventario"
// @Param        body  body  dto.InventoryRequest  true  "producto, cantidades y ubicación"
// @Success      200   {object}  dto.InventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventories/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	var in dto.InventoryRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de movimientos de un inventario
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del inventario"
// @Param        page      query  int     false  "página"
// @Param        per_page  query  int     false  "elementos por página"
// @Success      200  {object}  dto.ListResponse[dto.MovementResponse]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	out, err := h.uc.ListMovements(c.UserContext(), c.Params("id"), listQuery(c, "movements"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  entrada suma y salida resta; una salida mayor al stock disponible se rechaza.
// @Tags         inventories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del inventario"
// @Param        body  body  dto.RegisterMovementRequest  true  "tipo, cantidad y detalle"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.movements.RegisterMovementFromRequest(c.UserContext(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.Movement(out.Type)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Inventarios en nivel bajo, los más críticos primero, con la cantidad sugerida de pedido.
// @Tags         inventories
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de elementos (por defecto 50)"
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventories/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), c.QueryInt("limit", defaultReplenishmentLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Export godoc
// @Summary      Exportar inventarios a Excel
// @Tags         inventories
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        all  query  bool  false  "todos los registros"
// @Success      200
// @Router       /api/inventories/export [get]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	f, err := h.export.Inventories(c.UserContext(), listQuery(c, "inventories"))
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.Export("inventories", "xlsx")
	return sendFile(c, f)
}

// ExportPDF godoc
// @Summary      Reporte de existencias en PDF
// @Tags         inventories
// @Security     Bearer
// @Produce      application/pdf
// @Param        all  query  bool  false  "todos los registros"
// @Success      200
// @Router       /api/inventories/export/pdf [get]
func (h *InventoryHandler) ExportPDF(c *fiber.Ctx) error {
	by := GetRole(c)
	if u := GetUser(c); u != nil {
		by = u.DisplayName()
	}
	f, err := h.export.InventoryPDF(c.UserContext(), by, listQuery(c, "inventories"))
	if err != nil {
		return respondError(c, err)
	}
	h.metrics.Export("inventories", "pdf")
	return sendFile(c, f)
}
