package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// InventoryHandler endpoints auxiliares de inventario.
type InventoryHandler struct {
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{replenishment: replenishment}
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Ítems en o por debajo del punto de reorden con la cantidad sugerida de pedido.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Limitar a una ubicación"
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
