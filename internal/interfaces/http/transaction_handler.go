package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// TransactionHandler registra y lista movimientos de inventario (protegido).
type TransactionHandler struct {
	processor *inventory.TransactionProcessor
	views     *analytics.DashboardUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(processor *inventory.TransactionProcessor, views *analytics.DashboardUseCase) *TransactionHandler {
	return &TransactionHandler{processor: processor, views: views}
}

// Create godoc
// @Summary      Registrar movimiento de inventario
// @Description  purchase, issue, transfer, return o stocktake. performed_by se toma del token.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "Movimiento"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	tx, err := h.processor.CreateTransaction(c.UserContext(), inventory.TransactionInput{
		ItemID:         in.ItemID,
		Quantity:       in.Quantity,
		Type:           in.Type,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		PerformedBy:    GetUserID(c),
		AdjustStockAt:  in.AdjustStockAt,
		Reference:      in.Reference,
		Notes:          in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransactionFrom(*tx))
}

// List godoc
// @Summary      Últimas transacciones
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por ítem"
// @Param        limit    query  int     false  "Máximo (tope 200)"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	out, err := h.views.ListTransactions(c.UserContext(), c.Query("item_id"), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
