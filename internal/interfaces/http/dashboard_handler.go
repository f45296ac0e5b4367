package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
)

// DashboardHandler maneja los endpoints de dashboard y reconciliación.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetDashboard devuelve stock bajo, valorización, agregados por categoría y últimos movimientos.
// GET /api/dashboard
//
// Todos los campos salen de la misma vista consistente del ledger.
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	out, err := h.uc.GetDashboard(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reconcile reproduce el log completo y lo compara con el stock vivo.
// GET /api/ledger/reconcile
//
// Responde 200 también cuando hay diferencias; el campo consistent indica el resultado.
func (h *DashboardHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.uc.Reconcile(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
