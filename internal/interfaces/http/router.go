package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC        *usecase.ItemUseCase
	LocationUC    *usecase.LocationUseCase
	Processor     *inventory.TransactionProcessor
	Dashboard     *appanalytics.DashboardUseCase
	Replenishment *inventory.ReplenishmentUseCase
	JWTSecret     string
	ServiceName   string
	Logger        *logger.Logger // nil = sin log de peticiones
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Logger != nil {
		app.Use(RequestLogger(deps.Logger))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	// Todas las rutas de /api requieren Bearer Token
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(RoleAdmin)

	// Items
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.Dashboard)
	items.Post("/", adminOnly, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Patch("/:id", adminOnly, itemHandler.Update)
	items.Put("/:id", adminOnly, itemHandler.Update)

	// Locations
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC, deps.Dashboard)
	locations.Post("/", adminOnly, locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	// Transactions
	transactions := api.Group("/transactions")
	txHandler := NewTransactionHandler(deps.Processor, deps.Dashboard)
	transactions.Post("/", RequireRole(RoleAdmin, RoleBodeguero), txHandler.Create)
	transactions.Get("/", txHandler.List)

	// Dashboard y reconciliación
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	api.Get("/dashboard", dashboardHandler.GetDashboard)
	api.Get("/ledger/reconcile", adminOnly, dashboardHandler.Reconcile)

	// Reposición
	inventoryHandler := NewInventoryHandler(deps.Replenishment)
	api.Get("/inventory/replenishment", inventoryHandler.GetReplenishmentList)
}
