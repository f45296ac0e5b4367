package dto

import "github.com/shopspring/decimal"

// DashboardResponse respuesta de GET /api/dashboard.
// Todos los campos se calculan sobre la misma vista consistente del ledger.
type DashboardResponse struct {
	LowStockCount      int                         `json:"low_stock_count"`
	LowStockItems      []ItemSummaryResponse       `json:"low_stock_items"` // top N, menor holgura primero
	TotalItems         int                         `json:"total_items"`
	TotalValue         decimal.Decimal             `json:"total_value"` // Σ total * unit_cost
	StockByCategory    map[string]CategoryStockDTO `json:"stock_by_category"`
	RecentTransactions []TransactionResponse       `json:"recent_transactions"`
}

// CategoryStockDTO agregado por categoría.
type CategoryStockDTO struct {
	TotalItems int             `json:"total_items"`
	TotalStock int64           `json:"total_stock"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ReconcileResponse resultado de reproducir el log contra el stock vivo.
type ReconcileResponse struct {
	Transactions int             `json:"transactions"`
	Keys         int             `json:"keys"`
	Consistent   bool            `json:"consistent"`
	Drift        []StockDriftDTO `json:"drift"`
}

// StockDriftDTO diferencia para una llave (ítem, ubicación).
type StockDriftDTO struct {
	ItemID     string `json:"item_id"`
	LocationID string `json:"location_id"`
	Live       int64  `json:"live"`
	Replayed   int64  `json:"replayed"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un ítem en stock bajo.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"item_id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Category           string          `json:"category"`
	CurrentStock       int64           `json:"current_stock"`
	ReorderPoint       int64           `json:"reorder_point"`
	IdealStock         int64           `json:"ideal_stock"`         // ReorderPoint * 1.5, redondeado hacia arriba
	SuggestedOrderQty  int64           `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
