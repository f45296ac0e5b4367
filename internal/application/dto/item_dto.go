package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem. Name es obligatorio (lo valida ItemUseCase.Create).
// Code vacío = se genera desde la categoría; una categoría vacía usa el prefijo GEN.
type CreateItemRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	ReorderPoint int64           `json:"reorder_point"`
}

// UpdateItemRequest actualización parcial: solo se aplican los campos presentes.
// ID y CreatedAt existen para detectar intentos de modificarlos; si llegan, la solicitud se rechaza.
type UpdateItemRequest struct {
	ID           json.RawMessage  `json:"id,omitempty"`
	CreatedAt    json.RawMessage  `json:"created_at,omitempty"`
	Code         *string          `json:"code"`
	Name         *string          `json:"name"`
	Category     *string          `json:"category"`
	Unit         *string          `json:"unit"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	ReorderPoint *int64           `json:"reorder_point"`
}

// ItemFilterRequest filtros de GET /api/items.
type ItemFilterRequest struct {
	Search       string `query:"search"`
	Category     string `query:"category"`
	LowStockOnly bool   `query:"low_stock"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	ReorderPoint int64           `json:"reorder_point"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemSummaryResponse ítem con su stock total (listados).
type ItemSummaryResponse struct {
	ItemResponse
	TotalStock int64 `json:"total_stock"`
	LowStock   bool  `json:"low_stock"`
}

// ItemListResponse lista de ítems.
type ItemListResponse struct {
	Items []ItemSummaryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ItemDetailResponse GET /api/items/:id: ítem + stock por ubicación + movimientos recientes.
type ItemDetailResponse struct {
	ItemResponse
	StockLevels        []StockLevelResponse  `json:"stock_levels"`
	RecentTransactions []TransactionResponse `json:"recent_transactions"`
	TotalStock         int64                 `json:"total_stock"`
	LowStock           bool                  `json:"low_stock"`
}

// StockLevelResponse cantidad de un ítem en una ubicación.
type StockLevelResponse struct {
	ItemID       string    `json:"item_id"`
	ItemCode     string    `json:"item_code,omitempty"`
	ItemName     string    `json:"item_name,omitempty"`
	LocationID   string    `json:"location_id"`
	LocationName string    `json:"location_name,omitempty"`
	Quantity     int64     `json:"quantity"`
	LastUpdated  time.Time `json:"last_updated"`
}
