package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un material del catálogo (cemento, varilla, tubería...).
// Nunca se elimina; el stock por ubicación vive en StockLevel.
type InventoryItem struct {
	ID           string
	Code         string // único; se genera desde la categoría si no se envía
	Name         string
	Category     string
	Unit         string          // unidad de medida: bolsa, m, m3, und
	UnitCost     decimal.Decimal // costo unitario usado para valorizar el inventario
	ReorderPoint int64           // en o por debajo de este total el ítem está en stock bajo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
