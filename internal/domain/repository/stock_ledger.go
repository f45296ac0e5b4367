package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockLedgerReader accesos de lectura al stock por (ítem, ubicación).
type StockLedgerReader interface {
	// GetLevel devuelve 0 si la fila no existe.
	GetLevel(ctx context.Context, itemID, locationID string) (int64, error)
	GetTotal(ctx context.Context, itemID string) (int64, error)
	ListByItem(ctx context.Context, itemID string) ([]entity.StockLevel, error)
	ListByLocation(ctx context.Context, locationID string) ([]entity.StockLevel, error)
	ListAll(ctx context.Context) ([]entity.StockLevel, error)
}

// StockLedger es el único puerto que modifica StockLevel.
// Solo debe usarse dentro de TxRunner.Run: la mutación y el registro de la transacción
// se confirman juntos o no se confirman.
type StockLedger interface {
	StockLedgerReader
	// ApplyDelta suma delta a la fila (la crea si no existe) y devuelve la nueva cantidad.
	// Bloquea la fila hasta el commit.
	ApplyDelta(ctx context.Context, itemID, locationID string, delta int64) (int64, error)
	// SetAbsolute reemplaza la cantidad (solo conteo físico).
	SetAbsolute(ctx context.Context, itemID, locationID string, value int64) (int64, error)
}
