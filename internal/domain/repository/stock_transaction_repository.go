package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockTransactionReader lecturas del log de transacciones.
type StockTransactionReader interface {
	GetByID(ctx context.Context, id string) (*entity.StockTransaction, error)
	// ListRecent devuelve las últimas transacciones por Sequence descendente.
	// itemID vacío no filtra.
	ListRecent(ctx context.Context, itemID string, limit int) ([]entity.StockTransaction, error)
	// ListAll devuelve el log completo por Sequence ascendente (replay).
	ListAll(ctx context.Context) ([]entity.StockTransaction, error)
}

// StockTransactionRepository log append-only. No existe Update ni Delete.
type StockTransactionRepository interface {
	StockTransactionReader
	// Append inserta la transacción y asigna Sequence.
	Append(ctx context.Context, tx *entity.StockTransaction) error
}
