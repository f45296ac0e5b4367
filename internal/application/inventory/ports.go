package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el ledger: si fn devuelve error no queda ningún efecto visible.
// Los conflictos de bloqueo deben devolverse envueltos en domain.ErrConcurrency.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledger repository.StockLedger,
		txRepo repository.StockTransactionRepository,
	) error) error
}

// CommitListener recibe cada transacción confirmada (invalidación de caché, auditoría).
// Se invoca fuera de la tx; un listener no puede abortar el movimiento.
type CommitListener interface {
	TransactionCommitted(ctx context.Context, tx entity.StockTransaction)
}
