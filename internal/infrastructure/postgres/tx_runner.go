package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner        = (*TxRunner)(nil)
	_ repository.SnapshotRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout > 0 acota la espera por bloqueos de fila;
// al vencer, Postgres devuelve 55P03 y el movimiento se reporta como conflicto de concurrencia.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ledger repository.StockLedger,
	txRepo repository.StockTransactionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		ms := fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, ms); err != nil {
			return classify("set lock_timeout", err)
		}
	}

	if err := fn(NewStockLedgerRepository(tx), NewStockTransactionRepository(tx)); err != nil {
		return classify("ledger transaction", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

// Read abre una transacción REPEATABLE READ de solo lectura: todas las consultas de fn ven el mismo
// snapshot, aunque otros movimientos confirmen mientras tanto.
func (r *TxRunner) Read(ctx context.Context, fn func(s repository.Snapshot) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return classify("begin snapshot", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	snap := repository.Snapshot{
		Items:        NewItemRepository(tx),
		Locations:    NewLocationRepository(tx),
		Ledger:       NewStockLedgerRepository(tx),
		Transactions: NewStockTransactionRepository(tx),
	}
	if err := fn(snap); err != nil {
		return classify("snapshot read", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("commit snapshot", err)
	}
	return nil
}
