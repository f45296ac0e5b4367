package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const transactionColumns = `id, sequence, item_id, quantity, type, from_location_id, to_location_id,
	performed_by, transaction_date, adjust_stock_at, reference, notes`

// StockTransactionRepo log append-only sobre PostgreSQL. La tabla además tiene un trigger que
// rechaza UPDATE y DELETE.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Append inserta la transacción; sequence lo asigna la BD (bigserial).
func (r *StockTransactionRepo) Append(ctx context.Context, tx *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (id, item_id, quantity, type, from_location_id, to_location_id,
			performed_by, transaction_date, adjust_stock_at, reference, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING sequence`
	err := r.q.QueryRow(ctx, query,
		tx.ID, tx.ItemID, tx.Quantity, string(tx.Type), tx.FromLocationID, tx.ToLocationID,
		tx.PerformedBy, tx.TransactionDate, string(tx.AdjustStockAt), tx.Reference, tx.Notes,
	).Scan(&tx.Sequence)
	return classify("append stock transaction", err)
}

// GetByID obtiene una transacción por ID.
func (r *StockTransactionRepo) GetByID(ctx context.Context, id string) (*entity.StockTransaction, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	tx, err := scanTransaction(r.q.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM stock_transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get stock transaction", err)
	}
	return tx, nil
}

// ListRecent últimas transacciones por sequence descendente; itemID vacío no filtra.
func (r *StockTransactionRepo) ListRecent(ctx context.Context, itemID string, limit int) ([]entity.StockTransaction, error) {
	if itemID == "" {
		return r.list(ctx, "list recent transactions",
			`SELECT `+transactionColumns+` FROM stock_transactions ORDER BY sequence DESC LIMIT $1`, limit)
	}
	return r.list(ctx, "list recent transactions by item",
		`SELECT `+transactionColumns+` FROM stock_transactions WHERE item_id = $1 ORDER BY sequence DESC LIMIT $2`,
		itemID, limit)
}

// ListAll log completo en orden de sequence.
func (r *StockTransactionRepo) ListAll(ctx context.Context) ([]entity.StockTransaction, error) {
	return r.list(ctx, "list transactions",
		`SELECT `+transactionColumns+` FROM stock_transactions ORDER BY sequence`)
}

func (r *StockTransactionRepo) list(ctx context.Context, op, query string, args ...any) ([]entity.StockTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	var out []entity.StockTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, *tx)
	}
	return out, classify(op, rows.Err())
}

func scanTransaction(row pgx.Row) (*entity.StockTransaction, error) {
	var (
		tx       entity.StockTransaction
		txType   string
		adjustAt string
	)
	if err := row.Scan(
		&tx.ID, &tx.Sequence, &tx.ItemID, &tx.Quantity, &txType, &tx.FromLocationID, &tx.ToLocationID,
		&tx.PerformedBy, &tx.TransactionDate, &adjustAt, &tx.Reference, &tx.Notes,
	); err != nil {
		return nil, err
	}
	tx.Type = entity.TransactionType(txType)
	tx.AdjustStockAt = entity.AdjustStockAt(adjustAt)
	return &tx, nil
}
