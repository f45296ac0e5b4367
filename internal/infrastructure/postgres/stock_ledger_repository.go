package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockLedger = (*StockLedgerRepo)(nil)

// StockLedgerRepo implementación de StockLedger sobre PostgreSQL (usable con pool o tx).
// Las mutaciones son un único UPSERT con RETURNING: la fila queda bloqueada hasta el commit y
// dos salidas concurrentes del mismo ítem/ubicación se serializan sin leer-modificar-escribir.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

// ApplyDelta suma delta a la fila (la crea si no existe) y devuelve la nueva cantidad.
func (r *StockLedgerRepo) ApplyDelta(ctx context.Context, itemID, locationID string, delta int64) (int64, error) {
	query := `
		INSERT INTO stock_levels (item_id, location_id, quantity, last_updated)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity, last_updated = now()
		RETURNING quantity`
	var q int64
	if err := r.q.QueryRow(ctx, query, itemID, locationID, delta).Scan(&q); err != nil {
		return 0, classify("apply stock delta", err)
	}
	return q, nil
}

// SetAbsolute reemplaza la cantidad de la fila (conteo físico).
func (r *StockLedgerRepo) SetAbsolute(ctx context.Context, itemID, locationID string, value int64) (int64, error) {
	query := `
		INSERT INTO stock_levels (item_id, location_id, quantity, last_updated)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, last_updated = now()
		RETURNING quantity`
	var q int64
	if err := r.q.QueryRow(ctx, query, itemID, locationID, value).Scan(&q); err != nil {
		return 0, classify("set stock level", err)
	}
	return q, nil
}

// GetLevel obtiene la cantidad de un ítem en una ubicación; 0 si no hay fila.
func (r *StockLedgerRepo) GetLevel(ctx context.Context, itemID, locationID string) (int64, error) {
	var q int64
	err := r.q.QueryRow(ctx,
		`SELECT quantity FROM stock_levels WHERE item_id = $1 AND location_id = $2`,
		itemID, locationID,
	).Scan(&q)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, classify("get stock level", err)
	}
	return q, nil
}

// GetTotal suma el stock de un ítem en todas las ubicaciones.
func (r *StockLedgerRepo) GetTotal(ctx context.Context, itemID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0)::bigint FROM stock_levels WHERE item_id = $1`, itemID,
	).Scan(&total)
	if err != nil {
		return 0, classify("get stock total", err)
	}
	return total, nil
}

// ListByItem lista el stock de un ítem por ubicación.
func (r *StockLedgerRepo) ListByItem(ctx context.Context, itemID string) ([]entity.StockLevel, error) {
	return r.list(ctx, "list stock by item",
		`SELECT item_id, location_id, quantity, last_updated FROM stock_levels WHERE item_id = $1 ORDER BY location_id`,
		itemID)
}

// ListByLocation lista el stock de una ubicación por ítem.
func (r *StockLedgerRepo) ListByLocation(ctx context.Context, locationID string) ([]entity.StockLevel, error) {
	return r.list(ctx, "list stock by location",
		`SELECT item_id, location_id, quantity, last_updated FROM stock_levels WHERE location_id = $1 ORDER BY item_id`,
		locationID)
}

// ListAll lista todas las filas de stock.
func (r *StockLedgerRepo) ListAll(ctx context.Context) ([]entity.StockLevel, error) {
	return r.list(ctx, "list stock",
		`SELECT item_id, location_id, quantity, last_updated FROM stock_levels ORDER BY item_id, location_id`)
}

func (r *StockLedgerRepo) list(ctx context.Context, op, query string, args ...any) ([]entity.StockLevel, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	var out []entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(&s.ItemID, &s.LocationID, &s.Quantity, &s.LastUpdated); err != nil {
			return nil, classify(op, err)
		}
		out = append(out, s)
	}
	return out, classify(op, rows.Err())
}
