package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, code, name, category, unit, unit_cost, reorder_point, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo ítem. Código duplicado -> domain.ErrConflict.
func (r *ItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Code, item.Name, item.Category, item.Unit,
		item.UnitCost, item.ReorderPoint, item.CreatedAt, item.UpdatedAt,
	)
	return classify("insert item", err)
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	return r.getOne(ctx, "get item", `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
}

// GetByCode obtiene un ítem por código.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get item by code", `SELECT `+itemColumns+` FROM inventory_items WHERE code = $1`, code)
}

func (r *ItemRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(op, err)
	}
	return it, nil
}

// Update actualiza los campos editables. El ID y created_at nunca cambian.
func (r *ItemRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET code = $2, name = $3, category = $4, unit = $5, unit_cost = $6, reorder_point = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		item.ID, item.Code, item.Name, item.Category, item.Unit,
		item.UnitCost, item.ReorderPoint, item.UpdatedAt,
	)
	if err != nil {
		return classify("update item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// likeEscaper hace que %, _ y \ del término de búsqueda se comparen literalmente.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// List lista ítems ordenados por código.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE 1=1`
	var args []any
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		query += ` AND (code ILIKE $1 ESCAPE '\' OR name ILIKE $1 ESCAPE '\')`
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		args = append(args, c)
		query += ` AND category = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY code`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify("list items", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, classify("scan item", err)
		}
		list = append(list, it)
	}
	return list, classify("list items", rows.Err())
}

// NextCodeSequence reserva el siguiente consecutivo del prefijo (fila por prefijo, incremento atómico).
func (r *ItemRepo) NextCodeSequence(ctx context.Context, prefix string) (int64, error) {
	query := `
		INSERT INTO item_code_counters (prefix, last_value) VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET last_value = item_code_counters.last_value + 1
		RETURNING last_value`
	var next int64
	if err := r.q.QueryRow(ctx, query, prefix).Scan(&next); err != nil {
		return 0, classify("next code sequence", err)
	}
	return next, nil
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	if err := row.Scan(
		&it.ID, &it.Code, &it.Name, &it.Category, &it.Unit,
		&it.UnitCost, &it.ReorderPoint, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}
