package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL (usable con pool o tx).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, name, type, address, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, l.ID, l.Name, l.Type, l.Address, l.CreatedAt)
	return classify("insert location", err)
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if uuid.Validate(id) != nil {
		return nil, nil
	}
	var l entity.Location
	err := r.q.QueryRow(ctx,
		`SELECT id, name, type, address, created_at FROM locations WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &l.Type, &l.Address, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get location", err)
	}
	return &l, nil
}

// List lista todas las ubicaciones por nombre.
func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, type, address, created_at FROM locations ORDER BY name, id`)
	if err != nil {
		return nil, classify("list locations", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Type, &l.Address, &l.CreatedAt); err != nil {
			return nil, classify("scan location", err)
		}
		list = append(list, &l)
	}
	return list, classify("list locations", rows.Err())
}
