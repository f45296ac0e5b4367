package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LocationReader lecturas del registro de ubicaciones. GetByID devuelve (nil, nil) si no existe.
type LocationReader interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	List(ctx context.Context) ([]*entity.Location, error)
}

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	LocationReader
	Create(ctx context.Context, location *entity.Location) error
}
