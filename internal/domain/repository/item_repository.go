package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ItemFilter filtros del listado de ítems. Campos vacíos no filtran.
type ItemFilter struct {
	Search   string // coincidencia parcial en código o nombre, sin distinguir mayúsculas
	Category string // coincidencia exacta
}

// ItemReader lecturas del catálogo. GetByID y GetByCode devuelven (nil, nil) cuando no existe.
type ItemReader interface {
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error)
	List(ctx context.Context, filter ItemFilter) ([]*entity.InventoryItem, error)
}

// ItemRepository define el puerto de persistencia para InventoryItem (DIP).
// Create y Update devuelven domain.ErrConflict si el código ya existe.
type ItemRepository interface {
	ItemReader
	Create(ctx context.Context, item *entity.InventoryItem) error
	Update(ctx context.Context, item *entity.InventoryItem) error
	// NextCodeSequence reserva el siguiente consecutivo para el prefijo de código.
	NextCodeSequence(ctx context.Context, prefix string) (int64, error)
}
