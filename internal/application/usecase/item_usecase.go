package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// maxCodeAttempts intentos de reservar un código generado antes de rendirse.
const maxCodeAttempts = 3

const defaultUnit = "und"

// CatalogListener recibe avisos de cambios en el catálogo (invalidación de caché).
type CatalogListener interface {
	CatalogChanged(ctx context.Context)
}

// ItemUseCase casos de uso del catálogo de ítems. El stock no se toca aquí: solo vía transacciones.
type ItemUseCase struct {
	repo      repository.ItemRepository
	listeners []CatalogListener
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, listeners ...CatalogListener) *ItemUseCase {
	return &ItemUseCase{repo: repo, listeners: listeners}
}

// Create crea un ítem. Si no trae código se genera PREFIJO-NNNNNN con un consecutivo reservado;
// si ese código ya existe (alta manual previa) se reserva otro, hasta maxCodeAttempts veces.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrValidation)
	}
	if in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrValidation)
	}
	if in.ReorderPoint < 0 {
		return nil, fmt.Errorf("%w: reorder_point no puede ser negativo", domain.ErrValidation)
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = defaultUnit
	}

	now := time.Now().UTC()
	item := &entity.InventoryItem{
		ID:           uuid.New().String(),
		Code:         strings.TrimSpace(in.Code),
		Name:         name,
		Category:     strings.TrimSpace(in.Category),
		Unit:         unit,
		UnitCost:     in.UnitCost,
		ReorderPoint: in.ReorderPoint,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if item.Code != "" {
		if err := uc.repo.Create(ctx, item); err != nil {
			return nil, err
		}
	} else if err := uc.createWithGeneratedCode(ctx, item); err != nil {
		return nil, err
	}

	uc.notify(ctx)
	out := dto.ItemFrom(item)
	return &out, nil
}

func (uc *ItemUseCase) createWithGeneratedCode(ctx context.Context, item *entity.InventoryItem) error {
	prefix := stock.CodePrefix(item.Category)
	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		seq, err := uc.repo.NextCodeSequence(ctx, prefix)
		if err != nil {
			return err
		}
		item.Code = stock.FormatCode(prefix, seq)
		err = uc.repo.Create(ctx, item)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: no se pudo reservar un código libre para %s: %v", domain.ErrConflict, prefix, lastErr)
}

// Update aplica solo los campos presentes. ID y CreatedAt no se pueden modificar.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if len(in.ID) > 0 || len(in.CreatedAt) > 0 {
		return nil, fmt.Errorf("%w: id y created_at no se pueden modificar", domain.ErrValidation)
	}
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: ítem %s", domain.ErrNotFound, id)
	}

	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: code no puede quedar vacío", domain.ErrValidation)
		}
		item.Code = code
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede quedar vacío", domain.ErrValidation)
		}
		item.Name = name
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Unit != nil {
		item.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.UnitCost != nil {
		if in.UnitCost.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrValidation)
		}
		item.UnitCost = *in.UnitCost
	}
	if in.ReorderPoint != nil {
		if *in.ReorderPoint < 0 {
			return nil, fmt.Errorf("%w: reorder_point no puede ser negativo", domain.ErrValidation)
		}
		item.ReorderPoint = *in.ReorderPoint
	}
	item.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	uc.notify(ctx)
	out := dto.ItemFrom(item)
	return &out, nil
}

func (uc *ItemUseCase) notify(ctx context.Context) {
	for _, l := range uc.listeners {
		l.CatalogChanged(ctx)
	}
}
