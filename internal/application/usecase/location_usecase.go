package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LocationUseCase casos de uso del registro de ubicaciones (bodegas, obras, patios).
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una nueva ubicación. Type vacío = warehouse.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrValidation)
	}
	typ := strings.ToLower(strings.TrimSpace(in.Type))
	if typ == "" {
		typ = entity.LocationTypeWarehouse
	}
	if !entity.IsValidLocationType(typ) {
		return nil, fmt.Errorf("%w: type %q no es válido", domain.ErrValidation, in.Type)
	}
	location := &entity.Location{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      typ,
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	out := dto.LocationFrom(location)
	return &out, nil
}

// List lista todas las ubicaciones.
func (uc *LocationUseCase) List(ctx context.Context) (*dto.LocationListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, dto.LocationFrom(l))
	}
	return &dto.LocationListResponse{Items: items}, nil
}
