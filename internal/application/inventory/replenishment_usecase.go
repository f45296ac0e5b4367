package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// idealStockFactor stock ideal = punto de reorden * 1.5.
var idealStockFactor = decimal.NewFromFloat(1.5)

// ReplenishmentUseCase genera la lista de reposición: ítems en stock bajo con la cantidad
// sugerida de pedido. Se usa como insumo para el flujo de compras (externo).
type ReplenishmentUseCase struct {
	snapshots repository.SnapshotRunner
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(snapshots repository.SnapshotRunner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{snapshots: snapshots}
}

// GenerateReplenishmentList devuelve los ítems con total <= punto de reorden.
// locationID puede ser vacío para considerar el stock global de todas las ubicaciones.
// Orden: mayor déficit primero, luego mayor costo estimado, luego código.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(
	ctx context.Context,
	locationID string,
) ([]dto.ReplenishmentSuggestionDTO, error) {
	suggestions := []dto.ReplenishmentSuggestionDTO{}

	err := uc.snapshots.Read(ctx, func(s repository.Snapshot) error {
		items, err := s.Items.List(ctx, repository.ItemFilter{})
		if err != nil {
			return err
		}
		var levels []entity.StockLevel
		if locationID != "" {
			var loc *entity.Location
			if loc, err = s.Locations.GetByID(ctx, locationID); err != nil {
				return err
			}
			if loc == nil {
				return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, locationID)
			}
			levels, err = s.Ledger.ListByLocation(ctx, locationID)
		} else {
			levels, err = s.Ledger.ListAll(ctx)
		}
		if err != nil {
			return err
		}
		current := make(map[string]int64, len(items))
		for _, l := range levels {
			current[l.ItemID] += l.Quantity
		}

		for _, item := range items {
			qty := current[item.ID]
			if !stock.IsLowStock(qty, item.ReorderPoint) {
				continue
			}
			ideal := decimal.NewFromInt(item.ReorderPoint).Mul(idealStockFactor).Ceil().IntPart()
			suggested := ideal - qty
			if suggested <= 0 {
				continue
			}
			suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
				ItemID:             item.ID,
				Code:               item.Code,
				Name:               item.Name,
				Category:           item.Category,
				CurrentStock:       qty,
				ReorderPoint:       item.ReorderPoint,
				IdealStock:         ideal,
				SuggestedOrderQty:  suggested,
				UnitCost:           item.UnitCost,
				EstimatedOrderCost: item.UnitCost.Mul(decimal.NewFromInt(suggested)),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA := a.ReorderPoint - a.CurrentStock
		defB := b.ReorderPoint - b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		if !a.EstimatedOrderCost.Equal(b.EstimatedOrderCost) {
			return a.EstimatedOrderCost.GreaterThan(b.EstimatedOrderCost)
		}
		return a.Code < b.Code
	})

	// Prioridad 1 = más urgente
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
