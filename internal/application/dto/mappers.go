package dto

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// ItemFrom convierte la entidad en su DTO de salida.
func ItemFrom(i *entity.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:           i.ID,
		Code:         i.Code,
		Name:         i.Name,
		Category:     i.Category,
		Unit:         i.Unit,
		UnitCost:     i.UnitCost,
		ReorderPoint: i.ReorderPoint,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}

// LocationFrom convierte la entidad en su DTO de salida.
func LocationFrom(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Type:      l.Type,
		Address:   l.Address,
		CreatedAt: l.CreatedAt,
	}
}

// TransactionFrom convierte una transacción del log en su DTO de salida.
func TransactionFrom(t entity.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		Sequence:        t.Sequence,
		ItemID:          t.ItemID,
		Quantity:        t.Quantity,
		Type:            string(t.Type),
		FromLocationID:  t.FromLocationID,
		ToLocationID:    t.ToLocationID,
		PerformedBy:     t.PerformedBy,
		TransactionDate: t.TransactionDate,
		AdjustStockAt:   string(t.AdjustStockAt),
		Reference:       t.Reference,
		Notes:           t.Notes,
	}
}

// TransactionsFrom convierte una lista; nunca devuelve nil (JSON "[]").
func TransactionsFrom(list []entity.StockTransaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, TransactionFrom(t))
	}
	return out
}
