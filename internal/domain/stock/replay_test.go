package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

func ptr(s string) *string { return &s }

func sampleLog() []entity.StockTransaction {
	return []entity.StockTransaction{
		{Sequence: 1, ItemID: "I", Quantity: 15, Type: entity.TransactionPurchase, ToLocationID: ptr("A"), AdjustStockAt: entity.AdjustBoth},
		{Sequence: 2, ItemID: "I", Quantity: 5, Type: entity.TransactionTransfer, FromLocationID: ptr("A"), ToLocationID: ptr("B"), AdjustStockAt: entity.AdjustBoth},
		{Sequence: 3, ItemID: "I", Quantity: 20, Type: entity.TransactionIssue, FromLocationID: ptr("A"), AdjustStockAt: entity.AdjustBoth},
		{Sequence: 4, ItemID: "I", Quantity: 7, Type: entity.TransactionStocktake, ToLocationID: ptr("B"), AdjustStockAt: entity.AdjustBoth},
		{Sequence: 5, ItemID: "J", Quantity: 3, Type: entity.TransactionTransfer, FromLocationID: ptr("A"), ToLocationID: ptr("B"), AdjustStockAt: entity.AdjustDestination},
	}
}

func TestReplay_Escenarios(t *testing.T) {
	levels := stock.Replay(sampleLog())

	assert.Equal(t, int64(-10), levels[entity.StockKey{ItemID: "I", LocationID: "A"}])
	assert.Equal(t, int64(7), levels[entity.StockKey{ItemID: "I", LocationID: "B"}])
	assert.Equal(t, int64(-3), levels.TotalFor("I"))
	// adjust=destination: solo entra a B, A no se toca
	assert.Equal(t, int64(3), levels[entity.StockKey{ItemID: "J", LocationID: "B"}])
	_, touched := levels[entity.StockKey{ItemID: "J", LocationID: "A"}]
	assert.False(t, touched)
}

func TestReplay_OrdenaPorSequence(t *testing.T) {
	log := sampleLog()
	reversed := make([]entity.StockTransaction, len(log))
	for i := range log {
		reversed[len(log)-1-i] = log[i]
	}
	assert.Equal(t, stock.Replay(log), stock.Replay(reversed),
		"el replay debe depender del Sequence, no del orden del slice")
}

func TestReplay_Idempotente(t *testing.T) {
	log := sampleLog()
	assert.Equal(t, stock.Replay(log), stock.Replay(log))
}

func TestDiff(t *testing.T) {
	replayed := stock.Replay(sampleLog())
	live := []entity.StockLevel{
		{ItemID: "I", LocationID: "A", Quantity: -10},
		{ItemID: "I", LocationID: "B", Quantity: 9},
		{ItemID: "K", LocationID: "A", Quantity: 0},
	}

	drift := stock.Diff(live, replayed)

	assert.Equal(t, []stock.Drift{
		{Key: entity.StockKey{ItemID: "I", LocationID: "B"}, Live: 9, Replayed: 7},
		{Key: entity.StockKey{ItemID: "J", LocationID: "B"}, Live: 0, Replayed: 3},
	}, drift)
}
