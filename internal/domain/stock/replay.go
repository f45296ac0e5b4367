package stock

import (
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Levels estado de stock por llave.
type Levels map[entity.StockKey]int64

// Replay reconstruye el stock desde un ledger vacío aplicando las transacciones en orden de Sequence.
// No modifica el slice recibido.
func Replay(txs []entity.StockTransaction) Levels {
	ordered := make([]entity.StockTransaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Sequence < ordered[j].Sequence })

	levels := make(Levels)
	for i := range ordered {
		tx := &ordered[i]
		for _, e := range Effects(tx.Type, tx.AdjustStockAt) {
			loc := LocationFor(e, tx)
			if loc == nil {
				continue
			}
			key := entity.StockKey{ItemID: tx.ItemID, LocationID: *loc}
			levels[key] = e.Apply(levels[key], tx.Quantity)
		}
	}
	return levels
}

// TotalFor suma las cantidades de un ítem en todas las ubicaciones.
func (l Levels) TotalFor(itemID string) int64 {
	var total int64
	for k, q := range l {
		if k.ItemID == itemID {
			total += q
		}
	}
	return total
}

// Drift diferencia entre el stock vivo y el reconstruido para una llave.
type Drift struct {
	Key      entity.StockKey
	Live     int64
	Replayed int64
}

// Diff compara el stock vivo con el reconstruido. Una fila viva en cero sin transacciones no es
// diferencia. El resultado va ordenado por ítem y ubicación.
func Diff(live []entity.StockLevel, replayed Levels) []Drift {
	seen := make(map[entity.StockKey]bool, len(live))
	var out []Drift
	for _, l := range live {
		k := l.Key()
		seen[k] = true
		if r := replayed[k]; r != l.Quantity {
			out = append(out, Drift{Key: k, Live: l.Quantity, Replayed: r})
		}
	}
	for k, r := range replayed {
		if !seen[k] && r != 0 {
			out = append(out, Drift{Key: k, Live: 0, Replayed: r})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.ItemID != out[j].Key.ItemID {
			return out[i].Key.ItemID < out[j].Key.ItemID
		}
		return out[i].Key.LocationID < out[j].Key.LocationID
	})
	return out
}
