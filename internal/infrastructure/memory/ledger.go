package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.StockLedger                = (*ledgerView)(nil)
	_ repository.StockTransactionRepository = (*txView)(nil)
)

// ledgerView stock con staging: las escrituras van a staged y las lecturas lo consultan primero.
// Con staged nil la vista es de solo lectura.
type ledgerView struct {
	st     *state
	staged map[entity.StockKey]entity.StockLevel
	now    func() time.Time
}

func (v *ledgerView) get(k entity.StockKey) (entity.StockLevel, bool) {
	if l, ok := v.staged[k]; ok {
		return l, true
	}
	l, ok := v.st.levels[k]
	return l, ok
}

func (v *ledgerView) put(itemID, locationID string, quantity int64) int64 {
	k := entity.StockKey{ItemID: itemID, LocationID: locationID}
	v.staged[k] = entity.StockLevel{ItemID: itemID, LocationID: locationID, Quantity: quantity, LastUpdated: v.now().UTC()}
	return quantity
}

func (v *ledgerView) ApplyDelta(_ context.Context, itemID, locationID string, delta int64) (int64, error) {
	cur, _ := v.get(entity.StockKey{ItemID: itemID, LocationID: locationID})
	return v.put(itemID, locationID, cur.Quantity+delta), nil
}

func (v *ledgerView) SetAbsolute(_ context.Context, itemID, locationID string, value int64) (int64, error) {
	return v.put(itemID, locationID, value), nil
}

func (v *ledgerView) GetLevel(_ context.Context, itemID, locationID string) (int64, error) {
	l, _ := v.get(entity.StockKey{ItemID: itemID, LocationID: locationID})
	return l.Quantity, nil
}

func (v *ledgerView) GetTotal(ctx context.Context, itemID string) (int64, error) {
	levels, err := v.ListByItem(ctx, itemID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, l := range levels {
		total += l.Quantity
	}
	return total, nil
}

func (v *ledgerView) ListByItem(_ context.Context, itemID string) ([]entity.StockLevel, error) {
	return v.filter(func(k entity.StockKey) bool { return k.ItemID == itemID }), nil
}

func (v *ledgerView) ListByLocation(_ context.Context, locationID string) ([]entity.StockLevel, error) {
	return v.filter(func(k entity.StockKey) bool { return k.LocationID == locationID }), nil
}

func (v *ledgerView) ListAll(_ context.Context) ([]entity.StockLevel, error) {
	return v.filter(func(entity.StockKey) bool { return true }), nil
}

func (v *ledgerView) filter(keep func(entity.StockKey) bool) []entity.StockLevel {
	merged := make(map[entity.StockKey]entity.StockLevel, len(v.st.levels)+len(v.staged))
	for k, l := range v.st.levels {
		merged[k] = l
	}
	for k, l := range v.staged {
		merged[k] = l
	}
	var out []entity.StockLevel
	for k, l := range merged {
		if keep(k) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out
}

// txView log con staging de filas agregadas.
type txView struct {
	st       *state
	appended []entity.StockTransaction
	seq      int64
}

func (v *txView) Append(_ context.Context, tx *entity.StockTransaction) error {
	v.seq++
	tx.Sequence = v.seq
	v.appended = append(v.appended, *tx)
	return nil
}

func (v *txView) all() []entity.StockTransaction {
	out := make([]entity.StockTransaction, 0, len(v.st.txs)+len(v.appended))
	out = append(out, v.st.txs...)
	return append(out, v.appended...)
}

func (v *txView) GetByID(_ context.Context, id string) (*entity.StockTransaction, error) {
	for _, tx := range v.all() {
		if tx.ID == id {
			tx := tx
			return &tx, nil
		}
	}
	return nil, nil
}

func (v *txView) ListRecent(_ context.Context, itemID string, limit int) ([]entity.StockTransaction, error) {
	all := v.all()
	var out []entity.StockTransaction
	for i := len(all) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if itemID == "" || all[i].ItemID == itemID {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (v *txView) ListAll(_ context.Context) ([]entity.StockTransaction, error) {
	return v.all(), nil
}
