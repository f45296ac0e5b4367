// Package stock contiene las reglas puras del ledger de inventario: la tabla de efectos por tipo de
// movimiento, la política de stock negativo, la reproducción (replay) del log y la generación de códigos.
// No depende de persistencia.
package stock

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// EffectKind cómo se modifica la fila de stock.
type EffectKind string

const (
	EffectAdd      EffectKind = "add"      // suma la cantidad
	EffectSubtract EffectKind = "subtract" // resta la cantidad
	EffectSet      EffectKind = "set"      // fija la cantidad (conteo físico)
)

// Effect un lado del movimiento que toca el ledger.
// Side es AdjustSource (FromLocationID) o AdjustDestination (ToLocationID).
type Effect struct {
	Side entity.AdjustStockAt
	Kind EffectKind
}

// declaredEffects tabla de efectos por tipo, antes de aplicar adjustStockAt.
//
//	purchase   origen: -        destino: +q
//	issue      origen: -q       destino: -
//	transfer   origen: -q       destino: +q
//	return     origen: -        destino: +q
//	stocktake  origen: -        destino: SET q
var declaredEffects = map[entity.TransactionType][]Effect{
	entity.TransactionPurchase:  {{Side: entity.AdjustDestination, Kind: EffectAdd}},
	entity.TransactionIssue:     {{Side: entity.AdjustSource, Kind: EffectSubtract}},
	entity.TransactionTransfer:  {{Side: entity.AdjustSource, Kind: EffectSubtract}, {Side: entity.AdjustDestination, Kind: EffectAdd}},
	entity.TransactionReturn:    {{Side: entity.AdjustDestination, Kind: EffectAdd}},
	entity.TransactionStocktake: {{Side: entity.AdjustDestination, Kind: EffectSet}},
}

// Effects devuelve los efectos que el tipo declara y que la directiva habilita.
// Es la única fuente de verdad de la tabla; el procesador y el replay la usan por igual.
func Effects(t entity.TransactionType, adjust entity.AdjustStockAt) []Effect {
	if adjust == "" {
		adjust = entity.AdjustBoth
	}
	declared := declaredEffects[t]
	out := make([]Effect, 0, len(declared))
	for _, e := range declared {
		if adjust.Selects(e.Side) {
			out = append(out, e)
		}
	}
	return out
}

// LocationFor devuelve la ubicación del lado del efecto, o nil si la transacción no la trae.
func LocationFor(e Effect, tx *entity.StockTransaction) *string {
	if e.Side == entity.AdjustSource {
		return tx.FromLocationID
	}
	return tx.ToLocationID
}

// Apply calcula la nueva cantidad a partir de la actual.
func (e Effect) Apply(current, quantity int64) int64 {
	switch e.Kind {
	case EffectAdd:
		return current + quantity
	case EffectSubtract:
		return current - quantity
	case EffectSet:
		return quantity
	}
	return current
}

// Delta devuelve el delta aditivo del efecto; ok=false para EffectSet.
func (e Effect) Delta(quantity int64) (delta int64, ok bool) {
	switch e.Kind {
	case EffectAdd:
		return quantity, true
	case EffectSubtract:
		return -quantity, true
	}
	return 0, false
}
