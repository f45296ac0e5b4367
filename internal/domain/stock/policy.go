package stock

import (
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Policy reglas configurables del ledger.
// AllowNegative=true conserva el comportamiento histórico: una salida mayor al stock deja la fila en
// negativo (material despachado pendiente de ingreso).
type Policy struct {
	AllowNegative bool
}

// DefaultPolicy permite stock negativo.
func DefaultPolicy() Policy {
	return Policy{AllowNegative: true}
}

// Check valida la cantidad resultante de un efecto.
func (p Policy) Check(itemID, locationID string, resulting int64) error {
	if resulting < 0 && !p.AllowNegative {
		return fmt.Errorf("%w: ítem %s en ubicación %s quedaría en %d", domain.ErrInsufficientStock, itemID, locationID, resulting)
	}
	return nil
}

// IsLowStock indica stock bajo (límite inclusivo).
func IsLowStock(total, reorderPoint int64) bool {
	return total <= reorderPoint
}
