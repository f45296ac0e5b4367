package entity

import (
	"fmt"
	"time"
)

// TransactionType tipo de movimiento de inventario.
type TransactionType string

// Tipos de movimiento.
const (
	TransactionPurchase  TransactionType = "purchase"  // compra: entra a destino
	TransactionIssue     TransactionType = "issue"     // salida a obra: sale de origen
	TransactionTransfer  TransactionType = "transfer"  // traslado entre ubicaciones
	TransactionReturn    TransactionType = "return"    // devolución: entra a destino
	TransactionStocktake TransactionType = "stocktake" // conteo físico: fija el destino
)

// ParseTransactionType valida el texto recibido.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TransactionPurchase, TransactionIssue, TransactionTransfer, TransactionReturn, TransactionStocktake:
		return t, nil
	}
	return "", fmt.Errorf("tipo de transacción desconocido %q", s)
}

// AdjustStockAt selecciona qué lado(s) del movimiento modifican stock.
type AdjustStockAt string

const (
	AdjustSource      AdjustStockAt = "source"
	AdjustDestination AdjustStockAt = "destination"
	AdjustBoth        AdjustStockAt = "both"
)

// ParseAdjustStockAt valida la directiva; vacío equivale a both.
func ParseAdjustStockAt(s string) (AdjustStockAt, error) {
	switch a := AdjustStockAt(s); a {
	case "":
		return AdjustBoth, nil
	case AdjustSource, AdjustDestination, AdjustBoth:
		return a, nil
	}
	return "", fmt.Errorf("adjust_stock_at desconocido %q", s)
}

// Selects indica si la directiva habilita el lado indicado.
func (a AdjustStockAt) Selects(side AdjustStockAt) bool {
	return a == AdjustBoth || a == side
}

// StockTransaction registro inmutable de un movimiento. Es la unidad de verdad del ledger:
// StockLevel se puede reconstruir reproduciendo estas filas en orden de Sequence.
type StockTransaction struct {
	ID              string
	Sequence        int64 // orden de commit, asignado por el store
	ItemID          string
	Quantity        int64 // siempre > 0; el signo lo da el tipo
	Type            TransactionType
	FromLocationID  *string
	ToLocationID    *string
	PerformedBy     string
	TransactionDate time.Time
	AdjustStockAt   AdjustStockAt
	Reference       string // remisión, orden de compra, acta de conteo
	Notes           string
}
