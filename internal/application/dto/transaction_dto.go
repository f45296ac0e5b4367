package dto

import "time"

// CreateTransactionRequest body para POST /api/transactions.
// performed_by no viaja en el body: se toma del token.
type CreateTransactionRequest struct {
	ItemID         string `json:"item_id"`
	Quantity       int64  `json:"quantity"`
	Type           string `json:"type"` // purchase, issue, transfer, return, stocktake
	FromLocationID string `json:"from_location_id,omitempty"`
	ToLocationID   string `json:"to_location_id,omitempty"`
	AdjustStockAt  string `json:"adjust_stock_at,omitempty"` // source, destination, both (default)
	Reference      string `json:"reference,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// TransactionResponse salida de una transacción del log.
type TransactionResponse struct {
	ID              string    `json:"id"`
	Sequence        int64     `json:"sequence"`
	ItemID          string    `json:"item_id"`
	Quantity        int64     `json:"quantity"`
	Type            string    `json:"type"`
	FromLocationID  *string   `json:"from_location_id"`
	ToLocationID    *string   `json:"to_location_id"`
	PerformedBy     string    `json:"performed_by"`
	TransactionDate time.Time `json:"transaction_date"`
	AdjustStockAt   string    `json:"adjust_stock_at"`
	Reference       string    `json:"reference,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// TransactionListResponse lista de transacciones.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
}
