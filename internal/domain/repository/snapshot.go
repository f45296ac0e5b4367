package repository

import "context"

// Snapshot lectores atados a una misma vista consistente del store.
// Todo lo que se lea a través de un Snapshot corresponde al mismo instante.
type Snapshot struct {
	Items        ItemReader
	Locations    LocationReader
	Ledger       StockLedgerReader
	Transactions StockTransactionReader
}

// SnapshotRunner abre una vista de solo lectura, ejecuta fn y la libera.
type SnapshotRunner interface {
	Read(ctx context.Context, fn func(s Snapshot) error) error
}
