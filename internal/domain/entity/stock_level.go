package entity

import "time"

// StockKey identifica una fila de stock (ítem, ubicación).
type StockKey struct {
	ItemID     string
	LocationID string
}

// StockLevel representa la cantidad actual de un ítem en una ubicación (tabla materializada).
// Derivado del log de transacciones; la cantidad puede ser negativa si la política lo permite.
type StockLevel struct {
	ItemID      string
	LocationID  string
	Quantity    int64
	LastUpdated time.Time
}

// Key devuelve la llave compuesta de la fila.
func (s StockLevel) Key() StockKey {
	return StockKey{ItemID: s.ItemID, LocationID: s.LocationID}
}
