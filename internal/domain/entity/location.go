package entity

import "time"

// Tipos de ubicación.
const (
	LocationTypeWarehouse = "warehouse" // bodega central
	LocationTypeSite      = "site"      // obra
	LocationTypeYard      = "yard"      // patio de acopio
	LocationTypeVehicle   = "vehicle"   // vehículo de reparto
)

// Location representa un lugar físico donde se almacena material (multi-ubicación).
type Location struct {
	ID        string
	Name      string
	Type      string
	Address   string
	CreatedAt time.Time
}

// IsValidLocationType indica si t es un tipo de ubicación conocido.
func IsValidLocationType(t string) bool {
	switch t {
	case LocationTypeWarehouse, LocationTypeSite, LocationTypeYard, LocationTypeVehicle:
		return true
	}
	return false
}
