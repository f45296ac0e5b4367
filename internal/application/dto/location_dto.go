package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación. Name obligatorio; Type vacío = warehouse.
type CreateLocationRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Address string `json:"address"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// LocationListResponse lista de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
}

// LocationDetailResponse GET /api/locations/:id: ubicación + stock de cada ítem.
type LocationDetailResponse struct {
	LocationResponse
	Stock []StockLevelResponse `json:"stock"`
}
