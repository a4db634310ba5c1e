package models

import "time"

// Equipment is a catalog entry for a rentable item. Quantity owned is
// informational; per-event stock movement is not tracked here.
type Equipment struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"` // furniture, tent, lighting, sound, decor
	RentalPrice float64   `json:"rental_price"`
	QtyOwned    int       `json:"qty_owned"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateEquipmentRequest represents the request body for adding equipment
type CreateEquipmentRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	RentalPrice float64 `json:"rental_price"`
	QtyOwned    int     `json:"qty_owned"`
	Notes       string  `json:"notes"`
}

// UpdateEquipmentRequest represents the request body for updating equipment
type UpdateEquipmentRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	RentalPrice float64 `json:"rental_price"`
	QtyOwned    int     `json:"qty_owned"`
	Notes       string  `json:"notes"`
}
