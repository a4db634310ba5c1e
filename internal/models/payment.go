package models

import "time"

// Payment is one money-received record against an order. Payments are
// append-only by default; edits and deletes are explicit operations
// that re-trigger reconciliation of the owning order. After a merge,
// payments keep referencing their pre-merge order id.
type Payment struct {
	ID               int       `json:"id"`
	OrderID          int       `json:"order_id"`
	Amount           float64   `json:"amount"`
	Date             time.Time `json:"date"`
	Method           string    `json:"method"` // cash, upi, bank, online
	TransactionRef   string    `json:"transaction_ref,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	RecordedByUserID int       `json:"recorded_by_user_id"`
	RecordedByName   string    `json:"recorded_by_name,omitempty"` // joined from users table
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreatePaymentRequest represents the request body for recording a payment
type CreatePaymentRequest struct {
	OrderID        int        `json:"order_id"`
	Amount         float64    `json:"amount"`
	Date           *time.Time `json:"date"` // defaults to now when omitted
	Method         string     `json:"method"`
	TransactionRef string     `json:"transaction_ref"`
	Notes          string     `json:"notes"`
}

// UpdatePaymentRequest represents the request body for correcting a payment
type UpdatePaymentRequest struct {
	Amount         float64    `json:"amount"`
	Date           *time.Time `json:"date"`
	Method         string     `json:"method"`
	TransactionRef string     `json:"transaction_ref"`
	Notes          string     `json:"notes"`
}
