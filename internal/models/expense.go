package models

import "time"

// Expense is a bookkeeping record for money going out: labour,
// transport, purchases, repairs.
type Expense struct {
	ID               int       `json:"id"`
	Category         string    `json:"category"` // labour, transport, purchase, repair, other
	Description      string    `json:"description"`
	Amount           float64   `json:"amount"`
	Date             time.Time `json:"date"`
	RecordedByUserID int       `json:"recorded_by_user_id"`
	RecordedByName   string    `json:"recorded_by_name,omitempty"` // joined from users table
	CreatedAt        time.Time `json:"created_at"`
}

// CreateExpenseRequest represents the request body for recording an expense
type CreateExpenseRequest struct {
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Date        *time.Time `json:"date"`
}

// ExpenseSummary aggregates expenses per category for a period.
type ExpenseSummary struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}
