package models

import "time"

// ActionLog records sensitive admin-panel operations: merges,
// unmerges, payment edits and deletes.
type ActionLog struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"` // joined from users table
	Action     string    `json:"action"`              // merge_orders, unmerge_order, edit_payment, delete_payment
	TargetType string    `json:"target_type"`         // order, payment
	TargetID   int       `json:"target_id"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}
