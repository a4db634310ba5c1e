package models

import "time"

const (
	OnlineTxStatusCreated  = "created"
	OnlineTxStatusCaptured = "captured"
	OnlineTxStatusFailed   = "failed"
)

// OnlineTransaction tracks a Razorpay payment attempt from creation
// through capture. A captured transaction produces a Payment record.
type OnlineTransaction struct {
	ID                int        `json:"id"`
	OrderID           int        `json:"order_id"` // our order, not Razorpay's
	RazorpayOrderID   string     `json:"razorpay_order_id"`
	RazorpayPaymentID string     `json:"razorpay_payment_id,omitempty"`
	Amount            float64    `json:"amount"`
	Fee               float64    `json:"fee"`
	Status            string     `json:"status"` // created, captured, failed
	FailureReason     string     `json:"failure_reason,omitempty"`
	PaymentID         *int       `json:"payment_id,omitempty"` // resulting Payment record
	CreatedAt         time.Time  `json:"created_at"`
	CapturedAt        *time.Time `json:"captured_at,omitempty"`
}

// CreateOnlinePaymentRequest represents the request body for starting
// an online payment against an order's balance.
type CreateOnlinePaymentRequest struct {
	OrderID int     `json:"order_id"`
	Amount  float64 `json:"amount"`
}

// CreateOrderResponse carries everything the checkout page needs to
// open Razorpay. Amounts are in paise.
type CreateOrderResponse struct {
	RazorpayOrderID string  `json:"razorpay_order_id"`
	Amount          int     `json:"amount"`
	FeeAmount       int     `json:"fee_amount"`
	TotalAmount     int     `json:"total_amount"`
	Currency        string  `json:"currency"`
	KeyID           string  `json:"key_id"`
	OrderCode       string  `json:"order_code"`
	FeePercent      float64 `json:"fee_percent"`
}

// VerifyOnlinePaymentRequest carries the checkout callback fields used
// for signature verification.
type VerifyOnlinePaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// PaymentStatusResponse tells the frontend whether online payments are
// available and at what fee.
type PaymentStatusResponse struct {
	Enabled    bool    `json:"enabled"`
	FeePercent float64 `json:"fee_percent"`
	KeyID      string  `json:"key_id"`
}
