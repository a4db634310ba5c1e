package repositories

import (
	"context"

	"rental-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OnlineTransactionRepository struct {
	DB *pgxpool.Pool
}

func NewOnlineTransactionRepository(db *pgxpool.Pool) *OnlineTransactionRepository {
	return &OnlineTransactionRepository{DB: db}
}

func scanOnlineTransaction(row pgx.Row) (*models.OnlineTransaction, error) {
	var t models.OnlineTransaction
	err := row.Scan(&t.ID, &t.OrderID, &t.RazorpayOrderID, &t.RazorpayPaymentID,
		&t.Amount, &t.Fee, &t.Status, &t.FailureReason, &t.PaymentID, &t.CreatedAt, &t.CapturedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create stores a new transaction in the created state
func (r *OnlineTransactionRepository) Create(ctx context.Context, t *models.OnlineTransaction) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO online_transactions(order_id, razorpay_order_id, amount, fee, status)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		t.OrderID, t.RazorpayOrderID, t.Amount, t.Fee, t.Status,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetByRazorpayOrderID retrieves a transaction by Razorpay order id
func (r *OnlineTransactionRepository) GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*models.OnlineTransaction, error) {
	return scanOnlineTransaction(r.DB.QueryRow(ctx,
		`SELECT id, order_id, razorpay_order_id, razorpay_payment_id, amount, fee, status,
		        failure_reason, payment_id, created_at, captured_at
		 FROM online_transactions WHERE razorpay_order_id = $1`, razorpayOrderID))
}

// MarkCaptured marks a transaction captured. Only transactions still in
// the created state transition, so duplicate webhooks are harmless.
func (r *OnlineTransactionRepository) MarkCaptured(ctx context.Context, razorpayOrderID, razorpayPaymentID string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE online_transactions
		 SET status = 'captured', razorpay_payment_id = $2, captured_at = NOW()
		 WHERE razorpay_order_id = $1 AND status = 'created'`,
		razorpayOrderID, razorpayPaymentID)
	return err
}

// MarkFailed marks a transaction failed with a reason
func (r *OnlineTransactionRepository) MarkFailed(ctx context.Context, razorpayOrderID, reason string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE online_transactions SET status = 'failed', failure_reason = $2
		 WHERE razorpay_order_id = $1 AND status = 'created'`,
		razorpayOrderID, reason)
	return err
}

// LinkPayment records the Payment row created for a captured transaction
func (r *OnlineTransactionRepository) LinkPayment(ctx context.Context, razorpayOrderID string, paymentID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE online_transactions SET payment_id = $2 WHERE razorpay_order_id = $1`,
		razorpayOrderID, paymentID)
	return err
}

// ListByOrder returns a booking's online payment attempts, newest first
func (r *OnlineTransactionRepository) ListByOrder(ctx context.Context, orderID int) ([]*models.OnlineTransaction, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, order_id, razorpay_order_id, razorpay_payment_id, amount, fee, status,
		        failure_reason, payment_id, created_at, captured_at
		 FROM online_transactions WHERE order_id = $1 ORDER BY created_at DESC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*models.OnlineTransaction
	for rows.Next() {
		t, err := scanOnlineTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
