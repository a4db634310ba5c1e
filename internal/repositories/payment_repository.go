package repositories

import (
	"context"

	"rental-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

const paymentColumns = `id, order_id, amount, date, method, transaction_ref, notes,
	recorded_by_user_id, recorded_by_name, created_at, updated_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Date, &p.Method, &p.TransactionRef,
		&p.Notes, &p.RecordedByUserID, &p.RecordedByName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a payment and fills in its generated id and timestamps.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO payments(order_id, amount, date, method, transaction_ref, notes,
		        recorded_by_user_id, recorded_by_name)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		p.OrderID, p.Amount, p.Date, p.Method, p.TransactionRef, p.Notes,
		p.RecordedByUserID, p.RecordedByName,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Get retrieves a payment by id.
func (r *PaymentRepository) Get(ctx context.Context, id int) (*models.Payment, error) {
	return scanPayment(r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
}

// Update overwrites the mutable payment fields.
func (r *PaymentRepository) Update(ctx context.Context, p *models.Payment) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE payments SET amount = $2, date = $3, method = $4, transaction_ref = $5,
		        notes = $6, updated_at = NOW()
		 WHERE id = $1`,
		p.ID, p.Amount, p.Date, p.Method, p.TransactionRef, p.Notes)
	return err
}

// Delete removes a payment row.
func (r *PaymentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return err
}

// ListByOrderIDs returns every payment referencing any of the given
// order ids, oldest first. Payments keep their original order id across
// merges, so callers pass the merged order's id plus its absorbed ids.
func (r *PaymentRepository) ListByOrderIDs(ctx context.Context, orderIDs []int) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE order_id = ANY($1)
		 ORDER BY date ASC, id ASC`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
