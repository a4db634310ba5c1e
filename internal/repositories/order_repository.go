package repositories

import (
	"context"
	"fmt"

	"rental-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `id, display_code, customer_id, schedule_type, event_date, start_date, end_date,
	items, day_wise_data, grand_total, advance_paid, balance_due, payment_status,
	last_payment_date, credit_due_date, notes, merge_state, merged_into, merged_from,
	merged_at, created_at, updated_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.DisplayCode, &o.CustomerID, &o.ScheduleType, &o.EventDate,
		&o.StartDate, &o.EndDate, &o.Items, &o.DayWiseData, &o.GrandTotal, &o.AdvancePaid,
		&o.BalanceDue, &o.PaymentStatus, &o.LastPaymentDate, &o.CreditDueDate, &o.Notes,
		&o.MergeState, &o.MergedInto, &o.MergedFrom, &o.MergedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a new order and fills in its generated id and timestamps.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO orders(display_code, customer_id, schedule_type, event_date, start_date,
		        end_date, items, day_wise_data, grand_total, advance_paid, balance_due,
		        payment_status, last_payment_date, credit_due_date, notes, merge_state,
		        merged_into, merged_from, merged_at)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING id, created_at, updated_at`,
		o.DisplayCode, o.CustomerID, o.ScheduleType, o.EventDate, o.StartDate, o.EndDate,
		o.Items, o.DayWiseData, o.GrandTotal, o.AdvancePaid, o.BalanceDue, o.PaymentStatus,
		o.LastPaymentDate, o.CreditDueDate, o.Notes, o.MergeState, o.MergedInto,
		o.MergedFrom, o.MergedAt,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

// Get retrieves an order by id.
func (r *OrderRepository) Get(ctx context.Context, id int) (*models.Order, error) {
	return scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

// GetByDisplayCode retrieves an order by its human-assigned code.
func (r *OrderRepository) GetByDisplayCode(ctx context.Context, code string) (*models.Order, error) {
	return scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE display_code = $1`, code))
}

// Put overwrites the full order row.
func (r *OrderRepository) Put(ctx context.Context, o *models.Order) error {
	_, err := r.DB.Exec(ctx, updateOrderSQL, updateOrderArgs(o)...)
	return err
}

const updateOrderSQL = `UPDATE orders SET
	display_code = $2, customer_id = $3, schedule_type = $4, event_date = $5,
	start_date = $6, end_date = $7, items = $8, day_wise_data = $9, grand_total = $10,
	advance_paid = $11, balance_due = $12, payment_status = $13, last_payment_date = $14,
	credit_due_date = $15, notes = $16, merge_state = $17, merged_into = $18,
	merged_from = $19, merged_at = $20, updated_at = NOW()
 WHERE id = $1`

func updateOrderArgs(o *models.Order) []interface{} {
	return []interface{}{
		o.ID, o.DisplayCode, o.CustomerID, o.ScheduleType, o.EventDate, o.StartDate,
		o.EndDate, o.Items, o.DayWiseData, o.GrandTotal, o.AdvancePaid, o.BalanceDue,
		o.PaymentStatus, o.LastPaymentDate, o.CreditDueDate, o.Notes, o.MergeState,
		o.MergedInto, o.MergedFrom, o.MergedAt,
	}
}

// ListActive returns every order still visible in listings, newest
// first. Absorbed orders are hidden; their merged order represents them.
func (r *OrderRepository) ListActive(ctx context.Context) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE merge_state <> 'absorbed'
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListByMergeState returns orders in the given merge state.
func (r *OrderRepository) ListByMergeState(ctx context.Context, state models.MergeState) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE merge_state = $1
		 ORDER BY merged_at DESC NULLS LAST, created_at DESC`, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListByCustomer returns a customer's visible orders.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE customer_id = $1 AND merge_state <> 'absorbed'
		 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// SaveMerge writes the merged order and its absorbed sources in one
// transaction so a crash can never leave a half-merged state.
func (r *OrderRepository) SaveMerge(ctx context.Context, merged *models.Order, absorbed []*models.Order) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, updateOrderSQL, updateOrderArgs(merged)...); err != nil {
		return fmt.Errorf("failed to save merged order %d: %w", merged.ID, err)
	}
	for _, o := range absorbed {
		if _, err := tx.Exec(ctx, updateOrderSQL, updateOrderArgs(o)...); err != nil {
			return fmt.Errorf("failed to mark order %d absorbed: %w", o.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// SaveUnmerge restores every snapshot to its original row in one
// transaction.
func (r *OrderRepository) SaveUnmerge(ctx context.Context, restored []*models.Order) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, o := range restored {
		if _, err := tx.Exec(ctx, updateOrderSQL, updateOrderArgs(o)...); err != nil {
			return fmt.Errorf("failed to restore order %d: %w", o.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// UpdateFinancials writes a reconciliation result in a single UPDATE so
// readers never see status and balance from different reconciliations.
func (r *OrderRepository) UpdateFinancials(ctx context.Context, orderID int, snap models.FinancialSnapshot) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE orders SET advance_paid = $2, balance_due = $3, payment_status = $4,
		        last_payment_date = $5, credit_due_date = $6, updated_at = NOW()
		 WHERE id = $1`,
		orderID, snap.AdvancePaid, snap.BalanceDue, snap.PaymentStatus,
		snap.LastPaymentDate, snap.CreditDueDate)
	return err
}

// FindAbsorbing returns the merged order whose snapshots include the
// given source order id. JSONB containment keeps this a single indexed
// lookup.
func (r *OrderRepository) FindAbsorbing(ctx context.Context, sourceOrderID int) (*models.Order, error) {
	return scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE merge_state = 'merged'
		   AND merged_from @> jsonb_build_array(jsonb_build_object('order_id', $1::int))
		 LIMIT 1`, sourceOrderID))
}

// Delete removes an order row.
func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return err
}
