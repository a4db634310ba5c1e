package repositories

import (
	"context"
	"time"

	"rental-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ExpenseRepository struct {
	DB *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{DB: db}
}

// Create records an expense
func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO expenses(category, description, amount, date, recorded_by_user_id)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.Category, e.Description, e.Amount, e.Date, e.RecordedByUserID,
	).Scan(&e.ID, &e.CreatedAt)
}

// List returns expenses, optionally bounded by date, newest first
func (r *ExpenseRepository) List(ctx context.Context, from, to *time.Time) ([]*models.Expense, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT e.id, e.category, e.description, e.amount, e.date, e.recorded_by_user_id,
		        COALESCE(u.name, '') as recorded_by_name, e.created_at
		 FROM expenses e
		 LEFT JOIN users u ON e.recorded_by_user_id = u.id
		 WHERE ($1::timestamptz IS NULL OR e.date >= $1)
		   AND ($2::timestamptz IS NULL OR e.date < $2)
		 ORDER BY e.date DESC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		var e models.Expense
		err := rows.Scan(&e.ID, &e.Category, &e.Description, &e.Amount, &e.Date,
			&e.RecordedByUserID, &e.RecordedByName, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, &e)
	}
	return expenses, rows.Err()
}

// SummaryByCategory aggregates expenses per category within [start, end)
func (r *ExpenseRepository) SummaryByCategory(ctx context.Context, start, end time.Time) ([]*models.ExpenseSummary, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT category, COALESCE(SUM(amount), 0), COUNT(*)
		 FROM expenses
		 WHERE date >= $1 AND date < $2
		 GROUP BY category
		 ORDER BY 2 DESC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*models.ExpenseSummary
	for rows.Next() {
		var s models.ExpenseSummary
		if err := rows.Scan(&s.Category, &s.Total, &s.Count); err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	return err
}
