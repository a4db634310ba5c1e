package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"
	"time"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/timeutil"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FinancialSummary is the admin dashboard's money overview.
type FinancialSummary struct {
	ActiveOrders     int     `json:"active_orders"`
	PendingOrders    int     `json:"pending_orders"`
	PartialOrders    int     `json:"partial_orders"`
	PaidOrders       int     `json:"paid_orders"`
	TotalBooked      float64 `json:"total_booked"`
	TotalCollected   float64 `json:"total_collected"`
	TotalOutstanding float64 `json:"total_outstanding"`
	CollectedMTD     float64 `json:"collected_mtd"`
	ExpensesMTD      float64 `json:"expenses_mtd"`
}

// OrderReportRow is one order with its payments, used by the CSV export.
type OrderReportRow struct {
	Order    *models.Order
	Payments []*models.Payment
}

type ReportService struct {
	DB          *pgxpool.Pool
	OrderRepo   *repositories.OrderRepository
	PaymentRepo *repositories.PaymentRepository
	ExpenseRepo *repositories.ExpenseRepository
}

func NewReportService(db *pgxpool.Pool, orderRepo *repositories.OrderRepository, paymentRepo *repositories.PaymentRepository, expenseRepo *repositories.ExpenseRepository) *ReportService {
	return &ReportService{
		DB:          db,
		OrderRepo:   orderRepo,
		PaymentRepo: paymentRepo,
		ExpenseRepo: expenseRepo,
	}
}

// GetFinancialSummary aggregates order, payment and expense totals in
// the database rather than in Go; absorbed orders are excluded from
// every figure since the merged order carries their value.
func (s *ReportService) GetFinancialSummary(ctx context.Context) (*FinancialSummary, error) {
	summary := &FinancialSummary{}

	err := s.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE payment_status = 'pending'),
		       COUNT(*) FILTER (WHERE payment_status = 'partial'),
		       COUNT(*) FILTER (WHERE payment_status = 'paid'),
		       COALESCE(SUM(grand_total), 0),
		       COALESCE(SUM(advance_paid), 0),
		       COALESCE(SUM(balance_due), 0)
		FROM orders
		WHERE merge_state <> 'absorbed'
	`).Scan(
		&summary.ActiveOrders,
		&summary.PendingOrders,
		&summary.PartialOrders,
		&summary.PaidOrders,
		&summary.TotalBooked,
		&summary.TotalCollected,
		&summary.TotalOutstanding,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}

	monthStart := timeutil.StartOfMonth(timeutil.Now())

	err = s.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE date >= $1`, monthStart,
	).Scan(&summary.CollectedMTD)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payments: %w", err)
	}

	err = s.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE date >= $1`, monthStart,
	).Scan(&summary.ExpensesMTD)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}

	return summary, nil
}

// GetOrderReportRows fetches every active order with its payments,
// fanning the per-order payment lookups out over a worker pool.
func (s *ReportService) GetOrderReportRows(ctx context.Context) ([]*OrderReportRow, error) {
	orders, err := s.OrderRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	type result struct {
		index int
		row   *OrderReportRow
		err   error
	}

	jobs := make(chan int, len(orders))
	results := make(chan result, len(orders))

	var wg sync.WaitGroup
	numWorkers := 10
	if len(orders) < numWorkers {
		numWorkers = len(orders)
	}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				order := orders[idx]
				payments, err := s.PaymentRepo.ListByOrderIDs(ctx, MergedOrderIDs(order))
				results <- result{index: idx, row: &OrderReportRow{Order: order, Payments: payments}, err: err}
			}
		}()
	}

	for i := range orders {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	rows := make([]*OrderReportRow, len(orders))
	for r := range results {
		if r.err != nil {
			return nil, r.err
		}
		rows[r.index] = r.row
	}
	return rows, nil
}

// ExportArchive builds a zip of orders.csv, payments.csv and
// expenses.csv for offline bookkeeping.
func (s *ReportService) ExportArchive(ctx context.Context) ([]byte, error) {
	rows, err := s.GetOrderReportRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect order rows: %w", err)
	}
	expenses, err := s.ExpenseRepo.List(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := writeCSV(zw, "orders.csv", orderCSVHeader, ordersToCSV(rows)); err != nil {
		return nil, err
	}
	if err := writeCSV(zw, "payments.csv", paymentCSVHeader, paymentsToCSV(rows)); err != nil {
		return nil, err
	}
	if err := writeCSV(zw, "expenses.csv", expenseCSVHeader, expensesToCSV(expenses)); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	orderCSVHeader   = []string{"id", "display_code", "schedule", "event_end", "grand_total", "advance_paid", "balance_due", "payment_status", "credit_due_date", "merge_state"}
	paymentCSVHeader = []string{"id", "order_id", "order_code", "amount", "date", "method", "transaction_ref"}
	expenseCSVHeader = []string{"id", "category", "description", "amount", "date"}
)

func writeCSV(zw *zip.Writer, name string, header []string, records [][]string) error {
	f, err := zw.Create(name)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func ordersToCSV(rows []*OrderReportRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		o := r.Order
		out = append(out, []string{
			strconv.Itoa(o.ID),
			o.DisplayCode,
			string(o.ScheduleType),
			formatDate(o.EventEndDate()),
			formatAmount(o.GrandTotal),
			formatAmount(o.AdvancePaid),
			formatAmount(o.BalanceDue),
			string(o.PaymentStatus),
			formatDate(o.CreditDueDate),
			string(o.MergeState),
		})
	}
	return out
}

func paymentsToCSV(rows []*OrderReportRow) [][]string {
	var out [][]string
	for _, r := range rows {
		for _, p := range r.Payments {
			out = append(out, []string{
				strconv.Itoa(p.ID),
				strconv.Itoa(p.OrderID),
				r.Order.DisplayCode,
				formatAmount(p.Amount),
				timeutil.FormatIST(p.Date, timeutil.DateLayout),
				p.Method,
				p.TransactionRef,
			})
		}
	}
	return out
}

func expensesToCSV(expenses []*models.Expense) [][]string {
	out := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, []string{
			strconv.Itoa(e.ID),
			e.Category,
			e.Description,
			formatAmount(e.Amount),
			timeutil.FormatIST(e.Date, timeutil.DateLayout),
		})
	}
	return out
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timeutil.FormatIST(*t, timeutil.DateLayout)
}
