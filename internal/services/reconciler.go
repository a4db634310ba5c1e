package services

import (
	"time"

	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

// Reconcile recomputes an order's derived financial fields from the
// authoritative payment set. It is a pure function of the order's
// grand total, its schedule and the payments: calling it twice with
// the same inputs yields identical output.
//
// The payments slice must already be filtered to those owned by the
// order — directly, or via any absorbed source id (see MergedOrderIDs).
func Reconcile(order *models.Order, payments []*models.Payment) models.FinancialSnapshot {
	var advancePaid float64
	var lastPaymentDate *time.Time

	for _, p := range payments {
		advancePaid += p.Amount
		if lastPaymentDate == nil || p.Date.After(*lastPaymentDate) {
			d := p.Date
			lastPaymentDate = &d
		}
	}

	balanceDue := order.GrandTotal - advancePaid
	if balanceDue < 0 {
		balanceDue = 0
	}

	var status models.PaymentStatus
	switch {
	case advancePaid == 0:
		status = models.PaymentStatusPending
	case balanceDue == 0:
		status = models.PaymentStatusPaid
	default:
		status = models.PaymentStatusPartial
	}

	// Credit due date exists only while money is outstanding: event end
	// date plus one calendar month. Cleared, not left stale, at zero.
	var creditDueDate *time.Time
	if balanceDue > 0 {
		if end := order.EventEndDate(); end != nil {
			due := timeutil.ToIST(*end).AddDate(0, 1, 0)
			creditDueDate = &due
		}
	}

	return models.FinancialSnapshot{
		AdvancePaid:     advancePaid,
		BalanceDue:      balanceDue,
		PaymentStatus:   status,
		LastPaymentDate: lastPaymentDate,
		CreditDueDate:   creditDueDate,
	}
}

// MergedOrderIDs returns the ids whose payments count toward the given
// order: its own id plus the original id of every absorbed source.
// Payments are never relinked after a merge, so totals must consult
// all of them.
func MergedOrderIDs(order *models.Order) []int {
	ids := []int{order.ID}
	for _, snap := range order.MergedFrom {
		if snap.OrderID != order.ID {
			ids = append(ids, snap.OrderID)
		}
	}
	return ids
}

// ApplySnapshot copies a reconciliation result onto an order. Callers
// persist the snapshot first and only then update their in-memory
// copy, so a failed write never leaves the UI showing a balance that
// was never durably saved.
func ApplySnapshot(order *models.Order, snap models.FinancialSnapshot) {
	order.AdvancePaid = snap.AdvancePaid
	order.BalanceDue = snap.BalanceDue
	order.PaymentStatus = snap.PaymentStatus
	order.LastPaymentDate = snap.LastPaymentDate
	order.CreditDueDate = snap.CreditDueDate
}
