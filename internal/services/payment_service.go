package services

import (
	"context"

	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

// PaymentService records, corrects and deletes payments, and keeps the
// owning order's derived financial fields consistent by reconciling
// after every mutation. After a merge the totals span payments of all
// absorbed source ids, since payments are never relinked.
type PaymentService struct {
	orders   OrderStore
	payments PaymentStore
	locks    *OrderLocks
}

// NewPaymentService wires payment mutations onto the shared lock
// registry so they serialize against merges and order edits on the
// same order id.
func NewPaymentService(orders OrderStore, payments PaymentStore, locks *OrderLocks) *PaymentService {
	return &PaymentService{
		orders:   orders,
		payments: payments,
		locks:    locks,
	}
}

// RecordPayment creates a payment and reconciles the owning order.
// The returned order reflects the persisted financial state.
func (s *PaymentService) RecordPayment(ctx context.Context, payment *models.Payment) (*models.Order, error) {
	const op = "record payment"

	if payment.Amount <= 0 {
		return nil, &ValidationError{Op: op, Reason: "amount must be positive"}
	}
	if payment.Date.IsZero() {
		payment.Date = timeutil.Now()
	}

	order, err := s.orders.Get(ctx, payment.OrderID)
	if err != nil {
		return nil, &NotFoundError{Op: op, Kind: "order", ID: payment.OrderID}
	}
	if order.MergeState == models.MergeStateAbsorbed {
		return nil, &InvalidStateError{Op: op, OrderID: order.ID,
			Reason: "order was absorbed into " + order.MergedInto + "; record the payment against the merged order"}
	}

	unlock := s.locks.Lock(order.ID)
	defer unlock()

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	return s.reconcileLocked(ctx, op, order)
}

// UpdatePayment corrects an existing payment record and reconciles the
// order whose totals it counts toward.
func (s *PaymentService) UpdatePayment(ctx context.Context, paymentID int, req *models.UpdatePaymentRequest) (*models.Payment, *models.Order, error) {
	const op = "update payment"

	if req.Amount <= 0 {
		return nil, nil, &ValidationError{Op: op, Reason: "amount must be positive"}
	}

	payment, err := s.payments.Get(ctx, paymentID)
	if err != nil {
		return nil, nil, &NotFoundError{Op: op, Kind: "payment", ID: paymentID}
	}

	order, err := s.ownerOf(ctx, op, payment.OrderID)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.locks.Lock(order.ID)
	defer unlock()

	payment.Amount = req.Amount
	if req.Date != nil {
		payment.Date = *req.Date
	}
	if req.Method != "" {
		payment.Method = req.Method
	}
	payment.TransactionRef = req.TransactionRef
	payment.Notes = req.Notes

	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, nil, &PersistenceError{Op: op, Err: err}
	}

	order, err = s.reconcileLocked(ctx, op, order)
	if err != nil {
		return nil, nil, err
	}
	return payment, order, nil
}

// DeletePayment removes a payment (a reversal) and reconciles the
// order whose totals it counted toward.
func (s *PaymentService) DeletePayment(ctx context.Context, paymentID int) (*models.Order, error) {
	const op = "delete payment"

	payment, err := s.payments.Get(ctx, paymentID)
	if err != nil {
		return nil, &NotFoundError{Op: op, Kind: "payment", ID: paymentID}
	}

	order, err := s.ownerOf(ctx, op, payment.OrderID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(order.ID)
	defer unlock()

	if err := s.payments.Delete(ctx, paymentID); err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	return s.reconcileLocked(ctx, op, order)
}

// ListPaymentsForOrder returns every payment counting toward an order,
// spanning absorbed source ids for merged orders.
func (s *PaymentService) ListPaymentsForOrder(ctx context.Context, orderID int) ([]*models.Payment, error) {
	const op = "list payments"

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, &NotFoundError{Op: op, Kind: "order", ID: orderID}
	}

	payments, err := s.payments.ListByOrderIDs(ctx, MergedOrderIDs(order))
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}
	return payments, nil
}

// ReconcileOrder re-runs reconciliation for an order outside a payment
// mutation, e.g. after a merge changed item content or an order edit
// changed the grand total.
func (s *PaymentService) ReconcileOrder(ctx context.Context, orderID int) (*models.Order, error) {
	const op = "reconcile order"

	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, &NotFoundError{Op: op, Kind: "order", ID: orderID}
	}

	unlock := s.locks.Lock(order.ID)
	defer unlock()

	return s.reconcileLocked(ctx, op, order)
}

// ownerOf resolves the order whose totals a payment counts toward.
// A payment referencing an absorbed source belongs to the merged
// order that absorbed it, so the absorption pointer is followed.
func (s *PaymentService) ownerOf(ctx context.Context, op string, orderID int) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, &NotFoundError{Op: op, Kind: "order", ID: orderID}
	}
	if order.MergeState == models.MergeStateAbsorbed {
		merged, err := s.orders.FindAbsorbing(ctx, order.ID)
		if err != nil {
			return nil, &PersistenceError{Op: op, Err: err}
		}
		return merged, nil
	}
	return order, nil
}

// reconcileLocked recomputes and persists the order's financials. The
// caller must hold the order's lock. The in-memory order is updated
// only after the write succeeds.
func (s *PaymentService) reconcileLocked(ctx context.Context, op string, order *models.Order) (*models.Order, error) {
	payments, err := s.payments.ListByOrderIDs(ctx, MergedOrderIDs(order))
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	snap := Reconcile(order, payments)
	if err := s.orders.UpdateFinancials(ctx, order.ID, snap); err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	ApplySnapshot(order, snap)
	return order, nil
}
