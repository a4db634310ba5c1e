package services

import (
	"context"

	"rental-backend/internal/models"
)

// OrderStore is the minimal order persistence surface the merge engine
// and reconciler need. *repositories.OrderRepository implements it
// against Postgres; tests use an in-memory fake.
type OrderStore interface {
	Get(ctx context.Context, id int) (*models.Order, error)
	Put(ctx context.Context, order *models.Order) error

	// SaveMerge persists the merged target and marks the absorbed
	// sources in one transaction.
	SaveMerge(ctx context.Context, merged *models.Order, absorbed []*models.Order) error

	// SaveUnmerge restores the given snapshots to their original ids
	// in one transaction.
	SaveUnmerge(ctx context.Context, restored []*models.Order) error

	// UpdateFinancials writes a reconciliation result onto an order as
	// a single atomic update.
	UpdateFinancials(ctx context.Context, orderID int, snap models.FinancialSnapshot) error

	// FindAbsorbing returns the merged order whose merged_from
	// snapshots include the given source order id, or an error when no
	// such order exists.
	FindAbsorbing(ctx context.Context, sourceOrderID int) (*models.Order, error)
}

// PaymentStore is the payment persistence surface used by the payment
// service and the reconciler's callers.
type PaymentStore interface {
	Get(ctx context.Context, id int) (*models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id int) error

	// ListByOrderIDs returns every payment referencing any of the given
	// order ids. After a merge this is called with the merged order's id
	// plus all absorbed source ids, because payments are never relinked.
	ListByOrderIDs(ctx context.Context, orderIDs []int) ([]*models.Payment, error)
}
