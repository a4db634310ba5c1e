package services

import (
	"context"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
)

// OrderService covers the order form lifecycle: create, read, update,
// delete, plus the active/merged listing filters. Merge transitions
// live in MergeService; financial recomputation in PaymentService.
type OrderService struct {
	Repo  *repositories.OrderRepository
	locks *OrderLocks
}

// NewOrderService wires order edits onto the shared lock registry so
// an edit cannot interleave with a merge or reconcile of the same id.
func NewOrderService(repo *repositories.OrderRepository, locks *OrderLocks) *OrderService {
	return &OrderService{Repo: repo, locks: locks}
}

func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	const op = "create order"

	switch req.ScheduleType {
	case models.ScheduleSingleDay:
		if req.EventDate == nil {
			return nil, &ValidationError{Op: op, Reason: "single-day order requires an event date"}
		}
	case models.ScheduleMultiDay:
		if req.StartDate == nil || req.EndDate == nil {
			return nil, &ValidationError{Op: op, Reason: "multi-day order requires start and end dates"}
		}
		if req.EndDate.Before(*req.StartDate) {
			return nil, &ValidationError{Op: op, Reason: "end date must not precede start date"}
		}
	default:
		return nil, &ValidationError{Op: op, Reason: "schedule type must be single or multi"}
	}
	if req.GrandTotal < 0 {
		return nil, &ValidationError{Op: op, Reason: "grand total must not be negative"}
	}

	order := &models.Order{
		DisplayCode:   req.DisplayCode,
		CustomerID:    req.CustomerID,
		ScheduleType:  req.ScheduleType,
		EventDate:     req.EventDate,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Items:         req.Items,
		DayWiseData:   req.DayWiseData,
		GrandTotal:    req.GrandTotal,
		BalanceDue:    req.GrandTotal,
		PaymentStatus: models.PaymentStatusPending,
		Notes:         req.Notes,
		MergeState:    models.MergeStateNone,
	}

	if err := s.Repo.Create(ctx, order); err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	order, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, &NotFoundError{Op: "get order", Kind: "order", ID: id}
	}
	return order, nil
}

// ListActiveOrders returns every order visible in the panel: absorbed
// sources are excluded, merged targets represent their sources.
func (s *OrderService) ListActiveOrders(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.Repo.ListActive(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list orders", Err: err}
	}
	return orders, nil
}

// ListMergedOrders returns merge targets together with their absorbed
// sources, for the merge-history view.
func (s *OrderService) ListMergedOrders(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.Repo.ListByMergeState(ctx, models.MergeStateMerged)
	if err != nil {
		return nil, &PersistenceError{Op: "list merged orders", Err: err}
	}
	return orders, nil
}

// UpdateOrder overwrites an order's form content. It reports whether
// the grand total changed so the caller can re-run reconciliation —
// unrelated edits must not trigger it.
func (s *OrderService) UpdateOrder(ctx context.Context, id int, req *models.CreateOrderRequest) (*models.Order, bool, error) {
	const op = "update order"

	unlock := s.locks.Lock(id)
	defer unlock()

	order, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, false, &NotFoundError{Op: op, Kind: "order", ID: id}
	}
	if order.MergeState == models.MergeStateAbsorbed {
		return nil, false, &InvalidStateError{Op: op, OrderID: id, Reason: "absorbed orders cannot be edited"}
	}

	totalChanged := order.GrandTotal != req.GrandTotal

	order.DisplayCode = req.DisplayCode
	order.CustomerID = req.CustomerID
	order.ScheduleType = req.ScheduleType
	order.EventDate = req.EventDate
	order.StartDate = req.StartDate
	order.EndDate = req.EndDate
	order.Items = req.Items
	order.DayWiseData = req.DayWiseData
	order.GrandTotal = req.GrandTotal
	order.Notes = req.Notes

	if err := s.Repo.Put(ctx, order); err != nil {
		return nil, false, &PersistenceError{Op: op, Err: err}
	}
	return order, totalChanged, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int) error {
	const op = "delete order"

	unlock := s.locks.Lock(id)
	defer unlock()

	order, err := s.Repo.Get(ctx, id)
	if err != nil {
		return &NotFoundError{Op: op, Kind: "order", ID: id}
	}
	if order.MergeState == models.MergeStateMerged {
		return &InvalidStateError{Op: op, OrderID: id, Reason: "unmerge before deleting a merged order"}
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}
