package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"rental-backend/internal/models"
)

// fakeOrderStore is an in-memory OrderStore. It clones on the way in
// and out so tests observe only what was explicitly persisted.
type fakeOrderStore struct {
	orders map[int]*models.Order
}

func newFakeOrderStore(orders ...*models.Order) *fakeOrderStore {
	s := &fakeOrderStore{orders: make(map[int]*models.Order)}
	for _, o := range orders {
		s.orders[o.ID] = o.Clone()
	}
	return s
}

func (s *fakeOrderStore) Get(ctx context.Context, id int) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d not found", id)
	}
	return o.Clone(), nil
}

func (s *fakeOrderStore) Put(ctx context.Context, order *models.Order) error {
	s.orders[order.ID] = order.Clone()
	return nil
}

func (s *fakeOrderStore) SaveMerge(ctx context.Context, merged *models.Order, absorbed []*models.Order) error {
	s.orders[merged.ID] = merged.Clone()
	for _, o := range absorbed {
		s.orders[o.ID] = o.Clone()
	}
	return nil
}

func (s *fakeOrderStore) SaveUnmerge(ctx context.Context, restored []*models.Order) error {
	for _, o := range restored {
		s.orders[o.ID] = o.Clone()
	}
	return nil
}

func (s *fakeOrderStore) UpdateFinancials(ctx context.Context, orderID int, snap models.FinancialSnapshot) error {
	o, ok := s.orders[orderID]
	if !ok {
		return fmt.Errorf("order %d not found", orderID)
	}
	ApplySnapshot(o, snap)
	return nil
}

func (s *fakeOrderStore) FindAbsorbing(ctx context.Context, sourceOrderID int) (*models.Order, error) {
	for _, o := range s.orders {
		if o.MergeState != models.MergeStateMerged {
			continue
		}
		for _, snap := range o.MergedFrom {
			if snap.OrderID == sourceOrderID {
				return o.Clone(), nil
			}
		}
	}
	return nil, fmt.Errorf("no merged order absorbs %d", sourceOrderID)
}

// fakePaymentStore is an in-memory PaymentStore.
type fakePaymentStore struct {
	payments map[int]*models.Payment
	nextID   int
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: make(map[int]*models.Payment), nextID: 1}
}

func (s *fakePaymentStore) Get(ctx context.Context, id int) (*models.Payment, error) {
	p, ok := s.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %d not found", id)
	}
	cp := *p
	return &cp, nil
}

func (s *fakePaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = s.nextID
	s.nextID++
	cp := *payment
	s.payments[payment.ID] = &cp
	return nil
}

func (s *fakePaymentStore) Update(ctx context.Context, payment *models.Payment) error {
	if _, ok := s.payments[payment.ID]; !ok {
		return fmt.Errorf("payment %d not found", payment.ID)
	}
	cp := *payment
	s.payments[payment.ID] = &cp
	return nil
}

func (s *fakePaymentStore) Delete(ctx context.Context, id int) error {
	if _, ok := s.payments[id]; !ok {
		return fmt.Errorf("payment %d not found", id)
	}
	delete(s.payments, id)
	return nil
}

func (s *fakePaymentStore) ListByOrderIDs(ctx context.Context, orderIDs []int) ([]*models.Payment, error) {
	wanted := make(map[int]bool, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = true
	}

	var out []*models.Payment
	for _, p := range s.payments {
		if wanted[p.OrderID] {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func dateAt(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func singleDayOrder(id int, code string, total float64) *models.Order {
	event := dateAt(2026, time.March, 14)
	return &models.Order{
		ID:           id,
		DisplayCode:  code,
		ScheduleType: models.ScheduleSingleDay,
		EventDate:    &event,
		Items: []models.OrderItem{
			{Name: "Stage Deck", Quantity: 4, Price: 1500},
		},
		GrandTotal:    total,
		BalanceDue:    total,
		PaymentStatus: models.PaymentStatusPending,
	}
}

func multiDayOrder(id int, code string, total float64, days ...models.OrderDay) *models.Order {
	start := dateAt(2026, time.March, 14)
	end := dateAt(2026, time.March, 16)
	return &models.Order{
		ID:            id,
		DisplayCode:   code,
		ScheduleType:  models.ScheduleMultiDay,
		StartDate:     &start,
		EndDate:       &end,
		DayWiseData:   days,
		GrandTotal:    total,
		BalanceDue:    total,
		PaymentStatus: models.PaymentStatusPending,
	}
}
