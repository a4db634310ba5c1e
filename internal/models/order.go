package models

import "time"

// ScheduleType discriminates single-day orders from multi-day ones.
// Single-day orders keep their items directly on the order; multi-day
// orders keep items inside DayWiseData, grouped per function per day.
type ScheduleType string

const (
	ScheduleSingleDay ScheduleType = "single"
	ScheduleMultiDay  ScheduleType = "multi"
)

// MergeState tracks whether an order is standalone, has been absorbed
// into another order, or is the visible result of a merge.
type MergeState string

const (
	MergeStateNone     MergeState = ""
	MergeStateAbsorbed MergeState = "absorbed"
	MergeStateMerged   MergeState = "merged"
)

// PaymentStatus is the derived settlement state of an order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// OrderItem is a single rental line: equipment name, quantity and the
// agreed per-booking price.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Remarks  string  `json:"remarks,omitempty"`
}

// OrderFunction is one function (ceremony, reception, etc.) inside a
// multi-day order's day.
type OrderFunction struct {
	Name  string      `json:"name"`
	Venue string      `json:"venue,omitempty"`
	Time  string      `json:"time,omitempty"`
	Items []OrderItem `json:"items"`
}

// OrderDay groups the functions booked for one calendar date of a
// multi-day order. Date uses the YYYY-MM-DD layout so day matching
// during merges is a plain string comparison.
type OrderDay struct {
	Date      string          `json:"date"`
	Functions []OrderFunction `json:"functions"`
}

// OrderSnapshot is a full copy of a source order taken at merge time,
// tagged with the id it must be restored to. Snapshots are immutable
// once written and are the sole means of reversing a merge.
type OrderSnapshot struct {
	OrderID int   `json:"order_id"`
	Order   Order `json:"order"`
}

// Order is a customer booking with schedule, rental items and derived
// financial state.
type Order struct {
	ID          int    `json:"id"`
	DisplayCode string `json:"display_code"` // human-assigned, e.g. "FP001"; empty until finalized
	CustomerID  *int   `json:"customer_id"`

	ScheduleType ScheduleType `json:"schedule_type"`
	EventDate    *time.Time   `json:"event_date"` // single-day only
	StartDate    *time.Time   `json:"start_date"` // multi-day only
	EndDate      *time.Time   `json:"end_date"`   // multi-day only
	Items        []OrderItem  `json:"items"`      // single-day only
	DayWiseData  []OrderDay   `json:"day_wise_data"`

	GrandTotal      float64       `json:"grand_total"`
	AdvancePaid     float64       `json:"advance_paid"`
	BalanceDue      float64       `json:"balance_due"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	LastPaymentDate *time.Time    `json:"last_payment_date"`
	CreditDueDate   *time.Time    `json:"credit_due_date"`

	Notes string `json:"notes"`

	MergeState MergeState      `json:"merge_state"`
	MergedInto string          `json:"merged_into,omitempty"` // display code of the merged order
	MergedFrom []OrderSnapshot `json:"merged_from,omitempty"`
	MergedAt   *time.Time      `json:"merged_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventEndDate returns the last day of the event: the end date for
// multi-day orders (start date if the end is missing), the event date
// for single-day ones. Nil when the order has no schedule yet.
func (o *Order) EventEndDate() *time.Time {
	switch o.ScheduleType {
	case ScheduleMultiDay:
		if o.EndDate != nil {
			return o.EndDate
		}
		return o.StartDate
	default:
		return o.EventDate
	}
}

// Clone returns a deep copy of the order. Merge snapshots depend on
// clones sharing no memory with the original, so every slice and
// pointer field is copied, merged_from recursively.
func (o *Order) Clone() *Order {
	c := *o
	c.CustomerID = cloneIntPtr(o.CustomerID)
	c.EventDate = cloneTimePtr(o.EventDate)
	c.StartDate = cloneTimePtr(o.StartDate)
	c.EndDate = cloneTimePtr(o.EndDate)
	c.LastPaymentDate = cloneTimePtr(o.LastPaymentDate)
	c.CreditDueDate = cloneTimePtr(o.CreditDueDate)
	c.MergedAt = cloneTimePtr(o.MergedAt)

	if o.Items != nil {
		c.Items = make([]OrderItem, len(o.Items))
		copy(c.Items, o.Items)
	}

	if o.DayWiseData != nil {
		c.DayWiseData = make([]OrderDay, len(o.DayWiseData))
		for i, day := range o.DayWiseData {
			c.DayWiseData[i] = day
			if day.Functions != nil {
				fns := make([]OrderFunction, len(day.Functions))
				for j, fn := range day.Functions {
					fns[j] = fn
					if fn.Items != nil {
						items := make([]OrderItem, len(fn.Items))
						copy(items, fn.Items)
						fns[j].Items = items
					}
				}
				c.DayWiseData[i].Functions = fns
			}
		}
	}

	if o.MergedFrom != nil {
		c.MergedFrom = make([]OrderSnapshot, len(o.MergedFrom))
		for i, snap := range o.MergedFrom {
			c.MergedFrom[i] = OrderSnapshot{
				OrderID: snap.OrderID,
				Order:   *snap.Order.Clone(),
			}
		}
	}

	return &c
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneIntPtr(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

// FinancialSnapshot holds the derived financial fields the reconciler
// computes. The caller persists all fields together so a reader never
// sees a paid status next to a stale balance.
type FinancialSnapshot struct {
	AdvancePaid     float64       `json:"advance_paid"`
	BalanceDue      float64       `json:"balance_due"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	LastPaymentDate *time.Time    `json:"last_payment_date"`
	CreditDueDate   *time.Time    `json:"credit_due_date"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	DisplayCode  string       `json:"display_code"`
	CustomerID   *int         `json:"customer_id"`
	ScheduleType ScheduleType `json:"schedule_type"`
	EventDate    *time.Time   `json:"event_date"`
	StartDate    *time.Time   `json:"start_date"`
	EndDate      *time.Time   `json:"end_date"`
	Items        []OrderItem  `json:"items"`
	DayWiseData  []OrderDay   `json:"day_wise_data"`
	GrandTotal   float64      `json:"grand_total"`
	Notes        string       `json:"notes"`
}

// MergeOrdersRequest represents the request body for merging orders
type MergeOrdersRequest struct {
	OrderIDs       []int  `json:"order_ids"` // in selection order
	BaseOrderID    int    `json:"base_order_id"`
	NewDisplayCode string `json:"new_display_code"`
}
