package services

import "fmt"

// ValidationError reports bad caller input: too few orders to merge, a
// missing display code, a non-positive payment amount.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// NotFoundError reports a referenced order or payment id absent from
// the store or from the caller-supplied input set.
type NotFoundError struct {
	Op   string
	Kind string // "order" or "payment"
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %d not found", e.Op, e.Kind, e.ID)
}

// InvalidStateError reports an operation attempted on an order in the
// wrong merge state, e.g. unmerging an order that was never merged.
type InvalidStateError struct {
	Op      string
	OrderID int
	Reason  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: order %d: %s", e.Op, e.OrderID, e.Reason)
}

// PersistenceError wraps a failed store read or write. It is always
// surfaced to the caller, never silently retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
