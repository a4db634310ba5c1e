package services

import (
	"context"
	"strings"

	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

// notesDivider separates the notes of merged source orders.
const notesDivider = "\n──────────\n"

// MergeService combines orders into one visible order and reverses
// such merges. Sources are marked absorbed, never deleted, and the
// merged order carries full snapshots of every source so unmerge is a
// structural restore.
type MergeService struct {
	orders OrderStore
	locks  *OrderLocks
}

// NewMergeService wires the merge engine onto the shared lock
// registry. The registry must be the same instance the payment and
// order services use, or per-order serialization does not hold across
// operations.
func NewMergeService(orders OrderStore, locks *OrderLocks) *MergeService {
	return &MergeService{
		orders: orders,
		locks:  locks,
	}
}

// Merge combines the given orders (in selection order) into the one
// identified by baseOrderID, under a new display code. The merged
// order reuses the base's id; every other order is re-persisted with
// merge_state=absorbed. The operation is reversible via Unmerge.
//
// Financial fields are NOT recomputed here; the caller re-runs
// reconciliation afterwards if item content changed.
func (s *MergeService) Merge(ctx context.Context, orders []*models.Order, baseOrderID int, newDisplayCode string) (*models.Order, error) {
	const op = "merge"

	if len(orders) < 2 {
		return nil, &ValidationError{Op: op, Reason: "at least two orders are required"}
	}
	if strings.TrimSpace(newDisplayCode) == "" {
		return nil, &ValidationError{Op: op, Reason: "new display code must not be empty"}
	}

	var base *models.Order
	others := make([]*models.Order, 0, len(orders)-1)
	for _, o := range orders {
		if o.ID == baseOrderID {
			base = o
		} else {
			others = append(others, o)
		}
	}
	if base == nil {
		return nil, &NotFoundError{Op: op, Kind: "order", ID: baseOrderID}
	}

	ids := make([]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	unlock := s.locks.LockAll(ids)
	defer unlock()

	merged := base.Clone()
	merged.DisplayCode = newDisplayCode
	merged.MergeState = models.MergeStateMerged
	now := timeutil.Now()
	merged.MergedAt = &now

	// Snapshot every input, the base included. Reusing the base's id
	// for the merged order is what makes the base snapshot necessary:
	// without it the base's pre-merge content would be unrecoverable.
	merged.MergedFrom = make([]models.OrderSnapshot, len(orders))
	for i, o := range orders {
		merged.MergedFrom[i] = models.OrderSnapshot{OrderID: o.ID, Order: *o.Clone()}
	}

	combineContent(merged, base, others)

	absorbed := make([]*models.Order, len(others))
	for i, o := range others {
		a := o.Clone()
		a.MergeState = models.MergeStateAbsorbed
		a.MergedInto = newDisplayCode
		a.MergedAt = &now
		absorbed[i] = a
	}

	if err := s.orders.SaveMerge(ctx, merged, absorbed); err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	return merged, nil
}

// combineContent merges the others' content into the target, switching
// on the base's schedule kind. The asymmetry is deliberate and kept
// from observed production behavior:
//
//   - single-day base: items of single-day others are concatenated in
//     selection order; multi-day others contribute nothing but notes.
//   - multi-day base: others' day entries are matched by date, their
//     functions appended to an existing day or inserted as a new day;
//     single-day others contribute nothing but notes.
func combineContent(target, base *models.Order, others []*models.Order) {
	switch base.ScheduleType {
	case models.ScheduleMultiDay:
		for _, o := range others {
			if o.ScheduleType != models.ScheduleMultiDay {
				continue
			}
			for _, day := range o.Clone().DayWiseData {
				idx := -1
				for i, existing := range target.DayWiseData {
					if existing.Date == day.Date {
						idx = i
						break
					}
				}
				if idx >= 0 {
					target.DayWiseData[idx].Functions = append(target.DayWiseData[idx].Functions, day.Functions...)
				} else {
					target.DayWiseData = append(target.DayWiseData, day)
				}
			}
		}
	default:
		for _, o := range others {
			if o.ScheduleType != models.ScheduleSingleDay {
				continue
			}
			target.Items = append(target.Items, o.Clone().Items...)
		}
	}

	var notes []string
	if strings.TrimSpace(base.Notes) != "" {
		notes = append(notes, base.Notes)
	}
	for _, o := range others {
		if strings.TrimSpace(o.Notes) != "" {
			notes = append(notes, o.Notes)
		}
	}
	target.Notes = strings.Join(notes, notesDivider)
}

// Unmerge restores every source order absorbed into the given merged
// order, each exactly as it was at merge time, financial fields
// included. Merge bookkeeping fields are cleared on the restored
// copies so they do not leak back into standalone orders.
//
// Payments or edits made after the merge against the restored ids are
// not replayed; this is a structural restore, not a recomputation.
func (s *MergeService) Unmerge(ctx context.Context, merged *models.Order) ([]*models.Order, error) {
	const op = "unmerge"

	if merged.MergeState != models.MergeStateMerged || len(merged.MergedFrom) == 0 {
		return nil, &InvalidStateError{Op: op, OrderID: merged.ID, Reason: "order is not the result of a merge"}
	}

	ids := make([]int, 0, len(merged.MergedFrom)+1)
	ids = append(ids, merged.ID)
	for _, snap := range merged.MergedFrom {
		ids = append(ids, snap.OrderID)
	}
	unlock := s.locks.LockAll(ids)
	defer unlock()

	restored := make([]*models.Order, len(merged.MergedFrom))
	for i, snap := range merged.MergedFrom {
		r := snap.Order.Clone()
		r.ID = snap.OrderID
		r.MergeState = models.MergeStateNone
		r.MergedInto = ""
		r.MergedFrom = nil
		r.MergedAt = nil
		restored[i] = r
	}

	if err := s.orders.SaveUnmerge(ctx, restored); err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	return restored, nil
}
