package services

import (
	"context"
	"fmt"
	"testing"

	"rental-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeRequiresAtLeastTwoOrders(t *testing.T) {
	svc := NewMergeService(newFakeOrderStore(), NewOrderLocks())

	_, err := svc.Merge(context.Background(), []*models.Order{singleDayOrder(1, "FP001", 1000)}, 1, "FP-M")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestMergeRequiresDisplayCode(t *testing.T) {
	svc := NewMergeService(newFakeOrderStore(), NewOrderLocks())
	orders := []*models.Order{singleDayOrder(1, "FP001", 1000), singleDayOrder(2, "FP002", 2000)}

	_, err := svc.Merge(context.Background(), orders, 1, "   ")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestMergeRequiresBaseInSelection(t *testing.T) {
	svc := NewMergeService(newFakeOrderStore(), NewOrderLocks())
	orders := []*models.Order{singleDayOrder(1, "FP001", 1000), singleDayOrder(2, "FP002", 2000)}

	_, err := svc.Merge(context.Background(), orders, 99, "FP-M")

	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestMergeSingleDayConcatenatesItems(t *testing.T) {
	a := singleDayOrder(1, "FP001", 10000)
	a.Items = []models.OrderItem{{Name: "Stage Deck", Quantity: 4, Price: 1500}}
	b := singleDayOrder(2, "FP002", 5000)
	b.Items = []models.OrderItem{{Name: "LED Wall", Quantity: 1, Price: 5000}}

	store := newFakeOrderStore(a, b)
	svc := NewMergeService(store, NewOrderLocks())

	merged, err := svc.Merge(context.Background(), []*models.Order{a, b}, 1, "FP-M")
	require.NoError(t, err)

	assert.Equal(t, 1, merged.ID, "merged order reuses the base's id")
	assert.Equal(t, "FP-M", merged.DisplayCode)
	assert.Equal(t, models.MergeStateMerged, merged.MergeState)
	require.NotNil(t, merged.MergedAt)

	require.Len(t, merged.Items, 2, "items concatenated in selection order")
	assert.Equal(t, "Stage Deck", merged.Items[0].Name)
	assert.Equal(t, "LED Wall", merged.Items[1].Name)

	// Base snapshot included: the merged order overwrote the base row.
	require.Len(t, merged.MergedFrom, 2)
	assert.Equal(t, 1, merged.MergedFrom[0].OrderID)
	assert.Equal(t, "FP001", merged.MergedFrom[0].Order.DisplayCode)
	assert.Equal(t, 2, merged.MergedFrom[1].OrderID)

	absorbed, err := store.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.MergeStateAbsorbed, absorbed.MergeState)
	assert.Equal(t, "FP-M", absorbed.MergedInto)
}

func TestMergeMultiDayMatchesDaysByDate(t *testing.T) {
	a := multiDayOrder(1, "FP001", 20000,
		models.OrderDay{Date: "2026-03-14", Functions: []models.OrderFunction{{Name: "Haldi"}}},
		models.OrderDay{Date: "2026-03-15", Functions: []models.OrderFunction{{Name: "Sangeet"}}},
	)
	b := multiDayOrder(2, "FP002", 8000,
		models.OrderDay{Date: "2026-03-15", Functions: []models.OrderFunction{{Name: "Reception"}}},
		models.OrderDay{Date: "2026-03-16", Functions: []models.OrderFunction{{Name: "Vidai"}}},
	)

	store := newFakeOrderStore(a, b)
	svc := NewMergeService(store, NewOrderLocks())

	merged, err := svc.Merge(context.Background(), []*models.Order{a, b}, 1, "FP-M")
	require.NoError(t, err)

	require.Len(t, merged.DayWiseData, 3)
	assert.Equal(t, "2026-03-14", merged.DayWiseData[0].Date)

	// Shared date: functions appended to the existing day.
	require.Len(t, merged.DayWiseData[1].Functions, 2)
	assert.Equal(t, "Sangeet", merged.DayWiseData[1].Functions[0].Name)
	assert.Equal(t, "Reception", merged.DayWiseData[1].Functions[1].Name)

	// New date: inserted as its own day.
	assert.Equal(t, "2026-03-16", merged.DayWiseData[2].Date)
}

func TestMergeMixedSchedulesContributeOnlyNotes(t *testing.T) {
	a := singleDayOrder(1, "FP001", 10000)
	a.Notes = "base notes"
	b := multiDayOrder(2, "FP002", 8000,
		models.OrderDay{Date: "2026-03-15", Functions: []models.OrderFunction{{Name: "Reception"}}},
	)
	b.Notes = "multi notes"

	store := newFakeOrderStore(a, b)
	svc := NewMergeService(store, NewOrderLocks())

	merged, err := svc.Merge(context.Background(), []*models.Order{a, b}, 1, "FP-M")
	require.NoError(t, err)

	// Multi-day other against a single-day base adds no items.
	assert.Len(t, merged.Items, len(a.Items))
	assert.Equal(t, "base notes"+notesDivider+"multi notes", merged.Notes)
}

func TestUnmergeRestoresExactSnapshots(t *testing.T) {
	a := singleDayOrder(1, "FP001", 10000)
	a.Notes = "original a"
	b := singleDayOrder(2, "FP002", 5000)
	b.Notes = "original b"

	store := newFakeOrderStore(a, b)
	svc := NewMergeService(store, NewOrderLocks())

	merged, err := svc.Merge(context.Background(), []*models.Order{a, b}, 1, "FP-M")
	require.NoError(t, err)

	restored, err := svc.Unmerge(context.Background(), merged)
	require.NoError(t, err)
	require.Len(t, restored, 2)

	first, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "FP001", first.DisplayCode)
	assert.Equal(t, "original a", first.Notes)
	assert.Equal(t, models.MergeStateNone, first.MergeState)
	assert.Empty(t, first.MergedInto)
	assert.Nil(t, first.MergedFrom)
	assert.Nil(t, first.MergedAt)

	second, err := store.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "FP002", second.DisplayCode)
	assert.Equal(t, 5000.0, second.GrandTotal)
	assert.Equal(t, models.MergeStateNone, second.MergeState)
}

func TestMergeUnmergeRoundTripsAcrossSelectionOrders(t *testing.T) {
	build := func() []*models.Order {
		a := singleDayOrder(1, "FP001", 10000)
		a.Items = []models.OrderItem{{Name: "Stage Deck", Quantity: 4, Price: 1500}}
		a.Notes = "deliver by 10am"
		b := singleDayOrder(2, "FP002", 5000)
		b.Items = []models.OrderItem{{Name: "LED Wall", Quantity: 1, Price: 5000}}
		b.Notes = "crew of two"
		c := singleDayOrder(3, "FP003", 7500)
		c.Items = []models.OrderItem{{Name: "Sound Rig", Quantity: 2, Price: 3750}}
		c.Notes = ""
		return []*models.Order{a, b, c}
	}

	// Base mid-selection in several of these, never just first.
	selections := [][]int{
		{1, 2, 3}, {1, 3, 2},
		{2, 1, 3}, {2, 3, 1},
		{3, 1, 2}, {3, 2, 1},
	}
	const baseID = 2

	for _, sel := range selections {
		t.Run(fmt.Sprintf("selection_%v", sel), func(t *testing.T) {
			orders := build()
			store := newFakeOrderStore(orders...)
			svc := NewMergeService(store, NewOrderLocks())

			// Pre-merge state, via the store so we hold clones.
			before := make(map[int]*models.Order)
			for _, o := range orders {
				stored, err := store.Get(context.Background(), o.ID)
				require.NoError(t, err)
				before[o.ID] = stored
			}

			byID := make(map[int]*models.Order)
			for _, o := range orders {
				byID[o.ID] = o
			}
			selection := make([]*models.Order, len(sel))
			for i, id := range sel {
				selection[i] = byID[id]
			}

			merged, err := svc.Merge(context.Background(), selection, baseID, "FP-M")
			require.NoError(t, err)

			restored, err := svc.Unmerge(context.Background(), merged)
			require.NoError(t, err)
			require.Len(t, restored, len(orders))

			for id, want := range before {
				got, err := store.Get(context.Background(), id)
				require.NoError(t, err)
				assert.Equal(t, want, got, "order %d after round trip", id)
			}
		})
	}
}

func TestUnmergeRejectsNonMergedOrder(t *testing.T) {
	svc := NewMergeService(newFakeOrderStore(), NewOrderLocks())

	_, err := svc.Unmerge(context.Background(), singleDayOrder(1, "FP001", 1000))

	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestMergeSnapshotsShareNoMemoryWithInputs(t *testing.T) {
	a := singleDayOrder(1, "FP001", 10000)
	b := singleDayOrder(2, "FP002", 5000)

	store := newFakeOrderStore(a, b)
	svc := NewMergeService(store, NewOrderLocks())

	merged, err := svc.Merge(context.Background(), []*models.Order{a, b}, 1, "FP-M")
	require.NoError(t, err)

	// Mutating the inputs after the merge must not corrupt the snapshots.
	a.Items[0].Name = "mutated"
	b.DisplayCode = "mutated"

	assert.Equal(t, "Stage Deck", merged.MergedFrom[0].Order.Items[0].Name)
	assert.Equal(t, "FP002", merged.MergedFrom[1].Order.DisplayCode)
}
