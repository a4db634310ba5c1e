package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCloneIsDeep(t *testing.T) {
	event := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	customerID := 7
	original := &Order{
		ID:           1,
		DisplayCode:  "FP001",
		CustomerID:   &customerID,
		ScheduleType: ScheduleSingleDay,
		EventDate:    &event,
		Items:        []OrderItem{{Name: "Stage Deck", Quantity: 4, Price: 1500}},
		DayWiseData: []OrderDay{
			{Date: "2026-03-14", Functions: []OrderFunction{
				{Name: "Reception", Items: []OrderItem{{Name: "LED Wall", Quantity: 1, Price: 5000}}},
			}},
		},
		GrandTotal: 11000,
		Notes:      "handle with care",
		MergedFrom: []OrderSnapshot{
			{OrderID: 2, Order: Order{ID: 2, DisplayCode: "FP002", Items: []OrderItem{{Name: "Sofa", Quantity: 2, Price: 800}}}},
		},
	}

	clone := original.Clone()

	require.Equal(t, original, clone)

	clone.Items[0].Name = "mutated"
	clone.DayWiseData[0].Functions[0].Items[0].Price = 1
	clone.MergedFrom[0].Order.Items[0].Quantity = 99
	*clone.CustomerID = 42
	*clone.EventDate = clone.EventDate.AddDate(1, 0, 0)

	assert.Equal(t, "Stage Deck", original.Items[0].Name)
	assert.Equal(t, 5000.0, original.DayWiseData[0].Functions[0].Items[0].Price)
	assert.Equal(t, 2, original.MergedFrom[0].Order.Items[0].Quantity)
	assert.Equal(t, 7, *original.CustomerID)
	assert.True(t, original.EventDate.Equal(event))
}

func TestOrderClonePreservesNilFields(t *testing.T) {
	original := &Order{ID: 1, ScheduleType: ScheduleSingleDay}

	clone := original.Clone()

	assert.Nil(t, clone.CustomerID)
	assert.Nil(t, clone.Items)
	assert.Nil(t, clone.DayWiseData)
	assert.Nil(t, clone.MergedFrom)
	assert.Nil(t, clone.MergedAt)
}

func TestEventEndDate(t *testing.T) {
	event := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC)

	single := &Order{ScheduleType: ScheduleSingleDay, EventDate: &event}
	assert.Equal(t, &event, single.EventEndDate())

	multi := &Order{ScheduleType: ScheduleMultiDay, StartDate: &start, EndDate: &end}
	assert.Equal(t, &end, multi.EventEndDate())

	openEnded := &Order{ScheduleType: ScheduleMultiDay, StartDate: &start}
	assert.Equal(t, &start, openEnded.EventEndDate(), "missing end date falls back to the start date")

	unscheduled := &Order{ScheduleType: ScheduleSingleDay}
	assert.Nil(t, unscheduled.EventEndDate())
}
