package services

import (
	"testing"
	"time"

	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileNoPayments(t *testing.T) {
	order := singleDayOrder(1, "FP001", 10000)

	snap := Reconcile(order, nil)

	assert.Equal(t, 0.0, snap.AdvancePaid)
	assert.Equal(t, 10000.0, snap.BalanceDue)
	assert.Equal(t, models.PaymentStatusPending, snap.PaymentStatus)
	assert.Nil(t, snap.LastPaymentDate)
	require.NotNil(t, snap.CreditDueDate, "outstanding balance must carry a credit due date")
}

func TestReconcilePartialPayments(t *testing.T) {
	order := singleDayOrder(1, "FP001", 10000)
	payments := []*models.Payment{
		{OrderID: 1, Amount: 3000, Date: dateAt(2026, time.March, 1)},
		{OrderID: 1, Amount: 2000, Date: dateAt(2026, time.March, 5)},
	}

	snap := Reconcile(order, payments)

	assert.Equal(t, 5000.0, snap.AdvancePaid)
	assert.Equal(t, 5000.0, snap.BalanceDue)
	assert.Equal(t, models.PaymentStatusPartial, snap.PaymentStatus)
	require.NotNil(t, snap.LastPaymentDate)
	assert.True(t, snap.LastPaymentDate.Equal(dateAt(2026, time.March, 5)))
}

func TestReconcileFullyPaid(t *testing.T) {
	order := singleDayOrder(1, "FP001", 10000)
	payments := []*models.Payment{
		{OrderID: 1, Amount: 10000, Date: dateAt(2026, time.March, 1)},
	}

	snap := Reconcile(order, payments)

	assert.Equal(t, 0.0, snap.BalanceDue)
	assert.Equal(t, models.PaymentStatusPaid, snap.PaymentStatus)
	assert.Nil(t, snap.CreditDueDate, "credit due date must clear once the balance hits zero")
}

func TestReconcileOverpaymentClampsBalance(t *testing.T) {
	order := singleDayOrder(1, "FP001", 10000)
	payments := []*models.Payment{
		{OrderID: 1, Amount: 12000, Date: dateAt(2026, time.March, 1)},
	}

	snap := Reconcile(order, payments)

	assert.Equal(t, 12000.0, snap.AdvancePaid)
	assert.Equal(t, 0.0, snap.BalanceDue)
	assert.Equal(t, models.PaymentStatusPaid, snap.PaymentStatus)
}

func TestReconcileIsIdempotent(t *testing.T) {
	order := singleDayOrder(1, "FP001", 10000)
	payments := []*models.Payment{
		{OrderID: 1, Amount: 4000, Date: dateAt(2026, time.March, 2)},
	}

	first := Reconcile(order, payments)
	ApplySnapshot(order, first)
	second := Reconcile(order, payments)

	assert.Equal(t, first, second)
}

func TestReconcileCreditDueDateFollowsEventEnd(t *testing.T) {
	order := multiDayOrder(1, "FP002", 20000)
	payments := []*models.Payment{
		{OrderID: 1, Amount: 5000, Date: dateAt(2026, time.March, 1)},
	}

	snap := Reconcile(order, payments)

	require.NotNil(t, snap.CreditDueDate)
	want := timeutil.ToIST(*order.EndDate).AddDate(0, 1, 0)
	assert.True(t, snap.CreditDueDate.Equal(want), "credit due date should be event end plus one month")
}

func TestReconcileCountsAbsorbedSourcePayments(t *testing.T) {
	merged := singleDayOrder(1, "FP-M", 15000)
	merged.MergeState = models.MergeStateMerged
	merged.MergedFrom = []models.OrderSnapshot{
		{OrderID: 1, Order: *singleDayOrder(1, "FP001", 10000)},
		{OrderID: 2, Order: *singleDayOrder(2, "FP002", 5000)},
	}

	ids := MergedOrderIDs(merged)
	assert.Equal(t, []int{1, 2}, ids, "own id once, plus each absorbed source id")

	payments := []*models.Payment{
		{OrderID: 1, Amount: 6000, Date: dateAt(2026, time.March, 1)},
		{OrderID: 2, Amount: 4000, Date: dateAt(2026, time.March, 2)},
	}
	snap := Reconcile(merged, payments)

	assert.Equal(t, 10000.0, snap.AdvancePaid)
	assert.Equal(t, 5000.0, snap.BalanceDue)
	assert.Equal(t, models.PaymentStatusPartial, snap.PaymentStatus)
}
