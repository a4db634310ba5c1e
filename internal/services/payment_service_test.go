package services

import (
	"context"
	"testing"
	"time"

	"rental-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPaymentReconcilesOrder(t *testing.T) {
	store := newFakeOrderStore(singleDayOrder(1, "FP001", 10000))
	payments := newFakePaymentStore()
	svc := NewPaymentService(store, payments, NewOrderLocks())

	order, err := svc.RecordPayment(context.Background(), &models.Payment{
		OrderID: 1, Amount: 3000, Date: dateAt(2026, time.March, 1), Method: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, 3000.0, order.AdvancePaid)
	assert.Equal(t, 7000.0, order.BalanceDue)
	assert.Equal(t, models.PaymentStatusPartial, order.PaymentStatus)

	// The persisted copy matches what the caller got back.
	stored, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 7000.0, stored.BalanceDue)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	svc := NewPaymentService(newFakeOrderStore(), newFakePaymentStore(), NewOrderLocks())

	_, err := svc.RecordPayment(context.Background(), &models.Payment{OrderID: 1, Amount: 0})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRecordPaymentRejectsAbsorbedOrder(t *testing.T) {
	absorbed := singleDayOrder(2, "FP002", 5000)
	absorbed.MergeState = models.MergeStateAbsorbed
	absorbed.MergedInto = "FP-M"

	svc := NewPaymentService(newFakeOrderStore(absorbed), newFakePaymentStore(), NewOrderLocks())

	_, err := svc.RecordPayment(context.Background(), &models.Payment{
		OrderID: 2, Amount: 1000, Date: dateAt(2026, time.March, 1),
	})

	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Contains(t, err.Error(), "FP-M")
}

func TestUpdatePaymentReconcilesOwner(t *testing.T) {
	store := newFakeOrderStore(singleDayOrder(1, "FP001", 10000))
	payments := newFakePaymentStore()
	svc := NewPaymentService(store, payments, NewOrderLocks())

	_, err := svc.RecordPayment(context.Background(), &models.Payment{
		OrderID: 1, Amount: 3000, Date: dateAt(2026, time.March, 1), Method: "cash",
	})
	require.NoError(t, err)

	payment, order, err := svc.UpdatePayment(context.Background(), 1, &models.UpdatePaymentRequest{
		Amount: 8000, Method: "upi",
	})
	require.NoError(t, err)

	assert.Equal(t, 8000.0, payment.Amount)
	assert.Equal(t, "upi", payment.Method)
	assert.Equal(t, 2000.0, order.BalanceDue)
	assert.Equal(t, models.PaymentStatusPartial, order.PaymentStatus)
}

func TestDeletePaymentRevertsToPending(t *testing.T) {
	store := newFakeOrderStore(singleDayOrder(1, "FP001", 10000))
	payments := newFakePaymentStore()
	svc := NewPaymentService(store, payments, NewOrderLocks())

	_, err := svc.RecordPayment(context.Background(), &models.Payment{
		OrderID: 1, Amount: 3000, Date: dateAt(2026, time.March, 1), Method: "cash",
	})
	require.NoError(t, err)

	order, err := svc.DeletePayment(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 0.0, order.AdvancePaid)
	assert.Equal(t, 10000.0, order.BalanceDue)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
}

func TestUpdatePaymentAgainstAbsorbedSourceReconcilesMergedOrder(t *testing.T) {
	a := singleDayOrder(1, "FP001", 10000)
	b := singleDayOrder(2, "FP002", 5000)
	store := newFakeOrderStore(a, b)
	payments := newFakePaymentStore()
	locks := NewOrderLocks()
	paySvc := NewPaymentService(store, payments, locks)
	mergeSvc := NewMergeService(store, locks)

	// Payment lands on order 2 before the merge.
	_, err := paySvc.RecordPayment(context.Background(), &models.Payment{
		OrderID: 2, Amount: 2000, Date: dateAt(2026, time.March, 1), Method: "cash",
	})
	require.NoError(t, err)

	aStored, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	bStored, err := store.Get(context.Background(), 2)
	require.NoError(t, err)

	merged, err := mergeSvc.Merge(context.Background(), []*models.Order{aStored, bStored}, 1, "FP-M")
	require.NoError(t, err)
	merged.GrandTotal = 15000
	require.NoError(t, store.Put(context.Background(), merged))

	// Editing the pre-merge payment must reconcile the merged order,
	// not the absorbed source it still references.
	_, order, err := paySvc.UpdatePayment(context.Background(), 1, &models.UpdatePaymentRequest{Amount: 6000})
	require.NoError(t, err)

	assert.Equal(t, 1, order.ID)
	assert.Equal(t, models.MergeStateMerged, order.MergeState)
	assert.Equal(t, 6000.0, order.AdvancePaid)
	assert.Equal(t, 9000.0, order.BalanceDue)
}

func TestListPaymentsForOrderSpansAbsorbedSources(t *testing.T) {
	a := singleDayOrder(1, "FP001", 10000)
	b := singleDayOrder(2, "FP002", 5000)
	store := newFakeOrderStore(a, b)
	payments := newFakePaymentStore()
	locks := NewOrderLocks()
	paySvc := NewPaymentService(store, payments, locks)
	mergeSvc := NewMergeService(store, locks)

	_, err := paySvc.RecordPayment(context.Background(), &models.Payment{
		OrderID: 1, Amount: 1000, Date: dateAt(2026, time.March, 1), Method: "cash",
	})
	require.NoError(t, err)
	_, err = paySvc.RecordPayment(context.Background(), &models.Payment{
		OrderID: 2, Amount: 2000, Date: dateAt(2026, time.March, 2), Method: "upi",
	})
	require.NoError(t, err)

	aStored, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	bStored, err := store.Get(context.Background(), 2)
	require.NoError(t, err)
	_, err = mergeSvc.Merge(context.Background(), []*models.Order{aStored, bStored}, 1, "FP-M")
	require.NoError(t, err)

	got, err := paySvc.ListPaymentsForOrder(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2, "payments of absorbed sources stay visible on the merged order")
	assert.Equal(t, 1, got[0].OrderID)
	assert.Equal(t, 2, got[1].OrderID)
}

func TestRecordPaymentWaitsForHeldOrderLock(t *testing.T) {
	store := newFakeOrderStore(singleDayOrder(1, "FP001", 10000))
	locks := NewOrderLocks()
	svc := NewPaymentService(store, newFakePaymentStore(), locks)

	// Another operation (a merge, an order edit) holds order 1.
	unlock := locks.Lock(1)

	done := make(chan error, 1)
	go func() {
		_, err := svc.RecordPayment(context.Background(), &models.Payment{
			OrderID: 1, Amount: 3000, Date: dateAt(2026, time.March, 1), Method: "cash",
		})
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("payment mutated order 1 while another operation held its lock")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("payment never completed after the lock was released")
	}
}

func TestReconcileOrderAfterTotalChange(t *testing.T) {
	store := newFakeOrderStore(singleDayOrder(1, "FP001", 10000))
	payments := newFakePaymentStore()
	svc := NewPaymentService(store, payments, NewOrderLocks())

	_, err := svc.RecordPayment(context.Background(), &models.Payment{
		OrderID: 1, Amount: 10000, Date: dateAt(2026, time.March, 1), Method: "bank",
	})
	require.NoError(t, err)

	// Simulate an order edit raising the grand total.
	stored, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	stored.GrandTotal = 12000
	require.NoError(t, store.Put(context.Background(), stored))

	order, err := svc.ReconcileOrder(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2000.0, order.BalanceDue)
	assert.Equal(t, models.PaymentStatusPartial, order.PaymentStatus)
}
