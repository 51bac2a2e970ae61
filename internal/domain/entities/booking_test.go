package entities

import (
	"errors"
	"testing"
	"time"

	"clean_cloak/internal/domain/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func confirmedBooking(t *testing.T) Booking {
	t.Helper()
	b := NewBooking("bk-1", "client-1", "0712345678", ServiceCategoryHomeCleaning, PaymentMethodMpesa, 5000, now)
	require.NoError(t, b.Confirm("cleaner-1", now))
	return b
}

func paidBooking(t *testing.T) Booking {
	t.Helper()
	b := confirmedBooking(t)
	split, err := pricing.DefaultPolicy().Split(b.Price)
	require.NoError(t, err)
	require.NoError(t, b.ReceivePayment(split, "ext-1", now))
	return b
}

func TestNewBooking(t *testing.T) {
	b := NewBooking("bk-1", "client-1", " 0712345678 ", ServiceCategoryCarDetailing, PaymentMethodMpesa, 1500, now)
	assert.Equal(t, BookingStatusPending, b.Status)
	assert.Equal(t, PaymentStatusPending, b.PaymentStatus)
	assert.Equal(t, PayoutStatusPending, b.PayoutStatus)
	assert.Equal(t, "0712345678", b.ClientPhone)
	assert.False(t, b.Paid())
	assert.Equal(t, "JOB_bk-1", b.Reference())
}

func TestBooking_OperationalLifecycle(t *testing.T) {
	t.Run("confirm requires provider", func(t *testing.T) {
		b := NewBooking("bk-1", "client-1", "", ServiceCategoryHomeCleaning, PaymentMethodMpesa, 100, now)
		assert.ErrorIs(t, b.Confirm(" ", now), ErrInvalidTransition)
		require.NoError(t, b.Confirm("cleaner-1", now))
		assert.Equal(t, "cleaner-1", b.ProviderID)
		assert.ErrorIs(t, b.Confirm("cleaner-2", now), ErrInvalidTransition)
	})

	t.Run("start and complete", func(t *testing.T) {
		b := confirmedBooking(t)
		require.NoError(t, b.Start(now))
		assert.Equal(t, BookingStatusInProgress, b.Status)
		require.NoError(t, b.Complete(now, time.Hour))
		assert.Equal(t, BookingStatusCompleted, b.Status)
		assert.Equal(t, now, b.CompletedAt)
		assert.Equal(t, now.Add(time.Hour), b.PaymentDeadline)
		assert.ErrorIs(t, b.Complete(now, time.Hour), ErrInvalidTransition)
	})

	t.Run("cancel", func(t *testing.T) {
		b := confirmedBooking(t)
		require.NoError(t, b.Cancel(now))
		assert.Equal(t, BookingStatusCancelled, b.Status)

		paid := paidBooking(t)
		assert.ErrorIs(t, paid.Cancel(now), ErrAlreadyPaid)
	})
}

func TestBooking_CheckPayable(t *testing.T) {
	pending := NewBooking("bk-1", "client-1", "", ServiceCategoryHomeCleaning, PaymentMethodMpesa, 100, now)
	assert.ErrorIs(t, pending.CheckPayable(), ErrInvalidTransition)

	assert.NoError(t, confirmedBooking(t).CheckPayable())

	failed := confirmedBooking(t)
	failed.PaymentStatus = PaymentStatusFailed
	assert.NoError(t, failed.CheckPayable())

	completed := confirmedBooking(t)
	require.NoError(t, completed.Complete(now, 0))
	assert.ErrorIs(t, completed.CheckPayable(), ErrInvalidTransition)

	assert.ErrorIs(t, paidBooking(t).CheckPayable(), ErrAlreadyPaid)
}

func TestBooking_ReceivePayment(t *testing.T) {
	b := paidBooking(t)
	assert.True(t, b.Paid())
	assert.Equal(t, PaymentStatusPaid, b.PaymentStatus)
	assert.Equal(t, now, b.PaidAt)
	assert.Equal(t, "ext-1", b.TransactionID)
	assert.Equal(t, int64(5000), b.TotalPrice)
	assert.Equal(t, int64(2000), b.PlatformFee)
	assert.Equal(t, int64(3000), b.ProviderPayout)

	before := b
	err := b.ReceivePayment(pricing.Split{TotalPrice: 1}, "ext-2", now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Equal(t, before, b, "second payment must not change the booking")
}

func TestBooking_PaymentDeadline(t *testing.T) {
	t.Run("default window", func(t *testing.T) {
		b := confirmedBooking(t)
		require.NoError(t, b.Complete(now, 0))
		assert.Equal(t, now.Add(DefaultPaymentWindow), b.PaymentDeadline)
		assert.Equal(t, 2*time.Hour, DefaultPaymentWindow)
	})

	t.Run("paid before completion has no deadline", func(t *testing.T) {
		b := paidBooking(t)
		require.NoError(t, b.Complete(now, time.Hour))
		assert.True(t, b.PaymentDeadline.IsZero())
		_, ok := b.PaymentTimeRemaining(now)
		assert.False(t, ok)
		assert.False(t, b.PaymentOverdue(now.Add(24*time.Hour)))
	})

	t.Run("time remaining and overdue", func(t *testing.T) {
		b := confirmedBooking(t)
		_, ok := b.PaymentTimeRemaining(now)
		assert.False(t, ok, "no deadline before completion")

		require.NoError(t, b.Complete(now, 2*time.Hour))

		remaining, ok := b.PaymentTimeRemaining(now.Add(30 * time.Minute))
		assert.True(t, ok)
		assert.Equal(t, 90*time.Minute, remaining)
		assert.False(t, b.PaymentOverdue(now.Add(30*time.Minute)))

		remaining, _ = b.PaymentTimeRemaining(now.Add(2 * time.Hour))
		assert.Equal(t, time.Duration(0), remaining)
		assert.True(t, b.PaymentOverdue(now.Add(2*time.Hour)))

		remaining, _ = b.PaymentTimeRemaining(now.Add(5 * time.Hour))
		assert.Equal(t, time.Duration(0), remaining, "never negative")
		assert.True(t, b.PaymentOverdue(now.Add(5*time.Hour)))
	})

	t.Run("payment inside the window is on time", func(t *testing.T) {
		b := confirmedBooking(t)
		require.NoError(t, b.Complete(now, 2*time.Hour))
		require.NoError(t, b.ReceivePayment(pricing.Split{TotalPrice: 5000, PlatformFee: 2000, ProviderPayout: 3000}, "ext-1", now.Add(2*time.Hour)))
		assert.False(t, b.PaymentLate)
		assert.False(t, b.PaymentOverdue(now.Add(3*time.Hour)), "paid bookings are never overdue")
	})

	t.Run("payment after the deadline is late", func(t *testing.T) {
		b := confirmedBooking(t)
		require.NoError(t, b.Complete(now, 2*time.Hour))
		require.NoError(t, b.ReceivePayment(pricing.Split{TotalPrice: 5000, PlatformFee: 2000, ProviderPayout: 3000}, "ext-1", now.Add(2*time.Hour+time.Second)))
		assert.True(t, b.PaymentLate)
		assert.True(t, b.Paid())
	})
}

func TestBooking_Disbursement(t *testing.T) {
	t.Run("not paid", func(t *testing.T) {
		b := confirmedBooking(t)
		assert.ErrorIs(t, b.BeginDisbursement(now), ErrNotPaid)
		assert.ErrorIs(t, b.CompleteDisbursement(now), ErrNotPaid)
		assert.ErrorIs(t, b.FailDisbursement(now), ErrNotPaid)
	})

	t.Run("success", func(t *testing.T) {
		b := paidBooking(t)
		require.NoError(t, b.BeginDisbursement(now))
		require.NoError(t, b.CompleteDisbursement(now))
		assert.Equal(t, PayoutStatusProcessed, b.PayoutStatus)
		assert.Equal(t, now, b.PayoutProcessedAt)
		assert.ErrorIs(t, b.BeginDisbursement(now), ErrInvalidTransition)
		assert.ErrorIs(t, b.FailDisbursement(now), ErrInvalidTransition)
	})

	t.Run("failure then manual resolution", func(t *testing.T) {
		b := paidBooking(t)
		require.NoError(t, b.FailDisbursement(now))
		assert.Equal(t, PayoutStatusFailed, b.PayoutStatus)
		require.NoError(t, b.ResolveDisbursement(now))
		assert.Equal(t, PayoutStatusProcessed, b.PayoutStatus)
		assert.ErrorIs(t, b.ResolveDisbursement(now), ErrInvalidTransition)
	})
}

func TestBooking_Refund(t *testing.T) {
	b := confirmedBooking(t)
	err := b.Refund(now)
	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "refund", te.Transition)

	b = paidBooking(t)
	require.NoError(t, b.Refund(now))
	assert.Equal(t, PaymentStatusRefunded, b.PaymentStatus)
	assert.False(t, b.Paid())
	assert.ErrorIs(t, b.ReceivePayment(pricing.Split{}, "ext", now), ErrInvalidTransition)
}

func TestBookingIDFromReference(t *testing.T) {
	assert.Equal(t, "bk-1", BookingIDFromReference("JOB_bk-1"))
	assert.Equal(t, "bk-1", BookingIDFromReference(" bk-1 "))
	assert.Equal(t, "", BookingIDFromReference(""))
}
