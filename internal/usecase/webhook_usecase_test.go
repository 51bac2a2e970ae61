package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/domain/pricing"
	mock_interfaces "clean_cloak/internal/usecase/interfaces/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type settlementHarness struct {
	bookings    *memBookings
	journal     *memJournal
	profiles    *memProfiles
	transferrer *stubTransferrer
	alerter     *recordingAlerter
	webhook     *WebhookUseCase
}

func newSettlementHarness(challenge string, bs ...entities.Booking) *settlementHarness {
	h := &settlementHarness{
		bookings:    newMemBookings(bs...),
		journal:     newMemJournal(),
		profiles:    newMemProfiles(cleanerProfile()),
		transferrer: &stubTransferrer{result: entities.TransferSucceeded("tr-1", map[string]any{"status": "Preview and approve"})},
		alerter:     &recordingAlerter{},
	}
	payouts := NewPayoutUseCase(h.bookings, h.journal, h.profiles, h.transferrer, h.alerter, PayoutSettings{}, nil)
	payouts.now = fixedClock
	h.webhook = NewWebhookUseCase(h.bookings, h.journal, payouts, nil, pricing.DefaultPolicy(), WebhookSettings{Challenge: challenge}, nil)
	h.webhook.now = fixedClock
	return h
}

func completeEvent(bookingID, extID string) entities.PaymentEvent {
	return entities.PaymentEvent{
		Status:                entities.PaymentEventStatusComplete,
		ExternalTransactionID: extID,
		BookingID:             bookingID,
		Raw:                   map[string]any{"invoice_id": extID, "state": "COMPLETE"},
	}
}

func TestWebhookUseCase_Reconcile_Settles(t *testing.T) {
	h := newSettlementHarness("", confirmedBookingFixture("bk-1", 5000))

	res, err := h.webhook.Reconcile(context.Background(), "", completeEvent("bk-1", "ext-1"))
	require.NoError(t, err)
	assert.Equal(t, ReconcileSettled, res.Outcome)
	require.NotNil(t, res.Payout)
	assert.Equal(t, PayoutOutcomeSuccess, res.Payout.Kind)
	assert.Equal(t, "tr-1", res.Payout.TransferID)

	b := h.bookings.get("bk-1")
	assert.True(t, b.Paid())
	assert.Equal(t, fixedNow, b.PaidAt)
	assert.Equal(t, "ext-1", b.TransactionID)
	assert.Equal(t, int64(5000), b.TotalPrice)
	assert.Equal(t, int64(2000), b.PlatformFee)
	assert.Equal(t, int64(3000), b.ProviderPayout)
	assert.Equal(t, entities.PayoutStatusProcessed, b.PayoutStatus)
	assert.Equal(t, fixedNow, b.PayoutProcessedAt)

	payments := h.journal.byType("bk-1", entities.TransactionTypePayment)
	require.Len(t, payments, 1)
	assert.Equal(t, int64(5000), payments[0].Amount)
	assert.Equal(t, entities.TransactionStatusCompleted, payments[0].Status)
	assert.Equal(t, "JOB_bk-1", payments[0].Reference)
	assert.Equal(t, "ext-1", payments[0].ExternalTransactionID)

	payouts := h.journal.byType("bk-1", entities.TransactionTypePayout)
	require.Len(t, payouts, 1)
	assert.Equal(t, int64(3000), payouts[0].Amount)
	assert.Equal(t, entities.TransactionStatusCompleted, payouts[0].Status)
	assert.Equal(t, "tr-1", payouts[0].ExternalTransactionID)
	assert.Equal(t, "CLEANER_PAYOUT_JOB_bk-1", payouts[0].Reference)

	require.Equal(t, 1, h.transferrer.calls())
	req := h.transferrer.requests[0]
	assert.Equal(t, int64(3000), req.Amount)
	assert.Equal(t, "254798765432", req.AccountPhone)
	assert.Equal(t, "Cleaner payout for JOB_bk-1", req.Narrative)
}

func TestWebhookUseCase_Reconcile_DuplicateIsNoop(t *testing.T) {
	h := newSettlementHarness("", confirmedBookingFixture("bk-1", 5000))
	ctx := context.Background()

	_, err := h.webhook.Reconcile(ctx, "", completeEvent("bk-1", "ext-1"))
	require.NoError(t, err)
	settled := h.bookings.get("bk-1")
	journaled, _ := h.journal.ListByBookingID(ctx, "bk-1")

	res, err := h.webhook.Reconcile(ctx, "", completeEvent("bk-1", "ext-2"))
	require.NoError(t, err)
	assert.Equal(t, ReconcileDuplicate, res.Outcome)
	assert.Nil(t, res.Payout)

	assert.Equal(t, settled, h.bookings.get("bk-1"))
	again, _ := h.journal.ListByBookingID(ctx, "bk-1")
	assert.Equal(t, journaled, again)
	assert.Equal(t, 1, h.transferrer.calls())
}

func TestWebhookUseCase_Reconcile_ConcurrentDelivery(t *testing.T) {
	h := newSettlementHarness("", confirmedBookingFixture("bk-1", 5000))
	// Another delivery commits the paid transition between our read and our write.
	h.bookings.beforeUpdate = func(m *memBookings) {
		m.mu.Lock()
		defer m.mu.Unlock()
		b := m.items["bk-1"]
		split, _ := pricing.DefaultPolicy().Split(b.Price)
		_ = b.ReceivePayment(split, "ext-first", fixedNow)
		b.Version++
		m.items["bk-1"] = b
	}

	res, err := h.webhook.Reconcile(context.Background(), "", completeEvent("bk-1", "ext-second"))
	require.NoError(t, err)
	assert.Equal(t, ReconcileDuplicate, res.Outcome)

	b := h.bookings.get("bk-1")
	assert.Equal(t, "ext-first", b.TransactionID)
	assert.Len(t, h.journal.byType("bk-1", entities.TransactionTypePayment), 1)
	assert.Equal(t, 1, h.transferrer.calls())
}

func TestWebhookUseCase_Reconcile_Acknowledged(t *testing.T) {
	t.Run("non complete status", func(t *testing.T) {
		h := newSettlementHarness("", confirmedBookingFixture("bk-1", 5000))
		ev := completeEvent("bk-1", "ext-1")
		ev.Status = "FAILED"

		res, err := h.webhook.Reconcile(context.Background(), "", ev)
		require.NoError(t, err)
		assert.Equal(t, ReconcileIgnored, res.Outcome)
		assert.False(t, h.bookings.get("bk-1").Paid())
		assert.Zero(t, h.bookings.updates)
		assert.Zero(t, h.transferrer.calls())
	})

	t.Run("unknown booking", func(t *testing.T) {
		h := newSettlementHarness("")
		res, err := h.webhook.Reconcile(context.Background(), "", completeEvent("missing", "ext-1"))
		require.NoError(t, err)
		assert.Equal(t, ReconcileUnknownBooking, res.Outcome)
	})

	t.Run("missing booking reference", func(t *testing.T) {
		h := newSettlementHarness("")
		res, err := h.webhook.Reconcile(context.Background(), "", completeEvent("", "ext-1"))
		require.NoError(t, err)
		assert.Equal(t, ReconcileUnknownBooking, res.Outcome)
	})

	t.Run("refunded booking", func(t *testing.T) {
		b := confirmedBookingFixture("bk-1", 5000)
		b.PaymentStatus = entities.PaymentStatusRefunded
		h := newSettlementHarness("", b)

		res, err := h.webhook.Reconcile(context.Background(), "", completeEvent("bk-1", "ext-1"))
		require.NoError(t, err)
		assert.Equal(t, ReconcileIgnored, res.Outcome)
		assert.Zero(t, h.transferrer.calls())
	})
}

func TestWebhookUseCase_Reconcile_Challenge(t *testing.T) {
	h := newSettlementHarness("s3cret", confirmedBookingFixture("bk-1", 5000))

	_, err := h.webhook.Reconcile(context.Background(), "wrong", completeEvent("bk-1", "ext-1"))
	assert.ErrorIs(t, err, ErrWebhookChallengeMismatch)
	assert.False(t, h.bookings.get("bk-1").Paid())

	res, err := h.webhook.Reconcile(context.Background(), "s3cret", completeEvent("bk-1", "ext-1"))
	require.NoError(t, err)
	assert.Equal(t, ReconcileSettled, res.Outcome)
}

func TestWebhookUseCase_Reconcile_PayoutFailureIsContained(t *testing.T) {
	h := newSettlementHarness("", confirmedBookingFixture("bk-1", 1000))
	h.transferrer.result = entities.TransferFailed("insufficient float")

	res, err := h.webhook.Reconcile(context.Background(), "", completeEvent("bk-1", "ext-1"))
	require.NoError(t, err)
	assert.Equal(t, ReconcileSettled, res.Outcome)
	require.NotNil(t, res.Payout)
	assert.Equal(t, PayoutOutcomeFailure, res.Payout.Kind)

	b := h.bookings.get("bk-1")
	assert.True(t, b.Paid())
	assert.Equal(t, int64(400), b.PlatformFee)
	assert.Equal(t, int64(600), b.ProviderPayout)
	assert.Equal(t, entities.PayoutStatusFailed, b.PayoutStatus)

	payouts := h.journal.byType("bk-1", entities.TransactionTypePayout)
	require.Len(t, payouts, 2)
	for _, tx := range payouts {
		assert.Equal(t, entities.TransactionStatusFailed, tx.Status)
		assert.Equal(t, int64(600), tx.Amount)
	}
	flagged := payouts[1]
	assert.Equal(t, "FAILED_CLEANER_PAYOUT_JOB_bk-1", flagged.Reference)
	assert.Equal(t, true, flagged.Metadata["requiresManualIntervention"])
	assert.Equal(t, "insufficient float", flagged.Metadata["error"])
	assert.Equal(t, int64(600), flagged.Metadata["originalAmount"])

	require.Len(t, h.alerter.alerts, 1)
	assert.Equal(t, "bk-1", h.alerter.alerts[0].BookingID)
}

func TestWebhookUseCase_Reconcile_CancelledBookingWithholdsPayout(t *testing.T) {
	b := confirmedBookingFixture("bk-1", 5000)
	b.Status = entities.BookingStatusCancelled
	h := newSettlementHarness("", b)

	res, err := h.webhook.Reconcile(context.Background(), "", completeEvent("bk-1", "ext-1"))
	require.NoError(t, err)
	assert.Equal(t, ReconcileSettled, res.Outcome)
	assert.Nil(t, res.Payout)
	assert.True(t, h.bookings.get("bk-1").Paid())
	assert.Len(t, h.journal.byType("bk-1", entities.TransactionTypePayment), 1)
	assert.Zero(t, h.transferrer.calls())
}

func TestWebhookUseCase_Reconcile_PayoutSurvivesRequestCancellation(t *testing.T) {
	h := newSettlementHarness("", confirmedBookingFixture("bk-1", 5000))
	ctx, cancel := context.WithCancel(context.Background())
	h.bookings.beforeUpdate = func(*memBookings) { cancel() }

	_, err := h.webhook.Reconcile(ctx, "", completeEvent("bk-1", "ext-1"))
	require.NoError(t, err)
	require.Equal(t, 1, h.transferrer.calls())
	assert.NoError(t, h.transferrer.ctxErrs[0])
}

func TestWebhookUseCase_Reconcile_StorageErrorBeforeCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	bookings := mock_interfaces.NewMockIBookingRepository(ctrl)
	journal := mock_interfaces.NewMockITransactionRepository(ctrl)
	uc := NewWebhookUseCase(bookings, journal, nil, nil, pricing.DefaultPolicy(), WebhookSettings{}, nil)

	bookings.EXPECT().GetByID(gomock.Any(), "bk-1").Return(entities.Booking{}, errors.New("dynamo unavailable"))

	_, err := uc.Reconcile(context.Background(), "", completeEvent("bk-1", "ext-1"))
	if err == nil || err.Error() != "dynamo unavailable" {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestWebhookUseCase_ReconcileLookup(t *testing.T) {
	t.Run("lookup not configured", func(t *testing.T) {
		uc := NewWebhookUseCase(nil, nil, nil, nil, pricing.DefaultPolicy(), WebhookSettings{}, nil)
		_, err := uc.ReconcileLookup(context.Background(), "123")
		if !errors.Is(err, ErrGatewayNotConfigured) {
			t.Fatalf("expected ErrGatewayNotConfigured, got %v", err)
		}
	})

	t.Run("resolved event settles booking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := newSettlementHarness("ignored-for-lookups", confirmedBookingFixture("bk-1", 5000))
		lookup := mock_interfaces.NewMockIPaymentLookup(ctrl)
		h.webhook.lookup = lookup

		lookup.EXPECT().LookupPayment(gomock.Any(), "987").Return(completeEvent("bk-1", "987"), nil)

		res, err := h.webhook.ReconcileLookup(context.Background(), "987")
		require.NoError(t, err)
		assert.Equal(t, ReconcileSettled, res.Outcome)
		assert.Equal(t, "987", h.bookings.get("bk-1").TransactionID)
	})

	t.Run("lookup error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		lookup := mock_interfaces.NewMockIPaymentLookup(ctrl)
		uc := NewWebhookUseCase(nil, nil, nil, lookup, pricing.DefaultPolicy(), WebhookSettings{}, nil)

		lookup.EXPECT().LookupPayment(gomock.Any(), "987").Return(entities.PaymentEvent{}, errors.New("timeout"))

		_, err := uc.ReconcileLookup(context.Background(), "987")
		if err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestWebhookUseCase_Reconcile_FlagsLatePayment(t *testing.T) {
	completed := confirmedBookingFixture("bk-1", 5000)
	require.NoError(t, completed.Complete(fixedNow.Add(-3*time.Hour), 2*time.Hour))
	onTime := confirmedBookingFixture("bk-2", 5000)
	require.NoError(t, onTime.Complete(fixedNow.Add(-time.Hour), 2*time.Hour))
	h := newSettlementHarness("", completed, onTime)

	res, err := h.webhook.Reconcile(context.Background(), "", completeEvent("bk-1", "ext-1"))
	require.NoError(t, err)
	assert.Equal(t, ReconcileSettled, res.Outcome)
	assert.True(t, h.bookings.get("bk-1").PaymentLate)
	payments := h.journal.byType("bk-1", entities.TransactionTypePayment)
	require.Len(t, payments, 1)
	assert.Equal(t, true, payments[0].Metadata["paymentLate"])

	_, err = h.webhook.Reconcile(context.Background(), "", completeEvent("bk-2", "ext-2"))
	require.NoError(t, err)
	assert.False(t, h.bookings.get("bk-2").PaymentLate)
	assert.True(t, h.bookings.get("bk-2").Paid())
}
