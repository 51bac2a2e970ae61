package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/domain/pricing"
	"clean_cloak/internal/usecase/interfaces"

	"go.uber.org/zap"
)

type ReconcileOutcome string

const (
	ReconcileIgnored        ReconcileOutcome = "ignored"
	ReconcileUnknownBooking ReconcileOutcome = "unknown_booking"
	ReconcileDuplicate      ReconcileOutcome = "duplicate"
	ReconcileSettled        ReconcileOutcome = "settled"
)

type ReconcileResult struct {
	Outcome   ReconcileOutcome
	BookingID string
	Payout    *PayoutOutcome
}

// IWebhookUseCase turns gateway notifications into settled bookings.
//
// Requested behavior:
//   - only COMPLETE collections settle a booking, everything else is acknowledged and dropped
//   - the first COMPLETE event for a booking marks it paid, journals the payment and pays the provider
//   - later events for the same booking change nothing
type IWebhookUseCase interface {
	Reconcile(ctx context.Context, challenge string, event entities.PaymentEvent) (ReconcileResult, error)
	ReconcileLookup(ctx context.Context, paymentID string) (ReconcileResult, error)
}

type WebhookSettings struct {
	Challenge string
	Currency  string
}

type WebhookUseCase struct {
	bookings interfaces.IBookingRepository
	journal  interfaces.ITransactionRepository
	payouts  IPayoutUseCase
	lookup   interfaces.IPaymentLookup
	policy   pricing.Policy
	settings WebhookSettings
	logger   *zap.Logger
	now      func() time.Time
}

var _ IWebhookUseCase = (*WebhookUseCase)(nil)

func NewWebhookUseCase(
	bookings interfaces.IBookingRepository,
	journal interfaces.ITransactionRepository,
	payouts IPayoutUseCase,
	lookup interfaces.IPaymentLookup,
	policy pricing.Policy,
	settings WebhookSettings,
	logger *zap.Logger,
) *WebhookUseCase {
	if settings.Currency == "" {
		settings.Currency = entities.DefaultCurrency
	}
	return &WebhookUseCase{
		bookings: bookings,
		journal:  journal,
		payouts:  payouts,
		lookup:   lookup,
		policy:   policy,
		settings: settings,
		logger:   nopIfNil(logger).Named("webhook"),
		now:      utcNow,
	}
}

func (u *WebhookUseCase) Reconcile(ctx context.Context, challenge string, event entities.PaymentEvent) (ReconcileResult, error) {
	if u.settings.Challenge != "" && subtle.ConstantTimeCompare([]byte(challenge), []byte(u.settings.Challenge)) != 1 {
		u.logger.Warn("webhook challenge mismatch", zap.String("booking_id", event.BookingID))
		return ReconcileResult{}, ErrWebhookChallengeMismatch
	}
	return u.reconcile(ctx, event)
}

// ReconcileLookup handles notifications that only carry the gateway payment id.
func (u *WebhookUseCase) ReconcileLookup(ctx context.Context, paymentID string) (ReconcileResult, error) {
	if u.lookup == nil {
		return ReconcileResult{}, ErrGatewayNotConfigured
	}
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		u.logger.Info("ignoring notification without payment id")
		return ReconcileResult{Outcome: ReconcileIgnored}, nil
	}
	event, err := u.lookup.LookupPayment(ctx, paymentID)
	if err != nil {
		u.logger.Error("payment lookup failed", zap.String("payment_id", paymentID), zap.Error(err))
		return ReconcileResult{}, err
	}
	return u.reconcile(ctx, event)
}

func (u *WebhookUseCase) reconcile(ctx context.Context, event entities.PaymentEvent) (ReconcileResult, error) {
	bookingID := strings.TrimSpace(event.BookingID)
	log := u.logger.With(
		zap.String("booking_id", bookingID),
		zap.String("status", event.Status),
		zap.String("transaction_id", event.ExternalTransactionID),
	)
	log.Info("payment event received")

	if !event.Complete() {
		log.Info("ignoring payment event that is not complete")
		return ReconcileResult{Outcome: ReconcileIgnored, BookingID: bookingID}, nil
	}
	if bookingID == "" {
		log.Warn("payment event without booking reference")
		return ReconcileResult{Outcome: ReconcileUnknownBooking}, nil
	}

	paid, err := mutateBooking(ctx, u.bookings, bookingID, func(b *entities.Booking) error {
		split, err := u.policy.Split(b.Price)
		if err != nil {
			return err
		}
		return b.ReceivePayment(split, event.ExternalTransactionID, u.now())
	})
	switch {
	case errors.Is(err, ErrBookingNotFound):
		log.Warn("payment event for unknown booking")
		return ReconcileResult{Outcome: ReconcileUnknownBooking, BookingID: bookingID}, nil
	case errors.Is(err, entities.ErrAlreadyPaid):
		log.Info("duplicate payment event; booking already paid")
		if err := u.resume(ctx, log, paid, event); err != nil {
			return ReconcileResult{}, err
		}
		return ReconcileResult{Outcome: ReconcileDuplicate, BookingID: bookingID}, nil
	case errors.Is(err, entities.ErrInvalidTransition):
		log.Warn("payment event for booking that cannot receive payment", zap.String("payment_status", string(paid.PaymentStatus)))
		return ReconcileResult{Outcome: ReconcileIgnored, BookingID: bookingID}, nil
	case err != nil:
		log.Error("failed to mark booking paid", zap.Error(err))
		return ReconcileResult{}, err
	}
	log.Info("booking paid",
		zap.Int64("total_price", paid.TotalPrice),
		zap.Int64("platform_fee", paid.PlatformFee),
		zap.Int64("provider_payout", paid.ProviderPayout),
		zap.Bool("payment_late", paid.PaymentLate),
	)

	journalErr := u.journalPayment(ctx, paid, event)
	if journalErr != nil {
		log.Error("failed to journal payment", zap.Error(journalErr))
	}

	result := ReconcileResult{Outcome: ReconcileSettled, BookingID: bookingID}
	if paid.Status == entities.BookingStatusCancelled {
		log.Warn("payment received for cancelled booking; payout withheld for manual refund")
	} else {
		outcome := u.payouts.ProcessPayout(context.WithoutCancel(ctx), paid, paid.ProviderPayout)
		result.Payout = &outcome
	}

	// The booking is already paid, so a redelivery takes the duplicate path and re-journals idempotently.
	if journalErr != nil {
		return ReconcileResult{}, journalErr
	}
	return result, nil
}

// resume completes side effects a previous delivery may not have finished. Every step is keyed by a
// deterministic journal id, so on a fully settled booking this changes nothing.
func (u *WebhookUseCase) resume(ctx context.Context, log *zap.Logger, b entities.Booking, event entities.PaymentEvent) error {
	if err := u.journalPayment(ctx, b, event); err != nil {
		log.Error("failed to journal payment on redelivery", zap.Error(err))
		return err
	}
	if b.Status == entities.BookingStatusCancelled || b.PayoutStatus != entities.PayoutStatusPending {
		return nil
	}
	u.payouts.ProcessPayout(context.WithoutCancel(ctx), b, b.ProviderPayout)
	return nil
}

func (u *WebhookUseCase) journalPayment(ctx context.Context, b entities.Booking, event entities.PaymentEvent) error {
	tx := entities.Transaction{
		ID:                    entities.PaymentTransactionID(b.ID),
		BookingID:             b.ID,
		ClientID:              b.ClientID,
		ProviderID:            b.ProviderID,
		Type:                  entities.TransactionTypePayment,
		Amount:                b.TotalPrice,
		Currency:              u.settings.Currency,
		Status:                entities.TransactionStatusCompleted,
		PaymentMethod:         b.PaymentMethod,
		ExternalTransactionID: b.TransactionID,
		Reference:             b.Reference(),
		Description:           "Payment for " + b.Reference(),
		Metadata: map[string]any{
			"gatewayEvent": event.Raw,
			"split": map[string]any{
				"totalPrice":     b.TotalPrice,
				"platformFee":    b.PlatformFee,
				"providerPayout": b.ProviderPayout,
			},
			"paymentLate": b.PaymentLate,
		},
		ProcessedAt: b.PaidAt,
		CreatedAt:   u.now(),
	}
	_, err := u.journal.Create(ctx, tx)
	if errors.Is(err, interfaces.ErrDuplicateTransaction) {
		return nil
	}
	return err
}
