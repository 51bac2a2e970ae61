package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PayoutOutcomeKind string

const (
	PayoutOutcomeSuccess PayoutOutcomeKind = "success"
	PayoutOutcomeFailure PayoutOutcomeKind = "failure"
	// PayoutOutcomeSkipped means another attempt already owns the payout for the booking.
	PayoutOutcomeSkipped PayoutOutcomeKind = "skipped"
)

type PayoutOutcome struct {
	Kind       PayoutOutcomeKind
	TransferID string
	Reason     string
}

// IPayoutUseCase disburses a provider's share once a booking is paid.
//
// A payout is attempted exactly once per booking. Failures are contained: they are journaled,
// flagged for manual intervention and reported to operators, never returned to the caller as errors.
type IPayoutUseCase interface {
	ProcessPayout(ctx context.Context, b entities.Booking, amount int64) PayoutOutcome
}

type PayoutSettings struct {
	CountryCode     string
	Currency        string
	TransferTimeout time.Duration
}

type PayoutUseCase struct {
	bookings    interfaces.IBookingRepository
	journal     interfaces.ITransactionRepository
	profiles    interfaces.IProviderProfileRepository
	transferrer interfaces.IFundsTransferrer
	alerter     interfaces.IOperatorAlerter
	settings    PayoutSettings
	logger      *zap.Logger
	now         func() time.Time
}

var _ IPayoutUseCase = (*PayoutUseCase)(nil)

func NewPayoutUseCase(
	bookings interfaces.IBookingRepository,
	journal interfaces.ITransactionRepository,
	profiles interfaces.IProviderProfileRepository,
	transferrer interfaces.IFundsTransferrer,
	alerter interfaces.IOperatorAlerter,
	settings PayoutSettings,
	logger *zap.Logger,
) *PayoutUseCase {
	if settings.Currency == "" {
		settings.Currency = entities.DefaultCurrency
	}
	if settings.CountryCode == "" {
		settings.CountryCode = entities.DefaultCountryCode
	}
	return &PayoutUseCase{
		bookings:    bookings,
		journal:     journal,
		profiles:    profiles,
		transferrer: transferrer,
		alerter:     alerter,
		settings:    settings,
		logger:      nopIfNil(logger).Named("payout"),
		now:         utcNow,
	}
}

func (u *PayoutUseCase) ProcessPayout(ctx context.Context, b entities.Booking, amount int64) PayoutOutcome {
	log := u.logger.With(zap.String("booking_id", b.ID), zap.String("provider_id", b.ProviderID), zap.Int64("amount", amount))
	log.Info("payout start")

	if !b.Paid() {
		log.Error("payout requested for unpaid booking", zap.String("payment_status", string(b.PaymentStatus)))
		return PayoutOutcome{Kind: PayoutOutcomeFailure, Reason: entities.ErrNotPaid.Error()}
	}
	if amount <= 0 {
		log.Warn("payout skipped: nothing to disburse")
		return PayoutOutcome{Kind: PayoutOutcomeSkipped, Reason: "non-positive payout amount"}
	}

	msisdn, rawPhone, err := u.resolveAccount(ctx, b.ProviderID)
	if err != nil {
		return u.fail(ctx, log, b, amount, nil, err.Error())
	}

	pending := entities.Transaction{
		ID:            entities.PayoutTransactionID(b.ID),
		BookingID:     b.ID,
		ClientID:      b.ClientID,
		ProviderID:    b.ProviderID,
		Type:          entities.TransactionTypePayout,
		Amount:        amount,
		Currency:      u.settings.Currency,
		Status:        entities.TransactionStatusPending,
		PaymentMethod: entities.PaymentMethodMpesa,
		Reference:     entities.PayoutReference(b.ID),
		Description:   payoutNarrative(b),
		Metadata: map[string]any{
			"mpesaPhone":    msisdn,
			"originalPhone": rawPhone,
		},
		CreatedAt: u.now(),
	}
	pending, err = u.journal.Create(ctx, pending)
	if errors.Is(err, interfaces.ErrDuplicateTransaction) {
		log.Info("payout already journaled; skipping transfer")
		return PayoutOutcome{Kind: PayoutOutcomeSkipped, Reason: "payout already started"}
	}
	if err != nil {
		return u.fail(ctx, log, b, amount, nil, fmt.Sprintf("journal pending payout: %v", err))
	}

	if _, err := mutateBooking(ctx, u.bookings, b.ID, func(bk *entities.Booking) error {
		return bk.BeginDisbursement(u.now())
	}); err != nil {
		return u.fail(ctx, log, b, amount, &pending, fmt.Sprintf("mark payout pending: %v", err))
	}

	if u.transferrer == nil {
		return u.fail(ctx, log, b, amount, &pending, ErrGatewayNotConfigured.Error())
	}
	tctx, cancel := u.transferContext(ctx)
	res := u.transferrer.Transfer(tctx, entities.TransferRequest{
		Amount:       amount,
		Currency:     u.settings.Currency,
		AccountPhone: msisdn,
		Narrative:    payoutNarrative(b),
		Reference:    pending.Reference,
	})
	cancel()
	if !res.Succeeded() {
		return u.fail(ctx, log, b, amount, &pending, res.Reason)
	}

	// Money has moved from here on: journal and booking failures are logged, never turned into a failed payout.
	processedAt := u.now()
	if settled, err := u.journal.UpdateOutcome(ctx, pending.ID, entities.TransactionOutcome{
		Status:                entities.TransactionStatusCompleted,
		ExternalTransactionID: res.ID,
		ProcessedAt:           processedAt,
		Metadata:              map[string]any{"transferResponse": res.Response},
	}); err != nil || settled.ID == "" {
		log.Error("payout transferred but journal not settled", zap.String("transfer_id", res.ID), zap.Error(err))
	}
	if _, err := mutateBooking(ctx, u.bookings, b.ID, func(bk *entities.Booking) error {
		return bk.CompleteDisbursement(processedAt)
	}); err != nil {
		log.Error("payout transferred but booking not updated", zap.String("transfer_id", res.ID), zap.Error(err))
	}

	log.Info("payout processed", zap.String("transfer_id", res.ID))
	return PayoutOutcome{Kind: PayoutOutcomeSuccess, TransferID: res.ID}
}

func (u *PayoutUseCase) resolveAccount(ctx context.Context, providerID string) (string, string, error) {
	if strings.TrimSpace(providerID) == "" {
		return "", "", errors.New("booking has no assigned provider")
	}
	if u.profiles == nil {
		return "", "", ErrPayoutAccountNotFound
	}
	profile, err := u.profiles.GetByUserID(ctx, providerID)
	if err != nil {
		return "", "", fmt.Errorf("load provider profile: %w", err)
	}
	if profile.UserID == "" || strings.TrimSpace(profile.MpesaPhoneNumber) == "" {
		return "", "", ErrPayoutAccountNotFound
	}
	msisdn, err := profile.PayoutMSISDN(u.settings.CountryCode)
	if err != nil {
		return "", profile.MpesaPhoneNumber, fmt.Errorf("%w: %v", ErrInvalidPayoutAccount, err)
	}
	return msisdn, profile.MpesaPhoneNumber, nil
}

// fail runs the containment path: the pending record (if any) is closed as failed, a failed record
// flagged for manual intervention is appended, the booking is marked failed and operators are alerted.
func (u *PayoutUseCase) fail(ctx context.Context, log *zap.Logger, b entities.Booking, amount int64, pending *entities.Transaction, reason string) PayoutOutcome {
	now := u.now()
	log.Error("CRITICAL: provider payout failed", zap.String("reason", reason), zap.Bool("requires_manual_intervention", true))

	if pending != nil {
		if _, err := u.journal.UpdateOutcome(ctx, pending.ID, entities.TransactionOutcome{
			Status:      entities.TransactionStatusFailed,
			ProcessedAt: now,
			Metadata:    map[string]any{"error": reason},
		}); err != nil {
			log.Error("failed to close pending payout record", zap.String("transaction_id", pending.ID), zap.Error(err))
		}
	}

	failed := entities.Transaction{
		ID:            "failed-payout-" + b.ID + "-" + uuid.NewString(),
		BookingID:     b.ID,
		ClientID:      b.ClientID,
		ProviderID:    b.ProviderID,
		Type:          entities.TransactionTypePayout,
		Amount:        amount,
		Currency:      u.settings.Currency,
		Status:        entities.TransactionStatusFailed,
		PaymentMethod: entities.PaymentMethodMpesa,
		Reference:     entities.FailedPayoutReference(b.ID),
		Description:   "Failed cleaner payout for " + b.Reference(),
		Metadata: map[string]any{
			"error":                      reason,
			"originalAmount":             amount,
			"timestamp":                  now.Format(time.RFC3339Nano),
			"requiresManualIntervention": true,
		},
		ProcessedAt: now,
		CreatedAt:   now,
	}
	if _, err := u.journal.Create(ctx, failed); err != nil {
		log.Error("failed to journal failed payout", zap.Error(err))
	}

	if _, err := mutateBooking(ctx, u.bookings, b.ID, func(bk *entities.Booking) error {
		return bk.FailDisbursement(now)
	}); err != nil {
		log.Error("failed to mark booking payout failed", zap.Error(err))
	}

	if u.alerter != nil {
		if err := u.alerter.PayoutFailed(ctx, entities.PayoutAlert{
			BookingID:  b.ID,
			ProviderID: b.ProviderID,
			Amount:     amount,
			Currency:   u.settings.Currency,
			Reference:  failed.Reference,
			Reason:     reason,
			OccurredAt: now,
		}); err != nil {
			log.Error("failed to alert operators", zap.Error(err))
		}
	}

	return PayoutOutcome{Kind: PayoutOutcomeFailure, Reason: reason}
}

func (u *PayoutUseCase) transferContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.settings.TransferTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.settings.TransferTimeout)
}

func payoutNarrative(b entities.Booking) string {
	return "Cleaner payout for " + b.Reference()
}
