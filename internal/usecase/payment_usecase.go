package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// PaymentInitiation is what the client needs to follow a collection the gateway has accepted.
type PaymentInitiation struct {
	BookingID  string
	Reference  string
	CheckoutID string
	TrackingID string
	Amount     int64
	Currency   string
	Phone      string
}

// IPaymentUseCase starts collections for confirmed bookings and reports their payment state.
//
// Initiation never marks a booking paid; only the webhook does.
type IPaymentUseCase interface {
	InitiatePayment(ctx context.Context, actor entities.Actor, bookingID, phone string) (PaymentInitiation, error)
	PayBooking(ctx context.Context, actor entities.Actor, bookingID, phone string) (PaymentInitiation, error)
	GetPaymentStatus(ctx context.Context, actor entities.Actor, bookingID string) (entities.Booking, error)
}

type PaymentSettings struct {
	CallbackURL    string
	CountryCode    string
	Currency       string
	GatewayTimeout time.Duration
}

type PaymentUseCase struct {
	bookings  interfaces.IBookingRepository
	collector interfaces.IChargeCollector
	settings  PaymentSettings
	logger    *zap.Logger
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(bookings interfaces.IBookingRepository, collector interfaces.IChargeCollector, settings PaymentSettings, logger *zap.Logger) *PaymentUseCase {
	if settings.Currency == "" {
		settings.Currency = entities.DefaultCurrency
	}
	if settings.CountryCode == "" {
		settings.CountryCode = entities.DefaultCountryCode
	}
	if settings.GatewayTimeout <= 0 {
		settings.GatewayTimeout = 30 * time.Second
	}
	return &PaymentUseCase{
		bookings:  bookings,
		collector: collector,
		settings:  settings,
		logger:    nopIfNil(logger).Named("payment"),
	}
}

// InitiatePayment starts a mobile-money collection to the given phone.
func (u *PaymentUseCase) InitiatePayment(ctx context.Context, actor entities.Actor, bookingID, phone string) (PaymentInitiation, error) {
	if strings.TrimSpace(phone) == "" {
		return PaymentInitiation{}, ErrInvalidPayerPhone
	}
	return u.initiate(ctx, actor, bookingID, phone)
}

// PayBooking starts a collection for the booking, defaulting to the phone captured when it was requested.
func (u *PaymentUseCase) PayBooking(ctx context.Context, actor entities.Actor, bookingID, phone string) (PaymentInitiation, error) {
	return u.initiate(ctx, actor, bookingID, phone)
}

func (u *PaymentUseCase) initiate(ctx context.Context, actor entities.Actor, bookingID, phone string) (PaymentInitiation, error) {
	log := u.logger.With(zap.String("booking_id", bookingID), zap.String("actor_id", actor.ID))
	log.Info("payment initiation start")

	if u.collector == nil {
		log.Error("payment gateway not configured")
		return PaymentInitiation{}, ErrGatewayNotConfigured
	}
	b, err := loadBooking(ctx, u.bookings, bookingID)
	if err != nil {
		log.Warn("booking lookup failed", zap.Error(err))
		return PaymentInitiation{}, err
	}
	if !actor.OwnsAsClient(b) {
		log.Warn("payment initiation by non-owner", zap.String("role", string(actor.Role)))
		return PaymentInitiation{}, ErrForbidden
	}
	if err := b.CheckPayable(); err != nil {
		log.Info("booking not payable", zap.String("status", string(b.Status)), zap.String("payment_status", string(b.PaymentStatus)), zap.Error(err))
		return PaymentInitiation{}, err
	}

	if strings.TrimSpace(phone) == "" {
		phone = b.ClientPhone
	}
	msisdn, err := entities.NormalizeMSISDN(phone, u.settings.CountryCode)
	if err != nil {
		log.Info("invalid payer phone")
		return PaymentInitiation{}, fmt.Errorf("%w: %v", ErrInvalidPayerPhone, err)
	}

	cctx, cancel := context.WithTimeout(ctx, u.settings.GatewayTimeout)
	defer cancel()
	res := u.collector.CollectCharge(cctx, entities.ChargeRequest{
		Amount:      b.Price,
		Currency:    u.settings.Currency,
		Phone:       msisdn,
		Reference:   b.Reference(),
		Description: fmt.Sprintf("%s booking %s", b.ServiceCategory, b.ID),
		CallbackURL: u.settings.CallbackURL,
		Metadata: map[string]string{
			"booking_id": b.ID,
			"client_id":  b.ClientID,
			"service":    string(b.ServiceCategory),
		},
	})
	if !res.Succeeded() {
		log.Error("payment gateway rejected collection", zap.String("reason", res.Reason))
		return PaymentInitiation{}, fmt.Errorf("%w: %s", ErrPaymentInitiationFailed, res.Reason)
	}

	log.Info("payment initiated", zap.String("checkout_id", res.ID), zap.String("tracking_id", res.TrackingID), zap.Int64("amount", b.Price))
	return PaymentInitiation{
		BookingID:  b.ID,
		Reference:  b.Reference(),
		CheckoutID: res.ID,
		TrackingID: res.TrackingID,
		Amount:     b.Price,
		Currency:   u.settings.Currency,
		Phone:      msisdn,
	}, nil
}

func (u *PaymentUseCase) GetPaymentStatus(ctx context.Context, actor entities.Actor, bookingID string) (entities.Booking, error) {
	b, err := loadBooking(ctx, u.bookings, bookingID)
	if err != nil {
		return entities.Booking{}, err
	}
	if !actor.OwnsAsClient(b) && !actor.IsAdmin() {
		return entities.Booking{}, ErrForbidden
	}
	return b, nil
}
