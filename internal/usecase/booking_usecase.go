package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateBookingInput struct {
	ServiceCategory entities.ServiceCategory
	PaymentMethod   entities.PaymentMethod
	Price           int64
	ClientPhone     string
}

type ResolvePayoutInput struct {
	ExternalReference string
	Note              string
}

// IBookingUseCase covers the operational lifecycle of a booking plus the operator actions on its settlement.
type IBookingUseCase interface {
	Create(ctx context.Context, actor entities.Actor, in CreateBookingInput) (entities.Booking, error)
	Get(ctx context.Context, actor entities.Actor, id string) (entities.Booking, error)
	Confirm(ctx context.Context, actor entities.Actor, id, providerID string) (entities.Booking, error)
	Start(ctx context.Context, actor entities.Actor, id string) (entities.Booking, error)
	Complete(ctx context.Context, actor entities.Actor, id string) (entities.Booking, error)
	Cancel(ctx context.Context, actor entities.Actor, id string) (entities.Booking, error)
	ListUnpaid(ctx context.Context, actor entities.Actor) ([]entities.Booking, error)
	ListTransactions(ctx context.Context, actor entities.Actor, id string) ([]entities.Transaction, error)
	ResolvePayout(ctx context.Context, actor entities.Actor, id string, in ResolvePayoutInput) (entities.Booking, error)
	Refund(ctx context.Context, actor entities.Actor, id, reason string) (entities.Booking, error)
}

type BookingSettings struct {
	CountryCode string
	Currency    string
	// PaymentWindow is how long the client has to pay after completion.
	PaymentWindow time.Duration
}

type BookingUseCase struct {
	bookings interfaces.IBookingRepository
	journal  interfaces.ITransactionRepository
	settings BookingSettings
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

var _ IBookingUseCase = (*BookingUseCase)(nil)

func NewBookingUseCase(bookings interfaces.IBookingRepository, journal interfaces.ITransactionRepository, settings BookingSettings, logger *zap.Logger) *BookingUseCase {
	if settings.CountryCode == "" {
		settings.CountryCode = entities.DefaultCountryCode
	}
	if settings.Currency == "" {
		settings.Currency = entities.DefaultCurrency
	}
	if settings.PaymentWindow <= 0 {
		settings.PaymentWindow = entities.DefaultPaymentWindow
	}
	return &BookingUseCase{
		bookings: bookings,
		journal:  journal,
		settings: settings,
		logger:   nopIfNil(logger).Named("booking"),
		now:      utcNow,
		newID:    uuid.NewString,
	}
}

func (u *BookingUseCase) Create(ctx context.Context, actor entities.Actor, in CreateBookingInput) (entities.Booking, error) {
	if actor.Role != entities.RoleClient || actor.ID == "" {
		return entities.Booking{}, ErrForbidden
	}
	if !in.ServiceCategory.Valid() {
		return entities.Booking{}, fmt.Errorf("%w: unknown service category %q", ErrInvalidBookingRequest, in.ServiceCategory)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entities.PaymentMethodMpesa
	}
	if !in.PaymentMethod.Valid() {
		return entities.Booking{}, fmt.Errorf("%w: unknown payment method %q", ErrInvalidBookingRequest, in.PaymentMethod)
	}
	if in.Price <= 0 {
		return entities.Booking{}, fmt.Errorf("%w: price must be positive", ErrInvalidBookingRequest)
	}
	phone := strings.TrimSpace(in.ClientPhone)
	if phone != "" {
		normalized, err := entities.NormalizeMSISDN(phone, u.settings.CountryCode)
		if err != nil {
			return entities.Booking{}, fmt.Errorf("%w: %v", ErrInvalidPayerPhone, err)
		}
		phone = normalized
	}

	b := entities.NewBooking(u.newID(), actor.ID, phone, in.ServiceCategory, in.PaymentMethod, in.Price, u.now())
	created, err := u.bookings.Create(ctx, b)
	if err != nil {
		u.logger.Error("failed to create booking", zap.String("client_id", actor.ID), zap.Error(err))
		return entities.Booking{}, err
	}
	u.logger.Info("booking created", zap.String("booking_id", created.ID), zap.String("client_id", actor.ID), zap.Int64("price", created.Price))
	return created, nil
}

func (u *BookingUseCase) Get(ctx context.Context, actor entities.Actor, id string) (entities.Booking, error) {
	b, err := loadBooking(ctx, u.bookings, id)
	if err != nil {
		return entities.Booking{}, err
	}
	if !actor.IsAdmin() && !actor.OwnsAsClient(b) && !actor.AssignedProvider(b) {
		return entities.Booking{}, ErrForbidden
	}
	return b, nil
}

// Confirm assigns a provider. A cleaner can only assign themselves; an admin assigns providerID.
func (u *BookingUseCase) Confirm(ctx context.Context, actor entities.Actor, id, providerID string) (entities.Booking, error) {
	switch {
	case actor.Role == entities.RoleCleaner && actor.ID != "":
		providerID = actor.ID
	case actor.IsAdmin():
		if strings.TrimSpace(providerID) == "" {
			return entities.Booking{}, fmt.Errorf("%w: provider_id is required", ErrInvalidBookingRequest)
		}
	default:
		return entities.Booking{}, ErrForbidden
	}
	return u.transition(ctx, id, "confirm", func(b *entities.Booking) error {
		return b.Confirm(providerID, u.now())
	})
}

func (u *BookingUseCase) Start(ctx context.Context, actor entities.Actor, id string) (entities.Booking, error) {
	return u.transition(ctx, id, "start", func(b *entities.Booking) error {
		if !actor.IsAdmin() && !actor.AssignedProvider(*b) {
			return ErrForbidden
		}
		return b.Start(u.now())
	})
}

func (u *BookingUseCase) Complete(ctx context.Context, actor entities.Actor, id string) (entities.Booking, error) {
	return u.transition(ctx, id, "complete", func(b *entities.Booking) error {
		if !actor.IsAdmin() && !actor.AssignedProvider(*b) {
			return ErrForbidden
		}
		return b.Complete(u.now(), u.settings.PaymentWindow)
	})
}

func (u *BookingUseCase) Cancel(ctx context.Context, actor entities.Actor, id string) (entities.Booking, error) {
	return u.transition(ctx, id, "cancel", func(b *entities.Booking) error {
		if !actor.IsAdmin() && !actor.OwnsAsClient(*b) {
			return ErrForbidden
		}
		return b.Cancel(u.now())
	})
}

// ListUnpaid returns the client's bookings that are confirmed or completed and still owe a payment.
func (u *BookingUseCase) ListUnpaid(ctx context.Context, actor entities.Actor) ([]entities.Booking, error) {
	if actor.Role != entities.RoleClient || actor.ID == "" {
		return nil, ErrForbidden
	}
	all, err := u.bookings.ListByClientID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	unpaid := make([]entities.Booking, 0, len(all))
	for _, b := range all {
		if b.Status != entities.BookingStatusConfirmed && b.Status != entities.BookingStatusCompleted {
			continue
		}
		if b.PaymentStatus == entities.PaymentStatusPending || b.PaymentStatus == entities.PaymentStatusFailed {
			unpaid = append(unpaid, b)
		}
	}
	return unpaid, nil
}

func (u *BookingUseCase) ListTransactions(ctx context.Context, actor entities.Actor, id string) ([]entities.Transaction, error) {
	b, err := loadBooking(ctx, u.bookings, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.OwnsAsClient(b) {
		return nil, ErrForbidden
	}
	txs, err := u.journal.ListByBookingID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(txs, func(a, b entities.Transaction) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return txs, nil
}

// ResolvePayout closes a failed payout that an operator settled outside the gateway.
func (u *BookingUseCase) ResolvePayout(ctx context.Context, actor entities.Actor, id string, in ResolvePayoutInput) (entities.Booking, error) {
	if !actor.IsAdmin() {
		return entities.Booking{}, ErrForbidden
	}
	now := u.now()
	b, err := u.transition(ctx, id, "resolve payout", func(b *entities.Booking) error {
		if b.PayoutStatus != entities.PayoutStatusFailed {
			return ErrPayoutNotFailed
		}
		return b.ResolveDisbursement(now)
	})
	if err != nil {
		return entities.Booking{}, err
	}

	_, err = u.journal.Create(ctx, entities.Transaction{
		ID:                    "manual-payout-" + b.ID + "-" + u.newID(),
		BookingID:             b.ID,
		ClientID:              b.ClientID,
		ProviderID:            b.ProviderID,
		Type:                  entities.TransactionTypePayout,
		Amount:                b.ProviderPayout,
		Currency:              u.settings.Currency,
		Status:                entities.TransactionStatusCompleted,
		PaymentMethod:         entities.PaymentMethodMpesa,
		ExternalTransactionID: strings.TrimSpace(in.ExternalReference),
		Reference:             entities.ManualPayoutReference(b.ID),
		Description:           "Manual cleaner payout for " + b.Reference(),
		Metadata: map[string]any{
			"operator": actor.ID,
			"note":     strings.TrimSpace(in.Note),
		},
		ProcessedAt: now,
		CreatedAt:   now,
	})
	if err != nil {
		u.logger.Error("payout resolved but not journaled", zap.String("booking_id", b.ID), zap.Error(err))
		return entities.Booking{}, err
	}
	u.logger.Info("payout resolved manually", zap.String("booking_id", b.ID), zap.String("operator", actor.ID))
	return b, nil
}

// Refund records that the client's payment was returned. The provider payout is left as is.
func (u *BookingUseCase) Refund(ctx context.Context, actor entities.Actor, id, reason string) (entities.Booking, error) {
	if !actor.IsAdmin() {
		return entities.Booking{}, ErrForbidden
	}
	now := u.now()
	b, err := u.transition(ctx, id, "refund", func(b *entities.Booking) error {
		return b.Refund(now)
	})
	if err != nil {
		return entities.Booking{}, err
	}

	_, err = u.journal.Create(ctx, entities.Transaction{
		ID:            "refund-" + b.ID,
		BookingID:     b.ID,
		ClientID:      b.ClientID,
		ProviderID:    b.ProviderID,
		Type:          entities.TransactionTypeRefund,
		Amount:        b.TotalPrice,
		Currency:      u.settings.Currency,
		Status:        entities.TransactionStatusCompleted,
		PaymentMethod: b.PaymentMethod,
		Reference:     entities.RefundReference(b.ID),
		Description:   "Refund for " + b.Reference(),
		Metadata: map[string]any{
			"operator": actor.ID,
			"reason":   strings.TrimSpace(reason),
		},
		ProcessedAt: now,
		CreatedAt:   now,
	})
	if err != nil && !errors.Is(err, interfaces.ErrDuplicateTransaction) {
		u.logger.Error("booking refunded but not journaled", zap.String("booking_id", b.ID), zap.Error(err))
		return entities.Booking{}, err
	}
	u.logger.Info("booking refunded", zap.String("booking_id", b.ID), zap.String("operator", actor.ID))
	return b, nil
}

func (u *BookingUseCase) transition(ctx context.Context, id, name string, fn func(*entities.Booking) error) (entities.Booking, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Booking{}, ErrInvalidBookingID
	}
	b, err := mutateBooking(ctx, u.bookings, id, fn)
	if err != nil {
		u.logger.Info("booking transition rejected", zap.String("booking_id", id), zap.String("transition", name), zap.Error(err))
		return entities.Booking{}, err
	}
	u.logger.Info("booking transition applied", zap.String("booking_id", id), zap.String("transition", name), zap.String("status", string(b.Status)))
	return b, nil
}
