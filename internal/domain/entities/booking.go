package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"clean_cloak/internal/domain/pricing"
)

// BookingStatus is the operational lifecycle of a service request.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in-progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// PaymentStatus is the client-side (collection) leg of the settlement.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PayoutStatus is the provider-side (disbursement) leg of the settlement.
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusProcessed PayoutStatus = "processed"
	PayoutStatusFailed    PayoutStatus = "failed"
)

type ServiceCategory string

const (
	ServiceCategoryCarDetailing ServiceCategory = "car-detailing"
	ServiceCategoryHomeCleaning ServiceCategory = "home-cleaning"
)

func (c ServiceCategory) Valid() bool {
	return c == ServiceCategoryCarDetailing || c == ServiceCategoryHomeCleaning
}

type PaymentMethod string

const (
	PaymentMethodMpesa PaymentMethod = "mpesa"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodCash  PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodMpesa || m == PaymentMethodCard || m == PaymentMethodCash
}

// DefaultPaymentWindow is how long a client has to pay once a job is marked complete.
const DefaultPaymentWindow = 2 * time.Hour

var (
	ErrInvalidTransition = errors.New("invalid booking transition")
	ErrAlreadyPaid       = errors.New("booking already paid")
	ErrNotPaid           = errors.New("booking not paid")
)

// TransitionError reports a named transition attempted from a state that does not allow it.
type TransitionError struct {
	Transition string
	From       string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s from %s", ErrInvalidTransition, e.Transition, e.From)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// Booking is the commercial record of one service engagement.
//
// Settlement fields change only through the named transitions below. Paid is derived from
// PaymentStatus so a paid flag can never disagree with the payment status.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (client_id-index): client_id
//   - Version guards every write (compare-and-set).
type Booking struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"client_id"`
	ClientPhone     string          `json:"client_phone,omitempty"`
	ProviderID      string          `json:"provider_id,omitempty"`
	ServiceCategory ServiceCategory `json:"service_category"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Price           int64           `json:"price"`

	TotalPrice     int64 `json:"total_price"`
	PlatformFee    int64 `json:"platform_fee"`
	ProviderPayout int64 `json:"provider_payout"`

	Status            BookingStatus `json:"status"`
	PaymentStatus     PaymentStatus `json:"payment_status"`
	PaidAt            time.Time     `json:"paid_at,omitempty"`
	TransactionID     string        `json:"transaction_id,omitempty"`
	PayoutStatus      PayoutStatus  `json:"payout_status"`
	PayoutProcessedAt time.Time     `json:"payout_processed_at,omitempty"`
	RefundedAt        time.Time     `json:"refunded_at,omitempty"`
	CompletedAt       time.Time     `json:"completed_at,omitempty"`
	PaymentDeadline   time.Time     `json:"payment_deadline,omitempty"`
	PaymentLate       bool          `json:"payment_late,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBooking(id, clientID, clientPhone string, category ServiceCategory, method PaymentMethod, price int64, now time.Time) Booking {
	return Booking{
		ID:              id,
		ClientID:        clientID,
		ClientPhone:     strings.TrimSpace(clientPhone),
		ServiceCategory: category,
		PaymentMethod:   method,
		Price:           price,
		Status:          BookingStatusPending,
		PaymentStatus:   PaymentStatusPending,
		PayoutStatus:    PayoutStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (b Booking) Paid() bool {
	return b.PaymentStatus == PaymentStatusPaid
}

// Reference is the per-booking idempotency reference sent to the payment gateway.
func (b Booking) Reference() string {
	return JobReference(b.ID)
}

func JobReference(bookingID string) string {
	return "JOB_" + bookingID
}

// BookingIDFromReference accepts either a JOB_ reference or a bare booking id.
func BookingIDFromReference(ref string) string {
	return strings.TrimPrefix(strings.TrimSpace(ref), "JOB_")
}

func (b *Booking) Confirm(providerID string, now time.Time) error {
	providerID = strings.TrimSpace(providerID)
	if b.Status != BookingStatusPending || providerID == "" {
		return &TransitionError{Transition: "confirm", From: string(b.Status)}
	}
	b.ProviderID = providerID
	b.Status = BookingStatusConfirmed
	b.UpdatedAt = now
	return nil
}

func (b *Booking) Start(now time.Time) error {
	if b.Status != BookingStatusConfirmed {
		return &TransitionError{Transition: "start", From: string(b.Status)}
	}
	b.Status = BookingStatusInProgress
	b.UpdatedAt = now
	return nil
}

// Complete closes the job and starts the payment window. A non-positive window uses
// DefaultPaymentWindow. An already settled booking gets no deadline.
func (b *Booking) Complete(now time.Time, paymentWindow time.Duration) error {
	if b.Status != BookingStatusConfirmed && b.Status != BookingStatusInProgress {
		return &TransitionError{Transition: "complete", From: string(b.Status)}
	}
	if paymentWindow <= 0 {
		paymentWindow = DefaultPaymentWindow
	}
	b.Status = BookingStatusCompleted
	b.CompletedAt = now
	if !b.Paid() {
		b.PaymentDeadline = now.Add(paymentWindow)
	}
	b.UpdatedAt = now
	return nil
}

// PaymentTimeRemaining returns the time left before the payment deadline, never negative.
// ok is false when no deadline was set.
func (b Booking) PaymentTimeRemaining(now time.Time) (remaining time.Duration, ok bool) {
	if b.PaymentDeadline.IsZero() {
		return 0, false
	}
	if remaining = b.PaymentDeadline.Sub(now); remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// PaymentOverdue reports an unpaid booking whose deadline has been reached.
func (b Booking) PaymentOverdue(now time.Time) bool {
	remaining, ok := b.PaymentTimeRemaining(now)
	return ok && !b.Paid() && remaining <= 0
}

func (b Booking) pastPaymentDeadline(now time.Time) bool {
	return !b.PaymentDeadline.IsZero() && now.After(b.PaymentDeadline)
}

func (b *Booking) Cancel(now time.Time) error {
	if b.Paid() {
		return ErrAlreadyPaid
	}
	if b.Status != BookingStatusPending && b.Status != BookingStatusConfirmed {
		return &TransitionError{Transition: "cancel", From: string(b.Status)}
	}
	b.Status = BookingStatusCancelled
	b.UpdatedAt = now
	return nil
}

// CheckPayable reports whether a collection may be started for the booking.
func (b Booking) CheckPayable() error {
	if b.Paid() {
		return ErrAlreadyPaid
	}
	if b.Status != BookingStatusConfirmed {
		return &TransitionError{Transition: "initiate payment", From: string(b.Status)}
	}
	if b.PaymentStatus != PaymentStatusPending && b.PaymentStatus != PaymentStatusFailed {
		return &TransitionError{Transition: "initiate payment", From: string(b.PaymentStatus)}
	}
	return nil
}

// ReceivePayment records the first confirmed collection and the split it settles at.
//
// Money already moved when this is called, so the booking status does not gate it.
func (b *Booking) ReceivePayment(split pricing.Split, externalTransactionID string, now time.Time) error {
	if b.Paid() {
		return ErrAlreadyPaid
	}
	if b.PaymentStatus == PaymentStatusRefunded {
		return &TransitionError{Transition: "receive payment", From: string(b.PaymentStatus)}
	}
	b.TotalPrice = split.TotalPrice
	b.PlatformFee = split.PlatformFee
	b.ProviderPayout = split.ProviderPayout
	b.PaymentStatus = PaymentStatusPaid
	b.PaidAt = now
	if b.pastPaymentDeadline(now) {
		b.PaymentLate = true
	}
	b.TransactionID = externalTransactionID
	b.UpdatedAt = now
	return nil
}

func (b *Booking) BeginDisbursement(now time.Time) error {
	if !b.Paid() {
		return ErrNotPaid
	}
	if b.PayoutStatus == PayoutStatusProcessed {
		return &TransitionError{Transition: "disburse", From: string(b.PayoutStatus)}
	}
	b.PayoutStatus = PayoutStatusPending
	b.UpdatedAt = now
	return nil
}

func (b *Booking) CompleteDisbursement(now time.Time) error {
	if !b.Paid() {
		return ErrNotPaid
	}
	if b.PayoutStatus == PayoutStatusProcessed {
		return &TransitionError{Transition: "complete disbursement", From: string(b.PayoutStatus)}
	}
	b.PayoutStatus = PayoutStatusProcessed
	b.PayoutProcessedAt = now
	b.UpdatedAt = now
	return nil
}

func (b *Booking) FailDisbursement(now time.Time) error {
	if !b.Paid() {
		return ErrNotPaid
	}
	if b.PayoutStatus == PayoutStatusProcessed {
		return &TransitionError{Transition: "fail disbursement", From: string(b.PayoutStatus)}
	}
	b.PayoutStatus = PayoutStatusFailed
	b.UpdatedAt = now
	return nil
}

// ResolveDisbursement closes a payout an operator settled outside the gateway.
func (b *Booking) ResolveDisbursement(now time.Time) error {
	if !b.Paid() {
		return ErrNotPaid
	}
	if b.PayoutStatus == PayoutStatusProcessed {
		return &TransitionError{Transition: "resolve disbursement", From: string(b.PayoutStatus)}
	}
	b.PayoutStatus = PayoutStatusProcessed
	b.PayoutProcessedAt = now
	b.UpdatedAt = now
	return nil
}

func (b *Booking) Refund(now time.Time) error {
	if !b.Paid() {
		return &TransitionError{Transition: "refund", From: string(b.PaymentStatus)}
	}
	b.PaymentStatus = PaymentStatusRefunded
	b.RefundedAt = now
	b.UpdatedAt = now
	return nil
}
