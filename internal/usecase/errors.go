package usecase

import "errors"

var (
	ErrInvalidBookingID      = errors.New("invalid booking_id")
	ErrInvalidBookingRequest = errors.New("invalid booking request")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrForbidden             = errors.New("actor not allowed for booking")
	ErrInvalidPayerPhone     = errors.New("invalid payer phone")

	ErrGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrPaymentInitiationFailed = errors.New("payment initiation failed")

	ErrWebhookChallengeMismatch = errors.New("webhook challenge mismatch")

	ErrPayoutNotFailed       = errors.New("payout is not in failed state")
	ErrInvalidPayoutAccount  = errors.New("invalid payout account")
	ErrPayoutAccountNotFound = errors.New("provider payout account not configured")
)
