package entities

import "time"

// PayoutAlert describes a disbursement that failed and must be settled by an operator.
type PayoutAlert struct {
	BookingID  string    `json:"booking_id"`
	ProviderID string    `json:"provider_id"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	Reference  string    `json:"reference"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
