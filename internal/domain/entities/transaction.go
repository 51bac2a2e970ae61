package entities

import "time"

type TransactionType string

const (
	TransactionTypePayment TransactionType = "payment"
	TransactionTypePayout  TransactionType = "payout"
	TransactionTypeRefund  TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// DefaultCurrency is the settlement currency of M-Pesa collections and transfers.
const DefaultCurrency = "KES"

// Transaction is one money movement in the journal.
//
// Records are append-only: after creation only Status, ProcessedAt, ExternalTransactionID and
// Metadata change, and only while the record is still pending.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (booking_id-index): booking_id, sorted by created_at
type Transaction struct {
	ID                    string            `json:"id"`
	BookingID             string            `json:"booking_id"`
	ClientID              string            `json:"client_id"`
	ProviderID            string            `json:"provider_id,omitempty"`
	Type                  TransactionType   `json:"type"`
	Amount                int64             `json:"amount"`
	Currency              string            `json:"currency"`
	Status                TransactionStatus `json:"status"`
	PaymentMethod         PaymentMethod     `json:"payment_method"`
	ExternalTransactionID string            `json:"transaction_id,omitempty"`
	Reference             string            `json:"reference"`
	Description           string            `json:"description"`
	Metadata              map[string]any    `json:"metadata,omitempty"`
	ProcessedAt           time.Time         `json:"processed_at,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
}

// TransactionOutcome is the terminal update applied to a pending journal record.
type TransactionOutcome struct {
	Status                TransactionStatus
	ExternalTransactionID string
	ProcessedAt           time.Time
	Metadata              map[string]any
}

// Journal record ids are derived from the booking so a second insert for the same leg fails.
func PaymentTransactionID(bookingID string) string { return "payment-" + bookingID }
func PayoutTransactionID(bookingID string) string  { return "payout-" + bookingID }

func PayoutReference(bookingID string) string       { return "CLEANER_PAYOUT_JOB_" + bookingID }
func FailedPayoutReference(bookingID string) string { return "FAILED_CLEANER_PAYOUT_JOB_" + bookingID }
func ManualPayoutReference(bookingID string) string { return "MANUAL_CLEANER_PAYOUT_JOB_" + bookingID }
func RefundReference(bookingID string) string       { return "REFUND_JOB_" + bookingID }
