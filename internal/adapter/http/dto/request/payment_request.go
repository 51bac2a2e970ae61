package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"clean_cloak/internal/domain/entities"
)

var ErrInvalidWebhookPayload = errors.New("invalid webhook payload")

type InitiatePaymentRequest struct {
	BookingID   string `json:"bookingId" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// PayBookingRequest is optional; without a phone the booking's client phone is charged.
type PayBookingRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

// flexString accepts ids the gateway sends either as JSON strings or numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// CollectionWebhookRequest is the mobile-money collection notification.
//
// Status arrives as "status" on older payloads and "state" on invoice events; the
// transaction id may be any of id, transaction_id or invoice_id.
type CollectionWebhookRequest struct {
	Status        string         `json:"status"`
	State         string         `json:"state"`
	ID            flexString     `json:"id"`
	TransactionID flexString     `json:"transaction_id"`
	InvoiceID     flexString     `json:"invoice_id"`
	APIRef        string         `json:"api_ref"`
	Challenge     string         `json:"challenge"`
	Metadata      map[string]any `json:"metadata"`
}

// ParseCollectionWebhook decodes a raw notification body. Anything that is not a JSON object is rejected.
func ParseCollectionWebhook(raw []byte) (CollectionWebhookRequest, map[string]any, error) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return CollectionWebhookRequest{}, nil, ErrInvalidWebhookPayload
	}
	var req CollectionWebhookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return CollectionWebhookRequest{}, nil, ErrInvalidWebhookPayload
	}
	return req, body, nil
}

// ToPaymentEvent keeps the gateway status as sent apart from surrounding whitespace.
// Only the exact "COMPLETE" settles a booking.
func (r CollectionWebhookRequest) ToPaymentEvent(raw map[string]any) entities.PaymentEvent {
	status := strings.TrimSpace(r.Status)
	if status == "" {
		status = strings.TrimSpace(r.State)
	}

	externalID := firstNonEmpty(string(r.ID), string(r.TransactionID), string(r.InvoiceID))

	bookingID := ""
	if v, ok := r.Metadata["booking_id"]; ok {
		switch id := v.(type) {
		case string:
			bookingID = strings.TrimSpace(id)
		case float64:
			bookingID = strconv.FormatFloat(id, 'f', -1, 64)
		}
	}
	if bookingID == "" {
		bookingID = entities.BookingIDFromReference(r.APIRef)
	}

	return entities.PaymentEvent{
		Status:                status,
		ExternalTransactionID: externalID,
		BookingID:             bookingID,
		Raw:                   raw,
	}
}

// MercadoPagoNotification is the Mercado Pago webhook envelope; only payment topics are reconciled.
type MercadoPagoNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID flexString `json:"id"`
	} `json:"data"`
}

func (n MercadoPagoNotification) PaymentID() string {
	if n.Type != "" && n.Type != "payment" {
		return ""
	}
	return strings.TrimSpace(string(n.Data.ID))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
