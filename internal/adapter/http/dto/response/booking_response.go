package response

import (
	"time"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase"
)

type BookingResponse struct {
	ID              string `json:"id"`
	ClientID        string `json:"clientId"`
	ProviderID      string `json:"providerId,omitempty"`
	ServiceCategory string `json:"serviceCategory"`
	PaymentMethod   string `json:"paymentMethod"`
	Price           int64  `json:"price"`
	Status          string `json:"status"`

	TotalPrice     int64 `json:"totalPrice"`
	PlatformFee    int64 `json:"platformFee"`
	ProviderPayout int64 `json:"cleanerPayout"`

	Paid              bool       `json:"paid"`
	PaymentStatus     string     `json:"paymentStatus"`
	PaidAt            *time.Time `json:"paidAt,omitempty"`
	TransactionID     string     `json:"transactionId,omitempty"`
	PayoutStatus      string     `json:"payoutStatus"`
	PayoutProcessedAt *time.Time `json:"payoutProcessedAt,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	PaymentDeadline   *time.Time `json:"paymentDeadline,omitempty"`
	PaymentLate       bool       `json:"paymentLate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromBooking(b entities.Booking) BookingResponse {
	return BookingResponse{
		ID:                b.ID,
		ClientID:          b.ClientID,
		ProviderID:        b.ProviderID,
		ServiceCategory:   string(b.ServiceCategory),
		PaymentMethod:     string(b.PaymentMethod),
		Price:             b.Price,
		Status:            string(b.Status),
		TotalPrice:        b.TotalPrice,
		PlatformFee:       b.PlatformFee,
		ProviderPayout:    b.ProviderPayout,
		Paid:              b.Paid(),
		PaymentStatus:     string(b.PaymentStatus),
		PaidAt:            timePtr(b.PaidAt),
		TransactionID:     b.TransactionID,
		PayoutStatus:      string(b.PayoutStatus),
		PayoutProcessedAt: timePtr(b.PayoutProcessedAt),
		CompletedAt:       timePtr(b.CompletedAt),
		PaymentDeadline:   timePtr(b.PaymentDeadline),
		PaymentLate:       b.PaymentLate,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// UnpaidBookingResponse adds the payment countdown. TimeRemainingMs is null until the job is
// completed and floors at zero once the deadline passes.
type UnpaidBookingResponse struct {
	BookingResponse
	TimeRemainingMs *int64 `json:"timeRemainingMs"`
	IsOverdue       bool   `json:"isOverdue"`
}

func FromUnpaidBookings(bs []entities.Booking, now time.Time) []UnpaidBookingResponse {
	out := make([]UnpaidBookingResponse, 0, len(bs))
	for _, b := range bs {
		item := UnpaidBookingResponse{BookingResponse: FromBooking(b), IsOverdue: b.PaymentOverdue(now)}
		if remaining, ok := b.PaymentTimeRemaining(now); ok {
			ms := remaining.Milliseconds()
			item.TimeRemainingMs = &ms
		}
		out = append(out, item)
	}
	return out
}

type UnpaidBookingListEnvelope struct {
	Success  bool                    `json:"success"`
	Count    int                     `json:"count"`
	Bookings []UnpaidBookingResponse `json:"bookings"`
}

type BookingEnvelope struct {
	Success bool            `json:"success"`
	Booking BookingResponse `json:"booking"`
}

type PaymentInitiationResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	BookingID        string `json:"bookingId"`
	Reference        string `json:"reference"`
	PaymentReference string `json:"paymentReference"`
	TrackingID       string `json:"tracking_id,omitempty"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Phone            string `json:"phone"`
}

func FromPaymentInitiation(p usecase.PaymentInitiation) PaymentInitiationResponse {
	return PaymentInitiationResponse{
		Success:          true,
		Message:          "STK push sent. Check your phone.",
		BookingID:        p.BookingID,
		Reference:        p.Reference,
		PaymentReference: p.CheckoutID,
		TrackingID:       p.TrackingID,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Phone:            p.Phone,
	}
}

type PaymentStatusResponse struct {
	Success       bool       `json:"success"`
	BookingID     string     `json:"bookingId"`
	PaymentStatus string     `json:"paymentStatus"`
	Paid          bool       `json:"paid"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	TransactionID string     `json:"transactionId,omitempty"`
	PayoutStatus  string     `json:"payoutStatus"`
}

func FromPaymentStatus(b entities.Booking) PaymentStatusResponse {
	return PaymentStatusResponse{
		Success:       true,
		BookingID:     b.ID,
		PaymentStatus: string(b.PaymentStatus),
		Paid:          b.Paid(),
		PaidAt:        timePtr(b.PaidAt),
		TransactionID: b.TransactionID,
		PayoutStatus:  string(b.PayoutStatus),
	}
}

// WebhookAck is the body every accepted gateway notification gets, whatever the settlement outcome.
type WebhookAck struct {
	Success bool `json:"success"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
