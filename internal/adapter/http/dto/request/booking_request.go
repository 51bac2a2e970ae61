package request

import (
	"strings"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase"
)

type CreateBookingRequest struct {
	ServiceCategory string `json:"serviceCategory" binding:"required"`
	PaymentMethod   string `json:"paymentMethod"`
	Price           int64  `json:"price" binding:"required,gt=0"`
	PhoneNumber     string `json:"phoneNumber"`
}

func (r CreateBookingRequest) ToInput() usecase.CreateBookingInput {
	method := entities.PaymentMethod(strings.TrimSpace(r.PaymentMethod))
	if method == "" {
		method = entities.PaymentMethodMpesa
	}
	return usecase.CreateBookingInput{
		ServiceCategory: entities.ServiceCategory(strings.TrimSpace(r.ServiceCategory)),
		PaymentMethod:   method,
		Price:           r.Price,
		ClientPhone:     strings.TrimSpace(r.PhoneNumber),
	}
}

// ConfirmBookingRequest lets an admin assign a provider; a cleaner confirming assigns themself.
type ConfirmBookingRequest struct {
	ProviderID string `json:"providerId"`
}

type ResolvePayoutRequest struct {
	ExternalReference string `json:"externalReference" binding:"required"`
	Note              string `json:"note"`
}

func (r ResolvePayoutRequest) ToInput() usecase.ResolvePayoutInput {
	return usecase.ResolvePayoutInput{
		ExternalReference: strings.TrimSpace(r.ExternalReference),
		Note:              strings.TrimSpace(r.Note),
	}
}

type RefundRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type PayoutAccountRequest struct {
	MpesaPhoneNumber string `json:"mpesaPhoneNumber" binding:"required"`
}
