package entities

import (
	"errors"
	"strings"
	"time"
)

// DefaultCountryCode is the dialing prefix used when normalizing local numbers.
const DefaultCountryCode = "254"

var ErrInvalidPhone = errors.New("invalid phone number")

// ProviderProfile holds the payout account of a service provider.
//
// Storage model (DynamoDB):
//   - PK: user_id
type ProviderProfile struct {
	UserID           string    `json:"user_id"`
	MpesaPhoneNumber string    `json:"mpesa_phone_number"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PayoutMSISDN returns the payout account in international form.
func (p ProviderProfile) PayoutMSISDN(countryCode string) (string, error) {
	if strings.TrimSpace(p.MpesaPhoneNumber) == "" {
		return "", ErrInvalidPhone
	}
	return NormalizeMSISDN(p.MpesaPhoneNumber, countryCode)
}

// NormalizeMSISDN converts 07XXXXXXXX, +2547XXXXXXXX and 2547XXXXXXXX into 2547XXXXXXXX.
func NormalizeMSISDN(phone, countryCode string) (string, error) {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	p := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	p = strings.TrimPrefix(p, "+")
	if strings.HasPrefix(p, "0") {
		p = countryCode + strings.TrimPrefix(p, "0")
	}
	if len(p) < 9 || len(p) > 15 {
		return "", ErrInvalidPhone
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhone
		}
	}
	return p, nil
}
