package pricing

import (
	"errors"
	"math"
)

// DefaultPlatformFeeRate is the operator's share of a booking price (60/40 provider/platform).
const DefaultPlatformFeeRate = 0.4

var (
	ErrNegativePrice = errors.New("price must not be negative")
	ErrInvalidRate   = errors.New("platform fee rate must be between 0 and 1")
)

// Split is the revenue split of a gross booking price.
//
// Each share is rounded independently, so PlatformFee+ProviderPayout may differ from
// TotalPrice by one unit. Settled amounts keep that drift; see Drift.
type Split struct {
	TotalPrice     int64 `json:"total_price"`
	PlatformFee    int64 `json:"platform_fee"`
	ProviderPayout int64 `json:"provider_payout"`
}

// Drift is PlatformFee+ProviderPayout-TotalPrice.
func (s Split) Drift() int64 {
	return s.PlatformFee + s.ProviderPayout - s.TotalPrice
}

// Policy derives provider payouts from gross prices.
type Policy struct {
	PlatformFeeRate float64
}

func NewPolicy(platformFeeRate float64) (Policy, error) {
	if math.IsNaN(platformFeeRate) || platformFeeRate < 0 || platformFeeRate > 1 {
		return Policy{}, ErrInvalidRate
	}
	return Policy{PlatformFeeRate: platformFeeRate}, nil
}

func DefaultPolicy() Policy {
	return Policy{PlatformFeeRate: DefaultPlatformFeeRate}
}

func (p Policy) ProviderRate() float64 {
	return 1 - p.PlatformFeeRate
}

func (p Policy) Split(price int64) (Split, error) {
	if price < 0 {
		return Split{}, ErrNegativePrice
	}
	return Split{
		TotalPrice:     price,
		PlatformFee:    roundShare(price, p.PlatformFeeRate),
		ProviderPayout: roundShare(price, p.ProviderRate()),
	}, nil
}

// roundShare rounds half away from zero, which matches half-up for non-negative prices.
func roundShare(price int64, rate float64) int64 {
	return int64(math.Round(float64(price) * rate))
}
