package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/domain/pricing"
)

const (
	GatewayIntaSend    = "intasend"
	GatewayMercadoPago = "mercadopago"
)

// ErrMissingWebhookChallenge stops a production process that would accept unauthenticated
// payment callbacks from a live gateway.
var ErrMissingWebhookChallenge = errors.New("WEBHOOK_CHALLENGE is required in production unless the gateway is mocked")

// Config is the process configuration, read once from the environment at startup.
//
// Supported env vars:
//   - PORT (default: 8080), GIN_MODE, APP_ENV (production|development)
//   - BOOKINGS_TABLE, TRANSACTIONS_TABLE, PROVIDER_PROFILES_TABLE
//   - PAYMENT_GATEWAY (intasend|mercadopago), PAYMENT_GATEWAY_MOCK / MERCADOPAGO_MOCK
//   - INTASEND_PUBLISHABLE_KEY, INTASEND_SECRET_KEY, INTASEND_BASE_URL, INTASEND_TEST_MODE
//   - MERCADOPAGO_ACCESS_TOKEN
//   - PUBLIC_BASE_URL (webhook callback), WEBHOOK_CHALLENGE (required in production with a live gateway)
//   - COUNTRY_CODE (default: 254), CURRENCY (default: KES), PLATFORM_FEE_RATE (default: 0.4)
//   - GATEWAY_TIMEOUT (default: 30s), PAYMENT_WINDOW (default: 2h after completion)
//   - JWT_SECRET, CORS_ALLOWED_ORIGINS (comma separated)
//   - PAYOUT_ALERT_TOPIC_ARN (optional SNS topic)
type Config struct {
	Port    string
	GinMode string
	AppEnv  string

	BookingsTable         string
	TransactionsTable     string
	ProviderProfilesTable string

	PaymentGateway string
	MockGateway    bool

	IntaSendPublishableKey string
	IntaSendSecretKey      string
	IntaSendBaseURL        string
	IntaSendTestMode       bool

	MercadoPagoAccessToken string

	PublicBaseURL    string
	WebhookChallenge string

	CountryCode     string
	Currency        string
	PlatformFeeRate float64
	GatewayTimeout  time.Duration
	PaymentWindow   time.Duration

	JWTSecret          string
	CORSAllowedOrigins []string

	PayoutAlertTopicARN string
}

func Load() (Config, error) {
	cfg := Config{
		Port:    getenvDefault("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),
		AppEnv:  getenvDefault("APP_ENV", "development"),

		BookingsTable:         getenvDefault("BOOKINGS_TABLE", "bookings"),
		TransactionsTable:     getenvDefault("TRANSACTIONS_TABLE", "transactions"),
		ProviderProfilesTable: getenvDefault("PROVIDER_PROFILES_TABLE", "provider_profiles"),

		PaymentGateway: strings.ToLower(getenvDefault("PAYMENT_GATEWAY", GatewayIntaSend)),
		MockGateway:    isTruthy(os.Getenv("PAYMENT_GATEWAY_MOCK")) || isTruthy(os.Getenv("MERCADOPAGO_MOCK")),

		IntaSendPublishableKey: os.Getenv("INTASEND_PUBLISHABLE_KEY"),
		IntaSendSecretKey:      os.Getenv("INTASEND_SECRET_KEY"),
		IntaSendBaseURL:        os.Getenv("INTASEND_BASE_URL"),
		IntaSendTestMode:       isTruthy(getenvDefault("INTASEND_TEST_MODE", "true")),

		MercadoPagoAccessToken: os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),

		PublicBaseURL:    strings.TrimRight(getenvDefault("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		WebhookChallenge: os.Getenv("WEBHOOK_CHALLENGE"),

		CountryCode: getenvDefault("COUNTRY_CODE", entities.DefaultCountryCode),
		Currency:    getenvDefault("CURRENCY", entities.DefaultCurrency),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		PayoutAlertTopicARN: os.Getenv("PAYOUT_ALERT_TOPIC_ARN"),
	}

	rate, err := strconv.ParseFloat(getenvDefault("PLATFORM_FEE_RATE", strconv.FormatFloat(pricing.DefaultPlatformFeeRate, 'f', -1, 64)), 64)
	if err != nil {
		return Config{}, fmt.Errorf("PLATFORM_FEE_RATE: %w", err)
	}
	if _, err := pricing.NewPolicy(rate); err != nil {
		return Config{}, fmt.Errorf("PLATFORM_FEE_RATE: %w", err)
	}
	cfg.PlatformFeeRate = rate

	timeout, err := time.ParseDuration(getenvDefault("GATEWAY_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("GATEWAY_TIMEOUT: invalid duration %q", os.Getenv("GATEWAY_TIMEOUT"))
	}
	cfg.GatewayTimeout = timeout

	window, err := time.ParseDuration(getenvDefault("PAYMENT_WINDOW", entities.DefaultPaymentWindow.String()))
	if err != nil || window <= 0 {
		return Config{}, fmt.Errorf("PAYMENT_WINDOW: invalid duration %q", os.Getenv("PAYMENT_WINDOW"))
	}
	cfg.PaymentWindow = window

	switch cfg.PaymentGateway {
	case GatewayIntaSend, GatewayMercadoPago:
	default:
		return Config{}, fmt.Errorf("PAYMENT_GATEWAY: unsupported gateway %q", cfg.PaymentGateway)
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Production() && !cfg.MockGateway && cfg.WebhookChallenge == "" {
		return Config{}, ErrMissingWebhookChallenge
	}

	return cfg, nil
}

// WebhookURL is the callback the gateway notifies about collections.
func (c Config) WebhookURL() string {
	return c.PublicBaseURL + "/v1/payments/webhook"
}

func (c Config) Production() bool {
	return c.AppEnv == "production"
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
