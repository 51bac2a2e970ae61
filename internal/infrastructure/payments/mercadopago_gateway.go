package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"go.uber.org/zap"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")
var ErrMercadoPagoLookupUnavailable = errors.New("mercado pago lookup unavailable in mock mode")

const mercadoPagoApproved = "approved"

// mercadoPagoPayments is the subset of payment.Client the collector calls.
type mercadoPagoPayments interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// MercadoPagoCollector charges payers through Mercado Pago and resolves its webhook notifications.
type MercadoPagoCollector struct {
	client   mercadoPagoPayments
	mockMode bool
	logger   *zap.Logger
}

var (
	_ interfaces.IChargeCollector = (*MercadoPagoCollector)(nil)
	_ interfaces.IPaymentLookup   = (*MercadoPagoCollector)(nil)
)

func NewMercadoPagoCollector(accessToken string, mock bool, logger *zap.Logger) (*MercadoPagoCollector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("mercadopago")

	if mock {
		logger.Info("mock mode enabled")
		return &MercadoPagoCollector{mockMode: true, logger: logger}, nil
	}

	if accessToken == "" {
		logger.Error("missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		logger.Error("failed creating sdk config", zap.Error(err))
		return nil, err
	}
	logger.Info("Mercado Pago client initialized")

	return &MercadoPagoCollector{client: payment.NewClient(cfg), logger: logger}, nil
}

// mercadoPagoPaymentView is the part of a payment response the collector reads.
type mercadoPagoPaymentView struct {
	ID                int64          `json:"id"`
	Status            string         `json:"status"`
	StatusDetail      string         `json:"status_detail"`
	ExternalReference string         `json:"external_reference"`
	Metadata          map[string]any `json:"metadata"`
}

func (g *MercadoPagoCollector) CollectCharge(ctx context.Context, req entities.ChargeRequest) entities.ChargeResult {
	log := g.logger.With(zap.String("reference", req.Reference), zap.Int64("amount", req.Amount))

	if g.mockMode {
		id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		log.Info("mock create success", zap.String("provider_payment_id", id))
		return entities.ChargeSucceeded(id, req.Reference)
	}
	if g.client == nil {
		log.Error("gateway not configured")
		return entities.ChargeFailed(ErrMercadoPagoGatewayNotConfigured.Error())
	}

	metadata := make(map[string]any, len(req.Metadata))
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	payload, err := json.Marshal(map[string]any{
		"transaction_amount": req.Amount,
		"description":        req.Description,
		"payment_method_id":  "pix",
		"external_reference": req.Reference,
		"notification_url":   req.CallbackURL + "?provider=mercadopago",
		"metadata":           metadata,
		"payer": map[string]any{
			"phone": map[string]any{"number": req.Phone},
		},
	})
	if err != nil {
		return entities.ChargeFailed(fmt.Sprintf("marshal request: %v", err))
	}

	var request payment.Request
	if err := json.Unmarshal(payload, &request); err != nil {
		log.Error("payload unmarshal failed", zap.Error(err))
		return entities.ChargeFailed(fmt.Sprintf("build request: %v", err))
	}

	resp, err := g.client.Create(ctx, request)
	if err != nil {
		log.Warn("sdk create failed", zap.Error(err))
		return entities.ChargeFailed(err.Error())
	}

	view, err := viewOf(resp)
	if err != nil {
		return entities.ChargeFailed(fmt.Sprintf("decode response: %v", err))
	}
	if view.Status == "rejected" || view.Status == "cancelled" {
		log.Warn("payment rejected", zap.Int64("provider_payment_id", view.ID), zap.String("status_detail", view.StatusDetail))
		return entities.ChargeFailed("payment " + view.Status + ": " + view.StatusDetail)
	}

	log.Info("create success", zap.Int64("provider_payment_id", view.ID), zap.String("provider_status", view.Status))
	return entities.ChargeSucceeded(strconv.FormatInt(view.ID, 10), req.Reference)
}

// LookupPayment resolves a notification that only carries the payment id into a payment event.
func (g *MercadoPagoCollector) LookupPayment(ctx context.Context, paymentID string) (entities.PaymentEvent, error) {
	if g.mockMode {
		return entities.PaymentEvent{}, ErrMercadoPagoLookupUnavailable
	}
	if g.client == nil {
		return entities.PaymentEvent{}, ErrMercadoPagoGatewayNotConfigured
	}

	id, err := strconv.Atoi(strings.TrimSpace(paymentID))
	if err != nil {
		return entities.PaymentEvent{}, fmt.Errorf("invalid payment id %q: %w", paymentID, err)
	}

	resp, err := g.client.Get(ctx, id)
	if err != nil {
		return entities.PaymentEvent{}, err
	}
	view, err := viewOf(resp)
	if err != nil {
		return entities.PaymentEvent{}, err
	}
	return toPaymentEvent(view), nil
}

func toPaymentEvent(view mercadoPagoPaymentView) entities.PaymentEvent {
	status := strings.ToUpper(view.Status)
	if view.Status == mercadoPagoApproved {
		status = entities.PaymentEventStatusComplete
	}

	bookingID := ""
	if v, ok := view.Metadata["booking_id"].(string); ok {
		bookingID = strings.TrimSpace(v)
	}
	if bookingID == "" {
		bookingID = entities.BookingIDFromReference(view.ExternalReference)
	}

	raw := map[string]any{
		"id":                 view.ID,
		"status":             view.Status,
		"status_detail":      view.StatusDetail,
		"external_reference": view.ExternalReference,
	}
	return entities.PaymentEvent{
		Status:                status,
		ExternalTransactionID: strconv.FormatInt(view.ID, 10),
		BookingID:             bookingID,
		Raw:                   raw,
	}
}

func viewOf(resp *payment.Response) (mercadoPagoPaymentView, error) {
	var view mercadoPagoPaymentView
	if resp == nil {
		return view, errors.New("empty payment response")
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return view, err
	}
	err = json.Unmarshal(b, &view)
	return view, err
}
