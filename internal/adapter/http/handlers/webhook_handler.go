package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"clean_cloak/internal/adapter/http/dto/request"
	"clean_cloak/internal/adapter/http/dto/response"
	"clean_cloak/internal/usecase"
	"clean_cloak/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const providerMercadoPago = "mercadopago"

// WebhookHandler receives gateway notifications. It answers 200 for every well-formed
// notification so the gateway stops retrying, and 500 only when nothing was committed.
type WebhookHandler struct {
	usecase usecase.IWebhookUseCase
	logger  *zap.Logger
}

func NewWebhookHandler(uc usecase.IWebhookUseCase, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{usecase: uc, logger: logger.Named("webhook_handler")}
}

func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("webhook body unreadable", zap.Error(err))
		c.JSON(http.StatusBadRequest, response.WebhookAck{Success: false})
		return
	}

	if strings.EqualFold(c.Query("provider"), providerMercadoPago) {
		h.handleMercadoPago(c, raw)
		return
	}

	req, body, err := request.ParseCollectionWebhook(raw)
	if err != nil {
		h.logger.Warn("malformed webhook payload", zap.Int("payload_len", len(raw)))
		c.JSON(http.StatusBadRequest, response.WebhookAck{Success: false})
		return
	}

	event := req.ToPaymentEvent(body)
	result, err := h.usecase.Reconcile(c.Request.Context(), req.Challenge, event)
	h.respond(c, event.BookingID, result, err)
}

func (h *WebhookHandler) handleMercadoPago(c *gin.Context, raw []byte) {
	var n request.MercadoPagoNotification
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &n); err != nil {
			h.logger.Warn("malformed mercado pago notification", zap.Error(err))
			c.JSON(http.StatusBadRequest, response.WebhookAck{Success: false})
			return
		}
	}
	if n.Type == "" {
		n.Type = c.Query("type")
		if n.Type == "" {
			n.Type = c.Query("topic")
		}
	}
	paymentID := n.PaymentID()
	if paymentID == "" && n.Type == "payment" {
		paymentID = strings.TrimSpace(c.Query("data.id"))
		if paymentID == "" {
			paymentID = strings.TrimSpace(c.Query("id"))
		}
	}

	result, err := h.usecase.ReconcileLookup(c.Request.Context(), paymentID)
	h.respond(c, result.BookingID, result, err)
}

func (h *WebhookHandler) respond(c *gin.Context, bookingID string, result usecase.ReconcileResult, err error) {
	if err != nil {
		appErr := mapWebhookError(err)
		h.logger.Error("webhook processing failed", zap.String("booking_id", bookingID), zap.Int("status", appErr.HTTPStatus), zap.Error(err))
		writeError(c, appErr)
		return
	}
	h.logger.Info("webhook processed", zap.String("booking_id", result.BookingID), zap.String("outcome", string(result.Outcome)))
	c.JSON(http.StatusOK, response.WebhookAck{Success: true})
}

func mapWebhookError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrWebhookChallengeMismatch):
		return pkg.NewDomainErrorSimple("INVALID_CHALLENGE", "Invalid webhook challenge", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrGatewayNotConfigured):
		return pkg.NewDomainErrorSimple("PAYMENT_GATEWAY_UNAVAILABLE", "Payment gateway not configured", http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
