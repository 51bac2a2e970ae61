package handlers

import (
	"errors"
	"net/http"

	"clean_cloak/internal/adapter/http/dto/request"
	"clean_cloak/internal/adapter/http/dto/response"
	"clean_cloak/internal/usecase"
	"clean_cloak/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler handles HTTP requests that start or read collections.
type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
	logger  *zap.Logger
}

func NewPaymentHandler(uc usecase.IPaymentUseCase, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentHandler{usecase: uc, logger: logger.Named("payment_handler")}
}

// InitiatePayment triggers an STK push for the booking in the body.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req request.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Info("invalid initiate payload", zap.Error(err))
		writeError(c, pkg.NewDomainErrorSimple("INVALID_REQUEST", "Booking ID and phone number are required", http.StatusBadRequest))
		return
	}

	initiation, err := h.usecase.InitiatePayment(c.Request.Context(), actor, req.BookingID, req.PhoneNumber)
	if err != nil {
		h.fail(c, req.BookingID, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentInitiation(initiation))
}

// PayBooking triggers an STK push for the booking in the path; the body phone is optional.
func (h *PaymentHandler) PayBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req request.PayBookingRequest
	if hasBody(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, invalidRequest())
			return
		}
	}

	bookingID := c.Param("id")
	initiation, err := h.usecase.PayBooking(c.Request.Context(), actor, bookingID, req.PhoneNumber)
	if err != nil {
		h.fail(c, bookingID, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentInitiation(initiation))
}

func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	b, err := h.usecase.GetPaymentStatus(c.Request.Context(), actor, c.Param("bookingId"))
	if err != nil {
		writeError(c, mapPaymentError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentStatus(b))
}

func (h *PaymentHandler) fail(c *gin.Context, bookingID string, err error) {
	appErr := mapPaymentError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.Error("payment initiation failed", zap.String("booking_id", bookingID), zap.Error(err))
	}
	writeError(c, appErr)
}

func mapPaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrPaymentInitiationFailed):
		return pkg.NewDomainErrorSimple("PAYMENT_INITIATION_FAILED", "Failed to initiate payment", http.StatusBadGateway)
	case errors.Is(err, usecase.ErrGatewayNotConfigured):
		return pkg.NewDomainErrorSimple("PAYMENT_GATEWAY_UNAVAILABLE", "Payment gateway not configured", http.StatusServiceUnavailable)
	default:
		return mapBookingError(err)
	}
}
