package handlers

import (
	"errors"
	"net/http"
	"time"

	"clean_cloak/internal/adapter/http/dto/request"
	"clean_cloak/internal/adapter/http/dto/response"
	"clean_cloak/internal/adapter/http/middleware"
	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase"
	"clean_cloak/internal/usecase/interfaces"
	"clean_cloak/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler handles HTTP requests for the booking lifecycle and its operator actions.
type BookingHandler struct {
	usecase usecase.IBookingUseCase
	logger  *zap.Logger
	now     func() time.Time
}

func NewBookingHandler(uc usecase.IBookingUseCase, logger *zap.Logger) *BookingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingHandler{usecase: uc, logger: logger.Named("booking_handler"), now: time.Now}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req request.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Info("invalid create booking payload", zap.Error(err))
		writeError(c, invalidRequest())
		return
	}

	b, err := h.usecase.Create(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}
	c.JSON(http.StatusCreated, response.BookingEnvelope{Success: true, Booking: response.FromBooking(b)})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	b, err := h.usecase.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}
	c.JSON(http.StatusOK, response.BookingEnvelope{Success: true, Booking: response.FromBooking(b)})
}

func (h *BookingHandler) ListUnpaid(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	bookings, err := h.usecase.ListUnpaid(c.Request.Context(), actor)
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}
	out := response.FromUnpaidBookings(bookings, h.now())
	c.JSON(http.StatusOK, response.UnpaidBookingListEnvelope{Success: true, Count: len(out), Bookings: out})
}

func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req request.ConfirmBookingRequest
	if hasBody(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, invalidRequest())
			return
		}
	}
	b, err := h.usecase.Confirm(c.Request.Context(), actor, c.Param("id"), req.ProviderID)
	h.respondBooking(c, b, err)
}

func (h *BookingHandler) StartBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	b, err := h.usecase.Start(c.Request.Context(), actor, c.Param("id"))
	h.respondBooking(c, b, err)
}

func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	b, err := h.usecase.Complete(c.Request.Context(), actor, c.Param("id"))
	h.respondBooking(c, b, err)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	b, err := h.usecase.Cancel(c.Request.Context(), actor, c.Param("id"))
	h.respondBooking(c, b, err)
}

func (h *BookingHandler) ListTransactions(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	txs, err := h.usecase.ListTransactions(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, mapBookingError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromTransactions(txs))
}

// ResolvePayout records a manual settlement of a failed provider payout.
func (h *BookingHandler) ResolvePayout(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req request.ResolvePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidRequest())
		return
	}
	b, err := h.usecase.ResolvePayout(c.Request.Context(), actor, c.Param("id"), req.ToInput())
	h.respondBooking(c, b, err)
}

func (h *BookingHandler) RefundBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req request.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidRequest())
		return
	}
	b, err := h.usecase.Refund(c.Request.Context(), actor, c.Param("id"), req.Reason)
	h.respondBooking(c, b, err)
}

func (h *BookingHandler) respondBooking(c *gin.Context, b entities.Booking, err error) {
	if err != nil {
		appErr := mapBookingError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			h.logger.Error("booking request failed", zap.String("booking_id", c.Param("id")), zap.Error(err))
		}
		writeError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, response.BookingEnvelope{Success: true, Booking: response.FromBooking(b)})
}

func mapBookingError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidBookingID), errors.Is(err, usecase.ErrInvalidBookingRequest):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidPayerPhone), errors.Is(err, entities.ErrInvalidPhone):
		return pkg.NewDomainErrorSimple("INVALID_PHONE", "Invalid phone number", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrForbidden):
		return pkg.NewDomainErrorSimple("FORBIDDEN", "Not allowed to act on this booking", http.StatusForbidden)
	case errors.Is(err, usecase.ErrBookingNotFound):
		return pkg.NewDomainErrorSimple("BOOKING_NOT_FOUND", "Booking not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrAlreadyPaid):
		return pkg.NewDomainErrorSimple("BOOKING_ALREADY_PAID", "Booking already paid", http.StatusConflict)
	case errors.Is(err, entities.ErrNotPaid):
		return pkg.NewDomainErrorSimple("BOOKING_NOT_PAID", "Booking not paid", http.StatusConflict)
	case errors.Is(err, usecase.ErrPayoutNotFailed):
		return pkg.NewDomainErrorSimple("PAYOUT_NOT_FAILED", "Payout is not in failed state", http.StatusConflict)
	case errors.Is(err, entities.ErrInvalidTransition):
		return pkg.NewDomainErrorSimple("INVALID_BOOKING_STATE", err.Error(), http.StatusConflict)
	case errors.Is(err, interfaces.ErrConcurrentUpdate):
		return pkg.NewDomainErrorSimple("CONCURRENT_UPDATE", "Booking was modified concurrently, retry", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func requireActor(c *gin.Context) (entities.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok || actor.ID == "" {
		writeError(c, pkg.NewDomainErrorSimple("UNAUTHORIZED", "Not authenticated", http.StatusUnauthorized))
		return entities.Actor{}, false
	}
	return actor, true
}

func invalidRequest() *pkg.AppError {
	return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func hasBody(c *gin.Context) bool {
	return c.Request.Body != nil && c.Request.ContentLength != 0
}
