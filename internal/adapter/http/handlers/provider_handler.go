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

type ProviderHandler struct {
	usecase usecase.IProviderUseCase
	logger  *zap.Logger
}

func NewProviderHandler(uc usecase.IProviderUseCase, logger *zap.Logger) *ProviderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProviderHandler{usecase: uc, logger: logger.Named("provider_handler")}
}

func (h *ProviderHandler) SetPayoutAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req request.PayoutAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidRequest())
		return
	}
	p, err := h.usecase.SetPayoutAccount(c.Request.Context(), actor, req.MpesaPhoneNumber)
	if err != nil {
		appErr := mapProviderError(err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			h.logger.Error("payout account update failed", zap.String("provider_id", actor.ID), zap.Error(err))
		}
		writeError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, response.FromProviderProfile(p))
}

func (h *ProviderHandler) GetPayoutAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	p, err := h.usecase.GetPayoutAccount(c.Request.Context(), actor)
	if err != nil {
		writeError(c, mapProviderError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromProviderProfile(p))
}

func mapProviderError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPayoutAccount):
		return pkg.NewDomainErrorSimple("INVALID_PAYOUT_ACCOUNT", "Invalid M-Pesa phone number", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPayoutAccountNotFound):
		return pkg.NewDomainErrorSimple("PAYOUT_ACCOUNT_NOT_FOUND", "Payout account not configured", http.StatusNotFound)
	case errors.Is(err, usecase.ErrForbidden):
		return pkg.NewDomainErrorSimple("FORBIDDEN", "Only cleaners have payout accounts", http.StatusForbidden)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
