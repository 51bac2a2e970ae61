package routes

import (
	"clean_cloak/internal/adapter/http/handlers"
	"clean_cloak/internal/adapter/http/middleware"
	"clean_cloak/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

const (
	PathPayments  = "/payments"
	PathBookings  = "/bookings"
	PathAdmin     = "/admin"
	PathProviders = "/providers"
)

type settlementHandlers struct {
	bookings  *handlers.BookingHandler
	payments  *handlers.PaymentHandler
	webhooks  *handlers.WebhookHandler
	providers *handlers.ProviderHandler
}

var providerRoles = []entities.Role{entities.RoleCleaner, entities.RoleAdmin}

func addSettlementRoutes(rg *gin.RouterGroup, h settlementHandlers, jwtSecret string) {
	// The gateway calls this without a bearer token; it is authenticated by the challenge.
	rg.POST(PathPayments+"/webhook", h.webhooks.HandlePaymentWebhook)

	authed := rg.Group("", middleware.Auth(jwtSecret))

	payments := authed.Group(PathPayments)
	{
		payments.POST("/initiate", middleware.RequireRoles(entities.RoleClient), h.payments.InitiatePayment)
		payments.GET("/status/:bookingId", h.payments.GetPaymentStatus)
	}

	bookings := authed.Group(PathBookings)
	{
		bookings.POST("", middleware.RequireRoles(entities.RoleClient), h.bookings.CreateBooking)
		bookings.GET("/unpaid", middleware.RequireRoles(entities.RoleClient), h.bookings.ListUnpaid)
		bookings.GET("/:id", h.bookings.GetBooking)
		bookings.POST("/:id/pay", middleware.RequireRoles(entities.RoleClient), h.payments.PayBooking)
		bookings.PATCH("/:id/confirm", middleware.RequireRoles(providerRoles...), h.bookings.ConfirmBooking)
		bookings.PATCH("/:id/start", middleware.RequireRoles(providerRoles...), h.bookings.StartBooking)
		bookings.POST("/:id/complete", middleware.RequireRoles(providerRoles...), h.bookings.CompleteBooking)
		bookings.PATCH("/:id/cancel", h.bookings.CancelBooking)
		bookings.GET("/:id/transactions", h.bookings.ListTransactions)
	}

	admin := authed.Group(PathAdmin, middleware.RequireRoles(entities.RoleAdmin))
	{
		admin.POST(PathBookings+"/:id/payout/resolve", h.bookings.ResolvePayout)
		admin.POST(PathBookings+"/:id/refund", h.bookings.RefundBooking)
	}

	providers := authed.Group(PathProviders, middleware.RequireRoles(entities.RoleCleaner))
	{
		providers.PUT("/me/payout-account", h.providers.SetPayoutAccount)
		providers.GET("/me/payout-account", h.providers.GetPayoutAccount)
	}
}
