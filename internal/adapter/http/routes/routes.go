package routes

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "clean_cloak/docs"
	"clean_cloak/internal/adapter/http/handlers"
	"clean_cloak/internal/adapter/http/middleware"
	"clean_cloak/internal/adapter/persistence/repository"
	"clean_cloak/internal/domain/pricing"
	"clean_cloak/internal/infrastructure/config"
	"clean_cloak/internal/infrastructure/database"
	"clean_cloak/internal/infrastructure/logger"
	"clean_cloak/internal/infrastructure/notifications"
	"clean_cloak/internal/infrastructure/payments"
	"clean_cloak/internal/usecase"
	"clean_cloak/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Run loads configuration, wires the settlement service and serves until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	awsCfg, err := database.NewAWSConfigFromEnv(context.Background())
	if err != nil {
		log.Error("failed loading aws config", zap.Error(err))
		return err
	}

	router := gin.New()
	setMiddlewares(router, cfg, log)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addSettlementRoutes(v1, buildHandlers(cfg, awsCfg, log), cfg.JWTSecret)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Payment initiation waits on the gateway for up to GatewayTimeout.
		WriteTimeout: cfg.GatewayTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	log.Info("settlement service started",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
		zap.String("payment_gateway", cfg.PaymentGateway),
		zap.Bool("mock_gateway", cfg.MockGateway),
	)

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server failed", zap.Error(err))
			return err
		}
		return nil
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	log.Info("server exited cleanly")
	return nil
}

func buildHandlers(cfg config.Config, awsCfg aws.Config, log *zap.Logger) settlementHandlers {
	ddb := database.NewDynamoDBClient(awsCfg)

	bookingRepo := repository.NewBookingDynamoRepository(ddb, cfg.BookingsTable)
	transactionRepo := repository.NewTransactionDynamoRepository(ddb, cfg.TransactionsTable)
	profileRepo := repository.NewProviderProfileDynamoRepository(ddb, cfg.ProviderProfilesTable)

	gw := selectGateways(cfg, log)
	alerter := notifications.NewSNSAlerterFromConfig(awsCfg, cfg.PayoutAlertTopicARN, log)

	// Load already validated the rate.
	policy, _ := pricing.NewPolicy(cfg.PlatformFeeRate)

	payoutUseCase := usecase.NewPayoutUseCase(bookingRepo, transactionRepo, profileRepo, gw.transferrer, alerter, usecase.PayoutSettings{
		CountryCode:     cfg.CountryCode,
		Currency:        cfg.Currency,
		TransferTimeout: cfg.GatewayTimeout,
	}, log)
	webhookUseCase := usecase.NewWebhookUseCase(bookingRepo, transactionRepo, payoutUseCase, gw.lookup, policy, usecase.WebhookSettings{
		Challenge: cfg.WebhookChallenge,
		Currency:  cfg.Currency,
	}, log)
	paymentUseCase := usecase.NewPaymentUseCase(bookingRepo, gw.collector, usecase.PaymentSettings{
		CallbackURL:    cfg.WebhookURL(),
		CountryCode:    cfg.CountryCode,
		Currency:       cfg.Currency,
		GatewayTimeout: cfg.GatewayTimeout,
	}, log)
	bookingUseCase := usecase.NewBookingUseCase(bookingRepo, transactionRepo, usecase.BookingSettings{
		CountryCode:   cfg.CountryCode,
		Currency:      cfg.Currency,
		PaymentWindow: cfg.PaymentWindow,
	}, log)
	providerUseCase := usecase.NewProviderUseCase(profileRepo, cfg.CountryCode, log)

	return settlementHandlers{
		bookings:  handlers.NewBookingHandler(bookingUseCase, log),
		payments:  handlers.NewPaymentHandler(paymentUseCase, log),
		webhooks:  handlers.NewWebhookHandler(webhookUseCase, log),
		providers: handlers.NewProviderHandler(providerUseCase, log),
	}
}

type gateways struct {
	collector   interfaces.IChargeCollector
	transferrer interfaces.IFundsTransferrer
	lookup      interfaces.IPaymentLookup
}

// selectGateways builds the configured collector. Disbursement always goes through
// IntaSend B2C; Mercado Pago only collects and answers payment lookups.
// A gateway that fails to initialize is left nil and the use cases report it as not configured.
func selectGateways(cfg config.Config, log *zap.Logger) gateways {
	var gw gateways

	intaSend, err := payments.NewIntaSendGateway(payments.IntaSendConfig{
		PublishableKey: cfg.IntaSendPublishableKey,
		SecretKey:      cfg.IntaSendSecretKey,
		BaseURL:        cfg.IntaSendBaseURL,
		TestMode:       cfg.IntaSendTestMode,
		Mock:           cfg.MockGateway,
		HTTPClient:     &http.Client{Timeout: cfg.GatewayTimeout},
	}, log)
	if err != nil {
		log.Warn("IntaSend gateway not configured", zap.Error(err))
	} else {
		gw.transferrer = intaSend
		if cfg.PaymentGateway == config.GatewayIntaSend {
			gw.collector = intaSend
		}
	}

	if cfg.PaymentGateway == config.GatewayMercadoPago || cfg.MercadoPagoAccessToken != "" {
		mp, err := payments.NewMercadoPagoCollector(cfg.MercadoPagoAccessToken, cfg.MockGateway, log)
		if err != nil {
			log.Warn("Mercado Pago gateway not configured", zap.Error(err))
		} else {
			gw.lookup = mp
			if cfg.PaymentGateway == config.GatewayMercadoPago {
				gw.collector = mp
			}
		}
	}
	return gw
}

func setMiddlewares(router *gin.Engine, cfg config.Config, log *zap.Logger) {
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: len(cfg.CORSAllowedOrigins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))
}
