package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/config"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/event"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/event/amqp"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/event/kafka"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/handler"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/middleware"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/repository"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/repository/storage"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/service"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Fortuna Ledger API
// @version 1.0
// @description Personal finance ledger: transactions, investments, goals, budgets, projections, reports and taxes.
// @BasePath /api/v1
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	taxTables, err := config.LoadTaxTables(cfg.TaxTablesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load tax tables")
	}

	ctx := context.Background()

	repos, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger storage")
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close ledger storage")
		}
	}()

	// Ledger events go to websocket clients and, optionally, a broker
	hub := websocket.NewHub()
	publisher, broker := newEventPublisher(cfg.Events, hub)
	if broker != nil {
		defer func() {
			if err := broker.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close event broker")
			}
		}()
	}

	// Initialize services
	ledgerService := service.NewLedgerService(repos.Transactions, repos.Investments, repos.Goals, repos.Budgets)
	transactionService := service.NewTransactionService(repos.Transactions)
	transactionService.SetEventPublisher(publisher)
	importService := service.NewImportService(repos.Transactions)
	importService.SetEventPublisher(publisher)
	investmentService := service.NewInvestmentService(repos.Investments)
	investmentService.SetEventPublisher(publisher)
	goalService := service.NewGoalService(repos.Goals)
	goalService.SetEventPublisher(publisher)
	budgetService := service.NewBudgetService(repos.Budgets, ledgerService)
	budgetService.SetEventPublisher(publisher)
	summaryService := service.NewSummaryService(ledgerService)
	projectionService := service.NewProjectionService(ledgerService)
	reportService := service.NewReportService(ledgerService)
	taxService := service.NewTaxService(taxTables)

	if cfg.S3.Enabled() {
		archive, err := storage.NewS3ReportArchive(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize report archive")
		}
		reportService.SetArchive(archive)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Report archiving enabled")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	handlers := handler.Handlers{
		Transaction: handler.NewTransactionHandler(transactionService, importService),
		Investment:  handler.NewInvestmentHandler(investmentService),
		Goal:        handler.NewGoalHandler(goalService),
		Budget:      handler.NewBudgetHandler(budgetService),
		Summary:     handler.NewSummaryHandler(summaryService),
		Projection:  handler.NewProjectionHandler(projectionService),
		Report:      handler.NewReportHandler(reportService),
		Tax:         handler.NewTaxHandler(taxService),
		WebSocket:   handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
		OpenAPI:     handler.NewOpenAPI3Handler(cfg.Port, cfg.PublicURL),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders:    []string{echo.HeaderContentDisposition, handler.HeaderArchiveKey, handler.HeaderArchiveURL},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	e.Use(zerologMiddleware())
	e.Use(echomiddleware.Recover())

	handler.RegisterRoutes(e, handlers, rateLimiter)

	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageBackend).Str("events", cfg.Events.Backend).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	hub.CloseAll()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newEventPublisher combines the websocket hub with the configured broker. A broker that
// cannot be reached is logged and skipped so the API still serves requests.
func newEventPublisher(cfg config.EventsConfig, hub *websocket.Hub) (event.Publisher, event.Closer) {
	switch cfg.Backend {
	case config.EventsAMQP:
		p, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Error().Err(err).Str("exchange", cfg.AMQPExchange).Msg("AMQP unavailable, events go to websocket clients only")
			return hub, nil
		}
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("Publishing ledger events to AMQP")
		return event.MultiPublisher{hub, p}, p
	case config.EventsKafka:
		p := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("Publishing ledger events to Kafka")
		return event.MultiPublisher{hub, p}, p
	}
	return hub, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			evt := log.Info()
			if res.Status >= http.StatusInternalServerError {
				evt = log.Error()
			}
			evt.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
