package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ledgerly-erp/ledgerly/internal/app"
	"github.com/ledgerly-erp/ledgerly/internal/billing/customers"
	"github.com/ledgerly-erp/ledgerly/internal/billing/documents"
	"github.com/ledgerly-erp/ledgerly/internal/billing/gst"
	"github.com/ledgerly-erp/ledgerly/internal/billing/payments"
	"github.com/ledgerly-erp/ledgerly/internal/billing/settings"
	"github.com/ledgerly-erp/ledgerly/internal/observability"
	"github.com/ledgerly-erp/ledgerly/internal/platform/cache"
	"github.com/ledgerly-erp/ledgerly/internal/platform/db"
	"github.com/ledgerly-erp/ledgerly/internal/render"
	"github.com/ledgerly-erp/ledgerly/jobs"
	"github.com/ledgerly-erp/ledgerly/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// render cache and queue endpoints degrade without redis
		logger.Warn("redis unavailable", slog.Any("error", err))
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	metrics := observability.NewMetrics()

	customerRepo := customers.NewRepository(pool)
	customerService := customers.NewService(customerRepo)
	customerHandler := customers.NewHandler(logger, customerService)

	settingsRepo := settings.NewRepository(pool)
	settingsService := settings.NewService(settingsRepo)
	settingsHandler := settings.NewHandler(logger, settingsService)

	documentRepo := documents.NewRepository(pool)
	documentService := documents.NewService(documentRepo, customerRepo)
	documentHandler := documents.NewHandler(logger, documentService)

	paymentRepo := payments.NewRepository(pool)
	paymentService := payments.NewService(paymentRepo)
	paymentHandler := payments.NewHandler(logger, paymentService, metrics)

	gstRepo := gst.NewRepository(pool)
	gstService := gst.NewService(gstRepo)
	gstHandler := gst.NewHandler(logger, gstService)

	renderer := render.NewRenderer(logger)
	renderCache := render.NewByteCache(redisClient, cfg.RenderCacheTTL)
	renderHandler := render.NewHandler(logger, documentService, customerService, settingsService, renderer, renderCache, metrics)

	reportClient := report.NewClient(cfg.GotenbergURL)
	statementBuilder := report.NewStatementBuilder(reportClient, documentService, customerService, settingsService)
	reportHandler := report.NewHandler(reportClient, statementBuilder, logger)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		CustomerHandler: customerHandler,
		SettingsHandler: settingsHandler,
		DocumentHandler: documentHandler,
		PaymentHandler:  paymentHandler,
		GSTHandler:      gstHandler,
		RenderHandler:   renderHandler,
		ReportHandler:   reportHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
