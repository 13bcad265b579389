// Package main is the entry point for the fleet dashboard API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fleetdash/backend/internal/auth"
	"github.com/fleetdash/backend/internal/config"
	"github.com/fleetdash/backend/internal/events"
	"github.com/fleetdash/backend/internal/handler"
	"github.com/fleetdash/backend/internal/middleware"
	"github.com/fleetdash/backend/internal/repo"
	"github.com/fleetdash/backend/internal/service"
	"github.com/fleetdash/backend/internal/tripcode"
	"github.com/fleetdash/backend/migrations"
)

const (
	eventQueueSize    = 256
	eventTimeout      = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
	startupPingBudget = 10 * time.Second
)

func main() {
	// A .env file is optional; real environment variables take precedence.
	_ = godotenv.Load()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	pingCtx, cancelPing := context.WithTimeout(context.Background(), startupPingBudget)
	err = pool.Ping(pingCtx)
	cancelPing()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		sqlDB := stdlib.OpenDBFromPool(pool)
		n, err := migrations.Up(context.Background(), sqlDB)
		_ = sqlDB.Close()
		if err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied", "count", n)
	}

	// --- Change events ----------------------------------------------------
	// Publishing is asynchronous so a slow or absent broker never delays a
	// write. Without brokers configured, events are only logged.
	var sink events.Publisher = events.NewLogPublisher(logger)
	var kafkaPub *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub = events.NewKafkaPublisher(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		sink = kafkaPub
		slog.Info("publishing change events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	publisher := events.NewAsyncPublisher(sink, logger, eventQueueSize, eventTimeout)

	// --- Services ---------------------------------------------------------
	vehicleRepo := repo.NewVehicleRepo(pool)
	tripRepo := repo.NewTripRepo(pool)
	documentRepo := repo.NewDocumentRepo(pool)
	userRepo := repo.NewUserRepo(pool)

	codes := tripcode.New(tripcode.WithPrefix(cfg.TripCodePrefix))
	authSvc := auth.NewService(userRepo, cfg.JWTSecret, cfg.SessionTTL)

	srv := handler.NewServer(handler.Deps{
		Vehicles:       service.NewVehicleService(vehicleRepo, publisher, logger, time.Now),
		Trips:          service.NewTripService(tripRepo, vehicleRepo, codes, cfg.TripCodeAttempts, publisher, logger, time.Now),
		Documents:      service.NewDocumentService(vehicleRepo, documentRepo, publisher, logger, time.Now),
		Overview:       service.NewOverviewService(vehicleRepo, documentRepo),
		Export:         service.NewExportService(vehicleRepo, documentRepo),
		Auth:           authSvc,
		DB:             pool,
		Log:            logger,
		Now:            time.Now,
		DefaultLocale:  cfg.DefaultLocale,
		AuthEntryPoint: cfg.AuthEntryPoint,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order:
	//   RequestID, RealIP, LoadSession, SlogLogger, Metrics, Recoverer, CORS, MaxBodySize.
	// LoadSession runs before the logger so the access log carries user_id;
	// it never rejects. Protected routes add RequireSession themselves.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoadSession(authSvc))
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetrics())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.Handler())
	srv.Routes(r)

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to shutdownTimeout to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	// Requests are drained, so no new events can be queued. Flush the rest.
	if err := publisher.Close(ctx); err != nil {
		slog.Error("event queue did not drain", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			slog.Error("kafka writer close", "error", err)
		}
	}
	slog.Info("server stopped")
}
