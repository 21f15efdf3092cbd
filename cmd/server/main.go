package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/personen-api/config"
	"github.com/ErlanBelekov/personen-api/internal/health"
	"github.com/ErlanBelekov/personen-api/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/personen-api/internal/log"
	"github.com/ErlanBelekov/personen-api/internal/metrics"
	"github.com/ErlanBelekov/personen-api/internal/schema"
	"github.com/ErlanBelekov/personen-api/internal/token"
	httptransport "github.com/ErlanBelekov/personen-api/internal/transport/http"
	"github.com/ErlanBelekov/personen-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/personen-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())
	exposeErrors := cfg.Env == "local"

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL(), cfg.DBMaxConns)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	logger.Info("db connected", "host", cfg.DBHost, "database", cfg.DBName, "max_conns", cfg.DBMaxConns)

	if cfg.DBMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			stop()
			pool.Close()
			log.Fatalf("migrate: %v", err)
		}
	}

	tokens := token.New([]byte(cfg.JWTSecret), cfg.TokenTTL())

	// Users
	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(userRepo, tokens)
	authHandler := handler.NewAuthHandler(authUsecase, logger, exposeErrors)

	// Persons
	personRepo := postgres.NewPersonRepository(pool)
	personUsecase := usecase.NewPersonUsecase(personRepo)
	personHandler := handler.NewPersonHandler(personUsecase, schema.PersonSchema(), logger, exposeErrors)

	metrics.Register(prometheus.DefaultRegisterer)
	metrics.RegisterPool(prometheus.DefaultRegisterer, pool)
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	router := httptransport.NewRouter(logger, authHandler, personHandler, tokens)
	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httptransport.WithCORS(router, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, prometheus.DefaultGatherer, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
