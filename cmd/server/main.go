package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"surveyengine/internal/app"
	"surveyengine/internal/config"
	"surveyengine/internal/form"
	"surveyengine/internal/i18n"
	"surveyengine/internal/service"
	"surveyengine/internal/transport/rest"
	"surveyengine/internal/transport/rest/middleware"
	"surveyengine/internal/transport/ws"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// Initialize WebSocket hub
	wsHub := ws.NewHub(logger)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.SessionTTL)
	responseSvc := service.NewResponseService(a.Responses, logger)

	var submitter form.Submitter = responseSvc.Submitter()
	if cfg.SubmitURL != "" {
		submitter = service.NewSubmitClient(cfg.SubmitURL, logger)
		logger.Info("submitting to remote storage", "url", cfg.SubmitURL)
	}

	formSvc := service.NewFormService(service.FormServiceConfig{
		Schema:     a.Schema,
		Resolver:   i18n.NewResolver(cfg.DefaultLocale),
		Submitter:  submitter,
		Locker:     a.Locker,
		Cache:      a.Sessions,
		Metrics:    a.Metrics,
		Logger:     logger,
		SessionTTL: cfg.SessionTTL,
	})
	// Inject broadcaster (wsHub implements service.Broadcaster)
	formSvc.SetBroadcaster(wsHub)
	go formSvc.RunSweeper(ctx, time.Minute)

	limiter := middleware.NewRateLimiter(cfg.SubmitRate, cfg.SubmitBurst)
	defer limiter.Stop()

	router := rest.NewRouter(&rest.Container{
		Schema:          a.Schema,
		AuthService:     authSvc,
		FormService:     formSvc,
		ResponseService: responseSvc,
		Metrics:         a.Metrics,
		SubmitLimiter:   limiter,
		WSHub:           wsHub,
		Logger:          logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("server exited")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
