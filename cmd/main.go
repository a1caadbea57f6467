package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m04kA/SMC-PantBookingService/internal/api"
	createBookingHandler "github.com/m04kA/SMC-PantBookingService/internal/api/handlers/create_booking"
	"github.com/m04kA/SMC-PantBookingService/internal/config"
	"github.com/m04kA/SMC-PantBookingService/internal/domain"
	"github.com/m04kA/SMC-PantBookingService/internal/infra/ratelimit"
	smsClient "github.com/m04kA/SMC-PantBookingService/internal/integrations/sms"
	webhookClient "github.com/m04kA/SMC-PantBookingService/internal/integrations/webhook"
	"github.com/m04kA/SMC-PantBookingService/internal/service/notifications"
	createBookingUC "github.com/m04kA/SMC-PantBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-PantBookingService/pkg/logger"
	"github.com/m04kA/SMC-PantBookingService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml", ".env")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-PantBookingService...")

	if cfg.UsesInsecureSecret() {
		log.Warn("RATE_LIMIT_SECRET is not set, cookies are signed with an insecure default secret")
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем интеграционных клиентов
	notifyTimeout := time.Duration(cfg.Notifier.TimeoutSeconds) * time.Second
	twilio := smsClient.NewClient(smsClient.Credentials{
		BaseURL:             cfg.SMS.BaseURL,
		AccountSID:          cfg.SMS.AccountSID,
		AuthToken:           cfg.SMS.AuthToken,
		FromNumber:          cfg.SMS.FromNumber,
		MessagingServiceSID: cfg.SMS.MessagingServiceSID,
	}, notifyTimeout, log)
	chat := webhookClient.NewClient(cfg.Webhook.URL, notifyTimeout, log)

	// Инициализируем сервисы
	backend := notifications.ResolveBackend(cfg.Notifier.Backend, cfg.Webhook.URL)
	notifier := notifications.NewService(backend, twilio, chat, cfg.SMS.Recipients, metricsCollector, log)

	if err := notifier.Ready(); err != nil {
		// Не фатально: каждая заявка получит 500, пока конфигурация не исправлена
		log.Warn("Notifier backend=%s is not ready: %v", backend, err)
	} else {
		log.Info("Notifier backend=%s ready (recipients=%d, timeout=%ds)", backend, len(cfg.SMS.Recipients), cfg.Notifier.TimeoutSeconds)
	}

	limiter := ratelimit.NewLimiter(
		cfg.SigningSecret(),
		ratelimit.WithCookieName(cfg.RateLimit.CookieName),
		ratelimit.WithWindow(time.Duration(cfg.RateLimit.WindowSeconds)*time.Second),
		ratelimit.WithMaxAge(time.Duration(cfg.RateLimit.MaxAgeSeconds)*time.Second),
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		limiter,
		notifier,
		domain.ValidationRules{
			Form:        domain.FormVariant(cfg.Validation.Form),
			PhoneFormat: domain.PhoneFormat(cfg.Validation.PhoneFormat),
		},
		cfg.RateLimit.ChargeFailedSends,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)

	// Настраиваем роутер
	routerOpts := api.Options{Logger: log}
	if cfg.Metrics.Enabled {
		routerOpts.Metrics = metricsCollector
		routerOpts.MetricsPath = cfg.Metrics.Path
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}
	router := api.NewRouter(createBooking, routerOpts)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
