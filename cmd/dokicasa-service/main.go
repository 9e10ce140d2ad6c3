package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mojjammil/dokicasa-integration/internal/api"
	"github.com/mojjammil/dokicasa-integration/internal/common/camunda"
	"github.com/mojjammil/dokicasa-integration/internal/common/config"
	"github.com/mojjammil/dokicasa-integration/internal/common/dokicasa"
	commonhttp "github.com/mojjammil/dokicasa-integration/internal/common/http"
	"github.com/mojjammil/dokicasa-integration/internal/common/logger"
	"github.com/mojjammil/dokicasa-integration/internal/common/observability"
	"github.com/mojjammil/dokicasa-integration/internal/submission"
	sci "github.com/mojjammil/dokicasa-integration/internal/workers/dokicasa/submit-contract-info"
	"github.com/mojjammil/dokicasa-integration/pkg/registry"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting dokicasa service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obsOpts := []observability.Option{observability.WithLogger(log)}
	spanExporter, err := observability.NewSpanExporter(cfg.Tracing.Exporter, os.Stdout)
	if err != nil {
		zapLog.Fatal("span exporter setup failed", zap.Error(err))
	}
	if spanExporter != nil {
		obsOpts = append(obsOpts, observability.WithSpanExporter(spanExporter))
		zapLog.Info("Exporting spans", zap.String("exporter", cfg.Tracing.Exporter))
	}
	obs := observability.New("dokicasa-service", obsOpts...)
	defer obs.Shutdown()

	catalog, err := loadCatalog(cfg.Dokicasa.CatalogPath)
	if err != nil {
		zapLog.Fatal("form catalog is invalid", zap.Error(err))
	}
	zapLog.Info("Form catalog loaded",
		zap.String("catalogVersion", catalog.Version),
		zap.Int("forms", len(catalog.Forms)),
	)

	if cfg.Dokicasa.Token == "" {
		zapLog.Warn("DOKICASA_TOKEN is not set, every submission will fail with CONFIGURATION_ERROR")
	}

	httpClient := commonhttp.NewClient(cfg.Dokicasa.RequestTimeout(), cfg.Dokicasa.MaxRedirects)
	provider := dokicasa.NewClient(cfg.Dokicasa.Token, httpClient, log)

	orchestrator := submission.NewOrchestrator(submission.Config{
		BaseURL:     cfg.Dokicasa.BaseURL,
		Token:       cfg.Dokicasa.Token,
		ExternalIDs: externalIDs(cfg.Dokicasa),
		Catalog:     catalog,
	}, provider,
		submission.WithLogger(log),
		submission.WithObservability(obs),
	)

	checks := map[string]api.ReadinessCheck{}

	var (
		zeebe  *camunda.Client
		worker *sci.Handler
	)
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: cfg.Camunda.UsePlaintext,
				ConnectionTimeout:      config.GetDuration(cfg.Camunda.Timeout),
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully", zap.String("address", cfg.Camunda.BrokerAddress))

		worker, err = sci.NewHandler(sci.HandlerOptions{
			AppConfig: cfg,
			Camunda:   zeebe,
			Submitter: orchestrator,
			Logger:    log,
		})
		if err != nil {
			zapLog.Fatal("failed to create submit-contract-info handler", zap.Error(err))
		}
		if err := worker.Register(); err != nil {
			zapLog.Fatal("failed to register submit-contract-info worker", zap.Error(err))
		}
		checks["zeebe"] = zeebe.HealthCheck
	} else {
		zapLog.Info("Camunda disabled, running HTTP entry only")
	}

	router, err := api.NewRouter(orchestrator, api.RouterOptions{
		Logger: log,
		Checks: checks,
	})
	if err != nil {
		zapLog.Fatal("failed to build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if worker != nil {
		worker.Close()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Dokicasa service stopped gracefully")
}

func loadCatalog(path string) (*registry.FormCatalog, error) {
	catalog := registry.DefaultCatalog()
	if path != "" {
		loaded, err := registry.LoadRegistry(path)
		if err != nil {
			return nil, err
		}
		catalog = loaded
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

func externalIDs(cfg config.DokicasaConfig) map[registry.City]string {
	ids := make(map[registry.City]string, len(registry.Cities))
	for _, city := range registry.Cities {
		ids[city] = cfg.ExternalID(string(city))
	}
	return ids
}
