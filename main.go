// Command meditrack starts the MediTrack HTTP server.
//
// MediTrack keeps a household's medicine inventory, flags medicines that are
// expired or expiring soon, and forwards symptom questions to an external
// health assistant. Run with:
//
//	go run .
//
// The server listens on :8080 by default. Configuration is read from the
// environment; see package config for the full list of variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arkantrust/meditrack/assistant"
	"github.com/arkantrust/meditrack/config"
	"github.com/arkantrust/meditrack/expiry"
	"github.com/arkantrust/meditrack/handlers"
	"github.com/arkantrust/meditrack/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		slog.ErrorContext(ctx, "Error", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("while loading config: %w", err)
	}
	logger.Info(
		"Config",
		slog.String("port", cfg.Port),
		slog.String("store-driver", cfg.StoreDriver),
		slog.String("db-path", cfg.DBPath),
		slog.Int("expiry-soon-months", cfg.ExpirySoonMonths),
		slog.Bool("ai-gateway", cfg.GatewayURL != ""),
	)

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("while opening %s store: %w", cfg.StoreDriver, err)
	}
	s := store.New(backend)
	defer s.Close()

	var gateway assistant.Gateway
	if cfg.GatewayURL != "" {
		g := assistant.NewHTTPGateway(cfg.GatewayURL, cfg.GatewayKey)
		g.Timeout = cfg.GatewayTimeout
		g.Retries = cfg.GatewayRetries
		gateway = g
	}

	h := handlers.New(s, assistant.NewAdvisor(gateway, logger), logger, expiry.Window{Months: cfg.ExpirySoonMonths})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: corsMiddleware(h.Routes()),

		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return store.OpenPostgres(ctx, cfg.DatabaseURL, "records")
	case config.DriverMemory:
		return store.NewMemoryBackend(), nil
	default:
		return store.OpenBolt(cfg.DBPath)
	}
}

// setCORSHeaders adds CORS headers to a response.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// corsMiddleware wraps an http.Handler with CORS support and answers
// pre-flight OPTIONS requests for every path.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
