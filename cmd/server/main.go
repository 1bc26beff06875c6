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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitbasket/splitbasket/internal/eventlog"
	"github.com/splitbasket/splitbasket/internal/metrics"
	"github.com/splitbasket/splitbasket/internal/middleware"
	"github.com/splitbasket/splitbasket/internal/repository"
	"github.com/splitbasket/splitbasket/internal/server"
	"github.com/splitbasket/splitbasket/internal/storage/sqlite"
	"github.com/splitbasket/splitbasket/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPath := getEnv("DB_PATH", "./data/basket.db")
	port := getEnv("PORT", "8080")

	// Initialize SQLite storage
	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	// Load the event log; all stores share it
	log, err := eventlog.Open(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(registry)

	// One repository per store; the composition root owns their lifecycle
	inventory, err := repository.NewInventoryRepository(ctx, store, log, m)
	if err != nil {
		return err
	}
	defer inventory.Close()

	shopping, err := repository.NewShoppingRepository(ctx, store, store, log, m)
	if err != nil {
		return err
	}
	defer shopping.Close()

	bills, err := repository.NewBillRepository(ctx, store, store, log, m)
	if err != nil {
		return err
	}
	defer bills.Close()

	// Seed on startup; safe to repeat across launches
	if err := inventory.EnsureSeedData(ctx); err != nil {
		return fmt.Errorf("failed to seed inventory: %w", err)
	}
	if err := shopping.EnsureSeedData(ctx); err != nil {
		return fmt.Errorf("failed to seed shopping list: %w", err)
	}
	if err := bills.EnsureSeedData(ctx); err != nil {
		return fmt.Errorf("failed to seed bills: %w", err)
	}

	api := server.New(inventory, shopping, bills, log)
	mux := api.Routes()
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	handler := middleware.Logging(middleware.CORS(mux))

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
