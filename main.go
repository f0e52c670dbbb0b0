// Command jsonrest serves the collections of a JSON document as a REST API.
//
// Configuration is read from flags, environment variables and an optional
// TOML or YAML config file. See Config.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stevemurr/jsonrest/router"
	"github.com/stevemurr/jsonrest/schema"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "jsonrest: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	cfg, err := parseConfig(os.Args[1:], os.Getenv)
	if err != nil {
		return err
	}
	if cfg.PrintSchema {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(schema.DocumentSchema())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	ll := &slog.LevelVar{}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	ll.Set(level)
	slog.SetDefault(newLogger(colorable.NewColorable(os.Stderr), ll, isatty.IsTerminal(os.Stderr.Fd())))

	var schemas schema.Registry
	if cfg.Schemas != "" {
		if schemas, err = schema.LoadRegistry(cfg.Schemas); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Loaded schemas", "path", cfg.Schemas, "count", len(schemas))
	}

	rt, err := router.New(cfg.File, router.Config{
		Prefix:  cfg.Prefix,
		Adapter: cfg.Adapter,
		Schemas: schemas,
		Logger:  slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", cfg.File, err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			slog.ErrorContext(ctx, "Failed to close store", "error", err)
		}
	}()

	var m *metrics
	if cfg.Metrics != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = newMetrics(reg)
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsServer := &http.Server{
			Addr:              cfg.Metrics,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.InfoContext(ctx, "Serving metrics", "addr", cfg.Metrics)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.ErrorContext(ctx, "Metrics server failed", "error", err)
			}
		}()
		defer func() { _ = metricsServer.Close() }()
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP,
		Handler:           newHandler(rt, cfg, m),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "Starting server", "addr", cfg.HTTP, "file", cfg.File, "adapter", cfg.Adapter, "prefix", cfg.Prefix, "collections", len(rt.DB().Collections()))
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.InfoContext(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		slog.InfoContext(ctx, "Server stopped")
	}
	return nil
}
