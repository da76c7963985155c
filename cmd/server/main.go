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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
	"github.com/quartzlabs/objectstore/pkg/objectstore/api"
	"github.com/quartzlabs/objectstore/pkg/objectstore/config"
	"github.com/quartzlabs/objectstore/pkg/objectstore/metrics"
)

func setupLogging(environment string) {
	isProd := environment == "prod" || environment == "production"

	var h slog.Handler
	if isProd {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: "15:04:05.000",
		})
	}
	slog.SetDefault(slog.New(h))
}

func main() {
	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	setupLogging(cfg.Environment)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	// Chain: counters first, then event logging when enabled.
	var next objectstore.EventDispatcher = objectstore.NewNoopDispatcher()
	if cfg.EnableEventLogging {
		next = objectstore.NewLoggingDispatcher(slog.Default())
	}
	dispatcher := metrics.NewDispatcher(next, registry)

	store, err := cfg.BuildStore(objectstore.WithEventDispatcher(dispatcher))
	if err != nil {
		slog.Error("failed to build store", "err", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Mount("/", api.Router(store))

	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
	}()

	slog.Info("starting server",
		"addr", addr, "storage", cfg.StorageType, "metadata", cfg.MetadataType)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
