package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainloom/chainloom/internal/config"
	"github.com/chainloom/chainloom/internal/metrics"
	"github.com/chainloom/chainloom/internal/server"
	"github.com/chainloom/chainloom/internal/snapshot"
	"github.com/chainloom/chainloom/pkg/graph"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	snapshotPath := flag.String("snapshot", "", "Snapshot file to load at startup (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			slog.Error("failed to load config", "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *snapshotPath != "" {
		cfg.Snapshot.Path = *snapshotPath
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	// ── Snapshot backend ──────────────────────────────────────────────────────
	var snaps snapshot.Store
	switch cfg.Snapshot.Backend {
	case "sqlite":
		s, err := snapshot.NewSQLiteStore(cfg.Snapshot.Path)
		if err != nil {
			slog.Error("failed to open snapshot database", "err", err)
			os.Exit(1)
		}
		snaps = s
	default:
		snaps = snapshot.NewFileStore(cfg.Snapshot.Path)
	}
	defer snaps.Close()

	// ── Graph store ───────────────────────────────────────────────────────────
	store := graph.NewStore()
	if cfg.Snapshot.Path != "" {
		if err := snaps.Load(store); err != nil {
			metrics.SnapshotLoads.WithLabelValues("error").Inc()
			slog.Error("failed to load snapshot", "path", cfg.Snapshot.Path, "err", err)
			os.Exit(1)
		}
		metrics.SnapshotLoads.WithLabelValues("ok").Inc()
		schema := store.Schema()
		slog.Info("snapshot loaded",
			"path", cfg.Snapshot.Path,
			"nodes", schema.NodeCount,
			"relationships", schema.RelationshipCount,
		)
	}

	// ── Snapshot hot-reload ───────────────────────────────────────────────────
	if cfg.Snapshot.Watch && cfg.Snapshot.Backend == "file" && cfg.Snapshot.Path != "" {
		stopWatch, err := config.WatchFile(cfg.Snapshot.Path, func() {
			if err := snaps.Load(store); err != nil {
				metrics.SnapshotLoads.WithLabelValues("error").Inc()
				slog.Warn("hot-reload skipped: snapshot invalid", "err", err)
				return
			}
			metrics.SnapshotLoads.WithLabelValues("ok").Inc()
			slog.Info("snapshot hot-reloaded", "nodes", store.Schema().NodeCount)
		})
		if err != nil {
			slog.Warn("snapshot watcher unavailable (hot-reload disabled)", "err", err)
		} else {
			defer stopWatch()
		}
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.New(store, snaps, logger).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	slog.Info("goodbye")
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
