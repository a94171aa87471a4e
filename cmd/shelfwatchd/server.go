package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	v1 "shelfwatch/internal/api/v1"
	"shelfwatch/internal/config"
	"shelfwatch/internal/enrich"
	"shelfwatch/internal/events"
	"shelfwatch/internal/migrations"
	"shelfwatch/internal/stats"
	"shelfwatch/internal/tracker"
)

const pruneInterval = 24 * time.Hour

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func runServer(configPath string) error {
	if configPath == "" {
		discovered, err := config.Discover()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		configPath = discovered
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := migrations.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// === Enricher (optional - nil when no TMDB key is configured) ===
	var enricher enrich.Enricher
	if cfg.TMDB.APIKey != "" {
		opts := []enrich.Option{
			enrich.WithLogger(logger.With("component", "tmdb")),
		}
		if cfg.TMDB.CacheTTL.Duration > 0 {
			opts = append(opts, enrich.WithCacheTTL(cfg.TMDB.CacheTTL.Duration))
		}
		if cfg.TMDB.BaseURL != "" {
			opts = append(opts, enrich.WithBaseURL(cfg.TMDB.BaseURL))
		}
		if cfg.TMDB.ImageBaseURL != "" {
			opts = append(opts, enrich.WithImageBaseURL(cfg.TMDB.ImageBaseURL))
		}
		enricher = enrich.NewTMDBClient(cfg.TMDB.APIKey, opts...)
	}

	// === Services ===
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "events"))
	defer bus.Close()

	// Mirror every event into the server log; the goroutine exits when
	// bus.Close closes the subscription channel.
	go events.LogEvents(bus.SubscribeAll(100), logger.With("component", "activity"))

	statsCache := stats.NewCache(stats.NewStore(db), cfg.Stats.TTL.Duration)
	trk := tracker.New(db, enricher, statsCache, bus, logger)

	// === Background Jobs ===
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Events.RetentionDays > 0 {
		retention := time.Duration(cfg.Events.RetentionDays) * 24 * time.Hour
		go runPruner(ctx, eventLog, retention, logger.With("component", "pruner"))
	}

	// === HTTP Setup ===
	mux := http.NewServeMux()
	v1.New(trk, statsCache, eventLog, version).RegisterRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"tmdb", enricher != nil,
		"stats_ttl", cfg.Stats.TTL.String(),
		"log_level", cfg.Server.LogLevel,
	)

	srv := &http.Server{Addr: addr, Handler: logRequests(mux, logger)}

	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func runPruner(ctx context.Context, log *events.EventLog, retention time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	logger.Info("event pruner started", "retention", retention.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("event pruner stopped")
			return
		case <-ticker.C:
			pruned, err := log.Prune(retention)
			if err != nil {
				logger.Error("prune failed", "error", err)
				continue
			}
			if pruned > 0 {
				logger.Info("pruned old events", "count", pruned)
			}
		}
	}
}
