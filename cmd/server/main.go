package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-erp/auth"
	"github.com/diewo77/go-erp/internal/config"
	"github.com/diewo77/go-erp/internal/db"
	"github.com/diewo77/go-erp/internal/logger"
	"github.com/diewo77/go-erp/internal/metrics"
	"github.com/diewo77/go-erp/internal/models"
	"github.com/diewo77/go-erp/internal/policy"
	"github.com/diewo77/go-erp/internal/scheduler"
	"github.com/diewo77/go-erp/internal/services"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
	sweepOnceFlag   = flag.Bool("sweep-once", false, "Run the quote archiving sweep once and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if !cfg.App.Dev() && cfg.App.SessionSecret == "" {
		log.Warn("SESSION_SECRET is not set, sessions use the development secret")
	}

	log.Info("connecting to database",
		"host", cfg.Database.Host, "port", cfg.Database.Port, "dbname", cfg.Database.DBName, "user", cfg.Database.User)
	dbConn, err := db.Open(cfg.Database.DSN(), cfg.App.Dev(), log)
	if err != nil {
		fatal(log, "failed to connect to database", err)
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(dbConn); err != nil {
			fatal(log, "migration failed", err)
		}
		log.Info("migrations completed")
		return
	}
	if *seedOnlyFlag {
		if err := db.Seed(dbConn); err != nil {
			fatal(log, "seeding failed", err)
		}
		log.Info("seeding completed")
		return
	}

	if cfg.App.Migrations {
		if err := db.Migrate(dbConn); err != nil {
			fatal(log, "migration failed", err)
		}
		log.Info("migrations completed")
	}
	if cfg.App.Seed {
		if err := db.Seed(dbConn); err != nil {
			fatal(log, "seeding failed", err)
		}
	}

	var rec *metrics.Recorder
	var metricsHandler http.Handler
	if cfg.App.MetricsEnabled {
		rec = metrics.New(prometheus.DefaultRegisterer)
		metricsHandler = promhttp.Handler()
	}

	quotes := services.NewQuoteService(dbConn,
		services.WithMetrics(rec),
		services.WithLogger(log.With("component", "quotes")),
	)

	if *sweepOnceFlag {
		res, err := quotes.RunArchivingSweep(context.Background(), services.UTCClock())
		if err != nil {
			fatal(log, "archiving sweep failed", err)
		}
		log.Info("archiving sweep completed", "archived", res.Total())
		return
	}

	// Sessions of deactivated or deleted users are refused.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		dbConn.WithContext(ctx).Model(&models.User{}).Where("id = ? AND active = ?", uid, true).Count(&count)
		return count > 0
	})

	routerCfg := policy.NewRouterConfig(dbConn, quotes, cfg.App.PermissionCacheTTL, log)
	app := NewApp(dbConn, routerCfg, metricsHandler, log)

	sched := scheduler.New(log)
	if cfg.Archive.Enabled {
		if err := sched.AddArchiving(cfg.Archive.Schedule, quotes, services.UTCClock); err != nil {
			fatal(log, "invalid ARCHIVE_SCHEDULE", err)
		}
		sched.Start()
		log.Info("archiving sweep scheduled", "schedule", cfg.Archive.Schedule)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(log, app),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("error during shutdown", "err", err)
	}
	sched.Stop(ctx)
	log.Info("server stopped gracefully")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "err", err)
	os.Exit(1)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs one line per request.
func withLogging(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
