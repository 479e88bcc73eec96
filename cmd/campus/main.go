// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/campus-site/internal/cache"
	"github.com/olegiv/campus-site/internal/config"
	"github.com/olegiv/campus-site/internal/handler"
	"github.com/olegiv/campus-site/internal/handler/api"
	"github.com/olegiv/campus-site/internal/imaging"
	"github.com/olegiv/campus-site/internal/logging"
	"github.com/olegiv/campus-site/internal/middleware"
	"github.com/olegiv/campus-site/internal/scheduler"
	"github.com/olegiv/campus-site/internal/service"
	"github.com/olegiv/campus-site/internal/session"
	"github.com/olegiv/campus-site/internal/store"
	"github.com/olegiv/campus-site/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 30 * time.Second

	// Public form submissions: one every 6 seconds per IP, bursts of 5.
	submitRate  = 10.0 / 60.0
	submitBurst = 5

	uploadsMaxAge = 7 * 24 * 60 * 60
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "campus - university association site API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_DB_DRIVER         sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_DB_PATH           SQLite database path (default: ./data/campus.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_DB_DSN            MySQL DSN when CAMPUS_DB_DRIVER=mysql\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_UPLOADS_DIR       Uploaded images directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_STATIC_DIR        Public site served at / (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_REDIS_URL         Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_ADMIN_USERNAME    Initial admin user name (default: admin)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CAMPUS_ADMIN_PASSWORD    Initial admin password (default: admin123)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Printf("campus %s\n", versionInfo)
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(textHandler))

	db, dialect, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations", "dialect", dialect)
	if err := store.MigrateDialect(db, dialect); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the Event Log database
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.EnsureAdmin(ctx, db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("creating initial admin: %w", err)
	}

	var sessionManager *scs.SessionManager
	if dialect == store.DialectSQLite {
		sessionManager = session.New(db, cfg.IsDevelopment())
	} else {
		sessionManager = session.NewMemory(cfg.IsDevelopment())
		slog.Warn("sessions are kept in memory with the MySQL backend; admins are logged out on restart")
	}

	appCache, backend := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
	}, logger)
	defer func() { _ = appCache.Close() }()
	slog.Info("cache initialized", "backend", backend)
	// Cached page and media lists may predate the migrations just applied.
	if err := appCache.Clear(ctx); err != nil {
		slog.Warn("failed to clear cache on startup", "error", err)
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	events := service.NewEventService(db, logger)
	services := api.Services{
		Pages:       service.NewPageService(db, appCache, cfg.CacheTTLDuration()),
		News:        service.NewNewsService(db),
		Messages:    service.NewMessageService(db),
		Memberships: service.NewMembershipService(db),
		Media: service.NewMediaService(db, appCache, imaging.NewProcessor(cfg.UploadsDir), service.MediaConfig{
			UploadURLPrefix: cfg.UploadURLPrefix,
			MaxUploadSize:   cfg.MaxUploadSize,
			CacheTTL:        cfg.CacheTTLDuration(),
		}, logger),
		Auth:   service.NewAuthService(db, logger),
		Events: events,
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	sched := scheduler.New(logger)
	if err := sched.RegisterDefaults(events, cfg.EventRetention()); err != nil {
		return fmt.Errorf("registering scheduled jobs: %w", err)
	}
	// Catch up on retention missed while the server was down.
	if err := sched.TriggerNow(ctx, scheduler.EventPruneJob); err != nil {
		slog.Warn("initial event prune failed", "error", err)
	}
	sched.Start()
	defer sched.Stop()

	apiHandler := api.NewHandler(services, sessionManager, loginProtection, api.Config{
		IsDevelopment: cfg.IsDevelopment(),
		MaxUploadSize: cfg.MaxUploadSize,
	}, logger)
	healthHandler := handler.NewHealthHandler(db, sessionManager, appCache, cfg.UploadsDir, versionInfo.Short())

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.RequestPath)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	securityHeaders := middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()))

	r.Group(func(r chi.Router) {
		r.Use(securityHeaders)

		r.Route("/health", func(r chi.Router) {
			r.Use(sessionManager.LoadAndSave)
			r.Get("/", healthHandler.Health)
			r.Get("/live", healthHandler.Liveness)
			r.Get("/ready", healthHandler.Readiness)
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(sessionManager.LoadAndSave)
			r.Use(middleware.CSRF(csrfConfig))
			r.Mount("/", apiHandler.Routes(middleware.NewRateLimiter(submitRate, submitBurst)))
		})

		uploads := http.StripPrefix(cfg.UploadURLPrefix, http.FileServer(http.Dir(cfg.UploadsDir)))
		r.With(middleware.StaticCache(uploadsMaxAge)).
			Handle(cfg.UploadURLPrefix+"/*", middleware.NoDirectoryListing(uploads))
	})

	// Public site, served without the API security headers.
	if cfg.StaticDir != "" {
		staticDir, err := filepath.Abs(cfg.StaticDir)
		if err != nil {
			return fmt.Errorf("resolving static directory: %w", err)
		}
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
		slog.Info("serving public site", "dir", staticDir)
	} else {
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			api.WriteNotFound(w, "Not found")
		})
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Short())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// openDatabase connects to the configured backend, creating the SQLite data
// directory when needed.
func openDatabase(cfg *config.Config) (*sql.DB, store.Dialect, error) {
	if cfg.UseMySQL() {
		slog.Info("initializing database", "driver", config.DriverMySQL)
		db, err := store.Open(store.DialectMySQL, cfg.DBDSN)
		if err != nil {
			return nil, "", fmt.Errorf("initializing database: %w", err)
		}
		return db, store.DialectMySQL, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, "", fmt.Errorf("creating data directory: %w", err)
	}
	slog.Info("initializing database", "driver", config.DriverSQLite, "path", cfg.DBPath)
	db, err := store.Open(store.DialectSQLite, cfg.DBPath)
	if err != nil {
		return nil, "", fmt.Errorf("initializing database: %w", err)
	}
	return db, store.DialectSQLite, nil
}
