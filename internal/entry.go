// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/notecover/internal/api"
	"github.com/starford/notecover/internal/coverservice"
	"github.com/starford/notecover/internal/journal"
	"github.com/starford/notecover/internal/mcpserver"
	"github.com/starford/notecover/internal/panel"
	"github.com/starford/notecover/internal/sse"
	"github.com/starford/notecover/internal/storage"
	"github.com/starford/notecover/internal/watch"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{version: "dev"}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// stdout carries the protocol in MCP mode.
	var logOut io.Writer = os.Stdout
	if app.mcp {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("cover_key", cfg.Vault.CoverKey),
		slog.String("attachment_folder", cfg.Vault.AttachmentFolder),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	db, err := journal.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init journal: %w", err)
	}
	defer db.Close()

	svc := coverservice.NewService(store, db, coverservice.Settings{
		CoverKey:         cfg.Vault.CoverKey,
		AttachmentFolder: cfg.Vault.AttachmentFolder,
	}, logger)

	if app.mcp {
		logger.Info("Serving MCP on stdio")
		return mcpserver.New(svc, db, app.version).ServeStdio()
	}

	return serve(ctx, cfg, logger, store, db, svc)
}

func serve(ctx context.Context, cfg *Config, logger *slog.Logger, store *storage.FS, db *journal.DB, svc *coverservice.Service) error {
	broker := sse.NewBroker(64)
	defer broker.Close()

	ctrl := panel.New(svc, broker, logger, panel.Options{
		SettleDelay:    cfg.Panel.SettleDelay,
		MessageTimeout: cfg.Panel.MessageTimeout,
		QueueSize:      cfg.Panel.QueueSize,
	})

	apiRouter := api.NewRouter(svc, ctrl, db, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "journal unavailable")
			return
		}
		if !store.FolderExists("") {
			writeStatus(w, http.StatusServiceUnavailable, "vault unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ok")
	})

	r.Mount("/api", apiRouter)

	// Image URLs handed out in panel views. Same auth as the API.
	r.With(api.AuthMiddleware(cfg.Auth.AuthEnabled(), cfg.Auth.Token)).
		Get(coverservice.FilesPrefix+"*", api.NewFilesHandler(store, store.Ignored).ServeHTTP)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	// Panel event loop.
	g.Go(func() error {
		return ctrl.Run(gCtx)
	})

	// File watcher feeding the panel and the SSE stream.
	g.Go(func() error {
		return watch.Watch(gCtx, store.Root(), watch.Options{
			Ignore: store.Ignored,
			Logger: logger,
		}, func(kind, path string) {
			broker.PublishFileEvent(kind, path)
			if err := ctrl.Submit(gCtx, panel.MetadataChanged{Path: path}); err != nil {
				logger.Debug("panel: change dropped", slog.String("path", path), slog.String("error", err.Error()))
			}
		})
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Ends open event streams so Shutdown does not wait on them.
		broker.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		// Stop the panel loop and the watcher.
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, `{"status":%q}`, status)
}
