package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"temple/internal/cache"
	"temple/internal/cli"
	"temple/internal/config"
	apphttp "temple/internal/http"
	applog "temple/internal/log"
	"temple/internal/render"
	"temple/internal/report"
	"temple/internal/services"
	"temple/internal/worker"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentApp)
	loc, _ := cfg.Location()
	gin.SetMode(gin.ReleaseMode)

	be := cli.OpenBackend(context.Background(), logger, cfg)
	store := be.Store

	renderer, assets := newRenderer(logger, cfg)

	printer, closePrinter, err := cli.OpenPrinter(logger, cfg)
	if err != nil {
		logger.Error("Failed to set up printing", applog.FieldError, err)
		os.Exit(1)
	}

	now := func() time.Time { return time.Now().In(loc) }
	opts := []services.Option{services.WithClock(now), services.WithLogger(logger)}
	receipts := services.NewReceiptService(store, renderer, printer, cfg.ReceiptsDir, opts...)
	catalog := services.NewCatalogService(store, opts...)
	backups := services.NewBackupService(store, renderer, cfg.BackupsDir, cfg.BackupXLSX, opts...)
	auth := services.NewAuthService(store, opts...)

	if err := auth.EnsureSeedUsers(context.Background(), services.DefaultSeedUsers(cfg.SeedAdminPassword, cfg.SeedStaffPassword)); err != nil {
		logger.Error("Failed to seed users", applog.FieldError, err)
		os.Exit(1)
	}

	tokens, err := newTokenIssuer(logger, cfg)
	if err != nil {
		logger.Error("Failed to set up tokens", applog.FieldError, err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(apphttp.Config{
		Addr:        cfg.Addr(),
		CORSOrigins: cfg.CORSOrigins,
		Location:    loc,
		Now:         now,
		Logger:      logger,
	}, apphttp.Deps{
		Auth:      auth,
		Tokens:    tokens,
		Receipts:  receipts,
		Catalog:   catalog,
		Backups:   backups,
		Dashboard: report.NewDashboard(store, store, logger),
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = cfg.RenderTimeout + 10*time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	var background sync.WaitGroup
	ctx, done := cli.GracefulShutdown(logger, cli.ShutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		background.Wait()
		closePrinter()
		if err := be.Cleanup(); err != nil {
			logger.Error("Failed to close store", applog.FieldError, err)
		}
	})

	startBackground(ctx, &background, logger, cfg, assets, backups)

	logger.Info("Starting temple server", "addr", cfg.Addr(), "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "addr", cfg.Addr())
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

// newRenderer builds the native engine, optionally fronted by an external
// HTML-to-PDF command, behind the render timeout.
func newRenderer(logger *applog.Logger, cfg *config.Config) (render.Renderer, *render.Assets) {
	assets := render.NewAssets(cfg.AssetsDir, logger)
	engine, err := render.NewEngine(assets, render.DefaultLetterhead(), logger)
	if err != nil {
		logger.Error("Failed to load document templates", applog.FieldError, err)
		os.Exit(1)
	}

	var r render.Renderer = engine
	if cfg.RenderCommand != "" {
		cmd, err := render.NewCommandRenderer(cfg.RenderCommand, engine)
		if err != nil {
			logger.Error("Invalid render command", applog.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Rendering PDFs with external command", "command", cfg.RenderCommand)
		r = cmd
	}
	return render.WithTimeout(r, cfg.RenderTimeout), assets
}

func newTokenIssuer(logger *applog.Logger, cfg *config.Config) (*apphttp.TokenIssuer, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		var err error
		if secret, err = apphttp.RandomSecret(); err != nil {
			return nil, err
		}
		logger.Warn("JWT_SECRET not set, sessions end when the server restarts")
	}
	return apphttp.NewTokenIssuer(secret, cfg.TokenTTL), nil
}

// startBackground runs the asset watcher, the cache sweeper and, when
// scheduled, the nightly backup until ctx is cancelled.
func startBackground(ctx context.Context, wg *sync.WaitGroup, logger *applog.Logger, cfg *config.Config,
	assets *render.Assets, backups *services.BackupService) {
	caches := cache.NewManager(logger)
	caches.Register(assets.Cache())

	wg.Add(2)
	go func() {
		defer wg.Done()
		caches.Run(ctx, 10*time.Minute)
	}()
	go func() {
		defer wg.Done()
		if err := assets.Watch(ctx); err != nil {
			logger.Warn("Asset watcher disabled", applog.FieldError, err)
		}
	}()

	if cfg.BackupSchedule == "" {
		return
	}
	loc, _ := cfg.Location()
	scheduler, err := worker.NewBackupScheduler(backups, cfg.BackupSchedule, loc, logger)
	if err != nil {
		logger.Error("Backup schedule rejected", applog.FieldError, err)
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()
}
