package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/msomdec/placeshare/internal/config"
	"github.com/msomdec/placeshare/internal/domain"
	"github.com/msomdec/placeshare/internal/geocode"
	"github.com/msomdec/placeshare/internal/handler"
	"github.com/msomdec/placeshare/internal/repository/disk"
	"github.com/msomdec/placeshare/internal/repository/sqlite"
	"github.com/msomdec/placeshare/internal/service"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	var files domain.FileStore
	switch cfg.Storage.Driver {
	case "sqlite":
		files = db.FileStore()
	default:
		files, err = disk.NewFileStore(cfg.Storage.UploadDir)
		if err != nil {
			slog.Error("failed to open upload directory", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("image storage ready", "driver", cfg.Storage.Driver)

	geocoder := geocode.NewClient(cfg.Geocode.BaseURL, cfg.Geocode.APIKey, cfg.Geocode.Timeout)

	authService := service.NewAuthService(db.Users(), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)
	userService := service.NewUserService(db.Users())
	imageService := service.NewImageService(files)
	placeService := service.NewPlaceService(db.Places(), db.Users(), db, imageService, geocoder)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, userService, placeService, imageService)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.SecurityHeaders(handler.CORS(handler.LogRequests(mux))),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	placeService.Wait()
	slog.Info("server stopped")
}
