package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"survivor-league/config"
	"survivor-league/database"
	"survivor-league/handlers"
	"survivor-league/logging"
	"survivor-league/middleware"
	"survivor-league/services"
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logging.Fatalf("Server failed: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	logging.Configure(cfg.ToLoggingConfig())
	cfg.LogConfiguration()

	db, err := database.NewMongoConnection(ctx, cfg.ToDatabaseConfig())
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	sequences := database.NewSequences(db)
	contestantRepo := database.NewMongoContestantRepository(db)
	playerRepo := database.NewMongoPlayerRepository(db, sequences)
	tribeRepo := database.NewMongoTribeRepository(db)
	pickEmRepo := database.NewMongoPickEmRepository(db, sequences)
	pickRepo := database.NewMongoPickRepository(db)

	for _, repo := range []indexer{contestantRepo, playerRepo, tribeRepo, pickEmRepo, pickRepo} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
	}

	lock, err := services.NewLockCalculator(nil)
	if err != nil {
		return err
	}
	scorer := services.NewScoreCalculator(nil)
	badges := services.NewBadgeService(playerRepo, tribeRepo, contestantRepo, pickEmRepo, pickRepo)
	contestantService := services.NewContestantService(contestantRepo, scorer)
	tribeService := services.NewTribeService(tribeRepo, playerRepo, contestantRepo, db, scorer, badges, cfg.ToTribeServiceConfig())
	pickEmService := services.NewPickEmService(pickEmRepo, pickRepo, playerRepo, tribeRepo, db, lock, badges, cfg.ToPickEmServiceConfig())
	authService := services.NewAuthService(playerRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry, cfg.Auth.AdminEmails)

	var backupService *services.BackupService
	if cfg.Backup.Enabled {
		var uploader services.ObjectUploader
		if cfg.IsStorageConfigured() {
			s3Uploader, err := services.NewS3Uploader(ctx, cfg.ToS3Config())
			if err != nil {
				return err
			}
			uploader = s3Uploader
		}
		backupService = services.NewBackupService(db, uploader, services.BackupConfig{BackupDir: cfg.Backup.BackupDir})
	}

	scheduler, err := services.NewScheduler(backupService, badges, lock, cfg.ToSchedulerConfig())
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logging.Errorf("Scheduler shutdown failed: %v", err)
		}
	}()

	h := handlers.Handlers{
		Contestants: handlers.NewContestantHandler(contestantService),
		Tribes:      handlers.NewTribeHandler(tribeService),
		PickEms:     handlers.NewPickEmHandler(pickEmService),
		Auth: handlers.NewAuthHandler(authService, handlers.AuthHandlerConfig{
			LinkBaseURL:   cfg.LoginLinkBaseURL(),
			LogLinks:      cfg.App.IsDevelopment,
			SecureCookies: cfg.Server.UseTLS || cfg.Server.BehindProxy,
		}),
		Health: handlers.NewHealthHandler(db),
	}
	if backupService != nil {
		h.Backups = handlers.NewBackupHandler(backupService)
	}
	router := handlers.NewRouter(h, middleware.NewAuthMiddleware(authService), cfg.Server.BehindProxy)

	server := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Infof("Server starting on %s", server.Addr)
		var err error
		if cfg.Server.UseTLS && !cfg.Server.BehindProxy {
			err = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logging.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
