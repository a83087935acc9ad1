package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/dam-aji/internal/admin"
	"github.com/AdamBeresnev/dam-aji/internal/config"
	"github.com/AdamBeresnev/dam-aji/internal/db"
	"github.com/AdamBeresnev/dam-aji/internal/logger"
	"github.com/AdamBeresnev/dam-aji/internal/middleware"
	"github.com/AdamBeresnev/dam-aji/internal/service"
	"github.com/AdamBeresnev/dam-aji/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB, cfg.MigrationsPath); err != nil {
		return err
	}

	adminService := service.NewAdminService(store.NewAdminStore(database), cfg.MainAdminEmails)
	err = adminService.EnsureSeedAccounts(ctx,
		service.SeedAccount{Username: "admin", Password: cfg.MainAdminPassword, Role: admin.RoleMainAdmin},
		service.SeedAccount{Username: "urusetia", Password: cfg.UrusetiaPassword, Role: admin.RoleUrusetia},
	)
	if err != nil {
		return err
	}

	tournaments, err := service.NewTournamentService(ctx,
		store.NewSessionStore(database),
		store.NewAuditStore(database),
		cfg.SessionKey,
		log.With().Str("component", "engine").Logger(),
	)
	if err != nil {
		return err
	}

	providers := middleware.InitAuth(cfg)
	log.Info().Strs("providers", providers).Msg("oauth providers configured")

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Store = sqlite3store.New(database.DB)

	app := &application{
		cfg:            cfg,
		logger:         log,
		tournaments:    tournaments,
		admins:         adminService,
		sessionManager: sessionManager,
		ping:           database.PingContext,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}
