package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/payperiod"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	timeclockService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/migrations"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "cmlabs-timeclock"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			return err
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	anchor, err := cfg.PayPeriodAnchor()
	if err != nil {
		return err
	}
	periods, err := payperiod.NewCalculator(anchor, cfg.Timeclock.PayPeriodLength, loc)
	if err != nil {
		return fmt.Errorf("pay period calendar: %w", err)
	}

	userRepo := postgresql.NewUserRepository(db)
	entryRepo := postgresql.NewTimeclockRepository(db)
	configRepo := postgresql.NewRulesConfigRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	recorder := timeclockService.NewAuditRecorder(auditRepo)
	store := timeclockService.NewConfigStore(configRepo, cfg.Timeclock.ConfigCacheTTL)
	timeclockSvc := timeclockService.NewTimeclockService(entryRepo, userRepo, store, periods, recorder, cfg.Timeclock.DefaultPeriodCount)
	settingsSvc := timeclockService.NewSettingsService(userRepo, store, recorder)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.App.AllowedOrigins,
			TokenAuth:      JWTService.JWTAuth(),
		},
		appHTTP.NewTimeclockHandler(timeclockSvc),
		appHTTP.NewSettingsHandler(settingsSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	// Pending audit writes still need the pool.
	recorder.Wait()
	return nil
}
