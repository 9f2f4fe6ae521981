package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/agentpay/agentpay"
	"github.com/agentpay/agentpay/method"
	"github.com/agentpay/agentpay/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := agentpay.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	log := setupLogger(cfg.Env)
	logger := slogAdapter{log}

	logger.Debug("configuration loaded", "config", print.MaybePrettyJSON(redacted(cfg)))

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer sqldb.Close()

	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	if err := createTables(ctx, db); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	repo := agentpay.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := agentpay.NewTokenService(
		[]byte(cfg.Auth.SigningKey),
		cfg.Auth.TokenTTL,
		cfg.Auth.Issuer,
		logger,
	)

	provider := agentpay.NewUserProvider(repo.Users()).WithLogger(logger)
	provider.MaxLoginAttempts = cfg.Auth.MaxLoginAttempts
	provider.CoolDownPeriod = cfg.Auth.CoolDownPeriod

	auther := agentpay.NewAuthenticator(repo, provider, tokens).WithLogger(logger)

	mc, err := method.NewClient(cfg.Method.APIKey, cfg.Method.Environment)
	if err != nil {
		return err
	}

	srv := server.New(cfg, repo, auther, mc, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "address", cfg.HTTPServer.Address, "env", cfg.Env)
		errCh <- srv.Listen()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		return srv.Shutdown()
	}
}

func createTables(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*agentpay.User)(nil),
		(*agentpay.UserSettings)(nil),
		(*agentpay.CardPreferences)(nil),
		(*agentpay.Payment)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case "development", "dev", "local":
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

// redacted strips secrets before the config gets logged.
func redacted(cfg *agentpay.Config) agentpay.Config {
	out := *cfg
	if out.Auth.SigningKey != "" {
		out.Auth.SigningKey = "[redacted]"
	}
	if out.Method.APIKey != "" {
		out.Method.APIKey = "[redacted]"
	}
	return out
}

// slogAdapter satisfies the application's Logger interface with a
// slog backend.
type slogAdapter struct {
	log *slog.Logger
}

func (a slogAdapter) Debug(msg string, args ...any) { a.log.Debug(msg, args...) }
func (a slogAdapter) Info(msg string, args ...any)  { a.log.Info(msg, args...) }
func (a slogAdapter) Warn(msg string, args ...any)  { a.log.Warn(msg, args...) }
func (a slogAdapter) Error(msg string, args ...any) { a.log.Error(msg, args...) }
