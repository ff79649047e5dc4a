package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	bitbucketadapter "bbpr/internal/adapter/driven/bitbucket"
	"bbpr/internal/adapter/driven/gitrepo"
	sqliteadapter "bbpr/internal/adapter/driven/sqlite"
	"bbpr/internal/adapter/driving/cli"
	"bbpr/internal/application"
	"bbpr/internal/config"
	"bbpr/internal/domain/model"
	"bbpr/internal/domain/port/driven"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitGeneric)
	}

	slog.SetDefault(configureLogger(cfg.LogLevel))

	os.Exit(run(cfg))
}

// configureLogger builds the stderr text logger. The default level is warn so
// command output stays clean unless BBPR_LOG_LEVEL asks for more.
func configureLogger(logLevel string) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(cfg *config.Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the credential database (dual reader/writer with WAL mode).
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			slog.Error("creating database directory", "dir", dir, "error", err)
			return cli.ExitGeneric
		}
	}
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		slog.Error("opening database", "path", cfg.DBPath, "error", err)
		return cli.ExitGeneric
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	// Run migrations on the writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		slog.Error("running migrations", "error", err)
		return cli.ExitGeneric
	}

	// Fail fast on a malformed BBPR_API_BASE before any command runs.
	if _, err := bitbucketadapter.NewClient(cfg.BaseURL, model.Credentials{}); err != nil {
		slog.Error("invalid API base URL", "url", cfg.BaseURL, "error", err)
		return cli.ExitGeneric
	}
	factory := application.ClientFactory(func(creds model.Credentials) driven.BitbucketClient {
		client, err := bitbucketadapter.NewClient(cfg.BaseURL, creds)
		if err != nil {
			panic(err) // base URL validated above
		}
		return client
	})

	store := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	local := gitrepo.NewResolver(".")

	app := cli.NewApp(cfg, store, local, factory, os.Stdout, os.Stderr, version)
	return app.Run(ctx, os.Args[1:])
}
