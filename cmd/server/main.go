package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector/memory"
	"github.com/Gustavohps10/timelapse-sub001/internal/connector/redmine"
	"github.com/Gustavohps10/timelapse-sub001/internal/scope"
	"github.com/Gustavohps10/timelapse-sub001/internal/secrets/boltdb"
	"github.com/Gustavohps10/timelapse-sub001/internal/server"
	"github.com/Gustavohps10/timelapse-sub001/internal/server/jwt"
	"github.com/Gustavohps10/timelapse-sub001/internal/workspaces"
	"github.com/Gustavohps10/timelapse-sub001/internal/workspaces/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "timelapse.db", "Path to the workspace database")
	secretsPath := flag.String("secrets-db", "secrets.db", "Path to the secret store database")
	sessionTTL := flag.Duration("session-ttl", 12*time.Hour, "Workspace session token lifetime")
	rateLimit := flag.Int("rate-limit", 100, "Requests per client per window")
	rateWindow := flag.Duration("rate-window", time.Minute, "Rate limit window")
	demo := flag.Bool("demo", false, "Register the seeded in-memory connector")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(*addr, *dbPath, *secretsPath, *sessionTTL, *rateLimit, *rateWindow, *demo, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(addr, dbPath, secretsPath string, sessionTTL time.Duration, rateLimit int, rateWindow time.Duration, demo bool, logger *slog.Logger) error {
	jwtSecret := os.Getenv("TIMELAPSE_JWT_SECRET")
	if jwtSecret == "" {
		return errors.New("TIMELAPSE_JWT_SECRET is not set")
	}
	secretsPass := os.Getenv("TIMELAPSE_SECRETS_PASSPHRASE")
	if secretsPass == "" {
		return errors.New("TIMELAPSE_SECRETS_PASSPHRASE is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open workspace storage: %w", err)
	}
	defer storage.Close()

	secretStore, err := boltdb.New(ctx, secretsPath, secretsPass)
	if err != nil {
		return fmt.Errorf("open secret store: %w", err)
	}
	defer secretStore.Close()

	registry := connector.NewRegistry()
	if err := registry.Register(redmine.New()); err != nil {
		return fmt.Errorf("register redmine connector: %w", err)
	}
	if demo {
		if err := registry.Register(memory.NewDemo()); err != nil {
			return fmt.Errorf("register demo connector: %w", err)
		}
		logger.Info("demo connector registered", "api_key", memory.DemoAPIKey)
	}

	service := workspaces.NewService(storage, registry, secretStore, logger)
	resolver := scope.NewResolver(storage, secretStore, registry, logger)

	jwtCfg := jwt.Config{Secret: []byte(jwtSecret), SessionTTL: sessionTTL}

	router := server.New(server.Config{
		Version:    Version,
		JWT:        jwtCfg,
		RateLimit:  rateLimit,
		RateWindow: rateWindow,
		Workspaces: service,
		Resolver:   resolver,
		Registry:   registry,
		Logger:     logger,
	})
	defer router.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printVersion() {
	fmt.Printf("Timelapse Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
