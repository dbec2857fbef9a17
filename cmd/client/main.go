package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Gustavohps10/timelapse-sub001/internal/client/api"
	"github.com/Gustavohps10/timelapse-sub001/internal/client/cli"
	"github.com/Gustavohps10/timelapse-sub001/internal/client/iocli"
	"github.com/Gustavohps10/timelapse-sub001/internal/client/storage/boltdb"
	"github.com/Gustavohps10/timelapse-sub001/internal/client/sync"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "timelapse-client.db", "Path to local database")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	apiClient := api.NewClient(*serverURL)
	syncService := sync.NewService(apiClient, boltStorage, boltStorage, logger)

	c := cli.New(apiClient, boltStorage, boltStorage, boltStorage, syncService, iocli.NewStdio())
	c.Run(ctx, args[0], args[1:])
}

func printVersion() {
	fmt.Printf("Timelapse Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
