// Package cli implements the timelapse client commands.
package cli

import (
	"context"
	"fmt"
	"os"

	httpClient "github.com/Gustavohps10/timelapse-sub001/internal/client/api"
	"github.com/Gustavohps10/timelapse-sub001/internal/client/iocli"
	"github.com/Gustavohps10/timelapse-sub001/internal/client/storage"
	"github.com/Gustavohps10/timelapse-sub001/internal/client/sync"
)

type Cli struct {
	apiClient   httpClient.ClientAPI
	sessions    storage.SessionStorage
	entries     storage.EntryStorage
	checkpoints storage.CheckpointStorage
	syncService sync.Service
	io          iocli.IO
}

func New(apiClient httpClient.ClientAPI, sessions storage.SessionStorage, entries storage.EntryStorage, checkpoints storage.CheckpointStorage, syncService sync.Service, io iocli.IO) *Cli {
	return &Cli{
		apiClient:   apiClient,
		sessions:    sessions,
		entries:     entries,
		checkpoints: checkpoints,
		syncService: syncService,
		io:          io,
	}
}

func (c *Cli) Run(ctx context.Context, command string, args []string) {
	var err error
	switch command {
	case "workspace":
		err = c.runWorkspace(ctx, args)
	case "connectors":
		err = c.runConnectors(ctx)
	case "link":
		err = c.runLink(ctx, args)
	case "connect":
		err = c.runConnect(ctx, args)
	case "disconnect":
		err = c.runDisconnect(ctx, args)
	case "unlink":
		err = c.runUnlink(ctx, args)
	case "log":
		err = c.runLog(ctx, args)
	case "entries":
		err = c.runEntries(ctx)
	case "sync":
		err = c.runSync(ctx)
	case "status":
		err = c.runStatus(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		PrintUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func PrintUsage() {
	fmt.Println("Usage: timelapse [flags] <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  workspace create <name>   Create a workspace")
	fmt.Println("  workspace list            List workspaces")
	fmt.Println("  connectors                List available connectors")
	fmt.Println("  link <workspace-id> <connector-id>")
	fmt.Println("                            Link a workspace to a data source")
	fmt.Println("  connect <workspace-id>    Connect the linked data source")
	fmt.Println("  disconnect <workspace-id> Drop stored credentials")
	fmt.Println("  unlink <workspace-id>     Unlink the data source")
	fmt.Println("  log                       Record a time entry locally")
	fmt.Println("  entries                   List cached time entries")
	fmt.Println("  sync                      Push local changes and pull updates")
	fmt.Println("  status                    Show session and queue state")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -server <url>             Server URL (default http://localhost:8080)")
	fmt.Println("  -db <path>                Local database path")
	fmt.Println("  -version                  Show version information")
}

// activeSession loads the stored session or explains how to get one.
func (c *Cli) activeSession(ctx context.Context) (*storage.Session, error) {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if err == storage.ErrSessionNotFound {
			return nil, fmt.Errorf("no active session. Run 'timelapse connect <workspace-id>' first")
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}
