package cli

import (
	"context"
	"fmt"

	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

func (c *Cli) runWorkspace(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand. Usage: timelapse workspace <create|list>")
	}

	switch args[0] {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("missing name. Usage: timelapse workspace create <name>")
		}
		return c.runWorkspaceCreate(ctx, args[1])
	case "list":
		return c.runWorkspaceList(ctx)
	default:
		return fmt.Errorf("unknown subcommand: %s. Usage: timelapse workspace <create|list>", args[0])
	}
}

func (c *Cli) runWorkspaceCreate(ctx context.Context, name string) error {
	workspace, err := c.apiClient.CreateWorkspace(ctx, api.CreateWorkspaceRequest{Name: name})
	if err != nil {
		return err
	}

	c.io.Printf("Created workspace %q\n", workspace.Name)
	c.io.Printf("ID: %s\n", workspace.ID)
	return nil
}

func (c *Cli) runWorkspaceList(ctx context.Context) error {
	list, err := c.apiClient.ListWorkspaces(ctx)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		c.io.Println("No workspaces. Run 'timelapse workspace create <name>'.")
		return nil
	}

	for _, workspace := range list {
		source := workspace.DataSourceType
		if workspace.PluginID != "" {
			source = fmt.Sprintf("%s (%s)", workspace.DataSourceType, workspace.PluginID)
		}
		c.io.Printf("%-36s  %-20s  %s\n", workspace.ID, workspace.Name, source)
	}
	return nil
}

func (c *Cli) runConnectors(ctx context.Context) error {
	connectors, err := c.apiClient.ListConnectors(ctx)
	if err != nil {
		return err
	}

	if len(connectors) == 0 {
		c.io.Println("No connectors registered on the server.")
		return nil
	}

	for _, connector := range connectors {
		c.io.Printf("%-24s  %-12s  %s\n", connector.ID, connector.DataSourceType, connector.DisplayName)
	}
	return nil
}
