package cli

import (
	"context"
	"fmt"

	"github.com/Gustavohps10/timelapse-sub001/internal/client/storage"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

func (c *Cli) runLink(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: timelapse link <workspace-id> <connector-id>")
	}

	workspace, err := c.apiClient.Link(ctx, args[0], api.LinkRequest{ConnectorID: args[1]})
	if err != nil {
		return err
	}

	c.io.Printf("Workspace %q linked to %s\n", workspace.Name, workspace.PluginID)
	c.io.Println("Run 'timelapse connect' to supply credentials.")
	return nil
}

func (c *Cli) runConnect(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: timelapse connect <workspace-id>")
	}
	workspaceID := args[0]

	workspace, err := c.apiClient.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}
	if workspace.PluginID == "" {
		return fmt.Errorf("workspace %q has no linked data source. Run 'timelapse link' first", workspace.Name)
	}

	fields, err := c.connectorFields(ctx, workspace.PluginID)
	if err != nil {
		return err
	}

	c.io.Printf("Connecting %q via %s\n", workspace.Name, workspace.PluginID)
	c.io.Println()

	config, err := c.promptGroups(fields.Configuration)
	if err != nil {
		return err
	}
	credentials, err := c.promptGroups(fields.Credentials)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.Connect(ctx, workspaceID, api.ConnectRequest{
		Credentials:   credentials,
		Configuration: config,
	})
	if err != nil {
		return err
	}

	if err := c.sessions.SaveSession(ctx, &storage.Session{
		WorkspaceID: workspaceID,
		Token:       resp.SessionToken,
	}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println()
	c.io.Printf("Connected. Session valid for %d seconds.\n", resp.ExpiresIn)
	return nil
}

func (c *Cli) runDisconnect(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: timelapse disconnect <workspace-id>")
	}

	workspace, err := c.apiClient.Disconnect(ctx, args[0])
	if err != nil {
		return err
	}

	if err := c.dropSessionFor(ctx, args[0]); err != nil {
		return err
	}

	c.io.Printf("Workspace %q disconnected. Credentials removed, link kept.\n", workspace.Name)
	return nil
}

func (c *Cli) runUnlink(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: timelapse unlink <workspace-id>")
	}

	workspace, err := c.apiClient.Unlink(ctx, args[0])
	if err != nil {
		return err
	}

	if err := c.dropSessionFor(ctx, args[0]); err != nil {
		return err
	}

	c.io.Printf("Workspace %q unlinked.\n", workspace.Name)
	return nil
}

// connectorFields looks up the declared config fields for a connector id.
func (c *Cli) connectorFields(ctx context.Context, connectorID string) (*api.ConfigFields, error) {
	connectors, err := c.apiClient.ListConnectors(ctx)
	if err != nil {
		return nil, err
	}
	for _, connector := range connectors {
		if connector.ID == connectorID {
			return &connector.ConfigFields, nil
		}
	}
	return nil, fmt.Errorf("connector %s is not registered on the server", connectorID)
}

// promptGroups collects values for every declared field. Password fields
// are read without echo.
func (c *Cli) promptGroups(groups []api.FieldGroup) (map[string]string, error) {
	values := make(map[string]string)

	for _, group := range groups {
		if group.Label != "" {
			c.io.Printf("--- %s ---\n", group.Label)
		}
		for _, field := range group.Fields {
			prompt := field.Label
			if field.Placeholder != "" {
				prompt = fmt.Sprintf("%s (%s)", prompt, field.Placeholder)
			}
			prompt += ": "

			var value string
			var err error
			if field.Type == api.FieldTypePassword {
				value, err = c.io.ReadPassword(prompt)
			} else {
				value, err = c.io.ReadInput(prompt)
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", field.ID, err)
			}
			if value == "" && field.Required {
				return nil, fmt.Errorf("%s is required", field.Label)
			}
			if value != "" {
				values[field.ID] = value
			}
		}
	}

	return values, nil
}

// dropSessionFor clears the stored session when it belongs to the given
// workspace. Sessions for other workspaces stay.
func (c *Cli) dropSessionFor(ctx context.Context, workspaceID string) error {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if err == storage.ErrSessionNotFound {
			return nil
		}
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session.WorkspaceID != workspaceID {
		return nil
	}
	if err := c.sessions.DeleteSession(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
