package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Gustavohps10/timelapse-sub001/internal/models"
	"github.com/Gustavohps10/timelapse-sub001/internal/workspaces"
)

// Create inserts a new workspace.
// Returns ErrWorkspaceExists on duplicate id.
func (s *Storage) Create(ctx context.Context, workspace *models.Workspace) error {
	config, err := marshalConfig(workspace.PluginConfig)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO workspaces (
			id, name, data_source_type, plugin_id, plugin_config,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		workspace.ID,
		workspace.Name,
		workspace.DataSourceType,
		workspace.PluginID,
		config,
		workspace.CreatedAt.Unix(),
		workspace.UpdatedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return workspaces.ErrWorkspaceExists
		}
		return fmt.Errorf("failed to insert workspace: %w", err)
	}
	return nil
}

// GetByID returns the workspace with the given id.
// Returns ErrWorkspaceNotFound if it does not exist.
func (s *Storage) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	query := `
		SELECT id, name, data_source_type, plugin_id, plugin_config,
		       created_at, updated_at
		FROM workspaces
		WHERE id = ?
	`

	workspace, err := scanWorkspace(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workspaces.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return workspace, nil
}

// List returns all workspaces ordered by creation time.
func (s *Storage) List(ctx context.Context) ([]*models.Workspace, error) {
	query := `
		SELECT id, name, data_source_type, plugin_id, plugin_config,
		       created_at, updated_at
		FROM workspaces
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query workspaces: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = cerr
		}
	}()

	var result []*models.Workspace
	for rows.Next() {
		workspace, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		result = append(result, workspace)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return result, nil
}

// Update persists the workspace state.
// Returns ErrWorkspaceNotFound if it does not exist.
func (s *Storage) Update(ctx context.Context, workspace *models.Workspace) error {
	config, err := marshalConfig(workspace.PluginConfig)
	if err != nil {
		return err
	}

	query := `
		UPDATE workspaces
		SET name = ?, data_source_type = ?, plugin_id = ?,
		    plugin_config = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		workspace.Name,
		workspace.DataSourceType,
		workspace.PluginID,
		config,
		workspace.UpdatedAt.Unix(),
		workspace.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return workspaces.ErrWorkspaceNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanWorkspace(row scanner) (*models.Workspace, error) {
	workspace := &models.Workspace{}
	var config string
	var createdAt, updatedAt int64

	err := row.Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.DataSourceType,
		&workspace.PluginID,
		&config,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if config != "" {
		if err := json.Unmarshal([]byte(config), &workspace.PluginConfig); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plugin config: %w", err)
		}
	}
	workspace.CreatedAt = time.Unix(createdAt, 0)
	workspace.UpdatedAt = time.Unix(updatedAt, 0)
	return workspace, nil
}

func marshalConfig(config map[string]string) (string, error) {
	if len(config) == 0 {
		return "", nil
	}
	data, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal plugin config: %w", err)
	}
	return string(data), nil
}
