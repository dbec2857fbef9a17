package models

import (
	"time"

	"github.com/google/uuid"
)

// DataSourceLocal marks a workspace with no external backend linked.
const DataSourceLocal = "local"

// Workspace is the tenant boundary. A workspace owns at most one connector
// binding at a time; DataSourceType "local" means no external backend is
// linked. Workspaces are never hard-deleted by the sync core.
type Workspace struct {
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	PluginConfig   map[string]string `json:"plugin_config,omitempty"`
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	DataSourceType string            `json:"data_source_type"`
	PluginID       string            `json:"plugin_id,omitempty"`
}

// NewWorkspace creates an unlinked workspace with a fresh id.
func NewWorkspace(name string) *Workspace {
	now := time.Now()
	return &Workspace{
		ID:             uuid.NewString(),
		Name:           name,
		DataSourceType: DataSourceLocal,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Linked reports whether a connector is bound to the workspace.
func (w *Workspace) Linked() bool {
	return w.PluginID != "" && w.DataSourceType != DataSourceLocal
}

// Link binds the workspace to a connector and clears any stale config left
// over from a previous binding.
func (w *Workspace) Link(pluginID, dataSourceType string) {
	w.PluginID = pluginID
	w.DataSourceType = dataSourceType
	w.PluginConfig = nil
	w.UpdatedAt = time.Now()
}

// Unlink returns the workspace to the local-only state.
func (w *Workspace) Unlink() {
	w.PluginID = ""
	w.DataSourceType = DataSourceLocal
	w.PluginConfig = nil
	w.UpdatedAt = time.Now()
}

// Clone creates a deep copy of the workspace.
func (w *Workspace) Clone() *Workspace {
	clone := *w
	if w.PluginConfig != nil {
		clone.PluginConfig = make(map[string]string, len(w.PluginConfig))
		for k, v := range w.PluginConfig {
			clone.PluginConfig[k] = v
		}
	}
	return &clone
}
