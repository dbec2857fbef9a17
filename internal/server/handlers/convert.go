package handlers

import (
	"github.com/Gustavohps10/timelapse-sub001/internal/models"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

func toWorkspaceDTO(w *models.Workspace) api.WorkspaceDTO {
	return api.WorkspaceDTO{
		ID:             w.ID,
		Name:           w.Name,
		DataSourceType: w.DataSourceType,
		PluginID:       w.PluginID,
		PluginConfig:   w.PluginConfig,
		CreatedAt:      w.CreatedAt,
		UpdatedAt:      w.UpdatedAt,
	}
}

func toAPITimeEntry(e models.TimeEntry) api.TimeEntry {
	return api.TimeEntry{
		ID:        e.ID,
		Task:      api.TaskRef{ID: e.Task.ID},
		Activity:  api.ActivityRef{ID: e.Activity.ID, Name: e.Activity.Name},
		User:      api.UserRef{ID: e.User.ID, Name: e.User.Name},
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		TimeSpent: e.TimeSpent,
		Comments:  e.Comments,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toModelTimeEntry(e api.TimeEntry) models.TimeEntry {
	return models.TimeEntry{
		ID:        e.ID,
		Task:      models.TaskRef{ID: e.Task.ID},
		Activity:  models.ActivityRef{ID: e.Activity.ID, Name: e.Activity.Name},
		User:      models.UserRef{ID: e.User.ID, Name: e.User.Name},
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		TimeSpent: e.TimeSpent,
		Comments:  e.Comments,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toAPIDocument(d api.SyncDocument[models.TimeEntry]) api.SyncDocument[api.TimeEntry] {
	out := api.SyncDocument[api.TimeEntry]{
		Document:        toAPITimeEntry(d.Document),
		Deleted:         d.Deleted,
		Conflicted:      d.Conflicted,
		ValidationError: d.ValidationError,
		SyncedAt:        d.SyncedAt,
	}
	if d.ConflictData != nil {
		out.ConflictData = &api.ConflictData[api.TimeEntry]{
			Local: toAPITimeEntry(d.ConflictData.Local),
		}
		if d.ConflictData.Server != nil {
			server := toAPITimeEntry(*d.ConflictData.Server)
			out.ConflictData.Server = &server
		}
	}
	if d.AssumedMasterState != nil {
		assumed := toAPITimeEntry(*d.AssumedMasterState)
		out.AssumedMasterState = &assumed
	}
	return out
}

func toModelDocument(d api.SyncDocument[api.TimeEntry]) api.SyncDocument[models.TimeEntry] {
	out := api.SyncDocument[models.TimeEntry]{
		Document:        toModelTimeEntry(d.Document),
		Deleted:         d.Deleted,
		Conflicted:      d.Conflicted,
		ValidationError: d.ValidationError,
		SyncedAt:        d.SyncedAt,
	}
	if d.ConflictData != nil {
		out.ConflictData = &api.ConflictData[models.TimeEntry]{
			Local: toModelTimeEntry(d.ConflictData.Local),
		}
		if d.ConflictData.Server != nil {
			server := toModelTimeEntry(*d.ConflictData.Server)
			out.ConflictData.Server = &server
		}
	}
	if d.AssumedMasterState != nil {
		assumed := toModelTimeEntry(*d.AssumedMasterState)
		out.AssumedMasterState = &assumed
	}
	return out
}
