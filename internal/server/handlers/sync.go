package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
	"github.com/Gustavohps10/timelapse-sub001/internal/models"
	"github.com/Gustavohps10/timelapse-sub001/internal/scope"
	"github.com/Gustavohps10/timelapse-sub001/internal/server/middleware"
	"github.com/Gustavohps10/timelapse-sub001/internal/syncer"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// SyncHandler serves the replication protocol endpoints. Every request
// resolves a fresh workspace scope; nothing connector-related outlives the
// request.
type SyncHandler struct {
	resolver *scope.Resolver
	logger   *slog.Logger
}

// NewSyncHandler creates a sync handler.
func NewSyncHandler(resolver *scope.Resolver, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{resolver: resolver, logger: logger}
}

// authorize checks that the session token was issued for the workspace
// in the request path. A valid token for workspace A must not grant
// access to workspace B.
func (h *SyncHandler) authorize(r *http.Request, workspaceID string) error {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return apperrors.Unauthorized("session.missing")
	}
	if claims.WorkspaceID != workspaceID {
		return apperrors.Unauthorized("session.workspaceMismatch")
	}
	return nil
}

// Pull handles POST /api/v1/workspaces/{id}/sync/pull
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.PathValue("id")
	if err := h.authorize(r, workspaceID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req api.PullRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	sc, err := h.resolver.Resolve(r.Context(), workspaceID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	page, err := syncer.Pull[models.TimeEntry](r.Context(), sc.TimeEntries, req.Checkpoint, req.BatchSize)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := api.PullResponse[api.TimeEntry]{
		Documents:  make([]api.SyncDocument[api.TimeEntry], 0, len(page.Documents)),
		Checkpoint: page.Checkpoint,
	}
	for _, doc := range page.Documents {
		resp.Documents = append(resp.Documents, toAPIDocument(doc))
	}

	h.logger.Debug("pull served",
		"workspace_id", workspaceID,
		"documents", len(resp.Documents))
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Push handles POST /api/v1/workspaces/{id}/sync/push
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.PathValue("id")
	if err := h.authorize(r, workspaceID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req api.PushRequest[api.TimeEntry]
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	sc, err := h.resolver.Resolve(r.Context(), workspaceID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	batch := make([]syncer.Document, 0, len(req.Entries))
	for _, doc := range req.Entries {
		batch = append(batch, toModelDocument(doc))
	}

	processor := syncer.NewProcessor(sc.TimeEntries, sc.TimeEntryWriter, h.logger)
	results := processor.Push(r.Context(), batch)

	out := make([]api.SyncDocument[api.TimeEntry], 0, len(results))
	for _, doc := range results {
		out = append(out, toAPIDocument(doc))
	}

	h.logger.Debug("push processed",
		"workspace_id", workspaceID,
		"entries", len(out))
	writeJSON(w, h.logger, http.StatusOK, out)
}
