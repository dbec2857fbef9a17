package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Gustavohps10/timelapse-sub001/internal/server/jwt"
	"github.com/Gustavohps10/timelapse-sub001/internal/workspaces"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// WorkspaceHandler serves the workspace surface: create, get, list and
// the link/connect/disconnect/unlink lifecycle.
type WorkspaceHandler struct {
	service *workspaces.Service
	logger  *slog.Logger
	jwtCfg  jwt.Config
}

// NewWorkspaceHandler creates a workspace handler.
func NewWorkspaceHandler(service *workspaces.Service, jwtCfg jwt.Config, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		service: service,
		logger:  logger,
		jwtCfg:  jwtCfg,
	}
}

// Create handles POST /api/v1/workspaces
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateWorkspaceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	workspace, err := h.service.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, toWorkspaceDTO(workspace))
}

// Get handles GET /api/v1/workspaces/{id}
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	workspace, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toWorkspaceDTO(workspace))
}

// List handles GET /api/v1/workspaces
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	dtos := make([]api.WorkspaceDTO, 0, len(list))
	for _, workspace := range list {
		dtos = append(dtos, toWorkspaceDTO(workspace))
	}
	writeJSON(w, h.logger, http.StatusOK, dtos)
}

// Link handles POST /api/v1/workspaces/{id}/link
func (h *WorkspaceHandler) Link(w http.ResponseWriter, r *http.Request) {
	var req api.LinkRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	workspace, err := h.service.LinkDataSource(r.Context(), r.PathValue("id"), req.ConnectorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toWorkspaceDTO(workspace))
}

// Connect handles POST /api/v1/workspaces/{id}/connect
func (h *WorkspaceHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req api.ConnectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	workspaceID := r.PathValue("id")
	workspace, session, err := h.service.ConnectDataSource(r.Context(), workspaceID, req.Credentials, req.Configuration)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, expiresIn, err := jwt.GenerateSessionToken(h.jwtCfg, workspaceID, session.MemberID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.ConnectResponse{
		Workspace:    toWorkspaceDTO(workspace),
		SessionToken: token,
		ExpiresIn:    expiresIn,
	})
}

// Disconnect handles POST /api/v1/workspaces/{id}/disconnect
func (h *WorkspaceHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	workspace, err := h.service.DisconnectDataSource(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toWorkspaceDTO(workspace))
}

// Unlink handles POST /api/v1/workspaces/{id}/unlink
func (h *WorkspaceHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	workspace, err := h.service.UnlinkDataSource(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toWorkspaceDTO(workspace))
}
