package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/pkg/api"
)

// ConnectorHandler exposes the registered connector catalog so a client
// can discover which data sources exist and which fields each one needs.
type ConnectorHandler struct {
	registry *connector.Registry
	logger   *slog.Logger
}

// NewConnectorHandler creates a connector catalog handler.
func NewConnectorHandler(registry *connector.Registry, logger *slog.Logger) *ConnectorHandler {
	return &ConnectorHandler{registry: registry, logger: logger}
}

// List handles GET /api/v1/connectors
func (h *ConnectorHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.registry.All()

	dtos := make([]api.ConnectorDTO, 0, len(all))
	for _, c := range all {
		dtos = append(dtos, api.ConnectorDTO{
			ID:             c.ID(),
			DataSourceType: c.DataSourceType(),
			DisplayName:    c.DisplayName(),
			ConfigFields:   c.ConfigFields(),
		})
	}
	writeJSON(w, h.logger, http.StatusOK, dtos)
}
