package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Gustavohps10/timelapse-sub001/internal/apperrors"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps err onto the error taxonomy and writes its wire shape.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	appErr := apperrors.From(err)
	if appErr.Kind == apperrors.KindInternal {
		logger.Error("request failed", "error", err)
	} else {
		logger.Warn("request rejected", "kind", appErr.Kind, "message_key", appErr.MessageKey)
	}
	writeJSON(w, logger, appErr.HTTPStatus(), appErr.Info())
}

// decodeBody parses the JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Validation("request.invalidBody").WithCause(err)
	}
	return nil
}
