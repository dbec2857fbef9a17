package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{Validation("x"), http.StatusUnprocessableEntity},
		{Unauthorized("x"), http.StatusUnauthorized},
		{NotFound("x"), http.StatusNotFound},
		{Internal("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus())
	}
}

func TestFrom_PassesThroughTypedErrors(t *testing.T) {
	orig := NotFound("workspace.notFound")
	wrapped := fmt.Errorf("loading: %w", orig)

	got := From(wrapped)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.Equal(t, "workspace.notFound", got.MessageKey)
}

func TestFrom_CoercesUnknownToInternal(t *testing.T) {
	plain := errors.New("disk on fire")

	got := From(plain)
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, "error.internal", got.MessageKey)
	assert.ErrorIs(t, got, plain)
}

func TestKindHelpers(t *testing.T) {
	err := Validation("timeEntry.taskRequired")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.True(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(err, KindNotFound))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestInfo(t *testing.T) {
	err := Validation("connector.missingCredentials").WithDetails(map[string]any{"fields": []string{"apiKey"}})

	info := err.Info()
	require.NotNil(t, info)
	assert.Equal(t, "validation", info.Kind)
	assert.Equal(t, "connector.missingCredentials", info.MessageKey)
	assert.Equal(t, []string{"apiKey"}, info.Details["fields"])
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("connector.backendError").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
