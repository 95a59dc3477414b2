package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"kopichat/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendResponseEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	SendResponse(rec, http.StatusOK, map[string]string{"token": "abc"}, "login successful", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(http.StatusOK), body["status"])
	assert.Equal(t, "login successful", body["message"])
	assert.NotNil(t, body["data"])
	assert.NotContains(t, body, "error")
}

func TestSendResponseIncludesError(t *testing.T) {
	rec := httptest.NewRecorder()
	SendResponse(rec, http.StatusConflict, nil, "already taken", errors.New("duplicate name"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "duplicate name", body["error"])
}

func TestRespondWithStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", fmt.Errorf("missing date: %w", models.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("booking x: %w", models.ErrNotFound), http.StatusNotFound},
		{"credentials", models.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondWithStoreError(rec, tt.err)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
