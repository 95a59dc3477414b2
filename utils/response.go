package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"kopichat/models"
)

type M map[string]interface{}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

func SendResponse(w http.ResponseWriter, status int, data any, message string, err error) {
	resp := map[string]any{
		"status":  status,
		"message": message,
		"data":    data,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	RespondWithJSON(w, status, resp)
}

// RespondWithStoreError maps the error taxonomy onto HTTP statuses. Anything
// outside the known sentinels is treated as the store being unavailable.
func RespondWithStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		RespondWithError(w, http.StatusUnauthorized, err.Error())
	default:
		RespondWithError(w, http.StatusInternalServerError, "store unavailable, try again later")
	}
}
