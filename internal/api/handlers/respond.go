package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/amaumene/showtrack/internal/models"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// decodeJSON reads a bounded JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &models.ValidationError{Field: "body", Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}

// writeError maps domain errors onto status codes. Anything unrecognized is
// logged and reported as a generic 500.
func writeError(w http.ResponseWriter, logger *logrus.Logger, err error, fallback string) {
	var validation *models.ValidationError
	switch {
	case errors.As(err, &validation):
		writeMessage(w, http.StatusBadRequest, validation.Error())
	case errors.Is(err, models.ErrConflict):
		writeMessage(w, http.StatusConflict, "User already exists")
	case errors.Is(err, models.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	default:
		logger.WithError(err).Error(fallback)
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}
