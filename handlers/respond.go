package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"survivor-league/database"
	"survivor-league/logging"
	"survivor-league/services"
)

// Reasons carried by 409 responses on pick'em submission
const (
	ReasonTime   = "time"
	ReasonScored = "scored"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service sentinel errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500 without internal detail.
func writeServiceError(w http.ResponseWriter, logger *logging.Logger, op string, err error) {
	switch {
	case errors.Is(err, services.ErrScored):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Reason: ReasonScored})
	case errors.Is(err, services.ErrLocked):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Reason: ReasonTime})
	case errors.Is(err, services.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, database.ErrDuplicate):
		writeError(w, http.StatusConflict, "already exists")
	default:
		logger.Errorf("%s failed: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a request body into dst, rejecting unknown fields
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
