package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/logger"
)

type errorBody struct {
	Code                     domain.ErrorCode `json:"code"`
	Message                  string           `json:"message"`
	ConflictingReservationID int32            `json:"conflicting_reservation_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses. Anything
// without a domain code is a 500 with a generic body.
func writeError(w http.ResponseWriter, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error("Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: "INTERNAL", Message: "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch de.Code {
	case domain.ErrCodeValidation:
		status = http.StatusBadRequest
	case domain.ErrCodeConflict:
		status = http.StatusConflict
	case domain.ErrCodeNotFound:
		status = http.StatusNotFound
	case domain.ErrCodeForbidden:
		status = http.StatusForbidden
	case domain.ErrCodePrecondition:
		status = http.StatusUnprocessableEntity
	case domain.ErrCodeExternal:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorBody{
		Code:                     de.Code,
		Message:                  de.Message,
		ConflictingReservationID: de.ConflictingReservationID,
	})
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("invalid request body: %v", err)
	}
	return nil
}
