package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "cascade/pkg/errors"
)

// errorBody is the JSON error envelope
type errorBody struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("[API] Failed to encode response: %v", err)
		}
	}
}

// writeError maps an error to its HTTP status. Internal details never reach
// the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Printf("[API] Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error: "internal server error",
			Code:  string(apperrors.ErrCodeInternalError),
		})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		status = http.StatusForbidden
	case apperrors.ErrCodeBadRequest:
		status = http.StatusBadRequest
	case apperrors.ErrCodeValidation:
		status = http.StatusUnprocessableEntity
	case apperrors.ErrCodeInternalError:
		log.Printf("[API] Internal error: %v", appErr)
	}

	writeJSON(w, status, errorBody{
		Error:  appErr.Message,
		Code:   string(appErr.Code),
		Fields: appErr.Fields,
	})
}

// decodeJSON reads a request body into dst
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeBadRequest, "invalid request body", err)
	}
	return nil
}
