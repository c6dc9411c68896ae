package handler

import (
	"encoding/json"
	"net/http"

	apperrors "ideas-service/pkg/errors"
)

type errorResponse struct {
	Error string              `json:"error"`
	Type  apperrors.ErrorType `json:"type,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps tagged application errors to their HTTP status; anything
// untagged is an internal error and its detail stays out of the response.
func writeError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		writeJSON(w, appErr.HTTPStatus, errorResponse{Error: appErr.Message, Type: appErr.Type})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
