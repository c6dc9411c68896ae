package handler

import (
	"net/http"

	"go.uber.org/zap"

	apperrors "ideas-service/pkg/errors"
	"ideas-service/service"
)

type UserHandler struct {
	queries *service.QueryService
	logger  *zap.Logger
}

func NewUserHandler(queries *service.QueryService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		queries: queries,
		logger:  logger,
	}
}

// SearchUsers handles GET /api/users/search?q=
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")
	if search == "" {
		writeError(w, apperrors.NewValidationError("q is required"))
		return
	}

	users, err := h.queries.SearchUsers(r.Context(), search)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}
