package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ideas-service/middleware"
	"ideas-service/model"
	apperrors "ideas-service/pkg/errors"
	"ideas-service/service"
)

type IdeaHandler struct {
	queries   *service.QueryService
	mutations *service.MutationService
	logger    *zap.Logger
}

func NewIdeaHandler(queries *service.QueryService, mutations *service.MutationService, logger *zap.Logger) *IdeaHandler {
	return &IdeaHandler{
		queries:   queries,
		mutations: mutations,
		logger:    logger,
	}
}

type createIdeaRequest struct {
	Text       string            `json:"text"`
	Visibility models.Visibility `json:"visibility"`
}

type changeVisibilityRequest struct {
	Visibility models.Visibility `json:"visibility"`
}

// CreateIdea handles POST /api/ideas
func (h *IdeaHandler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	var req createIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	idea, err := h.mutations.CreateIdea(r.Context(), viewerID, req.Text, req.Visibility)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, idea)
}

// ChangeVisibility handles PATCH /api/ideas/{ideaID}/visibility
func (h *IdeaHandler) ChangeVisibility(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	ideaID, err := uuid.Parse(chi.URLParam(r, "ideaID"))
	if err != nil {
		writeError(w, apperrors.NewValidationError("invalid idea id"))
		return
	}

	var req changeVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	idea, err := h.mutations.ChangeIdeaVisibility(r.Context(), viewerID, ideaID, req.Visibility)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, idea)
}

// DeleteIdea handles DELETE /api/ideas/{ideaID}
func (h *IdeaHandler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	ideaID, err := uuid.Parse(chi.URLParam(r, "ideaID"))
	if err != nil {
		writeError(w, apperrors.NewValidationError("invalid idea id"))
		return
	}

	if err := h.mutations.DeleteIdea(r.Context(), viewerID, ideaID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// MyIdeas handles GET /api/ideas/mine
func (h *IdeaHandler) MyIdeas(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	ideas, err := h.queries.MyIdeas(r.Context(), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ideas)
}

// UserIdeas handles GET /api/users/{userID}/ideas
func (h *IdeaHandler) UserIdeas(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	authorID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, apperrors.NewValidationError("invalid user id"))
		return
	}

	ideas, err := h.queries.UserIdeas(r.Context(), viewerID, authorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ideas)
}

// Timeline handles GET /api/timeline
func (h *IdeaHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	ideas, err := h.queries.Timeline(r.Context(), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ideas)
}
