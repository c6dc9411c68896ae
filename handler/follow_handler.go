package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ideas-service/middleware"
	apperrors "ideas-service/pkg/errors"
	"ideas-service/service"
)

type FollowHandler struct {
	queries   *service.QueryService
	mutations *service.MutationService
	logger    *zap.Logger
}

func NewFollowHandler(queries *service.QueryService, mutations *service.MutationService, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{
		queries:   queries,
		mutations: mutations,
		logger:    logger,
	}
}

type followUserRequest struct {
	UserID string `json:"user_id"`
}

type approveFollowerRequest struct {
	Approved bool `json:"approved"`
}

// FollowUser handles POST /api/follows
func (h *FollowHandler) FollowUser(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	var req followUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body"))
		return
	}
	if req.UserID == "" {
		writeError(w, apperrors.NewValidationError("user_id is required"))
		return
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, apperrors.NewValidationError("invalid user_id format"))
		return
	}

	follow, err := h.mutations.FollowUser(r.Context(), viewerID, targetID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, follow)
}

// ApproveFollower handles POST /api/followers/{followID}/decision
func (h *FollowHandler) ApproveFollower(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	followID, err := uuid.Parse(chi.URLParam(r, "followID"))
	if err != nil {
		writeError(w, apperrors.NewValidationError("invalid follow id"))
		return
	}

	var req approveFollowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body"))
		return
	}

	follow, err := h.mutations.ApproveFollower(r.Context(), viewerID, followID, req.Approved)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, follow)
}

// UnfollowUser handles DELETE /api/follows/{userID}
func (h *FollowHandler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, apperrors.NewValidationError("invalid user id"))
		return
	}

	if err := h.mutations.UnfollowUser(r.Context(), viewerID, targetID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// RemoveFollower handles DELETE /api/followers/{followerID}
func (h *FollowHandler) RemoveFollower(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	followerID, err := uuid.Parse(chi.URLParam(r, "followerID"))
	if err != nil {
		writeError(w, apperrors.NewValidationError("invalid follower id"))
		return
	}

	if err := h.mutations.RemoveFollower(r.Context(), viewerID, followerID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// MyFollowers handles GET /api/followers
func (h *FollowHandler) MyFollowers(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	follows, err := h.queries.MyFollowers(r.Context(), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, follows)
}

// MyPendingFollowers handles GET /api/followers/pending
func (h *FollowHandler) MyPendingFollowers(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	follows, err := h.queries.MyPendingFollowers(r.Context(), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, follows)
}

// MyFollows handles GET /api/follows
func (h *FollowHandler) MyFollows(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.GetViewerID(r.Context())
	if err != nil {
		writeError(w, apperrors.NewPermissionError("not authenticated"))
		return
	}

	follows, err := h.queries.MyFollows(r.Context(), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, follows)
}
