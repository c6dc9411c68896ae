package service

import (
	"github.com/google/uuid"

	"ideas-service/model"
)

// AllowedVisibilities derives the set of visibility levels a viewer may read
// from the given author. approvedFollow must hold the result of a single
// follow-graph lookup for (viewer, author); callers doing bulk filtering
// resolve it once per pair, not once per idea.
//
// Authors see all of their own levels. Everyone sees PUBLIC. An approved
// follow additionally grants PROTECTED.
func AllowedVisibilities(viewerID, authorID uuid.UUID, approvedFollow bool) []models.Visibility {
	if viewerID == authorID {
		return []models.Visibility{
			models.VisibilityPublic,
			models.VisibilityProtected,
			models.VisibilityPrivate,
		}
	}

	allowed := []models.Visibility{models.VisibilityPublic}
	if approvedFollow {
		allowed = append(allowed, models.VisibilityProtected)
	}
	return allowed
}

// CanView reports whether a viewer may read an idea with the given
// visibility. It is defined as membership in AllowedVisibilities, so the
// per-idea predicate and the bulk filter cannot drift apart.
func CanView(viewerID, authorID uuid.UUID, visibility models.Visibility, approvedFollow bool) bool {
	for _, v := range AllowedVisibilities(viewerID, authorID, approvedFollow) {
		if v == visibility {
			return true
		}
	}
	return false
}
