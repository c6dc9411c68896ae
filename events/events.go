package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	IdeaCreated     = "idea.created"
	FollowRequested = "follow.requested"
	FollowApproved  = "follow.approved"
)

// Event payloads
type IdeaCreatedEvent struct {
	IdeaID     uuid.UUID `json:"idea_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	Visibility string    `json:"visibility"`
	CreatedOn  time.Time `json:"created_on"`
}

type FollowRequestedEvent struct {
	FollowID   uuid.UUID `json:"follow_id"`
	UserID     uuid.UUID `json:"user_id"`
	FollowerID uuid.UUID `json:"follower_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type FollowApprovedEvent struct {
	FollowID   uuid.UUID `json:"follow_id"`
	UserID     uuid.UUID `json:"user_id"`
	FollowerID uuid.UUID `json:"follower_id"`
	Approved   bool      `json:"approved"`
}
