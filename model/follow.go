package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge from a follower to the user being followed.
// A new edge starts unapproved (pending) until the target user decides.
type Follow struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`         // User being followed
	FollowerID uuid.UUID `json:"follower_id" db:"follower_id"` // User who is following
	Approved   bool      `json:"approved" db:"approved"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
