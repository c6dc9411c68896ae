package models

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls who may read an idea.
type Visibility string

const (
	VisibilityPublic    Visibility = "PUBLIC"
	VisibilityProtected Visibility = "PROTECTED"
	VisibilityPrivate   Visibility = "PRIVATE"
)

// MaxIdeaTextLength is the upper bound on idea text, in Unicode code points.
const MaxIdeaTextLength = 280

// Valid reports whether v is one of the known visibility levels.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityProtected, VisibilityPrivate:
		return true
	}
	return false
}

type Idea struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	AuthorID   uuid.UUID  `json:"author_id" db:"author_id"`
	Text       string     `json:"text" db:"text"`
	Visibility Visibility `json:"visibility" db:"visibility"`
	CreatedOn  time.Time  `json:"created_on" db:"created_on"`
}
