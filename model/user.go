package models

import (
	"github.com/google/uuid"
)

// User is owned by the external identity service; this service only reads it.
type User struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Username string    `json:"username" db:"username"`
}
