package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the read-mostly cached copy of the authenticated user held for
// the active session. The password hash never leaves the server.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Language     string    `json:"language"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileUpdate carries the merge-patch fields accepted by profile update.
// Nil pointers mean "leave unchanged".
type ProfileUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Language  *string `json:"language,omitempty"`
}
