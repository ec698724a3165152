package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSettings is the per-user preference row, created with defaults on
// first read and written on change.
type UserSettings struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"user_id"`
	Language             string    `json:"language"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	ThemePreference      string    `json:"theme_preference"`
	AutoSaveHistory      bool      `json:"auto_save_history"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DefaultSettings mirrors the defaults the original backend inserted for a
// new account.
func DefaultSettings(userID uuid.UUID) UserSettings {
	now := time.Now().UTC()
	return UserSettings{
		ID:                   uuid.New(),
		UserID:               userID,
		Language:             "en",
		NotificationsEnabled: true,
		ThemePreference:      "light",
		AutoSaveHistory:      true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// SettingsUpdate carries the merge-patch fields accepted by settings update.
type SettingsUpdate struct {
	Language             *string `json:"language,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
	ThemePreference      *string `json:"theme_preference,omitempty"`
	AutoSaveHistory      *bool   `json:"auto_save_history,omitempty"`
}
