package services

import (
	"database/sql"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/database"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/i18n"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
	"github.com/google/uuid"
)

// GetProfile fetches a profile by user ID. Returns (nil, nil) when no row
// exists so callers can distinguish "not found" from a transport failure.
func GetProfile(userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	var avatarURL sql.NullString
	err := database.PostgresDB.QueryRow(`
		SELECT id, email, full_name, avatar_url, language, password_hash, created_at, updated_at
		FROM profiles WHERE id = $1
	`, userID).Scan(&p.ID, &p.Email, &p.FullName, &avatarURL, &p.Language,
		&p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.AvatarURL = avatarURL.String
	return &p, nil
}

// GetProfileByEmail fetches a profile by email (case-insensitive).
// Returns (nil, nil) when no account exists.
func GetProfileByEmail(email string) (*models.Profile, error) {
	var p models.Profile
	var avatarURL sql.NullString
	err := database.PostgresDB.QueryRow(`
		SELECT id, email, full_name, avatar_url, language, password_hash, created_at, updated_at
		FROM profiles WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&p.ID, &p.Email, &p.FullName, &avatarURL, &p.Language,
		&p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.AvatarURL = avatarURL.String
	return &p, nil
}

// UpdateProfile merges the provided fields into the profile row and
// returns the fresh snapshot. Requires an existing profile.
func UpdateProfile(userID uuid.UUID, update models.ProfileUpdate) (*models.Profile, error) {
	current, err := GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, sql.ErrNoRows
	}

	if update.FullName != nil {
		current.FullName = *update.FullName
	}
	if update.AvatarURL != nil {
		current.AvatarURL = *update.AvatarURL
	}
	if update.Language != nil && i18n.IsSupported(*update.Language) {
		current.Language = *update.Language
	}
	current.UpdatedAt = time.Now().UTC()

	_, err = database.PostgresDB.Exec(`
		UPDATE profiles
		SET full_name = $2, avatar_url = $3, language = $4, updated_at = $5
		WHERE id = $1
	`, userID, current.FullName, current.AvatarURL, current.Language, current.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return current, nil
}
