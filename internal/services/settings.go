package services

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/database"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/i18n"
	"github.com/coffeeguard-rw/coffeeguard-backend/internal/models"
	"github.com/google/uuid"
)

const (
	// LanguageCacheKeyPrefix is the Redis key prefix for the per-user
	// language fallback cache.
	LanguageCacheKeyPrefix = "lang:"
	// LanguageCacheTTL keeps the fallback fresh for a week, matching the
	// session lifetime.
	LanguageCacheTTL = 7 * 24 * time.Hour
)

// GetUserSettings returns a user's settings, creating the default row on
// first read the way the original backend did.
func GetUserSettings(userID uuid.UUID) (*models.UserSettings, error) {
	var s models.UserSettings
	err := database.PostgresDB.QueryRow(`
		SELECT id, user_id, language, notifications_enabled, theme_preference,
			auto_save_history, created_at, updated_at
		FROM user_settings WHERE user_id = $1
	`, userID).Scan(&s.ID, &s.UserID, &s.Language, &s.NotificationsEnabled,
		&s.ThemePreference, &s.AutoSaveHistory, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return createDefaultSettings(userID)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func createDefaultSettings(userID uuid.UUID) (*models.UserSettings, error) {
	s := models.DefaultSettings(userID)
	_, err := database.PostgresDB.Exec(`
		INSERT INTO user_settings (id, user_id, language, notifications_enabled,
			theme_preference, auto_save_history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO NOTHING
	`, s.ID, s.UserID, s.Language, s.NotificationsEnabled, s.ThemePreference,
		s.AutoSaveHistory, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateUserSettings merges the provided fields and returns the fresh
// snapshot. The language preference is mirrored into Redis so lookups
// survive a Postgres outage.
func UpdateUserSettings(userID uuid.UUID, update models.SettingsUpdate) (*models.UserSettings, error) {
	current, err := GetUserSettings(userID)
	if err != nil {
		return nil, err
	}

	if update.Language != nil && i18n.IsSupported(*update.Language) {
		current.Language = *update.Language
	}
	if update.NotificationsEnabled != nil {
		current.NotificationsEnabled = *update.NotificationsEnabled
	}
	if update.ThemePreference != nil {
		current.ThemePreference = *update.ThemePreference
	}
	if update.AutoSaveHistory != nil {
		current.AutoSaveHistory = *update.AutoSaveHistory
	}
	current.UpdatedAt = time.Now().UTC()

	_, err = database.PostgresDB.Exec(`
		UPDATE user_settings
		SET language = $2, notifications_enabled = $3, theme_preference = $4,
			auto_save_history = $5, updated_at = $6
		WHERE user_id = $1
	`, userID, current.Language, current.NotificationsEnabled,
		current.ThemePreference, current.AutoSaveHistory, current.UpdatedAt)
	if err != nil {
		return nil, err
	}

	CacheLanguagePreference(userID, current.Language)
	return current, nil
}

// CacheLanguagePreference mirrors the language choice into Redis.
// Best-effort: a cache failure is logged, never surfaced.
func CacheLanguagePreference(userID uuid.UUID, language string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := database.RedisClient.Set(ctx, LanguageCacheKeyPrefix+userID.String(), language, LanguageCacheTTL).Err(); err != nil {
		log.Printf("failed to cache language preference: %v", err)
	}
}

// CachedLanguage returns the Redis-cached language for a user, defaulting
// to English when nothing is cached.
func CachedLanguage(userID uuid.UUID) i18n.Language {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	val, err := database.RedisClient.Get(ctx, LanguageCacheKeyPrefix+userID.String()).Result()
	if err != nil {
		return i18n.DefaultLanguage
	}
	return i18n.Parse(val)
}
