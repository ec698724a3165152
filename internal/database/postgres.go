package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	// Set connection pool settings
	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize tables
	if err = InitPostgresTables(); err != nil {
		return err
	}

	return SeedDiseases()
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables() error {
	queries := []string{
		// Profiles table (one row per account; password hash lives here,
		// never in responses)
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) NOT NULL UNIQUE,
			full_name VARCHAR(255) NOT NULL,
			avatar_url TEXT,
			language VARCHAR(8) NOT NULL DEFAULT 'en',
			notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Diagnosis history (immutable after insert, delete-only)
		`CREATE TABLE IF NOT EXISTS diagnosis_history (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			image_url TEXT NOT NULL,
			disease_name VARCHAR(255) NOT NULL,
			disease_name_rw VARCHAR(255),
			confidence DOUBLE PRECISION NOT NULL,
			severity VARCHAR(16) NOT NULL CHECK (severity IN ('mild', 'moderate', 'severe')),
			affected_area DOUBLE PRECISION NOT NULL,
			treatment_action TEXT NOT NULL,
			treatment_instructions TEXT,
			treatment_alternative TEXT,
			estimated_cost VARCHAR(64),
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Per-user preferences
		`CREATE TABLE IF NOT EXISTS user_settings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			language VARCHAR(8) NOT NULL DEFAULT 'en',
			notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			theme_preference VARCHAR(16) NOT NULL DEFAULT 'light',
			auto_save_history BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE(user_id)
		)`,

		// Reference disease catalog (seeded below)
		`CREATE TABLE IF NOT EXISTS diseases (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL UNIQUE,
			name_rw VARCHAR(255) NOT NULL,
			description TEXT,
			description_rw TEXT,
			symptoms TEXT,
			symptoms_rw TEXT,
			treatment TEXT,
			treatment_rw TEXT,
			prevention TEXT,
			prevention_rw TEXT,
			estimated_cost VARCHAR(64),
			severity_levels TEXT[],
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Password reset tokens table
		`CREATE TABLE IF NOT EXISTS password_reset_tokens (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
			token VARCHAR(255) NOT NULL UNIQUE,
			expires_at TIMESTAMP NOT NULL,
			used BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		// Create indexes for better performance
		`CREATE INDEX IF NOT EXISTS idx_profiles_email ON profiles(LOWER(email))`,
		`CREATE INDEX IF NOT EXISTS idx_diagnosis_history_user_id ON diagnosis_history(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_diagnosis_history_created_at ON diagnosis_history(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_user_settings_user_id ON user_settings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_diseases_name ON diseases(name)`,
		`CREATE INDEX IF NOT EXISTS idx_password_reset_tokens_token ON password_reset_tokens(token)`,
		`CREATE INDEX IF NOT EXISTS idx_password_reset_tokens_user_id ON password_reset_tokens(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_password_reset_tokens_expires_at ON password_reset_tokens(expires_at)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
