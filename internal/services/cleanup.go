package services

import (
	"log"
	"time"

	"github.com/coffeeguard-rw/coffeeguard-backend/internal/database"
)

// CleanupExpiredResetTokens deletes password reset tokens that have
// expired or been used.
func CleanupExpiredResetTokens() error {
	res, err := database.PostgresDB.Exec(`
		DELETE FROM password_reset_tokens
		WHERE expires_at < NOW() OR used = TRUE
	`)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		log.Printf("Cleaned up %d expired password reset tokens", n)
	}
	return nil
}

// StartTokenCleanup starts a background goroutine that periodically purges
// expired password reset tokens. Runs once at startup, then on the ticker.
func StartTokenCleanup(intervalHours int) {
	if intervalHours <= 0 {
		intervalHours = 1
	}

	go func() {
		ticker := time.NewTicker(time.Duration(intervalHours) * time.Hour)
		defer ticker.Stop()

		if err := CleanupExpiredResetTokens(); err != nil {
			log.Printf("token cleanup failed: %v", err)
		}

		for range ticker.C {
			if err := CleanupExpiredResetTokens(); err != nil {
				log.Printf("token cleanup failed: %v", err)
			}
		}
	}()
}
