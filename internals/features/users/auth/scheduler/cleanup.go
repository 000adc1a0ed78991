package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	"eduplay_backend/internals/features/users/auth/model"
)

// StartBlacklistCleanupScheduler deletes blacklist rows whose tokens have
// expired. Runs daily; safe to start right after the DB is ready.
func StartBlacklistCleanupScheduler(db *gorm.DB) {
	go func() {
		for {
			log.Println("[CLEANUP] Purging expired token_blacklist rows...")

			res := db.Where("expired_at < ?", time.Now()).Delete(&model.TokenBlacklist{})
			if res.Error != nil {
				log.Printf("[CLEANUP ERROR] token_blacklist purge failed: %v", res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("[CLEANUP] %d expired tokens removed", res.RowsAffected)
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
