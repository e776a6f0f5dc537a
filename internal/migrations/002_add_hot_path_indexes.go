package migrations

import (
	"gorm.io/gorm"
)

// Migration002AddHotPathIndexes covers the public trip feed
// (status + created_at) and the unread counter on the chat list.
// Statements are IF NOT EXISTS so re-runs are safe.
func Migration002AddHotPathIndexes() Migration {
	return Migration{
		ID:        "002_add_hot_path_indexes",
		Name:      "Add indexes for trip feed and unread counts",
		DependsOn: []string{"001_seed_cities"},
		Up: func(db *gorm.DB) error {
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_trips_feed ON trips (status, created_at DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages (chat_id, is_read, sender_id)`,
			}
			for _, stmt := range stmts {
				if err := db.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Down: func(db *gorm.DB) error {
			if err := db.Exec(`DROP INDEX IF EXISTS idx_messages_unread`).Error; err != nil {
				return err
			}
			return db.Exec(`DROP INDEX IF EXISTS idx_trips_feed`).Error
		},
	}
}
