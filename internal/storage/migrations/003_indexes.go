package migrations

import "gorm.io/gorm"

// migration003Up creates the indexes the list and dashboard queries lean on
func migration003Up(db *gorm.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_posts_status_created ON posts (status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_views ON posts (views DESC) WHERE status = 'published'`,
		`CREATE INDEX IF NOT EXISTS idx_events_status_date ON events (status, date)`,
		`CREATE INDEX IF NOT EXISTS idx_events_featured ON events (featured) WHERE featured = true`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_status_created ON contacts (status, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_priority ON contacts (priority)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func migration003Down(db *gorm.DB) error {
	statements := []string{
		`DROP INDEX IF EXISTS idx_posts_status_created`,
		`DROP INDEX IF EXISTS idx_posts_views`,
		`DROP INDEX IF EXISTS idx_events_status_date`,
		`DROP INDEX IF EXISTS idx_events_featured`,
		`DROP INDEX IF EXISTS idx_contacts_status_created`,
		`DROP INDEX IF EXISTS idx_contacts_priority`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
