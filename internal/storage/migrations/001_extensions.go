package migrations

import "gorm.io/gorm"

// migration001Up enables the extensions the schema depends on
func migration001Up(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error
}

func migration001Down(db *gorm.DB) error {
	return db.Exec(`DROP EXTENSION IF EXISTS "uuid-ossp"`).Error
}
