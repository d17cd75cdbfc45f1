package migrations

import (
	"gorm.io/gorm"

	"github.com/mulearn-geci/community-api/internal/domain/contact"
	"github.com/mulearn-geci/community-api/internal/domain/event"
	"github.com/mulearn-geci/community-api/internal/domain/post"
	"github.com/mulearn-geci/community-api/internal/domain/user"
)

// AllModels returns every model the schema is built from
func AllModels() []interface{} {
	return []interface{}{
		&user.User{},
		&post.Post{},
		&event.Event{},
		&contact.Contact{},
	}
}

// migration002Up creates all core tables from the domain models
func migration002Up(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

func migration002Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&contact.Contact{},
		&event.Event{},
		&post.Post{},
		&user.User{},
	)
}
