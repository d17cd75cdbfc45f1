package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/mulearn-geci/community-api/internal/config"
	"github.com/mulearn-geci/community-api/internal/logger"
	"github.com/mulearn-geci/community-api/internal/storage"
	"github.com/mulearn-geci/community-api/internal/storage/migrations"
)

// Container bundles the PostgreSQL repositories behind storage.Repositories
type Container struct {
	db       *gorm.DB
	log      *log.Logger
	posts    *PostRepository
	events   *EventRepository
	contacts *ContactRepository
	users    *UserRepository
	stats    *StatsRepository
}

// NewContainer connects to the database, runs pending migrations and wires
// every repository.
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)
	container.log = log

	if err := container.Health(); err != nil {
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized")
	return container, nil
}

// NewContainerWithDB wires the repositories around an existing connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:       db,
		log:      logger.Repository("postgres_container"),
		posts:    NewPostRepository(db),
		events:   NewEventRepository(db),
		contacts: NewContactRepository(db),
		users:    NewUserRepository(db),
		stats:    NewStatsRepository(db),
	}
}

func (c *Container) Posts() storage.PostRepository       { return c.posts }
func (c *Container) Events() storage.EventRepository     { return c.events }
func (c *Container) Contacts() storage.ContactRepository { return c.contacts }
func (c *Container) Users() storage.UserRepository       { return c.users }
func (c *Container) Stats() storage.StatsRepository      { return c.stats }

// Health pings the underlying database
func (c *Container) Health() error {
	return Health(c.db)
}

// Close releases the underlying connection pool
func (c *Container) Close() error {
	c.log.Info("Closing database connections...")
	return Close(c.db)
}
