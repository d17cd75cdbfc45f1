// Package memory provides mutex-guarded in-memory implementations of the
// storage interfaces, used by tests and local development without a
// database.
package memory

import (
	"strings"
	"time"

	"github.com/mulearn-geci/community-api/internal/query"
	"github.com/mulearn-geci/community-api/internal/storage"
)

// Container bundles the in-memory repositories
type Container struct {
	posts    *PostRepository
	events   *EventRepository
	contacts *ContactRepository
	users    *UserRepository
	stats    *StatsRepository
}

// NewContainer creates an empty in-memory container
func NewContainer() *Container {
	c := &Container{
		posts:    NewPostRepository(),
		events:   NewEventRepository(),
		contacts: NewContactRepository(),
		users:    NewUserRepository(),
	}
	c.stats = NewStatsRepository(c.posts, c.events, c.contacts)
	return c
}

func (c *Container) Posts() storage.PostRepository       { return c.posts }
func (c *Container) Events() storage.EventRepository     { return c.events }
func (c *Container) Contacts() storage.ContactRepository { return c.contacts }
func (c *Container) Users() storage.UserRepository       { return c.users }
func (c *Container) Stats() storage.StatsRepository      { return c.stats }

// matchesSearch reports whether any field contains the needle,
// case-insensitively.
func matchesSearch(needle string, fields ...string) bool {
	needle = strings.ToLower(needle)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// inDateRange applies the optional dateFrom/dateTo bounds
func inDateRange(t time.Time, opts query.Options) bool {
	if opts.DateFrom != nil && t.Before(*opts.DateFrom) {
		return false
	}
	if opts.DateTo != nil && t.After(*opts.DateTo) {
		return false
	}
	return true
}

// page slices one page out of the filtered result set
func page[T any](items []T, opts query.Options) []T {
	offset := opts.Offset()
	if offset >= len(items) {
		return []T{}
	}
	end := offset + opts.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
