// Package storage defines the persistence interfaces implemented by the
// postgres and memory backends.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/mulearn-geci/community-api/internal/domain/contact"
	"github.com/mulearn-geci/community-api/internal/domain/event"
	"github.com/mulearn-geci/community-api/internal/domain/post"
	"github.com/mulearn-geci/community-api/internal/domain/user"
	"github.com/mulearn-geci/community-api/internal/query"
)

// PostRepository persists posts
type PostRepository interface {
	Create(ctx context.Context, p *post.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	List(ctx context.Context, opts query.Options) ([]*post.Post, int64, error)
	Update(ctx context.Context, p *post.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	// IncrementViews bumps the view counter without rewriting the post
	IncrementViews(ctx context.Context, id uuid.UUID) error
	// IncrementLikes bumps the like counter and returns the new value
	IncrementLikes(ctx context.Context, id uuid.UUID) (int, error)
}

// EventRepository persists events. Implementations derive the automatic
// upcoming -> completed status transition on every single-entity load and
// persist it, so stale statuses never escape the repository.
type EventRepository interface {
	Create(ctx context.Context, e *event.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error)
	GetBySlug(ctx context.Context, slug string) (*event.Event, error)
	List(ctx context.Context, opts query.Options) ([]*event.Event, int64, error)
	Update(ctx context.Context, e *event.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	// IncrementAttendees atomically increments currentAttendees if and only
	// if the event still has capacity, returning the new count. Returns
	// event.ErrEventFull when the conditional update matches no row for a
	// present event, event.ErrNotFound when the event does not exist.
	IncrementAttendees(ctx context.Context, id uuid.UUID) (int, error)
}

// ContactRepository persists contact submissions
type ContactRepository interface {
	Create(ctx context.Context, c *contact.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*contact.Contact, error)
	List(ctx context.Context, opts query.Options) ([]*contact.Contact, int64, error)
	Update(ctx context.Context, c *contact.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	// StatusCounts returns submission counts grouped by status
	StatusCounts(ctx context.Context) (map[string]int64, error)
}

// UserRepository persists admin accounts
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
	Count(ctx context.Context) (int64, error)
}

// StatsRepository serves the dashboard aggregations
type StatsRepository interface {
	Overview(ctx context.Context) (*Overview, error)
	RecentActivity(ctx context.Context, limit int) (*RecentActivity, error)
	MonthlyCounts(ctx context.Context, year int) (*MonthlyCounts, error)
	DailyCounts(ctx context.Context, days int) (*DailyCounts, error)
	PopularPosts(ctx context.Context, limit int) ([]*post.Post, error)
	EventCapacity(ctx context.Context) (*EventCapacity, error)
	Distributions(ctx context.Context) (*Distributions, error)
}

// Repositories bundles every repository behind one container
type Repositories interface {
	Posts() PostRepository
	Events() EventRepository
	Contacts() ContactRepository
	Users() UserRepository
	Stats() StatsRepository
}
