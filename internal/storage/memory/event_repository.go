package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mulearn-geci/community-api/internal/domain/event"
	"github.com/mulearn-geci/community-api/internal/query"
)

// EventRepository is a mutex-guarded in-memory event store
type EventRepository struct {
	mu     sync.RWMutex
	events map[uuid.UUID]*event.Event
}

// NewEventRepository creates an empty in-memory event repository
func NewEventRepository() *EventRepository {
	return &EventRepository{events: make(map[uuid.UUID]*event.Event)}
}

func (r *EventRepository) Create(_ context.Context, e *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	clone := *e
	r.events[e.ID] = &clone
	return nil
}

func (r *EventRepository) GetByID(_ context.Context, id uuid.UUID) (*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, event.ErrNotFound
	}
	e.DeriveStatus(time.Now())
	clone := *e
	return &clone, nil
}

func (r *EventRepository) GetBySlug(_ context.Context, slug string) (*event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Slug == slug {
			e.DeriveStatus(time.Now())
			clone := *e
			return &clone, nil
		}
	}
	return nil, event.ErrNotFound
}

func (r *EventRepository) List(_ context.Context, opts query.Options) ([]*event.Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var matched []*event.Event
	for _, e := range r.events {
		e.DeriveStatus(now)
		if !r.matches(e, opts) {
			continue
		}
		clone := *e
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.Before(matched[j].Date)
	})

	total := int64(len(matched))
	return page(matched, opts), total, nil
}

func (r *EventRepository) matches(e *event.Event, opts query.Options) bool {
	if opts.Status != "" && string(e.Status) != opts.Status {
		return false
	}
	if opts.Category != "" && string(e.Category) != opts.Category {
		return false
	}
	if opts.Type != "" && string(e.Type) != opts.Type {
		return false
	}
	if opts.Author != "" && e.AuthorID.String() != opts.Author {
		return false
	}
	if opts.Featured != nil && e.Featured != *opts.Featured {
		return false
	}
	if opts.Search != "" && !matchesSearch(opts.Search, append([]string{e.Title, e.Description, e.Location}, e.Tags...)...) {
		return false
	}
	return inDateRange(e.Date, opts)
}

func (r *EventRepository) Update(_ context.Context, e *event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.events[e.ID]
	if !ok {
		return event.ErrNotFound
	}
	clone := *e
	clone.CreatedAt = existing.CreatedAt
	clone.CurrentAttendees = existing.CurrentAttendees
	clone.DeriveStatus(time.Now())
	r.events[e.ID] = &clone
	return nil
}

func (r *EventRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return event.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *EventRepository) IncrementAttendees(_ context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return 0, event.ErrNotFound
	}
	if e.CurrentAttendees >= e.MaxAttendees {
		return 0, event.ErrEventFull
	}
	e.CurrentAttendees++
	return e.CurrentAttendees, nil
}
