package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mulearn-geci/community-api/internal/domain/event"
	"github.com/mulearn-geci/community-api/internal/logger"
	"github.com/mulearn-geci/community-api/internal/query"
)

var eventSearchFields = []string{"title", "description", "location", "array_to_string(tags, ' ')"}

// EventRepository is the GORM-backed event store
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new PostgreSQL event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	var e event.Event
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	r.refreshStatus(ctx, &e)
	return &e, nil
}

func (r *EventRepository) GetBySlug(ctx context.Context, slug string) (*event.Event, error) {
	var e event.Event
	err := r.db.WithContext(ctx).First(&e, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event by slug: %w", err)
	}
	r.refreshStatus(ctx, &e)
	return &e, nil
}

func (r *EventRepository) List(ctx context.Context, opts query.Options) ([]*event.Event, int64, error) {
	base := applyFilters(r.db.WithContext(ctx).Model(&event.Event{}), opts, eventSearchFields, "date")

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	var events []*event.Event
	err := paginate(base.Session(&gorm.Session{}), opts).
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	// Derive the automatic completion transition for the returned page only;
	// the durable flip happens on the next single-entity touch.
	now := time.Now()
	for _, e := range events {
		e.DeriveStatus(now)
	}
	return events, total, nil
}

func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	e.DeriveStatus(time.Now())
	result := r.db.WithContext(ctx).Model(&event.Event{}).Where("id = ?", e.ID).
		Select("*").Omit("id", "created_at", "current_attendees").Updates(e)
	if result.Error != nil {
		return fmt.Errorf("failed to update event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return event.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&event.Event{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return event.ErrNotFound
	}
	return nil
}

// IncrementAttendees claims one seat with a single conditional update, so
// concurrent registrations can never overshoot the cap. RETURNING reports
// the count this claim produced, not whatever a later claim left behind.
func (r *EventRepository) IncrementAttendees(ctx context.Context, id uuid.UUID) (int, error) {
	var claimed event.Event
	result := r.db.WithContext(ctx).Model(&claimed).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "current_attendees"}}}).
		Where("id = ? AND current_attendees < max_attendees", id).
		UpdateColumn("current_attendees", gorm.Expr("current_attendees + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("failed to increment attendees: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a full event from a missing one
		var count int64
		if err := r.db.WithContext(ctx).Model(&event.Event{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to check event existence: %w", err)
		}
		if count == 0 {
			return 0, event.ErrNotFound
		}
		return 0, event.ErrEventFull
	}
	return claimed.CurrentAttendees, nil
}

// refreshStatus persists the upcoming -> completed flip when a load derives
// it, so subsequent reads and filters see the settled value. Best effort:
// the caller already holds the corrected entity.
func (r *EventRepository) refreshStatus(ctx context.Context, e *event.Event) {
	if !e.DeriveStatus(time.Now()) {
		return
	}
	err := r.db.WithContext(ctx).Model(&event.Event{}).Where("id = ?", e.ID).
		UpdateColumn("status", e.Status).Error
	if err != nil {
		logger.Repository("events").Warn("Failed to persist derived event status",
			"event_id", e.ID, "error", err)
	}
}
