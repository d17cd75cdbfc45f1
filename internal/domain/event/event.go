package event

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Registration failure signals, ordered by precedence: a caller checking a
// failed registration sees the first condition that did not hold.
var (
	ErrNotFound           = errors.New("event not found")
	ErrRegistrationClosed = errors.New("registration is not available for this event")
	ErrEventFull          = errors.New("event is full")
	ErrDeadlinePassed     = errors.New("registration deadline has passed")
)

// Event represents a community event such as a workshop or hackathon
type Event struct {
	ID                   uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title                string         `json:"title" gorm:"not null;size:200"`
	Slug                 string         `json:"slug" gorm:"uniqueIndex;not null"`
	Description          string         `json:"description" gorm:"not null;size:2000"`
	Content              string         `json:"content"`
	Image                string         `json:"image" gorm:"not null"`
	ImageAlt             string         `json:"imageAlt"`
	Date                 time.Time      `json:"date" gorm:"not null;index:idx_events_date_status"`
	Time                 string         `json:"time" gorm:"not null"`
	EndTime              string         `json:"endTime,omitempty"`
	Location             string         `json:"location" gorm:"not null"`
	Venue                *Venue         `json:"venue,omitempty" gorm:"type:jsonb"`
	Type                 Type           `json:"type" gorm:"type:varchar(20);not null;index"`
	Category             Category       `json:"category" gorm:"type:varchar(20);not null;default:'technical'"`
	MaxAttendees         int            `json:"maxAttendees" gorm:"not null"`
	CurrentAttendees     int            `json:"currentAttendees" gorm:"not null;default:0"`
	RegistrationLink     string         `json:"registrationLink,omitempty"`
	RegistrationDeadline *time.Time     `json:"registrationDeadline,omitempty"`
	Status               Status         `json:"status" gorm:"type:varchar(20);not null;default:'upcoming';index:idx_events_date_status"`
	Featured             bool           `json:"featured" gorm:"not null;default:false"`
	Tags                 pq.StringArray `json:"tags" gorm:"type:text[]"`
	Organizers           OrganizerList  `json:"organizers,omitempty" gorm:"type:jsonb"`
	Speakers             SpeakerList    `json:"speakers,omitempty" gorm:"type:jsonb"`
	Requirements         pq.StringArray `json:"requirements" gorm:"type:text[]"`
	Agenda               AgendaList     `json:"agenda,omitempty" gorm:"type:jsonb"`
	Price                float64        `json:"price" gorm:"not null;default:0"`
	Currency             string         `json:"currency" gorm:"not null;default:'INR'"`
	AuthorID             uuid.UUID      `json:"authorId" gorm:"type:uuid;not null;index"`
	CreatedAt            time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt            time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "events"
}

var registrationLinkPattern = regexp.MustCompile(`^https?://.+`)

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&e.Image, validation.Required),
		validation.Field(&e.Date, validation.Required),
		validation.Field(&e.Time, validation.Required),
		validation.Field(&e.Location, validation.Required),
		validation.Field(&e.Type, validation.Required, validation.By(validType)),
		validation.Field(&e.Category, validation.By(validCategory)),
		validation.Field(&e.Status, validation.By(validStatus)),
		validation.Field(&e.MaxAttendees, validation.Required, validation.Min(1)),
		validation.Field(&e.CurrentAttendees, validation.Min(0)),
		validation.Field(&e.RegistrationLink,
			validation.Match(registrationLinkPattern).Error("must be a valid http(s) URL")),
		validation.Field(&e.Price, validation.Min(0.0)),
		validation.Field(&e.AuthorID, validation.By(requiredUUID)),
	)
}

func requiredUUID(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return errors.New("is required")
	}
	return nil
}

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL slug for a title created at the given time.
// Uniqueness relies on millisecond granularity of the creation time; two
// identical titles created within the same millisecond collide, which the
// slug unique index surfaces as a save error.
func Slugify(title string, createdAt time.Time) string {
	slug := strings.ToLower(title)
	slug = slugNonAlnum.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slug + "-" + strconv.FormatInt(createdAt.UnixMilli(), 10)
}

// RefreshSlug recomputes the slug from the current title and creation time.
// Call it whenever the title is set or changed, never on an unrelated save.
func (e *Event) RefreshSlug() {
	e.Slug = Slugify(e.Title, e.CreatedAt)
}

// DeriveStatus applies the one automatic status rule: an upcoming event whose
// date has passed is completed. Invoked on every load and before every
// persist instead of a hidden save hook. Reports whether the status changed.
func (e *Event) DeriveStatus(now time.Time) bool {
	if e.Status == StatusUpcoming && e.Date.Before(now) {
		e.Status = StatusCompleted
		return true
	}
	return false
}

// EffectiveDeadline returns the registration deadline, falling back to the
// event date when none is set.
func (e *Event) EffectiveDeadline() time.Time {
	if e.RegistrationDeadline != nil {
		return *e.RegistrationDeadline
	}
	return e.Date
}

// SpotsLeft returns the number of open registration spots
func (e *Event) SpotsLeft() int {
	return e.MaxAttendees - e.CurrentAttendees
}

// RegistrationGate checks the registration preconditions in order,
// short-circuiting on the first failure: status, capacity, deadline.
// Existence is the caller's concern.
func (e *Event) RegistrationGate(now time.Time) error {
	if e.Status != StatusUpcoming {
		return ErrRegistrationClosed
	}
	if e.CurrentAttendees >= e.MaxAttendees {
		return ErrEventFull
	}
	if now.After(e.EffectiveDeadline()) {
		return ErrDeadlinePassed
	}
	return nil
}

// IsRegistrationOpen reports whether a registration attempt now would pass
func (e *Event) IsRegistrationOpen(now time.Time) bool {
	return e.RegistrationGate(now) == nil
}

// IsAuthor checks if the given user ID is the author of this event
func (e *Event) IsAuthor(userID uuid.UUID) bool {
	return e.AuthorID == userID
}
