package post

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrNotFound is returned for missing posts and for drafts requested by the
// public: hiding the draft behind the same error avoids leaking existence.
var ErrNotFound = errors.New("post not found")

// Status represents the publication state of a post
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// ParseStatus converts a string to a Status
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusDraft, StatusPublished:
		return Status(s), true
	default:
		return "", false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value interface{}) error {
	if value == nil {
		*s = StatusDraft
		return nil
	}
	str, ok := value.(string)
	if !ok {
		if b, isBytes := value.([]byte); isBytes {
			str = string(b)
			ok = true
		}
	}
	if !ok {
		return fmt.Errorf("cannot scan %T into post.Status", value)
	}
	parsed, valid := ParseStatus(str)
	if !valid {
		return fmt.Errorf("invalid post status value: %s", str)
	}
	*s = parsed
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

// Post represents a content article published by the community
type Post struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title            string         `json:"title" gorm:"not null;size:200"`
	Description      string         `json:"description" gorm:"not null;size:500"`
	Content          string         `json:"content" gorm:"not null"`
	Image            string         `json:"image" gorm:"not null"`
	ImageAlt         string         `json:"imageAlt"`
	Category         string         `json:"category" gorm:"not null;index"`
	Tags             pq.StringArray `json:"tags" gorm:"type:text[]"`
	Status           Status         `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	Featured         bool           `json:"featured" gorm:"not null;default:false"`
	Views            int            `json:"views" gorm:"not null;default:0"`
	Likes            int            `json:"likes" gorm:"not null;default:0"`
	RegistrationLink string         `json:"registrationLink,omitempty"`
	AuthorID         uuid.UUID      `json:"authorId" gorm:"type:uuid;not null;index"`
	PublishedAt      *time.Time     `json:"publishedAt,omitempty"`
	CreatedAt        time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Post) TableName() string {
	return "posts"
}

var registrationLinkPattern = regexp.MustCompile(`^https?://.+`)

// Validate checks if the post data is valid
func (p *Post) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Description, validation.Required, validation.Length(1, 500)),
		validation.Field(&p.Content, validation.Required),
		validation.Field(&p.Image, validation.Required),
		validation.Field(&p.Category, validation.Required),
		validation.Field(&p.Status, validation.By(validStatus)),
		validation.Field(&p.Views, validation.Min(0)),
		validation.Field(&p.Likes, validation.Min(0)),
		validation.Field(&p.RegistrationLink,
			validation.Match(registrationLinkPattern).Error("must be a valid http(s) URL")),
		validation.Field(&p.AuthorID, validation.By(requiredUUID)),
	)
}

func validStatus(value interface{}) error {
	s, _ := value.(Status)
	if s == "" {
		return nil
	}
	if _, ok := ParseStatus(string(s)); !ok {
		return fmt.Errorf("invalid post status: %s", s)
	}
	return nil
}

func requiredUUID(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return errors.New("is required")
	}
	return nil
}

// IsPublished reports whether the post is visible to the public
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// MarkPublished stamps PublishedAt the first time the post goes live.
// A later unpublish/republish keeps the original timestamp.
func (p *Post) MarkPublished(now time.Time) {
	if p.Status == StatusPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}
