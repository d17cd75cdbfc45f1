package contact

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a contact submission does not exist
var ErrNotFound = errors.New("contact submission not found")

// ErrEmptyResponse is returned when a response is recorded without a message
var ErrEmptyResponse = errors.New("response message is required")

// Status tracks the handling state of a contact submission
type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusReplied  Status = "replied"
	StatusResolved Status = "resolved"
	StatusArchived Status = "archived"
)

// Statuses lists every valid contact status
func Statuses() []Status {
	return []Status{StatusNew, StatusRead, StatusReplied, StatusResolved, StatusArchived}
}

// ParseStatus converts a string to a Status
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses() {
		if Status(s) == st {
			return st, true
		}
	}
	return "", false
}

// Priority ranks how urgently a submission should be handled
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every valid contact priority
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// ParsePriority converts a string to a Priority
func ParsePriority(s string) (Priority, bool) {
	for _, p := range Priorities() {
		if Priority(s) == p {
			return p, true
		}
	}
	return "", false
}

// Response is the admin reply attached to a submission. At most one exists;
// responding again overwrites it.
type Response struct {
	Message     string    `json:"message"`
	RespondedBy uuid.UUID `json:"respondedBy"`
	RespondedAt time.Time `json:"respondedAt"`
}

// Scan implements the sql.Scanner interface for database deserialization
func (r *Response) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, r)
	case string:
		return json.Unmarshal([]byte(data), r)
	default:
		return errors.New("cannot scan jsonb column: unsupported source type")
	}
}

// Value implements the driver.Valuer interface for database serialization
func (r Response) Value() (driver.Value, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Contact represents a contact-form submission from a visitor
type Contact struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	Email     string    `json:"email" gorm:"not null;index"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject" gorm:"not null;size:200"`
	Message   string    `json:"message" gorm:"not null;size:2000"`
	Category  string    `json:"category" gorm:"not null;default:'general'"`
	Status    Status    `json:"status" gorm:"type:varchar(20);not null;default:'new';index"`
	Priority  Priority  `json:"priority" gorm:"type:varchar(20);not null;default:'medium'"`
	Response  *Response `json:"response,omitempty" gorm:"type:jsonb"`
	IPAddress string    `json:"-"`
	UserAgent string    `json:"-"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Contact) TableName() string {
	return "contacts"
}

// Validate checks if the contact submission is valid
func (c *Contact) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&c.Message, validation.Required, validation.Length(1, 2000)),
		validation.Field(&c.Status, validation.By(validContactStatus)),
		validation.Field(&c.Priority, validation.By(validContactPriority)),
	)
}

func validContactStatus(value interface{}) error {
	s, _ := value.(Status)
	if s == "" {
		return nil
	}
	if _, ok := ParseStatus(string(s)); !ok {
		return fmt.Errorf("invalid contact status: %s", s)
	}
	return nil
}

func validContactPriority(value interface{}) error {
	p, _ := value.(Priority)
	if p == "" {
		return nil
	}
	if _, ok := ParsePriority(string(p)); !ok {
		return fmt.Errorf("invalid contact priority: %s", p)
	}
	return nil
}

// MarkRead advances a new submission to read on first admin view.
// Reports whether the status changed.
func (c *Contact) MarkRead() bool {
	if c.Status == StatusNew {
		c.Status = StatusRead
		return true
	}
	return false
}

// Respond attaches or overwrites the admin response and moves the
// submission to replied.
func (c *Contact) Respond(message string, respondedBy uuid.UUID, at time.Time) {
	c.Response = &Response{
		Message:     message,
		RespondedBy: respondedBy,
		RespondedAt: at,
	}
	c.Status = StatusReplied
}
