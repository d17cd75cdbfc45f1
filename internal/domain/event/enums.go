package event

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Type classifies the format of an event
type Type string

const (
	TypeWorkshop    Type = "workshop"
	TypeSeminar     Type = "seminar"
	TypeCompetition Type = "competition"
	TypeConference  Type = "conference"
	TypeBootcamp    Type = "bootcamp"
	TypeHackathon   Type = "hackathon"
	TypeMeetup      Type = "meetup"
	TypeWebinar     Type = "webinar"
)

// Types lists every valid event type
func Types() []Type {
	return []Type{
		TypeWorkshop, TypeSeminar, TypeCompetition, TypeConference,
		TypeBootcamp, TypeHackathon, TypeMeetup, TypeWebinar,
	}
}

// ParseType converts a string to a Type
func ParseType(s string) (Type, bool) {
	for _, t := range Types() {
		if Type(s) == t {
			return t, true
		}
	}
	return "", false
}

func validType(value interface{}) error {
	t, _ := value.(Type)
	if _, ok := ParseType(string(t)); !ok {
		return fmt.Errorf("invalid event type: %s", t)
	}
	return nil
}

// Category classifies the audience of an event
type Category string

const (
	CategoryTechnical Category = "technical"
	CategoryCultural  Category = "cultural"
	CategorySports    Category = "sports"
	CategoryAcademic  Category = "academic"
	CategorySocial    Category = "social"
	CategoryCareer    Category = "career"
)

// Categories lists every valid event category
func Categories() []Category {
	return []Category{
		CategoryTechnical, CategoryCultural, CategorySports,
		CategoryAcademic, CategorySocial, CategoryCareer,
	}
}

// ParseCategory converts a string to a Category
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if Category(s) == c {
			return c, true
		}
	}
	return "", false
}

func validCategory(value interface{}) error {
	c, _ := value.(Category)
	if c == "" {
		return nil
	}
	if _, ok := ParseCategory(string(c)); !ok {
		return fmt.Errorf("invalid event category: %s", c)
	}
	return nil
}

// Status represents the lifecycle state of an event. Organizers may set any
// status at any time; the only automatic transition is upcoming -> completed
// once the event date has passed (see Event.DeriveStatus).
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusPostponed Status = "postponed"
)

// Statuses lists every valid event status
func Statuses() []Status {
	return []Status{
		StatusUpcoming, StatusOngoing, StatusCompleted,
		StatusCancelled, StatusPostponed,
	}
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

func validStatus(value interface{}) error {
	s, _ := value.(Status)
	if s == "" {
		return nil
	}
	if _, ok := ParseStatus(string(s)); !ok {
		return fmt.Errorf("invalid event status: %s", s)
	}
	return nil
}

// Venue holds the structured address of an event location
type Venue struct {
	Address     string       `json:"address,omitempty"`
	City        string       `json:"city,omitempty"`
	State       string       `json:"state,omitempty"`
	ZipCode     string       `json:"zipCode,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Organizer is a contact responsible for running an event
type Organizer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Speaker is a presenter at an event
type Speaker struct {
	Name        string       `json:"name"`
	Bio         string       `json:"bio,omitempty"`
	Image       string       `json:"image,omitempty"`
	Designation string       `json:"designation,omitempty"`
	Company     string       `json:"company,omitempty"`
	Social      *SocialLinks `json:"social,omitempty"`
}

// SocialLinks holds a speaker's public profiles
type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Website  string `json:"website,omitempty"`
}

// AgendaItem is one slot in an event schedule
type AgendaItem struct {
	Time        string `json:"time,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Speaker     string `json:"speaker,omitempty"`
}

// OrganizerList is stored as a jsonb column
type OrganizerList []Organizer

// SpeakerList is stored as a jsonb column
type SpeakerList []Speaker

// AgendaList is stored as a jsonb column
type AgendaList []AgendaItem

// Scan implements the sql.Scanner interface for database deserialization
func (l *OrganizerList) Scan(value interface{}) error { return scanJSON(value, l) }

// Value implements the driver.Valuer interface for database serialization
func (l OrganizerList) Value() (driver.Value, error) { return valueJSON(l) }

// Scan implements the sql.Scanner interface for database deserialization
func (l *SpeakerList) Scan(value interface{}) error { return scanJSON(value, l) }

// Value implements the driver.Valuer interface for database serialization
func (l SpeakerList) Value() (driver.Value, error) { return valueJSON(l) }

// Scan implements the sql.Scanner interface for database deserialization
func (l *AgendaList) Scan(value interface{}) error { return scanJSON(value, l) }

// Value implements the driver.Valuer interface for database serialization
func (l AgendaList) Value() (driver.Value, error) { return valueJSON(l) }

// Scan implements the sql.Scanner interface for database deserialization
func (v *Venue) Scan(value interface{}) error { return scanJSON(value, v) }

// Value implements the driver.Valuer interface for database serialization
func (v Venue) Value() (driver.Value, error) { return valueJSON(v) }

func scanJSON(value, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, dest)
	case string:
		return json.Unmarshal([]byte(data), dest)
	default:
		return errors.New("cannot scan jsonb column: unsupported source type")
	}
}

func valueJSON(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
