// Package services holds the business workflows that span a repository and
// a collaborator: event registration, contact intake and the admin
// bootstrap.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mulearn-geci/community-api/internal/domain/event"
	"github.com/mulearn-geci/community-api/internal/logger"
	"github.com/mulearn-geci/community-api/internal/storage"
)

// RegistrationResult reports the outcome of a successful registration
type RegistrationResult struct {
	Event     *event.Event `json:"event"`
	SpotsLeft int          `json:"spotsLeft"`
}

// RegistrationService enforces the registration preconditions and claims
// seats atomically.
type RegistrationService struct {
	events storage.EventRepository
	log    *log.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(events storage.EventRepository) *RegistrationService {
	return &RegistrationService{
		events: events,
		log:    logger.Service("registration"),
	}
}

// Register claims one seat on the event. Preconditions are checked in a
// fixed order so a request failing several of them always reports the same
// error: missing event, then non-upcoming status, then capacity, then
// deadline. The capacity check repeats inside a conditional update, so two
// racing registrations for the last seat cannot both succeed.
func (s *RegistrationService) Register(ctx context.Context, eventID uuid.UUID) (*RegistrationResult, error) {
	e, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := e.RegistrationGate(time.Now()); err != nil {
		s.log.Debug("Registration rejected", "event_id", eventID, "reason", err)
		return nil, err
	}

	attendees, err := s.events.IncrementAttendees(ctx, eventID)
	if err != nil {
		if errors.Is(err, event.ErrEventFull) {
			// Lost the race for the last seat
			s.log.Debug("Registration lost capacity race", "event_id", eventID)
			return nil, event.ErrEventFull
		}
		return nil, fmt.Errorf("failed to register attendee: %w", err)
	}

	e.CurrentAttendees = attendees
	s.log.Info("Attendee registered", "event_id", eventID, "attendees", attendees, "max", e.MaxAttendees)

	return &RegistrationResult{
		Event:     e,
		SpotsLeft: e.SpotsLeft(),
	}, nil
}
