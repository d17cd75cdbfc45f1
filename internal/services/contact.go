package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mulearn-geci/community-api/internal/config"
	"github.com/mulearn-geci/community-api/internal/domain/contact"
	"github.com/mulearn-geci/community-api/internal/logger"
	"github.com/mulearn-geci/community-api/internal/notify"
	"github.com/mulearn-geci/community-api/internal/storage"
)

// ContactService runs the contact intake and response workflow
type ContactService struct {
	contacts     storage.ContactRepository
	mailer       notify.Mailer
	adminAddress string
	log          *log.Logger
}

// NewContactService creates a new contact service
func NewContactService(contacts storage.ContactRepository, mailer notify.Mailer, cfg *config.Config) *ContactService {
	return &ContactService{
		contacts:     contacts,
		mailer:       mailer,
		adminAddress: cfg.Mail.AdminAddress,
		log:          logger.Service("contact"),
	}
}

// Submit stores a new submission and notifies the admin inbox. The
// notification is best effort: the submission is durable before any email
// is attempted.
func (s *ContactService) Submit(ctx context.Context, c *contact.Contact) error {
	if c.Status == "" {
		c.Status = contact.StatusNew
	}
	if c.Priority == "" {
		c.Priority = contact.PriorityMedium
	}
	if c.Category == "" {
		c.Category = "general"
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return err
	}

	s.log.Info("Contact submission received", "contact_id", c.ID, "subject", c.Subject)
	s.notifyAdmin(ctx, c)
	return nil
}

// View loads a submission and flips new -> read, persisting the flip
func (s *ContactService) View(ctx context.Context, id uuid.UUID) (*contact.Contact, error) {
	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.MarkRead() {
		if err := s.contacts.Update(ctx, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Respond records the response on the submission and emails it to the
// submitter. A later response overwrites the previous one.
func (s *ContactService) Respond(ctx context.Context, id uuid.UUID, message string, respondedBy uuid.UUID) (*contact.Contact, error) {
	if message == "" {
		return nil, contact.ErrEmptyResponse
	}

	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Respond(message, respondedBy, time.Now())
	if err := s.contacts.Update(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info("Contact response recorded", "contact_id", c.ID, "responded_by", respondedBy)
	s.emailResponse(ctx, c, message)
	return c, nil
}

func (s *ContactService) notifyAdmin(ctx context.Context, c *contact.Contact) {
	if s.mailer == nil || s.adminAddress == "" {
		return
	}
	subject := fmt.Sprintf("New contact submission: %s", c.Subject)
	body := fmt.Sprintf(
		"<p><strong>%s</strong> (%s) wrote:</p><p>%s</p>",
		html.EscapeString(c.Name), html.EscapeString(c.Email), html.EscapeString(c.Message),
	)
	text := fmt.Sprintf("%s (%s) wrote:\n\n%s", c.Name, c.Email, c.Message)
	if err := s.mailer.Send(ctx, s.adminAddress, subject, body, text); err != nil {
		s.log.Warn("Failed to send admin notification", "contact_id", c.ID, "error", err)
	}
}

func (s *ContactService) emailResponse(ctx context.Context, c *contact.Contact, message string) {
	if s.mailer == nil {
		return
	}
	subject := fmt.Sprintf("Re: %s", c.Subject)
	body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>",
		html.EscapeString(c.Name), html.EscapeString(message))
	text := fmt.Sprintf("Hi %s,\n\n%s", c.Name, message)
	if err := s.mailer.Send(ctx, c.Email, subject, body, text); err != nil {
		s.log.Warn("Failed to email contact response", "contact_id", c.ID, "error", err)
	}
}
