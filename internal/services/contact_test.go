package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulearn-geci/community-api/internal/config"
	"github.com/mulearn-geci/community-api/internal/domain/contact"
	"github.com/mulearn-geci/community-api/internal/storage/memory"
)

type recordingMailer struct {
	mu    sync.Mutex
	sends []sentMail
}

type sentMail struct {
	To      string
	Subject string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sends = append(m.sends, sentMail{To: to, Subject: subject})
	return nil
}

func newContactService(t *testing.T) (*ContactService, *memory.ContactRepository, *recordingMailer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Mail.AdminAddress = "mulearn@gecidukki.ac.in"
	repo := memory.NewContactRepository()
	mailer := &recordingMailer{}
	return NewContactService(repo, mailer, cfg), repo, mailer
}

func validSubmission() *contact.Contact {
	return &contact.Contact{
		Name:    "Anjali K",
		Email:   "anjali@example.com",
		Subject: "Workshop query",
		Message: "Will the Go workshop be repeated next semester?",
	}
}

func TestSubmitStoresAndNotifies(t *testing.T) {
	svc, repo, mailer := newContactService(t)
	c := validSubmission()

	require.NoError(t, svc.Submit(context.Background(), c))
	assert.Equal(t, contact.StatusNew, c.Status)
	assert.Equal(t, contact.PriorityMedium, c.Priority)

	stored, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Workshop query", stored.Subject)

	require.Len(t, mailer.sends, 1)
	assert.Equal(t, "mulearn@gecidukki.ac.in", mailer.sends[0].To)
}

func TestSubmitRejectsInvalid(t *testing.T) {
	svc, _, mailer := newContactService(t)
	c := validSubmission()
	c.Email = "not-an-email"

	assert.Error(t, svc.Submit(context.Background(), c))
	assert.Empty(t, mailer.sends)
}

func TestViewMarksNewAsRead(t *testing.T) {
	svc, repo, _ := newContactService(t)
	c := validSubmission()
	require.NoError(t, svc.Submit(context.Background(), c))

	viewed, err := svc.View(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.StatusRead, viewed.Status)

	// The flip is persisted, not just reflected in the returned value
	stored, err := repo.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.StatusRead, stored.Status)
}

func TestViewLeavesLaterStatusesAlone(t *testing.T) {
	svc, repo, _ := newContactService(t)
	c := validSubmission()
	require.NoError(t, svc.Submit(context.Background(), c))
	c.Status = contact.StatusResolved
	require.NoError(t, repo.Update(context.Background(), c))

	viewed, err := svc.View(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.StatusResolved, viewed.Status)
}

func TestRespondRecordsAndEmails(t *testing.T) {
	svc, _, mailer := newContactService(t)
	c := validSubmission()
	require.NoError(t, svc.Submit(context.Background(), c))

	admin := uuid.New()
	responded, err := svc.Respond(context.Background(), c.ID, "Yes, in January.", admin)
	require.NoError(t, err)
	assert.Equal(t, contact.StatusReplied, responded.Status)
	require.NotNil(t, responded.Response)
	assert.Equal(t, "Yes, in January.", responded.Response.Message)
	assert.Equal(t, admin, responded.Response.RespondedBy)

	require.Len(t, mailer.sends, 2)
	assert.Equal(t, "anjali@example.com", mailer.sends[1].To)
	assert.Equal(t, "Re: Workshop query", mailer.sends[1].Subject)
}

func TestRespondOverwritesPrevious(t *testing.T) {
	svc, _, _ := newContactService(t)
	c := validSubmission()
	require.NoError(t, svc.Submit(context.Background(), c))

	admin := uuid.New()
	_, err := svc.Respond(context.Background(), c.ID, "First answer.", admin)
	require.NoError(t, err)

	responded, err := svc.Respond(context.Background(), c.ID, "Corrected answer.", admin)
	require.NoError(t, err)
	assert.Equal(t, "Corrected answer.", responded.Response.Message)
}

func TestRespondRejectsEmptyMessage(t *testing.T) {
	svc, _, _ := newContactService(t)
	c := validSubmission()
	require.NoError(t, svc.Submit(context.Background(), c))

	_, err := svc.Respond(context.Background(), c.ID, "", uuid.New())
	assert.ErrorIs(t, err, contact.ErrEmptyResponse)
}

func TestEnsureAdminCreatesOnce(t *testing.T) {
	users := memory.NewUserRepository()
	cfg := &config.Config{}
	cfg.Admin.Name = "Admin"
	cfg.Admin.Email = "admin@gecidukki.ac.in"
	cfg.Admin.Password = "changeme-now"

	require.NoError(t, EnsureAdmin(context.Background(), users, cfg))
	require.NoError(t, EnsureAdmin(context.Background(), users, cfg))

	count, err := users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	admin, err := users.GetByEmail(context.Background(), "admin@gecidukki.ac.in")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.CheckPassword("changeme-now"))
}
