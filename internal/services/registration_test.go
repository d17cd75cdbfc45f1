package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulearn-geci/community-api/internal/domain/event"
	"github.com/mulearn-geci/community-api/internal/storage/memory"
)

func upcomingEvent(t *testing.T, repo *memory.EventRepository, maxAttendees, currentAttendees int) *event.Event {
	t.Helper()
	e := &event.Event{
		ID:               uuid.New(),
		Title:            "Go Workshop",
		Description:      "Hands-on introduction to Go",
		Content:          "Bring a laptop.",
		Image:            "/uploads/events/workshop.png",
		Date:             time.Now().Add(48 * time.Hour),
		Time:             "10:00",
		Location:         "Seminar Hall",
		Type:             event.TypeWorkshop,
		Category:         event.CategoryTechnical,
		Status:           event.StatusUpcoming,
		MaxAttendees:     maxAttendees,
		CurrentAttendees: currentAttendees,
		AuthorID:         uuid.New(),
		CreatedAt:        time.Now(),
	}
	e.RefreshSlug()
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func TestRegisterClaimsSeat(t *testing.T) {
	repo := memory.NewEventRepository()
	svc := NewRegistrationService(repo)
	e := upcomingEvent(t, repo, 10, 3)

	result, err := svc.Register(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Event.CurrentAttendees)
	assert.Equal(t, 6, result.SpotsLeft)
}

func TestRegisterMissingEvent(t *testing.T) {
	svc := NewRegistrationService(memory.NewEventRepository())

	_, err := svc.Register(context.Background(), uuid.New())
	assert.ErrorIs(t, err, event.ErrNotFound)
}

func TestRegisterClosedEvent(t *testing.T) {
	repo := memory.NewEventRepository()
	svc := NewRegistrationService(repo)
	e := upcomingEvent(t, repo, 10, 0)
	e.Status = event.StatusCancelled
	require.NoError(t, repo.Update(context.Background(), e))

	_, err := svc.Register(context.Background(), e.ID)
	assert.ErrorIs(t, err, event.ErrRegistrationClosed)
}

func TestRegisterFullEvent(t *testing.T) {
	repo := memory.NewEventRepository()
	svc := NewRegistrationService(repo)
	e := upcomingEvent(t, repo, 2, 2)

	_, err := svc.Register(context.Background(), e.ID)
	assert.ErrorIs(t, err, event.ErrEventFull)
}

func TestRegisterPastDeadline(t *testing.T) {
	repo := memory.NewEventRepository()
	svc := NewRegistrationService(repo)
	e := upcomingEvent(t, repo, 10, 0)
	deadline := time.Now().Add(-time.Hour)
	e.RegistrationDeadline = &deadline
	require.NoError(t, repo.Update(context.Background(), e))

	_, err := svc.Register(context.Background(), e.ID)
	assert.ErrorIs(t, err, event.ErrDeadlinePassed)
}

// A full event with a passed deadline reports full, not deadline passed
func TestRegisterFullBeatsDeadline(t *testing.T) {
	repo := memory.NewEventRepository()
	svc := NewRegistrationService(repo)
	e := upcomingEvent(t, repo, 2, 2)
	deadline := time.Now().Add(-time.Hour)
	e.RegistrationDeadline = &deadline
	require.NoError(t, repo.Update(context.Background(), e))

	_, err := svc.Register(context.Background(), e.ID)
	assert.ErrorIs(t, err, event.ErrEventFull)
}

func TestRegisterSequentialUntilFull(t *testing.T) {
	repo := memory.NewEventRepository()
	svc := NewRegistrationService(repo)
	e := upcomingEvent(t, repo, 2, 0)

	first, err := svc.Register(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Event.CurrentAttendees)
	assert.Equal(t, 1, first.SpotsLeft)

	second, err := svc.Register(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Event.CurrentAttendees)
	assert.Equal(t, 0, second.SpotsLeft)

	_, err = svc.Register(context.Background(), e.ID)
	assert.ErrorIs(t, err, event.ErrEventFull)
}

// Concurrent registrations never overshoot the cap: exactly the remaining
// seats succeed, every other call fails as full, and each success reports
// the distinct count its own claim produced.
func TestRegisterConcurrentNeverOvershoots(t *testing.T) {
	repo := memory.NewEventRepository()
	svc := NewRegistrationService(repo)
	e := upcomingEvent(t, repo, 10, 3)

	const callers = 25
	type outcome struct {
		result *RegistrationResult
		err    error
	}
	var wg sync.WaitGroup
	outcomes := make(chan outcome, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.Register(context.Background(), e.ID)
			outcomes <- outcome{result: result, err: err}
		}()
	}
	wg.Wait()
	close(outcomes)

	claimed := make(map[int]int)
	full := 0
	for o := range outcomes {
		switch {
		case o.err == nil:
			claimed[o.result.Event.CurrentAttendees]++
		default:
			assert.ErrorIs(t, o.err, event.ErrEventFull)
			full++
		}
	}
	assert.Len(t, claimed, 7)
	assert.Equal(t, callers-7, full)
	for count := 4; count <= 10; count++ {
		assert.Equal(t, 1, claimed[count], "count %d should be claimed exactly once", count)
	}

	final, err := repo.GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, final.CurrentAttendees)
}
