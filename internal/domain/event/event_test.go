package event

import (
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *Event {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := &Event{
		ID:           uuid.New(),
		Title:        "Intro to Go Workshop",
		Description:  "Hands-on introduction to Go",
		Image:        "/uploads/events/intro-to-go.png",
		Date:         time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC),
		Time:         "09:00",
		Location:     "Main Auditorium",
		Type:         TypeWorkshop,
		Category:     CategoryTechnical,
		MaxAttendees: 50,
		Status:       StatusUpcoming,
		Currency:     "INR",
		AuthorID:     uuid.New(),
		CreatedAt:    created,
	}
	e.RefreshSlug()
	return e
}

func TestSlugify(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	millis := created.UnixMilli()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Intro to Go", "intro-to-go"},
		{"punctuation runs collapse", "Go!!! & Friends", "go-friends"},
		{"mixed case", "HackNight 2026", "hacknight-2026"},
		{"leading and trailing symbols", "--Design Sprint--", "design-sprint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.want + "-" + strconv.FormatInt(millis, 10)
			assert.Equal(t, want, Slugify(tt.title, created))
		})
	}
}

func TestSlugIdempotentWithoutTitleChange(t *testing.T) {
	e := validEvent()
	before := e.Slug

	// A re-save that does not touch the title must not touch the slug.
	e.Description = "updated description"
	assert.Equal(t, before, e.Slug)

	// Recomputing with the same title and creation time is a no-op.
	e.RefreshSlug()
	assert.Equal(t, before, e.Slug)
}

func TestSlugChangesDeterministicallyWithTitle(t *testing.T) {
	e := validEvent()
	before := e.Slug

	e.Title = "Advanced Go Workshop"
	e.RefreshSlug()
	assert.NotEqual(t, before, e.Slug)
	assert.Equal(t, Slugify("Advanced Go Workshop", e.CreatedAt), e.Slug)
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		status      Status
		date        time.Time
		wantStatus  Status
		wantChanged bool
	}{
		{"upcoming past date completes", StatusUpcoming, now.Add(-time.Hour), StatusCompleted, true},
		{"upcoming future date untouched", StatusUpcoming, now.Add(time.Hour), StatusUpcoming, false},
		{"cancelled never auto-transitions", StatusCancelled, now.Add(-time.Hour), StatusCancelled, false},
		{"ongoing never auto-transitions", StatusOngoing, now.Add(-time.Hour), StatusOngoing, false},
		{"completed stays completed", StatusCompleted, now.Add(-time.Hour), StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			e.Status = tt.status
			e.Date = tt.date

			changed := e.DeriveStatus(now)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantStatus, e.Status)
		})
	}
}

func TestRegistrationGateOrdering(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	t.Run("closed status wins even when full and past deadline", func(t *testing.T) {
		e := validEvent()
		e.Status = StatusCancelled
		e.CurrentAttendees = e.MaxAttendees
		past := now.Add(-time.Hour)
		e.RegistrationDeadline = &past

		assert.ErrorIs(t, e.RegistrationGate(now), ErrRegistrationClosed)
	})

	t.Run("full wins over passed deadline", func(t *testing.T) {
		e := validEvent()
		e.CurrentAttendees = e.MaxAttendees
		past := now.Add(-time.Hour)
		e.RegistrationDeadline = &past

		assert.ErrorIs(t, e.RegistrationGate(now), ErrEventFull)
	})

	t.Run("deadline checked last", func(t *testing.T) {
		e := validEvent()
		past := now.Add(-time.Hour)
		e.RegistrationDeadline = &past

		assert.ErrorIs(t, e.RegistrationGate(now), ErrDeadlinePassed)
	})

	t.Run("open when all preconditions hold", func(t *testing.T) {
		e := validEvent()
		assert.NoError(t, e.RegistrationGate(now))
		assert.True(t, e.IsRegistrationOpen(now))
	})
}

func TestEffectiveDeadlineFallsBackToDate(t *testing.T) {
	e := validEvent()
	assert.Equal(t, e.Date, e.EffectiveDeadline())

	deadline := e.Date.Add(-24 * time.Hour)
	e.RegistrationDeadline = &deadline
	assert.Equal(t, deadline, e.EffectiveDeadline())
}

func TestEffectiveDeadlineBoundaryIsInclusive(t *testing.T) {
	e := validEvent()
	deadline := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	e.RegistrationDeadline = &deadline

	// Registration at exactly the deadline is still allowed.
	assert.NoError(t, e.RegistrationGate(deadline))
	assert.ErrorIs(t, e.RegistrationGate(deadline.Add(time.Nanosecond)), ErrDeadlinePassed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Event)
		valid  bool
	}{
		{"valid event", func(e *Event) {}, true},
		{"missing title", func(e *Event) { e.Title = "" }, false},
		{"missing image", func(e *Event) { e.Image = "" }, false},
		{"unknown type", func(e *Event) { e.Type = "flashmob" }, false},
		{"unknown category", func(e *Event) { e.Category = "misc" }, false},
		{"unknown status", func(e *Event) { e.Status = "pending" }, false},
		{"zero max attendees", func(e *Event) { e.MaxAttendees = 0 }, false},
		{"negative price", func(e *Event) { e.Price = -1 }, false},
		{"bad registration link", func(e *Event) { e.RegistrationLink = "ftp://example.com" }, false},
		{"https registration link", func(e *Event) { e.RegistrationLink = "https://example.com/form" }, true},
		{"empty registration link allowed", func(e *Event) { e.RegistrationLink = "" }, true},
		{"nil author", func(e *Event) { e.AuthorID = uuid.Nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(e)

			err := e.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	for _, typ := range Types() {
		parsed, ok := ParseType(string(typ))
		require.True(t, ok)
		assert.Equal(t, typ, parsed)
	}
	_, ok := ParseType("flashmob")
	assert.False(t, ok)

	for _, st := range Statuses() {
		parsed, ok := ParseStatus(string(st))
		require.True(t, ok)
		assert.Equal(t, st, parsed)
	}
	_, ok = ParseStatus("pending")
	assert.False(t, ok)

	for _, cat := range Categories() {
		parsed, ok := ParseCategory(string(cat))
		require.True(t, ok)
		assert.Equal(t, cat, parsed)
	}
	_, ok = ParseCategory("misc")
	assert.False(t, ok)
}
