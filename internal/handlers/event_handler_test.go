package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulearn-geci/community-api/internal/domain/event"
)

func TestEventGetBySlug(t *testing.T) {
	env := newTestEnv(t)
	e := seedEvent(t, env, 100, 0)

	w := env.do(t, http.MethodGet, "/api/events/slug/"+e.Slug, nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, e.ID.String(), body["data"].(map[string]interface{})["id"])
}

func TestEventGetUnknownSlug(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/events/slug/nope-123", nil, "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Search covers tags alongside title, description and location
func TestEventSearchMatchesTags(t *testing.T) {
	env := newTestEnv(t)
	tagged := seedEvent(t, env, 100, 0)
	tagged.Tags = pq.StringArray{"robotics", "arduino"}
	require.NoError(t, env.repos.Events().Update(context.Background(), tagged))
	seedEvent(t, env, 100, 0)

	w := env.do(t, http.MethodGet, "/api/events?search=robotics", nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, tagged.ID.String(), data[0].(map[string]interface{})["id"])
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)
	e := seedEvent(t, env, 2, 1)

	w := env.do(t, http.MethodPost, "/api/events/"+e.ID.String()+"/register", nil, "", false)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["spotsLeft"])
}

func TestRegisterFullEventIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	e := seedEvent(t, env, 1, 1)

	w := env.do(t, http.MethodPost, "/api/events/"+e.ID.String()+"/register", nil, "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Event is full", body["error"])
}

func TestRegisterPastDeadlineIsBadRequest(t *testing.T) {
	env := newTestEnv(t)
	e := seedEvent(t, env, 10, 0)
	deadline := time.Now().Add(-time.Hour)
	e.RegistrationDeadline = &deadline
	require.NoError(t, env.repos.Events().Update(context.Background(), e))

	w := env.do(t, http.MethodPost, "/api/events/"+e.ID.String()+"/register", nil, "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEventDerivesSlug(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartBody(t, map[string]string{
		"title":        "Annual Tech Fest!",
		"description":  "The flagship campus event",
		"content":      "Three days of talks and competitions.",
		"date":         time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339),
		"time":         "09:00",
		"location":     "Campus Grounds",
		"type":         "competition",
		"category":     "technical",
		"maxAttendees": "500",
		"speakers":     `[{"name":"Priya Menon","title":"CTO","bio":"","image":""}]`,
	}, nil, true)

	w := env.do(t, http.MethodPost, "/api/admin/events", body, contentType, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeBody(t, w)
	data := resp["data"].(map[string]interface{})
	slug := data["slug"].(string)
	assert.Regexp(t, `^annual-tech-fest-\d+$`, slug)
	assert.Equal(t, "upcoming", data["status"])
	assert.Equal(t, "INR", data["currency"])
}

func TestCreateEventWithPastDateIsCompleted(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartBody(t, map[string]string{
		"title":       "Retro Meetup",
		"description": "Recorded for posterity",
		"content":     "Happened last month.",
		"date":         time.Now().Add(-30 * 24 * time.Hour).Format(time.RFC3339),
		"time":         "17:00",
		"location":     "Lab 2",
		"type":         "meetup",
		"category":     "social",
		"maxAttendees": "50",
	}, nil, true)

	w := env.do(t, http.MethodPost, "/api/admin/events", body, contentType, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeBody(t, w)
	assert.Equal(t, "completed", resp["data"].(map[string]interface{})["status"])
}

func TestCreateEventInvalidDate(t *testing.T) {
	env := newTestEnv(t)
	body, contentType := multipartBody(t, map[string]string{
		"title":       "Bad Date",
		"description": "d",
		"content":     "c",
		"date":        "next tuesday",
		"time":        "09:00",
		"location":    "Hall",
		"type":        "meetup",
		"category":    "social",
	}, nil, true)

	w := env.do(t, http.MethodPost, "/api/admin/events", body, contentType, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateEventTitleChangesSlug(t *testing.T) {
	env := newTestEnv(t)
	e := seedEvent(t, env, 100, 0)
	oldSlug := e.Slug

	body, contentType := multipartBody(t, map[string]string{
		"title":        "Hackathon Grand Finale",
		"description":  e.Description,
		"content":      e.Content,
		"date":         e.Date.Format(time.RFC3339),
		"time":         e.Time,
		"location":     e.Location,
		"type":         string(e.Type),
		"category":     string(e.Category),
		"maxAttendees": "100",
	}, nil, false)

	w := env.do(t, http.MethodPut, "/api/admin/events/"+e.ID.String(), body, contentType, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := env.repos.Events().GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldSlug, stored.Slug)
	assert.Regexp(t, `^hackathon-grand-finale-\d+$`, stored.Slug)
}

func TestUpdateEventSameTitleKeepsSlug(t *testing.T) {
	env := newTestEnv(t)
	e := seedEvent(t, env, 100, 0)

	body, contentType := multipartBody(t, map[string]string{
		"title":        e.Title,
		"description":  "A better description",
		"content":      e.Content,
		"date":         e.Date.Format(time.RFC3339),
		"time":         e.Time,
		"location":     e.Location,
		"type":         string(e.Type),
		"category":     string(e.Category),
		"maxAttendees": "100",
	}, nil, false)

	w := env.do(t, http.MethodPut, "/api/admin/events/"+e.ID.String(), body, contentType, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := env.repos.Events().GetByID(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Slug, stored.Slug)
}

func TestDeleteEvent(t *testing.T) {
	env := newTestEnv(t)
	e := seedEvent(t, env, 10, 0)

	w := env.do(t, http.MethodDelete, "/api/admin/events/"+e.ID.String(), nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := env.repos.Events().GetByID(context.Background(), e.ID)
	assert.ErrorIs(t, err, event.ErrNotFound)
}
