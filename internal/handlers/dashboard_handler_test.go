package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulearn-geci/community-api/internal/domain/post"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	seedPost(t, env, post.StatusPublished)
	seedPost(t, env, post.StatusDraft)
	seedEvent(t, env, 10, 4)
	submitContact(t, env)

	w := env.do(t, http.MethodGet, "/api/admin/dashboard/stats", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	overview := data["overview"].(map[string]interface{})
	assert.Equal(t, float64(2), overview["totalPosts"])
	assert.Equal(t, float64(1), overview["publishedPosts"])
	assert.Equal(t, float64(1), overview["draftPosts"])
	assert.Equal(t, float64(1), overview["totalEvents"])
	assert.Equal(t, float64(1), overview["upcomingEvents"])
	assert.Equal(t, float64(1), overview["totalContacts"])
	assert.Equal(t, float64(1), overview["newContacts"])

	capacity := data["eventCapacity"].(map[string]interface{})
	assert.Equal(t, float64(1), capacity["managedEvents"])
	assert.InDelta(t, 0.4, capacity["averageUtilization"], 0.001)
}

// Events without a cap stay out of the utilization average
func TestDashboardCapacityIgnoresUncappedEvents(t *testing.T) {
	env := newTestEnv(t)
	seedEvent(t, env, 10, 5)
	seedEvent(t, env, 0, 0)

	w := env.do(t, http.MethodGet, "/api/admin/dashboard/stats", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	capacity := body["data"].(map[string]interface{})["eventCapacity"].(map[string]interface{})
	assert.Equal(t, float64(1), capacity["managedEvents"])
	assert.InDelta(t, 0.5, capacity["averageUtilization"], 0.001)
}

func TestDashboardAnalytics(t *testing.T) {
	env := newTestEnv(t)
	seedPost(t, env, post.StatusPublished)
	seedEvent(t, env, 10, 0)

	w := env.do(t, http.MethodGet, "/api/admin/dashboard/analytics?period=7", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	daily := data["daily"].(map[string]interface{})
	assert.Equal(t, float64(7), daily["days"])
	monthly := data["monthly"].(map[string]interface{})
	assert.Len(t, monthly["posts"], 12)

	distributions := data["distributions"].(map[string]interface{})
	eventsByType := distributions["eventsByType"].(map[string]interface{})
	assert.Equal(t, float64(1), eventsByType["hackathon"])
}

func TestDashboardAnalyticsRejectsBadPeriod(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/admin/dashboard/analytics?period=4000", nil, "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/admin/dashboard/stats", nil, "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
