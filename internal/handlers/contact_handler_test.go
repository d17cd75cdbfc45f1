package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mulearn-geci/community-api/internal/domain/contact"
)

func submitContact(t *testing.T, env *testEnv) *contact.Contact {
	t.Helper()
	w := env.doJSON(t, http.MethodPost, "/api/contact", map[string]string{
		"name":    "Rahul S",
		"email":   "rahul@example.com",
		"subject": "Joining the community",
		"message": "How do I become a member?",
	}, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	contacts, _, err := env.repos.Contacts().List(context.Background(), listAll())
	require.NoError(t, err)
	require.NotEmpty(t, contacts)
	return contacts[0]
}

func TestContactSubmit(t *testing.T) {
	env := newTestEnv(t)
	c := submitContact(t, env)

	assert.Equal(t, contact.StatusNew, c.Status)
	assert.Equal(t, contact.PriorityMedium, c.Priority)
	assert.Equal(t, "general", c.Category)
}

func TestContactSubmitInvalidEmail(t *testing.T) {
	env := newTestEnv(t)
	w := env.doJSON(t, http.MethodPost, "/api/contact", map[string]string{
		"name":    "Rahul S",
		"email":   "not-an-email",
		"subject": "Hello",
		"message": "Hi",
	}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactListRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/admin/contacts", nil, "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContactListIncludesStatusCounts(t *testing.T) {
	env := newTestEnv(t)
	submitContact(t, env)

	w := env.do(t, http.MethodGet, "/api/admin/contacts", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	meta := body["meta"].(map[string]interface{})
	counts := meta["statusCounts"].(map[string]interface{})
	assert.Equal(t, float64(1), counts["new"])
}

func TestContactGetMarksRead(t *testing.T) {
	env := newTestEnv(t)
	c := submitContact(t, env)

	w := env.do(t, http.MethodGet, "/api/admin/contacts/"+c.ID.String(), nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.repos.Contacts().GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.StatusRead, stored.Status)
}

func TestContactRespond(t *testing.T) {
	env := newTestEnv(t)
	c := submitContact(t, env)

	w := env.doJSON(t, http.MethodPost, "/api/admin/contacts/"+c.ID.String()+"/respond",
		map[string]string{"message": "Come to the Friday meetup."}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := env.repos.Contacts().GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.StatusReplied, stored.Status)
	require.NotNil(t, stored.Response)
	assert.Equal(t, "Come to the Friday meetup.", stored.Response.Message)
	assert.Equal(t, env.adminID, stored.Response.RespondedBy)
}

func TestContactUpdateStatusAndPriority(t *testing.T) {
	env := newTestEnv(t)
	c := submitContact(t, env)

	w := env.doJSON(t, http.MethodPatch, "/api/admin/contacts/"+c.ID.String(),
		map[string]string{"status": "resolved", "priority": "high"}, true)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.repos.Contacts().GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, contact.StatusResolved, stored.Status)
	assert.Equal(t, contact.PriorityHigh, stored.Priority)
}

func TestContactUpdateRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	c := submitContact(t, env)

	w := env.doJSON(t, http.MethodPatch, "/api/admin/contacts/"+c.ID.String(),
		map[string]string{"status": "spam"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactDelete(t *testing.T) {
	env := newTestEnv(t)
	c := submitContact(t, env)

	w := env.do(t, http.MethodDelete, "/api/admin/contacts/"+c.ID.String(), nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := env.repos.Contacts().GetByID(context.Background(), c.ID)
	assert.ErrorIs(t, err, contact.ErrNotFound)
}
