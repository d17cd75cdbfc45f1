package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mulearn-geci/community-api/internal/assets"
	"github.com/mulearn-geci/community-api/internal/auth"
	"github.com/mulearn-geci/community-api/internal/cache"
	"github.com/mulearn-geci/community-api/internal/config"
	"github.com/mulearn-geci/community-api/internal/domain/event"
	"github.com/mulearn-geci/community-api/internal/domain/post"
	"github.com/mulearn-geci/community-api/internal/domain/user"
	"github.com/mulearn-geci/community-api/internal/middleware"
	"github.com/mulearn-geci/community-api/internal/query"
	"github.com/mulearn-geci/community-api/internal/services"
	"github.com/mulearn-geci/community-api/internal/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv bundles everything a handler test needs
type testEnv struct {
	repos   *memory.Container
	store   assets.Store
	jwt     *auth.Service
	router  *gin.Engine
	adminID uuid.UUID
	token   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repos := memory.NewContainer()
	store, err := assets.NewLocalStore(t.TempDir(), assets.MaxFileSize)
	require.NoError(t, err)

	jwtService := auth.NewService("test-secret", 1)
	admin, err := user.New("Admin", "admin@gecidukki.ac.in", "changeme-now", user.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repos.Users().Create(context.Background(), admin))
	token, err := jwtService.Generate(admin.ID, admin.Email, admin.Role)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Mail.AdminAddress = "mulearn@gecidukki.ac.in"

	registration := services.NewRegistrationService(repos.Events())
	contactSvc := services.NewContactService(repos.Contacts(), nil, cfg)

	postHandler := NewPostHandler(repos.Posts(), store)
	eventHandler := NewEventHandler(repos.Events(), registration, store)
	contactHandler := NewContactHandler(repos.Contacts(), contactSvc)
	dashboardHandler := NewDashboardHandler(repos.Stats(), cache.New(&config.Config{}))
	authHandler := NewAuthHandler(repos.Users(), jwtService)

	router := gin.New()
	api := router.Group("/api")

	public := api.Group("")
	public.Use(middleware.OptionalAuth(jwtService))
	public.GET("/posts", postHandler.List)
	public.GET("/posts/:id", postHandler.Get)
	public.POST("/posts/:id/like", postHandler.Like)
	public.GET("/events", eventHandler.List)
	public.GET("/events/:id", eventHandler.Get)
	public.GET("/events/slug/:slug", eventHandler.GetBySlug)
	public.POST("/events/:id/register", eventHandler.Register)
	public.POST("/contact", contactHandler.Submit)

	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", middleware.RequireAuth(jwtService), authHandler.Me)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.RequireAuth(jwtService), middleware.RequireAdmin())
	adminGroup.POST("/posts", postHandler.Create)
	adminGroup.PUT("/posts/:id", postHandler.Update)
	adminGroup.DELETE("/posts/:id", postHandler.Delete)
	adminGroup.POST("/events", eventHandler.Create)
	adminGroup.PUT("/events/:id", eventHandler.Update)
	adminGroup.DELETE("/events/:id", eventHandler.Delete)
	adminGroup.GET("/contacts", contactHandler.List)
	adminGroup.GET("/contacts/:id", contactHandler.Get)
	adminGroup.POST("/contacts/:id/respond", contactHandler.Respond)
	adminGroup.PATCH("/contacts/:id", contactHandler.UpdateStatus)
	adminGroup.DELETE("/contacts/:id", contactHandler.Delete)
	adminGroup.GET("/dashboard/stats", dashboardHandler.Stats)
	adminGroup.GET("/dashboard/analytics", dashboardHandler.Analytics)

	return &testEnv{
		repos:   repos,
		store:   store,
		jwt:     jwtService,
		router:  router,
		adminID: admin.ID,
		token:   token,
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+env.token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) doJSON(t *testing.T, method, path string, payload interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return env.do(t, method, path, bytes.NewReader(data), "application/json", authed)
}

// multipartBody builds a multipart form with the given fields and an
// optional PNG image part.
func multipartBody(t *testing.T, fields map[string]string, lists map[string][]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for key, values := range lists {
		for _, value := range values {
			require.NoError(t, writer.WriteField(key, value))
		}
	}
	if withImage {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="cover.png"`)
		header.Set("Content-Type", "image/png")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG\r\n\x1a\nfakeimagedata"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func listAll() query.Options {
	return query.Options{Page: 1, Limit: query.MaxLimit}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seedPost(t *testing.T, env *testEnv, status post.Status) *post.Post {
	t.Helper()
	p := &post.Post{
		ID:          uuid.New(),
		Title:       "Intro to MuLearn",
		Description: "What the community does",
		Content:     "Long form content.",
		Image:       "/uploads/posts/intro.png",
		Category:    "community",
		Status:      status,
		AuthorID:    env.adminID,
		CreatedAt:   time.Now(),
	}
	if status == post.StatusPublished {
		now := time.Now()
		p.PublishedAt = &now
	}
	require.NoError(t, env.repos.Posts().Create(context.Background(), p))
	return p
}

func seedEvent(t *testing.T, env *testEnv, maxAttendees, currentAttendees int) *event.Event {
	t.Helper()
	e := &event.Event{
		ID:               uuid.New(),
		Title:            "Hackathon Kickoff",
		Description:      "48 hour campus hackathon",
		Content:          "Teams of four.",
		Image:            "/uploads/events/hackathon.png",
		Date:             time.Now().Add(72 * time.Hour),
		Time:             "09:00",
		Location:         "Main Auditorium",
		Type:             event.TypeHackathon,
		Category:         event.CategoryTechnical,
		Status:           event.StatusUpcoming,
		MaxAttendees:     maxAttendees,
		CurrentAttendees: currentAttendees,
		AuthorID:         env.adminID,
		CreatedAt:        time.Now(),
	}
	e.RefreshSlug()
	require.NoError(t, env.repos.Events().Create(context.Background(), e))
	return e
}
