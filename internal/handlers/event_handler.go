package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mulearn-geci/community-api/internal/assets"
	"github.com/mulearn-geci/community-api/internal/domain/event"
	"github.com/mulearn-geci/community-api/internal/logger"
	"github.com/mulearn-geci/community-api/internal/middleware"
	"github.com/mulearn-geci/community-api/internal/query"
	"github.com/mulearn-geci/community-api/internal/response"
	"github.com/mulearn-geci/community-api/internal/services"
	"github.com/mulearn-geci/community-api/internal/storage"
)

// EventHandler serves the event endpoints
type EventHandler struct {
	events       storage.EventRepository
	registration *services.RegistrationService
	store        assets.Store
	log          *log.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(events storage.EventRepository, registration *services.RegistrationService, store assets.Store) *EventHandler {
	return &EventHandler{
		events:       events,
		registration: registration,
		store:        store,
		log:          logger.Handler("events"),
	}
}

// EventRequest carries the writable event fields. Create and update are
// multipart endpoints because of the image upload, so the structured
// sub-records arrive as JSON-encoded form fields.
type EventRequest struct {
	Title                string   `form:"title"`
	Description          string   `form:"description"`
	Content              string   `form:"content"`
	ImageAlt             string   `form:"imageAlt"`
	Date                 string   `form:"date"`
	Time                 string   `form:"time"`
	EndTime              string   `form:"endTime"`
	Location             string   `form:"location"`
	Venue                string   `form:"venue"`
	Type                 string   `form:"type"`
	Category             string   `form:"category"`
	MaxAttendees         int      `form:"maxAttendees"`
	RegistrationLink     string   `form:"registrationLink"`
	RegistrationDeadline string   `form:"registrationDeadline"`
	Status               string   `form:"status"`
	Featured             bool     `form:"featured"`
	Tags                 []string `form:"tags"`
	Requirements         []string `form:"requirements"`
	Organizers           string   `form:"organizers"`
	Speakers             string   `form:"speakers"`
	Agenda               string   `form:"agenda"`
	Price                float64  `form:"price"`
	Currency             string   `form:"currency"`
}

// List handles GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query(), query.DefaultLimit)

	events, total, err := h.events.List(c.Request.Context(), opts)
	if err != nil {
		h.log.Error("Failed to list events", "error", err)
		response.InternalError(c, "Failed to list events")
		return
	}
	response.List(c, "Events retrieved successfully", events, query.Paginate(opts.Page, opts.Limit, total))
}

// Get handles GET /api/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	e, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get event")
		return
	}
	response.Success(c, http.StatusOK, "Event retrieved successfully", e)
}

// GetBySlug handles GET /api/events/slug/:slug
func (h *EventHandler) GetBySlug(c *gin.Context) {
	e, err := h.events.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err, "Failed to get event")
		return
	}
	response.Success(c, http.StatusOK, "Event retrieved successfully", e)
}

// Register handles POST /api/events/:id/register
func (h *EventHandler) Register(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.registration.Register(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, event.ErrNotFound):
			response.NotFound(c, "Event not found")
		case errors.Is(err, event.ErrRegistrationClosed):
			response.BadRequest(c, "Registration is closed for this event")
		case errors.Is(err, event.ErrEventFull):
			response.BadRequest(c, "Event is full")
		case errors.Is(err, event.ErrDeadlinePassed):
			response.BadRequest(c, "The registration deadline has passed")
		default:
			h.log.Error("Failed to register attendee", "event_id", id, "error", err)
			response.InternalError(c, "Failed to register for event")
		}
		return
	}
	response.Success(c, http.StatusOK, "Registered successfully", result)
}

// Create handles POST /api/events (admin)
func (h *EventHandler) Create(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	e := &event.Event{
		ID:        uuid.New(),
		Status:    event.StatusUpcoming,
		Currency:  "INR",
		CreatedAt: timeNow(),
	}
	if userID, ok := middleware.UserID(c); ok {
		e.AuthorID = userID
	}
	if !h.apply(c, e, &req) {
		return
	}
	e.RefreshSlug()
	e.DeriveStatus(timeNow())

	pending, ok := h.saveImage(c, true)
	if !ok {
		return
	}
	if pending != nil {
		e.Image = pending.Path
	}

	if err := e.Validate(); err != nil {
		releasePending(pending)
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.events.Create(c.Request.Context(), e); err != nil {
		releasePending(pending)
		h.log.Error("Failed to create event", "error", err)
		response.InternalError(c, "Failed to create event")
		return
	}

	commitPending(pending)
	h.log.Info("Event created", "event_id", e.ID, "slug", e.Slug)
	response.Created(c, "Event created successfully", e)
}

// Update handles PUT /api/events/:id (admin). A title change re-derives the
// slug; anything else leaves it untouched.
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	existing, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get event")
		return
	}

	var req EventRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	oldImage := existing.Image
	oldTitle := existing.Title
	if !h.apply(c, existing, &req) {
		return
	}
	if existing.Title != oldTitle {
		existing.RefreshSlug()
	}

	pending, ok := h.saveImage(c, false)
	if !ok {
		return
	}
	if pending != nil {
		existing.Image = pending.Path
	}

	if err := existing.Validate(); err != nil {
		releasePending(pending)
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.events.Update(c.Request.Context(), existing); err != nil {
		releasePending(pending)
		h.respondError(c, err, "Failed to update event")
		return
	}

	commitPending(pending)
	if pending != nil && oldImage != "" && oldImage != existing.Image {
		h.removeImage(c.Request.Context(), oldImage)
	}
	response.Success(c, http.StatusOK, "Event updated successfully", existing)
}

// Delete handles DELETE /api/events/:id (admin)
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	existing, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get event")
		return
	}
	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete event")
		return
	}

	h.removeImage(c.Request.Context(), existing.Image)
	h.log.Info("Event deleted", "event_id", id)
	response.Success(c, http.StatusOK, "Event deleted successfully", nil)
}

// apply copies the request onto the event, reporting false when a response
// was already written.
func (h *EventHandler) apply(c *gin.Context, e *event.Event, req *EventRequest) bool {
	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		response.BadRequest(c, "Invalid date: expected RFC3339 or YYYY-MM-DD")
		return false
	}
	e.Title = req.Title
	e.Description = req.Description
	e.Content = req.Content
	e.ImageAlt = req.ImageAlt
	e.Date = date
	e.Time = req.Time
	e.EndTime = req.EndTime
	e.Location = req.Location
	e.Type = event.Type(req.Type)
	e.Category = event.Category(req.Category)
	e.MaxAttendees = req.MaxAttendees
	e.RegistrationLink = req.RegistrationLink
	e.Featured = req.Featured
	e.Tags = pq.StringArray(req.Tags)
	e.Requirements = pq.StringArray(req.Requirements)
	e.Price = req.Price
	if req.Currency != "" {
		e.Currency = req.Currency
	}

	if req.Status != "" {
		status, ok := event.ParseStatus(req.Status)
		if !ok {
			response.BadRequest(c, "Invalid event status: "+req.Status)
			return false
		}
		e.Status = status
	}
	if req.RegistrationDeadline != "" {
		deadline, err := parseFlexibleTime(req.RegistrationDeadline)
		if err != nil {
			response.BadRequest(c, "Invalid registrationDeadline: expected RFC3339 or YYYY-MM-DD")
			return false
		}
		e.RegistrationDeadline = &deadline
	} else {
		e.RegistrationDeadline = nil
	}

	if !decodeJSONField(c, "venue", req.Venue, &e.Venue) {
		return false
	}
	if !decodeJSONField(c, "organizers", req.Organizers, &e.Organizers) {
		return false
	}
	if !decodeJSONField(c, "speakers", req.Speakers, &e.Speakers) {
		return false
	}
	if !decodeJSONField(c, "agenda", req.Agenda, &e.Agenda) {
		return false
	}
	return true
}

func (h *EventHandler) saveImage(c *gin.Context, required bool) (*assets.Pending, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		if required {
			response.BadRequest(c, "An image is required")
			return nil, false
		}
		return nil, true
	}
	pending, err := h.store.Save(c.Request.Context(), assets.KindEvents, file)
	if err != nil {
		if errors.Is(err, assets.ErrInvalidFile) || errors.Is(err, assets.ErrFileTooLarge) {
			response.BadRequest(c, err.Error())
		} else {
			h.log.Error("Failed to store image", "error", err)
			response.InternalError(c, "Failed to store image")
		}
		return nil, false
	}
	return pending, true
}

func (h *EventHandler) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := h.store.Remove(ctx, path); err != nil {
		h.log.Warn("Failed to remove image", "path", path, "error", err)
	}
}

func (h *EventHandler) respondError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, event.ErrNotFound) {
		response.NotFound(c, "Event not found")
		return
	}
	h.log.Error(fallback, "error", err)
	response.InternalError(c, fallback)
}

func parseFlexibleTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// decodeJSONField unmarshals a JSON-encoded form field into dest, writing a
// 400 on malformed input. An empty field leaves dest untouched.
func decodeJSONField(c *gin.Context, name, raw string, dest interface{}) bool {
	if raw == "" {
		return true
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		response.BadRequest(c, "Invalid "+name+": must be valid JSON")
		return false
	}
	return true
}
