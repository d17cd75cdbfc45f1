package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mulearn-geci/community-api/internal/domain/contact"
	"github.com/mulearn-geci/community-api/internal/logger"
	"github.com/mulearn-geci/community-api/internal/middleware"
	"github.com/mulearn-geci/community-api/internal/query"
	"github.com/mulearn-geci/community-api/internal/response"
	"github.com/mulearn-geci/community-api/internal/services"
	"github.com/mulearn-geci/community-api/internal/storage"
)

// ContactHandler serves the contact endpoints
type ContactHandler struct {
	contacts storage.ContactRepository
	service  *services.ContactService
	log      *log.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contacts storage.ContactRepository, service *services.ContactService) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		service:  service,
		log:      logger.Handler("contacts"),
	}
}

// SubmitRequest is the public contact form payload
type SubmitRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject" binding:"required"`
	Message  string `json:"message" binding:"required"`
	Category string `json:"category"`
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	submission := &contact.Contact{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Category:  req.Category,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if err := h.service.Submit(c.Request.Context(), submission); err != nil {
		if isValidationError(err) {
			response.BadRequest(c, err.Error())
			return
		}
		h.log.Error("Failed to store contact submission", "error", err)
		response.InternalError(c, "Failed to submit message")
		return
	}
	response.Created(c, "Message submitted successfully", submission)
}

// List handles GET /api/admin/contacts. The meta block carries submission
// counts per status for the inbox sidebar.
func (h *ContactHandler) List(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query(), query.DefaultLimit)

	contacts, total, err := h.contacts.List(c.Request.Context(), opts)
	if err != nil {
		h.log.Error("Failed to list contacts", "error", err)
		response.InternalError(c, "Failed to list contacts")
		return
	}

	counts, err := h.contacts.StatusCounts(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to count contacts by status", "error", err)
		response.InternalError(c, "Failed to list contacts")
		return
	}

	response.ListWithMeta(c, "Contacts retrieved successfully", contacts,
		query.Paginate(opts.Page, opts.Limit, total),
		gin.H{"statusCounts": counts})
}

// Get handles GET /api/admin/contacts/:id and flips new submissions to read
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	submission, err := h.service.View(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get contact")
		return
	}
	response.Success(c, http.StatusOK, "Contact retrieved successfully", submission)
}

// RespondRequest is the admin response payload
type RespondRequest struct {
	Message string `json:"message" binding:"required"`
}

// Respond handles POST /api/admin/contacts/:id/respond
func (h *ContactHandler) Respond(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	adminID, _ := middleware.UserID(c)
	submission, err := h.service.Respond(c.Request.Context(), id, req.Message, adminID)
	if err != nil {
		if errors.Is(err, contact.ErrEmptyResponse) {
			response.BadRequest(c, err.Error())
			return
		}
		h.respondError(c, err, "Failed to respond to contact")
		return
	}
	response.Success(c, http.StatusOK, "Response sent successfully", submission)
}

// UpdateStatusRequest carries the triage fields
type UpdateStatusRequest struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// UpdateStatus handles PATCH /api/admin/contacts/:id
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	submission, err := h.contacts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get contact")
		return
	}

	if req.Status != "" {
		status, valid := contact.ParseStatus(req.Status)
		if !valid {
			response.BadRequest(c, "Invalid contact status: "+req.Status)
			return
		}
		submission.Status = status
	}
	if req.Priority != "" {
		priority, valid := contact.ParsePriority(req.Priority)
		if !valid {
			response.BadRequest(c, "Invalid contact priority: "+req.Priority)
			return
		}
		submission.Priority = priority
	}

	if err := h.contacts.Update(c.Request.Context(), submission); err != nil {
		h.respondError(c, err, "Failed to update contact")
		return
	}
	response.Success(c, http.StatusOK, "Contact updated successfully", submission)
}

// Delete handles DELETE /api/admin/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.contacts.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete contact")
		return
	}
	h.log.Info("Contact deleted", "contact_id", id)
	response.Success(c, http.StatusOK, "Contact deleted successfully", nil)
}

func (h *ContactHandler) respondError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, contact.ErrNotFound) {
		response.NotFound(c, "Contact not found")
		return
	}
	h.log.Error(fallback, "error", err)
	response.InternalError(c, fallback)
}
