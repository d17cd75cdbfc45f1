// Package handlers wires the HTTP surface: request binding, the asset
// commit/release lifecycle around mutations, and the error taxonomy mapping
// to status codes.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mulearn-geci/community-api/internal/assets"
	"github.com/mulearn-geci/community-api/internal/domain/post"
	"github.com/mulearn-geci/community-api/internal/logger"
	"github.com/mulearn-geci/community-api/internal/middleware"
	"github.com/mulearn-geci/community-api/internal/query"
	"github.com/mulearn-geci/community-api/internal/response"
	"github.com/mulearn-geci/community-api/internal/storage"
)

// PostHandler serves the post endpoints
type PostHandler struct {
	posts storage.PostRepository
	store assets.Store
	log   *log.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts storage.PostRepository, store assets.Store) *PostHandler {
	return &PostHandler{
		posts: posts,
		store: store,
		log:   logger.Handler("posts"),
	}
}

// PostRequest carries the writable post fields for create and update
type PostRequest struct {
	Title            string   `form:"title" json:"title"`
	Description      string   `form:"description" json:"description"`
	Content          string   `form:"content" json:"content"`
	ImageAlt         string   `form:"imageAlt" json:"imageAlt"`
	Category         string   `form:"category" json:"category"`
	Tags             []string `form:"tags" json:"tags"`
	Status           string   `form:"status" json:"status"`
	Featured         bool     `form:"featured" json:"featured"`
	RegistrationLink string   `form:"registrationLink" json:"registrationLink"`
}

// List handles GET /api/posts. Anonymous callers only ever see published
// posts, whatever status filter they ask for.
func (h *PostHandler) List(c *gin.Context) {
	opts := query.Parse(c.Request.URL.Query(), query.DefaultLimit)
	if !middleware.IsAdmin(c) {
		opts.Status = string(post.StatusPublished)
	}

	posts, total, err := h.posts.List(c.Request.Context(), opts)
	if err != nil {
		h.log.Error("Failed to list posts", "error", err)
		response.InternalError(c, "Failed to list posts")
		return
	}
	response.List(c, "Posts retrieved successfully", posts, query.Paginate(opts.Page, opts.Limit, total))
}

// Get handles GET /api/posts/:id. Drafts are hidden from the public behind
// a 404, and only published public reads count a view.
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get post")
		return
	}

	admin := middleware.IsAdmin(c)
	if !p.IsPublished() && !admin {
		response.NotFound(c, "Post not found")
		return
	}

	if p.IsPublished() && !admin {
		if err := h.posts.IncrementViews(c.Request.Context(), id); err != nil {
			h.log.Warn("Failed to increment views", "post_id", id, "error", err)
		} else {
			p.Views++
		}
	}

	response.Success(c, http.StatusOK, "Post retrieved successfully", p)
}

// Like handles POST /api/posts/:id/like
func (h *PostHandler) Like(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	p, err := h.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to like post")
		return
	}
	if !p.IsPublished() {
		response.NotFound(c, "Post not found")
		return
	}

	likes, err := h.posts.IncrementLikes(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to like post")
		return
	}
	response.Success(c, http.StatusOK, "Post liked", gin.H{"likes": likes})
}

// Create handles POST /api/posts (admin)
func (h *PostHandler) Create(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	p := &post.Post{
		ID:               uuid.New(),
		Title:            req.Title,
		Description:      req.Description,
		Content:          req.Content,
		ImageAlt:         req.ImageAlt,
		Category:         req.Category,
		Tags:             pq.StringArray(req.Tags),
		Status:           post.StatusDraft,
		Featured:         req.Featured,
		RegistrationLink: req.RegistrationLink,
	}
	if req.Status != "" {
		status, ok := post.ParseStatus(req.Status)
		if !ok {
			response.BadRequest(c, "Invalid post status: "+req.Status)
			return
		}
		p.Status = status
	}
	if userID, ok := middleware.UserID(c); ok {
		p.AuthorID = userID
	}

	pending, ok := h.saveImage(c, true)
	if !ok {
		return
	}
	if pending != nil {
		p.Image = pending.Path
	}

	p.MarkPublished(timeNow())
	if err := p.Validate(); err != nil {
		releasePending(pending)
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.posts.Create(c.Request.Context(), p); err != nil {
		releasePending(pending)
		h.log.Error("Failed to create post", "error", err)
		response.InternalError(c, "Failed to create post")
		return
	}

	commitPending(pending)
	h.log.Info("Post created", "post_id", p.ID, "status", p.Status)
	response.Created(c, "Post created successfully", p)
}

// Update handles PUT /api/posts/:id (admin). A replaced image is only
// removed once the updated record is durable.
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	existing, err := h.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get post")
		return
	}

	var req PostRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	oldImage := existing.Image
	existing.Title = req.Title
	existing.Description = req.Description
	existing.Content = req.Content
	existing.ImageAlt = req.ImageAlt
	existing.Category = req.Category
	existing.Tags = pq.StringArray(req.Tags)
	existing.Featured = req.Featured
	existing.RegistrationLink = req.RegistrationLink
	if req.Status != "" {
		status, ok := post.ParseStatus(req.Status)
		if !ok {
			response.BadRequest(c, "Invalid post status: "+req.Status)
			return
		}
		existing.Status = status
	}

	pending, ok := h.saveImage(c, false)
	if !ok {
		return
	}
	if pending != nil {
		existing.Image = pending.Path
	}

	existing.MarkPublished(timeNow())
	if err := existing.Validate(); err != nil {
		releasePending(pending)
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.posts.Update(c.Request.Context(), existing); err != nil {
		releasePending(pending)
		h.respondError(c, err, "Failed to update post")
		return
	}

	commitPending(pending)
	if pending != nil && oldImage != "" && oldImage != existing.Image {
		h.removeImage(c.Request.Context(), oldImage)
	}
	response.Success(c, http.StatusOK, "Post updated successfully", existing)
}

// Delete handles DELETE /api/posts/:id (admin)
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	existing, err := h.posts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "Failed to get post")
		return
	}
	if err := h.posts.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "Failed to delete post")
		return
	}

	h.removeImage(c.Request.Context(), existing.Image)
	h.log.Info("Post deleted", "post_id", id)
	response.Success(c, http.StatusOK, "Post deleted successfully", nil)
}

// saveImage stores an uploaded image, if any. required only matters when no
// file is attached: creates need one, updates keep the old image. The
// second return value is false when a response was already written.
func (h *PostHandler) saveImage(c *gin.Context, required bool) (*assets.Pending, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		if required {
			response.BadRequest(c, "An image is required")
			return nil, false
		}
		return nil, true
	}
	pending, err := h.store.Save(c.Request.Context(), assets.KindPosts, file)
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

func (h *PostHandler) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := h.store.Remove(ctx, path); err != nil {
		h.log.Warn("Failed to remove image", "path", path, "error", err)
	}
}

func (h *PostHandler) respondError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, post.ErrNotFound) {
		response.NotFound(c, "Post not found")
		return
	}
	h.log.Error(fallback, "error", err)
	response.InternalError(c, fallback)
}
