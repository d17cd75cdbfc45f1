package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mulearn-geci/community-api/internal/auth"
	"github.com/mulearn-geci/community-api/internal/domain/user"
	"github.com/mulearn-geci/community-api/internal/logger"
	"github.com/mulearn-geci/community-api/internal/middleware"
	"github.com/mulearn-geci/community-api/internal/response"
	"github.com/mulearn-geci/community-api/internal/storage"
)

// AuthHandler serves login, the current-user lookup and admin registration
type AuthHandler struct {
	users storage.UserRepository
	jwt   *auth.Service
	log   *log.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users storage.UserRepository, jwt *auth.Service) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
		log:   logger.Handler("auth"),
	}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login. Wrong email and wrong password
// report the same error.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	u, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.Unauthorized(c, "Invalid email or password")
			return
		}
		h.log.Error("Failed to look up user", "error", err)
		response.InternalError(c, "Login failed")
		return
	}
	if !u.IsActive || !u.CheckPassword(req.Password) {
		response.Unauthorized(c, "Invalid email or password")
		return
	}

	token, err := h.jwt.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		h.log.Error("Failed to generate token", "error", err)
		response.InternalError(c, "Login failed")
		return
	}

	now := timeNow()
	u.LastLogin = &now
	if err := h.users.Update(c.Request.Context(), u); err != nil {
		h.log.Warn("Failed to record last login", "user_id", u.ID, "error", err)
	}

	h.log.Info("User logged in", "user_id", u.ID, "email", u.Email)
	response.Success(c, http.StatusOK, "Logged in successfully", gin.H{
		"token": token,
		"user":  u,
	})
}

// Me handles GET /api/auth/me (authenticated)
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			response.Unauthorized(c, "Account no longer exists")
			return
		}
		h.log.Error("Failed to load current user", "error", err)
		response.InternalError(c, "Failed to load account")
		return
	}
	response.Success(c, http.StatusOK, "Account retrieved successfully", u)
}

// RegisterRequest is the admin account creation payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register (admin). New accounts are
// always admins; there are no other roles in the console.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	u, err := user.New(req.Name, req.Email, req.Password, user.RoleAdmin)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			response.Conflict(c, "An account with this email already exists")
			return
		}
		h.log.Error("Failed to create account", "error", err)
		response.InternalError(c, "Failed to create account")
		return
	}

	h.log.Info("Admin account created", "user_id", u.ID, "email", u.Email)
	response.Created(c, "Account created successfully", u)
}
