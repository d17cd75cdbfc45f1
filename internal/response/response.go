package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mulearn-geci/community-api/internal/query"
)

// Response is the standard API envelope for single-item and mutation results
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ListResponse is the envelope for paginated list endpoints
type ListResponse struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Data       interface{}      `json:"data"`
	Pagination query.Pagination `json:"pagination"`
	Meta       interface{}      `json:"meta,omitempty"`
}

// ErrorResponse is the envelope for failed requests
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

// Success sends a successful response
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 response
func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

// List sends a paginated list response
func List(c *gin.Context, message string, data interface{}, pagination query.Pagination) {
	c.JSON(http.StatusOK, ListResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// ListWithMeta sends a paginated list response with extra metadata
// (e.g. status counts on the admin contact list)
func ListWithMeta(c *gin.Context, message string, data interface{}, pagination query.Pagination, meta interface{}) {
	c.JSON(http.StatusOK, ListResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
		Meta:       meta,
	})
}

// Error sends an error response with the given status code
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    status,
	})
}

// BadRequest sends a 400 error
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound sends a 404 error
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Unauthorized sends a 401 error
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 error
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// Conflict sends a 409 error
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError sends a 500 error with a safe message
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
