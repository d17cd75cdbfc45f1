package handlers

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mulearn-geci/community-api/internal/assets"
	"github.com/mulearn-geci/community-api/internal/response"
)

// timeNow is swappable in tests
var timeNow = time.Now

// parseID reads the :id path parameter, writing a 400 on malformed input
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid id: must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func commitPending(p *assets.Pending) {
	if p != nil {
		p.Commit()
	}
}

func releasePending(p *assets.Pending) {
	if p != nil {
		p.Release()
	}
}

// isValidationError reports whether err comes from struct validation and is
// safe to echo back to the caller.
func isValidationError(err error) bool {
	var errs validation.Errors
	return errors.As(err, &errs)
}
