package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/konvff/taxi-api/internal/apperrors"
	"github.com/konvff/taxi-api/internal/models"
)

func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.StatusCode(err), models.ErrorResponse(err.Error()))
}

// parseIDParam normalizes and parses a uuid path parameter; it writes
// the 400 response itself when parsing fails.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Param(name))
	raw = strings.Trim(raw, "\"'")
	if raw == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(name+" is required"))
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid "+name+" format"))
		return uuid.Nil, false
	}
	return id, true
}

// parseDateWindow reads optional start_date/end_date query parameters
// (Y-m-d) and widens them to day boundaries.
func parseDateWindow(c *gin.Context) (from, to *time.Time, err error) {
	if raw := c.Query("start_date"); raw != "" {
		t, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			return nil, nil, apperrors.NewValidation("start_date", "must be formatted Y-m-d")
		}
		from = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			return nil, nil, apperrors.NewValidation("end_date", "must be formatted Y-m-d")
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	return from, to, nil
}
