package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/konvff/taxi-api/internal/models"
	"github.com/konvff/taxi-api/internal/services"
)

// Revenue serves the dashboard rollups. An optional user_id query
// parameter narrows the report to one driver; start_date/end_date
// window the ongoing/completed buckets and the filtered revenue.
func Revenue(ds *services.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var driverID *uuid.UUID
		if raw := c.Query("user_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid user_id format"))
				return
			}
			driverID = &id
		}

		from, to, err := parseDateWindow(c)
		if err != nil {
			respondError(c, err)
			return
		}

		report, err := ds.Revenue(c.Request.Context(), driverID, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(report, ""))
	}
}

// DriverRevenue is the same report keyed by a path parameter.
func DriverRevenue(ds *services.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "user_id")
		if !ok {
			return
		}

		from, to, err := parseDateWindow(c)
		if err != nil {
			respondError(c, err)
			return
		}

		report, err := ds.Revenue(c.Request.Context(), &id, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(report, ""))
	}
}
