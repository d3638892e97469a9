package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/konvff/taxi-api/internal/models"
	"github.com/konvff/taxi-api/internal/services"
)

func ListUsers(ds *services.DriverService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := ds.ListUsers(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(users, ""))
	}
}

func ShowUser(ds *services.DriverService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		user, err := ds.GetUser(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, ""))
	}
}

func UpdateUser(ds *services.DriverService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var upd models.UserUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user, err := ds.UpdateUser(c.Request.Context(), id, &upd)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "User updated successfully"))
	}
}

func DeleteUser(ds *services.DriverService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		if err := ds.DeleteUser(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse("User deleted successfully"))
	}
}

func UpdateUserStatus(ds *services.DriverService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user, err := ds.UpdateUserStatus(c.Request.Context(), id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "User status updated successfully"))
	}
}

func UpdateRating(ds *services.DriverService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			Rating      float64 `json:"rating"`
			RatingCount int     `json:"rating_count"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user, err := ds.UpdateRating(c.Request.Context(), id, req.Rating, req.RatingCount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "Rating updated successfully"))
	}
}

// ToggleActive flips the driver online/offline and records the change
// in the presence ledger.
func ToggleActive(ds *services.DriverService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			IsActive string `json:"is_active"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user, err := ds.ToggleActive(c.Request.Context(), id, req.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}

		message := "Driver is now offline"
		if user.IsActive == 1 {
			message = "Driver is now online"
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, message))
	}
}

func OnlineStats(ds *services.DriverService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		stats, err := ds.OnlineStats(c.Request.Context(), id, c.DefaultQuery("period", "week"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(stats, ""))
	}
}
