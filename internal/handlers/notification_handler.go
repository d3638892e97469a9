package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/konvff/taxi-api/internal/models"
	"github.com/konvff/taxi-api/internal/services"
)

func CreateNotification(ns *services.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var n models.Notification
		if err := c.ShouldBindJSON(&n); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, err := ns.CreateNotification(c.Request.Context(), &n)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Notification created successfully"))
	}
}

func ListNotifications(ns *services.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.NotificationFilter{}

		if raw := c.Query("receiver_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid receiver_id format"))
				return
			}
			filter.ReceiverID = &id
		}
		if raw := c.Query("is_read"); raw != "" {
			isRead := raw == "1" || raw == "true"
			filter.IsRead = &isRead
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if limit < 1 {
			limit = 10
		}
		filter.Limit = limit
		filter.Offset = (page - 1) * limit

		notifications, total, err := ns.ListNotifications(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(notifications, page, limit, total))
	}
}

func MarkNotificationRead(ns *services.NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		n, err := ns.MarkNotificationRead(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(n, "Notification marked as read"))
	}
}
