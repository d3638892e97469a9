package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/konvff/taxi-api/internal/middleware"
	"github.com/konvff/taxi-api/internal/models"
	"github.com/konvff/taxi-api/internal/services"
)

func CreateBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var booking models.Booking
		if err := c.ShouldBindJSON(&booking); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		if claims, ok := middleware.CurrentClaims(c); ok && booking.CreatedBy == nil {
			if creatorID, err := uuid.Parse(claims.UserID); err == nil {
				booking.CreatedBy = &creatorID
			}
		}

		created, err := bs.CreateBooking(c.Request.Context(), &booking)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Booking created successfully"))
	}
}

func ListBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := bs.ListBookings(c.Request.Context(), models.BookingFilter{})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}

// ShowBooking also reaches soft-deleted bookings.
func ShowBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		booking, err := bs.GetBooking(c.Request.Context(), id, true)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, ""))
	}
}

func UpdateBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var booking models.Booking
		if err := c.ShouldBindJSON(&booking); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := bs.UpdateBooking(c.Request.Context(), id, &booking)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Booking updated successfully"))
	}
}

func DeleteBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		if err := bs.SoftDeleteBooking(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse("Booking soft deleted"))
	}
}

func RestoreBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		if err := bs.RestoreBooking(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse("Booking restored"))
	}
}

func ForceDeleteBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		if err := bs.ForceDeleteBooking(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse("Booking permanently deleted"))
	}
}

func UpdateBookingStatus(bs *services.BookingService) gin.HandlerFunc {
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

		var actorID uuid.UUID
		if claims, ok := middleware.CurrentClaims(c); ok {
			actorID, _ = uuid.Parse(claims.UserID)
		}

		booking, err := bs.UpdateStatus(c.Request.Context(), id, req.Status, actorID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Booking status updated successfully"))
	}
}

type assignRequest struct {
	UserID      string `json:"user_id"`
	CustomerID  string `json:"customer_id"`
	Notes       string `json:"notes"`
	BookingDate string `json:"booking_date"`
}

func (r *assignRequest) parseDate(c *gin.Context) (*time.Time, bool) {
	if r.BookingDate == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", r.BookingDate)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse("booking_date must be formatted Y-m-d"))
		return nil, false
	}
	return &t, true
}

func AssignDriver(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req assignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		driverID, err := uuid.Parse(req.UserID)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse("user_id is required and must be a valid id"))
			return
		}
		date, ok := req.parseDate(c)
		if !ok {
			return
		}

		booking, message, err := bs.AssignDriver(c.Request.Context(), bookingID, driverID, req.Notes, date)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, message))
	}
}

func AssignCustomer(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req assignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse("customer_id is required and must be a valid id"))
			return
		}
		date, ok := req.parseDate(c)
		if !ok {
			return
		}

		booking, message, err := bs.AssignCustomer(c.Request.Context(), bookingID, customerID, req.Notes, date)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, message))
	}
}

func BookingsByDate(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("booking_date")
		if raw == "" {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse("booking_date is required"))
			return
		}
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse("booking_date must be formatted Y-m-d"))
			return
		}

		bookings, err := bs.BookingsByDate(c.Request.Context(), date)
		if err != nil {
			respondError(c, err)
			return
		}
		if len(bookings) == 0 {
			c.JSON(http.StatusNotFound, models.ErrorResponse("No bookings found for this date."))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}

func UpdateBookingDate(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			BookingDate string `json:"booking_date"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		date, err := time.Parse("2006-01-02", req.BookingDate)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse("booking_date is required and must be formatted Y-m-d"))
			return
		}

		booking, message, err := bs.UpdateBookingDate(c.Request.Context(), id, date)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, message))
	}
}

// DriverBookings lists one driver's bookings windowed over created_at.
func DriverBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID, ok := parseIDParam(c, "user_id")
		if !ok {
			return
		}
		from, to, err := parseDateWindow(c)
		if err != nil {
			respondError(c, err)
			return
		}

		bookings, err := bs.DriverBookings(c.Request.Context(), driverID, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		if len(bookings) == 0 {
			c.JSON(http.StatusNotFound, models.ErrorResponse("No bookings found for this user"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(bookings, "User bookings retrieved successfully"))
	}
}

func CustomerBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := parseIDParam(c, "user_id")
		if !ok {
			return
		}
		from, to, err := parseDateWindow(c)
		if err != nil {
			respondError(c, err)
			return
		}

		bookings, err := bs.CustomerBookings(c.Request.Context(), customerID, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		if len(bookings) == 0 {
			c.JSON(http.StatusNotFound, models.ErrorResponse("No bookings found for this user"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(bookings, "User bookings retrieved successfully"))
	}
}
