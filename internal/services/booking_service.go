package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/konvff/taxi-api/internal/apperrors"
	"github.com/konvff/taxi-api/internal/models"
)

// BookingNotifier is the slice of the dispatcher the booking flows use.
// All calls are best-effort; the triggering write has already committed.
type BookingNotifier interface {
	BookingStatusChanged(ctx context.Context, actor *models.User, bookingID uuid.UUID, status int)
	BookingAssigned(ctx context.Context, assignee *models.User, bookingID uuid.UUID)
}

type BookingService struct {
	bookings models.BookingRepo
	users    models.UserRepo
	notifier BookingNotifier
	logger   *slog.Logger
}

func NewBookingService(bookings models.BookingRepo, users models.UserRepo, notifier BookingNotifier, logger *slog.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

func (bs *BookingService) CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	if err := models.Validate.Struct(b); err != nil {
		return nil, validationError(err)
	}

	if b.CustomerID != nil {
		if _, err := bs.users.GetUserByID(ctx, *b.CustomerID); err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewValidation("customer_id", "referenced user does not exist")
			}
			return nil, err
		}
	}

	b.Status = models.StatusUnassigned
	return bs.bookings.CreateBooking(ctx, b)
}

func (bs *BookingService) ListBookings(ctx context.Context, f models.BookingFilter) ([]*models.Booking, error) {
	return bs.bookings.ListBookings(ctx, f)
}

// GetBooking fetches one booking; withTrashed also reaches soft-deleted
// records, matching the original show endpoint.
func (bs *BookingService) GetBooking(ctx context.Context, id uuid.UUID, withTrashed bool) (*models.Booking, error) {
	return bs.bookings.GetBookingByID(ctx, id, withTrashed)
}

func (bs *BookingService) UpdateBooking(ctx context.Context, id uuid.UUID, b *models.Booking) (*models.Booking, error) {
	if err := models.Validate.Struct(b); err != nil {
		return nil, validationError(err)
	}
	return bs.bookings.UpdateBooking(ctx, id, b)
}

func (bs *BookingService) SoftDeleteBooking(ctx context.Context, id uuid.UUID) error {
	return bs.bookings.SoftDeleteBooking(ctx, id)
}

func (bs *BookingService) RestoreBooking(ctx context.Context, id uuid.UUID) error {
	return bs.bookings.RestoreBooking(ctx, id)
}

func (bs *BookingService) ForceDeleteBooking(ctx context.Context, id uuid.UUID) error {
	return bs.bookings.ForceDeleteBooking(ctx, id)
}

// UpdateStatus applies a status transition. Any integer is accepted;
// there is deliberately no transition table. OnGoing and Completed
// trigger the admin broadcast naming the acting driver.
func (bs *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string, actorID uuid.UUID) (*models.Booking, error) {
	status, err := strconv.Atoi(rawStatus)
	if err != nil {
		return nil, apperrors.NewValidation("status", "must be an integer")
	}

	booking, err := bs.bookings.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if status == models.StatusOnGoing || status == models.StatusCompleted {
		actor, err := bs.users.GetUserByID(ctx, actorID)
		if err != nil {
			bs.logger.Warn("Could not resolve acting user for status broadcast", "user_id", actorID, "error", err)
		}
		bs.notifier.BookingStatusChanged(ctx, actor, booking.ID, status)
	}

	return booking, nil
}

// AssignDriver binds a driver to the booking and reports the previous
// occupant in the returned message. Assigning the current driver again
// is allowed and reported as a reassignment.
func (bs *BookingService) AssignDriver(ctx context.Context, bookingID, driverID uuid.UUID, notes string, date *time.Time) (*models.Booking, string, error) {
	booking, err := bs.bookings.GetBookingByID(ctx, bookingID, false)
	if err != nil {
		return nil, "", err
	}

	driver, err := bs.users.GetUserByID(ctx, driverID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, "", apperrors.NewValidation("user_id", "referenced user does not exist")
		}
		return nil, "", err
	}

	previousDriverID := booking.DriverID

	updated, err := bs.bookings.AssignBookingDriver(ctx, bookingID, driverID, notes, date)
	if err != nil {
		return nil, "", err
	}
	updated.Driver = driver

	bs.notifier.BookingAssigned(ctx, driver, bookingID)

	message := "Driver assigned successfully"
	if previousDriverID != nil {
		message = fmt.Sprintf("Driver reassigned successfully from Driver ID: %s to Driver ID: %s",
			previousDriverID, driverID)
	}
	return updated, message, nil
}

// AssignCustomer is the customer-slot counterpart of AssignDriver.
func (bs *BookingService) AssignCustomer(ctx context.Context, bookingID, customerID uuid.UUID, notes string, date *time.Time) (*models.Booking, string, error) {
	booking, err := bs.bookings.GetBookingByID(ctx, bookingID, false)
	if err != nil {
		return nil, "", err
	}

	customer, err := bs.users.GetUserByID(ctx, customerID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, "", apperrors.NewValidation("customer_id", "referenced user does not exist")
		}
		return nil, "", err
	}

	previousCustomerID := booking.CustomerID

	updated, err := bs.bookings.AssignBookingCustomer(ctx, bookingID, customerID, notes, date)
	if err != nil {
		return nil, "", err
	}
	updated.Customer = customer

	bs.notifier.BookingAssigned(ctx, customer, bookingID)

	message := "Customer assigned successfully"
	if previousCustomerID != nil {
		message = fmt.Sprintf("Customer reassigned successfully from Customer ID: %s to Customer ID: %s",
			previousCustomerID, customerID)
	}
	return updated, message, nil
}

func (bs *BookingService) BookingsByDate(ctx context.Context, date time.Time) ([]*models.Booking, error) {
	return bs.bookings.ListBookings(ctx, models.BookingFilter{BookingDate: &date})
}

// UpdateBookingDate changes the scheduled date and reports the previous
// one in the message.
func (bs *BookingService) UpdateBookingDate(ctx context.Context, id uuid.UUID, date time.Time) (*models.Booking, string, error) {
	booking, err := bs.bookings.GetBookingByID(ctx, id, false)
	if err != nil {
		return nil, "", err
	}

	previous := "none"
	if booking.BookingDate != nil {
		previous = booking.BookingDate.Format("2006-01-02")
	}

	updated, err := bs.bookings.UpdateBookingDate(ctx, id, date)
	if err != nil {
		return nil, "", err
	}

	message := fmt.Sprintf("Booking date updated successfully from %s to %s",
		previous, date.Format("2006-01-02"))
	return updated, message, nil
}

// DriverBookings lists a driver's bookings, optionally windowed over
// created_at; start-only and end-only windows are both supported.
func (bs *BookingService) DriverBookings(ctx context.Context, driverID uuid.UUID, from, to *time.Time) ([]*models.Booking, error) {
	return bs.bookings.ListBookings(ctx, models.BookingFilter{
		DriverID:   &driverID,
		From:       from,
		To:         to,
		DateColumn: models.DateColumnCreated,
	})
}

func (bs *BookingService) CustomerBookings(ctx context.Context, customerID uuid.UUID, from, to *time.Time) ([]*models.Booking, error) {
	return bs.bookings.ListBookings(ctx, models.BookingFilter{
		CustomerID: &customerID,
		From:       from,
		To:         to,
		DateColumn: models.DateColumnCreated,
	})
}
