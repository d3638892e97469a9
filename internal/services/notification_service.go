package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/konvff/taxi-api/internal/apperrors"
	"github.com/konvff/taxi-api/internal/models"
)

type NotificationService struct {
	notifications models.NotificationRepo
	users         models.UserRepo
	bookings      models.BookingRepo
}

func NewNotificationService(notifications models.NotificationRepo, users models.UserRepo, bookings models.BookingRepo) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		bookings:      bookings,
	}
}

func (ns *NotificationService) CreateNotification(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	if err := models.Validate.Struct(n); err != nil {
		return nil, validationError(err)
	}

	if _, err := ns.users.GetUserByID(ctx, n.SenderID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewValidation("user_id", "referenced user does not exist")
		}
		return nil, err
	}
	if _, err := ns.users.GetUserByID(ctx, n.ReceiverID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewValidation("receiver_id", "referenced user does not exist")
		}
		return nil, err
	}
	if n.BookingID != nil {
		if _, err := ns.bookings.GetBookingByID(ctx, *n.BookingID, true); err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewValidation("booking_id", "referenced booking does not exist")
			}
			return nil, err
		}
	}

	return ns.notifications.CreateNotification(ctx, n)
}

func (ns *NotificationService) ListNotifications(ctx context.Context, f models.NotificationFilter) ([]*models.Notification, int, error) {
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return ns.notifications.ListNotifications(ctx, f)
}

func (ns *NotificationService) MarkNotificationRead(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	return ns.notifications.MarkNotificationRead(ctx, id)
}
