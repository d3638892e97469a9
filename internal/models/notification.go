package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Title      string     `db:"title" json:"title" validate:"required,max=255"`
	Body       string     `db:"body" json:"body,omitempty" validate:"max=255"`
	SenderID   uuid.UUID  `db:"user_id" json:"user_id" validate:"required"`
	ReceiverID uuid.UUID  `db:"receiver_id" json:"receiver_id" validate:"required"`
	BookingID  *uuid.UUID `db:"booking_id" json:"booking_id,omitempty"`
	IsRead     bool       `db:"is_read" json:"is_read"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// NotificationFilter narrows a notification listing.
type NotificationFilter struct {
	SenderID   *uuid.UUID
	ReceiverID *uuid.UUID
	IsRead     *bool
	Offset     int
	Limit      int
}
