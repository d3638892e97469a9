package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking status codes. Only OnGoing and Completed carry side effects
// (admin broadcast); the update path accepts any integer.
const (
	StatusUnassigned = 0
	StatusAssigned   = 1
	StatusOnGoing    = 2
	StatusCompleted  = 3
)

type Booking struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Name             string     `db:"name" json:"name" validate:"required"`
	Email            string     `db:"email" json:"email,omitempty" validate:"omitempty,email"`
	Phone            string     `db:"phone" json:"phone" validate:"required"`
	Category         string     `db:"category" json:"category,omitempty"`
	PickupLocation   string     `db:"pickuplocation" json:"pickuplocation" validate:"required"`
	PickupLatitude   *float64   `db:"pickup_latitude" json:"pickup_latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	PickupLongitude  *float64   `db:"pickup_longitude" json:"pickup_longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Destination      string     `db:"destination" json:"destination" validate:"required"`
	DropoffLatitude  *float64   `db:"dropoff_latitude" json:"dropoff_latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	DropoffLongitude *float64   `db:"dropoff_longitude" json:"dropoff_longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	DriverID         *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	CustomerID       *uuid.UUID `db:"customer_id" json:"customer_id,omitempty"`
	Amount           float64    `db:"amount" json:"amount"`
	Status           int        `db:"status" json:"status"`
	Notes            string     `db:"notes" json:"notes,omitempty"`
	CreatedBy        *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	BookingDate      *time.Time `db:"booking_date" json:"booking_date,omitempty"`
	DeletedAt        *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`

	// Expanded relations, populated on demand.
	Driver   *User `json:"driver,omitempty"`
	Customer *User `json:"customer,omitempty"`
}

// IsTrashed reports whether the booking is soft deleted.
func (b *Booking) IsTrashed() bool {
	return b.DeletedAt != nil
}
