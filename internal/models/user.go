package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin    = "admin"
	RoleDriver   = "driver"
	RoleCustomer = "customer"
)

type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email,omitempty"`
	Phone       string    `db:"phone" json:"phone"`
	Password    string    `db:"password" json:"-"`
	Role        string    `db:"role" json:"role"`
	Category    string    `db:"category" json:"category,omitempty"`
	Location    string    `db:"location" json:"location,omitempty"`
	PhotoURL    string    `db:"photo_url" json:"photo_url,omitempty"`
	CarName     string    `db:"car_name" json:"car_name,omitempty"`
	CarModel    string    `db:"car_model" json:"car_model,omitempty"`
	CarColor    string    `db:"car_color" json:"car_color,omitempty"`
	Rating      float64   `db:"rating" json:"rating"`
	RatingCount int       `db:"rating_count" json:"rating_count"`
	// IsActive is the driver presence flag (1 online, 0 offline).
	IsActive int `db:"is_active" json:"is_active"`
	// Status marks the account state; login rejects status 1.
	Status    int       `db:"status" json:"status"`
	FCMToken  *string   `db:"fcm_token" json:"fcm_token,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasFCMToken() bool {
	return u.FCMToken != nil && *u.FCMToken != ""
}

// UserUpdate carries optional fields for a partial user update. Nil
// means keep the existing value.
type UserUpdate struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=255"`
	Role     *string `json:"role,omitempty" validate:"omitempty,max=255"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=255"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=255"`
	PhotoURL *string `json:"photo_url,omitempty" validate:"omitempty,max=255"`
	CarName  *string `json:"car_name,omitempty" validate:"omitempty,max=255"`
	CarModel *string `json:"car_model,omitempty" validate:"omitempty,max=255"`
	CarColor *string `json:"car_color,omitempty" validate:"omitempty,max=255"`
}
