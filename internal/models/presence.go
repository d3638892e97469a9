package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PresenceEvent is one row of the append-only driver online/offline
// ledger. Events are never mutated; ordering is by ChangedAt at read
// time, so overlapping appends from the same driver are fine.
type PresenceEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	DriverID   string             `bson:"driver_id" json:"driver_id"`
	IsActive   int                `bson:"is_active" json:"is_active"`
	ChangedAt  time.Time          `bson:"changed_at" json:"changed_at"`
	CarDetails string             `bson:"car_details,omitempty" json:"car_details,omitempty"`
}
