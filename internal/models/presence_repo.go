package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PresenceRepo is the append-only ledger of driver online/offline
// transitions. Rows are never updated or deleted.
type PresenceRepo interface {
	AppendPresence(ctx context.Context, ev *PresenceEvent) error
	ListPresence(ctx context.Context, driverID string, from, to time.Time) ([]*PresenceEvent, error)
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(dbName).Collection(colName), nil
}

func (mdb *MongodbRepo) AppendPresence(ctx context.Context, ev *PresenceEvent) error {
	col, err := mdb.GetCollection(ctx, MongoDBName, PresenceCollection)
	if err != nil {
		return fmt.Errorf("append presence: %w", err)
	}
	if ev.ChangedAt.IsZero() {
		ev.ChangedAt = time.Now()
	}
	if _, err := col.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("failed to insert presence event: %w", err)
	}
	return nil
}

// ListPresence returns the driver's events inside [from, to] sorted by
// changed_at ascending. Ordering here is what resolves concurrent
// appends; the store itself enforces nothing.
func (mdb *MongodbRepo) ListPresence(ctx context.Context, driverID string, from, to time.Time) ([]*PresenceEvent, error) {
	col, err := mdb.GetCollection(ctx, MongoDBName, PresenceCollection)
	if err != nil {
		return nil, fmt.Errorf("list presence: %w", err)
	}

	filter := bson.M{
		"driver_id":  driverID,
		"changed_at": bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "changed_at", Value: 1}})

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query presence events: %w", err)
	}
	defer cur.Close(ctx)

	events := []*PresenceEvent{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode presence events: %w", err)
	}
	return events, nil
}
