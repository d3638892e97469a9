package models

import (
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

const (
	MongoDBName        = "taxi"
	PresenceCollection = "driver_presence"
)

// PostgresRepo holds the relational store; it implements the booking,
// user and notification repositories.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func PostgresNewRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

// MongodbRepo holds the document store used for the presence ledger.
type MongodbRepo struct {
	mongodbClient *mongo.Client
}

func MongodbNewRepo(mongodbClient *mongo.Client) *MongodbRepo {
	return &MongodbRepo{mongodbClient: mongodbClient}
}
