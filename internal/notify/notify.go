package notify

import (
	"context"

	"github.com/konvff/taxi-api/internal/models"
)

// Sender delivers one push message to one device token. Implementations
// are called best-effort: a failure is logged by the dispatcher and
// never surfaced to the operation that triggered it.
type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// Recipients resolves who receives a broadcast, so the dispatcher does
// not need to know how "all admins" is computed.
type Recipients interface {
	AdminsWithToken(ctx context.Context) ([]*models.User, error)
}

// Feed is an optional live channel (the admin websocket hub).
type Feed interface {
	BroadcastJSON(v interface{}) error
}

// EventPublisher is an optional event bus hook (RabbitMQ).
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body interface{}) error
}
