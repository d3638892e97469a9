package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/konvff/taxi-api/internal/apperrors"
)

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n *Notification) (*Notification, error)
	ListNotifications(ctx context.Context, f NotificationFilter) ([]*Notification, int, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) (*Notification, error)
}

const notificationColumns = `id, title, body, user_id, receiver_id, booking_id, is_read, created_at`

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.Title, &n.Body, &n.SenderID, &n.ReceiverID, &n.BookingID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("notification")
		}
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	return &n, nil
}

func (pg *PostgresRepo) CreateNotification(ctx context.Context, n *Notification) (*Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	row := pg.pool.QueryRow(ctx, `
		INSERT INTO notifications (id, title, body, user_id, receiver_id, booking_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+notificationColumns,
		n.ID, n.Title, n.Body, n.SenderID, n.ReceiverID, n.BookingID, n.IsRead, time.Now(),
	)
	return scanNotification(row)
}

func (pg *PostgresRepo) ListNotifications(ctx context.Context, f NotificationFilter) ([]*Notification, int, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.SenderID != nil {
		conds = append(conds, "user_id = "+arg(*f.SenderID))
	}
	if f.ReceiverID != nil {
		conds = append(conds, "receiver_id = "+arg(*f.ReceiverID))
	}
	if f.IsRead != nil {
		conds = append(conds, "is_read = "+arg(*f.IsRead))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := pg.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications` + where +
		` ORDER BY created_at DESC LIMIT ` + arg(f.Limit) + ` OFFSET ` + arg(f.Offset)
	rows, err := pg.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}
	return notifications, total, rows.Err()
}

func (pg *PostgresRepo) MarkNotificationRead(ctx context.Context, id uuid.UUID) (*Notification, error) {
	row := pg.pool.QueryRow(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1
		RETURNING `+notificationColumns, id)
	return scanNotification(row)
}
