package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/konvff/taxi-api/internal/models"
)

// Dispatcher composes and fans out event notifications. Every delivery
// is best-effort: the booking/status/assignment write that triggered it
// has already committed and must not be failed by transport problems.
type Dispatcher struct {
	sender     Sender
	recipients Recipients
	feed       Feed
	events     EventPublisher
	logger     *slog.Logger
}

func NewDispatcher(sender Sender, recipients Recipients, feed Feed, events EventPublisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:     sender,
		recipients: recipients,
		feed:       feed,
		events:     events,
		logger:     logger,
	}
}

// BookingStatusChanged broadcasts a ride-started / booking-completed
// message to every admin with a registered token. The actor is the
// driver resolved by the caller from the request context.
func (d *Dispatcher) BookingStatusChanged(ctx context.Context, actor *models.User, bookingID uuid.UUID, status int) {
	var title, body string
	if status == models.StatusOnGoing {
		title = "Ride Started"
		body = fmt.Sprintf("Driver %s has started the ride.", actorName(actor))
	} else {
		title = "Booking Completed"
		body = fmt.Sprintf("Driver %s has completed the booking.", actorName(actor))
	}

	data := map[string]string{
		"booking_id": bookingID.String(),
		"status":     strconv.Itoa(status),
	}

	d.broadcastToAdmins(ctx, title, body, data)
	d.publishEvent(ctx, "booking.status", map[string]interface{}{
		"booking_id": bookingID,
		"status":     status,
		"driver":     actorName(actor),
	})
}

// BookingAssigned notifies the newly assigned driver or customer.
func (d *Dispatcher) BookingAssigned(ctx context.Context, assignee *models.User, bookingID uuid.UUID) {
	if assignee != nil && assignee.HasFCMToken() {
		d.send(ctx, *assignee.FCMToken, "New Booking Assigned",
			"You have been assigned a new booking!",
			map[string]string{"booking_id": bookingID.String()})
	}
	d.publishEvent(ctx, "booking.assigned", map[string]interface{}{
		"booking_id": bookingID,
		"user_id":    assigneeID(assignee),
	})
}

// UserStatusChanged is the user-row variant of the status broadcast;
// the body carries the wall-clock time of the transition.
func (d *Dispatcher) UserStatusChanged(ctx context.Context, user *models.User, status int) {
	var title, body string
	clock := time.Now().Format("03:04 PM")
	if status == models.StatusOnGoing {
		title = "Ride Started"
		body = fmt.Sprintf("Driver %s has started the ride at %s.", actorName(user), clock)
	} else {
		title = "Booking Completed"
		body = fmt.Sprintf("Driver %s has completed the booking at %s.", actorName(user), clock)
	}

	data := map[string]string{
		"user_id": user.ID.String(),
		"status":  strconv.Itoa(status),
	}

	d.broadcastToAdmins(ctx, title, body, data)
}

// DriverPresenceChanged broadcasts an online/offline message to admins.
func (d *Dispatcher) DriverPresenceChanged(ctx context.Context, driver *models.User, isActive int) {
	var title, body string
	clock := time.Now().Format("03:04 PM")
	if isActive == 1 {
		title = "Driver Online"
		body = fmt.Sprintf("Driver %s is online at %s.", actorName(driver), clock)
	} else {
		title = "Driver Offline"
		body = fmt.Sprintf("Driver %s is offline at %s.", actorName(driver), clock)
	}

	data := map[string]string{
		"user_id": driver.ID.String(),
		"status":  strconv.Itoa(isActive),
	}

	d.broadcastToAdmins(ctx, title, body, data)
	d.publishEvent(ctx, "driver.presence", map[string]interface{}{
		"user_id":   driver.ID,
		"is_active": isActive,
	})
}

func (d *Dispatcher) broadcastToAdmins(ctx context.Context, title, body string, data map[string]string) {
	admins, err := d.recipients.AdminsWithToken(ctx)
	if err != nil {
		d.logger.Error("Failed to resolve admin recipients", "error", err)
		return
	}
	if len(admins) == 0 {
		d.logger.Warn("No admin found with FCM token")
	}

	for _, admin := range admins {
		d.send(ctx, *admin.FCMToken, title, body, data)
	}

	if d.feed != nil {
		if err := d.feed.BroadcastJSON(map[string]interface{}{
			"title": title,
			"body":  body,
			"data":  data,
		}); err != nil {
			d.logger.Error("Failed to broadcast to admin feed", "error", err)
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, token, title, body string, data map[string]string) {
	if d.sender == nil {
		return
	}
	if err := d.sender.Send(ctx, token, title, body, data); err != nil {
		d.logger.Error("Push notification failed", "title", title, "error", err)
	}
}

func (d *Dispatcher) publishEvent(ctx context.Context, routingKey string, body interface{}) {
	if d.events == nil {
		return
	}
	if err := d.events.Publish(ctx, routingKey, body); err != nil {
		d.logger.Error("Event publish failed", "routing_key", routingKey, "error", err)
	}
}

func actorName(u *models.User) string {
	if u == nil {
		return "unknown"
	}
	return u.Name
}

func assigneeID(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.ID.String()
}
