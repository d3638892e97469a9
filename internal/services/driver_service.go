package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/konvff/taxi-api/internal/apperrors"
	"github.com/konvff/taxi-api/internal/helpers"
	"github.com/konvff/taxi-api/internal/models"
)

// PresenceNotifier is the slice of the dispatcher the driver flows use.
type PresenceNotifier interface {
	DriverPresenceChanged(ctx context.Context, driver *models.User, isActive int)
	UserStatusChanged(ctx context.Context, user *models.User, status int)
}

type DriverService struct {
	users    models.UserRepo
	presence models.PresenceRepo
	notifier PresenceNotifier
	logger   *slog.Logger
}

func NewDriverService(users models.UserRepo, presence models.PresenceRepo, notifier PresenceNotifier, logger *slog.Logger) *DriverService {
	return &DriverService{
		users:    users,
		presence: presence,
		notifier: notifier,
		logger:   logger,
	}
}

func (ds *DriverService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return ds.users.ListUsers(ctx)
}

func (ds *DriverService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return ds.users.GetUserByID(ctx, id)
}

func (ds *DriverService) UpdateUser(ctx context.Context, id uuid.UUID, upd *models.UserUpdate) (*models.User, error) {
	if err := models.Validate.Struct(upd); err != nil {
		return nil, validationError(err)
	}
	return ds.users.UpdateUser(ctx, id, upd)
}

func (ds *DriverService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return ds.users.DeleteUser(ctx, id)
}

// UpdateUserStatus mirrors the booking status machine on the user row;
// OnGoing/Completed values broadcast to admins the same way.
func (ds *DriverService) UpdateUserStatus(ctx context.Context, id uuid.UUID, rawStatus string) (*models.User, error) {
	status, err := strconv.Atoi(rawStatus)
	if err != nil {
		return nil, apperrors.NewValidation("status", "must be an integer")
	}

	user, err := ds.users.UpdateUserStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if status == models.StatusOnGoing || status == models.StatusCompleted {
		ds.notifier.UserStatusChanged(ctx, user, status)
	}
	return user, nil
}

// UpdateRating sets the driver rating. Ratings live in [0,5] with at
// most one decimal place; the count only moves forward from the
// client's perspective but is stored as given.
func (ds *DriverService) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, ratingCount int) (*models.User, error) {
	if ratingCount < 0 {
		return nil, apperrors.NewValidation("rating_count", "must be zero or greater")
	}
	if rating < 0 || rating > 5 {
		return nil, apperrors.NewValidation("rating", "must be between 0 and 5")
	}
	if !helpers.IsOneDecimal(strconv.FormatFloat(rating, 'f', -1, 64)) {
		return nil, apperrors.NewValidation("rating", "must have at most one decimal place")
	}

	return ds.users.UpdateUserRating(ctx, id, rating, ratingCount)
}

// ToggleActive flips the presence flag, appends the ledger row and
// broadcasts the online/offline message to admins.
func (ds *DriverService) ToggleActive(ctx context.Context, id uuid.UUID, rawIsActive string) (*models.User, error) {
	isActive, err := strconv.Atoi(rawIsActive)
	if err != nil || (isActive != 0 && isActive != 1) {
		return nil, apperrors.NewValidation("is_active", "must be 0 or 1")
	}

	user, err := ds.users.SetUserActive(ctx, id, isActive)
	if err != nil {
		return nil, err
	}

	event := &models.PresenceEvent{
		DriverID:   user.ID.String(),
		IsActive:   isActive,
		ChangedAt:  time.Now(),
		CarDetails: user.CarName,
	}
	if err := ds.presence.AppendPresence(ctx, event); err != nil {
		return nil, fmt.Errorf("record presence change: %w", err)
	}

	ds.notifier.DriverPresenceChanged(ctx, user, isActive)
	return user, nil
}

type OnlineStatsReport struct {
	DriverID            string                  `json:"driver_id"`
	Period              string                  `json:"period"`
	LogCount            int                     `json:"log_count"`
	TotalMinutesOnline  int64                   `json:"total_minutes_online"`
	FormattedTimeOnline string                  `json:"formatted_time_online"`
	Logs                []*models.PresenceEvent `json:"logs"`
}

// OnlineStats reconstructs the driver's total online time for the
// calendar period containing now (default week).
func (ds *DriverService) OnlineStats(ctx context.Context, driverID uuid.UUID, period string) (*OnlineStatsReport, error) {
	if period != PeriodDay && period != PeriodWeek && period != PeriodMonth {
		period = PeriodWeek
	}

	from, to := PeriodBounds(time.Now(), period)
	logs, err := ds.presence.ListPresence(ctx, driverID.String(), from, to)
	if err != nil {
		return nil, err
	}

	totalSeconds := TotalOnlineSeconds(logs)
	totalMinutes := totalSeconds / 60
	hours := totalMinutes / 60
	minutes := totalMinutes % 60

	return &OnlineStatsReport{
		DriverID:            driverID.String(),
		Period:              period,
		LogCount:            len(logs),
		TotalMinutesOnline:  totalMinutes,
		FormattedTimeOnline: fmt.Sprintf("%02d:%02d", hours, minutes),
		Logs:                logs,
	}, nil
}

// TotalOnlineSeconds walks adjacent event pairs in timestamp order and
// accumulates the span of each online->offline pair. Duplicate states,
// offline->online pairs and malformed sequences contribute nothing; a
// trailing online event without a matching offline event inside the
// period also counts zero.
func TotalOnlineSeconds(logs []*models.PresenceEvent) int64 {
	var total int64
	for i := 0; i < len(logs)-1; i++ {
		current, next := logs[i], logs[i+1]
		if current.IsActive == 1 && next.IsActive == 0 {
			online := int64(next.ChangedAt.Sub(current.ChangedAt) / time.Second)
			if online > 0 {
				total += online
			}
		}
	}
	return total
}
