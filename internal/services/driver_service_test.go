package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/konvff/taxi-api/internal/apperrors"
	"github.com/konvff/taxi-api/internal/models"
)

type fakePresenceRepo struct {
	events []*models.PresenceEvent
}

func (f *fakePresenceRepo) AppendPresence(ctx context.Context, ev *models.PresenceEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePresenceRepo) ListPresence(ctx context.Context, driverID string, from, to time.Time) ([]*models.PresenceEvent, error) {
	out := []*models.PresenceEvent{}
	for _, ev := range f.events {
		if ev.DriverID != driverID {
			continue
		}
		if ev.ChangedAt.Before(from) || ev.ChangedAt.After(to) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func presenceAt(t time.Time, isActive int) *models.PresenceEvent {
	return &models.PresenceEvent{IsActive: isActive, ChangedAt: t}
}

func TestTotalOnlineSeconds(t *testing.T) {
	base := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)

	// One clean online->offline pair.
	logs := []*models.PresenceEvent{
		presenceAt(base, 1),
		presenceAt(base.Add(10*time.Minute), 0),
	}
	if got := TotalOnlineSeconds(logs); got != 600 {
		t.Errorf("expected 600 seconds, got %d", got)
	}

	// A trailing online event without a matching offline counts zero.
	logs = append(logs, presenceAt(base.Add(20*time.Minute), 1))
	if got := TotalOnlineSeconds(logs); got != 600 {
		t.Errorf("trailing online event should not add time, got %d", got)
	}

	// Duplicate online events only pay for the last before the offline.
	logs = []*models.PresenceEvent{
		presenceAt(base, 1),
		presenceAt(base.Add(2*time.Minute), 1),
		presenceAt(base.Add(5*time.Minute), 0),
	}
	if got := TotalOnlineSeconds(logs); got != 180 {
		t.Errorf("expected 180 seconds for adjacent pair, got %d", got)
	}

	// Offline->online pairs and empty input contribute nothing.
	logs = []*models.PresenceEvent{
		presenceAt(base, 0),
		presenceAt(base.Add(30*time.Minute), 1),
	}
	if got := TotalOnlineSeconds(logs); got != 0 {
		t.Errorf("offline->online pair should count zero, got %d", got)
	}
	if got := TotalOnlineSeconds(nil); got != 0 {
		t.Errorf("empty ledger should count zero, got %d", got)
	}

	// A pair whose timestamps run backwards is clamped, not negative.
	logs = []*models.PresenceEvent{
		presenceAt(base.Add(time.Hour), 1),
		presenceAt(base, 0),
	}
	if got := TotalOnlineSeconds(logs); got != 0 {
		t.Errorf("backwards pair should count zero, got %d", got)
	}
}

func TestOnlineStatsFormatting(t *testing.T) {
	driver := &models.User{Name: "Kojo", Role: models.RoleDriver, CarName: "Corolla"}
	users := newFakeUserRepo(driver)
	presence := &fakePresenceRepo{}
	svc := NewDriverService(users, presence, &fakeNotifier{}, testLogger())

	// Anchor inside today so the day window always contains the pair.
	noon := startOfDay(time.Now()).Add(12 * time.Hour)
	presence.events = []*models.PresenceEvent{
		{DriverID: driver.ID.String(), IsActive: 1, ChangedAt: noon},
		{DriverID: driver.ID.String(), IsActive: 0, ChangedAt: noon.Add(70 * time.Minute)},
	}

	stats, err := svc.OnlineStats(context.Background(), driver.ID, "day")
	if err != nil {
		t.Fatalf("OnlineStats failed: %v", err)
	}
	if stats.TotalMinutesOnline != 70 {
		t.Errorf("expected 70 minutes, got %d", stats.TotalMinutesOnline)
	}
	if stats.FormattedTimeOnline != "01:10" {
		t.Errorf("expected formatted 01:10, got %q", stats.FormattedTimeOnline)
	}
	if stats.LogCount != 2 {
		t.Errorf("expected 2 logs, got %d", stats.LogCount)
	}
}

func TestOnlineStatsDefaultsToWeek(t *testing.T) {
	driver := &models.User{Name: "Kojo", Role: models.RoleDriver}
	svc := NewDriverService(newFakeUserRepo(driver), &fakePresenceRepo{}, &fakeNotifier{}, testLogger())

	stats, err := svc.OnlineStats(context.Background(), driver.ID, "fortnight")
	if err != nil {
		t.Fatalf("OnlineStats failed: %v", err)
	}
	if stats.Period != PeriodWeek {
		t.Errorf("invalid period should fall back to week, got %q", stats.Period)
	}
}

func TestPeriodBounds(t *testing.T) {
	// A Wednesday.
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

	from, to := PeriodBounds(now, PeriodDay)
	if from.Day() != 26 || from.Hour() != 0 {
		t.Errorf("day window should start at midnight, got %v", from)
	}
	if to.Day() != 26 || to.Hour() != 23 {
		t.Errorf("day window should end same day, got %v", to)
	}

	from, to = PeriodBounds(now, PeriodWeek)
	if from.Weekday() != time.Monday {
		t.Errorf("week window should anchor on Monday, got %v", from.Weekday())
	}
	if from.Day() != 24 || to.Day() != 30 {
		t.Errorf("expected Aug 24..30, got %v..%v", from, to)
	}

	from, to = PeriodBounds(now, PeriodMonth)
	if from.Day() != 1 || to.Day() != 31 {
		t.Errorf("expected Aug 1..31, got %v..%v", from, to)
	}

	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	from, _ = PeriodBounds(sunday, PeriodWeek)
	if from.Day() != 24 {
		t.Errorf("Sunday should map to the Monday 24th window, got %v", from)
	}
}

func TestUpdateRatingValidation(t *testing.T) {
	driver := &models.User{Name: "Kojo", Role: models.RoleDriver}
	users := newFakeUserRepo(driver)
	svc := NewDriverService(users, &fakePresenceRepo{}, &fakeNotifier{}, testLogger())
	ctx := context.Background()

	if _, err := svc.UpdateRating(ctx, driver.ID, 4.5, 10); err != nil {
		t.Errorf("4.5 should be accepted: %v", err)
	}
	if _, err := svc.UpdateRating(ctx, driver.ID, 5, 10); err != nil {
		t.Errorf("whole numbers should be accepted: %v", err)
	}
	if _, err := svc.UpdateRating(ctx, driver.ID, 5.25, 10); !apperrors.IsValidation(err) {
		t.Errorf("5.25 should be rejected, got %v", err)
	}
	if _, err := svc.UpdateRating(ctx, driver.ID, 5.5, 10); !apperrors.IsValidation(err) {
		t.Errorf("ratings above 5 should be rejected, got %v", err)
	}
	if _, err := svc.UpdateRating(ctx, driver.ID, -0.5, 10); !apperrors.IsValidation(err) {
		t.Errorf("negative ratings should be rejected, got %v", err)
	}
	if _, err := svc.UpdateRating(ctx, driver.ID, 4, -1); !apperrors.IsValidation(err) {
		t.Errorf("negative rating count should be rejected, got %v", err)
	}
}

func TestToggleActiveAppendsLedgerAndNotifies(t *testing.T) {
	driver := &models.User{Name: "Kojo", Role: models.RoleDriver, CarName: "Corolla"}
	users := newFakeUserRepo(driver)
	presence := &fakePresenceRepo{}
	notifier := &fakeNotifier{}
	svc := NewDriverService(users, presence, notifier, testLogger())
	ctx := context.Background()

	user, err := svc.ToggleActive(ctx, driver.ID, "1")
	if err != nil {
		t.Fatalf("ToggleActive failed: %v", err)
	}
	if user.IsActive != 1 {
		t.Errorf("expected is_active 1, got %d", user.IsActive)
	}
	if len(presence.events) != 1 {
		t.Fatalf("expected one ledger event, got %d", len(presence.events))
	}
	ev := presence.events[0]
	if ev.DriverID != driver.ID.String() || ev.IsActive != 1 || ev.CarDetails != "Corolla" {
		t.Errorf("unexpected ledger event %+v", ev)
	}
	if len(notifier.presenceCalls) != 1 || notifier.presenceCalls[0] != 1 {
		t.Errorf("expected one online notification, got %v", notifier.presenceCalls)
	}

	if _, err := svc.ToggleActive(ctx, driver.ID, "2"); !apperrors.IsValidation(err) {
		t.Errorf("is_active must be 0 or 1, got %v", err)
	}
	if _, err := svc.ToggleActive(ctx, driver.ID, "yes"); !apperrors.IsValidation(err) {
		t.Errorf("non-numeric is_active should be rejected, got %v", err)
	}
}

func TestUpdateUserStatusBroadcast(t *testing.T) {
	driver := &models.User{Name: "Kojo", Role: models.RoleDriver}
	users := newFakeUserRepo(driver)
	notifier := &fakeNotifier{}
	svc := NewDriverService(users, &fakePresenceRepo{}, notifier, testLogger())
	ctx := context.Background()

	if _, err := svc.UpdateUserStatus(ctx, driver.ID, "1"); err != nil {
		t.Fatalf("UpdateUserStatus failed: %v", err)
	}
	if len(notifier.userStatus) != 0 {
		t.Errorf("status 1 should not broadcast")
	}

	if _, err := svc.UpdateUserStatus(ctx, driver.ID, "3"); err != nil {
		t.Fatalf("UpdateUserStatus failed: %v", err)
	}
	if len(notifier.userStatus) != 1 || notifier.userStatus[0] != 3 {
		t.Errorf("expected one broadcast for status 3, got %v", notifier.userStatus)
	}

	if _, err := svc.UpdateUserStatus(ctx, driver.ID, "soon"); !apperrors.IsValidation(err) {
		t.Errorf("non-integer status should be rejected, got %v", err)
	}

	if _, err := svc.UpdateUserStatus(ctx, uuid.New(), "2"); !apperrors.IsNotFound(err) {
		t.Errorf("unknown user should be not found, got %v", err)
	}
}
