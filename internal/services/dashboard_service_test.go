package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/konvff/taxi-api/internal/models"
)

func seedCompletedBooking(repo *fakeBookingRepo, amount float64, updatedAt time.Time, driverID *uuid.UUID) *models.Booking {
	b := &models.Booking{
		ID:             uuid.New(),
		Name:           "fare",
		Phone:          "020",
		PickupLocation: "A",
		Destination:    "B",
		Amount:         amount,
		Status:         models.StatusCompleted,
		DriverID:       driverID,
		CreatedAt:      updatedAt,
		UpdatedAt:      updatedAt,
	}
	repo.bookings[b.ID] = b
	return b
}

func TestRevenueBucketsAndTotals(t *testing.T) {
	repo := newFakeBookingRepo()
	now := time.Now()

	seedCompletedBooking(repo, 100, now, nil)
	seedCompletedBooking(repo, 50, now, nil)

	ongoing := seedBooking(repo)
	ongoing.Status = models.StatusOnGoing
	ongoing.Amount = 30

	unassigned := seedBooking(repo)
	unassigned.Status = models.StatusUnassigned

	svc := NewDashboardService(repo)
	report, err := svc.Revenue(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("Revenue failed: %v", err)
	}

	if report.FilterApplied {
		t.Errorf("no window given, filter_applied should be false")
	}
	if report.StartDate != "All Data" || report.EndDate != "All Data" {
		t.Errorf("expected All Data bounds, got %q..%q", report.StartDate, report.EndDate)
	}
	if len(report.Completed.Bookings) != 2 || report.Completed.Revenue != 150 {
		t.Errorf("completed bucket wrong: %d bookings, revenue %v",
			len(report.Completed.Bookings), report.Completed.Revenue)
	}
	if len(report.OnGoing.Bookings) != 1 || report.OnGoing.Revenue != 30 {
		t.Errorf("ongoing bucket wrong: %d bookings, revenue %v",
			len(report.OnGoing.Bookings), report.OnGoing.Revenue)
	}
	if len(report.UnAssign.Bookings) != 1 {
		t.Errorf("expected 1 unassigned booking, got %d", len(report.UnAssign.Bookings))
	}
	if report.TotalRevenue != 150 {
		t.Errorf("expected total revenue 150, got %v", report.TotalRevenue)
	}
	if report.FilterRevenue != 0 {
		t.Errorf("no window given, filter revenue should be 0, got %v", report.FilterRevenue)
	}
}

func TestRevenueSingleDayUsesExactDate(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewDashboardService(repo)

	// The handler widens the end to the last nanosecond of the day, so
	// a single-day window arrives as [00:00, 23:59:59.999999999].
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	if _, err := svc.Revenue(context.Background(), nil, &start, &end); err != nil {
		t.Fatalf("Revenue failed: %v", err)
	}

	var sawExact bool
	for _, call := range repo.sumCalls {
		if call.ExactDate != nil {
			sawExact = true
			if !sameDay(*call.ExactDate, start) {
				t.Errorf("exact date should be the window day, got %v", *call.ExactDate)
			}
			if call.From != nil || call.To != nil {
				t.Errorf("exact-date call should not also carry a range")
			}
		}
	}
	if !sawExact {
		t.Errorf("single-day window should use exact-date revenue semantics")
	}
}

func TestRevenueRangeUsesWindow(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewDashboardService(repo)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)

	report, err := svc.Revenue(context.Background(), nil, &start, &end)
	if err != nil {
		t.Fatalf("Revenue failed: %v", err)
	}
	if !report.FilterApplied {
		t.Errorf("window given, filter_applied should be true")
	}
	if report.StartDate != "2026-03-01" || report.EndDate != "2026-03-15" {
		t.Errorf("unexpected bounds %q..%q", report.StartDate, report.EndDate)
	}

	for _, call := range repo.sumCalls {
		if call.ExactDate != nil {
			t.Errorf("multi-day window should never use exact-date semantics")
		}
	}
}

func TestRevenueScopedToDriver(t *testing.T) {
	repo := newFakeBookingRepo()
	now := time.Now()
	driverID := uuid.New()
	otherID := uuid.New()

	seedCompletedBooking(repo, 80, now, &driverID)
	seedCompletedBooking(repo, 200, now, &otherID)

	svc := NewDashboardService(repo)
	report, err := svc.Revenue(context.Background(), &driverID, nil, nil)
	if err != nil {
		t.Fatalf("Revenue failed: %v", err)
	}
	if report.TotalRevenue != 80 {
		t.Errorf("expected driver-scoped revenue 80, got %v", report.TotalRevenue)
	}
	if report.UserID == nil || *report.UserID != driverID {
		t.Errorf("report should echo the driver id")
	}
	if len(report.Completed.Bookings) != 1 {
		t.Errorf("completed bucket should hold only the driver's booking, got %d",
			len(report.Completed.Bookings))
	}
}
