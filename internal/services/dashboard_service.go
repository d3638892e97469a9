package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/konvff/taxi-api/internal/models"
)

type DashboardService struct {
	bookings models.BookingRepo
}

func NewDashboardService(bookings models.BookingRepo) *DashboardService {
	return &DashboardService{bookings: bookings}
}

type RevenueBucket struct {
	Bookings []*models.Booking `json:"bookings"`
	Revenue  float64           `json:"revenue"`
}

type BookingBucket struct {
	Bookings []*models.Booking `json:"bookings"`
}

// RevenueReport is the dashboard payload: ongoing/unassigned/completed
// buckets plus total, filtered, previous-month and current-month
// revenue. Date windows apply against updated_at.
type RevenueReport struct {
	UserID               *uuid.UUID    `json:"user_id,omitempty"`
	FilterApplied        bool          `json:"filter_applied"`
	StartDate            string        `json:"start_date"`
	EndDate              string        `json:"end_date"`
	OnGoing              RevenueBucket `json:"onGoing"`
	UnAssign             BookingBucket `json:"UnAssign"`
	Completed            RevenueBucket `json:"completed"`
	TotalRevenue         float64       `json:"total_revenue"`
	FilterRevenue        float64       `json:"filter_revenue"`
	PreviousMonthRevenue float64       `json:"previous_month_revenue"`
	CurrentMonthRevenue  float64       `json:"current_month_revenue"`
}

// Revenue builds the report; driverID nil means platform-wide.
func (ds *DashboardService) Revenue(ctx context.Context, driverID *uuid.UUID, start, end *time.Time) (*RevenueReport, error) {
	now := time.Now()
	filtered := start != nil && end != nil

	statusFilter := func(status int, windowed bool) models.BookingFilter {
		f := models.BookingFilter{
			Status:     &status,
			DriverID:   driverID,
			DateColumn: models.DateColumnUpdated,
		}
		if windowed && filtered {
			f.From = start
			f.To = end
		}
		return f
	}

	ongoing, err := ds.bookings.ListBookings(ctx, statusFilter(models.StatusOnGoing, true))
	if err != nil {
		return nil, err
	}
	unassigned, err := ds.bookings.ListBookings(ctx, statusFilter(models.StatusUnassigned, false))
	if err != nil {
		return nil, err
	}
	completed, err := ds.bookings.ListBookings(ctx, statusFilter(models.StatusCompleted, true))
	if err != nil {
		return nil, err
	}

	total, err := ds.bookings.SumBookingAmount(ctx, models.RevenueFilter{
		Status:   models.StatusCompleted,
		DriverID: driverID,
	})
	if err != nil {
		return nil, err
	}

	// Single-day windows (start == end) use exact-date matching; wider
	// windows use the inclusive range.
	var filterRevenue float64
	if filtered {
		rf := models.RevenueFilter{Status: models.StatusCompleted, DriverID: driverID}
		if sameDay(*start, *end) {
			rf.ExactDate = start
		} else {
			rf.From = start
			rf.To = end
		}
		if filterRevenue, err = ds.bookings.SumBookingAmount(ctx, rf); err != nil {
			return nil, err
		}
	}

	prevStart := startOfMonth(now).AddDate(0, -1, 0)
	prevEnd := endOfMonth(prevStart)
	previousMonth, err := ds.bookings.SumBookingAmount(ctx, models.RevenueFilter{
		Status:   models.StatusCompleted,
		DriverID: driverID,
		From:     &prevStart,
		To:       &prevEnd,
	})
	if err != nil {
		return nil, err
	}

	curStart := startOfMonth(now)
	curEnd := endOfMonth(now)
	currentMonth, err := ds.bookings.SumBookingAmount(ctx, models.RevenueFilter{
		Status:   models.StatusCompleted,
		DriverID: driverID,
		From:     &curStart,
		To:       &curEnd,
	})
	if err != nil {
		return nil, err
	}

	report := &RevenueReport{
		UserID:               driverID,
		FilterApplied:        filtered,
		StartDate:            formatWindowDate(start),
		EndDate:              formatWindowDate(end),
		OnGoing:              RevenueBucket{Bookings: ongoing, Revenue: sumAmounts(ongoing)},
		UnAssign:             BookingBucket{Bookings: unassigned},
		Completed:            RevenueBucket{Bookings: completed, Revenue: sumAmounts(completed)},
		TotalRevenue:         total,
		FilterRevenue:        filterRevenue,
		PreviousMonthRevenue: previousMonth,
		CurrentMonthRevenue:  currentMonth,
	}
	return report, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func sumAmounts(bookings []*models.Booking) float64 {
	var total float64
	for _, b := range bookings {
		total += b.Amount
	}
	return total
}

func formatWindowDate(t *time.Time) string {
	if t == nil {
		return "All Data"
	}
	return t.Format("2006-01-02")
}
