package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/konvff/taxi-api/internal/apperrors"
	"github.com/konvff/taxi-api/internal/models"
)

// In-memory repositories so the services can be exercised without a
// database.

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*models.Booking
	sumCalls []models.RevenueFilter
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*models.Booking{}}
}

func (f *fakeBookingRepo) CreateBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.bookings[b.ID] = b
	return b, nil
}

func (f *fakeBookingRepo) GetBookingByID(ctx context.Context, id uuid.UUID, withTrashed bool) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking")
	}
	if b.IsTrashed() && !withTrashed {
		return nil, apperrors.NotFound("booking")
	}
	return b, nil
}

func (f *fakeBookingRepo) ListBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	out := []*models.Booking{}
	for _, b := range f.bookings {
		if b.IsTrashed() && !filter.IncludeTrashed {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.DriverID != nil && (b.DriverID == nil || *b.DriverID != *filter.DriverID) {
			continue
		}
		if filter.CustomerID != nil && (b.CustomerID == nil || *b.CustomerID != *filter.CustomerID) {
			continue
		}
		ts := b.CreatedAt
		if filter.DateColumn == models.DateColumnUpdated {
			ts = b.UpdatedAt
		}
		if filter.From != nil && ts.Before(*filter.From) {
			continue
		}
		if filter.To != nil && ts.After(*filter.To) {
			continue
		}
		if filter.BookingDate != nil {
			if b.BookingDate == nil || !sameDay(*b.BookingDate, *filter.BookingDate) {
				continue
			}
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateBooking(ctx context.Context, id uuid.UUID, b *models.Booking) (*models.Booking, error) {
	existing, err := f.GetBookingByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	b.ID = existing.ID
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now()
	f.bookings[id] = b
	return b, nil
}

func (f *fakeBookingRepo) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status int) (*models.Booking, error) {
	b, err := f.GetBookingByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return b, nil
}

func (f *fakeBookingRepo) AssignBookingDriver(ctx context.Context, id, driverID uuid.UUID, notes string, date *time.Time) (*models.Booking, error) {
	b, err := f.GetBookingByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	b.DriverID = &driverID
	b.Notes = notes
	b.BookingDate = date
	b.UpdatedAt = time.Now()
	return b, nil
}

func (f *fakeBookingRepo) AssignBookingCustomer(ctx context.Context, id, customerID uuid.UUID, notes string, date *time.Time) (*models.Booking, error) {
	b, err := f.GetBookingByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	b.CustomerID = &customerID
	b.Notes = notes
	b.BookingDate = date
	b.UpdatedAt = time.Now()
	return b, nil
}

func (f *fakeBookingRepo) UpdateBookingDate(ctx context.Context, id uuid.UUID, date time.Time) (*models.Booking, error) {
	b, err := f.GetBookingByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	b.BookingDate = &date
	b.UpdatedAt = time.Now()
	return b, nil
}

func (f *fakeBookingRepo) SoftDeleteBooking(ctx context.Context, id uuid.UUID) error {
	b, ok := f.bookings[id]
	if !ok || b.IsTrashed() {
		return apperrors.NotFound("booking")
	}
	now := time.Now()
	b.DeletedAt = &now
	return nil
}

func (f *fakeBookingRepo) RestoreBooking(ctx context.Context, id uuid.UUID) error {
	b, ok := f.bookings[id]
	if !ok || !b.IsTrashed() {
		return apperrors.NotFound("booking")
	}
	b.DeletedAt = nil
	return nil
}

func (f *fakeBookingRepo) ForceDeleteBooking(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.bookings[id]; !ok {
		return apperrors.NotFound("booking")
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingRepo) SumBookingAmount(ctx context.Context, filter models.RevenueFilter) (float64, error) {
	f.sumCalls = append(f.sumCalls, filter)
	var total float64
	for _, b := range f.bookings {
		if b.IsTrashed() || b.Status != filter.Status {
			continue
		}
		if filter.DriverID != nil && (b.DriverID == nil || *b.DriverID != *filter.DriverID) {
			continue
		}
		if filter.ExactDate != nil && !sameDay(b.UpdatedAt, *filter.ExactDate) {
			continue
		}
		if filter.From != nil && b.UpdatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && b.UpdatedAt.After(*filter.To) {
			continue
		}
		total += b.Amount
	}
	return total, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	out := []*models.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, id uuid.UUID, upd *models.UserUpdate) (*models.User, error) {
	u, err := f.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	return u, nil
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.NotFound("user")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) UpdateUserStatus(ctx context.Context, id uuid.UUID, status int) (*models.User, error) {
	u, err := f.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Status = status
	return u, nil
}

func (f *fakeUserRepo) UpdateUserRating(ctx context.Context, id uuid.UUID, rating float64, ratingCount int) (*models.User, error) {
	u, err := f.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Rating = rating
	u.RatingCount = ratingCount
	return u, nil
}

func (f *fakeUserRepo) SetUserActive(ctx context.Context, id uuid.UUID, isActive int) (*models.User, error) {
	u, err := f.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsActive = isActive
	return u, nil
}

func (f *fakeUserRepo) SetFCMToken(ctx context.Context, id uuid.UUID, token string) error {
	u, err := f.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	u.FCMToken = &token
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	u, err := f.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeUserRepo) FirstAdmin(ctx context.Context) (*models.User, error) {
	for _, u := range f.users {
		if u.Role == models.RoleAdmin {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (f *fakeUserRepo) AdminsWithToken(ctx context.Context) ([]*models.User, error) {
	out := []*models.User{}
	for _, u := range f.users {
		if u.Role == models.RoleAdmin && u.HasFCMToken() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) SavePasswordReset(ctx context.Context, email, code string) error { return nil }

func (f *fakeUserRepo) CheckPasswordReset(ctx context.Context, email, code string) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) DeletePasswordReset(ctx context.Context, email string) error { return nil }

type statusCall struct {
	actor     *models.User
	bookingID uuid.UUID
	status    int
}

type fakeNotifier struct {
	statusCalls   []statusCall
	assignCalls   []uuid.UUID
	presenceCalls []int
	userStatus    []int
}

func (f *fakeNotifier) BookingStatusChanged(ctx context.Context, actor *models.User, bookingID uuid.UUID, status int) {
	f.statusCalls = append(f.statusCalls, statusCall{actor: actor, bookingID: bookingID, status: status})
}

func (f *fakeNotifier) BookingAssigned(ctx context.Context, assignee *models.User, bookingID uuid.UUID) {
	f.assignCalls = append(f.assignCalls, bookingID)
}

func (f *fakeNotifier) DriverPresenceChanged(ctx context.Context, driver *models.User, isActive int) {
	f.presenceCalls = append(f.presenceCalls, isActive)
}

func (f *fakeNotifier) UserStatusChanged(ctx context.Context, user *models.User, status int) {
	f.userStatus = append(f.userStatus, status)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedBooking(repo *fakeBookingRepo) *models.Booking {
	b := &models.Booking{
		Name:           "Ama Mensah",
		Phone:          "0244000000",
		PickupLocation: "Accra Mall",
		Destination:    "Kotoka Airport",
		Amount:         50,
	}
	_, _ = repo.CreateBooking(context.Background(), b)
	return b
}

func TestCreateBookingForcesUnassignedStatus(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(repo, newFakeUserRepo(), &fakeNotifier{}, testLogger())

	created, err := svc.CreateBooking(context.Background(), &models.Booking{
		Name:           "Kofi",
		Phone:          "0200000000",
		PickupLocation: "Osu",
		Destination:    "Tema",
		Status:         models.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if created.Status != models.StatusUnassigned {
		t.Errorf("expected status %d, got %d", models.StatusUnassigned, created.Status)
	}
}

func TestCreateBookingRejectsUnknownCustomer(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(repo, newFakeUserRepo(), &fakeNotifier{}, testLogger())

	missing := uuid.New()
	_, err := svc.CreateBooking(context.Background(), &models.Booking{
		Name:           "Kofi",
		Phone:          "0200000000",
		PickupLocation: "Osu",
		Destination:    "Tema",
		CustomerID:     &missing,
	})
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusRejectsNonInteger(t *testing.T) {
	repo := newFakeBookingRepo()
	b := seedBooking(repo)
	svc := NewBookingService(repo, newFakeUserRepo(), &fakeNotifier{}, testLogger())

	_, err := svc.UpdateStatus(context.Background(), b.ID, "abc", uuid.New())
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusMissingBooking(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo(), newFakeUserRepo(), &fakeNotifier{}, testLogger())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "2", uuid.New())
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusBroadcastsOnlyOnGoingAndCompleted(t *testing.T) {
	repo := newFakeBookingRepo()
	b := seedBooking(repo)
	driver := &models.User{Name: "Kwame", Role: models.RoleDriver}
	users := newFakeUserRepo(driver)
	notifier := &fakeNotifier{}
	svc := NewBookingService(repo, users, notifier, testLogger())

	if _, err := svc.UpdateStatus(context.Background(), b.ID, "1", driver.ID); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if len(notifier.statusCalls) != 0 {
		t.Fatalf("status 1 should not broadcast, got %d calls", len(notifier.statusCalls))
	}

	if _, err := svc.UpdateStatus(context.Background(), b.ID, "2", driver.ID); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if len(notifier.statusCalls) != 1 {
		t.Fatalf("status 2 should broadcast once, got %d calls", len(notifier.statusCalls))
	}
	call := notifier.statusCalls[0]
	if call.status != models.StatusOnGoing || call.bookingID != b.ID {
		t.Errorf("unexpected broadcast %+v", call)
	}
	if call.actor == nil || call.actor.Name != "Kwame" {
		t.Errorf("expected acting driver Kwame, got %+v", call.actor)
	}
}

func TestUpdateStatusBroadcastsWithUnresolvedActor(t *testing.T) {
	repo := newFakeBookingRepo()
	b := seedBooking(repo)
	notifier := &fakeNotifier{}
	svc := NewBookingService(repo, newFakeUserRepo(), notifier, testLogger())

	// Unknown actor: the transition still commits and broadcasts.
	if _, err := svc.UpdateStatus(context.Background(), b.ID, "3", uuid.New()); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if len(notifier.statusCalls) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(notifier.statusCalls))
	}
	if notifier.statusCalls[0].actor != nil {
		t.Errorf("expected nil actor, got %+v", notifier.statusCalls[0].actor)
	}
}

func TestUpdateStatusAcceptsArbitraryInteger(t *testing.T) {
	repo := newFakeBookingRepo()
	b := seedBooking(repo)
	notifier := &fakeNotifier{}
	svc := NewBookingService(repo, newFakeUserRepo(), notifier, testLogger())

	updated, err := svc.UpdateStatus(context.Background(), b.ID, "7", uuid.New())
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != 7 {
		t.Errorf("expected status 7 persisted, got %d", updated.Status)
	}
	if len(notifier.statusCalls) != 0 {
		t.Errorf("status 7 should not broadcast")
	}
}

func TestAssignDriverFreshAndReassigned(t *testing.T) {
	repo := newFakeBookingRepo()
	b := seedBooking(repo)
	first := &models.User{Name: "Yaw", Role: models.RoleDriver}
	second := &models.User{Name: "Esi", Role: models.RoleDriver}
	users := newFakeUserRepo(first, second)
	notifier := &fakeNotifier{}
	svc := NewBookingService(repo, users, notifier, testLogger())

	updated, message, err := svc.AssignDriver(context.Background(), b.ID, first.ID, "meet at gate", nil)
	if err != nil {
		t.Fatalf("AssignDriver failed: %v", err)
	}
	if message != "Driver assigned successfully" {
		t.Errorf("unexpected message %q", message)
	}
	if updated.Driver == nil || updated.Driver.ID != first.ID {
		t.Errorf("expected driver expanded on booking")
	}

	_, message, err = svc.AssignDriver(context.Background(), b.ID, second.ID, "", nil)
	if err != nil {
		t.Fatalf("AssignDriver failed: %v", err)
	}
	if !strings.Contains(message, "reassigned successfully from Driver ID: "+first.ID.String()) {
		t.Errorf("expected reassignment message naming previous driver, got %q", message)
	}

	// Assigning the current driver again still reads as a reassignment.
	_, message, err = svc.AssignDriver(context.Background(), b.ID, second.ID, "", nil)
	if err != nil {
		t.Fatalf("AssignDriver failed: %v", err)
	}
	if !strings.Contains(message, "reassigned successfully from Driver ID: "+second.ID.String()) {
		t.Errorf("expected self-reassignment message, got %q", message)
	}

	if len(notifier.assignCalls) != 3 {
		t.Errorf("expected 3 assignment notifications, got %d", len(notifier.assignCalls))
	}
}

func TestAssignDriverUnknownUser(t *testing.T) {
	repo := newFakeBookingRepo()
	b := seedBooking(repo)
	svc := NewBookingService(repo, newFakeUserRepo(), &fakeNotifier{}, testLogger())

	_, _, err := svc.AssignDriver(context.Background(), b.ID, uuid.New(), "", nil)
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssignDriverMissingBooking(t *testing.T) {
	driver := &models.User{Name: "Yaw", Role: models.RoleDriver}
	svc := NewBookingService(newFakeBookingRepo(), newFakeUserRepo(driver), &fakeNotifier{}, testLogger())

	_, _, err := svc.AssignDriver(context.Background(), uuid.New(), driver.ID, "", nil)
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSoftDeleteRestoreForceDelete(t *testing.T) {
	repo := newFakeBookingRepo()
	b := seedBooking(repo)
	svc := NewBookingService(repo, newFakeUserRepo(), &fakeNotifier{}, testLogger())
	ctx := context.Background()

	if err := svc.SoftDeleteBooking(ctx, b.ID); err != nil {
		t.Fatalf("SoftDeleteBooking failed: %v", err)
	}

	// Default scope no longer sees it; trashed scope does.
	if _, err := svc.GetBooking(ctx, b.ID, false); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found after soft delete, got %v", err)
	}
	if _, err := svc.GetBooking(ctx, b.ID, true); err != nil {
		t.Errorf("trashed scope should still find the booking: %v", err)
	}

	// Deleting again is a no-op on an already trashed row.
	if err := svc.SoftDeleteBooking(ctx, b.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found on double soft delete, got %v", err)
	}

	if err := svc.RestoreBooking(ctx, b.ID); err != nil {
		t.Fatalf("RestoreBooking failed: %v", err)
	}
	if _, err := svc.GetBooking(ctx, b.ID, false); err != nil {
		t.Errorf("restored booking should be visible: %v", err)
	}

	// Restore only applies to trashed rows.
	if err := svc.RestoreBooking(ctx, b.ID); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found restoring a live booking, got %v", err)
	}

	if err := svc.ForceDeleteBooking(ctx, b.ID); err != nil {
		t.Fatalf("ForceDeleteBooking failed: %v", err)
	}
	if _, err := svc.GetBooking(ctx, b.ID, true); !apperrors.IsNotFound(err) {
		t.Errorf("force deleted booking should be gone, got %v", err)
	}
}

func TestUpdateBookingDateMessage(t *testing.T) {
	repo := newFakeBookingRepo()
	b := seedBooking(repo)
	svc := NewBookingService(repo, newFakeUserRepo(), &fakeNotifier{}, testLogger())

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	_, message, err := svc.UpdateBookingDate(context.Background(), b.ID, date)
	if err != nil {
		t.Fatalf("UpdateBookingDate failed: %v", err)
	}
	if message != "Booking date updated successfully from none to 2026-09-12" {
		t.Errorf("unexpected message %q", message)
	}

	next := date.AddDate(0, 0, 3)
	_, message, err = svc.UpdateBookingDate(context.Background(), b.ID, next)
	if err != nil {
		t.Fatalf("UpdateBookingDate failed: %v", err)
	}
	if message != "Booking date updated successfully from 2026-09-12 to 2026-09-15" {
		t.Errorf("unexpected message %q", message)
	}
}

func TestDriverBookingsFiltersByDriver(t *testing.T) {
	repo := newFakeBookingRepo()
	driverID := uuid.New()
	other := uuid.New()

	mine := seedBooking(repo)
	mine.DriverID = &driverID
	theirs := seedBooking(repo)
	theirs.DriverID = &other

	svc := NewBookingService(repo, newFakeUserRepo(), &fakeNotifier{}, testLogger())
	bookings, err := svc.DriverBookings(context.Background(), driverID, nil, nil)
	if err != nil {
		t.Fatalf("DriverBookings failed: %v", err)
	}
	if len(bookings) != 1 || bookings[0].ID != mine.ID {
		t.Errorf("expected only the driver's booking, got %d", len(bookings))
	}
}
