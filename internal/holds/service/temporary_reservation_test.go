package service

import (
	"context"
	"testing"
	"time"

	facilityrepo "bookery/internal/facilities/repository"
	holdserrors "bookery/internal/holds/errors"
	"bookery/internal/holds/validator"
	"bookery/pkg/config"
	mongotx "bookery/pkg/db/mongo"
	apperrors "bookery/pkg/errors"
	"bookery/pkg/logger"
	"bookery/pkg/model"
)

const (
	orgID       = "65a0000000000000000000a1"
	userID      = "65a0000000000000000000a2"
	frontdeskID = "65a0000000000000000000a3"
	facilityID  = "65a0000000000000000000b1"
	holdID      = "65a0000000000000000000c1"
)

type mockHoldRepo struct {
	createFn             func(ctx context.Context, hold *model.TemporaryReservation) error
	findByIDFn           func(ctx context.Context, id string) (*model.TemporaryReservation, error)
	findActiveConflictFn func(ctx context.Context, facilityID, facilityTypeName string, start, end, now time.Time) (*model.TemporaryReservation, error)
	updateStatusFn       func(ctx context.Context, id string, status model.HoldStatus) error
	expireAllPendingFn   func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockHoldRepo) Create(ctx context.Context, hold *model.TemporaryReservation) error {
	if m.createFn != nil {
		return m.createFn(ctx, hold)
	}
	return nil
}
func (m *mockHoldRepo) FindByID(ctx context.Context, id string) (*model.TemporaryReservation, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockHoldRepo) FindActiveConflict(ctx context.Context, facilityID, facilityTypeName string, start, end, now time.Time) (*model.TemporaryReservation, error) {
	if m.findActiveConflictFn != nil {
		return m.findActiveConflictFn(ctx, facilityID, facilityTypeName, start, end, now)
	}
	return nil, nil
}
func (m *mockHoldRepo) UpdateStatus(ctx context.Context, id string, status model.HoldStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}
func (m *mockHoldRepo) ExpireAllPending(ctx context.Context, now time.Time) (int64, error) {
	return m.expireAllPendingFn(ctx, now)
}
func (m *mockHoldRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockReservationRepo struct {
	createFn      func(ctx context.Context, r *model.Reservation) error
	findOverlapFn func(ctx context.Context, start, end time.Time) ([]*model.Reservation, error)
}

func (m *mockReservationRepo) Create(ctx context.Context, r *model.Reservation) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	return nil
}
func (m *mockReservationRepo) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	return nil, nil
}
func (m *mockReservationRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error) {
	return nil, nil
}
func (m *mockReservationRepo) Count(ctx context.Context) (int64, error) { return 0, nil }
func (m *mockReservationRepo) FindOverlapping(ctx context.Context, start, end time.Time) ([]*model.Reservation, error) {
	if m.findOverlapFn != nil {
		return m.findOverlapFn(ctx, start, end)
	}
	return nil, nil
}
func (m *mockReservationRepo) AssignFacility(ctx context.Context, id string, facilityID string, start, end time.Time) error {
	return nil
}
func (m *mockReservationRepo) UpdateStatus(ctx context.Context, id string, from, to model.ReservationStatus) error {
	return nil
}
func (m *mockReservationRepo) SetPricingSnapshot(ctx context.Context, id string, quote *model.Quote) error {
	return nil
}
func (m *mockReservationRepo) EnsureIndexes(ctx context.Context) error { return nil }
func (m *mockReservationRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}
func (m *mockReservationRepo) ExecuteTransactionWithTimeout(ctx context.Context, timeout time.Duration, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockFacilityRepo struct {
	findByTypeIDsFn func(ctx context.Context, typeIDs []string) ([]*model.Facility, error)
}

func (m *mockFacilityRepo) Create(ctx context.Context, f *model.Facility) error { return nil }
func (m *mockFacilityRepo) FindByID(ctx context.Context, id string) (*model.Facility, error) {
	return nil, nil
}
func (m *mockFacilityRepo) FindByTypeIDs(ctx context.Context, typeIDs []string) ([]*model.Facility, error) {
	if m.findByTypeIDsFn != nil {
		return m.findByTypeIDsFn(ctx, typeIDs)
	}
	return nil, nil
}
func (m *mockFacilityRepo) FindFirstAvailable(ctx context.Context, typeID string, excludedIDs []string) (*model.Facility, error) {
	return nil, nil
}
func (m *mockFacilityRepo) CountByTypeID(ctx context.Context, typeID string) (int64, error) {
	return 0, nil
}

type mockTypeRepo struct {
	findByNameFn func(ctx context.Context, name string) (*model.FacilityType, error)
}

func (m *mockTypeRepo) Create(ctx context.Context, ft *model.FacilityType) error { return nil }
func (m *mockTypeRepo) FindByID(ctx context.Context, id string) (*model.FacilityType, error) {
	return nil, nil
}
func (m *mockTypeRepo) FindByName(ctx context.Context, name string) (*model.FacilityType, error) {
	if m.findByNameFn != nil {
		return m.findByNameFn(ctx, name)
	}
	return nil, nil
}
func (m *mockTypeRepo) FindCandidates(ctx context.Context, q facilityrepo.TypeQuery) ([]*model.FacilityType, error) {
	return nil, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log:          logger.New(logger.Config{Level: "error", Service: "holds-test"}),
		HoldDuration: 15 * time.Minute,
	}
}

func day(d int) time.Time {
	return time.Date(2026, time.July, d, 0, 0, 0, 0, time.UTC)
}

func newHold() *model.TemporaryReservation {
	return &model.TemporaryReservation{
		FacilityID:      facilityID,
		OrganizationID:  orgID,
		UserID:          userID,
		FrontdeskUserID: frontdeskID,
		StartDate:       day(10),
		EndDate:         day(12),
		Guests:          2,
	}
}

func newTestService(
	holds *mockHoldRepo,
	reservations *mockReservationRepo,
	facilities *mockFacilityRepo,
	types *mockTypeRepo,
	t *testing.T,
) TemporaryReservationService {
	cfg := testConfig(t)
	return NewTemporaryReservationService(
		holds,
		reservations,
		facilities,
		types,
		validator.NewTemporaryReservationValidator(cfg.Log),
		nil,
		cfg,
	)
}

func TestCreateHold_Defaults(t *testing.T) {
	var created *model.TemporaryReservation

	holds := &mockHoldRepo{
		createFn: func(ctx context.Context, hold *model.TemporaryReservation) error {
			created = hold
			return nil
		},
	}

	svc := newTestService(holds, &mockReservationRepo{}, &mockFacilityRepo{}, &mockTypeRepo{}, t)

	before := time.Now().UTC()
	hold := newHold()
	hold.Status = model.HoldConfirmed // must be overwritten

	if err := svc.Create(context.Background(), hold); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("hold never reached the repository")
	}
	if created.Status != model.HoldPending {
		t.Errorf("Status = %s, want PENDING", created.Status)
	}
	if created.SessionID == "" {
		t.Error("SessionID was not defaulted")
	}

	wantExpiry := before.Add(15 * time.Minute)
	if created.ExpiresAt.Before(wantExpiry) || created.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want around %v", created.ExpiresAt, wantExpiry)
	}
}

func TestCreateHold_CompetingHoldWins(t *testing.T) {
	competingExpiry := time.Now().UTC().Add(10 * time.Minute)

	holds := &mockHoldRepo{
		findActiveConflictFn: func(ctx context.Context, facID, typeName string, start, end, now time.Time) (*model.TemporaryReservation, error) {
			return &model.TemporaryReservation{
				ID:              "competing",
				FrontdeskUserID: frontdeskID,
				Status:          model.HoldPending,
				ExpiresAt:       competingExpiry,
			}, nil
		},
	}
	// The competing-hold check runs first; reservations must not be
	// consulted once it fires.
	reservations := &mockReservationRepo{
		findOverlapFn: func(ctx context.Context, start, end time.Time) ([]*model.Reservation, error) {
			t.Fatal("reservation conflict check ran despite a competing hold")
			return nil, nil
		},
	}

	svc := newTestService(holds, reservations, &mockFacilityRepo{}, &mockTypeRepo{}, t)

	err := svc.Create(context.Background(), newHold())
	if err == nil {
		t.Fatal("expected conflict against the competing hold")
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Fatalf("code = %s, want %s", appErr.Code, apperrors.CodeConflict)
	}
	if appErr.Details["held_by"] != frontdeskID {
		t.Errorf("held_by = %v, want %s", appErr.Details["held_by"], frontdeskID)
	}
	if appErr.Details["held_until"] != competingExpiry {
		t.Errorf("held_until = %v, want %v", appErr.Details["held_until"], competingExpiry)
	}
}

func TestCreateHold_FacilityReservationConflict(t *testing.T) {
	reservations := &mockReservationRepo{
		findOverlapFn: func(ctx context.Context, start, end time.Time) ([]*model.Reservation, error) {
			return []*model.Reservation{{ID: "r1", FacilityID: facilityID, Status: model.ReservationReserved}}, nil
		},
	}

	svc := newTestService(&mockHoldRepo{}, reservations, &mockFacilityRepo{}, &mockTypeRepo{}, t)

	err := svc.Create(context.Background(), newHold())
	if err == nil {
		t.Fatal("expected conflict with the existing reservation")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("code = %s, want %s", apperrors.AsAppError(err).Code, apperrors.CodeConflict)
	}
}

func TestCreateHold_TypeCapacityExhausted(t *testing.T) {
	reservations := &mockReservationRepo{
		findOverlapFn: func(ctx context.Context, start, end time.Time) ([]*model.Reservation, error) {
			return []*model.Reservation{
				{ID: "r1", FacilityID: "65a0000000000000000000b2", Status: model.ReservationReserved},
				{ID: "r2", FacilityTypeName: "standard room", Status: model.ReservationCheckedIn},
			}, nil
		},
	}
	facilities := &mockFacilityRepo{
		findByTypeIDsFn: func(ctx context.Context, typeIDs []string) ([]*model.Facility, error) {
			return []*model.Facility{
				{ID: "65a0000000000000000000b2", Name: "101", FacilityTypeID: "type-1"},
				{ID: "65a0000000000000000000b3", Name: "102", FacilityTypeID: "type-1"},
			}, nil
		},
	}
	types := &mockTypeRepo{
		findByNameFn: func(ctx context.Context, name string) (*model.FacilityType, error) {
			return &model.FacilityType{ID: "type-1", Name: name}, nil
		},
	}

	svc := newTestService(&mockHoldRepo{}, reservations, facilities, types, t)

	hold := newHold()
	hold.FacilityID = ""
	hold.FacilityTypeName = "standard room"

	err := svc.Create(context.Background(), hold)
	if err == nil {
		t.Fatal("expected conflict when every unit of the type is blocked")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("code = %s, want %s", apperrors.AsAppError(err).Code, apperrors.CodeConflict)
	}
}

func TestConfirmHold_CreatesReservation(t *testing.T) {
	var createdReservation *model.Reservation
	var statusUpdates []model.HoldStatus

	holds := &mockHoldRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.TemporaryReservation, error) {
			h := newHold()
			h.ID = id
			h.Status = model.HoldPending
			h.ExpiresAt = time.Now().UTC().Add(5 * time.Minute)
			return h, nil
		},
		updateStatusFn: func(ctx context.Context, id string, status model.HoldStatus) error {
			statusUpdates = append(statusUpdates, status)
			return nil
		},
	}
	reservations := &mockReservationRepo{
		createFn: func(ctx context.Context, r *model.Reservation) error {
			createdReservation = r
			return nil
		},
	}

	svc := newTestService(holds, reservations, &mockFacilityRepo{}, &mockTypeRepo{}, t)

	reservation, err := svc.Confirm(context.Background(), holdID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reservation == nil || createdReservation == nil {
		t.Fatal("no reservation was created")
	}
	if reservation.Status != model.ReservationReserved {
		t.Errorf("Status = %s, want RESERVED", reservation.Status)
	}
	if reservation.PaymentStatus != model.PaymentPending {
		t.Errorf("PaymentStatus = %s, want PENDING", reservation.PaymentStatus)
	}
	if reservation.FacilityID != facilityID {
		t.Errorf("FacilityID = %s, want the held facility", reservation.FacilityID)
	}
	if !reservation.ReservationDate.Equal(day(10)) || !reservation.ReservationEnd.Equal(day(12)) {
		t.Error("reservation window does not match the hold window")
	}
	if len(statusUpdates) != 1 || statusUpdates[0] != model.HoldConfirmed {
		t.Errorf("hold status updates = %v, want [CONFIRMED]", statusUpdates)
	}
}

func TestConfirmHold_Lapsed(t *testing.T) {
	var statusUpdates []model.HoldStatus

	holds := &mockHoldRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.TemporaryReservation, error) {
			h := newHold()
			h.ID = id
			h.Status = model.HoldPending
			h.ExpiresAt = time.Now().UTC().Add(-time.Minute)
			return h, nil
		},
		updateStatusFn: func(ctx context.Context, id string, status model.HoldStatus) error {
			statusUpdates = append(statusUpdates, status)
			return nil
		},
	}
	reservations := &mockReservationRepo{
		createFn: func(ctx context.Context, r *model.Reservation) error {
			t.Fatal("a reservation was created from a lapsed hold")
			return nil
		},
	}

	svc := newTestService(holds, reservations, &mockFacilityRepo{}, &mockTypeRepo{}, t)

	_, err := svc.Confirm(context.Background(), holdID)
	if err == nil {
		t.Fatal("expected error confirming a lapsed hold")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeExpired {
		t.Errorf("code = %s, want %s", apperrors.AsAppError(err).Code, apperrors.CodeExpired)
	}
	if len(statusUpdates) != 1 || statusUpdates[0] != model.HoldExpired {
		t.Errorf("hold status updates = %v, want [EXPIRED]", statusUpdates)
	}
}

func TestConfirmHold_TerminalStatuses(t *testing.T) {
	tests := []struct {
		status   model.HoldStatus
		wantCode string
	}{
		{model.HoldExpired, apperrors.CodeExpired},
		{model.HoldConfirmed, apperrors.CodeInvalidInput},
		{model.HoldCancelled, apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			holds := &mockHoldRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.TemporaryReservation, error) {
					h := newHold()
					h.ID = id
					h.Status = tt.status
					return h, nil
				},
			}

			svc := newTestService(holds, &mockReservationRepo{}, &mockFacilityRepo{}, &mockTypeRepo{}, t)

			_, err := svc.Confirm(context.Background(), holdID)
			if err == nil {
				t.Fatalf("expected error confirming a %s hold", tt.status)
			}
			if got := apperrors.AsAppError(err).Code; got != tt.wantCode {
				t.Errorf("code = %s, want %s", got, tt.wantCode)
			}
		})
	}
}

func TestCancelHold_Terminal(t *testing.T) {
	holds := &mockHoldRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.TemporaryReservation, error) {
			h := newHold()
			h.ID = id
			h.Status = model.HoldConfirmed
			return h, nil
		},
		updateStatusFn: func(ctx context.Context, id string, status model.HoldStatus) error {
			t.Fatal("a terminal hold was mutated")
			return nil
		},
	}

	svc := newTestService(holds, &mockReservationRepo{}, &mockFacilityRepo{}, &mockTypeRepo{}, t)

	err := svc.Cancel(context.Background(), holdID)
	if err == nil {
		t.Fatal("expected error cancelling a confirmed hold")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("code = %s, want %s", apperrors.AsAppError(err).Code, apperrors.CodeInvalidInput)
	}
}

func TestCancelHold_LostRace(t *testing.T) {
	// The hold reads as PENDING, but another request confirms it before the
	// conditional status write lands. The write matches nothing and the
	// terminal hold must stay untouched.
	holds := &mockHoldRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.TemporaryReservation, error) {
			h := newHold()
			h.ID = id
			h.Status = model.HoldPending
			h.ExpiresAt = time.Now().UTC().Add(5 * time.Minute)
			return h, nil
		},
		updateStatusFn: func(ctx context.Context, id string, status model.HoldStatus) error {
			return holdserrors.ErrAlreadyResolved
		},
	}

	svc := newTestService(holds, &mockReservationRepo{}, &mockFacilityRepo{}, &mockTypeRepo{}, t)

	err := svc.Cancel(context.Background(), holdID)
	if err == nil {
		t.Fatal("expected conflict after losing the status write race")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("code = %s, want %s", apperrors.AsAppError(err).Code, apperrors.CodeConflict)
	}
}

func TestCleanupExpired(t *testing.T) {
	holds := &mockHoldRepo{
		expireAllPendingFn: func(ctx context.Context, now time.Time) (int64, error) {
			return 3, nil
		},
	}

	svc := newTestService(holds, &mockReservationRepo{}, &mockFacilityRepo{}, &mockTypeRepo{}, t)

	count, err := svc.CleanupExpired(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
