package service

import (
	"context"
	"strings"
	"testing"
	"time"

	facilityrepo "bookery/internal/facilities/repository"
	"bookery/pkg/config"
	mongotx "bookery/pkg/db/mongo"
	apperrors "bookery/pkg/errors"
	"bookery/pkg/logger"
	"bookery/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockReservationRepo struct {
	findByIDFn       func(ctx context.Context, id string) (*model.Reservation, error)
	findOverlapFn    func(ctx context.Context, start, end time.Time) ([]*model.Reservation, error)
	assignFacilityFn func(ctx context.Context, id string, facilityID string, start, end time.Time) error
}

func (m *mockReservationRepo) Create(ctx context.Context, r *model.Reservation) error { return nil }
func (m *mockReservationRepo) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	return m.findByIDFn(ctx, id)
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
	if m.assignFacilityFn != nil {
		return m.assignFacilityFn(ctx, id, facilityID, start, end)
	}
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
	findByTypeIDsFn      func(ctx context.Context, typeIDs []string) ([]*model.Facility, error)
	findFirstAvailableFn func(ctx context.Context, typeID string, excludedIDs []string) (*model.Facility, error)
}

func (m *mockFacilityRepo) Create(ctx context.Context, f *model.Facility) error { return nil }
func (m *mockFacilityRepo) FindByID(ctx context.Context, id string) (*model.Facility, error) {
	return nil, nil
}
func (m *mockFacilityRepo) FindByTypeIDs(ctx context.Context, typeIDs []string) ([]*model.Facility, error) {
	return m.findByTypeIDsFn(ctx, typeIDs)
}
func (m *mockFacilityRepo) FindFirstAvailable(ctx context.Context, typeID string, excludedIDs []string) (*model.Facility, error) {
	return m.findFirstAvailableFn(ctx, typeID, excludedIDs)
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
	return m.findByNameFn(ctx, name)
}
func (m *mockTypeRepo) FindCandidates(ctx context.Context, q facilityrepo.TypeQuery) ([]*model.FacilityType, error) {
	return nil, nil
}

type mockMaintenanceRepo struct {
	findBlockingFn func(ctx context.Context, start, end time.Time, facilityIDs []string) ([]*model.MaintenanceRecord, error)
}

func (m *mockMaintenanceRepo) Create(ctx context.Context, rec *model.MaintenanceRecord) error {
	return nil
}
func (m *mockMaintenanceRepo) FindBlocking(ctx context.Context, start, end time.Time, facilityIDs []string) ([]*model.MaintenanceRecord, error) {
	if m.findBlockingFn != nil {
		return m.findBlockingFn(ctx, start, end, facilityIDs)
	}
	return nil, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Log:                logger.New(logger.Config{Level: "error", Service: "assignment-test"}),
		AssignmentTimeout:  10 * time.Second,
		BatchAssignTimeout: 30 * time.Second,
		MaxBatchAssign:     50,
	}
}

func day(d int) time.Time {
	return time.Date(2026, time.June, d, 0, 0, 0, 0, time.UTC)
}

func typeReservation(id string) *model.Reservation {
	return &model.Reservation{
		ID:               id,
		FacilityTypeName: "standard room",
		Status:           model.ReservationReserved,
		ReservationDate:  day(10),
		ReservationEnd:   day(12),
	}
}

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func TestAssignRoom_PicksFirstFreeFacility(t *testing.T) {
	var assignedFacility string

	reservations := &mockReservationRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Reservation, error) {
			return typeReservation(id), nil
		},
		findOverlapFn: func(ctx context.Context, start, end time.Time) ([]*model.Reservation, error) {
			return []*model.Reservation{{ID: "other", FacilityID: "fac-101", Status: model.ReservationReserved}}, nil
		},
		assignFacilityFn: func(ctx context.Context, id string, facilityID string, start, end time.Time) error {
			assignedFacility = facilityID
			return nil
		},
	}
	facilities := &mockFacilityRepo{
		findByTypeIDsFn: func(ctx context.Context, typeIDs []string) ([]*model.Facility, error) {
			return []*model.Facility{
				{ID: "fac-101", Name: "101", FacilityTypeID: "type-1"},
				{ID: "fac-102", Name: "102", FacilityTypeID: "type-1"},
			}, nil
		},
		findFirstAvailableFn: func(ctx context.Context, typeID string, excludedIDs []string) (*model.Facility, error) {
			for _, id := range excludedIDs {
				if id == "fac-101" {
					return &model.Facility{ID: "fac-102", Name: "102", FacilityTypeID: typeID}, nil
				}
			}
			t.Fatal("the reserved facility was not excluded from the search")
			return nil, nil
		},
	}
	types := &mockTypeRepo{
		findByNameFn: func(ctx context.Context, name string) (*model.FacilityType, error) {
			return &model.FacilityType{ID: "type-1", Name: name}, nil
		},
	}

	svc := NewAssignmentService(reservations, facilities, types, &mockMaintenanceRepo{}, nil, testConfig(t))

	result, err := svc.AssignRoom(context.Background(), "res-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FacilityID != "fac-102" {
		t.Errorf("FacilityID = %s, want fac-102", result.FacilityID)
	}
	if result.AlreadyAssigned {
		t.Error("fresh assignment reported as already assigned")
	}
	if assignedFacility != "fac-102" {
		t.Errorf("persisted facility = %s, want fac-102", assignedFacility)
	}
}

func TestAssignRoom_Idempotent(t *testing.T) {
	assignCalls := 0

	res := typeReservation("res-1")
	res.FacilityID = "fac-101"

	reservations := &mockReservationRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Reservation, error) {
			return res, nil
		},
		assignFacilityFn: func(ctx context.Context, id string, facilityID string, start, end time.Time) error {
			assignCalls++
			return nil
		},
	}

	svc := NewAssignmentService(reservations, &mockFacilityRepo{}, &mockTypeRepo{}, &mockMaintenanceRepo{}, nil, testConfig(t))

	result, err := svc.AssignRoom(context.Background(), "res-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.AlreadyAssigned {
		t.Error("expected AlreadyAssigned for an assigned reservation")
	}
	if result.FacilityID != "fac-101" {
		t.Errorf("FacilityID = %s, want the existing fac-101", result.FacilityID)
	}
	if assignCalls != 0 {
		t.Errorf("assignment write ran %d times for an unchanged window, want 0", assignCalls)
	}

	// Overriding the window on an assigned reservation rewrites the dates
	// while keeping the facility.
	newEnd := day(14)
	result, err = svc.AssignRoom(context.Background(), "res-1", &DateOverrides{EndDate: &newEnd})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.AlreadyAssigned {
		t.Error("expected AlreadyAssigned on the override path")
	}
	if assignCalls != 1 {
		t.Errorf("assignment write ran %d times after a date override, want 1", assignCalls)
	}
	if !result.EndDate.Equal(newEnd) {
		t.Errorf("EndDate = %v, want %v", result.EndDate, newEnd)
	}
}

func TestAssignRoom_NotRoomTypeReservation(t *testing.T) {
	reservations := &mockReservationRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Reservation, error) {
			return &model.Reservation{ID: id, Status: model.ReservationProcessing, ReservationDate: day(1), ReservationEnd: day(2)}, nil
		},
	}

	svc := NewAssignmentService(reservations, &mockFacilityRepo{}, &mockTypeRepo{}, &mockMaintenanceRepo{}, nil, testConfig(t))

	_, err := svc.AssignRoom(context.Background(), "res-1", nil)
	if err == nil {
		t.Fatal("expected error for a reservation without a facility type")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeInvalidInput)
	}
}

func TestAssignRoom_NoAvailability(t *testing.T) {
	reservations := &mockReservationRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Reservation, error) {
			return typeReservation(id), nil
		},
	}
	facilities := &mockFacilityRepo{
		findByTypeIDsFn: func(ctx context.Context, typeIDs []string) ([]*model.Facility, error) {
			return []*model.Facility{{ID: "fac-101", Name: "101", FacilityTypeID: "type-1"}}, nil
		},
		findFirstAvailableFn: func(ctx context.Context, typeID string, excludedIDs []string) (*model.Facility, error) {
			return nil, nil
		},
	}
	types := &mockTypeRepo{
		findByNameFn: func(ctx context.Context, name string) (*model.FacilityType, error) {
			return &model.FacilityType{ID: "type-1", Name: name}, nil
		},
	}

	svc := NewAssignmentService(reservations, facilities, types, &mockMaintenanceRepo{}, nil, testConfig(t))

	_, err := svc.AssignRoom(context.Background(), "res-1", nil)
	if err == nil {
		t.Fatal("expected conflict when no facility is free")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeConflict)
	}
	if !appErr.Recoverable() {
		t.Error("no-availability conflict should be retryable")
	}
}

func TestAssignRoom_LostRace(t *testing.T) {
	reservations := &mockReservationRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Reservation, error) {
			return typeReservation(id), nil
		},
		assignFacilityFn: func(ctx context.Context, id string, facilityID string, start, end time.Time) error {
			return duplicateKeyErr()
		},
	}
	facilities := &mockFacilityRepo{
		findByTypeIDsFn: func(ctx context.Context, typeIDs []string) ([]*model.Facility, error) {
			return []*model.Facility{{ID: "fac-101", Name: "101", FacilityTypeID: "type-1"}}, nil
		},
		findFirstAvailableFn: func(ctx context.Context, typeID string, excludedIDs []string) (*model.Facility, error) {
			return &model.Facility{ID: "fac-101", Name: "101", FacilityTypeID: typeID}, nil
		},
	}
	types := &mockTypeRepo{
		findByNameFn: func(ctx context.Context, name string) (*model.FacilityType, error) {
			return &model.FacilityType{ID: "type-1", Name: name}, nil
		},
	}

	svc := NewAssignmentService(reservations, facilities, types, &mockMaintenanceRepo{}, nil, testConfig(t))

	_, err := svc.AssignRoom(context.Background(), "res-1", nil)
	if err == nil {
		t.Fatal("expected conflict after losing the unique-index race")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeConflict)
	}
	if !strings.Contains(appErr.Message, "retry") {
		t.Errorf("message %q should tell the caller to retry", appErr.Message)
	}
}

func TestAssignRoom_InvalidOverrideWindow(t *testing.T) {
	reservations := &mockReservationRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Reservation, error) {
			return typeReservation(id), nil
		},
	}

	svc := NewAssignmentService(reservations, &mockFacilityRepo{}, &mockTypeRepo{}, &mockMaintenanceRepo{}, nil, testConfig(t))

	start, end := day(12), day(10)
	_, err := svc.AssignRoom(context.Background(), "res-1", &DateOverrides{StartDate: &start, EndDate: &end})
	if err == nil {
		t.Fatal("expected error for an inverted override window")
	}
}

func TestBatchAssign_PartialFailure(t *testing.T) {
	// res-ok is a normal type reservation; res-bad has no type and cannot
	// be auto-assigned.
	reservations := &mockReservationRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Reservation, error) {
			if id == "res-bad" {
				return &model.Reservation{ID: id, Status: model.ReservationProcessing, ReservationDate: day(1), ReservationEnd: day(2)}, nil
			}
			return typeReservation(id), nil
		},
	}
	facilities := &mockFacilityRepo{
		findByTypeIDsFn: func(ctx context.Context, typeIDs []string) ([]*model.Facility, error) {
			return []*model.Facility{{ID: "fac-101", Name: "101", FacilityTypeID: "type-1"}}, nil
		},
		findFirstAvailableFn: func(ctx context.Context, typeID string, excludedIDs []string) (*model.Facility, error) {
			return &model.Facility{ID: "fac-101", Name: "101", FacilityTypeID: typeID}, nil
		},
	}
	types := &mockTypeRepo{
		findByNameFn: func(ctx context.Context, name string) (*model.FacilityType, error) {
			return &model.FacilityType{ID: "type-1", Name: name}, nil
		},
	}

	svc := NewAssignmentService(reservations, facilities, types, &mockMaintenanceRepo{}, nil, testConfig(t))

	results, err := svc.BatchAssign(context.Background(), []string{"res-ok", "res-bad"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 item results, got %d", len(results))
	}

	if !results[0].Success || results[0].FacilityID != "fac-101" {
		t.Errorf("first item = %+v, want success with fac-101", results[0])
	}
	if results[1].Success {
		t.Error("second item should have failed")
	}
	if results[1].Error == "" {
		t.Error("failed item carries no error message")
	}
}

func TestBatchAssign_SizeLimits(t *testing.T) {
	svc := NewAssignmentService(&mockReservationRepo{}, &mockFacilityRepo{}, &mockTypeRepo{}, &mockMaintenanceRepo{}, nil, testConfig(t))

	if _, err := svc.BatchAssign(context.Background(), nil, nil); err == nil {
		t.Error("expected error for an empty batch")
	}

	ids := make([]string, 51)
	for i := range ids {
		ids[i] = "res"
	}
	if _, err := svc.BatchAssign(context.Background(), ids, nil); err == nil {
		t.Error("expected error for a batch over the cap")
	}
}
