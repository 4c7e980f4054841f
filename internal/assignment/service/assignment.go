package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	facilitieserrors "bookery/internal/facilities/errors"
	facilityrepo "bookery/internal/facilities/repository"
	reservationserrors "bookery/internal/reservations/errors"
	reservationrepo "bookery/internal/reservations/repository"
	"bookery/pkg/config"
	apperrors "bookery/pkg/errors"
	"bookery/pkg/kafka"

	"go.mongodb.org/mongo-driver/mongo"
)

// DateOverrides optionally replace the reservation's blocking window before
// the candidate search runs.
type DateOverrides struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// AssignmentResult reports the outcome of a single assignment.
type AssignmentResult struct {
	ReservationID   string    `json:"reservation_id"`
	FacilityID      string    `json:"facility_id"`
	FacilityName    string    `json:"facility_name,omitempty"`
	AlreadyAssigned bool      `json:"already_assigned"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
}

// BatchItemResult isolates one reservation's outcome inside a batch; a
// failed item never masks its siblings.
type BatchItemResult struct {
	ReservationID string `json:"reservation_id"`
	Success       bool   `json:"success"`
	FacilityID    string `json:"facility_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

type AssignmentService interface {
	AssignRoom(ctx context.Context, reservationID string, overrides *DateOverrides) (*AssignmentResult, error)
	BatchAssign(ctx context.Context, reservationIDs []string, overrides *DateOverrides) ([]BatchItemResult, error)
}

type assignmentService struct {
	reservationRepo reservationrepo.ReservationRepository
	facilityRepo    facilityrepo.FacilityRepository
	typeRepo        facilityrepo.FacilityTypeRepository
	maintRepo       facilityrepo.MaintenanceRepository
	producer        kafka.Publisher
	cfg             *config.Config
}

func NewAssignmentService(
	reservationRepo reservationrepo.ReservationRepository,
	facilityRepo facilityrepo.FacilityRepository,
	typeRepo facilityrepo.FacilityTypeRepository,
	maintRepo facilityrepo.MaintenanceRepository,
	producer kafka.Publisher,
	cfg *config.Config,
) AssignmentService {
	return &assignmentService{
		reservationRepo: reservationRepo,
		facilityRepo:    facilityRepo,
		typeRepo:        typeRepo,
		maintRepo:       maintRepo,
		producer:        producer,
		cfg:             cfg,
	}
}

// AssignRoom binds a concrete facility to a type-level reservation inside a
// single transaction. Calling it again for an assigned reservation is a
// no-op apart from date overrides. Losing a race against a concurrent
// assignment surfaces as a retryable conflict, never a double booking.
func (s *assignmentService) AssignRoom(ctx context.Context, reservationID string, overrides *DateOverrides) (*AssignmentResult, error) {
	if reservationID == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	var result *AssignmentResult
	err := s.reservationRepo.ExecuteTransactionWithTimeout(ctx, s.cfg.AssignmentTimeout, func(sessCtx mongo.SessionContext) error {
		var txErr error
		result, txErr = s.assignInTx(sessCtx, reservationID, overrides)
		return txErr
	})
	if err != nil {
		s.cfg.Log.Error("Failed to assign facility", "reservation_id", reservationID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Facility assigned",
		"reservation_id", result.ReservationID,
		"facility_id", result.FacilityID,
		"already_assigned", result.AlreadyAssigned,
	)

	if !result.AlreadyAssigned {
		s.publishAssigned(ctx, result)
	}
	return result, nil
}

// BatchAssign processes reservations sequentially within one transaction so
// earlier assignments in the batch exclude their facility from later ones.
// Per-item failures are captured in the result slice.
func (s *assignmentService) BatchAssign(ctx context.Context, reservationIDs []string, overrides *DateOverrides) ([]BatchItemResult, error) {
	if len(reservationIDs) == 0 {
		return nil, apperrors.InvalidInput("At least one reservation ID is required")
	}
	if len(reservationIDs) > s.cfg.MaxBatchAssign {
		return nil, apperrors.InvalidInput(fmt.Sprintf("batch size %d exceeds the maximum of %d", len(reservationIDs), s.cfg.MaxBatchAssign))
	}

	results := make([]BatchItemResult, 0, len(reservationIDs))
	var assigned []*AssignmentResult

	err := s.reservationRepo.ExecuteTransactionWithTimeout(ctx, s.cfg.BatchAssignTimeout, func(sessCtx mongo.SessionContext) error {
		results = results[:0]
		assigned = assigned[:0]

		for _, id := range reservationIDs {
			item := BatchItemResult{ReservationID: id}

			res, itemErr := s.assignInTx(sessCtx, id, overrides)
			if itemErr != nil {
				item.Error = itemErr.Error()
			} else {
				item.Success = true
				item.FacilityID = res.FacilityID
				if !res.AlreadyAssigned {
					assigned = append(assigned, res)
				}
			}
			results = append(results, item)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Batch assignment failed", "count", len(reservationIDs), "error", err)
		return nil, err
	}

	for _, res := range assigned {
		s.publishAssigned(ctx, res)
	}
	return results, nil
}

func (s *assignmentService) assignInTx(sessCtx mongo.SessionContext, reservationID string, overrides *DateOverrides) (*AssignmentResult, error) {
	reservation, err := s.reservationRepo.FindByID(sessCtx, reservationID)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", reservationID)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to load reservation", err)
	}

	start, end := reservation.ReservationDate, reservation.ReservationEnd
	if overrides != nil {
		if overrides.StartDate != nil {
			start = *overrides.StartDate
		}
		if overrides.EndDate != nil {
			end = *overrides.EndDate
		}
	}
	if end.Before(start) {
		return nil, apperrors.InvalidInput("end_date must not be before start_date")
	}

	if reservation.Assigned() {
		if start != reservation.ReservationDate || end != reservation.ReservationEnd {
			if err := s.reservationRepo.AssignFacility(sessCtx, reservation.ID, reservation.FacilityID, start, end); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return nil, apperrors.Conflict("facility was assigned by a concurrent request, retry")
				}
				return nil, apperrors.Internal("Failed to update reservation window", err)
			}
		}
		return &AssignmentResult{
			ReservationID:   reservation.ID,
			FacilityID:      reservation.FacilityID,
			AlreadyAssigned: true,
			StartDate:       start,
			EndDate:         end,
		}, nil
	}

	if reservation.FacilityTypeName == "" {
		return nil, apperrors.InvalidInput("reservation is not a room-type reservation and cannot be auto-assigned")
	}

	facilityType, err := s.typeRepo.FindByName(sessCtx, reservation.FacilityTypeName)
	if err != nil {
		if errors.Is(err, facilitieserrors.ErrTypeNotFound) {
			return nil, apperrors.NotFoundWithID("Facility type", reservation.FacilityTypeName)
		}
		return nil, apperrors.Internal("Failed to resolve facility type", err)
	}

	excluded, err := s.blockedFacilityIDs(sessCtx, facilityType.ID, start, end)
	if err != nil {
		return nil, err
	}

	facility, err := s.facilityRepo.FindFirstAvailable(sessCtx, facilityType.ID, excluded)
	if err != nil {
		return nil, apperrors.Internal("Failed to search for an available facility", err)
	}
	if facility == nil {
		return nil, apperrors.Conflict(fmt.Sprintf("no available facility of type %s for the requested window", reservation.FacilityTypeName))
	}

	if err := s.reservationRepo.AssignFacility(sessCtx, reservation.ID, facility.ID, start, end); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.Conflict("facility was assigned by a concurrent request, retry")
		}
		return nil, apperrors.Internal("Failed to assign facility", err)
	}

	return &AssignmentResult{
		ReservationID: reservation.ID,
		FacilityID:    facility.ID,
		FacilityName:  facility.Name,
		StartDate:     start,
		EndDate:       end,
	}, nil
}

// blockedFacilityIDs collects every facility of the type excluded from
// assignment over the window: overlapping blocking reservations plus
// blocking maintenance.
func (s *assignmentService) blockedFacilityIDs(sessCtx mongo.SessionContext, typeID string, start, end time.Time) ([]string, error) {
	facilities, err := s.facilityRepo.FindByTypeIDs(sessCtx, []string{typeID})
	if err != nil {
		return nil, apperrors.Internal("Failed to load facilities", err)
	}
	if len(facilities) == 0 {
		return nil, nil
	}

	facilityIDs := make([]string, 0, len(facilities))
	for _, f := range facilities {
		facilityIDs = append(facilityIDs, f.ID)
	}

	blocked := make(map[string]struct{})

	reservations, err := s.reservationRepo.FindOverlapping(sessCtx, start, end)
	if err != nil {
		return nil, apperrors.Internal("Failed to load overlapping reservations", err)
	}
	for _, res := range reservations {
		if res.FacilityID != "" {
			blocked[res.FacilityID] = struct{}{}
		}
	}

	maintenance, err := s.maintRepo.FindBlocking(sessCtx, start, end, facilityIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to load maintenance records", err)
	}
	for _, rec := range maintenance {
		blocked[rec.FacilityID] = struct{}{}
	}

	ids := make([]string, 0, len(blocked))
	for id := range blocked {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *assignmentService) publishAssigned(ctx context.Context, result *AssignmentResult) {
	if s.producer == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(result.FacilityID).
		WithValue(map[string]any{
			"reservation_id": result.ReservationID,
			"facility_id":    result.FacilityID,
			"facility_name":  result.FacilityName,
			"start_date":     result.StartDate,
			"end_date":       result.EndDate,
		}).
		WithEventType(kafka.EventFacilityAssigned).
		WithSource("assignment").
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish assignment event", "reservation_id", result.ReservationID, "error", err)
	}
}
