package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	facilitieserrors "bookery/internal/facilities/errors"
	facilityrepo "bookery/internal/facilities/repository"
	holdserrors "bookery/internal/holds/errors"
	"bookery/internal/holds/repository"
	"bookery/internal/holds/validator"
	reservationrepo "bookery/internal/reservations/repository"
	"bookery/pkg/config"
	apperrors "bookery/pkg/errors"
	"bookery/pkg/kafka"
	"bookery/pkg/model"
	"bookery/pkg/sanitizer"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type TemporaryReservationService interface {
	Create(ctx context.Context, hold *model.TemporaryReservation) error
	GetByID(ctx context.Context, id string) (*model.TemporaryReservation, error)
	// Confirm converts a live hold into a RESERVED reservation and marks the
	// hold CONFIRMED, atomically.
	Confirm(ctx context.Context, id string) (*model.Reservation, error)
	Cancel(ctx context.Context, id string) error
	// CleanupExpired transitions every lapsed PENDING hold to EXPIRED and
	// returns the count. Terminal holds are never touched.
	CleanupExpired(ctx context.Context) (int64, error)
}

type temporaryReservationService struct {
	repo            repository.TemporaryReservationRepository
	reservationRepo reservationrepo.ReservationRepository
	facilityRepo    facilityrepo.FacilityRepository
	typeRepo        facilityrepo.FacilityTypeRepository
	validator       *validator.TemporaryReservationValidator
	producer        kafka.Publisher
	cfg             *config.Config
}

func NewTemporaryReservationService(
	repo repository.TemporaryReservationRepository,
	reservationRepo reservationrepo.ReservationRepository,
	facilityRepo facilityrepo.FacilityRepository,
	typeRepo facilityrepo.FacilityTypeRepository,
	v *validator.TemporaryReservationValidator,
	producer kafka.Publisher,
	cfg *config.Config,
) TemporaryReservationService {
	return &temporaryReservationService{
		repo:            repo,
		reservationRepo: reservationRepo,
		facilityRepo:    facilityRepo,
		typeRepo:        typeRepo,
		validator:       v,
		producer:        producer,
		cfg:             cfg,
	}
}

// Create places a front-desk hold. Competing holds are checked before
// confirmed reservations: a clerk losing to another clerk's live hold needs
// to know who holds it and until when, not just that the unit is taken.
func (s *temporaryReservationService) Create(ctx context.Context, hold *model.TemporaryReservation) error {
	hold.FacilityTypeName = sanitizer.TrimAndNormalize(hold.FacilityTypeName)
	hold.Status = model.HoldPending
	if hold.SessionID == "" {
		hold.SessionID = uuid.New().String()
	}

	if err := s.validator.Validate(hold); err != nil {
		return apperrors.Validation("Temporary reservation validation failed", map[string]any{"error": err.Error()})
	}

	now := time.Now().UTC()
	hold.ExpiresAt = now.Add(s.cfg.HoldDuration)

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		competing, err := s.repo.FindActiveConflict(sessCtx, hold.FacilityID, hold.FacilityTypeName, hold.StartDate, hold.EndDate, now)
		if err != nil {
			return apperrors.Internal("Failed to check for competing holds", err)
		}
		if competing != nil {
			return apperrors.ConflictWithHolder(
				"the requested window is already held by another session",
				competing.FrontdeskUserID,
				competing.ExpiresAt,
			)
		}

		if err := s.checkReservationConflict(sessCtx, hold); err != nil {
			return err
		}

		if err := s.repo.Create(sessCtx, hold); err != nil {
			return apperrors.Internal("Failed to create temporary reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create temporary reservation", "error", err)
		return err
	}

	s.cfg.Log.Info("Temporary reservation created",
		"id", hold.ID,
		"facility_id", hold.FacilityID,
		"facility_type_name", hold.FacilityTypeName,
		"expires_at", hold.ExpiresAt,
	)

	s.publishHoldEvent(ctx, kafka.EventHoldCreated, hold)
	return nil
}

func (s *temporaryReservationService) GetByID(ctx context.Context, id string) (*model.TemporaryReservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Temporary reservation ID cannot be empty")
	}

	hold, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, holdserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Temporary reservation", id)
		}
		if errors.Is(err, holdserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid temporary reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve temporary reservation", err)
	}

	return hold, nil
}

func (s *temporaryReservationService) Confirm(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Temporary reservation ID cannot be empty")
	}

	now := time.Now().UTC()
	var hold *model.TemporaryReservation
	var reservation *model.Reservation

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		hold, err = s.repo.FindByID(sessCtx, id)
		if err != nil {
			if errors.Is(err, holdserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Temporary reservation", id)
			}
			if errors.Is(err, holdserrors.ErrInvalidID) {
				return apperrors.InvalidInput("Invalid temporary reservation ID format")
			}
			return apperrors.Internal("Failed to load temporary reservation", err)
		}

		if hold.Status != model.HoldPending {
			if hold.Status == model.HoldExpired {
				return apperrors.Expired("hold has expired and can no longer be confirmed")
			}
			return apperrors.InvalidInput(fmt.Sprintf("hold is already %s and cannot be confirmed", hold.Status))
		}
		if !hold.ExpiresAt.After(now) {
			if err := s.repo.UpdateStatus(sessCtx, hold.ID, model.HoldExpired); err != nil {
				if errors.Is(err, holdserrors.ErrAlreadyResolved) {
					return apperrors.Conflict("hold was resolved by a concurrent request")
				}
				return apperrors.Internal("Failed to expire lapsed hold", err)
			}
			return apperrors.Expired("hold has expired and can no longer be confirmed")
		}

		reservation = &model.Reservation{
			FacilityID:       hold.FacilityID,
			FacilityTypeName: hold.FacilityTypeName,
			OrganizationID:   hold.OrganizationID,
			UserID:           hold.UserID,
			ReservationDate:  hold.StartDate,
			ReservationEnd:   hold.EndDate,
			Guests:           hold.Guests,
			Status:           model.ReservationReserved,
			PaymentStatus:    model.PaymentPending,
		}

		if err := s.checkReservationConflict(sessCtx, hold); err != nil {
			return err
		}

		if err := s.reservationRepo.Create(sessCtx, reservation); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return apperrors.Conflict("facility was reserved by a concurrent request")
			}
			return apperrors.Internal("Failed to create reservation from hold", err)
		}

		if err := s.repo.UpdateStatus(sessCtx, hold.ID, model.HoldConfirmed); err != nil {
			if errors.Is(err, holdserrors.ErrAlreadyResolved) {
				return apperrors.Conflict("hold was resolved by a concurrent request")
			}
			return apperrors.Internal("Failed to mark hold as confirmed", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to confirm temporary reservation", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Temporary reservation confirmed",
		"id", hold.ID,
		"reservation_id", reservation.ID,
	)

	s.publishHoldEvent(ctx, kafka.EventHoldConfirmed, hold)
	return reservation, nil
}

func (s *temporaryReservationService) Cancel(ctx context.Context, id string) error {
	hold, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !model.ValidHoldTransition(hold.Status, model.HoldCancelled) {
		return apperrors.InvalidInput(fmt.Sprintf("hold is already %s and cannot be cancelled", hold.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, model.HoldCancelled); err != nil {
		if errors.Is(err, holdserrors.ErrAlreadyResolved) {
			return apperrors.Conflict("hold was resolved by a concurrent request")
		}
		return apperrors.Internal("Failed to cancel temporary reservation", err)
	}

	s.cfg.Log.Info("Temporary reservation cancelled", "id", id)

	s.publishHoldEvent(ctx, kafka.EventHoldCancelled, hold)
	return nil
}

func (s *temporaryReservationService) CleanupExpired(ctx context.Context) (int64, error) {
	now := time.Now().UTC()

	count, err := s.repo.ExpireAllPending(ctx, now)
	if err != nil {
		s.cfg.Log.Error("Failed to expire pending holds", "error", err)
		return 0, apperrors.Internal("Failed to expire pending holds", err)
	}

	s.cfg.Log.Info("Expired pending holds", "count", count)

	if count > 0 && s.producer != nil {
		msg := kafka.NewMessage().
			WithKey("hold-sweep").
			WithValue(map[string]any{
				"expired_count": count,
				"swept_at":      now,
			}).
			WithEventType(kafka.EventHoldExpired).
			WithSource("holds").
			Build()
		if err := s.producer.Publish(ctx, msg); err != nil {
			s.cfg.Log.Warn("Failed to publish hold expiry event", "error", err)
		}
	}

	return count, nil
}

// checkReservationConflict rejects facility-bound holds that collide with a
// blocking reservation, and type-level holds when the type has no spare
// capacity for the window.
func (s *temporaryReservationService) checkReservationConflict(sessCtx mongo.SessionContext, hold *model.TemporaryReservation) error {
	overlapping, err := s.reservationRepo.FindOverlapping(sessCtx, hold.StartDate, hold.EndDate)
	if err != nil {
		return apperrors.Internal("Failed to check for conflicting reservations", err)
	}

	if hold.FacilityID != "" {
		for _, res := range overlapping {
			if res.FacilityID == hold.FacilityID {
				return apperrors.Conflict(fmt.Sprintf("facility %s is already reserved for an overlapping window", hold.FacilityID))
			}
		}
		return nil
	}

	facilityType, err := s.typeRepo.FindByName(sessCtx, hold.FacilityTypeName)
	if err != nil {
		if errors.Is(err, facilitieserrors.ErrTypeNotFound) {
			return apperrors.NotFoundWithID("Facility type", hold.FacilityTypeName)
		}
		return apperrors.Internal("Failed to resolve facility type", err)
	}

	facilities, err := s.facilityRepo.FindByTypeIDs(sessCtx, []string{facilityType.ID})
	if err != nil {
		return apperrors.Internal("Failed to load facilities", err)
	}

	unitIDs := make(map[string]struct{}, len(facilities))
	for _, f := range facilities {
		unitIDs[f.ID] = struct{}{}
	}

	blocked := 0
	for _, res := range overlapping {
		if res.FacilityID != "" {
			if _, ok := unitIDs[res.FacilityID]; ok {
				blocked++
			}
			continue
		}
		if res.FacilityTypeName == hold.FacilityTypeName {
			blocked++
		}
	}

	if blocked >= len(facilities) {
		return apperrors.Conflict(fmt.Sprintf("no capacity of type %s remains for the requested window", hold.FacilityTypeName))
	}
	return nil
}

func (s *temporaryReservationService) publishHoldEvent(ctx context.Context, eventType string, hold *model.TemporaryReservation) {
	if s.producer == nil {
		return
	}

	key := hold.FacilityTypeName
	if key == "" {
		key = hold.FacilityID
	}

	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(map[string]any{
			"hold_id":            hold.ID,
			"facility_id":        hold.FacilityID,
			"facility_type_name": hold.FacilityTypeName,
			"frontdesk_user_id":  hold.FrontdeskUserID,
			"start_date":         hold.StartDate,
			"end_date":           hold.EndDate,
			"expires_at":         hold.ExpiresAt,
		}).
		WithEventType(eventType).
		WithSource("holds").
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish hold event", "hold_id", hold.ID, "event_type", eventType, "error", err)
	}
}
