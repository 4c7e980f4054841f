package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	reservationserrors "bookery/internal/reservations/errors"
	"bookery/internal/reservations/repository"
	"bookery/internal/reservations/validator"
	"bookery/pkg/config"
	apperrors "bookery/pkg/errors"
	"bookery/pkg/kafka"
	"bookery/pkg/model"
	"bookery/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type ReservationService interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error)
	UpdateStatus(ctx context.Context, id string, to model.ReservationStatus) error
}

type reservationService struct {
	repo      repository.ReservationRepository
	validator *validator.ReservationValidator
	producer  kafka.Publisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	validator *validator.ReservationValidator,
	producer kafka.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		validator: validator,
		producer:  producer,
		cfg:       cfg,
	}
}

// Create persists a new reservation in PROCESSING. The record does not block
// availability until it transitions into RESERVED.
func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	reservation.FacilityTypeName = sanitizer.TrimAndNormalize(reservation.FacilityTypeName)
	reservation.Status = model.ReservationProcessing
	if reservation.PaymentStatus == "" {
		reservation.PaymentStatus = model.PaymentPending
	}

	if err := s.validator.Validate(reservation); err != nil {
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return apperrors.Internal("Failed to create reservation", err)
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"facility_id", reservation.FacilityID,
		"facility_type_name", reservation.FacilityTypeName,
		"reservation_date", reservation.ReservationDate,
		"reservation_end_date", reservation.ReservationEnd,
	)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
	}()
	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindAll(ctx, limit, offset)
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, apperrors.Internal("Failed to count reservations", errCount)
	}
	if errFind != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve reservations", errFind)
	}

	return reservations, count, nil
}

// UpdateStatus moves a reservation through its lifecycle. Transitions into a
// blocking status on a facility-bound reservation re-verify overlap inside
// the transaction, so a reservation can never start blocking a facility that
// another blocking reservation already covers.
func (s *reservationService) UpdateStatus(ctx context.Context, id string, to model.ReservationStatus) error {
	reservation, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !model.ValidStatusTransition(reservation.Status, to) {
		if model.TerminalStatus(reservation.Status) {
			return apperrors.InvalidInput(fmt.Sprintf("reservation is already %s and cannot change status", reservation.Status))
		}
		return apperrors.InvalidInput(fmt.Sprintf("cannot transition reservation from %s to %s", reservation.Status, to))
	}

	becomesBlocking := !reservation.Blocking() && blockingStatus(to)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if becomesBlocking && reservation.Assigned() {
			overlapping, overlapErr := s.repo.FindOverlapping(sessCtx, reservation.ReservationDate, reservation.ReservationEnd)
			if overlapErr != nil {
				return apperrors.Internal("Failed to check for conflicting reservations", overlapErr)
			}
			for _, other := range overlapping {
				if other.ID != reservation.ID && other.FacilityID == reservation.FacilityID {
					return apperrors.Conflict(fmt.Sprintf("facility %s is already reserved for an overlapping window", reservation.FacilityID))
				}
			}
		}

		if updateErr := s.repo.UpdateStatus(sessCtx, id, reservation.Status, to); updateErr != nil {
			if errors.Is(updateErr, reservationserrors.ErrStaleStatus) {
				return apperrors.Conflict("reservation status changed concurrently, retry")
			}
			return apperrors.Internal("Failed to update reservation status", updateErr)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update reservation status", "id", id, "to", to, "error", err)
		return err
	}

	s.cfg.Log.Info("Reservation status updated", "id", id, "from", reservation.Status, "to", to)

	if becomesBlocking || reservation.Blocking() {
		s.publishAvailabilityChanged(ctx, reservation, to)
	}
	return nil
}

func blockingStatus(status model.ReservationStatus) bool {
	for _, s := range model.BlockingStatuses {
		if status == s {
			return true
		}
	}
	return false
}

func (s *reservationService) publishAvailabilityChanged(ctx context.Context, reservation *model.Reservation, to model.ReservationStatus) {
	if s.producer == nil {
		return
	}

	key := reservation.FacilityTypeName
	if key == "" {
		key = reservation.FacilityID
	}

	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(map[string]any{
			"reservation_id":       reservation.ID,
			"facility_id":          reservation.FacilityID,
			"facility_type_name":   reservation.FacilityTypeName,
			"status":               to,
			"reservation_date":     reservation.ReservationDate,
			"reservation_end_date": reservation.ReservationEnd,
		}).
		WithEventType(kafka.EventAvailabilityChange).
		WithSource("reservations").
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish availability event", "reservation_id", reservation.ID, "error", err)
	}
}
