package service

import (
	"context"
	"errors"

	facilitieserrors "bookery/internal/facilities/errors"
	"bookery/internal/facilities/repository"
	"bookery/internal/facilities/validator"
	"bookery/pkg/config"
	apperrors "bookery/pkg/errors"
	"bookery/pkg/model"
	"bookery/pkg/sanitizer"
)

type FacilityService interface {
	Create(ctx context.Context, facility *model.Facility) error
	GetByID(ctx context.Context, id string) (*model.Facility, error)
	CreateType(ctx context.Context, ft *model.FacilityType) error
	GetTypeByID(ctx context.Context, id string) (*model.FacilityType, error)
	CreateMaintenance(ctx context.Context, rec *model.MaintenanceRecord) error
	CreateRateType(ctx context.Context, rt *model.RateType) error
	GetRateTypeByID(ctx context.Context, id string) (*model.RateType, error)
}

type facilityService struct {
	repo          repository.FacilityRepository
	typeRepo      repository.FacilityTypeRepository
	maintRepo     repository.MaintenanceRepository
	rateRepo      repository.RateTypeRepository
	validator     *validator.FacilityValidator
	typeValidator *validator.FacilityTypeValidator
	cfg           *config.Config
}

func NewFacilityService(
	repo repository.FacilityRepository,
	typeRepo repository.FacilityTypeRepository,
	maintRepo repository.MaintenanceRepository,
	rateRepo repository.RateTypeRepository,
	fv *validator.FacilityValidator,
	ftv *validator.FacilityTypeValidator,
	cfg *config.Config,
) FacilityService {
	return &facilityService{
		repo:          repo,
		typeRepo:      typeRepo,
		maintRepo:     maintRepo,
		rateRepo:      rateRepo,
		validator:     fv,
		typeValidator: ftv,
		cfg:           cfg,
	}
}

func (s *facilityService) Create(ctx context.Context, facility *model.Facility) error {
	facility.Name = sanitizer.NormalizeName(facility.Name)

	if err := s.validator.Validate(facility); err != nil {
		return apperrors.Validation("Facility validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.typeRepo.FindByID(ctx, facility.FacilityTypeID); err != nil {
		if errors.Is(err, facilitieserrors.ErrTypeNotFound) {
			return apperrors.NotFoundWithID("Facility type", facility.FacilityTypeID)
		}
		if errors.Is(err, facilitieserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid facility type ID format")
		}
		return apperrors.Internal("Failed to resolve facility type", err)
	}

	if err := s.repo.Create(ctx, facility); err != nil {
		s.cfg.Log.Error("Failed to create facility", "error", err)
		return apperrors.Internal("Failed to create facility", err)
	}

	s.cfg.Log.Info("Facility created successfully",
		"id", facility.ID,
		"name", facility.Name,
		"facility_type_id", facility.FacilityTypeID,
	)
	return nil
}

func (s *facilityService) GetByID(ctx context.Context, id string) (*model.Facility, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Facility ID cannot be empty")
	}

	facility, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, facilitieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Facility", id)
		}
		if errors.Is(err, facilitieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid facility ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve facility", err)
	}

	return facility, nil
}

func (s *facilityService) CreateType(ctx context.Context, ft *model.FacilityType) error {
	s.sanitizeType(ft)

	if err := s.typeValidator.Validate(ft); err != nil {
		return apperrors.Validation("Facility type validation failed", map[string]any{"error": err.Error()})
	}

	if ft.RateTypeID != "" {
		if _, err := s.rateRepo.FindByID(ctx, ft.RateTypeID); err != nil {
			if errors.Is(err, facilitieserrors.ErrRateTypeNotFound) {
				return apperrors.NotFoundWithID("Rate type", ft.RateTypeID)
			}
			return apperrors.Internal("Failed to resolve rate type", err)
		}
	}

	if err := s.typeRepo.Create(ctx, ft); err != nil {
		s.cfg.Log.Error("Failed to create facility type", "error", err)
		return apperrors.Internal("Failed to create facility type", err)
	}

	s.cfg.Log.Info("Facility type created successfully",
		"id", ft.ID,
		"name", ft.Name,
		"category", ft.Category,
	)
	return nil
}

func (s *facilityService) GetTypeByID(ctx context.Context, id string) (*model.FacilityType, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Facility type ID cannot be empty")
	}

	ft, err := s.typeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, facilitieserrors.ErrTypeNotFound) {
			return nil, apperrors.NotFoundWithID("Facility type", id)
		}
		if errors.Is(err, facilitieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid facility type ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve facility type", err)
	}

	return ft, nil
}

func (s *facilityService) CreateMaintenance(ctx context.Context, rec *model.MaintenanceRecord) error {
	if rec.Date == nil && rec.StartDate == nil {
		return apperrors.Validation("Maintenance record validation failed", map[string]any{"error": "a date or a start_date is required"})
	}
	if rec.Date != nil && rec.StartDate != nil {
		return apperrors.Validation("Maintenance record validation failed", map[string]any{"error": "a record cannot carry both a date and a start_date"})
	}
	if rec.StartDate != nil && rec.EndDate != nil && rec.EndDate.Before(*rec.StartDate) {
		return apperrors.Validation("Maintenance record validation failed", map[string]any{"error": "end_date must not be before start_date"})
	}

	if _, err := s.repo.FindByID(ctx, rec.FacilityID); err != nil {
		if errors.Is(err, facilitieserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Facility", rec.FacilityID)
		}
		if errors.Is(err, facilitieserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid facility ID format")
		}
		return apperrors.Internal("Failed to resolve facility", err)
	}

	if err := s.maintRepo.Create(ctx, rec); err != nil {
		s.cfg.Log.Error("Failed to create maintenance record", "error", err)
		return apperrors.Internal("Failed to create maintenance record", err)
	}

	s.cfg.Log.Info("Maintenance record created",
		"id", rec.ID,
		"facility_id", rec.FacilityID,
		"status", rec.Status,
	)
	return nil
}

func (s *facilityService) CreateRateType(ctx context.Context, rt *model.RateType) error {
	rt.Name = sanitizer.NormalizeName(rt.Name)

	if rt.Name == "" {
		return apperrors.Validation("Rate type validation failed", map[string]any{"error": "name is required"})
	}
	if rt.DefaultTax < 0 || rt.DefaultTax > 100 {
		return apperrors.Validation("Rate type validation failed", map[string]any{"error": "default_tax must be between 0 and 100"})
	}
	if rt.DefaultDiscount < 0 || rt.DefaultDiscount > 100 {
		return apperrors.Validation("Rate type validation failed", map[string]any{"error": "default_discount must be between 0 and 100"})
	}

	if err := s.rateRepo.Create(ctx, rt); err != nil {
		s.cfg.Log.Error("Failed to create rate type", "error", err)
		return apperrors.Internal("Failed to create rate type", err)
	}

	s.cfg.Log.Info("Rate type created successfully", "id", rt.ID, "name", rt.Name)
	return nil
}

func (s *facilityService) GetRateTypeByID(ctx context.Context, id string) (*model.RateType, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Rate type ID cannot be empty")
	}

	rt, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, facilitieserrors.ErrRateTypeNotFound) {
			return nil, apperrors.NotFoundWithID("Rate type", id)
		}
		if errors.Is(err, facilitieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid rate type ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve rate type", err)
	}

	return rt, nil
}

func (s *facilityService) sanitizeType(ft *model.FacilityType) {
	ft.Name = sanitizer.TrimAndNormalize(ft.Name)

	if p := ft.CategoryMetadata.Hotel; p != nil {
		p.Amenities = sanitizer.NormalizeLabels(p.Amenities)
		p.Features = sanitizer.NormalizeLabels(p.Features)
	}
	if p := ft.CategoryMetadata.Gym; p != nil {
		p.Amenities = sanitizer.NormalizeLabels(p.Amenities)
		p.Features = sanitizer.NormalizeLabels(p.Features)
		p.EquipmentTypes = sanitizer.NormalizeLabels(p.EquipmentTypes)
	}
	if p := ft.CategoryMetadata.Restaurant; p != nil {
		p.Amenities = sanitizer.NormalizeLabels(p.Amenities)
		p.Features = sanitizer.NormalizeLabels(p.Features)
		p.CuisineTypes = sanitizer.NormalizeLabels(p.CuisineTypes)
	}
	if p := ft.CategoryMetadata.SportsCourt; p != nil {
		p.Amenities = sanitizer.NormalizeLabels(p.Amenities)
		p.Features = sanitizer.NormalizeLabels(p.Features)
	}
	if p := ft.CategoryMetadata.ConferenceRoom; p != nil {
		p.Amenities = sanitizer.NormalizeLabels(p.Amenities)
		p.Features = sanitizer.NormalizeLabels(p.Features)
	}
	if p := ft.CategoryMetadata.AmenitySpace; p != nil {
		p.Amenities = sanitizer.NormalizeLabels(p.Amenities)
	}
}
