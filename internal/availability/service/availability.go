package service

import (
	"context"
	"errors"
	"time"

	facilitieserrors "bookery/internal/facilities/errors"
	facilityrepo "bookery/internal/facilities/repository"
	reservationrepo "bookery/internal/reservations/repository"
	"bookery/pkg/config"
	apperrors "bookery/pkg/errors"
	"bookery/pkg/model"
	"bookery/pkg/sanitizer"
)

// FilterGroup is one conjunction of metadata conditions. Groups are OR'd
// together; conditions within a group must all hold.
type FilterGroup struct {
	Amenities    []string `json:"amenities,omitempty"`
	Features     []string `json:"features,omitempty"`
	BedType      string   `json:"bed_type,omitempty"`
	MaxOccupancy int      `json:"max_occupancy,omitempty"`
}

// Options narrows the candidate facility types. Name and price bounds are
// pushed into the query; Filters run in-process against the polymorphic
// category metadata.
type Options struct {
	TypeID   string        `json:"type_id,omitempty"`
	TypeName string        `json:"type_name,omitempty"`
	MinPrice *float64      `json:"min_price,omitempty"`
	MaxPrice *float64      `json:"max_price,omitempty"`
	Filters  []FilterGroup `json:"filters,omitempty"`
}

// TypeAvailability is the per-type aggregate for one queried window.
type TypeAvailability struct {
	FacilityType        *model.FacilityType     `json:"facility_type"`
	TotalCount          int                     `json:"total_count"`
	AvailableCount      int                     `json:"available_count"`
	ReservedCount       int                     `json:"reserved_count"`
	MaintenanceCount    int                     `json:"maintenance_count"`
	IsAvailable         bool                    `json:"is_available"`
	AvailableFacilities []model.FacilitySummary `json:"available_facilities"`
}

type AvailabilityService interface {
	// CheckAllFacilityTypes computes availability for every candidate type
	// over the inclusive [start, end] window. Three batched reads after type
	// resolution regardless of how many types or facilities exist.
	CheckAllFacilityTypes(ctx context.Context, start, end time.Time, opts Options) ([]TypeAvailability, error)
}

type availabilityService struct {
	typeRepo        facilityrepo.FacilityTypeRepository
	facilityRepo    facilityrepo.FacilityRepository
	maintRepo       facilityrepo.MaintenanceRepository
	reservationRepo reservationrepo.ReservationRepository
	cfg             *config.Config
}

func NewAvailabilityService(
	typeRepo facilityrepo.FacilityTypeRepository,
	facilityRepo facilityrepo.FacilityRepository,
	maintRepo facilityrepo.MaintenanceRepository,
	reservationRepo reservationrepo.ReservationRepository,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		typeRepo:        typeRepo,
		facilityRepo:    facilityRepo,
		maintRepo:       maintRepo,
		reservationRepo: reservationRepo,
		cfg:             cfg,
	}
}

func (s *availabilityService) CheckAllFacilityTypes(ctx context.Context, start, end time.Time, opts Options) ([]TypeAvailability, error) {
	if end.Before(start) {
		return nil, apperrors.InvalidInput("end_date must not be before start_date")
	}

	types, err := s.typeRepo.FindCandidates(ctx, facilityrepo.TypeQuery{
		ID:       opts.TypeID,
		Name:     sanitizer.TrimAndNormalize(opts.TypeName),
		MinPrice: opts.MinPrice,
		MaxPrice: opts.MaxPrice,
	})
	if err != nil {
		if errors.Is(err, facilitieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid facility type ID format")
		}
		return nil, apperrors.Internal("Failed to resolve facility types", err)
	}

	types = filterTypes(types, normalizeFilters(opts.Filters))
	if len(types) == 0 {
		return []TypeAvailability{}, nil
	}

	typeIDs := make([]string, 0, len(types))
	for _, ft := range types {
		typeIDs = append(typeIDs, ft.ID)
	}

	facilities, err := s.facilityRepo.FindByTypeIDs(ctx, typeIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to load facilities", err)
	}

	facilityIDs := make([]string, 0, len(facilities))
	for _, f := range facilities {
		facilityIDs = append(facilityIDs, f.ID)
	}

	reservations, err := s.reservationRepo.FindOverlapping(ctx, start, end)
	if err != nil {
		return nil, apperrors.Internal("Failed to load overlapping reservations", err)
	}

	var maintenance []*model.MaintenanceRecord
	if len(facilityIDs) > 0 {
		maintenance, err = s.maintRepo.FindBlocking(ctx, start, end, facilityIDs)
		if err != nil {
			return nil, apperrors.Internal("Failed to load maintenance records", err)
		}
	}

	reservedIDs := make(map[string]struct{})
	typeLevelCounts := make(map[string]int)
	for _, res := range reservations {
		if res.FacilityID != "" {
			reservedIDs[res.FacilityID] = struct{}{}
			continue
		}
		if res.FacilityTypeName != "" {
			typeLevelCounts[res.FacilityTypeName]++
		}
	}

	maintenanceIDs := make(map[string]struct{})
	for _, rec := range maintenance {
		maintenanceIDs[rec.FacilityID] = struct{}{}
	}

	byType := make(map[string][]*model.Facility)
	for _, f := range facilities {
		byType[f.FacilityTypeID] = append(byType[f.FacilityTypeID], f)
	}

	results := make([]TypeAvailability, 0, len(types))
	for _, ft := range types {
		results = append(results, s.aggregateType(ft, byType[ft.ID], reservedIDs, maintenanceIDs, typeLevelCounts[ft.Name]))
	}
	return results, nil
}

func (s *availabilityService) aggregateType(
	ft *model.FacilityType,
	units []*model.Facility,
	reservedIDs, maintenanceIDs map[string]struct{},
	typeLevel int,
) TypeAvailability {
	result := TypeAvailability{
		FacilityType:        ft,
		TotalCount:          len(units),
		AvailableFacilities: []model.FacilitySummary{},
	}

	var free []*model.Facility
	for _, f := range units {
		_, reserved := reservedIDs[f.ID]
		_, underMaintenance := maintenanceIDs[f.ID]
		if reserved {
			result.ReservedCount++
		}
		if underMaintenance {
			result.MaintenanceCount++
		}
		if !reserved && !underMaintenance {
			free = append(free, f)
		}
	}

	// Type-level reservations hold no specific unit but still consume
	// capacity from the aggregate.
	result.ReservedCount += typeLevel

	available := len(free) - typeLevel
	if available < 0 {
		available = 0
	}
	result.AvailableCount = available
	result.IsAvailable = available > 0

	for _, f := range free[:available] {
		result.AvailableFacilities = append(result.AvailableFacilities, model.FacilitySummary{
			ID:       f.ID,
			Name:     f.Name,
			Metadata: f.Metadata,
		})
	}

	return result
}

func normalizeFilters(groups []FilterGroup) []FilterGroup {
	normalized := make([]FilterGroup, 0, len(groups))
	for _, g := range groups {
		normalized = append(normalized, FilterGroup{
			Amenities:    sanitizer.NormalizeLabels(g.Amenities),
			Features:     sanitizer.NormalizeLabels(g.Features),
			BedType:      g.BedType,
			MaxOccupancy: g.MaxOccupancy,
		})
	}
	return normalized
}

// filterTypes keeps the types matching at least one filter group; every
// condition inside a group must hold. No groups means no filtering.
func filterTypes(types []*model.FacilityType, groups []FilterGroup) []*model.FacilityType {
	if len(groups) == 0 {
		return types
	}

	var matched []*model.FacilityType
	for _, ft := range types {
		for _, g := range groups {
			if matchesGroup(ft, g) {
				matched = append(matched, ft)
				break
			}
		}
	}
	return matched
}

func matchesGroup(ft *model.FacilityType, g FilterGroup) bool {
	if len(g.Amenities) > 0 && !containsAll(ft.Amenities(), g.Amenities) {
		return false
	}
	if len(g.Features) > 0 && !containsAll(ft.Features(), g.Features) {
		return false
	}
	if g.BedType != "" && ft.BedType() != g.BedType {
		return false
	}
	if g.MaxOccupancy > 0 && ft.MaxOccupancy() < g.MaxOccupancy {
		return false
	}
	return true
}

func containsAll(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[sanitizer.NormalizeLabel(h)] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
