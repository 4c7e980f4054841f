package service

import (
	"context"
	"errors"
	"math"
	"time"

	facilitieserrors "bookery/internal/facilities/errors"
	facilityrepo "bookery/internal/facilities/repository"
	"bookery/pkg/config"
	apperrors "bookery/pkg/errors"
	"bookery/pkg/model"
)

// unitDurations maps each pricing unit to its length. A night and a day are
// both 24 hours; a month is a flat 30 days.
var unitDurations = map[model.PricingUnit]time.Duration{
	model.UnitHour:  time.Hour,
	model.UnitNight: 24 * time.Hour,
	model.UnitDay:   24 * time.Hour,
	model.UnitWeek:  7 * 24 * time.Hour,
	model.UnitMonth: 30 * 24 * time.Hour,
}

// Input carries everything Calculate needs. BasePrice overrides the facility
// type's price when set; RateTypeID overrides the type's linked rate type.
type Input struct {
	FacilityTypeID string            `json:"facility_type_id,omitempty"`
	BasePrice      *float64          `json:"base_price,omitempty"`
	RateTypeID     string            `json:"rate_type_id,omitempty"`
	Unit           model.PricingUnit `json:"unit,omitempty"`
	StartDate      time.Time         `json:"start_date"`
	EndDate        time.Time         `json:"end_date"`
	TaxRate        *float64          `json:"tax_rate,omitempty"`
	DiscountRate   *float64          `json:"discount_rate,omitempty"`
}

type PricingService interface {
	// Quote resolves the facility type and rate type when referenced, then
	// computes the price breakdown for the window.
	Quote(ctx context.Context, input Input) (*model.Quote, error)
}

type pricingService struct {
	typeRepo facilityrepo.FacilityTypeRepository
	rateRepo facilityrepo.RateTypeRepository
	cfg      *config.Config
}

func NewPricingService(
	typeRepo facilityrepo.FacilityTypeRepository,
	rateRepo facilityrepo.RateTypeRepository,
	cfg *config.Config,
) PricingService {
	return &pricingService{
		typeRepo: typeRepo,
		rateRepo: rateRepo,
		cfg:      cfg,
	}
}

func (s *pricingService) Quote(ctx context.Context, input Input) (*model.Quote, error) {
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, apperrors.InvalidInput("start_date and end_date are required")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, apperrors.InvalidInput("end_date must be after start_date")
	}

	basePrice := 0.0
	havePrice := false
	taxRate := 0.0
	discountRate := 0.0
	rateTypeID := input.RateTypeID

	if input.FacilityTypeID != "" {
		facilityType, err := s.typeRepo.FindByID(ctx, input.FacilityTypeID)
		if err != nil {
			if errors.Is(err, facilitieserrors.ErrTypeNotFound) {
				return nil, apperrors.NotFoundWithID("Facility type", input.FacilityTypeID)
			}
			if errors.Is(err, facilitieserrors.ErrInvalidID) {
				return nil, apperrors.InvalidInput("Invalid facility type ID format")
			}
			return nil, apperrors.Internal("Failed to resolve facility type", err)
		}
		basePrice = facilityType.Price
		havePrice = true
		if rateTypeID == "" {
			rateTypeID = facilityType.RateTypeID
		}
	}

	if input.BasePrice != nil {
		if *input.BasePrice < 0 {
			return nil, apperrors.InvalidInput("base_price must not be negative")
		}
		basePrice = *input.BasePrice
		havePrice = true
	}

	// A rate type alone carries tax and discount percentages, never a price.
	if !havePrice {
		return nil, apperrors.Validation("Pricing input is incomplete", map[string]any{
			"error": "a facility type or an explicit base_price is required",
		})
	}

	if rateTypeID != "" {
		rateType, err := s.rateRepo.FindByID(ctx, rateTypeID)
		if err != nil {
			if errors.Is(err, facilitieserrors.ErrRateTypeNotFound) {
				return nil, apperrors.NotFoundWithID("Rate type", rateTypeID)
			}
			if errors.Is(err, facilitieserrors.ErrInvalidID) {
				return nil, apperrors.InvalidInput("Invalid rate type ID format")
			}
			return nil, apperrors.Internal("Failed to resolve rate type", err)
		}
		taxRate = rateType.DefaultTax
		discountRate = rateType.DefaultDiscount
	}

	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	if input.DiscountRate != nil {
		discountRate = *input.DiscountRate
	}
	if taxRate < 0 || taxRate > 100 {
		return nil, apperrors.InvalidInput("tax_rate must be between 0 and 100")
	}
	if discountRate < 0 || discountRate > 100 {
		return nil, apperrors.InvalidInput("discount_rate must be between 0 and 100")
	}

	unit := input.Unit
	if unit == "" {
		unit = model.UnitNight
	}

	quote, err := Calculate(basePrice, unit, input.StartDate, input.EndDate, taxRate, discountRate)
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// Calculate is the pure pricing core. Duration is the number of whole units
// covering the window, rounded up; discount comes off the subtotal and tax
// applies to what remains. Intermediate math stays unrounded, the returned
// money fields are rounded to two decimals.
func Calculate(basePrice float64, unit model.PricingUnit, start, end time.Time, taxRate, discountRate float64) (*model.Quote, error) {
	unitLength, ok := unitDurations[unit]
	if !ok {
		return nil, apperrors.InvalidInput("unknown pricing unit: " + string(unit))
	}

	duration := int(math.Ceil(float64(end.Sub(start)) / float64(unitLength)))
	if duration < 1 {
		duration = 1
	}

	subtotal := basePrice * float64(duration)
	discountAmount := subtotal * discountRate / 100
	discounted := subtotal - discountAmount
	taxAmount := discounted * taxRate / 100
	total := discounted + taxAmount

	return &model.Quote{
		BasePrice:      round2(basePrice),
		Unit:           unit,
		Duration:       duration,
		Subtotal:       round2(subtotal),
		DiscountRate:   discountRate,
		DiscountAmount: round2(discountAmount),
		TaxRate:        taxRate,
		TaxAmount:      round2(taxAmount),
		TotalAmount:    round2(total),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
