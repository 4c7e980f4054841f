package service

import (
	"context"
	"testing"
	"time"

	facilitieserrors "bookery/internal/facilities/errors"
	facilityrepo "bookery/internal/facilities/repository"
	"bookery/pkg/config"
	apperrors "bookery/pkg/errors"
	"bookery/pkg/logger"
	"bookery/pkg/model"
)

type mockTypeRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.FacilityType, error)
}

func (m *mockTypeRepo) Create(ctx context.Context, ft *model.FacilityType) error { return nil }
func (m *mockTypeRepo) FindByID(ctx context.Context, id string) (*model.FacilityType, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockTypeRepo) FindByName(ctx context.Context, name string) (*model.FacilityType, error) {
	return nil, facilitieserrors.ErrTypeNotFound
}
func (m *mockTypeRepo) FindCandidates(ctx context.Context, q facilityrepo.TypeQuery) ([]*model.FacilityType, error) {
	return nil, nil
}

type mockRateRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.RateType, error)
}

func (m *mockRateRepo) Create(ctx context.Context, rt *model.RateType) error { return nil }
func (m *mockRateRepo) FindByID(ctx context.Context, id string) (*model.RateType, error) {
	return m.findByIDFn(ctx, id)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{Log: logger.New(logger.Config{Level: "error", Service: "pricing-test"})}
}

func day(d int) time.Time {
	return time.Date(2026, time.April, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculate_WorkedExample(t *testing.T) {
	// Two nights at 100, 5% discount then 10% tax: 200 - 10 = 190, +19 = 209.
	quote, err := Calculate(100, model.UnitNight, day(1), day(3), 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.Duration != 2 {
		t.Errorf("Duration = %d, want 2", quote.Duration)
	}
	if quote.Subtotal != 200 {
		t.Errorf("Subtotal = %v, want 200", quote.Subtotal)
	}
	if quote.DiscountAmount != 10 {
		t.Errorf("DiscountAmount = %v, want 10", quote.DiscountAmount)
	}
	if quote.TaxAmount != 19 {
		t.Errorf("TaxAmount = %v, want 19", quote.TaxAmount)
	}
	if quote.TotalAmount != 209 {
		t.Errorf("TotalAmount = %v, want 209", quote.TotalAmount)
	}
}

func TestCalculate_DurationRounding(t *testing.T) {
	tests := []struct {
		name       string
		unit       model.PricingUnit
		start, end time.Time
		want       int
	}{
		{"25 hours at day unit rounds up", model.UnitDay, day(1), day(2).Add(time.Hour), 2},
		{"exactly one night", model.UnitNight, day(1), day(2), 1},
		{"partial hour rounds up", model.UnitHour, day(1), day(1).Add(90 * time.Minute), 2},
		{"eight days at week unit", model.UnitWeek, day(1), day(9), 2},
		{"thirty days is one month", model.UnitMonth, day(1), time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), 1},
		{"sub-unit stay charges one unit", model.UnitNight, day(1), day(1).Add(2 * time.Hour), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := Calculate(50, tt.unit, tt.start, tt.end, 0, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if quote.Duration != tt.want {
				t.Errorf("Duration = %d, want %d", quote.Duration, tt.want)
			}
		})
	}
}

func TestCalculate_RoundingAtOutputOnly(t *testing.T) {
	// 3 nights at 33.335: exact subtotal 100.005 rounds to 100.01, while
	// discount and tax run on the unrounded value.
	quote, err := Calculate(33.335, model.UnitNight, day(1), day(4), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Subtotal != 100.01 {
		t.Errorf("Subtotal = %v, want 100.01", quote.Subtotal)
	}
	if quote.TotalAmount != 100.01 {
		t.Errorf("TotalAmount = %v, want 100.01", quote.TotalAmount)
	}
}

func TestCalculate_UnknownUnit(t *testing.T) {
	_, err := Calculate(100, model.PricingUnit("fortnight"), day(1), day(3), 0, 0)
	if err == nil {
		t.Fatal("expected error for unknown unit")
	}
}

func TestQuote_TypePriceWithLinkedRateType(t *testing.T) {
	svc := NewPricingService(
		&mockTypeRepo{findByIDFn: func(ctx context.Context, id string) (*model.FacilityType, error) {
			return &model.FacilityType{ID: id, Name: "deluxe", Price: 100, RateTypeID: "rate-1"}, nil
		}},
		&mockRateRepo{findByIDFn: func(ctx context.Context, id string) (*model.RateType, error) {
			return &model.RateType{ID: id, Name: "standard", DefaultTax: 10, DefaultDiscount: 5}, nil
		}},
		testConfig(t),
	)

	quote, err := svc.Quote(context.Background(), Input{
		FacilityTypeID: "665f1f77bcf86cd799439011",
		StartDate:      day(1),
		EndDate:        day(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.TotalAmount != 209 {
		t.Errorf("TotalAmount = %v, want 209", quote.TotalAmount)
	}
	if quote.Unit != model.UnitNight {
		t.Errorf("Unit = %s, want night default", quote.Unit)
	}
}

func TestQuote_OverrideBeatsTypePrice(t *testing.T) {
	svc := NewPricingService(
		&mockTypeRepo{findByIDFn: func(ctx context.Context, id string) (*model.FacilityType, error) {
			return &model.FacilityType{ID: id, Price: 100}, nil
		}},
		&mockRateRepo{findByIDFn: func(ctx context.Context, id string) (*model.RateType, error) {
			t.Fatal("rate repo must not be consulted without a rate type reference")
			return nil, nil
		}},
		testConfig(t),
	)

	override := 80.0
	quote, err := svc.Quote(context.Background(), Input{
		FacilityTypeID: "665f1f77bcf86cd799439011",
		BasePrice:      &override,
		StartDate:      day(1),
		EndDate:        day(2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.BasePrice != 80 {
		t.Errorf("BasePrice = %v, want the override 80", quote.BasePrice)
	}
}

func TestQuote_BareRateTypeRejected(t *testing.T) {
	svc := NewPricingService(
		&mockTypeRepo{findByIDFn: func(ctx context.Context, id string) (*model.FacilityType, error) {
			t.Fatal("type repo must not be consulted without a type reference")
			return nil, nil
		}},
		&mockRateRepo{findByIDFn: func(ctx context.Context, id string) (*model.RateType, error) {
			return &model.RateType{ID: id, DefaultTax: 10}, nil
		}},
		testConfig(t),
	)

	_, err := svc.Quote(context.Background(), Input{
		RateTypeID: "665f1f77bcf86cd799439012",
		StartDate:  day(1),
		EndDate:    day(3),
	})
	if err == nil {
		t.Fatal("expected validation error for a rate type without any price source")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestQuote_ExplicitRatesBeatRateType(t *testing.T) {
	svc := NewPricingService(
		&mockTypeRepo{findByIDFn: func(ctx context.Context, id string) (*model.FacilityType, error) {
			return &model.FacilityType{ID: id, Price: 100, RateTypeID: "rate-1"}, nil
		}},
		&mockRateRepo{findByIDFn: func(ctx context.Context, id string) (*model.RateType, error) {
			return &model.RateType{ID: id, DefaultTax: 10, DefaultDiscount: 5}, nil
		}},
		testConfig(t),
	)

	zero := 0.0
	quote, err := svc.Quote(context.Background(), Input{
		FacilityTypeID: "665f1f77bcf86cd799439011",
		StartDate:      day(1),
		EndDate:        day(3),
		TaxRate:        &zero,
		DiscountRate:   &zero,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.TotalAmount != 200 {
		t.Errorf("TotalAmount = %v, want 200 with explicit zero rates", quote.TotalAmount)
	}
}

func TestQuote_InvalidWindow(t *testing.T) {
	svc := NewPricingService(&mockTypeRepo{}, &mockRateRepo{}, testConfig(t))

	price := 100.0
	_, err := svc.Quote(context.Background(), Input{
		BasePrice: &price,
		StartDate: day(3),
		EndDate:   day(1),
	})
	if err == nil {
		t.Fatal("expected error for end before start")
	}
}
