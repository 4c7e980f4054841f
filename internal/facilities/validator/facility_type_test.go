package validator

import (
	"strings"
	"testing"

	"bookery/pkg/logger"
	"bookery/pkg/model"
)

func testValidator(t *testing.T) *FacilityTypeValidator {
	t.Helper()
	return NewFacilityTypeValidator(logger.New(logger.Config{Level: "error", Service: "validator-test"}))
}

func hotelType() *model.FacilityType {
	return &model.FacilityType{
		Name:     "deluxe suite",
		Category: model.CategoryHotel,
		Price:    250,
		CategoryMetadata: model.CategoryMetadata{
			Hotel: &model.HotelMetadata{
				BedType:      "KING_BED",
				BedCount:     1,
				MaxOccupancy: 3,
			},
		},
	}
}

func TestFacilityTypeValidator_Valid(t *testing.T) {
	v := testValidator(t)

	if err := v.Validate(hotelType()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFacilityTypeValidator_CategoryPairing(t *testing.T) {
	v := testValidator(t)

	t.Run("no payload", func(t *testing.T) {
		ft := hotelType()
		ft.CategoryMetadata = model.CategoryMetadata{}

		err := v.Validate(ft)
		if err == nil {
			t.Fatal("expected error for empty metadata")
		}
		if !strings.Contains(err.Error(), "exactly one category payload") {
			t.Errorf("unexpected message: %v", err)
		}
	})

	t.Run("two payloads", func(t *testing.T) {
		ft := hotelType()
		ft.CategoryMetadata.Gym = &model.GymMetadata{MaxCapacity: 10}

		if err := v.Validate(ft); err == nil {
			t.Fatal("expected error for two payloads")
		}
	})

	t.Run("payload under the wrong category", func(t *testing.T) {
		ft := hotelType()
		ft.Category = model.CategoryGym
		ft.Price = 50

		err := v.Validate(ft)
		if err == nil {
			t.Fatal("expected error for a hotel payload on a gym type")
		}
		if !strings.Contains(err.Error(), "does not match category") {
			t.Errorf("unexpected message: %v", err)
		}
	})
}

func TestFacilityTypeValidator_PayloadFields(t *testing.T) {
	v := testValidator(t)

	ft := hotelType()
	ft.CategoryMetadata.Hotel.BedType = "WATER_BED"

	err := v.Validate(ft)
	if err == nil {
		t.Fatal("expected error for an unknown bed type")
	}
	if !strings.Contains(err.Error(), "BedType") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestFacilityTypeValidator_PriceBand(t *testing.T) {
	v := testValidator(t)

	tests := []struct {
		name    string
		price   float64
		wantErr bool
	}{
		{"lower bound", 10, false},
		{"upper bound", 10000, false},
		{"below band", 5, true},
		{"above band", 10001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := hotelType()
			ft.Price = tt.price

			err := v.Validate(ft)
			if tt.wantErr && err == nil {
				t.Fatalf("price %.2f should be outside the hotel band", tt.price)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
