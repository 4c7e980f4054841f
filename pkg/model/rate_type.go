package model

import "time"

// RateType is a named tax/discount policy, optionally linked from a
// FacilityType. Percentages, not absolute amounts.
type RateType struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name            string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	DefaultTax      float64   `json:"default_tax" bson:"default_tax" validate:"gte=0,lte=100"`
	DefaultDiscount float64   `json:"default_discount" bson:"default_discount" validate:"gte=0,lte=100"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
