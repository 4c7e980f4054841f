package model

import "time"

// Facility is a single bookable unit (a room, court, table). It is referenced,
// never owned, by reservations and maintenance records.
type Facility struct {
	ID             string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name           string            `json:"name" bson:"name" validate:"required,min=1,max=100"`
	FacilityTypeID string            `json:"facility_type_id" bson:"facility_type_id" validate:"required,mongodb"`
	OrganizationID string            `json:"organization_id" bson:"organization_id" validate:"required,mongodb"`
	LocationID     string            `json:"location_id,omitempty" bson:"location_id,omitempty" validate:"omitempty,mongodb"`
	Metadata       map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Deleted        bool              `json:"deleted" bson:"deleted"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// FacilitySummary is the caller-facing projection returned in availability
// results.
type FacilitySummary struct {
	ID       string            `json:"id" bson:"_id"`
	Name     string            `json:"name" bson:"name"`
	Metadata map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
}
