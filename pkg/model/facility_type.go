package model

import (
	"fmt"
	"time"
)

type FacilityCategory string

const (
	CategoryHotel          FacilityCategory = "HOTEL"
	CategoryGym            FacilityCategory = "GYM"
	CategoryRestaurant     FacilityCategory = "RESTAURANT"
	CategorySportsCourt    FacilityCategory = "SPORTS_COURT"
	CategoryConferenceRoom FacilityCategory = "CONFERENCE_ROOM"
	CategoryParking        FacilityCategory = "PARKING"
	CategoryAmenitySpace   FacilityCategory = "AMENITY_SPACE"
	CategoryOther          FacilityCategory = "OTHER"
)

// priceBands holds the allowed [min,max] base price per category.
var priceBands = map[FacilityCategory][2]float64{
	CategoryHotel:          {10, 10000},
	CategoryGym:            {1, 1000},
	CategoryRestaurant:     {1, 5000},
	CategorySportsCourt:    {1, 2000},
	CategoryConferenceRoom: {5, 5000},
	CategoryParking:        {1, 500},
	CategoryAmenitySpace:   {0, 1000},
	CategoryOther:          {0, 100000},
}

// FacilityType is a category of facility sharing pricing and metadata shape.
// CategoryMetadata is a tagged union: exactly the payload matching Category
// must be set.
type FacilityType struct {
	ID               string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name             string           `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Category         FacilityCategory `json:"category" bson:"category" validate:"required,oneof=HOTEL GYM RESTAURANT SPORTS_COURT CONFERENCE_ROOM PARKING AMENITY_SPACE OTHER"`
	Price            float64          `json:"price" bson:"price" validate:"omitempty,gte=0"`
	RateTypeID       string           `json:"rate_type_id,omitempty" bson:"rate_type_id,omitempty" validate:"omitempty,mongodb"`
	CategoryMetadata CategoryMetadata `json:"category_metadata" bson:"category_metadata"`
	CreatedAt        time.Time        `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type HotelMetadata struct {
	BedType      string   `json:"bed_type" bson:"bed_type" validate:"required,oneof=KING_BED QUEEN_BED DOUBLE_BED SINGLE_BED TWIN_BED BUNK_BED"`
	BedCount     int      `json:"bed_count" bson:"bed_count" validate:"required,min=1,max=10"`
	MaxOccupancy int      `json:"max_occupancy" bson:"max_occupancy" validate:"required,min=1,max=20"`
	RoomSizeSqm  float64  `json:"room_size_sqm,omitempty" bson:"room_size_sqm,omitempty" validate:"omitempty,gt=0"`
	Amenities    []string `json:"amenities,omitempty" bson:"amenities,omitempty"`
	Features     []string `json:"features,omitempty" bson:"features,omitempty"`
}

type GymMetadata struct {
	MaxCapacity    int      `json:"max_capacity" bson:"max_capacity" validate:"required,min=1"`
	EquipmentTypes []string `json:"equipment_types,omitempty" bson:"equipment_types,omitempty"`
	Amenities      []string `json:"amenities,omitempty" bson:"amenities,omitempty"`
	Features       []string `json:"features,omitempty" bson:"features,omitempty"`
}

type RestaurantMetadata struct {
	SeatingCapacity int      `json:"seating_capacity" bson:"seating_capacity" validate:"required,min=1"`
	CuisineTypes    []string `json:"cuisine_types,omitempty" bson:"cuisine_types,omitempty"`
	Amenities       []string `json:"amenities,omitempty" bson:"amenities,omitempty"`
	Features        []string `json:"features,omitempty" bson:"features,omitempty"`
}

type SportsCourtMetadata struct {
	SportType  string   `json:"sport_type" bson:"sport_type" validate:"required,min=2,max=50"`
	Surface    string   `json:"surface,omitempty" bson:"surface,omitempty"`
	Indoor     bool     `json:"indoor" bson:"indoor"`
	MaxPlayers int      `json:"max_players" bson:"max_players" validate:"required,min=1"`
	Amenities  []string `json:"amenities,omitempty" bson:"amenities,omitempty"`
	Features   []string `json:"features,omitempty" bson:"features,omitempty"`
}

type ConferenceRoomMetadata struct {
	MaxOccupancy int      `json:"max_occupancy" bson:"max_occupancy" validate:"required,min=1"`
	Amenities    []string `json:"amenities,omitempty" bson:"amenities,omitempty"`
	Features     []string `json:"features,omitempty" bson:"features,omitempty"`
}

type ParkingMetadata struct {
	VehicleType string `json:"vehicle_type" bson:"vehicle_type" validate:"required,oneof=CAR MOTORCYCLE TRUCK BUS"`
	Covered     bool   `json:"covered" bson:"covered"`
}

type AmenitySpaceMetadata struct {
	SpaceType    string   `json:"space_type" bson:"space_type" validate:"required,min=2,max=50"`
	MaxOccupancy int      `json:"max_occupancy" bson:"max_occupancy" validate:"required,min=1"`
	Amenities    []string `json:"amenities,omitempty" bson:"amenities,omitempty"`
}

type OtherMetadata struct {
	Description string `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
}

// CategoryMetadata carries exactly one per-category payload. The tag is the
// parent FacilityType's Category field; PayloadFor and CountSet enforce the
// tag/payload pairing.
type CategoryMetadata struct {
	Hotel          *HotelMetadata          `json:"hotel,omitempty" bson:"hotel,omitempty"`
	Gym            *GymMetadata            `json:"gym,omitempty" bson:"gym,omitempty"`
	Restaurant     *RestaurantMetadata     `json:"restaurant,omitempty" bson:"restaurant,omitempty"`
	SportsCourt    *SportsCourtMetadata    `json:"sports_court,omitempty" bson:"sports_court,omitempty"`
	ConferenceRoom *ConferenceRoomMetadata `json:"conference_room,omitempty" bson:"conference_room,omitempty"`
	Parking        *ParkingMetadata        `json:"parking,omitempty" bson:"parking,omitempty"`
	AmenitySpace   *AmenitySpaceMetadata   `json:"amenity_space,omitempty" bson:"amenity_space,omitempty"`
	Other          *OtherMetadata          `json:"other,omitempty" bson:"other,omitempty"`
}

// PayloadFor returns the payload matching the given category, or nil when the
// slot for that category is empty.
func (m *CategoryMetadata) PayloadFor(c FacilityCategory) any {
	switch c {
	case CategoryHotel:
		if m.Hotel != nil {
			return m.Hotel
		}
	case CategoryGym:
		if m.Gym != nil {
			return m.Gym
		}
	case CategoryRestaurant:
		if m.Restaurant != nil {
			return m.Restaurant
		}
	case CategorySportsCourt:
		if m.SportsCourt != nil {
			return m.SportsCourt
		}
	case CategoryConferenceRoom:
		if m.ConferenceRoom != nil {
			return m.ConferenceRoom
		}
	case CategoryParking:
		if m.Parking != nil {
			return m.Parking
		}
	case CategoryAmenitySpace:
		if m.AmenitySpace != nil {
			return m.AmenitySpace
		}
	case CategoryOther:
		if m.Other != nil {
			return m.Other
		}
	}
	return nil
}

// CountSet returns how many payload slots are populated.
func (m *CategoryMetadata) CountSet() int {
	n := 0
	if m.Hotel != nil {
		n++
	}
	if m.Gym != nil {
		n++
	}
	if m.Restaurant != nil {
		n++
	}
	if m.SportsCourt != nil {
		n++
	}
	if m.ConferenceRoom != nil {
		n++
	}
	if m.Parking != nil {
		n++
	}
	if m.AmenitySpace != nil {
		n++
	}
	if m.Other != nil {
		n++
	}
	return n
}

// PriceBand returns the allowed [min,max] base price range for a category.
func PriceBand(c FacilityCategory) (min, max float64, ok bool) {
	band, ok := priceBands[c]
	return band[0], band[1], ok
}

// CheckPriceBand rejects base prices outside the category's allowed range.
func (ft *FacilityType) CheckPriceBand() error {
	min, max, ok := PriceBand(ft.Category)
	if !ok {
		return fmt.Errorf("unknown facility category: %s", ft.Category)
	}
	if ft.Price < min || ft.Price > max {
		return fmt.Errorf("price %.2f outside allowed range [%.2f, %.2f] for category %s", ft.Price, min, max, ft.Category)
	}
	return nil
}

// Amenities returns the amenity list of the active payload, nil when the
// category has none.
func (ft *FacilityType) Amenities() []string {
	switch p := ft.CategoryMetadata.PayloadFor(ft.Category).(type) {
	case *HotelMetadata:
		return p.Amenities
	case *GymMetadata:
		return p.Amenities
	case *RestaurantMetadata:
		return p.Amenities
	case *SportsCourtMetadata:
		return p.Amenities
	case *ConferenceRoomMetadata:
		return p.Amenities
	case *AmenitySpaceMetadata:
		return p.Amenities
	}
	return nil
}

// Features returns the feature list of the active payload.
func (ft *FacilityType) Features() []string {
	switch p := ft.CategoryMetadata.PayloadFor(ft.Category).(type) {
	case *HotelMetadata:
		return p.Features
	case *GymMetadata:
		return p.Features
	case *RestaurantMetadata:
		return p.Features
	case *SportsCourtMetadata:
		return p.Features
	case *ConferenceRoomMetadata:
		return p.Features
	}
	return nil
}

// BedType returns the hotel bed type, empty for non-hotel categories.
func (ft *FacilityType) BedType() string {
	if p, ok := ft.CategoryMetadata.PayloadFor(ft.Category).(*HotelMetadata); ok {
		return p.BedType
	}
	return ""
}

// MaxOccupancy returns the occupancy limit of the active payload, 0 when the
// category does not define one.
func (ft *FacilityType) MaxOccupancy() int {
	switch p := ft.CategoryMetadata.PayloadFor(ft.Category).(type) {
	case *HotelMetadata:
		return p.MaxOccupancy
	case *GymMetadata:
		return p.MaxCapacity
	case *RestaurantMetadata:
		return p.SeatingCapacity
	case *SportsCourtMetadata:
		return p.MaxPlayers
	case *ConferenceRoomMetadata:
		return p.MaxOccupancy
	case *AmenitySpaceMetadata:
		return p.MaxOccupancy
	}
	return 0
}
