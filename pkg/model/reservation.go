package model

import "time"

type ReservationStatus string

const (
	ReservationProcessing ReservationStatus = "PROCESSING"
	ReservationReserved   ReservationStatus = "RESERVED"
	ReservationCheckedIn  ReservationStatus = "CHECKED_IN"
	ReservationCheckedOut ReservationStatus = "CHECKED_OUT"
	ReservationCancelled  ReservationStatus = "CANCELLED"
	ReservationNoShow     ReservationStatus = "NO_SHOW"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
	PaymentFailed   PaymentStatus = "FAILED"
)

// BlockingStatuses are the reservation statuses that make a facility
// unavailable for an overlapping window.
var BlockingStatuses = []ReservationStatus{ReservationReserved, ReservationCheckedIn}

// statusTransitions is the allowed reservation lifecycle.
var statusTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationProcessing: {ReservationReserved, ReservationCancelled},
	ReservationReserved:   {ReservationCheckedIn, ReservationCancelled, ReservationNoShow},
	ReservationCheckedIn:  {ReservationCheckedOut},
	ReservationCheckedOut: {},
	ReservationCancelled:  {},
	ReservationNoShow:     {},
}

// ValidStatusTransition reports whether a reservation may move from one
// status to another.
func ValidStatusTransition(from, to ReservationStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TerminalStatus reports whether a reservation status admits no further
// transitions.
func TerminalStatus(s ReservationStatus) bool {
	next, known := statusTransitions[s]
	return known && len(next) == 0
}

// Reservation is the booking record. Exactly one of FacilityID or
// FacilityTypeName drives availability: a type-name reservation is a request
// for "any unit of this type" until auto-assignment binds a facility.
//
// ReservationDate/ReservationEndDate form the blocking window used for all
// conflict detection; CheckInDate/CheckOutDate record the actual stay and
// never affect overlap computation.
type Reservation struct {
	ID               string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FacilityID       string            `json:"facility_id,omitempty" bson:"facility_id,omitempty" validate:"omitempty,mongodb"`
	FacilityTypeName string            `json:"facility_type_name,omitempty" bson:"facility_type_name,omitempty" validate:"omitempty,min=2,max=100"`
	OrganizationID   string            `json:"organization_id" bson:"organization_id" validate:"required,mongodb"`
	UserID           string            `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	ReservationDate  time.Time         `json:"reservation_date" bson:"reservation_date" validate:"required"`
	ReservationEnd   time.Time         `json:"reservation_end_date" bson:"reservation_end_date" validate:"required,gtefield=ReservationDate"`
	CheckInDate      *time.Time        `json:"check_in_date,omitempty" bson:"check_in_date,omitempty"`
	CheckOutDate     *time.Time        `json:"check_out_date,omitempty" bson:"check_out_date,omitempty"`
	Guests           int               `json:"guests" bson:"guests" validate:"omitempty,min=1,max=100"`
	Status           ReservationStatus `json:"status" bson:"status" validate:"required,oneof=PROCESSING RESERVED CHECKED_IN CHECKED_OUT CANCELLED NO_SHOW"`
	PaymentStatus    PaymentStatus     `json:"payment_status,omitempty" bson:"payment_status,omitempty" validate:"omitempty,oneof=PENDING PAID REFUNDED FAILED"`
	PricingSnapshot  *Quote            `json:"pricing_snapshot,omitempty" bson:"pricing_snapshot,omitempty"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Assigned reports whether a specific facility is bound yet.
func (r *Reservation) Assigned() bool {
	return r.FacilityID != ""
}

// OverlapsWindow evaluates the inclusive overlap predicate in-process,
// mirroring the repository query filter: the reservation is in a blocking
// status and its window touches [start, end].
func (r *Reservation) OverlapsWindow(start, end time.Time) bool {
	if !r.Blocking() {
		return false
	}
	return !r.ReservationDate.After(end) && !r.ReservationEnd.Before(start)
}

// Blocking reports whether the reservation excludes its facility from
// availability.
func (r *Reservation) Blocking() bool {
	for _, s := range BlockingStatuses {
		if r.Status == s {
			return true
		}
	}
	return false
}
