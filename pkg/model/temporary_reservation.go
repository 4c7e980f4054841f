package model

import "time"

type HoldStatus string

const (
	HoldPending   HoldStatus = "PENDING"
	HoldConfirmed HoldStatus = "CONFIRMED"
	HoldCancelled HoldStatus = "CANCELLED"
	HoldExpired   HoldStatus = "EXPIRED"
)

// holdTransitions: PENDING is the only live state; the rest are terminal.
var holdTransitions = map[HoldStatus][]HoldStatus{
	HoldPending:   {HoldConfirmed, HoldCancelled, HoldExpired},
	HoldConfirmed: {},
	HoldCancelled: {},
	HoldExpired:   {},
}

// ValidHoldTransition reports whether a hold may move between two statuses.
func ValidHoldTransition(from, to HoldStatus) bool {
	for _, allowed := range holdTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TemporaryReservation is a short-lived soft lock a front-desk operator takes
// on a facility (or facility type) and date range while walking a guest
// through checkout. It expires at ExpiresAt unless confirmed or cancelled
// first; terminal holds are never mutated again.
type TemporaryReservation struct {
	ID               string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FacilityID       string     `json:"facility_id,omitempty" bson:"facility_id,omitempty" validate:"omitempty,mongodb"`
	FacilityTypeName string     `json:"facility_type_name,omitempty" bson:"facility_type_name,omitempty" validate:"omitempty,min=2,max=100"`
	OrganizationID   string     `json:"organization_id" bson:"organization_id" validate:"required,mongodb"`
	UserID           string     `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	FrontdeskUserID  string     `json:"frontdesk_user_id" bson:"frontdesk_user_id" validate:"required,mongodb"`
	SessionID        string     `json:"session_id" bson:"session_id" validate:"required"`
	StartDate        time.Time  `json:"start_date" bson:"start_date" validate:"required"`
	EndDate          time.Time  `json:"end_date" bson:"end_date" validate:"required,gtefield=StartDate"`
	Guests           int        `json:"guests" bson:"guests" validate:"omitempty,min=1,max=100"`
	Status           HoldStatus `json:"status" bson:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED EXPIRED"`
	ExpiresAt        time.Time  `json:"expires_at" bson:"expires_at" validate:"omitempty"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Active reports whether the hold still blocks competing holds: PENDING and
// not yet past its expiry.
func (t *TemporaryReservation) Active(now time.Time) bool {
	return t.Status == HoldPending && t.ExpiresAt.After(now)
}
