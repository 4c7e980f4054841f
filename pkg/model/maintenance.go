package model

import "time"

type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "PENDING"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceCancelled  MaintenanceStatus = "CANCELLED"
)

// BlockingMaintenanceStatuses are the statuses under which a maintenance
// record excludes its facility from availability.
var BlockingMaintenanceStatuses = []MaintenanceStatus{MaintenancePending, MaintenanceInProgress}

// MaintenanceRecord marks a window during which a facility cannot be booked.
// Three window shapes exist: StartDate+EndDate (a range), StartDate with nil
// EndDate (open-ended, blocks everything from StartDate on), and a bare Date
// (single-day marker).
type MaintenanceRecord struct {
	ID          string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FacilityID  string            `json:"facility_id" bson:"facility_id" validate:"required,mongodb"`
	Status      MaintenanceStatus `json:"status" bson:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Date        *time.Time        `json:"date,omitempty" bson:"date,omitempty"`
	StartDate   *time.Time        `json:"start_date,omitempty" bson:"start_date,omitempty"`
	EndDate     *time.Time        `json:"end_date,omitempty" bson:"end_date,omitempty"`
	Description string            `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BlocksWindow evaluates the maintenance overlap rules in-process, mirroring
// the repository query filter. Used for post-load checks and tests.
func (m *MaintenanceRecord) BlocksWindow(start, end time.Time) bool {
	blocking := false
	for _, s := range BlockingMaintenanceStatuses {
		if m.Status == s {
			blocking = true
			break
		}
	}
	if !blocking {
		return false
	}

	switch {
	case m.StartDate != nil && m.EndDate != nil:
		return !m.StartDate.After(end) && !m.EndDate.Before(start)
	case m.StartDate != nil:
		// Open-ended: blocks every window that reaches StartDate.
		return !m.StartDate.After(end)
	case m.Date != nil:
		return !m.Date.Before(start) && !m.Date.After(end)
	}
	return false
}
