package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Doctor statuses. A doctor registers as pending and is activated or
// rejected by an admin.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// DayHours is the working window for a single weekday, "HH:MM" 24h format.
type DayHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkingHours maps lowercase weekday names ("monday".."sunday") to the
// doctor's working window on that day. Absent days are non-working.
type WorkingHours map[string]DayHours

// Doctor maps to the doctor table. Working hours and blocked dates are
// stored as JSONB documents.
type Doctor struct {
	ID              uuid.UUID    `db:"id" json:"id"`
	FirstName       string       `db:"first_name" json:"first_name"`
	LastName        string       `db:"last_name" json:"last_name"`
	Specialization  string       `db:"specialization" json:"specialization"`
	Email           *string      `db:"email" json:"email,omitempty"`
	Phone           *string      `db:"phone" json:"phone,omitempty"`
	ConsultationFee float64      `db:"consultation_fee" json:"consultation_fee"`
	Status          string       `db:"status" json:"status"`
	SlotMinutes     int          `db:"slot_minutes" json:"slot_minutes"`
	WorkingHours    WorkingHours `db:"working_hours" json:"working_hours"`
	BlockedDates    []DateLike   `db:"blocked_dates" json:"blocked_dates"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// BlockedDateSet returns the doctor's blocked dates as a set of canonical
// YYYY-MM-DD strings. Entries that fail to normalize are dropped so that the
// empty string never matches a real date.
func (d *Doctor) BlockedDateSet() map[string]struct{} {
	set := make(map[string]struct{}, len(d.BlockedDates))
	for _, bd := range d.BlockedDates {
		if day := bd.Normalize(); day != "" {
			set[day] = struct{}{}
		}
	}
	return set
}

// IsBlocked reports whether the given calendar day is in the doctor's
// blocked-dates list.
func (d *Doctor) IsBlocked(day time.Time) bool {
	_, ok := d.BlockedDateSet()[day.Format("2006-01-02")]
	return ok
}
