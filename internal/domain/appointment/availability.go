package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/careops/hms/internal/domain/doctor"
)

// ComputeAvailableSlots returns the ordered list of bookable "HH:MM" slot
// start times for a doctor on the given calendar day.
//
// Candidate slots are stepped through the doctor's working window for that
// weekday by the doctor's slot length. A slot is removed when a confirmed
// appointment already starts at its time, and, when day is today in now's
// location, when its start is at or before now. Future days are never
// filtered by time of day.
//
// A day in the doctor's blocked-dates list yields no slots regardless of
// working hours. Malformed configuration (missing weekday, unparsable times,
// non-positive slot length) also yields an empty list rather than an error:
// callers always get something renderable.
func ComputeAvailableSlots(d *doctor.Doctor, day time.Time, existing []*Appointment, now time.Time) []string {
	slots := []string{}

	dayStr := day.Format("2006-01-02")
	if _, blocked := d.BlockedDateSet()[dayStr]; blocked {
		return slots
	}

	hours, ok := d.WorkingHours[strings.ToLower(day.Weekday().String())]
	if !ok {
		return slots
	}
	startMin, err := parseMinutes(hours.Start)
	if err != nil {
		return slots
	}
	endMin, err := parseMinutes(hours.End)
	if err != nil {
		return slots
	}
	if d.SlotMinutes <= 0 || endMin <= startMin {
		return slots
	}

	taken := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		if a.Status == StatusConfirmed && a.AppointmentDate == dayStr {
			taken[a.AppointmentTime] = struct{}{}
		}
	}

	isToday := dayStr == now.Format("2006-01-02")
	nowMin := now.Hour()*60 + now.Minute()

	for cur := startMin; cur+d.SlotMinutes <= endMin; cur += d.SlotMinutes {
		slot := fmt.Sprintf("%02d:%02d", cur/60, cur%60)
		if _, ok := taken[slot]; ok {
			continue
		}
		if isToday && cur <= nowMin {
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

func parseMinutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
