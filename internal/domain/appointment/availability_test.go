package appointment

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/careops/hms/internal/domain/doctor"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return day
}

// 2025-03-17 is a Monday.
const monday = "2025-03-17"

func scheduledDoctor(slotMinutes int) *doctor.Doctor {
	return &doctor.Doctor{
		ID:          uuid.New(),
		Status:      doctor.StatusActive,
		SlotMinutes: slotMinutes,
		WorkingHours: doctor.WorkingHours{
			"monday": {Start: "09:00", End: "12:00"},
		},
	}
}

func TestComputeAvailableSlotsFullWindow(t *testing.T) {
	d := scheduledDoctor(30)
	farFuture := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	got := ComputeAvailableSlots(d, mustDay(t, monday), nil, farFuture)
	want := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}
}

func TestComputeAvailableSlotsExcludesBooked(t *testing.T) {
	d := scheduledDoctor(30)
	existing := []*Appointment{
		{DoctorID: d.ID, AppointmentDate: monday, AppointmentTime: "10:00", Status: StatusConfirmed},
	}
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	got := ComputeAvailableSlots(d, mustDay(t, monday), existing, now)
	want := []string{"09:00", "09:30", "10:30", "11:00", "11:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}
}

func TestComputeAvailableSlotsCancelledFreesSlot(t *testing.T) {
	d := scheduledDoctor(30)
	existing := []*Appointment{
		{DoctorID: d.ID, AppointmentDate: monday, AppointmentTime: "10:00", Status: StatusCancelled},
	}
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	got := ComputeAvailableSlots(d, mustDay(t, monday), existing, now)
	if len(got) != 6 {
		t.Errorf("got %d slots, want 6: cancelled bookings must not block", len(got))
	}
}

func TestComputeAvailableSlotsBlockedDate(t *testing.T) {
	d := scheduledDoctor(30)
	d.BlockedDates = []doctor.DateLike{doctor.NewDate(monday)}
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	got := ComputeAvailableSlots(d, mustDay(t, monday), nil, now)
	if len(got) != 0 {
		t.Errorf("blocked day returned %v, want no slots", got)
	}
}

func TestComputeAvailableSlotsTodayFiltersPast(t *testing.T) {
	d := scheduledDoctor(30)
	// It is 10:15 on the requested day: 09:00, 09:30 and 10:00 are gone.
	now := time.Date(2025, 3, 17, 10, 15, 0, 0, time.UTC)

	got := ComputeAvailableSlots(d, mustDay(t, monday), nil, now)
	want := []string{"10:30", "11:00", "11:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}
}

func TestComputeAvailableSlotsTodayBoundary(t *testing.T) {
	d := scheduledDoctor(30)
	// Exactly 10:30 now: the 10:30 slot has started and is excluded too.
	now := time.Date(2025, 3, 17, 10, 30, 0, 0, time.UTC)

	got := ComputeAvailableSlots(d, mustDay(t, monday), nil, now)
	want := []string{"11:00", "11:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}
}

func TestComputeAvailableSlotsFutureDayNotFiltered(t *testing.T) {
	d := scheduledDoctor(30)
	// Late in the evening the day before: tomorrow's slots all stand.
	now := time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC)

	got := ComputeAvailableSlots(d, mustDay(t, monday), nil, now)
	if len(got) != 6 {
		t.Errorf("got %d slots, want 6", len(got))
	}
}

func TestComputeAvailableSlotsMalformedConfig(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	day := mustDay(t, monday)

	cases := []struct {
		name string
		d    *doctor.Doctor
	}{
		{"no hours for weekday", &doctor.Doctor{SlotMinutes: 30, WorkingHours: doctor.WorkingHours{
			"tuesday": {Start: "09:00", End: "12:00"},
		}}},
		{"unparsable start", &doctor.Doctor{SlotMinutes: 30, WorkingHours: doctor.WorkingHours{
			"monday": {Start: "9am", End: "12:00"},
		}}},
		{"unparsable end", &doctor.Doctor{SlotMinutes: 30, WorkingHours: doctor.WorkingHours{
			"monday": {Start: "09:00", End: "noon"},
		}}},
		{"zero slot minutes", &doctor.Doctor{SlotMinutes: 0, WorkingHours: doctor.WorkingHours{
			"monday": {Start: "09:00", End: "12:00"},
		}}},
		{"end before start", &doctor.Doctor{SlotMinutes: 30, WorkingHours: doctor.WorkingHours{
			"monday": {Start: "12:00", End: "09:00"},
		}}},
		{"nil working hours", &doctor.Doctor{SlotMinutes: 30}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeAvailableSlots(tc.d, day, nil, now)
			if got == nil {
				t.Fatal("want empty slice, got nil")
			}
			if len(got) != 0 {
				t.Errorf("got %v, want no slots", got)
			}
		})
	}
}

func TestComputeAvailableSlotsPartialFit(t *testing.T) {
	// 45-minute slots in a 09:00-10:30 window: 09:00 and 09:45 fit, a third
	// slot would run past the end of the window.
	d := &doctor.Doctor{
		SlotMinutes: 45,
		WorkingHours: doctor.WorkingHours{
			"monday": {Start: "09:00", End: "10:30"},
		},
	}
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	got := ComputeAvailableSlots(d, mustDay(t, monday), nil, now)
	want := []string{"09:00", "09:45"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}
}

func TestComputeAvailableSlotsOtherDayBookingIgnored(t *testing.T) {
	d := scheduledDoctor(30)
	existing := []*Appointment{
		{DoctorID: d.ID, AppointmentDate: "2025-03-18", AppointmentTime: "10:00", Status: StatusConfirmed},
	}
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	got := ComputeAvailableSlots(d, mustDay(t, monday), existing, now)
	if len(got) != 6 {
		t.Errorf("got %d slots, want 6: bookings on other days must not block", len(got))
	}
}
