package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusActive: true, StatusInactive: true,
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

type Service struct {
	doctors Repository
}

func NewService(doctors Repository) *Service {
	return &Service{doctors: doctors}
}

// Register creates a doctor in the pending state awaiting admin approval.
func (s *Service) Register(ctx context.Context, d *Doctor) error {
	if d.FirstName == "" {
		return fmt.Errorf("first_name is required")
	}
	if d.LastName == "" {
		return fmt.Errorf("last_name is required")
	}
	if d.Specialization == "" {
		return fmt.Errorf("specialization is required")
	}
	if d.ConsultationFee < 0 {
		return fmt.Errorf("consultation_fee must not be negative")
	}
	if d.SlotMinutes == 0 {
		d.SlotMinutes = 30
	}
	if d.WorkingHours != nil {
		if err := validateWorkingHours(d.WorkingHours); err != nil {
			return err
		}
	}
	d.Status = StatusPending
	return s.doctors.Create(ctx, d)
}

// Approve activates a pending doctor.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) error {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.Status != StatusPending {
		return fmt.Errorf("doctor is %s, only pending doctors can be approved", d.Status)
	}
	return s.doctors.UpdateStatus(ctx, id, StatusActive)
}

// Reject deactivates a pending doctor.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.Status != StatusPending {
		return fmt.Errorf("doctor is %s, only pending doctors can be rejected", d.Status)
	}
	return s.doctors.UpdateStatus(ctx, id, StatusInactive)
}

func (s *Service) UpdateFee(ctx context.Context, id uuid.UUID, fee float64) error {
	if fee < 0 {
		return fmt.Errorf("consultation_fee must not be negative")
	}
	return s.doctors.UpdateFee(ctx, id, fee)
}

// SetWorkingHours replaces the doctor's weekly working hours and slot length.
func (s *Service) SetWorkingHours(ctx context.Context, id uuid.UUID, hours WorkingHours, slotMinutes int) error {
	if err := validateWorkingHours(hours); err != nil {
		return err
	}
	if slotMinutes <= 0 {
		return fmt.Errorf("slot_minutes must be positive")
	}
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	d.WorkingHours = hours
	d.SlotMinutes = slotMinutes
	return s.doctors.Update(ctx, d)
}

// AddBlockedDate marks a calendar day unavailable. The entry may arrive in
// any of the accepted legacy shapes; it is stored normalized.
func (s *Service) AddBlockedDate(ctx context.Context, id uuid.UUID, entry DateLike) error {
	day := entry.Normalize()
	if day == "" {
		return fmt.Errorf("unrecognized blocked date")
	}
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, ok := d.BlockedDateSet()[day]; ok {
		return nil
	}
	d.BlockedDates = append(d.BlockedDates, NewDate(day))
	return s.doctors.Update(ctx, d)
}

// RemoveBlockedDate unblocks a calendar day.
func (s *Service) RemoveBlockedDate(ctx context.Context, id uuid.UUID, day string) error {
	if normalizeDateString(day) == "" {
		return fmt.Errorf("invalid date, want YYYY-MM-DD")
	}
	day = normalizeDateString(day)
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	kept := d.BlockedDates[:0]
	for _, bd := range d.BlockedDates {
		if bd.Normalize() != day {
			kept = append(kept, bd)
		}
	}
	d.BlockedDates = kept
	return s.doctors.Update(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.doctors.Delete(ctx, id)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error) {
	if status, ok := params["status"]; ok && !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid status: %s", status)
	}
	return s.doctors.Search(ctx, params, limit, offset)
}

func validateWorkingHours(hours WorkingHours) error {
	for day, h := range hours {
		if !weekdays[day] {
			return fmt.Errorf("invalid weekday: %s", day)
		}
		start, err := time.Parse("15:04", h.Start)
		if err != nil {
			return fmt.Errorf("%s: invalid start time %q", day, h.Start)
		}
		end, err := time.Parse("15:04", h.End)
		if err != nil {
			return fmt.Errorf("%s: invalid end time %q", day, h.End)
		}
		if !start.Before(end) {
			return fmt.Errorf("%s: start %s must be before end %s", day, h.Start, h.End)
		}
	}
	return nil
}
