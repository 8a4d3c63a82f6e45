package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careops/hms/internal/domain/doctor"
)

// DoctorGetter is the slice of the doctor repository the booking path needs.
type DoctorGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error)
}

// TxRunner executes fn inside a database transaction, making the transaction
// visible to repositories through the context.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	appointments Repository
	doctors      DoctorGetter
	tx           TxRunner
	now          func() time.Time
}

func NewService(appointments Repository, doctors DoctorGetter, tx TxRunner) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		tx:           tx,
		now:          time.Now,
	}
}

// Book creates a confirmed appointment. The availability pre-check and the
// insert run in one transaction; the requested slot must be one the
// availability computation would offer. The partial unique index on the
// appointment table is what actually prevents two concurrent bookings from
// both succeeding, so a lost race surfaces as ErrSlotTaken.
func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	day, err := time.Parse("2006-01-02", a.AppointmentDate)
	if err != nil {
		return fmt.Errorf("invalid appointment_date, want YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", a.AppointmentTime); err != nil {
		return fmt.Errorf("invalid appointment_time, want HH:MM")
	}

	d, err := s.doctors.GetByID(ctx, a.DoctorID)
	if err != nil {
		return fmt.Errorf("doctor not found")
	}
	if d.Status != doctor.StatusActive {
		return fmt.Errorf("doctor is not active")
	}

	return s.tx(ctx, func(ctx context.Context) error {
		existing, err := s.appointments.ListByDoctorDate(ctx, a.DoctorID, a.AppointmentDate)
		if err != nil {
			return err
		}
		available := ComputeAvailableSlots(d, day, existing, s.now())
		if !contains(available, a.AppointmentTime) {
			return fmt.Errorf("slot %s on %s is not available", a.AppointmentTime, a.AppointmentDate)
		}

		a.Status = StatusConfirmed
		if a.PaymentAmount == 0 {
			a.PaymentAmount = d.ConsultationFee
		}
		if a.PaymentStatus == "" {
			a.PaymentStatus = PaymentPending
		}
		return s.appointments.Create(ctx, a)
	})
}

// AvailableSlots computes the bookable slots for a doctor on a calendar day.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date, want YYYY-MM-DD")
	}
	d, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("doctor not found")
	}
	existing, err := s.appointments.ListByDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	return ComputeAvailableSlots(d, day, existing, s.now()), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

// Cancel marks a confirmed appointment cancelled, freeing its slot.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason *string) error {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Status != StatusConfirmed {
		return fmt.Errorf("appointment is %s, only confirmed appointments can be cancelled", a.Status)
	}
	a.Status = StatusCancelled
	if reason != nil {
		a.Reason = reason
	}
	return s.appointments.Update(ctx, a)
}

// Complete marks a confirmed appointment completed, optionally recording the
// payment taken at the desk.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, paymentMethod *string) error {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Status != StatusConfirmed {
		return fmt.Errorf("appointment is %s, only confirmed appointments can be completed", a.Status)
	}
	a.Status = StatusCompleted
	if paymentMethod != nil {
		a.PaymentMethod = paymentMethod
		a.PaymentStatus = PaymentPaid
	}
	return s.appointments.Update(ctx, a)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.Search(ctx, params, limit, offset)
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
