package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrSlotTaken is returned when a confirmed appointment already holds the
// requested (doctor, date, time) slot. The database's partial unique index is
// the authority; this error is the mapped constraint violation.
var ErrSlotTaken = errors.New("slot already booked")

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByDoctorDate(ctx context.Context, doctorID uuid.UUID, date string) ([]*Appointment, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error)
}
