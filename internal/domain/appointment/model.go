package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Appointment maps to the appointment table. The calendar date and slot time
// are stored as the canonical strings the rest of the system compares on
// ("2006-01-02" and "15:04").
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	AppointmentDate string    `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string    `db:"appointment_time" json:"appointment_time"`
	Status          string    `db:"status" json:"status"`
	Reason          *string   `db:"reason" json:"reason,omitempty"`
	PaymentAmount   float64   `db:"payment_amount" json:"payment_amount"`
	PaymentStatus   string    `db:"payment_status" json:"payment_status"`
	PaymentMethod   *string   `db:"payment_method" json:"payment_method,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
