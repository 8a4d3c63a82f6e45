package billing

import (
	"time"

	"github.com/google/uuid"
)

// Record types.
const (
	TypeAdmission   = "admission"
	TypeAppointment = "appointment"
)

// Record statuses.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusVoid    = "void"
)

// ChargeItem is a single line on an invoice.
type ChargeItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Record maps to the billing_record table: a unified invoice covering either
// an admission or an appointment. status=paid implies paid_at is set; the
// two are stamped in the same statement.
type Record struct {
	ID            uuid.UUID    `db:"id" json:"id"`
	Type          string       `db:"type" json:"type"`
	PatientID     uuid.UUID    `db:"patient_id" json:"patient_id"`
	DoctorID      *uuid.UUID   `db:"doctor_id" json:"doctor_id,omitempty"`
	AppointmentID *uuid.UUID   `db:"appointment_id" json:"appointment_id,omitempty"`
	Items         []ChargeItem `db:"items" json:"items"`
	TotalAmount   float64      `db:"total_amount" json:"total_amount"`
	Status        string       `db:"status" json:"status"`
	PaymentMethod *string      `db:"payment_method" json:"payment_method,omitempty"`
	GeneratedAt   time.Time    `db:"generated_at" json:"generated_at"`
	PaidAt        *time.Time   `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// SumItems returns the total of the itemized charges.
func (r *Record) SumItems() float64 {
	var sum float64
	for _, it := range r.Items {
		sum += it.Amount
	}
	return sum
}
