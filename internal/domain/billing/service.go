package billing

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
)

var validTypes = map[string]bool{
	TypeAdmission: true, TypeAppointment: true,
}

type Service struct {
	records Repository
}

func NewService(records Repository) *Service {
	return &Service{records: records}
}

// Create generates a pending invoice. The total is derived from the itemized
// charges when not supplied; when both are present they must agree.
func (s *Service) Create(ctx context.Context, rec *Record) error {
	if !validTypes[rec.Type] {
		return fmt.Errorf("invalid billing type: %s", rec.Type)
	}
	if rec.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if len(rec.Items) == 0 {
		return fmt.Errorf("at least one charge item is required")
	}
	for _, it := range rec.Items {
		if it.Amount < 0 {
			return fmt.Errorf("charge amount must not be negative")
		}
	}
	itemTotal := rec.SumItems()
	if rec.TotalAmount == 0 {
		rec.TotalAmount = itemTotal
	} else if math.Abs(rec.TotalAmount-itemTotal) > 0.01 {
		return fmt.Errorf("total_amount %.2f does not match item sum %.2f", rec.TotalAmount, itemTotal)
	}
	rec.Status = StatusPending
	return s.records.Create(ctx, rec)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.records.GetByID(ctx, id)
}

// MarkPaid settles a pending invoice.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, method string) error {
	if method == "" {
		return fmt.Errorf("payment_method is required")
	}
	return s.records.MarkPaid(ctx, id, method)
}

// Void cancels a pending invoice. Paid invoices cannot be voided.
func (s *Service) Void(ctx context.Context, id uuid.UUID) error {
	return s.records.Void(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	return s.records.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Record, int, error) {
	return s.records.Search(ctx, params, limit, offset)
}
