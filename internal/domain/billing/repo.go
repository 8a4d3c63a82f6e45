package billing

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	MarkPaid(ctx context.Context, id uuid.UUID, method string) error
	Void(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Record, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Record, int, error)
}
