package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateFee(ctx context.Context, id uuid.UUID, fee float64) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Doctor, int, error)
}
