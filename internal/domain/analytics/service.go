package analytics

import (
	"context"
	"time"
)

type Service struct {
	source RecordSource
	now    func() time.Time
}

func NewService(source RecordSource) *Service {
	return &Service{source: source, now: time.Now}
}

// FinancialSnapshot loads the full payment history and computes the
// snapshot for the requested range. Source errors are returned to the
// caller rather than degraded into a partial result.
func (s *Service) FinancialSnapshot(ctx context.Context, rng TimeRange) (*Snapshot, error) {
	records, err := s.source.ListPaymentRecords(ctx)
	if err != nil {
		return nil, err
	}
	return Compute(records, rng, s.now()), nil
}
