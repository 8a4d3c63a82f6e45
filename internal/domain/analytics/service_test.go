package analytics

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockRecordSource struct {
	records []*PaymentRecord
	err     error
}

func (m *mockRecordSource) ListPaymentRecords(_ context.Context) ([]*PaymentRecord, error) {
	return m.records, m.err
}

func TestFinancialSnapshot(t *testing.T) {
	at := testNow.AddDate(0, 0, -1)
	src := &mockRecordSource{records: []*PaymentRecord{
		paidRecord(1200, at),
		pendingRecord(400, at),
	}}
	svc := NewService(src)
	svc.now = func() time.Time { return testNow }

	snap, err := svc.FinancialSnapshot(context.Background(), Range30Days)
	if err != nil {
		t.Fatalf("FinancialSnapshot: %v", err)
	}
	if snap.TotalRevenue != 1200 {
		t.Errorf("total = %v, want 1200", snap.TotalRevenue)
	}
	if snap.TimeRange != "30d" {
		t.Errorf("time_range = %s, want 30d", snap.TimeRange)
	}
}

func TestFinancialSnapshotSourceError(t *testing.T) {
	wantErr := errors.New("connection refused")
	svc := NewService(&mockRecordSource{err: wantErr})

	if _, err := svc.FinancialSnapshot(context.Background(), RangeAll); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want the source error surfaced", err)
	}
}
