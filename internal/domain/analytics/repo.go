package analytics

import "context"

// RecordSource loads the unified payment history the aggregator works over.
type RecordSource interface {
	ListPaymentRecords(ctx context.Context) ([]*PaymentRecord, error)
}
