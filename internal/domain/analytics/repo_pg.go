package analytics

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careops/hms/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) RecordSource { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// ListPaymentRecords unions invoices and appointment payments into one
// stream. Void invoices and cancelled appointments carry no revenue and are
// excluded at the source.
func (r *repoPG) ListPaymentRecords(ctx context.Context) ([]*PaymentRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT b.total_amount, b.status, b.generated_at, b.paid_at,
		       b.doctor_id, COALESCE(d.first_name || ' ' || d.last_name, ''),
		       COALESCE(d.specialization, ''), 'billing'
		FROM billing_record b
		LEFT JOIN doctor d ON d.id = b.doctor_id
		WHERE b.status IN ('paid', 'pending')
		UNION ALL
		SELECT a.payment_amount, a.payment_status, a.created_at,
		       CASE WHEN a.payment_status = 'paid' THEN a.updated_at END,
		       a.doctor_id, COALESCE(d.first_name || ' ' || d.last_name, ''),
		       COALESCE(d.specialization, ''), 'appointment'
		FROM appointment a
		LEFT JOIN doctor d ON d.id = a.doctor_id
		WHERE a.status <> 'cancelled' AND a.payment_status IN ('paid', 'pending')`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*PaymentRecord
	for rows.Next() {
		var rec PaymentRecord
		if err := rows.Scan(&rec.Amount, &rec.Status, &rec.GeneratedAt, &rec.PaidAt,
			&rec.DoctorID, &rec.DoctorName, &rec.Specialization, &rec.Source); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
