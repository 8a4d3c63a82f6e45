package analytics

import (
	"time"

	"github.com/google/uuid"
)

// PaymentRecord is the unified read model the aggregator consumes: one row
// per billable event, whether it came from a billing record or an
// appointment payment.
type PaymentRecord struct {
	Amount         float64    `json:"amount"`
	Status         string     `json:"status"` // paid | pending
	GeneratedAt    time.Time  `json:"generated_at"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	DoctorID       *uuid.UUID `json:"doctor_id,omitempty"`
	DoctorName     string     `json:"doctor_name"`
	Specialization string     `json:"specialization"`
	Source         string     `json:"source"` // billing | appointment
}

// Snapshot is the full financial analytics result for one time range.
type Snapshot struct {
	TimeRange          string              `json:"time_range"`
	TotalRevenue       float64             `json:"total_revenue"`
	WeeklyRevenue      float64             `json:"weekly_revenue"`
	MonthlyRevenue     float64             `json:"monthly_revenue"`
	PendingAmount      float64             `json:"pending_amount"`
	OverdueAmount      float64             `json:"overdue_amount"`
	CollectionRate     float64             `json:"collection_rate"`
	TransactionCount   int                 `json:"transaction_count"`
	RevenueByDoctor    []DoctorRevenue     `json:"revenue_by_doctor"`
	RevenueBySpecialty []SpecialtyRevenue  `json:"revenue_by_specialty"`
	MonthlyTrend       []MonthPoint        `json:"monthly_trend"`
	Forecast           Forecast            `json:"forecast"`
	Seasons            []SeasonStats       `json:"seasons"`
	Anomalies          []Anomaly           `json:"anomalies"`
}

// DoctorRevenue is one entry in the top-doctors ranking.
type DoctorRevenue struct {
	DoctorID   uuid.UUID `json:"doctor_id"`
	DoctorName string    `json:"doctor_name"`
	Revenue    float64   `json:"revenue"`
}

// SpecialtyRevenue is paid revenue accumulated per specialization.
type SpecialtyRevenue struct {
	Specialization string  `json:"specialization"`
	Revenue        float64 `json:"revenue"`
}

// MonthPoint is one calendar month in the trailing-12-month trend series.
type MonthPoint struct {
	Month        string  `json:"month"` // "2006-01"
	Paid         float64 `json:"paid"`
	Pending      float64 `json:"pending"`
	Transactions int     `json:"transactions"`
}

// Forecast is the next-month revenue prediction.
type Forecast struct {
	PredictedRevenue float64 `json:"predicted_revenue"`
	Trend            string  `json:"trend"`      // increasing | decreasing | stable
	Confidence       string  `json:"confidence"` // high | medium | low
}

// SeasonStats summarizes one meteorological season of the trend series.
type SeasonStats struct {
	Season         string  `json:"season"`
	AverageRevenue float64 `json:"average_revenue"`
	Trend          string  `json:"trend"` // up | down | stable
}

// Anomaly flags a month whose revenue moved more than 20% against the prior
// month.
type Anomaly struct {
	Month         string  `json:"month"`
	ChangePercent float64 `json:"change_percent"`
	Type          string  `json:"type"` // spike | drop
	Reason        string  `json:"reason"`
}
