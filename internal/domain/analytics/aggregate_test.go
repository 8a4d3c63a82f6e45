package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func paidRecord(amount float64, at time.Time) *PaymentRecord {
	return &PaymentRecord{Amount: amount, Status: statusPaid, GeneratedAt: at, PaidAt: &at, Source: "billing"}
}

func pendingRecord(amount float64, at time.Time) *PaymentRecord {
	return &PaymentRecord{Amount: amount, Status: statusPending, GeneratedAt: at, Source: "billing"}
}

func TestParseTimeRange(t *testing.T) {
	if r, err := ParseTimeRange(""); err != nil || r != RangeAll {
		t.Errorf("empty range: got %v, %v", r, err)
	}
	if r, err := ParseTimeRange("30d"); err != nil || r != Range30Days {
		t.Errorf("30d: got %v, %v", r, err)
	}
	if _, err := ParseTimeRange("2w"); err == nil {
		t.Error("expected error for unknown range")
	}
}

func TestComputeTotals(t *testing.T) {
	records := []*PaymentRecord{
		paidRecord(1000, testNow.AddDate(0, 0, -2)),  // inside week
		paidRecord(2000, testNow.AddDate(0, 0, -20)), // inside month
		paidRecord(4000, testNow.AddDate(0, 0, -60)), // older
		pendingRecord(500, testNow.AddDate(0, 0, -5)),
		pendingRecord(300, testNow.AddDate(0, 0, -45)), // overdue
	}

	snap := Compute(records, RangeAll, testNow)

	if snap.TotalRevenue != 7000 {
		t.Errorf("total = %v, want 7000", snap.TotalRevenue)
	}
	if snap.WeeklyRevenue != 1000 {
		t.Errorf("weekly = %v, want 1000", snap.WeeklyRevenue)
	}
	if snap.MonthlyRevenue != 3000 {
		t.Errorf("monthly = %v, want 3000", snap.MonthlyRevenue)
	}
	if snap.PendingAmount != 800 {
		t.Errorf("pending = %v, want 800", snap.PendingAmount)
	}
	if snap.OverdueAmount != 300 {
		t.Errorf("overdue = %v, want 300", snap.OverdueAmount)
	}
	if snap.TransactionCount != 5 {
		t.Errorf("transactions = %d, want 5", snap.TransactionCount)
	}
}

func TestComputeCollectionRate(t *testing.T) {
	records := []*PaymentRecord{
		paidRecord(1000, testNow.AddDate(0, 0, -1)),
		pendingRecord(500, testNow.AddDate(0, 0, -1)),
	}
	snap := Compute(records, RangeAll, testNow)
	if snap.CollectionRate != 66.7 {
		t.Errorf("collection rate = %v, want 66.7", snap.CollectionRate)
	}

	// No billables at all: rate is zero, not NaN.
	empty := Compute(nil, RangeAll, testNow)
	if empty.CollectionRate != 0 {
		t.Errorf("empty collection rate = %v, want 0", empty.CollectionRate)
	}
}

func TestComputeRangeFilter(t *testing.T) {
	records := []*PaymentRecord{
		paidRecord(1000, testNow.AddDate(0, 0, -5)),
		paidRecord(2000, testNow.AddDate(0, 0, -40)),
	}
	snap := Compute(records, Range30Days, testNow)
	if snap.TotalRevenue != 1000 {
		t.Errorf("total = %v, want 1000: 40-day-old record must be filtered", snap.TotalRevenue)
	}
	if snap.TransactionCount != 1 {
		t.Errorf("transactions = %d, want 1", snap.TransactionCount)
	}
}

func TestComputeDoctorAndSpecialtyRollups(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	at := testNow.AddDate(0, 0, -1)
	records := []*PaymentRecord{
		{Amount: 300, Status: statusPaid, GeneratedAt: at, DoctorID: &id1, DoctorName: "Asha Verma", Specialization: "Cardiology"},
		{Amount: 200, Status: statusPaid, GeneratedAt: at, DoctorID: &id1, DoctorName: "Asha Verma", Specialization: "Cardiology"},
		{Amount: 400, Status: statusPaid, GeneratedAt: at, DoctorID: &id2, DoctorName: "Ben Cole", Specialization: "Neurology"},
		{Amount: 100, Status: statusPending, GeneratedAt: at, DoctorID: &id2, DoctorName: "Ben Cole", Specialization: "Neurology"},
	}

	snap := Compute(records, RangeAll, testNow)

	if len(snap.RevenueByDoctor) != 2 {
		t.Fatalf("got %d doctors, want 2", len(snap.RevenueByDoctor))
	}
	// Pending revenue never counts toward rollups: Asha's 500 leads Ben's 400.
	if snap.RevenueByDoctor[0].DoctorName != "Asha Verma" || snap.RevenueByDoctor[0].Revenue != 500 {
		t.Errorf("top doctor = %+v, want Asha Verma at 500", snap.RevenueByDoctor[0])
	}
	if snap.RevenueBySpecialty[0].Specialization != "Cardiology" || snap.RevenueBySpecialty[0].Revenue != 500 {
		t.Errorf("top specialty = %+v, want Cardiology at 500", snap.RevenueBySpecialty[0])
	}
}

func TestComputeTopDoctorsCapped(t *testing.T) {
	at := testNow.AddDate(0, 0, -1)
	var records []*PaymentRecord
	for i := 0; i < 15; i++ {
		id := uuid.New()
		records = append(records, &PaymentRecord{
			Amount: float64(100 + i), Status: statusPaid, GeneratedAt: at,
			DoctorID: &id, DoctorName: "Doc",
		})
	}
	snap := Compute(records, RangeAll, testNow)
	if len(snap.RevenueByDoctor) != 10 {
		t.Errorf("got %d doctors, want ranking capped at 10", len(snap.RevenueByDoctor))
	}
}

func TestMonthlyTrendBuckets(t *testing.T) {
	records := []*PaymentRecord{
		paidRecord(1000, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		paidRecord(800, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)),
		pendingRecord(200, time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)),
		paidRecord(999, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), // 13 months back, outside window
	}
	trend := monthlyTrend(records, testNow)

	if len(trend) != 12 {
		t.Fatalf("got %d points, want 12", len(trend))
	}
	if trend[0].Month != "2024-07" || trend[11].Month != "2025-06" {
		t.Errorf("window = %s..%s, want 2024-07..2025-06", trend[0].Month, trend[11].Month)
	}
	if trend[11].Paid != 1000 {
		t.Errorf("current month paid = %v, want 1000", trend[11].Paid)
	}
	if trend[10].Paid != 800 || trend[10].Pending != 200 || trend[10].Transactions != 2 {
		t.Errorf("may point = %+v, want paid 800 pending 200 over 2 transactions", trend[10])
	}
	var total float64
	for _, p := range trend {
		total += p.Paid
	}
	if total != 1800 {
		t.Errorf("13-month-old record leaked into the window, total = %v", total)
	}
}

func TestForecastLinearGrowth(t *testing.T) {
	trend := make([]MonthPoint, 12)
	for i, paid := range []float64{100, 110, 120, 130, 140, 150} {
		trend[6+i].Paid = paid
	}
	f := forecast(trend)
	if f.PredictedRevenue != 160 {
		t.Errorf("predicted = %v, want 160", f.PredictedRevenue)
	}
	if f.Trend != "increasing" {
		t.Errorf("trend = %s, want increasing", f.Trend)
	}
	if f.Confidence != "high" {
		t.Errorf("confidence = %s, want high (low variation around the line's mean)", f.Confidence)
	}
}

func TestForecastDecline(t *testing.T) {
	trend := make([]MonthPoint, 12)
	for i, paid := range []float64{600, 500, 400, 300, 200, 100} {
		trend[6+i].Paid = paid
	}
	f := forecast(trend)
	if f.Trend != "decreasing" {
		t.Errorf("trend = %s, want decreasing", f.Trend)
	}
	if f.PredictedRevenue != 0 {
		t.Errorf("predicted = %v, want clamped to 0", f.PredictedRevenue)
	}
}

func TestForecastInsufficientData(t *testing.T) {
	trend := make([]MonthPoint, 12)
	trend[10].Paid = 500
	trend[11].Paid = 600
	f := forecast(trend)
	if f.PredictedRevenue != 0 || f.Trend != "stable" || f.Confidence != "low" {
		t.Errorf("got %+v, want zero/stable/low with under three months of data", f)
	}
}

func TestSeasonStats(t *testing.T) {
	trend := []MonthPoint{
		{Month: "2024-12", Paid: 100},
		{Month: "2025-01", Paid: 200},
		{Month: "2025-02", Paid: 300},
		{Month: "2025-06", Paid: 1000},
	}
	stats := seasonStats(trend)
	if len(stats) != 4 {
		t.Fatalf("got %d seasons, want 4", len(stats))
	}

	byName := map[string]SeasonStats{}
	for _, s := range stats {
		byName[s.Season] = s
	}
	if byName["Winter"].AverageRevenue != 200 {
		t.Errorf("winter avg = %v, want 200", byName["Winter"].AverageRevenue)
	}
	if byName["Winter"].Trend != "up" {
		t.Errorf("winter trend = %s, want up (100 then avg 250)", byName["Winter"].Trend)
	}
	if byName["Summer"].AverageRevenue != 1000 {
		t.Errorf("summer avg = %v, want 1000", byName["Summer"].AverageRevenue)
	}
	if byName["Summer"].Trend != "stable" {
		t.Errorf("summer trend = %s, want stable with a single point", byName["Summer"].Trend)
	}
	if byName["Fall"].AverageRevenue != 0 || byName["Fall"].Trend != "stable" {
		t.Errorf("fall = %+v, want empty season at zero/stable", byName["Fall"])
	}
}

func TestAnomalies(t *testing.T) {
	trend := []MonthPoint{
		{Month: "2025-01", Paid: 1000},
		{Month: "2025-02", Paid: 1150}, // +15%, within band
		{Month: "2025-03", Paid: 1610}, // +40% spike
		{Month: "2025-04", Paid: 644},  // -60% drop
		{Month: "2025-05", Paid: 0},
		{Month: "2025-06", Paid: 500}, // prior month zero: no comparison
	}
	got := anomalies(trend)
	if len(got) != 2 {
		t.Fatalf("got %d anomalies (%+v), want 2", len(got), got)
	}
	if got[0].Month != "2025-03" || got[0].Type != "spike" || got[0].ChangePercent != 40 {
		t.Errorf("first anomaly = %+v, want +40%% spike in 2025-03", got[0])
	}
	if got[1].Month != "2025-04" || got[1].Type != "drop" || got[1].ChangePercent != -60 {
		t.Errorf("second anomaly = %+v, want -60%% drop in 2025-04", got[1])
	}
}

func TestComputeDeterministic(t *testing.T) {
	id := uuid.New()
	records := []*PaymentRecord{
		{Amount: 300, Status: statusPaid, GeneratedAt: testNow.AddDate(0, -1, 0), DoctorID: &id, DoctorName: "Asha Verma", Specialization: "Cardiology"},
		pendingRecord(100, testNow.AddDate(0, 0, -45)),
		paidRecord(900, testNow.AddDate(0, -3, 0)),
	}
	a := Compute(records, Range365Days, testNow)
	b := Compute(records, Range365Days, testNow)
	if !reflect.DeepEqual(a, b) {
		t.Error("same inputs must produce identical snapshots")
	}
}

func TestComputeEmptyInput(t *testing.T) {
	snap := Compute(nil, RangeAll, testNow)
	if snap.RevenueByDoctor == nil || snap.Anomalies == nil {
		t.Error("collections must be empty slices, not nil")
	}
	if len(snap.MonthlyTrend) != 12 {
		t.Errorf("trend has %d points, want 12 even with no data", len(snap.MonthlyTrend))
	}
	if snap.Forecast.Trend != "stable" || snap.Forecast.Confidence != "low" {
		t.Errorf("forecast = %+v, want stable/low default", snap.Forecast)
	}
}
