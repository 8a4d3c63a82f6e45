package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Payment record statuses the aggregator understands.
const (
	statusPaid    = "paid"
	statusPending = "pending"
)

// TimeRange selects how far back records are considered.
type TimeRange string

const (
	Range7Days   TimeRange = "7d"
	Range30Days  TimeRange = "30d"
	Range90Days  TimeRange = "90d"
	Range180Days TimeRange = "180d"
	Range365Days TimeRange = "365d"
	RangeAll     TimeRange = "all"
)

var rangeDays = map[TimeRange]int{
	Range7Days:   7,
	Range30Days:  30,
	Range90Days:  90,
	Range180Days: 180,
	Range365Days: 365,
}

// ParseTimeRange validates a range query value, defaulting empty to all-time.
func ParseTimeRange(s string) (TimeRange, error) {
	if s == "" {
		return RangeAll, nil
	}
	r := TimeRange(s)
	if r == RangeAll {
		return r, nil
	}
	if _, ok := rangeDays[r]; !ok {
		return "", fmt.Errorf("invalid time range %q", s)
	}
	return r, nil
}

// Compute derives the full financial snapshot from an immutable set of
// payment records. It is a pure function of its inputs: the same records,
// range, and clock always produce the same snapshot, and it is re-run in
// full on every request rather than maintained incrementally.
func Compute(records []*PaymentRecord, rng TimeRange, now time.Time) *Snapshot {
	if days, ok := rangeDays[rng]; ok {
		cutoff := now.AddDate(0, 0, -days)
		filtered := make([]*PaymentRecord, 0, len(records))
		for _, r := range records {
			if !r.GeneratedAt.Before(cutoff) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	snap := &Snapshot{
		TimeRange:          string(rng),
		RevenueByDoctor:    []DoctorRevenue{},
		RevenueBySpecialty: []SpecialtyRevenue{},
		Anomalies:          []Anomaly{},
	}

	weekCutoff := now.AddDate(0, 0, -7)
	monthCutoff := now.AddDate(0, 0, -30)
	overdueCutoff := now.AddDate(0, 0, -30)

	var paidTotal, pendingTotal float64
	byDoctor := make(map[uuid.UUID]*DoctorRevenue)
	bySpecialty := make(map[string]float64)

	for _, r := range records {
		switch r.Status {
		case statusPaid:
			paidTotal += r.Amount
			if r.GeneratedAt.After(weekCutoff) {
				snap.WeeklyRevenue += r.Amount
			}
			if r.GeneratedAt.After(monthCutoff) {
				snap.MonthlyRevenue += r.Amount
			}
			if r.DoctorID != nil {
				dr, ok := byDoctor[*r.DoctorID]
				if !ok {
					dr = &DoctorRevenue{DoctorID: *r.DoctorID, DoctorName: r.DoctorName}
					byDoctor[*r.DoctorID] = dr
				}
				dr.Revenue += r.Amount
			}
			if r.Specialization != "" {
				bySpecialty[r.Specialization] += r.Amount
			}
		case statusPending:
			pendingTotal += r.Amount
			if r.GeneratedAt.Before(overdueCutoff) {
				snap.OverdueAmount += r.Amount
			}
		}
	}

	snap.TotalRevenue = math.Round(paidTotal)
	snap.WeeklyRevenue = math.Round(snap.WeeklyRevenue)
	snap.MonthlyRevenue = math.Round(snap.MonthlyRevenue)
	snap.PendingAmount = math.Round(pendingTotal)
	snap.OverdueAmount = math.Round(snap.OverdueAmount)
	snap.TransactionCount = len(records)
	if paidTotal+pendingTotal > 0 {
		snap.CollectionRate = round1(paidTotal / (paidTotal + pendingTotal) * 100)
	}

	for _, dr := range byDoctor {
		snap.RevenueByDoctor = append(snap.RevenueByDoctor, *dr)
	}
	sort.Slice(snap.RevenueByDoctor, func(i, j int) bool {
		if snap.RevenueByDoctor[i].Revenue != snap.RevenueByDoctor[j].Revenue {
			return snap.RevenueByDoctor[i].Revenue > snap.RevenueByDoctor[j].Revenue
		}
		return snap.RevenueByDoctor[i].DoctorName < snap.RevenueByDoctor[j].DoctorName
	})
	if len(snap.RevenueByDoctor) > 10 {
		snap.RevenueByDoctor = snap.RevenueByDoctor[:10]
	}

	for spec, rev := range bySpecialty {
		snap.RevenueBySpecialty = append(snap.RevenueBySpecialty, SpecialtyRevenue{Specialization: spec, Revenue: rev})
	}
	sort.Slice(snap.RevenueBySpecialty, func(i, j int) bool {
		if snap.RevenueBySpecialty[i].Revenue != snap.RevenueBySpecialty[j].Revenue {
			return snap.RevenueBySpecialty[i].Revenue > snap.RevenueBySpecialty[j].Revenue
		}
		return snap.RevenueBySpecialty[i].Specialization < snap.RevenueBySpecialty[j].Specialization
	})

	snap.MonthlyTrend = monthlyTrend(records, now)
	snap.Forecast = forecast(snap.MonthlyTrend)
	snap.Seasons = seasonStats(snap.MonthlyTrend)
	snap.Anomalies = anomalies(snap.MonthlyTrend)

	return snap
}

// monthlyTrend buckets records into the trailing 12 calendar months,
// oldest first.
func monthlyTrend(records []*PaymentRecord, now time.Time) []MonthPoint {
	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)

	points := make([]MonthPoint, 12)
	index := make(map[string]int, 12)
	for i := 0; i < 12; i++ {
		key := firstMonth.AddDate(0, i, 0).Format("2006-01")
		points[i] = MonthPoint{Month: key}
		index[key] = i
	}

	for _, r := range records {
		i, ok := index[r.GeneratedAt.Format("2006-01")]
		if !ok {
			continue
		}
		switch r.Status {
		case statusPaid:
			points[i].Paid += r.Amount
		case statusPending:
			points[i].Pending += r.Amount
		}
		points[i].Transactions++
	}
	return points
}

// forecast fits an ordinary least-squares line through the trailing six
// monthly revenue points (x = 1..6) and evaluates it at x = 7. At least
// three of the six months must have revenue; otherwise a zero/stable/low
// default is returned.
func forecast(trend []MonthPoint) Forecast {
	out := Forecast{Trend: "stable", Confidence: "low"}
	if len(trend) < 6 {
		return out
	}
	recent := trend[len(trend)-6:]

	withData := 0
	for _, p := range recent {
		if p.Paid > 0 {
			withData++
		}
	}
	if withData < 3 {
		return out
	}

	n := float64(len(recent))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range recent {
		x := float64(i + 1)
		sumX += x
		sumY += p.Paid
		sumXY += x * p.Paid
		sumXX += x * x
	}
	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	predicted := intercept + slope*(n+1)
	if predicted < 0 {
		predicted = 0
	}
	out.PredictedRevenue = math.Round(predicted)

	switch {
	case slope > 0:
		out.Trend = "increasing"
	case slope < 0:
		out.Trend = "decreasing"
	}

	mean := sumY / n
	if mean > 0 {
		var variance float64
		for _, p := range recent {
			variance += (p.Paid - mean) * (p.Paid - mean)
		}
		variance /= n
		cv := math.Sqrt(variance) / mean
		switch {
		case cv < 0.20:
			out.Confidence = "high"
		case cv < 0.40:
			out.Confidence = "medium"
		}
	}
	return out
}

var seasons = []struct {
	name   string
	months map[time.Month]bool
}{
	{"Winter", map[time.Month]bool{time.December: true, time.January: true, time.February: true}},
	{"Spring", map[time.Month]bool{time.March: true, time.April: true, time.May: true}},
	{"Summer", map[time.Month]bool{time.June: true, time.July: true, time.August: true}},
	{"Fall", map[time.Month]bool{time.September: true, time.October: true, time.November: true}},
}

// seasonStats buckets the trend series into the four fixed meteorological
// seasons. Each season's direction compares the average of its earlier data
// points against its later ones with a ±5% neutral band.
func seasonStats(trend []MonthPoint) []SeasonStats {
	out := make([]SeasonStats, 0, len(seasons))
	for _, season := range seasons {
		var revenues []float64
		for _, p := range trend {
			t, err := time.Parse("2006-01", p.Month)
			if err != nil {
				continue
			}
			if season.months[t.Month()] {
				revenues = append(revenues, p.Paid)
			}
		}

		stats := SeasonStats{Season: season.name, Trend: "stable"}
		if len(revenues) > 0 {
			var sum float64
			for _, v := range revenues {
				sum += v
			}
			stats.AverageRevenue = math.Round(sum / float64(len(revenues)))
		}
		if len(revenues) >= 2 {
			half := len(revenues) / 2
			firstAvg := mean(revenues[:half])
			secondAvg := mean(revenues[half:])
			switch {
			case firstAvg == 0 && secondAvg > 0:
				stats.Trend = "up"
			case firstAvg > 0 && secondAvg > firstAvg*1.05:
				stats.Trend = "up"
			case firstAvg > 0 && secondAvg < firstAvg*0.95:
				stats.Trend = "down"
			}
		}
		out = append(out, stats)
	}
	return out
}

// anomalies flags month-over-month revenue moves beyond ±20%, with the
// reason wording escalating at the ±30% and ±50% marks. A prior month with
// no revenue yields no comparison.
func anomalies(trend []MonthPoint) []Anomaly {
	out := []Anomaly{}
	for i := 1; i < len(trend); i++ {
		prev := trend[i-1].Paid
		if prev == 0 {
			continue
		}
		change := round1((trend[i].Paid - prev) / prev * 100)
		if math.Abs(change) <= 20 {
			continue
		}

		a := Anomaly{Month: trend[i].Month, ChangePercent: change}
		magnitude := math.Abs(change)
		if change > 0 {
			a.Type = "spike"
			switch {
			case magnitude > 50:
				a.Reason = "revenue more than half again the prior month"
			case magnitude > 30:
				a.Reason = "sharp revenue increase over the prior month"
			default:
				a.Reason = "notable revenue increase over the prior month"
			}
		} else {
			a.Type = "drop"
			switch {
			case magnitude > 50:
				a.Reason = "revenue fell by more than half versus the prior month"
			case magnitude > 30:
				a.Reason = "sharp revenue decline versus the prior month"
			default:
				a.Reason = "notable revenue decline versus the prior month"
			}
		}
		out = append(out, a)
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
