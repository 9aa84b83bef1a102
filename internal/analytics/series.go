// Package analytics computes period-over-period deltas, trend direction, and
// signal strength for one metric's ordered value series.
package analytics

import (
	"math"
	"sort"
	"time"
)

// Trend direction of a period-over-period change.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// Signal strength classes, thresholded on the absolute percent change. This
// raw-percent scale is the single canonical scale for the whole service.
const (
	SignalNone     = "none"
	SignalWeak     = "weak"
	SignalModerate = "moderate"
	SignalStrong   = "strong"
)

const (
	strongThresholdPct   = 10
	moderateThresholdPct = 5
	weakThresholdPct     = 2
)

// Observation is one raw (date, value) sample of a metric.
type Observation struct {
	Date  time.Time
	Value float64
}

// Point is one analyzed series point. DeltaPct is nil for the first point
// and whenever the previous value is zero or non-finite. The delta is the
// adjacent-period change regardless of calendar spacing between samples.
type Point struct {
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	DeltaPct *float64  `json:"delta_pct"`
	Trend    string    `json:"trend"`
	Signal   string    `json:"signal"`
}

// Analyze orders observations by date, keeps one value per exact date
// (last-seen wins), and computes the delta, trend, and signal of each point.
func Analyze(observations []Observation) []Point {
	if len(observations) == 0 {
		return nil
	}

	byDate := make(map[time.Time]float64, len(observations))
	dates := make([]time.Time, 0, len(observations))
	for _, obs := range observations {
		key := obs.Date.UTC()
		if _, seen := byDate[key]; !seen {
			dates = append(dates, key)
		}
		byDate[key] = obs.Value
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	points := make([]Point, 0, len(dates))
	for i, date := range dates {
		point := Point{
			Date:   date,
			Value:  byDate[date],
			Trend:  TrendFlat,
			Signal: SignalNone,
		}

		if i > 0 {
			previous := byDate[dates[i-1]]
			if delta, ok := deltaPercent(previous, point.Value); ok {
				point.DeltaPct = &delta
				point.Trend = trendOf(delta)
				point.Signal = ClassifySignal(delta)
			}
		}

		points = append(points, point)
	}

	return points
}

// ClassifySignal buckets an absolute percent change into the canonical
// signal scale: >=10 strong, [5,10) moderate, [2,5) weak, below 2 none.
func ClassifySignal(deltaPct float64) string {
	abs := math.Abs(deltaPct)
	switch {
	case abs >= strongThresholdPct:
		return SignalStrong
	case abs >= moderateThresholdPct:
		return SignalModerate
	case abs >= weakThresholdPct:
		return SignalWeak
	default:
		return SignalNone
	}
}

func deltaPercent(previous, current float64) (float64, bool) {
	if previous == 0 || math.IsNaN(previous) || math.IsInf(previous, 0) {
		return 0, false
	}
	if math.IsNaN(current) || math.IsInf(current, 0) {
		return 0, false
	}
	delta := 100 * (current - previous) / previous
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0, false
	}
	return delta, true
}

func trendOf(deltaPct float64) string {
	switch {
	case deltaPct > 0:
		return TrendUp
	case deltaPct < 0:
		return TrendDown
	default:
		return TrendFlat
	}
}
