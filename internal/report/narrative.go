package report

import (
	"fmt"
	"strings"

	"horse.fit/intel/internal/analytics"
)

// Narrative is one English/French sentence pair describing a series point.
type Narrative struct {
	Date string `json:"date"`
	EN   string `json:"en"`
	FR   string `json:"fr"`
}

// Narratives renders one sentence pair per series point. Points without a
// comparable prior period get a dedicated sentence instead of a change
// description.
func Narratives(metricKey string, points []analytics.Point) []Narrative {
	out := make([]Narrative, 0, len(points))
	for _, point := range points {
		date := point.Date.Format("2006-01-02")
		out = append(out, Narrative{
			Date: date,
			EN:   englishSentence(metricKey, date, point),
			FR:   frenchSentence(metricKey, date, point),
		})
	}
	return out
}

func englishSentence(metricKey, date string, point analytics.Point) string {
	if point.DeltaPct == nil {
		return fmt.Sprintf("No comparable prior period for %s as of %s.", metricKey, date)
	}

	magnitude := fmt.Sprintf("%.1f%%", abs(*point.DeltaPct))
	var change string
	switch point.Trend {
	case analytics.TrendUp:
		change = fmt.Sprintf("increased by %s", magnitude)
	case analytics.TrendDown:
		change = fmt.Sprintf("decreased by %s", magnitude)
	default:
		change = fmt.Sprintf("remained flat (%s)", magnitude)
	}

	sentence := fmt.Sprintf("%s %s as of %s", metricKey, change, date)
	if point.Signal != analytics.SignalNone {
		sentence += fmt.Sprintf(" (%s signal)", point.Signal)
	}
	return sentence + "."
}

func frenchSentence(metricKey, date string, point analytics.Point) string {
	if point.DeltaPct == nil {
		return fmt.Sprintf("Aucune période antérieure comparable pour %s au %s.", metricKey, date)
	}

	magnitude := frenchPercent(abs(*point.DeltaPct))
	var change string
	switch point.Trend {
	case analytics.TrendUp:
		change = fmt.Sprintf("a augmenté de %s", magnitude)
	case analytics.TrendDown:
		change = fmt.Sprintf("a diminué de %s", magnitude)
	default:
		change = fmt.Sprintf("est resté stable (%s)", magnitude)
	}

	sentence := fmt.Sprintf("%s %s au %s", metricKey, change, date)
	if signal := frenchSignal(point.Signal); signal != "" {
		sentence += fmt.Sprintf(" (signal %s)", signal)
	}
	return sentence + "."
}

// frenchPercent renders a percentage with a decimal comma and a non-breaking
// space before the sign, per French typographic convention.
func frenchPercent(value float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.1f", value), ".", ",") + " %"
}

func frenchSignal(signal string) string {
	switch signal {
	case analytics.SignalStrong:
		return "fort"
	case analytics.SignalModerate:
		return "modéré"
	case analytics.SignalWeak:
		return "faible"
	default:
		return ""
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
