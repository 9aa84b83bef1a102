package analytics

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestAnalyzeDeltasTrendsSignals(t *testing.T) {
	t.Parallel()

	points := Analyze([]Observation{
		{Date: day(1), Value: 100},
		{Date: day(2), Value: 110},
		{Date: day(3), Value: 99},
	})

	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	first := points[0]
	if first.DeltaPct != nil || first.Trend != TrendFlat || first.Signal != SignalNone {
		t.Fatalf("unexpected first point: %+v", first)
	}

	second := points[1]
	if second.DeltaPct == nil || *second.DeltaPct != 10.0 {
		t.Fatalf("unexpected second delta: %+v", second.DeltaPct)
	}
	if second.Trend != TrendUp || second.Signal != SignalStrong {
		t.Fatalf("unexpected second point: trend=%s signal=%s", second.Trend, second.Signal)
	}

	third := points[2]
	if third.DeltaPct == nil || *third.DeltaPct != -10.0 {
		t.Fatalf("unexpected third delta: %+v", third.DeltaPct)
	}
	if third.Trend != TrendDown || third.Signal != SignalStrong {
		t.Fatalf("unexpected third point: trend=%s signal=%s", third.Trend, third.Signal)
	}
}

func TestAnalyzeZeroPreviousYieldsNilDelta(t *testing.T) {
	t.Parallel()

	points := Analyze([]Observation{
		{Date: day(1), Value: 0},
		{Date: day(2), Value: 50},
	})

	second := points[1]
	if second.DeltaPct != nil {
		t.Fatalf("delta over a zero base must be nil, got %v", *second.DeltaPct)
	}
	if second.Trend != TrendFlat || second.Signal != SignalNone {
		t.Fatalf("nil delta must be flat/none, got trend=%s signal=%s", second.Trend, second.Signal)
	}
}

func TestAnalyzeDeduplicatesDatesLastSeenWins(t *testing.T) {
	t.Parallel()

	points := Analyze([]Observation{
		{Date: day(1), Value: 100},
		{Date: day(2), Value: 105},
		{Date: day(2), Value: 107},
	})

	if len(points) != 2 {
		t.Fatalf("expected 2 points after date dedup, got %d", len(points))
	}
	if points[1].Value != 107 {
		t.Fatalf("last-seen value should win, got %v", points[1].Value)
	}
}

func TestAnalyzeOrdersUnsortedInput(t *testing.T) {
	t.Parallel()

	points := Analyze([]Observation{
		{Date: day(3), Value: 99},
		{Date: day(1), Value: 100},
		{Date: day(2), Value: 110},
	})

	if !points[0].Date.Equal(day(1)) || !points[2].Date.Equal(day(3)) {
		t.Fatalf("points not ordered by date: %v, %v, %v", points[0].Date, points[1].Date, points[2].Date)
	}
}

func TestClassifySignalThresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		delta float64
		want  string
	}{
		{0, SignalNone},
		{1.99, SignalNone},
		{2, SignalWeak},
		{4.99, SignalWeak},
		{5, SignalModerate},
		{9.99, SignalModerate},
		{10, SignalStrong},
		{-12, SignalStrong},
	}

	for _, tc := range cases {
		if got := ClassifySignal(tc.delta); got != tc.want {
			t.Fatalf("ClassifySignal(%v) = %q, want %q", tc.delta, got, tc.want)
		}
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	t.Parallel()

	if got := Analyze(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}
