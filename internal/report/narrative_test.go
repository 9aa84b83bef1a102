package report

import (
	"testing"
	"time"

	"horse.fit/intel/internal/analytics"
)

func pctPtr(v float64) *float64 { return &v }

func TestNarrativesWording(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		point  analytics.Point
		wantEN string
		wantFR string
	}{
		{
			name:   "no prior period",
			point:  analytics.Point{Date: day, Trend: analytics.TrendFlat, Signal: analytics.SignalNone},
			wantEN: "No comparable prior period for revenue as of 2026-03-01.",
			wantFR: "Aucune période antérieure comparable pour revenue au 2026-03-01.",
		},
		{
			name:   "strong increase",
			point:  analytics.Point{Date: day, DeltaPct: pctPtr(12.5), Trend: analytics.TrendUp, Signal: analytics.SignalStrong},
			wantEN: "revenue increased by 12.5% as of 2026-03-01 (strong signal).",
			wantFR: "revenue a augmenté de 12,5 % au 2026-03-01 (signal fort).",
		},
		{
			name:   "weak decrease",
			point:  analytics.Point{Date: day, DeltaPct: pctPtr(-3.2), Trend: analytics.TrendDown, Signal: analytics.SignalWeak},
			wantEN: "revenue decreased by 3.2% as of 2026-03-01 (weak signal).",
			wantFR: "revenue a diminué de 3,2 % au 2026-03-01 (signal faible).",
		},
		{
			name:   "flat with no signal",
			point:  analytics.Point{Date: day, DeltaPct: pctPtr(0), Trend: analytics.TrendFlat, Signal: analytics.SignalNone},
			wantEN: "revenue remained flat (0.0%) as of 2026-03-01.",
			wantFR: "revenue est resté stable (0,0 %) au 2026-03-01.",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := Narratives("revenue", []analytics.Point{tt.point})
			if len(out) != 1 {
				t.Fatalf("Narratives() returned %d entries, want 1", len(out))
			}
			if out[0].EN != tt.wantEN {
				t.Errorf("EN = %q, want %q", out[0].EN, tt.wantEN)
			}
			if out[0].FR != tt.wantFR {
				t.Errorf("FR = %q, want %q", out[0].FR, tt.wantFR)
			}
			if out[0].Date != "2026-03-01" {
				t.Errorf("date = %q", out[0].Date)
			}
		})
	}
}
