package normalize

import (
	"math"
	"testing"
)

func TestParseNumberSeparatorConventions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"1,234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"1,234", 1234},
		{"1,234,567", 1234567},
		{"1.234.567", 1234567},
		{"1,5", 1.5},
		{"1 234 567", 1234567},
		{"42", 42},
	}

	for _, tc := range cases {
		got, ok := ParseNumber(tc.in)
		if !ok {
			t.Fatalf("ParseNumber(%q) unexpectedly failed", tc.in)
		}
		if got != tc.want {
			t.Fatalf("ParseNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseNumberFinancialMarkers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"(1,234)", -1234},
		{"22.4%", 22.4},
		{"-3.5%", -3.5},
		{"1.5k", 1500},
		{"2Md", 2_000_000_000},
		{"1,2Mds", 1_200_000_000},
		{"3.4b", 3_400_000_000},
		{"12m", 12_000_000},
		{"3.1x", 3.1},
		{"$1,234.56", 1234.56},
		{"EUR 1.234,56", 1234.56},
		{"1234 USD", 1234},
		{"€2.5b", 2_500_000_000},
	}

	for _, tc := range cases {
		got, ok := ParseNumber(tc.in)
		if !ok {
			t.Fatalf("ParseNumber(%q) unexpectedly failed", tc.in)
		}
		if got != tc.want {
			t.Fatalf("ParseNumber(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseNumberRejectsNonNumeric(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "abc", "n/a", "--", "%", "1.5q", "()"} {
		if got, ok := ParseNumber(in); ok {
			t.Fatalf("ParseNumber(%q) = %v, expected failure", in, got)
		}
	}
}

func TestUnitFraction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want float64
	}{
		{95, 0.95},
		{0.5, 0.5},
		{-3, 0},
		{150, 1},
		{1, 1},
		{0, 0},
	}

	for _, tc := range cases {
		got, ok := UnitFraction(tc.in)
		if !ok {
			t.Fatalf("UnitFraction(%v) unexpectedly failed", tc.in)
		}
		if got != tc.want {
			t.Fatalf("UnitFraction(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, ok := UnitFraction(math.NaN()); ok {
		t.Fatal("UnitFraction(NaN) should fail")
	}
	if _, ok := UnitFraction(math.Inf(1)); ok {
		t.Fatal("UnitFraction(+Inf) should fail")
	}
}

func TestParseFraction(t *testing.T) {
	t.Parallel()

	if got, ok := ParseFraction(nil); ok {
		t.Fatalf("ParseFraction(nil) = %v, expected failure", got)
	}
	if got, ok := ParseFraction(0.8); !ok || got != 0.8 {
		t.Fatalf("ParseFraction(0.8) = %v ok=%t", got, ok)
	}
	if got, ok := ParseFraction("85%"); !ok || got != 0.85 {
		t.Fatalf("ParseFraction(85%%) = %v ok=%t", got, ok)
	}
	if got, ok := ParseFraction("garbage"); ok {
		t.Fatalf("ParseFraction(garbage) = %v, expected failure", got)
	}
}

func TestGuessCurrency(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"€1.2b", "EUR"},
		{"USD 500m", "USD"},
		{"£25", "GBP"},
		{"¥1200", "JPY"},
		{"500 yuan", "CNY"},
		{"1234", "unknown"},
	}

	for _, tc := range cases {
		if got := GuessCurrency(tc.in); got != tc.want {
			t.Fatalf("GuessCurrency(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
