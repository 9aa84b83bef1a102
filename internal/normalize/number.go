package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// fractionPercentThreshold is the magnitude above which a unit-fraction input
// is treated as a percentage and divided by 100.
const fractionPercentThreshold = 1.0001

var currencyCodes = map[string]struct{}{
	"eur": {}, "usd": {}, "gbp": {}, "jpy": {}, "cny": {},
	"chf": {}, "cad": {}, "aud": {},
}

var magnitudeSuffixes = map[string]float64{
	"k":   1e3,
	"m":   1e6,
	"mn":  1e6,
	"b":   1e9,
	"bn":  1e9,
	"md":  1e9, // French milliard
	"mds": 1e9,
}

// ParseNumber extracts a numeric value from noisy financial text. It accepts
// US and European separator conventions, percent signs, parenthesized
// negatives, magnitude suffixes (k/m/b and French Md/Mds), a trailing "x"
// multiple marker (stripped, not applied), and leading/trailing currency
// symbols or 3-letter currency codes. The second return value is false when
// no number can be extracted; ParseNumber never panics.
func ParseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = stripCurrency(s)

	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimSpace(s[1:])
	} else if strings.HasPrefix(s, "+") {
		s = strings.TrimSpace(s[1:])
	}

	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = strings.TrimSpace(strings.TrimPrefix(s, "%"))
	s = stripCurrency(s)
	if s == "" {
		return 0, false
	}

	i := len(s)
	for i > 0 && isASCIILetter(s[i-1]) {
		i--
	}
	suffix := strings.ToLower(s[i:])
	s = strings.TrimSpace(s[:i])

	multiplier := 1.0
	switch {
	case suffix == "" || suffix == "x":
		// "3.1x" is a multiple, not a magnitude; the marker is dropped.
	default:
		m, ok := magnitudeSuffixes[suffix]
		if !ok {
			return 0, false
		}
		multiplier = m
	}

	s = resolveSeparators(stripGroupingSpaces(s))
	if s == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	value *= multiplier
	if negative {
		value = -value
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// ParseFraction normalizes a loosely-typed confidence/importance value into
// [0,1]. Numeric inputs above 1 are read as percentages; strings go through
// ParseNumber first. Returns false for nil, non-numeric, or non-finite input.
func ParseFraction(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return UnitFraction(v)
	case float32:
		return UnitFraction(float64(v))
	case int:
		return UnitFraction(float64(v))
	case int64:
		return UnitFraction(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return UnitFraction(f)
	case string:
		f, ok := ParseNumber(v)
		if !ok {
			return 0, false
		}
		return UnitFraction(f)
	default:
		return 0, false
	}
}

// UnitFraction clamps a value into [0,1], treating magnitudes above 1 as
// percentages. Negative inputs clamp to 0. Returns false for NaN or ±Inf.
func UnitFraction(value float64) (float64, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	if value > fractionPercentThreshold {
		value /= 100
	}
	if value < 0 {
		return 0, true
	}
	if value > 1 {
		return 1, true
	}
	return value, true
}

// GuessCurrency detects a currency among EUR, USD, GBP, JPY, and CNY from
// symbols or codes in the text. Returns "unknown" when nothing matches.
func GuessCurrency(text string) string {
	folded := Fold(text)
	if folded == "" {
		return "unknown"
	}

	switch {
	case strings.Contains(folded, "eur") || strings.Contains(folded, "€"):
		return "EUR"
	case strings.Contains(folded, "usd") || strings.Contains(folded, "$"):
		return "USD"
	case strings.Contains(folded, "gbp") || strings.Contains(folded, "£"):
		return "GBP"
	case strings.Contains(folded, "jpy") || strings.Contains(folded, "yen") || strings.Contains(folded, "¥"):
		return "JPY"
	case strings.Contains(folded, "cny") || strings.Contains(folded, "rmb") || strings.Contains(folded, "yuan"):
		return "CNY"
	default:
		return "unknown"
	}
}

func stripCurrency(s string) string {
	s = strings.Trim(s, "€$£¥₹ \t")
	for _, side := range []bool{true, false} {
		token := leadingLetters(s, side)
		if len(token) == 3 {
			if _, ok := currencyCodes[strings.ToLower(token)]; ok {
				if side {
					s = strings.TrimSpace(s[3:])
				} else {
					s = strings.TrimSpace(s[:len(s)-3])
				}
			}
		}
	}
	return strings.Trim(s, "€$£¥₹ \t")
}

func leadingLetters(s string, fromStart bool) string {
	if fromStart {
		i := 0
		for i < len(s) && isASCIILetter(s[i]) {
			i++
		}
		return s[:i]
	}
	i := len(s)
	for i > 0 && isASCIILetter(s[i-1]) {
		i--
	}
	return s[i:]
}

// resolveSeparators rewrites thousands/decimal separators into strconv form.
// When both "," and "." appear, the rightmost one is the decimal separator.
// A lone comma is decimal unless it is followed by exactly three digits; a
// lone dot is decimal; repeated separators are grouping.
func resolveSeparators(s string) string {
	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastDot > lastComma {
			return strings.ReplaceAll(s, ",", "")
		}
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		if len(s)-lastComma-1 == 3 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			return strings.ReplaceAll(s, ".", "")
		}
		return s
	default:
		return s
	}
}

func stripGroupingSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ', '\'':
			return -1
		}
		return r
	}, s)
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
