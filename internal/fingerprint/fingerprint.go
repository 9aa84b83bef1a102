// Package fingerprint derives stable content fingerprints for ingested rows.
// Two payloads with the same semantically-relevant fields always produce the
// same fingerprint, which the store's uniqueness constraints key on.
package fingerprint

import (
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

const fieldSeparator = "|"

// Fact fingerprints a fact over its metric slug, as-of date, and raw value.
func Fact(metricKeySlug string, asOfDate *time.Time, rawValue string) string {
	date := ""
	if asOfDate != nil {
		date = asOfDate.UTC().Format("2006-01-02")
	}
	return digest(metricKeySlug, date, strings.TrimSpace(rawValue))
}

// Insight fingerprints an insight over its trimmed text.
func Insight(text string) string {
	return digest(strings.TrimSpace(text))
}

// News fingerprints a news event over headline, summary, and full text.
func News(headline, summary, fullText string) string {
	return digest(
		strings.TrimSpace(headline),
		strings.TrimSpace(summary),
		strings.TrimSpace(fullText),
	)
}

func digest(fields ...string) string {
	sum := blake2b.Sum256([]byte(strings.Join(fields, fieldSeparator)))
	return hex.EncodeToString(sum[:])
}
