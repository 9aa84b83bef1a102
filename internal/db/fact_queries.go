package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"horse.fit/intel/internal/apperr"
)

// FactPoint is one raw metric observation used by the analytics pipeline.
type FactPoint struct {
	AsOfDate  time.Time
	Value     float64
	CreatedAt time.Time
}

// ExistingFactFingerprints returns which of the given fingerprints already
// exist for the company. Used by the pre-check dedup strategy; the unique
// constraint remains the backstop for concurrent writers.
func (p *Pool) ExistingFactFingerprints(ctx context.Context, companyID int64, fingerprints []string) (map[string]struct{}, error) {
	const q = `
SELECT content_fingerprint
FROM intel.facts
WHERE company_id = $1 AND content_fingerprint IN (%s)
`
	return p.queryFingerprints(ctx, q, []any{companyID}, fingerprints)
}

// InsertFacts appends staged fact rows, silently skipping duplicates via the
// uniqueness constraint. Returns the number of rows actually inserted.
func (p *Pool) InsertFacts(ctx context.Context, facts []Fact) (int, error) {
	if len(facts) == 0 {
		return 0, nil
	}

	const q = `
INSERT INTO intel.facts (
	company_id, source_id, metric_id, metric_key, as_of_date, raw_value,
	numeric_value, unit, qualifier, quote, extraction_confidence,
	impact_score, content_fingerprint
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (company_id, content_fingerprint) DO NOTHING
`

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin facts tx: %w", err)
	}

	inserted := 0
	for _, fact := range facts {
		tag, err := tx.Exec(ctx, q,
			fact.CompanyID,
			fact.SourceID,
			fact.MetricID,
			fact.MetricKey,
			fact.AsOfDate,
			fact.RawValue,
			fact.NumericValue,
			fact.Unit,
			fact.Qualifier,
			fact.Quote,
			fact.ExtractionConfidence,
			fact.ImpactScore,
			fact.ContentFingerprint,
		)
		if err = TranslateConflict(err); err != nil {
			if errors.Is(err, apperr.ErrConflictIgnored) {
				continue
			}
			_ = tx.Rollback(ctx)
			return 0, fmt.Errorf("insert fact: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit facts tx: %w", err)
	}
	return inserted, nil
}

// GetMetricSeries returns every dated numeric observation of one metric for
// a company, ordered by as_of_date then insertion order so last-seen-wins
// date dedup is deterministic.
func (p *Pool) GetMetricSeries(ctx context.Context, companyID int64, metricKey string) ([]FactPoint, error) {
	const q = `
SELECT as_of_date, numeric_value, created_at
FROM intel.facts
WHERE company_id = $1
  AND metric_key = $2
  AND as_of_date IS NOT NULL
  AND numeric_value IS NOT NULL
ORDER BY as_of_date ASC, created_at ASC, fact_id ASC
`

	rows, err := p.Query(ctx, q, companyID, metricKey)
	if err != nil {
		return nil, fmt.Errorf("query metric series: %w", err)
	}
	defer rows.Close()

	points := make([]FactPoint, 0, 16)
	for rows.Next() {
		var point FactPoint
		if err := rows.Scan(&point.AsOfDate, &point.Value, &point.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan metric series row: %w", err)
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metric series rows: %w", err)
	}

	return points, nil
}

// queryFingerprints runs a fingerprint-existence query whose IN list is
// expanded from extraArgs onward.
func (p *Pool) queryFingerprints(ctx context.Context, queryTemplate string, extraArgs []any, fingerprints []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(fingerprints))
	if len(fingerprints) == 0 {
		return existing, nil
	}

	placeholders := make([]string, 0, len(fingerprints))
	args := append([]any{}, extraArgs...)
	for _, fp := range fingerprints {
		args = append(args, fp)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	q := fmt.Sprintf(queryTemplate, strings.Join(placeholders, ", "))
	rows, err := p.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint row: %w", err)
		}
		existing[fp] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprint rows: %w", err)
	}

	return existing, nil
}
