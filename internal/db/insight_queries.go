package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"horse.fit/intel/internal/apperr"
)

// RankedInsight is an insight row joined with its source's provenance fields
// for read-time ranking and aggregation.
type RankedInsight struct {
	InsightUUID     string
	Theme           string
	Text            string
	Confidence      float64
	ProvenanceScore float64
	TrustScore      float64
	PublisherType   string
	PublisherName   *string
	SourceURL       string
	CreatedAt       time.Time
}

// ExistingInsightFingerprints returns which of the given fingerprints already
// exist for the company and source.
func (p *Pool) ExistingInsightFingerprints(ctx context.Context, companyID, sourceID int64, fingerprints []string) (map[string]struct{}, error) {
	const q = `
SELECT content_fingerprint
FROM intel.insights
WHERE company_id = $1 AND source_id = $2 AND content_fingerprint IN (%s)
`
	return p.queryFingerprints(ctx, q, []any{companyID, sourceID}, fingerprints)
}

// InsertInsights appends staged insight rows, skipping duplicates via the
// uniqueness constraint. Returns the number of rows actually inserted.
func (p *Pool) InsertInsights(ctx context.Context, insights []Insight) (int, error) {
	if len(insights) == 0 {
		return 0, nil
	}

	const q = `
INSERT INTO intel.insights (
	company_id, source_id, theme, theme_raw, text, confidence,
	provenance_score, content_fingerprint
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (company_id, source_id, content_fingerprint) DO NOTHING
`

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin insights tx: %w", err)
	}

	inserted := 0
	for _, insight := range insights {
		tag, err := tx.Exec(ctx, q,
			insight.CompanyID,
			insight.SourceID,
			insight.Theme,
			insight.ThemeRaw,
			insight.Text,
			insight.Confidence,
			insight.ProvenanceScore,
			insight.ContentFingerprint,
		)
		if err = TranslateConflict(err); err != nil {
			if errors.Is(err, apperr.ErrConflictIgnored) {
				continue
			}
			_ = tx.Rollback(ctx)
			return 0, fmt.Errorf("insert insight: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit insights tx: %w", err)
	}
	return inserted, nil
}

// ListInsightsRanked returns a company's insights joined with source
// provenance, ranked by provenance score with recency as the tie-breaker.
// theme, when non-empty, filters to one theme. limit caps the result.
func (p *Pool) ListInsightsRanked(ctx context.Context, companyID int64, theme string, limit int) ([]RankedInsight, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	const q = `
SELECT
	i.insight_uuid::text,
	i.theme,
	i.text,
	i.confidence,
	i.provenance_score,
	s.trust_score,
	s.publisher_type,
	s.publisher_name,
	s.url,
	i.created_at
FROM intel.insights i
JOIN intel.sources s ON s.source_id = i.source_id
WHERE i.company_id = $1
  AND ($2 = '' OR i.theme = $2)
ORDER BY i.provenance_score DESC, i.created_at DESC, i.insight_id DESC
LIMIT $3
`

	rows, err := p.Query(ctx, q, companyID, theme, limit)
	if err != nil {
		return nil, fmt.Errorf("query ranked insights: %w", err)
	}
	defer rows.Close()

	items := make([]RankedInsight, 0, limit)
	for rows.Next() {
		var row RankedInsight
		if err := rows.Scan(
			&row.InsightUUID,
			&row.Theme,
			&row.Text,
			&row.Confidence,
			&row.ProvenanceScore,
			&row.TrustScore,
			&row.PublisherType,
			&row.PublisherName,
			&row.SourceURL,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ranked insight row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranked insight rows: %w", err)
	}

	return items, nil
}
