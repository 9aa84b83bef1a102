package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"horse.fit/intel/internal/apperr"
)

// NewsItem is a news event row joined with its source for read responses.
type NewsItem struct {
	NewsEventUUID string
	EventDate     *time.Time
	Headline      string
	Summary       *string
	Theme         string
	Importance    float64
	SourceURL     string
	PublisherName *string
	CreatedAt     time.Time
}

// ExistingNewsFingerprints returns which of the given fingerprints already
// exist for the company and source.
func (p *Pool) ExistingNewsFingerprints(ctx context.Context, companyID, sourceID int64, fingerprints []string) (map[string]struct{}, error) {
	const q = `
SELECT content_fingerprint
FROM intel.news_events
WHERE company_id = $1 AND source_id = $2 AND content_fingerprint IN (%s)
`
	return p.queryFingerprints(ctx, q, []any{companyID, sourceID}, fingerprints)
}

// InsertNewsEvents appends staged news rows, skipping duplicates via the
// uniqueness constraint. Returns the number of rows actually inserted.
func (p *Pool) InsertNewsEvents(ctx context.Context, events []NewsEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	const q = `
INSERT INTO intel.news_events (
	company_id, source_id, event_date, headline, summary, full_text,
	theme, importance, content_fingerprint
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (company_id, source_id, content_fingerprint) DO NOTHING
`

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin news tx: %w", err)
	}

	inserted := 0
	for _, event := range events {
		tag, err := tx.Exec(ctx, q,
			event.CompanyID,
			event.SourceID,
			event.EventDate,
			event.Headline,
			event.Summary,
			event.FullText,
			event.Theme,
			event.Importance,
			event.ContentFingerprint,
		)
		if err = TranslateConflict(err); err != nil {
			if errors.Is(err, apperr.ErrConflictIgnored) {
				continue
			}
			_ = tx.Rollback(ctx)
			return 0, fmt.Errorf("insert news event: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit news tx: %w", err)
	}
	return inserted, nil
}

// ListRecentNews returns a company's most recent news events, newest first
// by event date with insertion time as the tie-breaker.
func (p *Pool) ListRecentNews(ctx context.Context, companyID int64, limit int) ([]NewsItem, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	const q = `
SELECT
	n.news_event_uuid::text,
	n.event_date,
	n.headline,
	n.summary,
	n.theme,
	n.importance,
	s.url,
	s.publisher_name,
	n.created_at
FROM intel.news_events n
JOIN intel.sources s ON s.source_id = n.source_id
WHERE n.company_id = $1
ORDER BY n.event_date DESC NULLS LAST, n.created_at DESC, n.news_event_id DESC
LIMIT $2
`

	rows, err := p.Query(ctx, q, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent news: %w", err)
	}
	defer rows.Close()

	items := make([]NewsItem, 0, limit)
	for rows.Next() {
		var row NewsItem
		if err := rows.Scan(
			&row.NewsEventUUID,
			&row.EventDate,
			&row.Headline,
			&row.Summary,
			&row.Theme,
			&row.Importance,
			&row.SourceURL,
			&row.PublisherName,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan news row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate news rows: %w", err)
	}

	return items, nil
}
