package db

import (
	"context"
	"fmt"
)

// UpsertSource resolves a source by (company_id, url), creating it with the
// supplied provenance fields on first sight. Re-ingesting the same URL keeps
// the original publisher identity and trust score (first-write-wins); only
// mutable document metadata is refreshed. The second return value reports
// whether a new row was created.
func (p *Pool) UpsertSource(ctx context.Context, src *Source) (*Source, bool, error) {
	if src == nil {
		return nil, false, fmt.Errorf("source is nil")
	}

	const q = `
INSERT INTO intel.sources (
	company_id, url, title, doc_type, published_at, language, version,
	content_md5, publisher_domain, publisher_name, publisher_type,
	is_official, trust_score
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (company_id, url) DO UPDATE SET
	title        = EXCLUDED.title,
	doc_type     = EXCLUDED.doc_type,
	published_at = COALESCE(EXCLUDED.published_at, intel.sources.published_at),
	language     = COALESCE(EXCLUDED.language, intel.sources.language),
	version      = COALESCE(EXCLUDED.version, intel.sources.version),
	content_md5  = COALESCE(EXCLUDED.content_md5, intel.sources.content_md5)
RETURNING source_id, source_uuid::text, company_id, url, title, doc_type,
	published_at, language, version, content_md5, publisher_domain,
	publisher_name, publisher_type, is_official, trust_score, created_at,
	(xmax = 0) AS inserted
`

	var row Source
	var inserted bool
	err := p.QueryRow(ctx, q,
		src.CompanyID,
		src.URL,
		src.Title,
		src.DocType,
		src.PublishedAt,
		src.Language,
		src.Version,
		src.ContentMD5,
		src.PublisherDomain,
		src.PublisherName,
		src.PublisherType,
		src.IsOfficial,
		src.TrustScore,
	).Scan(
		&row.SourceID,
		&row.SourceUUID,
		&row.CompanyID,
		&row.URL,
		&row.Title,
		&row.DocType,
		&row.PublishedAt,
		&row.Language,
		&row.Version,
		&row.ContentMD5,
		&row.PublisherDomain,
		&row.PublisherName,
		&row.PublisherType,
		&row.IsOfficial,
		&row.TrustScore,
		&row.CreatedAt,
		&inserted,
	)
	if err != nil {
		return nil, false, fmt.Errorf("upsert source: %w", err)
	}
	return &row, inserted, nil
}
