package db

import (
	"context"
	"fmt"
	"strings"
)

// UpsertCompany resolves a company by slug, creating it on first ingest.
// The upsert is atomic, so concurrent ingests of the same name converge on
// one row. Name and domain are fixed at creation; the slug never changes.
func (p *Pool) UpsertCompany(ctx context.Context, slug, name string, domain *string) (*Company, error) {
	const q = `
INSERT INTO intel.companies (slug, name, domain)
VALUES ($1, $2, $3)
ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
RETURNING company_id, company_uuid::text, slug, name, domain, created_at
`

	var row Company
	err := p.QueryRow(ctx, q, slug, name, domain).Scan(
		&row.CompanyID,
		&row.CompanyUUID,
		&row.Slug,
		&row.Name,
		&row.Domain,
		&row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert company: %w", err)
	}
	return &row, nil
}

// GetCompanyBySlug returns the company with the exact slug, or ErrNoRows.
func (p *Pool) GetCompanyBySlug(ctx context.Context, slug string) (*Company, error) {
	const q = `
SELECT company_id, company_uuid::text, slug, name, domain, created_at
FROM intel.companies
WHERE slug = $1
`

	var row Company
	err := p.QueryRow(ctx, q, slug).Scan(
		&row.CompanyID,
		&row.CompanyUUID,
		&row.Slug,
		&row.Name,
		&row.Domain,
		&row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindCompanyByFuzzyName falls back to a case-insensitive substring match on
// the display name, preferring the shortest (most specific) match.
func (p *Pool) FindCompanyByFuzzyName(ctx context.Context, name string) (*Company, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrNoRows
	}

	const q = `
SELECT company_id, company_uuid::text, slug, name, domain, created_at
FROM intel.companies
WHERE name ILIKE '%' || $1 || '%'
ORDER BY length(name) ASC, company_id ASC
LIMIT 1
`

	var row Company
	err := p.QueryRow(ctx, q, trimmed).Scan(
		&row.CompanyID,
		&row.CompanyUUID,
		&row.Slug,
		&row.Name,
		&row.Domain,
		&row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}
