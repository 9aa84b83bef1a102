package db

import (
	"context"
	"fmt"
	"strings"
)

// UpsertMetricDefs inserts any unseen metric dictionary entries and returns
// the metric_id for every requested key slug, in a single round trip. The
// conflict clause is a self-assignment so existing rows still appear in
// RETURNING; labels and buckets are fixed when a key is first seen. Callers
// must pass each key slug at most once.
func (p *Pool) UpsertMetricDefs(ctx context.Context, defs []MetricDef) (map[string]int64, error) {
	if len(defs) == 0 {
		return map[string]int64{}, nil
	}

	values := make([]string, 0, len(defs))
	args := make([]any, 0, len(defs)*4)
	for i, def := range defs {
		base := i * 4
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args, def.KeySlug, def.Label, def.Bucket, def.PrimarySource)
	}

	q := `
INSERT INTO intel.metric_defs (key_slug, label, bucket, primary_source)
VALUES ` + strings.Join(values, ", ") + `
ON CONFLICT (key_slug) DO UPDATE SET key_slug = EXCLUDED.key_slug
RETURNING metric_id, key_slug
`

	rows, err := p.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("upsert metric defs: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64, len(defs))
	for rows.Next() {
		var id int64
		var slug string
		if err := rows.Scan(&id, &slug); err != nil {
			return nil, fmt.Errorf("scan metric def row: %w", err)
		}
		ids[slug] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metric def rows: %w", err)
	}

	return ids, nil
}
