// Package ingest resolves companies and sources, normalizes fact/insight/news
// batches, and writes them through the store with idempotent semantics:
// re-ingesting an identical payload never creates duplicate rows.
package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/intel/internal/apperr"
	"horse.fit/intel/internal/db"
	"horse.fit/intel/internal/fingerprint"
	"horse.fit/intel/internal/globaltime"
	"horse.fit/intel/internal/langdetect"
	"horse.fit/intel/internal/language"
	"horse.fit/intel/internal/normalize"
	"horse.fit/intel/internal/provenance"
	payloadschema "horse.fit/intel/schema"
)

// maxFullTextChars caps stored news full text to bound row size.
const maxFullTextChars = 8000

// Fields without a usable confidence/impact/importance value fall back to a
// neutral midpoint rather than claiming certainty either way.
const defaultFraction = 0.5

// Store is the slice of the datastore the ingestion pipeline writes through.
type Store interface {
	UpsertCompany(ctx context.Context, slug, name string, domain *string) (*db.Company, error)
	UpsertSource(ctx context.Context, src *db.Source) (*db.Source, bool, error)
	UpsertMetricDefs(ctx context.Context, defs []db.MetricDef) (map[string]int64, error)
	ExistingFactFingerprints(ctx context.Context, companyID int64, fingerprints []string) (map[string]struct{}, error)
	ExistingInsightFingerprints(ctx context.Context, companyID, sourceID int64, fingerprints []string) (map[string]struct{}, error)
	ExistingNewsFingerprints(ctx context.Context, companyID, sourceID int64, fingerprints []string) (map[string]struct{}, error)
	InsertFacts(ctx context.Context, facts []db.Fact) (int, error)
	InsertInsights(ctx context.Context, insights []db.Insight) (int, error)
	InsertNewsEvents(ctx context.Context, events []db.NewsEvent) (int, error)
}

type Service struct {
	store  Store
	logger zerolog.Logger
}

// InsertedCounts reports how many rows each batch actually added; duplicates
// suppressed by fingerprint do not count.
type InsertedCounts struct {
	Facts    int `json:"facts"`
	Insights int `json:"insights"`
	News     int `json:"news"`
}

// Result identifies the resolved company and source after a successful ingest.
type Result struct {
	CompanySlug string         `json:"company"`
	SourceID    int64          `json:"source_id"`
	SourceUUID  string         `json:"source_uuid"`
	Inserted    InsertedCounts `json:"inserted"`
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Ingest runs the full pipeline for one validated payload: company and source
// resolution, provenance classification, dictionary upsert, normalization,
// fingerprint dedup, and batch insert. Rows are never mutated, only appended
// or skipped.
func (s *Service) Ingest(ctx context.Context, doc *payloadschema.IngestPayload) (*Result, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("ingest service is not initialized")
	}
	if doc == nil {
		return nil, (&apperr.ValidationError{}).Add("payload", "payload is nil")
	}

	slug := normalize.Slugify(doc.Company)
	if slug == "" {
		return nil, (&apperr.ValidationError{}).Add("company", "company name does not yield a usable slug")
	}

	company, err := s.store.UpsertCompany(ctx, slug, strings.TrimSpace(doc.Company), nullableString(doc.CompanyDomain))
	if err != nil {
		return nil, &apperr.StorageError{Entity: "company", Err: err}
	}

	source, err := s.resolveSource(ctx, company, doc)
	if err != nil {
		return nil, err
	}

	metricIDs, err := s.upsertMetricDefs(ctx, source, doc.Facts)
	if err != nil {
		return nil, err
	}

	facts, err := s.stageFacts(ctx, company.CompanyID, source, metricIDs, doc.Facts)
	if err != nil {
		return nil, err
	}
	insights, err := s.stageInsights(ctx, company.CompanyID, source, doc.Insights)
	if err != nil {
		return nil, err
	}
	news, err := s.stageNews(ctx, company.CompanyID, source, doc.News)
	if err != nil {
		return nil, err
	}

	var counts InsertedCounts
	if counts.Facts, err = s.store.InsertFacts(ctx, facts); err != nil {
		return nil, &apperr.StorageError{Entity: "fact", Err: err}
	}
	if counts.Insights, err = s.store.InsertInsights(ctx, insights); err != nil {
		return nil, &apperr.StorageError{Entity: "insight", Err: err}
	}
	if counts.News, err = s.store.InsertNewsEvents(ctx, news); err != nil {
		return nil, &apperr.StorageError{Entity: "news_event", Err: err}
	}

	s.logger.Info().
		Str("company", company.Slug).
		Int64("source_id", source.SourceID).
		Int("facts_inserted", counts.Facts).
		Int("insights_inserted", counts.Insights).
		Int("news_inserted", counts.News).
		Msg("ingest completed")

	return &Result{
		CompanySlug: company.Slug,
		SourceID:    source.SourceID,
		SourceUUID:  source.SourceUUID,
		Inserted:    counts,
	}, nil
}

// resolveSource classifies provenance for the URL and upserts the source row.
// Trust attribution is first-write-wins: the classification only lands when
// the (company, url) pair is new.
func (s *Service) resolveSource(ctx context.Context, company *db.Company, doc *payloadschema.IngestPayload) (*db.Source, error) {
	companyDomain := ""
	if company.Domain != nil {
		companyDomain = *company.Domain
	}
	classification := provenance.Classify(doc.Source.URL, companyDomain)

	var publishedAt *time.Time
	if ts, ok := normalize.ParseTimestamp(doc.Source.PublishedAt); ok {
		publishedAt = &ts
	}

	docTypeHint := doc.Source.DocType
	if strings.TrimSpace(docTypeHint) == "" {
		docTypeHint = doc.Source.Title
	}

	docLanguage := language.NormalizeCode(doc.Source.DocLanguage)
	if docLanguage == "" {
		docLanguage = langdetect.DetectISO6391(languageSample(doc))
	}

	source, created, err := s.store.UpsertSource(ctx, &db.Source{
		CompanyID:       company.CompanyID,
		URL:             strings.TrimSpace(doc.Source.URL),
		Title:           strings.TrimSpace(doc.Source.Title),
		DocType:         normalize.ClassifyDocType(docTypeHint),
		PublishedAt:     publishedAt,
		Language:        nullableString(docLanguage),
		Version:         nullableString(doc.Source.Version),
		ContentMD5:      nullableString(doc.Source.SourceMD5),
		PublisherDomain: nullableString(classification.PublisherDomain),
		PublisherName:   nullableString(classification.PublisherName),
		PublisherType:   classification.PublisherType,
		IsOfficial:      classification.IsOfficial,
		TrustScore:      classification.TrustScore,
	})
	if err != nil {
		return nil, &apperr.StorageError{Entity: "source", Err: err}
	}

	if created {
		s.logger.Debug().
			Str("company", company.Slug).
			Str("publisher_type", source.PublisherType).
			Float64("trust_score", source.TrustScore).
			Msg("source created")
	}
	return source, nil
}

// upsertMetricDefs grows the metric dictionary for every new key in the fact
// batch in one round trip. This must complete before fact rows are built so
// their metric IDs are known.
func (s *Service) upsertMetricDefs(ctx context.Context, source *db.Source, facts []payloadschema.FactInput) (map[string]int64, error) {
	if len(facts) == 0 {
		return map[string]int64{}, nil
	}

	seen := make(map[string]struct{}, len(facts))
	defs := make([]db.MetricDef, 0, len(facts))
	for _, fact := range facts {
		keySlug := normalize.Slugify(fact.MetricKey)
		if keySlug == "" {
			continue
		}
		if _, dup := seen[keySlug]; dup {
			continue
		}
		seen[keySlug] = struct{}{}

		label := strings.TrimSpace(fact.MetricLabel)
		if label == "" {
			label = strings.TrimSpace(fact.MetricKey)
		}
		bucket := normalize.Slugify(fact.Bucket)
		if bucket == "" {
			bucket = "other"
		}

		defs = append(defs, db.MetricDef{
			KeySlug:       keySlug,
			Label:         label,
			Bucket:        bucket,
			PrimarySource: source.PublisherType,
		})
	}

	ids, err := s.store.UpsertMetricDefs(ctx, defs)
	if err != nil {
		return nil, &apperr.StorageError{Entity: "metric_def", Err: err}
	}
	return ids, nil
}

func (s *Service) stageFacts(ctx context.Context, companyID int64, source *db.Source, metricIDs map[string]int64, inputs []payloadschema.FactInput) ([]db.Fact, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	staged := make([]db.Fact, 0, len(inputs))
	order := make([]string, 0, len(inputs))
	batch := make(map[string]struct{}, len(inputs))

	for _, input := range inputs {
		keySlug := normalize.Slugify(input.MetricKey)
		metricID, known := metricIDs[keySlug]
		if keySlug == "" || !known {
			continue
		}

		rawValue := stringifyValue(input.MetricValue)
		if rawValue == "" {
			continue
		}

		var asOfDate *time.Time
		if d, ok := normalize.ParseDate(input.AsOfDate); ok {
			asOfDate = &d
		}

		var numericValue *float64
		if n, ok := normalize.ParseNumber(rawValue); ok {
			numericValue = &n
		}

		unit := strings.TrimSpace(input.Unit)
		if unit == "" {
			if currency := normalize.GuessCurrency(rawValue); currency != "unknown" {
				unit = currency
			}
		}

		// Fingerprint before defaulting the date so replaying a dateless
		// payload on a later day still dedups against the stored row.
		fp := fingerprint.Fact(keySlug, asOfDate, rawValue)
		if _, dup := batch[fp]; dup {
			continue
		}
		batch[fp] = struct{}{}
		order = append(order, fp)

		if asOfDate == nil {
			d := defaultAsOfDate(source)
			asOfDate = &d
		}

		staged = append(staged, db.Fact{
			CompanyID:            companyID,
			SourceID:             source.SourceID,
			MetricID:             metricID,
			MetricKey:            keySlug,
			AsOfDate:             asOfDate,
			RawValue:             rawValue,
			NumericValue:         numericValue,
			Unit:                 nullableString(unit),
			Qualifier:            nullableString(input.Qualifier),
			Quote:                nullableString(input.Quote),
			ExtractionConfidence: fractionOrDefault(input.ExtractionConfidence),
			ImpactScore:          fractionOrDefault(input.ImpactScore),
			ContentFingerprint:   fp,
		})
	}

	existing, err := s.store.ExistingFactFingerprints(ctx, companyID, order)
	if err != nil {
		return nil, &apperr.StorageError{Entity: "fact", Err: err}
	}
	return filterStagedFacts(staged, existing), nil
}

func (s *Service) stageInsights(ctx context.Context, companyID int64, source *db.Source, inputs []payloadschema.InsightInput) ([]db.Insight, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	staged := make([]db.Insight, 0, len(inputs))
	order := make([]string, 0, len(inputs))
	batch := make(map[string]struct{}, len(inputs))

	for _, input := range inputs {
		text := strings.TrimSpace(input.Text)
		if text == "" {
			continue
		}

		fp := fingerprint.Insight(text)
		if _, dup := batch[fp]; dup {
			continue
		}
		batch[fp] = struct{}{}
		order = append(order, fp)

		themeHint := input.Theme
		if strings.TrimSpace(themeHint) == "" {
			themeHint = text
		}

		confidence := fractionOrDefault(input.Confidence)
		staged = append(staged, db.Insight{
			CompanyID:          companyID,
			SourceID:           source.SourceID,
			Theme:              normalize.ClassifyTheme(themeHint),
			ThemeRaw:           nullableString(input.Theme),
			Text:               text,
			Confidence:         confidence,
			ProvenanceScore:    confidence * source.TrustScore,
			ContentFingerprint: fp,
		})
	}

	existing, err := s.store.ExistingInsightFingerprints(ctx, companyID, source.SourceID, order)
	if err != nil {
		return nil, &apperr.StorageError{Entity: "insight", Err: err}
	}

	kept := staged[:0]
	for _, row := range staged {
		if _, dup := existing[row.ContentFingerprint]; dup {
			continue
		}
		kept = append(kept, row)
	}
	return kept, nil
}

func (s *Service) stageNews(ctx context.Context, companyID int64, source *db.Source, inputs []payloadschema.NewsInput) ([]db.NewsEvent, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	staged := make([]db.NewsEvent, 0, len(inputs))
	order := make([]string, 0, len(inputs))
	batch := make(map[string]struct{}, len(inputs))

	for _, input := range inputs {
		headline := strings.TrimSpace(input.Headline)
		if headline == "" {
			continue
		}

		summary := strings.TrimSpace(input.Summary)
		fullText := capRunes(strings.TrimSpace(input.FullText), maxFullTextChars)

		fp := fingerprint.News(headline, summary, fullText)
		if _, dup := batch[fp]; dup {
			continue
		}
		batch[fp] = struct{}{}
		order = append(order, fp)

		var eventDate *time.Time
		if d, ok := normalize.ParseDate(input.EventDate); ok {
			eventDate = &d
		}

		themeHint := input.Theme
		if strings.TrimSpace(themeHint) == "" {
			themeHint = headline + " " + summary
		}

		staged = append(staged, db.NewsEvent{
			CompanyID:          companyID,
			SourceID:           source.SourceID,
			EventDate:          eventDate,
			Headline:           headline,
			Summary:            nullableString(summary),
			FullText:           nullableString(fullText),
			Theme:              normalize.ClassifyTheme(themeHint),
			Importance:         fractionOrDefault(input.Importance),
			ContentFingerprint: fp,
		})
	}

	existing, err := s.store.ExistingNewsFingerprints(ctx, companyID, source.SourceID, order)
	if err != nil {
		return nil, &apperr.StorageError{Entity: "news_event", Err: err}
	}

	kept := staged[:0]
	for _, row := range staged {
		if _, dup := existing[row.ContentFingerprint]; dup {
			continue
		}
		kept = append(kept, row)
	}
	return kept, nil
}

// languageSample gathers enough text from the payload for the language
// detector when the source omits doc_language.
func languageSample(doc *payloadschema.IngestPayload) string {
	parts := []string{doc.Source.Title}
	if len(doc.Insights) > 0 {
		parts = append(parts, doc.Insights[0].Text)
	}
	if len(doc.News) > 0 {
		parts = append(parts, doc.News[0].Headline, doc.News[0].Summary)
	}
	return strings.Join(parts, " ")
}

// defaultAsOfDate anchors a dateless fact to the source publication date, or
// the ingest date when the source has no timestamp either, so every stored
// fact can take part in a metric series.
func defaultAsOfDate(source *db.Source) time.Time {
	base := globaltime.UTC()
	if source.PublishedAt != nil {
		base = source.PublishedAt.UTC()
	}
	return time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, time.UTC)
}

func filterStagedFacts(staged []db.Fact, existing map[string]struct{}) []db.Fact {
	kept := staged[:0]
	for _, row := range staged {
		if _, dup := existing[row.ContentFingerprint]; dup {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

// stringifyValue renders a loosely-typed metric value as the raw text kept
// alongside the parsed numeric.
func stringifyValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func fractionOrDefault(value any) float64 {
	if f, ok := normalize.ParseFraction(value); ok {
		return f
	}
	return defaultFraction
}

func nullableString(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func capRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
