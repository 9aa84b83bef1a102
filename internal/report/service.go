// Package report assembles the read-side payload for one company: metric
// series with trend analytics, provenance-ranked insights with aggregates,
// bilingual narratives, and recent news.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"horse.fit/intel/internal/analytics"
	"horse.fit/intel/internal/apperr"
	"horse.fit/intel/internal/db"
	"horse.fit/intel/internal/normalize"
)

const (
	defaultLimit = 5
	maxLimit     = 50
)

// Store is the slice of the datastore the read side queries.
type Store interface {
	GetCompanyBySlug(ctx context.Context, slug string) (*db.Company, error)
	FindCompanyByFuzzyName(ctx context.Context, name string) (*db.Company, error)
	GetMetricSeries(ctx context.Context, companyID int64, metricKey string) ([]db.FactPoint, error)
	ListInsightsRanked(ctx context.Context, companyID int64, theme string, limit int) ([]db.RankedInsight, error)
	ListRecentNews(ctx context.Context, companyID int64, limit int) ([]db.NewsItem, error)
}

type Service struct {
	store  Store
	logger zerolog.Logger
}

// Query carries the read parameters. Limit zero means the default.
type Query struct {
	Company string
	Metric  string
	Theme   string
	Limit   int
}

type CompanyInfo struct {
	Slug   string  `json:"slug"`
	Name   string  `json:"name"`
	Domain *string `json:"domain,omitempty"`
}

type MetricSeries struct {
	Key    string            `json:"key"`
	Points []analytics.Point `json:"points"`
}

type InsightEntry struct {
	UUID            string  `json:"uuid"`
	Theme           string  `json:"theme"`
	Text            string  `json:"text"`
	Confidence      float64 `json:"confidence"`
	ProvenanceScore float64 `json:"provenance_score"`
	TrustScore      float64 `json:"trust_score"`
	PublisherType   string  `json:"publisher_type"`
	PublisherName   *string `json:"publisher_name,omitempty"`
	SourceURL       string  `json:"source_url"`
	CreatedAt       string  `json:"created_at"`
}

// Aggregates summarizes the truncated insight set.
type Aggregates struct {
	MeanProvenanceScore  float64        `json:"mean_provenance_score"`
	CountByPublisherType map[string]int `json:"count_by_publisher_type"`
}

type InsightsSection struct {
	Top        []InsightEntry `json:"top"`
	Aggregates Aggregates     `json:"aggregates"`
}

type NewsEntry struct {
	UUID          string  `json:"uuid"`
	EventDate     *string `json:"event_date,omitempty"`
	Headline      string  `json:"headline"`
	Summary       *string `json:"summary,omitempty"`
	Theme         string  `json:"theme"`
	Importance    float64 `json:"importance"`
	SourceURL     string  `json:"source_url"`
	PublisherName *string `json:"publisher_name,omitempty"`
}

// Report is the full read payload for one company.
type Report struct {
	Company    CompanyInfo     `json:"company"`
	Metrics    []MetricSeries  `json:"metrics"`
	Insights   InsightsSection `json:"insights"`
	Narratives []Narrative     `json:"narratives"`
	News       []NewsEntry     `json:"news"`
}

func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Report resolves the company and assembles the payload. Unknown companies
// yield a not-found error; bad parameters yield a validation error.
func (s *Service) Report(ctx context.Context, query Query) (*Report, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("report service is not initialized")
	}

	limit, err := resolveLimit(query.Limit)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(query.Company) == "" {
		return nil, (&apperr.ValidationError{}).Add("company", "company is required")
	}

	company, err := s.resolveCompany(ctx, query.Company)
	if err != nil {
		return nil, err
	}

	out := &Report{
		Company: CompanyInfo{
			Slug:   company.Slug,
			Name:   company.Name,
			Domain: company.Domain,
		},
		Metrics:    []MetricSeries{},
		Narratives: []Narrative{},
	}

	metricKey := normalize.Slugify(query.Metric)
	if metricKey != "" {
		points, err := s.metricSeries(ctx, company.CompanyID, metricKey)
		if err != nil {
			return nil, err
		}
		out.Metrics = append(out.Metrics, MetricSeries{Key: metricKey, Points: points})
		out.Narratives = Narratives(metricKey, points)
	}

	// Run the filter through the same bilingual vocabulary the ingest path
	// classifies with, so ?theme=croissance matches rows stored as growth.
	theme := ""
	if strings.TrimSpace(query.Theme) != "" {
		theme = normalize.ClassifyTheme(query.Theme)
	}
	insights, err := s.store.ListInsightsRanked(ctx, company.CompanyID, theme, limit)
	if err != nil {
		return nil, &apperr.StorageError{Entity: "insight", Err: err}
	}
	out.Insights = buildInsightsSection(insights)

	news, err := s.store.ListRecentNews(ctx, company.CompanyID, limit)
	if err != nil {
		return nil, &apperr.StorageError{Entity: "news_event", Err: err}
	}
	out.News = buildNewsEntries(news)

	s.logger.Debug().
		Str("company", company.Slug).
		Str("metric", metricKey).
		Int("insights", len(out.Insights.Top)).
		Msg("report assembled")

	return out, nil
}

// resolveCompany tries the exact slug first, then a fuzzy name match.
func (s *Service) resolveCompany(ctx context.Context, identifier string) (*db.Company, error) {
	slug := normalize.Slugify(identifier)

	company, err := s.store.GetCompanyBySlug(ctx, slug)
	if err == nil {
		return company, nil
	}
	if !db.IsNoRows(err) {
		return nil, &apperr.StorageError{Entity: "company", Err: err}
	}

	company, err = s.store.FindCompanyByFuzzyName(ctx, identifier)
	if err == nil {
		return company, nil
	}
	if db.IsNoRows(err) {
		return nil, &apperr.NotFoundError{Entity: "company", Key: identifier}
	}
	return nil, &apperr.StorageError{Entity: "company", Err: err}
}

// metricSeries loads the raw observations and runs the trend analysis. Rows
// arrive ordered by date then creation time, so the last value per date is
// the most recently written one.
func (s *Service) metricSeries(ctx context.Context, companyID int64, metricKey string) ([]analytics.Point, error) {
	rows, err := s.store.GetMetricSeries(ctx, companyID, metricKey)
	if err != nil {
		return nil, &apperr.StorageError{Entity: "fact", Err: err}
	}

	observations := make([]analytics.Observation, 0, len(rows))
	for _, row := range rows {
		observations = append(observations, analytics.Observation{
			Date:  row.AsOfDate,
			Value: row.Value,
		})
	}
	return analytics.Analyze(observations), nil
}

func buildInsightsSection(rows []db.RankedInsight) InsightsSection {
	section := InsightsSection{
		Top: make([]InsightEntry, 0, len(rows)),
		Aggregates: Aggregates{
			CountByPublisherType: map[string]int{},
		},
	}

	var scoreSum float64
	for _, row := range rows {
		section.Top = append(section.Top, InsightEntry{
			UUID:            row.InsightUUID,
			Theme:           row.Theme,
			Text:            row.Text,
			Confidence:      row.Confidence,
			ProvenanceScore: row.ProvenanceScore,
			TrustScore:      row.TrustScore,
			PublisherType:   row.PublisherType,
			PublisherName:   row.PublisherName,
			SourceURL:       row.SourceURL,
			CreatedAt:       row.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
		scoreSum += row.ProvenanceScore
		section.Aggregates.CountByPublisherType[row.PublisherType]++
	}
	if len(rows) > 0 {
		section.Aggregates.MeanProvenanceScore = scoreSum / float64(len(rows))
	}
	return section
}

func buildNewsEntries(rows []db.NewsItem) []NewsEntry {
	entries := make([]NewsEntry, 0, len(rows))
	for _, row := range rows {
		var eventDate *string
		if row.EventDate != nil {
			formatted := row.EventDate.Format("2006-01-02")
			eventDate = &formatted
		}
		entries = append(entries, NewsEntry{
			UUID:          row.NewsEventUUID,
			EventDate:     eventDate,
			Headline:      row.Headline,
			Summary:       row.Summary,
			Theme:         row.Theme,
			Importance:    row.Importance,
			SourceURL:     row.SourceURL,
			PublisherName: row.PublisherName,
		})
	}
	return entries
}

func resolveLimit(limit int) (int, error) {
	if limit == 0 {
		return defaultLimit, nil
	}
	if limit < 1 || limit > maxLimit {
		return 0, (&apperr.ValidationError{}).Add("limit", fmt.Sprintf("limit must be between 1 and %d", maxLimit))
	}
	return limit, nil
}
