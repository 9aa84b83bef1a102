package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/intel/internal/apperr"
	"horse.fit/intel/internal/db"
)

type fakeReadStore struct {
	company     *db.Company
	fuzzyOnly   bool
	series      []db.FactPoint
	insights    []db.RankedInsight
	news        []db.NewsItem
	seriesErr   error
	newsLimitIn int

	insightsIn struct {
		theme string
		limit int
	}
}

func (f *fakeReadStore) GetCompanyBySlug(_ context.Context, slug string) (*db.Company, error) {
	if f.company != nil && !f.fuzzyOnly && f.company.Slug == slug {
		return f.company, nil
	}
	return nil, db.ErrNoRows
}

func (f *fakeReadStore) FindCompanyByFuzzyName(_ context.Context, name string) (*db.Company, error) {
	if f.company != nil && strings.Contains(strings.ToLower(f.company.Name), strings.ToLower(strings.TrimSpace(name))) {
		return f.company, nil
	}
	return nil, db.ErrNoRows
}

func (f *fakeReadStore) GetMetricSeries(_ context.Context, _ int64, _ string) ([]db.FactPoint, error) {
	if f.seriesErr != nil {
		return nil, f.seriesErr
	}
	return f.series, nil
}

func (f *fakeReadStore) ListInsightsRanked(_ context.Context, _ int64, theme string, limit int) ([]db.RankedInsight, error) {
	f.insightsIn.theme = theme
	f.insightsIn.limit = limit
	return f.insights, nil
}

func (f *fakeReadStore) ListRecentNews(_ context.Context, _ int64, limit int) ([]db.NewsItem, error) {
	f.newsLimitIn = limit
	return f.news, nil
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testCompany() *db.Company {
	return &db.Company{CompanyID: 7, CompanyUUID: "uuid", Slug: "acme-corp", Name: "Acme Corp"}
}

func TestReportAssemblesFullPayload(t *testing.T) {
	t.Parallel()

	name := "Reuters"
	store := &fakeReadStore{
		company: testCompany(),
		series: []db.FactPoint{
			{AsOfDate: date("2024-12-31"), Value: 100},
			{AsOfDate: date("2025-12-31"), Value: 110},
		},
		insights: []db.RankedInsight{
			{InsightUUID: "i1", Theme: "strategy", Text: "a", Confidence: 0.9, ProvenanceScore: 0.81, TrustScore: 0.9, PublisherType: "exchange", SourceURL: "https://x", CreatedAt: date("2026-01-01")},
			{InsightUUID: "i2", Theme: "risk", Text: "b", Confidence: 0.5, ProvenanceScore: 0.25, TrustScore: 0.5, PublisherType: "other", SourceURL: "https://y", CreatedAt: date("2026-01-02")},
		},
		news: []db.NewsItem{
			{NewsEventUUID: "n1", Headline: "h", Theme: "other", Importance: 0.5, SourceURL: "https://z", PublisherName: &name},
		},
	}
	svc := NewService(store, zerolog.Nop())

	out, err := svc.Report(context.Background(), Query{Company: "Acme Corp", Metric: "Revenue", Theme: "Strategy"})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	if out.Company.Slug != "acme-corp" {
		t.Errorf("company slug = %q", out.Company.Slug)
	}
	if len(out.Metrics) != 1 || out.Metrics[0].Key != "revenue" {
		t.Fatalf("metrics = %+v, want one revenue series", out.Metrics)
	}
	points := out.Metrics[0].Points
	if len(points) != 2 {
		t.Fatalf("series points = %d, want 2", len(points))
	}
	if points[0].DeltaPct != nil {
		t.Error("first point should have no delta")
	}
	if points[1].DeltaPct == nil || *points[1].DeltaPct != 10 {
		t.Errorf("second point delta = %v, want 10", points[1].DeltaPct)
	}

	if store.insightsIn.theme != "strategy" {
		t.Errorf("theme filter passed to store = %q, want strategy", store.insightsIn.theme)
	}
	if store.insightsIn.limit != defaultLimit || store.newsLimitIn != defaultLimit {
		t.Errorf("limits = %d/%d, want default %d", store.insightsIn.limit, store.newsLimitIn, defaultLimit)
	}

	agg := out.Insights.Aggregates
	if want := (0.81 + 0.25) / 2; agg.MeanProvenanceScore != want {
		t.Errorf("mean provenance = %v, want %v", agg.MeanProvenanceScore, want)
	}
	if agg.CountByPublisherType["exchange"] != 1 || agg.CountByPublisherType["other"] != 1 {
		t.Errorf("publisher counts = %v", agg.CountByPublisherType)
	}

	if len(out.Narratives) != 2 {
		t.Fatalf("narratives = %d, want 2", len(out.Narratives))
	}
	if !strings.Contains(out.Narratives[0].EN, "No comparable prior period") {
		t.Errorf("first narrative EN = %q", out.Narratives[0].EN)
	}
	if !strings.Contains(out.Narratives[1].EN, "increased by 10.0%") || !strings.Contains(out.Narratives[1].EN, "strong signal") {
		t.Errorf("second narrative EN = %q", out.Narratives[1].EN)
	}
	if !strings.Contains(out.Narratives[1].FR, "a augmenté de 10,0 %") || !strings.Contains(out.Narratives[1].FR, "signal fort") {
		t.Errorf("second narrative FR = %q", out.Narratives[1].FR)
	}

	if len(out.News) != 1 || out.News[0].Headline != "h" {
		t.Errorf("news = %+v", out.News)
	}
}

func TestReportClassifiesThemeFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		theme string
		want  string
	}{
		{name: "french synonym", theme: "croissance", want: "growth"},
		{name: "canonical value", theme: "Growth", want: "growth"},
		{name: "unknown falls back to other", theme: "quarterly gossip", want: "other"},
		{name: "blank disables filtering", theme: "   ", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeReadStore{company: testCompany()}
			svc := NewService(store, zerolog.Nop())

			if _, err := svc.Report(context.Background(), Query{Company: "acme corp", Theme: tt.theme}); err != nil {
				t.Fatalf("Report() error = %v", err)
			}
			if store.insightsIn.theme != tt.want {
				t.Errorf("theme passed to store = %q, want %q", store.insightsIn.theme, tt.want)
			}
		})
	}
}

func TestReportResolvesCompanyByFuzzyName(t *testing.T) {
	t.Parallel()

	store := &fakeReadStore{company: testCompany(), fuzzyOnly: true}
	svc := NewService(store, zerolog.Nop())

	out, err := svc.Report(context.Background(), Query{Company: "acme"})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if out.Company.Slug != "acme-corp" {
		t.Errorf("company slug = %q, want acme-corp", out.Company.Slug)
	}
}

func TestReportUnknownCompanyIsNotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeReadStore{}, zerolog.Nop())

	_, err := svc.Report(context.Background(), Query{Company: "nobody"})
	if !apperr.IsNotFound(err) {
		t.Fatalf("Report() error = %v, want not found", err)
	}
}

func TestReportValidatesLimit(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeReadStore{company: testCompany()}, zerolog.Nop())

	for _, limit := range []int{-1, 51} {
		_, err := svc.Report(context.Background(), Query{Company: "acme corp", Limit: limit})
		if _, ok := apperr.IsValidation(err); !ok {
			t.Errorf("limit %d: error = %v, want validation error", limit, err)
		}
	}

	store := &fakeReadStore{company: testCompany()}
	svc = NewService(store, zerolog.Nop())
	if _, err := svc.Report(context.Background(), Query{Company: "acme corp", Limit: 50}); err != nil {
		t.Fatalf("limit 50: error = %v", err)
	}
	if store.insightsIn.limit != 50 {
		t.Errorf("limit passed to store = %d, want 50", store.insightsIn.limit)
	}
}

func TestReportRequiresCompany(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeReadStore{}, zerolog.Nop())
	_, err := svc.Report(context.Background(), Query{Company: "  "})
	if _, ok := apperr.IsValidation(err); !ok {
		t.Fatalf("Report() error = %v, want validation error", err)
	}
}

func TestReportWrapsSeriesStorageFailure(t *testing.T) {
	t.Parallel()

	store := &fakeReadStore{company: testCompany(), seriesErr: errors.New("boom")}
	svc := NewService(store, zerolog.Nop())

	_, err := svc.Report(context.Background(), Query{Company: "acme corp", Metric: "revenue"})
	storageErr, ok := apperr.IsStorage(err)
	if !ok {
		t.Fatalf("Report() error = %v, want storage error", err)
	}
	if storageErr.Entity != "fact" {
		t.Errorf("storage entity = %q, want fact", storageErr.Entity)
	}
}
