package db

import "time"

// Company maps intel.companies. The slug is derived from the name at first
// ingest and never changes afterwards.
type Company struct {
	CompanyID   int64     `gorm:"column:company_id;primaryKey;autoIncrement"`
	CompanyUUID string    `gorm:"column:company_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	Slug        string    `gorm:"column:slug;type:text;not null;unique"`
	Name        string    `gorm:"column:name;type:text;not null"`
	Domain      *string   `gorm:"column:domain;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (Company) TableName() string { return "intel.companies" }

// Source maps intel.sources. Publisher identity and trust score are written
// once at creation and never recomputed for the same (company, url).
type Source struct {
	SourceID        int64      `gorm:"column:source_id;primaryKey;autoIncrement"`
	SourceUUID      string     `gorm:"column:source_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	CompanyID       int64      `gorm:"column:company_id;type:bigint;not null;uniqueIndex:uq_sources_company_url"`
	URL             string     `gorm:"column:url;type:text;not null;uniqueIndex:uq_sources_company_url"`
	Title           string     `gorm:"column:title;type:text;not null"`
	DocType         string     `gorm:"column:doc_type;type:text;not null;default:other"`
	PublishedAt     *time.Time `gorm:"column:published_at;type:timestamptz"`
	Language        *string    `gorm:"column:language;type:text"`
	Version         *string    `gorm:"column:version;type:text"`
	ContentMD5      *string    `gorm:"column:content_md5;type:text"`
	PublisherDomain *string    `gorm:"column:publisher_domain;type:text"`
	PublisherName   *string    `gorm:"column:publisher_name;type:text"`
	PublisherType   string     `gorm:"column:publisher_type;type:text;not null;default:other"`
	IsOfficial      bool       `gorm:"column:is_official;type:boolean;not null;default:false"`
	TrustScore      float64    `gorm:"column:trust_score;type:double precision;not null;default:0.5"`
	CreatedAt       time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (Source) TableName() string { return "intel.sources" }

// MetricDef maps intel.metric_defs, the lazily-grown metric dictionary.
type MetricDef struct {
	MetricID      int64     `gorm:"column:metric_id;primaryKey;autoIncrement"`
	KeySlug       string    `gorm:"column:key_slug;type:text;not null;unique"`
	Label         string    `gorm:"column:label;type:text;not null"`
	Bucket        string    `gorm:"column:bucket;type:text;not null;default:other"`
	PrimarySource string    `gorm:"column:primary_source;type:text;not null;default:''"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (MetricDef) TableName() string { return "intel.metric_defs" }

// Fact maps intel.facts. Append-only; duplicates are suppressed by the
// (company_id, content_fingerprint) constraint.
type Fact struct {
	FactID               int64      `gorm:"column:fact_id;primaryKey;autoIncrement"`
	FactUUID             string     `gorm:"column:fact_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	CompanyID            int64      `gorm:"column:company_id;type:bigint;not null;uniqueIndex:uq_facts_company_fingerprint"`
	SourceID             int64      `gorm:"column:source_id;type:bigint;not null"`
	MetricID             int64      `gorm:"column:metric_id;type:bigint;not null"`
	MetricKey            string     `gorm:"column:metric_key;type:text;not null"`
	AsOfDate             *time.Time `gorm:"column:as_of_date;type:date"`
	RawValue             string     `gorm:"column:raw_value;type:text;not null"`
	NumericValue         *float64   `gorm:"column:numeric_value;type:double precision"`
	Unit                 *string    `gorm:"column:unit;type:text"`
	Qualifier            *string    `gorm:"column:qualifier;type:text"`
	Quote                *string    `gorm:"column:quote;type:text"`
	ExtractionConfidence float64    `gorm:"column:extraction_confidence;type:double precision;not null;default:0.5"`
	ImpactScore          float64    `gorm:"column:impact_score;type:double precision;not null;default:0.5"`
	ContentFingerprint   string     `gorm:"column:content_fingerprint;type:text;not null;uniqueIndex:uq_facts_company_fingerprint"`
	CreatedAt            time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (Fact) TableName() string { return "intel.facts" }

// Insight maps intel.insights. Append-only; deduplicated per company+source
// by text fingerprint.
type Insight struct {
	InsightID          int64     `gorm:"column:insight_id;primaryKey;autoIncrement"`
	InsightUUID        string    `gorm:"column:insight_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	CompanyID          int64     `gorm:"column:company_id;type:bigint;not null;uniqueIndex:uq_insights_scope_fingerprint"`
	SourceID           int64     `gorm:"column:source_id;type:bigint;not null;uniqueIndex:uq_insights_scope_fingerprint"`
	Theme              string    `gorm:"column:theme;type:text;not null;default:other"`
	ThemeRaw           *string   `gorm:"column:theme_raw;type:text"`
	Text               string    `gorm:"column:text;type:text;not null"`
	Confidence         float64   `gorm:"column:confidence;type:double precision;not null;default:0.5"`
	ProvenanceScore    float64   `gorm:"column:provenance_score;type:double precision;not null;default:0.25"`
	ContentFingerprint string    `gorm:"column:content_fingerprint;type:text;not null;uniqueIndex:uq_insights_scope_fingerprint"`
	CreatedAt          time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (Insight) TableName() string { return "intel.insights" }

// NewsEvent maps intel.news_events. Append-only; deduplicated per
// company+source by content fingerprint. Full text is capped at ingest.
type NewsEvent struct {
	NewsEventID        int64      `gorm:"column:news_event_id;primaryKey;autoIncrement"`
	NewsEventUUID      string     `gorm:"column:news_event_uuid;type:uuid;not null;default:gen_random_uuid();unique"`
	CompanyID          int64      `gorm:"column:company_id;type:bigint;not null;uniqueIndex:uq_news_scope_fingerprint"`
	SourceID           int64      `gorm:"column:source_id;type:bigint;not null;uniqueIndex:uq_news_scope_fingerprint"`
	EventDate          *time.Time `gorm:"column:event_date;type:date"`
	Headline           string     `gorm:"column:headline;type:text;not null"`
	Summary            *string    `gorm:"column:summary;type:text"`
	FullText           *string    `gorm:"column:full_text;type:text"`
	Theme              string     `gorm:"column:theme;type:text;not null;default:other"`
	Importance         float64    `gorm:"column:importance;type:double precision;not null;default:0.5"`
	ContentFingerprint string     `gorm:"column:content_fingerprint;type:text;not null;uniqueIndex:uq_news_scope_fingerprint"`
	CreatedAt          time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (NewsEvent) TableName() string { return "intel.news_events" }

func autoMigrateModels() []any {
	return []any{
		&Company{},
		&Source{},
		&MetricDef{},
		&Fact{},
		&Insight{},
		&NewsEvent{},
	}
}
