// Package payloadschema validates ingest payloads against the embedded JSON
// Schema and the field-level rules the ingest contract requires. Structural
// problems surface as a ParseError, semantic problems as a ValidationError
// carrying every violation found.
package payloadschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"horse.fit/intel/internal/apperr"
)

//go:embed ingest_payload.schema.json
var ingestPayloadSchemaJSON string

// IngestPayload is the decoded ingest document. Loosely-typed numeric fields
// stay `any` so the normalizer can handle strings and numbers uniformly.
type IngestPayload struct {
	Company       string           `json:"company"`
	CompanyDomain string           `json:"company_domain,omitempty"`
	Source        SourceDescriptor `json:"source"`
	Facts         []FactInput      `json:"facts,omitempty"`
	Insights      []InsightInput   `json:"insights,omitempty"`
	News          []NewsInput      `json:"news,omitempty"`
}

type SourceDescriptor struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	DocType     string `json:"doc_type,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	DocLanguage string `json:"doc_language,omitempty"`
	Version     string `json:"version,omitempty"`
	SourceMD5   string `json:"source_md5,omitempty"`
}

type FactInput struct {
	MetricKey            string `json:"metric_key"`
	MetricValue          any    `json:"metric_value"`
	MetricLabel          string `json:"metric_label,omitempty"`
	Bucket               string `json:"bucket,omitempty"`
	AsOfDate             string `json:"as_of_date,omitempty"`
	Unit                 string `json:"unit,omitempty"`
	Qualifier            string `json:"qualifier,omitempty"`
	Quote                string `json:"quote,omitempty"`
	ExtractionConfidence any    `json:"extraction_confidence,omitempty"`
	ImpactScore          any    `json:"impact_score,omitempty"`
}

type InsightInput struct {
	Theme      string `json:"theme,omitempty"`
	Text       string `json:"text"`
	Confidence any    `json:"confidence,omitempty"`
}

type NewsInput struct {
	EventDate  string `json:"event_date,omitempty"`
	Headline   string `json:"headline"`
	Summary    string `json:"summary,omitempty"`
	FullText   string `json:"full_text,omitempty"`
	Theme      string `json:"theme,omitempty"`
	Importance any    `json:"importance,omitempty"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateIngestPayload decodes and validates an ingest document. The
// returned payload is only non-nil when both the schema and the semantic
// rules pass.
func ValidateIngestPayload(payload json.RawMessage) (*IngestPayload, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, &apperr.ParseError{Err: err}
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, schemaViolations(err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize payload JSON: %w", err)
	}

	var doc IngestPayload
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, &apperr.ParseError{Err: err}
	}

	if verr := validateSemantics(&doc); verr.HasViolations() {
		return nil, verr
	}

	return &doc, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("ingest_payload.schema.json", strings.NewReader(ingestPayloadSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("ingest_payload.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

// schemaViolations flattens a jsonschema validation error into the field
// violation list the API contract promises.
func schemaViolations(err error) error {
	verr := &apperr.ValidationError{}

	var schemaErr *jsonschema.ValidationError
	if ok := asValidationError(err, &schemaErr); !ok {
		return verr.Add("payload", err.Error())
	}

	leaves := flattenSchemaErrors(schemaErr)
	for _, leaf := range leaves {
		field := strings.TrimPrefix(leaf.InstanceLocation, "/")
		if field == "" {
			field = "payload"
		}
		field = strings.ReplaceAll(field, "/", ".")
		verr.Add(field, leaf.Message)
	}
	if !verr.HasViolations() {
		verr.Add("payload", schemaErr.Message)
	}
	return verr
}

func asValidationError(err error, target **jsonschema.ValidationError) bool {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return false
	}
	*target = ve
	return true
}

func flattenSchemaErrors(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if err == nil {
		return nil
	}
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, flattenSchemaErrors(cause)...)
	}
	return leaves
}

func validateSemantics(doc *IngestPayload) *apperr.ValidationError {
	verr := &apperr.ValidationError{}
	if doc == nil {
		return verr.Add("payload", "payload is nil")
	}

	if strings.TrimSpace(doc.Company) == "" {
		verr.Add("company", "company name must not be empty")
	}
	if strings.TrimSpace(doc.Source.Title) == "" {
		verr.Add("source.title", "source title must not be empty")
	}

	sourceURL := strings.TrimSpace(doc.Source.URL)
	if sourceURL == "" {
		verr.Add("source.url", "source url must not be empty")
	} else if parsed, err := url.ParseRequestURI(sourceURL); err != nil || parsed.Host == "" {
		verr.Add("source.url", "source url must be a well-formed absolute URL")
	}

	for i, fact := range doc.Facts {
		if strings.TrimSpace(fact.MetricKey) == "" {
			verr.Add(fmt.Sprintf("facts.%d.metric_key", i), "metric key must not be empty")
		}
		if fact.MetricValue == nil {
			verr.Add(fmt.Sprintf("facts.%d.metric_value", i), "metric value is required")
		}
	}
	for i, insight := range doc.Insights {
		if strings.TrimSpace(insight.Text) == "" {
			verr.Add(fmt.Sprintf("insights.%d.text", i), "insight text must not be empty")
		}
	}
	for i, item := range doc.News {
		if strings.TrimSpace(item.Headline) == "" {
			verr.Add(fmt.Sprintf("news.%d.headline", i), "news headline must not be empty")
		}
	}

	return verr
}
