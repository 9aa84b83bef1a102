package payloadschema

import (
	"encoding/json"
	"testing"

	"horse.fit/intel/internal/apperr"
)

const validPayload = `{
	"company": "Acme",
	"company_domain": "acme.com",
	"source": {"url": "https://reuters.com/x", "title": "T"},
	"facts": [{"metric_key": "revenue", "metric_value": "1.2b"}],
	"insights": [{"text": "Strong cash position", "confidence": 0.9, "theme": "cash"}],
	"news": [{"headline": "Acme expands", "summary": "s"}]
}`

func TestValidateIngestPayloadAccepted(t *testing.T) {
	t.Parallel()

	doc, err := ValidateIngestPayload(json.RawMessage(validPayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Company != "Acme" {
		t.Fatalf("unexpected company: %q", doc.Company)
	}
	if len(doc.Facts) != 1 || doc.Facts[0].MetricKey != "revenue" {
		t.Fatalf("unexpected facts: %+v", doc.Facts)
	}
}

func TestValidateIngestPayloadMalformedJSON(t *testing.T) {
	t.Parallel()

	_, err := ValidateIngestPayload(json.RawMessage(`{"company":`))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !apperr.IsParse(err) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestValidateIngestPayloadMissingRequiredFields(t *testing.T) {
	t.Parallel()

	_, err := ValidateIngestPayload(json.RawMessage(`{"company": "Acme"}`))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, ok := apperr.IsValidation(err); !ok {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestValidateIngestPayloadCollectsSemanticViolations(t *testing.T) {
	t.Parallel()

	raw := `{
		"company": "Acme",
		"source": {"url": "not-a-url", "title": "T"},
		"insights": [{"text": "ok"}, {"text": "   "}]
	}`

	_, err := ValidateIngestPayload(json.RawMessage(raw))
	verr, ok := apperr.IsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}

	fields := make(map[string]bool, len(verr.Violations))
	for _, v := range verr.Violations {
		fields[v.Field] = true
	}
	if !fields["source.url"] {
		t.Fatalf("expected source.url violation, got %+v", verr.Violations)
	}
	if !fields["insights.1.text"] {
		t.Fatalf("expected insights.1.text violation, got %+v", verr.Violations)
	}
}

func TestValidateIngestPayloadRejectsTrailingContent(t *testing.T) {
	t.Parallel()

	_, err := ValidateIngestPayload(json.RawMessage(validPayload + `{"x":1}`))
	if !apperr.IsParse(err) {
		t.Fatalf("expected ParseError for trailing content, got %T: %v", err, err)
	}
}
