package httpapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"horse.fit/intel/internal/apperr"
	"horse.fit/intel/internal/globaltime"
	"horse.fit/intel/internal/provenance"
	"horse.fit/intel/internal/reader"
	"horse.fit/intel/internal/report"
	payloadschema "horse.fit/intel/schema"
)

func (s *Server) handleHealth(c echo.Context) error {
	return success(c, map[string]any{
		"service": "intel",
		"time":    globaltime.UTC(),
	})
}

func (s *Server) handleIngest(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxIngestBodyBytes))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Failed to read request body", nil)
	}

	doc, err := payloadschema.ValidateIngestPayload(body)
	if err != nil {
		return s.serviceError(c, err)
	}

	result, err := s.ingestor.Ingest(c.Request().Context(), doc)
	if err != nil {
		return s.serviceError(c, err)
	}

	return success(c, map[string]any{
		"ok":          true,
		"company":     result.CompanySlug,
		"source_id":   result.SourceID,
		"source_uuid": result.SourceUUID,
		"inserted":    result.Inserted,
	})
}

func (s *Server) handleCompanyIntel(c echo.Context) error {
	limit := 0
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return failValidation(c, map[string]string{"limit": "must be an integer"})
		}
		limit = parsed
	}

	out, err := s.reporter.Report(c.Request().Context(), report.Query{
		Company: c.QueryParam("company"),
		Metric:  c.QueryParam("metric"),
		Theme:   c.QueryParam("theme"),
		Limit:   limit,
	})
	if err != nil {
		return s.serviceError(c, err)
	}
	return success(c, out)
}

func (s *Server) handleSourcePreview(c echo.Context) error {
	pageURL := strings.TrimSpace(c.QueryParam("url"))
	if pageURL == "" {
		return failValidation(c, map[string]string{"url": "is required"})
	}

	preview, err := reader.Fetch(c.Request().Context(), pageURL, reader.Options{})
	if err != nil {
		s.logger.Warn().Err(err).Str("url", pageURL).Msg("source preview failed")
		return fail(c, http.StatusBadGateway, "Failed to fetch source", nil)
	}

	return success(c, map[string]any{
		"preview":   preview,
		"publisher": provenance.Classify(pageURL, ""),
	})
}

// serviceError maps the error taxonomy onto HTTP statuses. Storage internals
// never leak past the entity name.
func (s *Server) serviceError(c echo.Context, err error) error {
	if apperr.IsAuth(err) {
		return failUnauthorized(c)
	}
	if apperr.IsParse(err) {
		return fail(c, http.StatusBadRequest, "Malformed request body", nil)
	}
	if apperr.IsNotFound(err) {
		return failNotFound(c, err.Error())
	}

	if verr, ok := apperr.IsValidation(err); ok {
		fieldErrors := make(map[string]string, len(verr.Violations))
		for _, violation := range verr.Violations {
			fieldErrors[violation.Field] = violation.Message
		}
		return failValidation(c, fieldErrors)
	}

	if serr, ok := apperr.IsStorage(err); ok {
		s.logger.Error().Err(serr).Str("entity", serr.Entity).Msg("storage failure")
		return internalError(c, "Storage failure on "+serr.Entity)
	}

	s.logger.Error().Err(err).Msg("unhandled service error")
	return internalError(c, "Internal server error")
}
