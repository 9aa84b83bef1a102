// Package reader fetches a document URL and extracts its readable text for
// the source-preview endpoint, so an operator can eyeball what a source says
// before or after ingesting it.
package reader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"
)

const (
	DefaultFetchTimeout  = 12 * time.Second
	DefaultBodyByteLimit = 2 * 1024 * 1024
	DefaultPreviewChars  = 4000

	defaultUserAgent = "intel-source-preview/1.0"
)

// Options controls HTTP behavior for preview extraction. Zero values fall
// back to the package defaults.
type Options struct {
	Timeout       time.Duration
	BodyByteLimit int64
	MaxChars      int
	UserAgent     string
	HTTPClient    *http.Client
}

// Preview is the extracted readable content of one document URL.
type Preview struct {
	URL       string `json:"url"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
}

// Fetch downloads the page and extracts its main text. HTML goes through the
// readability extractor; plain text is only cleaned. The result is clipped to
// MaxChars runes.
func Fetch(ctx context.Context, pageURL string, opts Options) (*Preview, error) {
	page := strings.TrimSpace(pageURL)
	if page == "" {
		return nil, fmt.Errorf("url is required")
	}
	parsed, err := url.Parse(page)
	if err != nil || !parsed.IsAbs() {
		return nil, fmt.Errorf("url must be absolute")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	bodyLimit := opts.BodyByteLimit
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyByteLimit
	}
	maxChars := opts.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultPreviewChars
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, page, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8,fr;q=0.7")

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, bodyLimit))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var text string
	contentType := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Type")))
	if strings.HasPrefix(contentType, "text/plain") {
		text = CleanText(string(body))
	} else {
		article, err := readability.FromReader(bytes.NewReader(body), parsed)
		if err != nil {
			return nil, fmt.Errorf("readability parse: %w", err)
		}
		var rendered bytes.Buffer
		if err := article.RenderText(&rendered); err != nil {
			return nil, fmt.Errorf("render readability text: %w", err)
		}
		text = CleanText(rendered.String())
		if text == "" {
			text = CleanText(article.Excerpt())
		}
	}

	if text == "" {
		return nil, fmt.Errorf("extracted empty content")
	}

	clipped, truncated := TruncateText(text, maxChars)
	return &Preview{
		URL:       page,
		Text:      clipped,
		Truncated: truncated,
	}, nil
}

// CleanText normalizes line endings and collapses extra in-line whitespace.
func CleanText(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.Join(strings.Fields(strings.TrimSpace(line)), " ")
		if clean == "" {
			continue
		}
		paragraphs = append(paragraphs, clean)
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
}

// TruncateText clips text to maxChars runes and appends a single ellipsis rune when truncated.
func TruncateText(raw string, maxChars int) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	if maxChars <= 0 {
		return trimmed, false
	}

	runes := []rune(trimmed)
	if len(runes) <= maxChars {
		return trimmed, false
	}
	if maxChars == 1 {
		return "…", true
	}

	clipped := strings.TrimSpace(string(runes[:maxChars-1]))
	if clipped == "" {
		return "…", true
	}

	return clipped + "…", true
}
