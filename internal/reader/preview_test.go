package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCleanTextCollapsesWhitespaceAndPreservesParagraphs(t *testing.T) {
	input := "  First   paragraph \n\n Second\tparagraph \r\n\r\nThird line "
	got := CleanText(input)
	want := "First paragraph\n\nSecond paragraph\n\nThird line"
	if got != want {
		t.Fatalf("CleanText mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

func TestTruncateText(t *testing.T) {
	input := "abcdefghijklmnopqrstuvwxyz"

	got, truncated := TruncateText(input, 10)
	if !truncated {
		t.Fatalf("expected truncated=true")
	}
	if got != "abcdefghi…" {
		t.Fatalf("unexpected truncated text: %q", got)
	}

	full, wasTruncated := TruncateText("short", 10)
	if wasTruncated {
		t.Fatalf("expected truncated=false for short text")
	}
	if full != "short" {
		t.Fatalf("unexpected short text: %q", full)
	}
}

func TestFetchPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("  Quarterly revenue grew.\n\nMargins held steady.  "))
	}))
	defer srv.Close()

	preview, err := Fetch(context.Background(), srv.URL, Options{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if preview.Text != "Quarterly revenue grew.\n\nMargins held steady." {
		t.Fatalf("unexpected text: %q", preview.Text)
	}
	if preview.Truncated {
		t.Fatal("expected truncated=false")
	}
}

func TestFetchClipsLongContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(strings.Repeat("a", 500)))
	}))
	defer srv.Close()

	preview, err := Fetch(context.Background(), srv.URL, Options{MaxChars: 100})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !preview.Truncated {
		t.Fatal("expected truncated=true")
	}
	if n := len([]rune(preview.Text)); n != 100 {
		t.Fatalf("preview length = %d runes, want 100", n)
	}
}

func TestFetchRejectsBadInput(t *testing.T) {
	if _, err := Fetch(context.Background(), "   ", Options{}); err == nil {
		t.Fatal("expected error for blank url")
	}
	if _, err := Fetch(context.Background(), "not-a-url", Options{}); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestFetchRejectsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), srv.URL, Options{}); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
