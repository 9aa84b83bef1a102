package provenance

import "testing"

func TestClassifyRegulator(t *testing.T) {
	t.Parallel()

	got := Classify("https://www.sec.gov/Archives/edgar/data/320193/filing.htm", "")
	if got.PublisherType != TypeRegulator {
		t.Fatalf("unexpected publisher type: %q", got.PublisherType)
	}
	if !got.IsOfficial {
		t.Fatal("regulator should be official")
	}
	if got.TrustScore != 0.95 {
		t.Fatalf("unexpected trust score: %v", got.TrustScore)
	}
}

func TestClassifyUnknownDomain(t *testing.T) {
	t.Parallel()

	got := Classify("https://some-random-blog.example.org/post/1", "")
	if got.PublisherType != TypeOther {
		t.Fatalf("unexpected publisher type: %q", got.PublisherType)
	}
	if got.IsOfficial {
		t.Fatal("unknown domain must not be official")
	}
	if got.TrustScore != DefaultTrustScore {
		t.Fatalf("unexpected trust score: %v", got.TrustScore)
	}
}

func TestClassifyIssuerByCompanyDomain(t *testing.T) {
	t.Parallel()

	got := Classify("https://investors.acme.com/annual-report-2025", "acme.com")
	if got.PublisherType != TypeIssuer {
		t.Fatalf("unexpected publisher type: %q", got.PublisherType)
	}
	if !got.IsOfficial {
		t.Fatal("issuer should be official")
	}
}

func TestClassifyIssuerRuleWinsOverTable(t *testing.T) {
	t.Parallel()

	// A company whose own domain is also in the rule table must still be
	// classified as the issuer for its own pages.
	got := Classify("https://reuters.com/about-us", "reuters.com")
	if got.PublisherType != TypeIssuer {
		t.Fatalf("unexpected publisher type: %q", got.PublisherType)
	}
}

func TestClassifyMalformedURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "not a url at all", "://broken"} {
		got := Classify(raw, "")
		if got.PublisherType != TypeOther {
			t.Fatalf("Classify(%q) type = %q, want other", raw, got.PublisherType)
		}
		if got.IsOfficial {
			t.Fatalf("Classify(%q) must not be official", raw)
		}
		if got.TrustScore != DefaultTrustScore {
			t.Fatalf("Classify(%q) trust = %v, want default", raw, got.TrustScore)
		}
	}
}

func TestHostname(t *testing.T) {
	t.Parallel()

	if got := Hostname("https://www.Reuters.com:443/markets"); got != "reuters.com" {
		t.Fatalf("unexpected hostname: %q", got)
	}
	if got := Hostname("euronext.com/listing"); got != "euronext.com" {
		t.Fatalf("unexpected hostname for scheme-less URL: %q", got)
	}
	if got := Hostname("nonsense"); got != "" {
		t.Fatalf("expected empty hostname, got %q", got)
	}
}
