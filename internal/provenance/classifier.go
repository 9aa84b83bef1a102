// Package provenance maps source URLs onto publisher identities and trust
// scores. Classification happens once, when a source row is created; the
// resulting trust score feeds every downstream provenance_score.
package provenance

import (
	"net/url"
	"strings"
)

// Publisher types. Official publishers are issuers, regulators, and
// exchanges; everything else is commentary about the company rather than
// disclosure by or about it under a legal duty.
const (
	TypeIssuer    = "issuer"
	TypeRegulator = "regulator"
	TypeExchange  = "exchange"
	TypeNewswire  = "newswire"
	TypeAnalyst   = "analyst"
	TypeMedia     = "media"
	TypeOther     = "other"
)

// DefaultTrustScore applies to unrecognized or malformed sources.
const DefaultTrustScore = 0.5

// Classification is the publisher identity attached to a source at creation.
type Classification struct {
	PublisherDomain string  `json:"publisher_domain"`
	PublisherName   string  `json:"publisher_name"`
	PublisherType   string  `json:"publisher_type"`
	IsOfficial      bool    `json:"is_official"`
	TrustScore      float64 `json:"trust_score"`
}

type rule struct {
	suffix string
	name   string
	ptype  string
	trust  float64
}

// rules is an ordered domain-suffix table; the first match wins, so more
// specific suffixes must come before broader ones.
var rules = []rule{
	// Regulators.
	{"sec.gov", "U.S. Securities and Exchange Commission", TypeRegulator, 0.95},
	{"amf-france.org", "Autorité des marchés financiers", TypeRegulator, 0.95},
	{"esma.europa.eu", "European Securities and Markets Authority", TypeRegulator, 0.95},
	{"fca.org.uk", "Financial Conduct Authority", TypeRegulator, 0.95},

	// Exchanges.
	{"euronext.com", "Euronext", TypeExchange, 0.9},
	{"nasdaq.com", "Nasdaq", TypeExchange, 0.9},
	{"nyse.com", "New York Stock Exchange", TypeExchange, 0.9},
	{"londonstockexchange.com", "London Stock Exchange", TypeExchange, 0.9},
	{"deutsche-boerse.com", "Deutsche Börse", TypeExchange, 0.9},
	{"jpx.co.jp", "Japan Exchange Group", TypeExchange, 0.9},

	// Newswires.
	{"reuters.com", "Reuters", TypeNewswire, 0.85},
	{"apnews.com", "Associated Press", TypeNewswire, 0.85},
	{"afp.com", "Agence France-Presse", TypeNewswire, 0.85},
	{"bloomberg.com", "Bloomberg", TypeNewswire, 0.8},
	{"businesswire.com", "Business Wire", TypeNewswire, 0.75},
	{"prnewswire.com", "PR Newswire", TypeNewswire, 0.7},
	{"globenewswire.com", "GlobeNewswire", TypeNewswire, 0.7},

	// Analysts and rating agencies.
	{"morningstar.com", "Morningstar", TypeAnalyst, 0.75},
	{"spglobal.com", "S&P Global", TypeAnalyst, 0.8},
	{"moodys.com", "Moody's", TypeAnalyst, 0.8},
	{"fitchratings.com", "Fitch Ratings", TypeAnalyst, 0.8},

	// Financial media.
	{"ft.com", "Financial Times", TypeMedia, 0.75},
	{"wsj.com", "The Wall Street Journal", TypeMedia, 0.75},
	{"lesechos.fr", "Les Échos", TypeMedia, 0.7},
	{"nytimes.com", "The New York Times", TypeMedia, 0.7},
	{"economist.com", "The Economist", TypeMedia, 0.7},
	{"cnbc.com", "CNBC", TypeMedia, 0.6},
}

// Classify resolves a source URL to a publisher identity. companyDomain, when
// non-empty, marks the company's own web estate as the issuer before the rule
// table is consulted. Unrecognized hosts get the default classification;
// malformed URLs get it with an empty publisher domain. Classify never fails.
func Classify(rawURL, companyDomain string) Classification {
	host := Hostname(rawURL)
	if host == "" {
		return Classification{
			PublisherType: TypeOther,
			TrustScore:    DefaultTrustScore,
		}
	}

	if issuer := strings.ToLower(strings.TrimSpace(companyDomain)); issuer != "" && matchesSuffix(host, issuer) {
		return Classification{
			PublisherDomain: host,
			PublisherName:   issuer,
			PublisherType:   TypeIssuer,
			IsOfficial:      true,
			TrustScore:      0.9,
		}
	}

	for _, r := range rules {
		if matchesSuffix(host, r.suffix) {
			return Classification{
				PublisherDomain: r.suffix,
				PublisherName:   r.name,
				PublisherType:   r.ptype,
				IsOfficial:      isOfficialType(r.ptype),
				TrustScore:      r.trust,
			}
		}
	}

	return Classification{
		PublisherDomain: host,
		PublisherType:   TypeOther,
		TrustScore:      DefaultTrustScore,
	}
}

// Hostname extracts the lowercase hostname from a URL, tolerating missing
// schemes. Returns an empty string when no host can be determined.
func Hostname(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		parsed, err = url.Parse("https://" + trimmed)
		if err != nil {
			return ""
		}
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" || !strings.Contains(host, ".") {
		return ""
	}
	return host
}

func matchesSuffix(host, suffix string) bool {
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}

func isOfficialType(ptype string) bool {
	switch ptype {
	case TypeIssuer, TypeRegulator, TypeExchange:
		return true
	default:
		return false
	}
}
