package normalize

import "strings"

// Theme buckets an insight or news event.
const (
	ThemeGrowth    = "growth"
	ThemeMargin    = "margin"
	ThemeRisk      = "risk"
	ThemeCash      = "cash"
	ThemeStrategy  = "strategy"
	ThemeGeography = "geography"
	ThemeESG       = "esg"
	ThemeProduct   = "product"
	ThemeMoat      = "moat"
	ThemeOther     = "other"
)

// Document types recognized on sources.
const (
	DocTypeAnnualReport         = "annual_report"
	DocTypeQuarterlyReport      = "quarterly_report"
	DocTypePressRelease         = "press_release"
	DocTypeInvestorPresentation = "investor_presentation"
	DocTypeNews                 = "news"
	DocTypeWebpage              = "webpage"
	DocTypeOther                = "other"
)

// themeVocabulary maps folded English and French keywords onto themes.
// Checked in order so more specific phrases win over generic ones.
var themeVocabulary = []struct {
	keyword string
	theme   string
}{
	{"growth", ThemeGrowth},
	{"croissance", ThemeGrowth},
	{"margin", ThemeMargin},
	{"marge", ThemeMargin},
	{"profitability", ThemeMargin},
	{"rentabilite", ThemeMargin},
	{"risk", ThemeRisk},
	{"risque", ThemeRisk},
	{"cash", ThemeCash},
	{"tresorerie", ThemeCash},
	{"liquidite", ThemeCash},
	{"strategy", ThemeStrategy},
	{"strategie", ThemeStrategy},
	{"strategic", ThemeStrategy},
	{"geography", ThemeGeography},
	{"geographie", ThemeGeography},
	{"geographic", ThemeGeography},
	{"international", ThemeGeography},
	{"esg", ThemeESG},
	{"environnement", ThemeESG},
	{"sustainability", ThemeESG},
	{"durabilite", ThemeESG},
	{"product", ThemeProduct},
	{"produit", ThemeProduct},
	{"moat", ThemeMoat},
	{"avantage concurrentiel", ThemeMoat},
	{"barriere a l entree", ThemeMoat},
}

var docTypeVocabulary = []struct {
	keyword string
	docType string
}{
	{"annual report", DocTypeAnnualReport},
	{"annual_report", DocTypeAnnualReport},
	{"rapport annuel", DocTypeAnnualReport},
	{"10-k", DocTypeAnnualReport},
	{"universal registration", DocTypeAnnualReport},
	{"document d enregistrement universel", DocTypeAnnualReport},
	{"quarterly", DocTypeQuarterlyReport},
	{"trimestriel", DocTypeQuarterlyReport},
	{"10-q", DocTypeQuarterlyReport},
	{"press release", DocTypePressRelease},
	{"press_release", DocTypePressRelease},
	{"communique", DocTypePressRelease},
	{"presentation", DocTypeInvestorPresentation},
	{"investor day", DocTypeInvestorPresentation},
	{"news", DocTypeNews},
	{"article", DocTypeNews},
	{"actualite", DocTypeNews},
	{"webpage", DocTypeWebpage},
	{"web page", DocTypeWebpage},
	{"website", DocTypeWebpage},
	{"site web", DocTypeWebpage},
}

// ClassifyTheme maps free text onto the closed theme set using English and
// French keywords, case- and accent-insensitively. Unmatched text maps to
// "other".
func ClassifyTheme(text string) string {
	folded := foldSpaced(text)
	if folded == "" {
		return ThemeOther
	}
	for _, entry := range themeVocabulary {
		if strings.Contains(folded, entry.keyword) {
			return entry.theme
		}
	}
	return ThemeOther
}

// ClassifyDocType maps a document-type hint onto the closed doc-type set by
// substring match. Unmatched text maps to "other".
func ClassifyDocType(text string) string {
	folded := foldSpaced(text)
	if folded == "" {
		return DocTypeOther
	}
	for _, entry := range docTypeVocabulary {
		if strings.Contains(folded, entry.keyword) {
			return entry.docType
		}
	}
	return DocTypeOther
}

// foldSpaced folds text and flattens apostrophes so French elisions like
// "d'enregistrement" match space-separated vocabulary entries.
func foldSpaced(text string) string {
	folded := Fold(text)
	if folded == "" {
		return ""
	}
	replacer := strings.NewReplacer("'", " ", "’", " ")
	return replacer.Replace(folded)
}
