package normalize

import (
	"regexp"
	"strings"

	"TreasuryWatch/internal/model"
)

var (
	// "EQ-MSTR", "EQ: MSTR", "EQUITY MSTR"
	equityPrefix = regexp.MustCompile(`^(?:EQ|EQT|EQTY|EQUITY|STK)(?:\s*[:\-]\s*|\s+)`)
	// "MSTR US Equity", "MSTR US EQUITY"
	countryEquity = regexp.MustCompile(`\b[A-Z]{2}\s+EQUITY\b`)
	// "MSTR:US", "MSTR-US"
	countrySuffix = regexp.MustCompile(`[:\-][A-Z]{2}$`)
	nonWord       = regexp.MustCompile(`[^\w]+`)
)

// Ticker maps a raw ticker string onto the universe. Embedded symbols win over the first
// token, so descriptive strings like "MicroStrategy (MSTR)" resolve too.
func Ticker(raw string) (model.Ticker, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	s = equityPrefix.ReplaceAllString(s, "")
	s = countryEquity.ReplaceAllString(s, " ")
	s = countrySuffix.ReplaceAllString(s, "")
	s = strings.TrimSpace(nonWord.ReplaceAllString(s, " "))
	if s == "" {
		return "", false
	}

	for _, t := range model.Universe {
		if strings.Contains(s, string(t)) {
			return t, true
		}
	}
	first := strings.Fields(s)[0]
	for _, t := range model.Universe {
		if first == string(t) {
			return t, true
		}
	}
	return "", false
}
