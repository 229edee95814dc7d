package extractor

import (
	"regexp"
	"strings"

	"github.com/shelfwatch/observer/internal/core"
)

// normalize.go: pure, HTML-independent normalization helpers shared by
// every strategy (spec.md §4.2 "Variant attribute normalization").

// availabilityTextPattern is the DOM availability-text regex from spec.md
// §4.2's Stock strategy table.
var availabilityTextPattern = regexp.MustCompile(`(?i)in stock|out of stock|sold out|low stock|backorder|preorder`)

// findAvailabilityText returns the first substring of text matching the
// known availability phrases, or "" if none is present.
func findAvailabilityText(text string) string {
	return availabilityTextPattern.FindString(text)
}

// pricePattern matches a currency symbol or code followed by a decimal
// amount, e.g. "$19.99", "USD 19.99", "19,99 EUR".
var pricePattern = regexp.MustCompile(`(?:([$€£¥]|[A-Z]{3})\s?)?(\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2}))(?:\s?([A-Z]{3}))?`)

// currencySymbols maps common symbols to ISO-4217 codes for when no
// explicit currency code is present near the price text.
var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
}

// findPriceText searches text for the first price-shaped token and
// returns the raw matched substring, the decimal amount (dot-normalized),
// and a currency code guess (possibly empty).
func findPriceText(text string) (raw, amount, currency string, ok bool) {
	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", "", false
	}
	raw = m[0]
	amount = normalizeDecimalString(m[2])
	switch {
	case m[3] != "":
		currency = strings.ToUpper(m[3])
	case m[1] != "":
		if code, ok := currencySymbols[m[1]]; ok {
			currency = code
		} else {
			currency = strings.ToUpper(m[1])
		}
	}
	return raw, amount, currency, amount != ""
}

// normalizeDecimalString converts a locale-formatted number like
// "1,234.56" or "1.234,56" into a plain "1234.56" form, assuming the
// last separator before exactly two digits is the decimal point.
func normalizeDecimalString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	decimalAt := lastDot
	if lastComma > lastDot {
		decimalAt = lastComma
	}
	if decimalAt == -1 {
		return s
	}
	whole := s[:decimalAt]
	frac := s[decimalAt+1:]
	whole = strings.NewReplacer(".", "", ",", "").Replace(whole)
	return whole + "." + frac
}

// normalizeAttributes trims and key-sorts via core.Attributes.Normalize,
// exposed here for strategies that build attribute maps incrementally.
func normalizeAttributes(raw map[string]string) core.Attributes {
	return core.Attributes(raw).Normalize()
}
