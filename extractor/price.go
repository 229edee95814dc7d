package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shelfwatch/observer/internal/core"
)

// price.go: the price strategy registry, priority order per spec.md
// §4.2: JSON-LD offer price -> microdata/RDFa price -> embedded JSON
// price fields -> DOM text near known price classes/currency symbols.

type jsonLDPriceStrategy struct{}

func (jsonLDPriceStrategy) Name() string { return "json-price-strategy" }

func (jsonLDPriceStrategy) Extract(_ *goquery.Document, jsonDocs []jsonDoc) (*PriceShell, []string) {
	for _, jd := range jsonDocs {
		for _, product := range flattenJSONLD(jd.Raw, "Product") {
			for _, offer := range offerNodes(product["offers"]) {
				if shell, ok := priceShellFromOfferNode(offer, "json-ld"); ok {
					return shell, []string{fmt.Sprintf("%s: price=%s %s", jsonLDPriceStrategy{}.Name(), shell.Raw, shell.Currency)}
				}
			}
		}
		for _, offer := range flattenJSONLD(jd.Raw, "Offer") {
			if shell, ok := priceShellFromOfferNode(offer, "json-ld"); ok {
				return shell, []string{fmt.Sprintf("%s: price=%s %s", jsonLDPriceStrategy{}.Name(), shell.Raw, shell.Currency)}
			}
		}
	}
	return nil, []string{jsonLDPriceStrategy{}.Name() + ": no offer price"}
}

func offerNodes(v any) []map[string]any {
	switch val := v.(type) {
	case map[string]any:
		return []map[string]any{val}
	case []any:
		var out []map[string]any
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func priceShellFromOfferNode(offer map[string]any, source string) (*PriceShell, bool) {
	raw := priceStringField(offer["price"])
	if raw == "" {
		if spec, ok := offer["priceSpecification"].(map[string]any); ok {
			raw = priceStringField(spec["price"])
		}
	}
	if raw == "" {
		return nil, false
	}
	currency := strings.ToUpper(strings.TrimSpace(stringField(offer["priceCurrency"])))
	amount := normalizeDecimalString(raw)
	return &PriceShell{
		Amount:   &amount,
		Currency: core.NormalizeCurrency(currency),
		Raw:      raw,
		Source:   source,
	}, true
}

// priceStringField handles JSON-LD price fields given as either a string
// or a bare number (encoding/json decodes numbers as float64).
func priceStringField(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%.2f", val)
	default:
		return ""
	}
}

type microdataPriceStrategy struct{}

func (microdataPriceStrategy) Name() string { return "microdata-price-strategy" }

func (microdataPriceStrategy) Extract(doc *goquery.Document, _ []jsonDoc) (*PriceShell, []string) {
	sel := doc.Find(`[itemprop="price"]`).First()
	if sel.Length() == 0 {
		return nil, []string{microdataPriceStrategy{}.Name() + ": no itemprop=price element"}
	}
	raw, ok := sel.Attr("content")
	if !ok || raw == "" {
		raw = strings.TrimSpace(sel.Text())
	}
	if raw == "" {
		return nil, []string{microdataPriceStrategy{}.Name() + ": itemprop=price element empty"}
	}
	currency := ""
	if curSel := doc.Find(`[itemprop="priceCurrency"]`).First(); curSel.Length() > 0 {
		if v, ok := curSel.Attr("content"); ok {
			currency = v
		} else {
			currency = curSel.Text()
		}
	}
	amount := normalizeDecimalString(raw)
	shell := &PriceShell{
		Amount:   &amount,
		Currency: core.NormalizeCurrency(currency),
		Raw:      raw,
		Source:   "microdata",
	}
	return shell, []string{fmt.Sprintf("%s: price=%s", microdataPriceStrategy{}.Name(), raw)}
}

type embeddedJSONPriceStrategy struct{}

func (embeddedJSONPriceStrategy) Name() string { return "embedded-json-price-strategy" }

func (embeddedJSONPriceStrategy) Extract(_ *goquery.Document, jsonDocs []jsonDoc) (*PriceShell, []string) {
	for _, jd := range jsonDocs {
		if jd.Source != "inline-script" {
			continue
		}
		if shell, ok := findPriceInJSON(jd.Raw, 0); ok {
			return shell, []string{fmt.Sprintf("%s: price=%s", embeddedJSONPriceStrategy{}.Name(), shell.Raw)}
		}
	}
	return nil, []string{embeddedJSONPriceStrategy{}.Name() + ": no price field in inline JSON"}
}

// findPriceInJSON walks a parsed JSON value looking for common
// vendor-agnostic price field names (Shopify/Magento-shape heuristics:
// "price", "current_price", "amount"), bounded by depth to avoid runaway
// recursion on pathological structures.
func findPriceInJSON(v any, depth int) (*PriceShell, bool) {
	if depth > 12 {
		return nil, false
	}
	switch node := v.(type) {
	case map[string]any:
		for _, key := range []string{"price", "current_price", "currentPrice", "amount"} {
			if raw, ok := node[key]; ok {
				if s := priceStringField(raw); s != "" {
					amount := normalizeDecimalString(s)
					currency := core.NormalizeCurrency(stringField(node["currency"]))
					return &PriceShell{Amount: &amount, Currency: currency, Raw: s, Source: "embedded-json"}, true
				}
			}
		}
		for _, child := range node {
			if shell, ok := findPriceInJSON(child, depth+1); ok {
				return shell, true
			}
		}
	case []any:
		for _, item := range node {
			if shell, ok := findPriceInJSON(item, depth+1); ok {
				return shell, true
			}
		}
	}
	return nil, false
}

// priceClassMarkers are common CSS class fragments product pages use for
// the price display element.
var priceClassMarkers = []string{"price", "product-price", "current-price", "sale-price"}

type domPriceStrategy struct{}

func (domPriceStrategy) Name() string { return "dom-price-strategy" }

func (domPriceStrategy) Extract(doc *goquery.Document, _ []jsonDoc) (*PriceShell, []string) {
	var found *PriceShell
	for _, marker := range priceClassMarkers {
		doc.Find(fmt.Sprintf(`[class*="%s"]`, marker)).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if text == "" {
				return true
			}
			raw, amount, currency, ok := findPriceText(text)
			if !ok {
				return true
			}
			found = &PriceShell{Amount: &amount, Currency: core.NormalizeCurrency(currency), Raw: raw, Source: "dom"}
			return false
		})
		if found != nil {
			break
		}
	}
	if found == nil {
		return nil, []string{domPriceStrategy{}.Name() + ": no price-like text near known classes"}
	}
	return found, []string{fmt.Sprintf("%s: price=%s", domPriceStrategy{}.Name(), found.Raw)}
}

// priceStrategies is the fixed, priority-ordered registry.
var priceStrategies = []priceStrategy{
	jsonLDPriceStrategy{},
	microdataPriceStrategy{},
	embeddedJSONPriceStrategy{},
	domPriceStrategy{},
}
