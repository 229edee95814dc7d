package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shelfwatch/observer/internal/core"
)

// variants.go: the variant strategy registry, priority order per
// spec.md §4.2: JSON-LD offers[]/hasVariant[] -> embedded platform JSON
// (Shopify/Magento-shape, detected by key heuristics not vendor name) ->
// DOM controls (select/option, radio groups, swatch anchors).
//
// Unlike the other concerns, variant candidates from every strategy are
// unioned and deduplicated rather than the highest-priority one winning
// outright (spec.md §4.2 Merge rules) — each strategy here still carries
// a priorityRank for merge.go's tie-breaking.

type jsonLDVariantStrategy struct{}

func (jsonLDVariantStrategy) Name() string { return "json-ld-variant-strategy" }

func (jsonLDVariantStrategy) Extract(_ *goquery.Document, jsonDocs []jsonDoc) ([]VariantShell, []string) {
	var shells []VariantShell
	for _, jd := range jsonDocs {
		for _, product := range flattenJSONLD(jd.Raw, "Product") {
			for _, offer := range offerNodes(product["offers"]) {
				if v, ok := variantFromOfferNode(offer, "json-ld-offer"); ok {
					shells = append(shells, v)
				}
			}
			if variants, ok := product["hasVariant"]; ok {
				for _, node := range offerNodes(variants) {
					if v, ok := variantFromOfferNode(node, "json-ld-hasvariant"); ok {
						shells = append(shells, v)
					}
				}
			}
		}
	}
	notes := []string{fmt.Sprintf("%s: found %d candidate(s)", jsonLDVariantStrategy{}.Name(), len(shells))}
	return shells, notes
}

// variantFromOfferNode builds a VariantShell from a JSON-LD Offer-shaped
// node, reading its sku, attribute properties, price and availability.
func variantFromOfferNode(node map[string]any, source string) (VariantShell, bool) {
	sku := stringField(node["sku"])
	attrs := attributesFromAdditionalProperty(node["additionalProperty"])
	for _, k := range []string{"size", "color", "material", "style"} {
		if v := stringField(node[k]); v != "" {
			attrs[k] = v
		}
	}
	if itemOffered, ok := node["itemOffered"].(map[string]any); ok {
		for _, k := range []string{"size", "color", "material", "style"} {
			if v := stringField(itemOffered[k]); v != "" {
				attrs[k] = v
			}
		}
	}
	if sku == "" && len(attrs) == 0 {
		return VariantShell{}, false
	}
	v := VariantShell{
		SKU:        sku,
		Attributes: normalizeAttributes(attrs),
		Source:     source,
	}
	if price, ok := priceShellFromOfferNode(node, "json-ld"); ok {
		v.Price = price
	}
	if stock, ok := stockShellFromOfferNode(node); ok {
		v.Stock = stock
	}
	return v, true
}

func attributesFromAdditionalProperty(v any) map[string]string {
	out := map[string]string{}
	props, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range props {
		node, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := stringField(node["name"])
		value := stringField(node["value"])
		if name != "" && value != "" {
			out[name] = value
		}
	}
	return out
}

type embeddedJSONVariantStrategy struct{}

func (embeddedJSONVariantStrategy) Name() string { return "embedded-json-variant-strategy" }

func (embeddedJSONVariantStrategy) Extract(_ *goquery.Document, jsonDocs []jsonDoc) ([]VariantShell, []string) {
	var shells []VariantShell
	for _, jd := range jsonDocs {
		if jd.Source != "inline-script" {
			continue
		}
		for _, node := range findVariantArrays(jd.Raw, 0) {
			if v, ok := variantFromPlatformNode(node); ok {
				shells = append(shells, v)
			}
		}
	}
	notes := []string{fmt.Sprintf("%s: found %d candidate(s)", embeddedJSONVariantStrategy{}.Name(), len(shells))}
	return shells, notes
}

// findVariantArrays walks a parsed JSON value for any array bound to a
// "variants" key — the Shopify-shape heuristic (also matches
// Magento-style "configurable_options" payloads that nest a similarly
// shaped array under "variants").
func findVariantArrays(v any, depth int) []map[string]any {
	if depth > 12 {
		return nil
	}
	var out []map[string]any
	switch node := v.(type) {
	case map[string]any:
		if arr, ok := node["variants"].([]any); ok {
			for _, item := range arr {
				if m, ok := item.(map[string]any); ok {
					out = append(out, m)
				}
			}
		}
		for _, child := range node {
			out = append(out, findVariantArrays(child, depth+1)...)
		}
	case []any:
		for _, item := range node {
			out = append(out, findVariantArrays(item, depth+1)...)
		}
	}
	return out
}

// variantFromPlatformNode reads a Shopify-shaped variant node: "sku",
// "price", "available", and up to three "option1"/"option2"/"option3"
// fields whose dimension name isn't carried on the node itself, so they
// are labeled generically ("option1", ...) rather than guessed at.
func variantFromPlatformNode(node map[string]any) (VariantShell, bool) {
	sku := stringField(node["sku"])
	attrs := map[string]string{}
	for _, key := range []string{"option1", "option2", "option3"} {
		if v := stringField(node[key]); v != "" {
			attrs[key] = v
		}
	}
	if sku == "" && len(attrs) == 0 {
		return VariantShell{}, false
	}
	v := VariantShell{
		SKU:        sku,
		Attributes: normalizeAttributes(attrs),
		Source:     "embedded-json",
	}
	if raw := priceStringField(node["price"]); raw != "" {
		amount := normalizeDecimalString(raw)
		v.Price = &PriceShell{Amount: &amount, Raw: raw, Source: "embedded-json"}
	}
	if avail, ok := node["available"].(bool); ok {
		status := core.StockOutOfStock
		raw := "false"
		if avail {
			status = core.StockInStock
			raw = "true"
		}
		v.Stock = &StockShell{Status: status, Raw: raw, Source: "embedded-json"}
	}
	return v, true
}

type domVariantStrategy struct{}

func (domVariantStrategy) Name() string { return "dom-variant-strategy" }

func (domVariantStrategy) Extract(doc *goquery.Document, _ []jsonDoc) ([]VariantShell, []string) {
	dims := make(map[string][]string) // dimension name -> values, in document order

	doc.Find("select").Each(func(_ int, sel *goquery.Selection) {
		dim := selectDimensionName(sel)
		if dim == "" {
			return
		}
		sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
			value := strings.TrimSpace(opt.Text())
			if value == "" {
				return
			}
			if v, _ := opt.Attr("value"); v == "" {
				return
			}
			dims[dim] = appendUnique(dims[dim], value)
		})
	})

	doc.Find(`input[type="radio"]`).Each(func(_ int, input *goquery.Selection) {
		name, _ := input.Attr("name")
		if name == "" {
			return
		}
		value, _ := input.Attr("value")
		if value == "" {
			return
		}
		dims[name] = appendUnique(dims[name], value)
	})

	doc.Find(`[data-attr-name]`).Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("data-attr-name")
		value, _ := s.Attr("data-attr-value")
		if name == "" || value == "" {
			return
		}
		dims[name] = appendUnique(dims[name], value)
	})

	if len(dims) == 0 {
		return nil, []string{domVariantStrategy{}.Name() + ": no select/radio/swatch controls found"}
	}

	shells := cartesianVariants(dims)
	return shells, []string{fmt.Sprintf("%s: found %d dimension(s), %d combination(s)", domVariantStrategy{}.Name(), len(dims), len(shells))}
}

// selectDimensionName derives the attribute dimension a <select> controls
// from its name/id attribute, falling back to "" (skipped) when neither
// is present — unlabeled selects are too ambiguous to attribute to a
// dimension.
func selectDimensionName(sel *goquery.Selection) string {
	if name, ok := sel.Attr("name"); ok && name != "" {
		return strings.ToLower(name)
	}
	if id, ok := sel.Attr("id"); ok && id != "" {
		return strings.ToLower(id)
	}
	return ""
}

func appendUnique(values []string, v string) []string {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}

// cartesianVariants builds one VariantShell per combination across all
// discovered dimensions. DOM-only extraction rarely needs more than one
// or two dimensions; this still handles arbitrarily many correctly.
func cartesianVariants(dims map[string][]string) []VariantShell {
	names := make([]string, 0, len(dims))
	for name := range dims {
		names = append(names, name)
	}

	combos := []map[string]string{{}}
	for _, name := range names {
		var next []map[string]string
		for _, combo := range combos {
			for _, value := range dims[name] {
				c := make(map[string]string, len(combo)+1)
				for k, v := range combo {
					c[k] = v
				}
				c[name] = value
				next = append(next, c)
			}
		}
		combos = next
	}

	shells := make([]VariantShell, 0, len(combos))
	for _, combo := range combos {
		shells = append(shells, VariantShell{
			Attributes: normalizeAttributes(combo),
			Source:     "dom",
		})
	}
	return shells
}

// variantStrategies is the fixed, priority-ordered registry.
var variantStrategies = []variantStrategy{
	jsonLDVariantStrategy{},
	embeddedJSONVariantStrategy{},
	domVariantStrategy{},
}
