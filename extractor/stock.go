package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shelfwatch/observer/internal/core"
)

// stock.go: the stock strategy registry, priority order per spec.md
// §4.2: JSON-LD availability URI -> DOM availability text -> primary
// purchase-button disabled state.

type jsonLDStockStrategy struct{}

func (jsonLDStockStrategy) Name() string { return "json-stock-strategy" }

func (jsonLDStockStrategy) Extract(_ *goquery.Document, jsonDocs []jsonDoc) (*StockShell, []string) {
	for _, jd := range jsonDocs {
		for _, product := range flattenJSONLD(jd.Raw, "Product") {
			for _, offer := range offerNodes(product["offers"]) {
				if shell, ok := stockShellFromOfferNode(offer); ok {
					return shell, []string{fmt.Sprintf("%s: availability=%s", jsonLDStockStrategy{}.Name(), shell.Raw)}
				}
			}
		}
		for _, offer := range flattenJSONLD(jd.Raw, "Offer") {
			if shell, ok := stockShellFromOfferNode(offer); ok {
				return shell, []string{fmt.Sprintf("%s: availability=%s", jsonLDStockStrategy{}.Name(), shell.Raw)}
			}
		}
	}
	return nil, []string{jsonLDStockStrategy{}.Name() + ": no availability field"}
}

func stockShellFromOfferNode(offer map[string]any) (*StockShell, bool) {
	raw := stringField(offer["availability"])
	if raw == "" {
		return nil, false
	}
	return &StockShell{
		Status: core.NormalizeStock(raw),
		Raw:    raw,
		Source: "json",
	}, true
}

type domStockStrategy struct{}

func (domStockStrategy) Name() string { return "dom-stock-strategy" }

func (domStockStrategy) Extract(doc *goquery.Document, _ []jsonDoc) (*StockShell, []string) {
	text := doc.Find("body").Text()
	match := findAvailabilityText(text)
	if match == "" {
		return nil, []string{domStockStrategy{}.Name() + ": no availability text found"}
	}
	return &StockShell{
		Status: core.NormalizeStock(match),
		Raw:    match,
		Source: "dom",
	}, []string{fmt.Sprintf("%s: matched %q", domStockStrategy{}.Name(), match)}
}

// purchaseButtonSelectors are common selectors for the primary
// add-to-cart/buy-now control, checked in order.
var purchaseButtonSelectors = []string{
	`button[name="add"]`,
	`button[id*="add-to-cart" i]`,
	`button[class*="add-to-cart" i]`,
	`button[class*="buy-now" i]`,
	`input[type="submit"][value*="add to cart" i]`,
}

type buttonStockStrategy struct{}

func (buttonStockStrategy) Name() string { return "button-stock-strategy" }

func (buttonStockStrategy) Extract(doc *goquery.Document, _ []jsonDoc) (*StockShell, []string) {
	for _, sel := range purchaseButtonSelectors {
		btn := doc.Find(sel).First()
		if btn.Length() == 0 {
			continue
		}
		_, disabled := btn.Attr("disabled")
		ariaDisabled, _ := btn.Attr("aria-disabled")
		if disabled || strings.EqualFold(ariaDisabled, "true") {
			return &StockShell{Status: core.StockOutOfStock, Raw: "button:disabled", Source: "button"},
				[]string{buttonStockStrategy{}.Name() + ": primary button disabled"}
		}
		return &StockShell{Status: core.StockInStock, Raw: "button:enabled", Source: "button"},
			[]string{buttonStockStrategy{}.Name() + ": primary button enabled"}
	}
	return nil, []string{buttonStockStrategy{}.Name() + ": no purchase button found"}
}

// stockStrategies is the fixed, priority-ordered registry.
var stockStrategies = []stockStrategy{
	jsonLDStockStrategy{},
	domStockStrategy{},
	buttonStockStrategy{},
}
