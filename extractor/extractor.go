package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/shelfwatch/observer/fetcher"
	"github.com/shelfwatch/observer/internal/core"
)

// extractor.go: orchestrates the fixed-priority strategy registries
// (title.go, price.go, stock.go, variants.go) over one fetched page and
// assembles a ProductShell. Never panics and never returns an error —
// malformed input degrades to an empty shell carrying a note, per
// spec.md §4.2's Robustness clause.

// Extract synthesizes a ProductShell from a fetched page. result.Success
// is not checked here — Check Coordinator is responsible for not calling
// Extract on a failed fetch; Extract degrades gracefully regardless.
func Extract(result fetcher.FetchResult) ProductShell {
	shell := ProductShell{
		URL:       result.OriginalURL,
		FinalURL:  result.FinalURL,
		FetchedAt: result.FetchedAt,
		Metadata:  core.Metadata{},
	}

	html := strings.TrimSpace(result.ChosenHTML())
	if html == "" {
		shell.addNote("extractor: empty HTML, nothing to parse")
		shell.Metadata["isLikelyDynamic"] = false
		shell.Metadata["jsonBlobsCount"] = 0
		return shell
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		shell.addNote("extractor: malformed HTML, parse failed: " + err.Error())
		shell.Metadata["isLikelyDynamic"] = false
		shell.Metadata["jsonBlobsCount"] = 0
		return shell
	}

	jsonDocs := scanJSONDocs(doc)
	shell.Metadata["jsonBlobsCount"] = len(jsonDocs)
	shell.Metadata["modeUsed"] = string(result.ModeUsed)

	runTitleStrategies(&shell, doc, jsonDocs)
	runPriceStrategy(&shell, doc, jsonDocs)
	runStockStrategy(&shell, doc, jsonDocs)
	runVariantStrategies(&shell, doc, jsonDocs)

	if shell.Title == "" && shell.Pricing == nil && shell.Stock == nil && len(shell.Variants) == 0 {
		shell.addNote("extractor: no strategy produced a usable candidate")
	}

	return shell
}

func runTitleStrategies(shell *ProductShell, doc *goquery.Document, jsonDocs []jsonDoc) {
	for _, strat := range titleStrategies {
		candidate, notes := strat.Extract(doc, jsonDocs)
		shell.Notes = append(shell.Notes, notes...)
		if !candidate.empty() {
			shell.Title = candidate.Title
			shell.Description = candidate.Description
			shell.Images = candidate.Images
			return
		}
	}
}

func runPriceStrategy(shell *ProductShell, doc *goquery.Document, jsonDocs []jsonDoc) {
	for _, strat := range priceStrategies {
		price, notes := strat.Extract(doc, jsonDocs)
		shell.Notes = append(shell.Notes, notes...)
		if price != nil {
			shell.Pricing = price
			return
		}
	}
}

func runStockStrategy(shell *ProductShell, doc *goquery.Document, jsonDocs []jsonDoc) {
	for _, strat := range stockStrategies {
		stock, notes := strat.Extract(doc, jsonDocs)
		shell.Notes = append(shell.Notes, notes...)
		if stock != nil {
			shell.Stock = stock
			return
		}
	}
}

func runVariantStrategies(shell *ProductShell, doc *goquery.Document, jsonDocs []jsonDoc) {
	var candidates []variantCandidate
	for rank, strat := range variantStrategies {
		found, notes := strat.Extract(doc, jsonDocs)
		shell.Notes = append(shell.Notes, notes...)
		for _, v := range found {
			candidates = append(candidates, variantCandidate{shell: v, priorityRank: rank})
		}
	}
	shell.Variants = mergeVariants(candidates)
}
