package extractor

import "github.com/PuerkitoBio/goquery"

// strategy.go: the per-concern Strategy interfaces from spec.md §4.2's
// Design Note — "a small interface (extract(ctx) -> Candidate? plus
// name()) implemented by a fixed registry per concern." Each concern gets
// its own narrow interface rather than one generic Candidate union, since
// Go lacks tagged sums and a per-concern interface reads more plainly
// than a single any-typed Extract method.

type titleStrategy interface {
	Name() string
	Extract(doc *goquery.Document, jsonDocs []jsonDoc) (titleCandidate, []string)
}

type priceStrategy interface {
	Name() string
	Extract(doc *goquery.Document, jsonDocs []jsonDoc) (*PriceShell, []string)
}

type stockStrategy interface {
	Name() string
	Extract(doc *goquery.Document, jsonDocs []jsonDoc) (*StockShell, []string)
}

type variantStrategy interface {
	Name() string
	Extract(doc *goquery.Document, jsonDocs []jsonDoc) ([]VariantShell, []string)
}
