// Package extractor synthesizes a canonical ProductShell from a fetched
// page's HTML by composing an ordered registry of strategies per concern
// (title/description/images, variants, price, stock), each contributing a
// candidate plus notes; the highest-priority non-empty candidate wins,
// except variants, which are unioned and deduplicated across strategies.
package extractor

import (
	"time"

	"github.com/shelfwatch/observer/internal/core"
)

// PriceShell is a single observed price with its provenance.
type PriceShell struct {
	Amount   *string // decimal string, kept textual until ingestion parses it
	Currency string
	Raw      string
	Source   string // e.g. "json-ld", "microdata", "dom" — diagnostic only, per spec's Open Question
}

// StockShell is a single observed stock status with its provenance.
type StockShell struct {
	Status core.StockStatus
	Raw    string
	Source string
}

// VariantShell is one candidate variant surfaced by a strategy, before
// merge/dedup collapses duplicates across strategies.
type VariantShell struct {
	ID         string
	SKU        string
	Attributes core.Attributes
	Price      *PriceShell
	Stock      *StockShell
	Source     string
}

// fieldCount is used by the merge logic to prefer the more complete of two
// candidates describing the same variant.
func (v VariantShell) fieldCount() int {
	n := 0
	if v.SKU != "" {
		n++
	}
	if len(v.Attributes) > 0 {
		n += len(v.Attributes)
	}
	if v.Price != nil {
		n++
	}
	if v.Stock != nil {
		n++
	}
	return n
}

// ProductShell is the extractor's sole output: a canonical product
// description plus a deduplicated variant list, chosen pricing/stock, and
// diagnostic notes. Never nil on return; malformed input degrades to an
// empty shell with notes rather than an error.
type ProductShell struct {
	URL         string
	FinalURL    string
	FetchedAt   time.Time
	Title       string
	Description string
	Images      []string
	Variants    []VariantShell
	Pricing     *PriceShell
	Stock       *StockShell
	Notes       []string
	Metadata    core.Metadata
}

// addNote appends a human-readable diagnostic note, part of the contract
// consumers (tests, Check Coordinator) rely on.
func (p *ProductShell) addNote(note string) {
	p.Notes = append(p.Notes, note)
}

// titleCandidate is what the title/description/images strategies return.
type titleCandidate struct {
	Title       string
	Description string
	Images      []string
}

func (c titleCandidate) empty() bool {
	return c.Title == "" && c.Description == "" && len(c.Images) == 0
}
