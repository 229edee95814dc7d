package core

import "strings"

// StockStatus is the closed enum a variant's availability normalizes to.
// Anything that doesn't match a known alias maps to StockUnknown rather
// than raising an error — extraction never throws on unrecognized input.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockOutOfStock StockStatus = "out_of_stock"
	StockLowStock   StockStatus = "low_stock"
	StockBackorder  StockStatus = "backorder"
	StockPreorder   StockStatus = "preorder"
	StockUnknown    StockStatus = "unknown"
)

// Valid reports whether s is one of the closed enum members.
func (s StockStatus) Valid() bool {
	switch s {
	case StockInStock, StockOutOfStock, StockLowStock, StockBackorder, StockPreorder, StockUnknown:
		return true
	default:
		return false
	}
}

// stockAliases maps raw vendor/DOM/JSON-LD strings to the closed enum.
// Keys are lower-cased, trimmed; schema.org availability URIs are
// included alongside plain-English phrases.
var stockAliases = map[string]StockStatus{
	"instock":                    StockInStock,
	"in stock":                   StockInStock,
	"in_stock":                   StockInStock,
	"available":                  StockInStock,
	"http://schema.org/instock":  StockInStock,
	"https://schema.org/instock": StockInStock,

	"outofstock":                     StockOutOfStock,
	"out of stock":                   StockOutOfStock,
	"out_of_stock":                   StockOutOfStock,
	"sold out":                       StockOutOfStock,
	"soldout":                        StockOutOfStock,
	"unavailable":                    StockOutOfStock,
	"http://schema.org/outofstock":   StockOutOfStock,
	"https://schema.org/outofstock":  StockOutOfStock,

	"lowstock":                StockLowStock,
	"low stock":               StockLowStock,
	"low_stock":                StockLowStock,
	"limitedavailability":      StockLowStock,
	"limited availability":     StockLowStock,
	"http://schema.org/limitedavailability":  StockLowStock,
	"https://schema.org/limitedavailability": StockLowStock,

	"backorder":                   StockBackorder,
	"back order":                  StockBackorder,
	"back-order":                  StockBackorder,
	"http://schema.org/backorder": StockBackorder,
	"https://schema.org/backorder": StockBackorder,

	"preorder":                    StockPreorder,
	"pre order":                   StockPreorder,
	"pre-order":                   StockPreorder,
	"http://schema.org/preorder":  StockPreorder,
	"https://schema.org/preorder": StockPreorder,
}

// NormalizeStock maps a raw string through the alias table to the closed
// enum. Idempotent: NormalizeStock(string(NormalizeStock(x))) ==
// NormalizeStock(x) for any x, since every enum member's string form
// either is an alias key mapping to itself or ("unknown") passes Valid().
func NormalizeStock(raw string) StockStatus {
	key := strings.ToLower(strings.TrimSpace(raw))
	if status, ok := stockAliases[key]; ok {
		return status
	}
	if StockStatus(key).Valid() {
		return StockStatus(key)
	}
	return StockUnknown
}

// IsAvailable derives the nullable is_available flag from a stock status,
// per spec.md §3's invariant. Returns (value, ok) — ok is false when the
// status doesn't determine availability (nullable in the DB).
func IsAvailable(status StockStatus) (bool, bool) {
	switch status {
	case StockInStock:
		return true, true
	case StockOutOfStock:
		return false, true
	default:
		return false, false
	}
}

// NormalizeCurrency upper-cases and trims an ISO-4217 currency code.
// Idempotent and always uppercase.
func NormalizeCurrency(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
