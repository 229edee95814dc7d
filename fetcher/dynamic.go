package fetcher

import "strings"

// dynamic.go: dynamic-indicator heuristics that decide whether a static
// response needs a rendered re-fetch (spec.md §4.1). Thresholds are
// struct fields, not constants, per spec.md's Open Question that these
// should be configurable and empirically tuned rather than hard-coded.

// DynamicThresholds tunes the heuristics isLikelyDynamic applies.
type DynamicThresholds struct {
	// SmallBodyBytes is the body-size ceiling below which a high
	// script-tag ratio is considered suspicious.
	SmallBodyBytes int
	// ScriptRatio is the minimum ratio of script-tag bytes to total
	// body bytes, for bodies under SmallBodyBytes, to flag as dynamic.
	ScriptRatio float64
}

// DefaultDynamicThresholds returns the spec's suggested starting point:
// ~10KB body size, a high script ratio.
func DefaultDynamicThresholds() DynamicThresholds {
	return DynamicThresholds{
		SmallBodyBytes: 10 * 1024,
		ScriptRatio:    0.5,
	}
}

// spaShellMarkers are known client-rendered app shells: a near-empty
// root div plus a hydration/bootstrap token, carrying no server-rendered
// product content.
var spaShellMarkers = []string{
	`id="root"></div>`,
	`id="app"></div>`,
	`id="__next"></div>`,
	"__NEXT_DATA__",
	"data-reactroot",
	"ng-version",
	"data-server-rendered",
}

// productSignalMarkers indicate the page already carries enough
// server-rendered product data that a rendered re-fetch is unnecessary.
var productSignalMarkers = []string{
	`type="application/ld+json"`,
	`property="og:type" content="product"`,
	`property="product:price:amount"`,
	"itemprop=\"price\"",
	"$",
	"price",
}

// isLikelyDynamic applies the three dynamic indicators from spec.md
// §4.1: (a) a small body with a high script-tag ratio, (b) a known SPA
// shell marker, (c) the absence of any product-like signal.
func isLikelyDynamic(html string, thresholds DynamicThresholds) bool {
	if html == "" {
		return true
	}
	lower := strings.ToLower(html)

	if len(html) < thresholds.SmallBodyBytes {
		scriptBytes := scriptTagBytes(lower)
		if thresholds.ScriptRatio > 0 && float64(scriptBytes)/float64(len(html)) >= thresholds.ScriptRatio {
			return true
		}
	}

	if hasAny(lower, spaShellMarkers...) {
		return true
	}

	if !hasAny(lower, productSignalMarkers...) {
		return true
	}

	return false
}

func scriptTagBytes(lowerHTML string) int {
	total := 0
	remaining := lowerHTML
	for {
		start := strings.Index(remaining, "<script")
		if start == -1 {
			break
		}
		end := strings.Index(remaining[start:], "</script>")
		if end == -1 {
			total += len(remaining) - start
			break
		}
		end += start + len("</script>")
		total += end - start
		remaining = remaining[end:]
	}
	return total
}
