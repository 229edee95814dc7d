package extractor

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jsonscan.go: JSON payload discovery (spec.md §4.2 Pre-pass, §9's "JSON
// blob discovery" design note). `<script type="application/ld+json">`
// blocks are fully parsed; other inline scripts are scanned with a
// bounded balanced-brace walk rather than a blind parse, capped in size
// and depth to reject pathological input.

const (
	maxBlobBytes = 256 * 1024
	maxBraceDepth = 64
)

// jsonDoc is one discovered JSON payload plus where it came from.
type jsonDoc struct {
	Source string // "ld+json" or "inline-script"
	Raw    any
}

// scanJSONDocs collects every JSON-LD block (parsed fully) and every
// balanced top-level JSON object literal found in other inline <script>
// bodies, data attributes excluded from v1 scope of this pass since no
// example site in the corpus carries product data there.
func scanJSONDocs(doc *goquery.Document) []jsonDoc {
	var docs []jsonDoc

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" || len(text) > maxBlobBytes {
			return
		}
		var parsed any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return
		}
		docs = append(docs, jsonDoc{Source: "ld+json", Raw: parsed})
	})

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		typ, _ := s.Attr("type")
		if typ == "application/ld+json" {
			return // already handled above
		}
		body := s.Text()
		if len(body) > maxBlobBytes {
			return
		}
		for _, literal := range extractBalancedObjects(body) {
			var parsed any
			if err := json.Unmarshal([]byte(literal), &parsed); err != nil {
				continue
			}
			docs = append(docs, jsonDoc{Source: "inline-script", Raw: parsed})
		}
	})

	return docs
}

// extractBalancedObjects walks body looking for top-level `{...}` literals
// using brace counting (ignoring braces inside string literals), bounded
// by maxBraceDepth to reject pathological nesting. It does not attempt to
// validate JSON syntax beyond balance; json.Unmarshal rejects the rest.
func extractBalancedObjects(body string) []string {
	var out []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, r := range body {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
			if depth > maxBraceDepth {
				// pathological nesting; abandon this candidate but keep
				// counting, so its inner braces never start a new one
				start = -1
			}
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					literal := body[start : i+1]
					if len(literal) <= maxBlobBytes {
						out = append(out, literal)
					}
					start = -1
				}
			}
		}
	}
	return out
}

// flattenJSONLD walks a parsed JSON-LD document (which may be a single
// object, an array, or wrapped in an "@graph") and yields every object
// whose "@type" matches one of wantTypes (case-insensitive, schema.org
// prefix-agnostic).
func flattenJSONLD(raw any, wantTypes ...string) []map[string]any {
	var out []map[string]any
	var walk func(any)
	walk = func(v any) {
		switch node := v.(type) {
		case map[string]any:
			if graph, ok := node["@graph"]; ok {
				walk(graph)
			}
			if typeMatches(node["@type"], wantTypes) {
				out = append(out, node)
			}
		case []any:
			for _, item := range node {
				walk(item)
			}
		}
	}
	walk(raw)
	return out
}

func typeMatches(t any, wantTypes []string) bool {
	if len(wantTypes) == 0 {
		return false
	}
	candidates := typeStrings(t)
	for _, c := range candidates {
		c = lastSegment(strings.ToLower(c))
		for _, want := range wantTypes {
			if c == strings.ToLower(want) {
				return true
			}
		}
	}
	return false
}

func typeStrings(t any) []string {
	switch v := t.(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func lastSegment(s string) string {
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}
