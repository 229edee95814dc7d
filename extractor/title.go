package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// title.go: the title/description/images strategy registry, priority
// order per spec.md §4.2: JSON-LD Product -> Open Graph/Twitter meta ->
// <title> + first large <img>.

type jsonLDTitleStrategy struct{}

func (jsonLDTitleStrategy) Name() string { return "json-ld-title-strategy" }

func (jsonLDTitleStrategy) Extract(_ *goquery.Document, jsonDocs []jsonDoc) (titleCandidate, []string) {
	for _, jd := range jsonDocs {
		for _, node := range flattenJSONLD(jd.Raw, "Product") {
			c := titleCandidate{
				Title:       stringField(node["name"]),
				Description: stringField(node["description"]),
				Images:      imageURLs(node["image"]),
			}
			if !c.empty() {
				return c, []string{fmt.Sprintf("%s: found Product node (title=%q)", jsonLDTitleStrategy{}.Name(), c.Title)}
			}
		}
	}
	return titleCandidate{}, []string{jsonLDTitleStrategy{}.Name() + ": no Product node"}
}

type openGraphTitleStrategy struct{}

func (openGraphTitleStrategy) Name() string { return "open-graph-title-strategy" }

func (openGraphTitleStrategy) Extract(doc *goquery.Document, _ []jsonDoc) (titleCandidate, []string) {
	meta := func(names ...string) string {
		for _, n := range names {
			if v, ok := doc.Find(fmt.Sprintf(`meta[property="%s"]`, n)).First().Attr("content"); ok && v != "" {
				return v
			}
			if v, ok := doc.Find(fmt.Sprintf(`meta[name="%s"]`, n)).First().Attr("content"); ok && v != "" {
				return v
			}
		}
		return ""
	}
	c := titleCandidate{
		Title:       meta("og:title", "twitter:title"),
		Description: meta("og:description", "twitter:description"),
	}
	if img := meta("og:image", "twitter:image"); img != "" {
		c.Images = []string{img}
	}
	if c.empty() {
		return c, []string{openGraphTitleStrategy{}.Name() + ": no OG/Twitter meta"}
	}
	return c, []string{fmt.Sprintf("%s: found meta (title=%q)", openGraphTitleStrategy{}.Name(), c.Title)}
}

type domTitleStrategy struct{}

func (domTitleStrategy) Name() string { return "dom-title-strategy" }

func (domTitleStrategy) Extract(doc *goquery.Document, _ []jsonDoc) (titleCandidate, []string) {
	c := titleCandidate{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	var best string
	var bestArea int
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			return true
		}
		area := imgArea(s)
		if area > bestArea {
			bestArea = area
			best = src
		}
		return true
	})
	if best != "" {
		c.Images = []string{best}
	}
	if c.empty() {
		return c, []string{domTitleStrategy{}.Name() + ": no <title> or <img>"}
	}
	return c, []string{fmt.Sprintf("%s: found title=%q", domTitleStrategy{}.Name(), c.Title)}
}

// imgArea estimates an <img>'s display area from width/height attributes,
// treating a missing dimension as "unknown and therefore not obviously
// large" rather than guessing.
func imgArea(s *goquery.Selection) int {
	w := intAttr(s, "width")
	h := intAttr(s, "height")
	return w * h
}

func intAttr(s *goquery.Selection, name string) int {
	v, ok := s.Attr(name)
	if !ok {
		return 0
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func stringField(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// imageURLs normalizes JSON-LD's "image" field, which may be a string, an
// array of strings, or an array of ImageObject nodes.
func imageURLs(v any) []string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []any:
		var out []string
		for _, item := range val {
			switch it := item.(type) {
			case string:
				if it != "" {
					out = append(out, it)
				}
			case map[string]any:
				if u := stringField(it["url"]); u != "" {
					out = append(out, u)
				}
			}
		}
		return out
	case map[string]any:
		if u := stringField(val["url"]); u != "" {
			return []string{u}
		}
	}
	return nil
}

// titleStrategies is the fixed, priority-ordered registry.
var titleStrategies = []titleStrategy{
	jsonLDTitleStrategy{},
	openGraphTitleStrategy{},
	domTitleStrategy{},
}
