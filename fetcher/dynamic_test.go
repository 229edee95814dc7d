package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLikelyDynamic_EmptyHTML(t *testing.T) {
	assert.True(t, isLikelyDynamic("", DefaultDynamicThresholds()))
}

func TestIsLikelyDynamic_SPAShell(t *testing.T) {
	html := `<html><body><div id="root"></div><script src="/bundle.js"></script></body></html>`
	assert.True(t, isLikelyDynamic(html, DefaultDynamicThresholds()))
}

func TestIsLikelyDynamic_NoProductSignal(t *testing.T) {
	html := `<html><body><h1>Welcome</h1><p>Nothing to see here.</p></body></html>`
	assert.True(t, isLikelyDynamic(html, DefaultDynamicThresholds()))
}

func TestIsLikelyDynamic_HighScriptRatioSmallBody(t *testing.T) {
	html := "<html><body>" + strings.Repeat(`<script>doStuff();</script>`, 20) + "</body></html>"
	assert.True(t, isLikelyDynamic(html, DefaultDynamicThresholds()))
}

func TestIsLikelyDynamic_StaticProductPage(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">{"@type":"Product"}</script>
		<meta property="og:type" content="product" />
	</head><body><div class="price">$19.99</div>In Stock</body></html>`
	assert.False(t, isLikelyDynamic(html, DefaultDynamicThresholds()))
}
