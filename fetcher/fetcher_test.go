package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_StaticSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<script type="application/ld+json">{"@type":"Product","offers":{"price":"19.99"}}</script>
		</head><body>in stock</body></html>`))
	}))
	defer srv.Close()

	f := New(nil)
	result := f.Fetch(context.Background(), srv.URL)

	require.True(t, result.Success)
	assert.Equal(t, ModeHTTP, result.ModeUsed)
	assert.Equal(t, 200, result.StatusCode)
	assert.Contains(t, result.RawHTML, "ld+json")
	assert.Empty(t, result.Error)
}

func TestFetch_NonDynamicPageStaysStatic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<script type="application/ld+json">{"@type":"Product","offers":{"price":"19.99","availability":"InStock"}}</script>
			<div class="price">$19.99</div>
		</body></html>`))
	}))
	defer srv.Close()

	f := New(nil)
	result := f.Fetch(context.Background(), srv.URL)

	require.True(t, result.Success)
	assert.Equal(t, ModeHTTP, result.ModeUsed, "a page with product signals shouldn't escalate to rendered mode")
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(nil)
	result := f.Fetch(context.Background(), srv.URL)

	assert.False(t, result.Success)
	assert.Equal(t, 404, result.StatusCode)
	assert.NotEmpty(t, result.Error)
}

func TestFetch_ConnectionError(t *testing.T) {
	f := New(nil)
	result := f.Fetch(context.Background(), "http://127.0.0.1:1")

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestFetch_RecordsRedirects(t *testing.T) {
	var final *httptest.Server
	final = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script type="application/ld+json">{"price":"1"}</script></body></html>`))
	}))
	defer final.Close()

	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusFound)
	}))
	defer redirector.Close()

	f := New(nil)
	result := f.Fetch(context.Background(), redirector.URL)

	require.True(t, result.Success)
	assert.Contains(t, result.FinalURL, final.Listener.Addr().String())
}
