// Package fetcher retrieves product page HTML with a two-tier
// static/rendered strategy: a cheap HTTP GET by default, escalating to a
// headless-browser render only when the static response looks like a
// client-rendered shell (spec.md §4.1).
package fetcher

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shelfwatch/observer/internal/core"
)

// fetcher.go: static-mode fetch, redirect recording, and the
// mode-decision entrypoint. Rendered mode lives in render.go.

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// ModeUsed records which tier produced the FetchResult.
type ModeUsed string

const (
	ModeHTTP     ModeUsed = "http"
	ModeRendered ModeUsed = "rendered"
)

// Timing captures the duration, in milliseconds, of each phase of a fetch.
type Timing struct {
	HTTPMs   int64
	RenderMs *int64
}

// Metadata carries fetch diagnostics the extractor and scheduler log but
// don't act on directly.
type Metadata struct {
	Redirects      []string
	Headers        map[string]string
	Timing         Timing
	ConsoleErrors  []string
}

// FetchResult is the fetcher's sole output, never raised as a panic or
// error — failures are reported through Success/Error (spec.md §4.1).
type FetchResult struct {
	Success      bool
	ModeUsed     ModeUsed
	OriginalURL  string
	FinalURL     string
	StatusCode   int
	RawHTML      string
	RenderedHTML string
	FetchedAt    time.Time
	Error        string
	Metadata     Metadata
}

// ChosenHTML returns the rendered HTML when present, else the raw HTML,
// per the extractor's contract (spec.md §4.2).
func (r FetchResult) ChosenHTML() string {
	if r.RenderedHTML != "" {
		return r.RenderedHTML
	}
	return r.RawHTML
}

// Fetcher owns the static-vs-rendered mode decision. Zero value is not
// usable; construct with New.
type Fetcher struct {
	Client    *http.Client
	UserAgent string

	StaticTimeout   time.Duration
	RenderTimeout   time.Duration
	RenderSettle    time.Duration
	HeadlessExecPath string

	Thresholds DynamicThresholds

	Cache *Cache

	Logger logrus.FieldLogger

	allocOnce renderAllocator
}

// New builds a Fetcher with production defaults, matching spec.md §4.1's
// ~30s static timeout and ~60s render timeout (spec.md §5).
func New(logger logrus.FieldLogger) *Fetcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Fetcher{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		UserAgent:     defaultUserAgent,
		StaticTimeout: 30 * time.Second,
		RenderTimeout: 60 * time.Second,
		RenderSettle:  time.Second,
		Thresholds:    DefaultDynamicThresholds(),
		Logger:        logger,
	}
}

// Fetch retrieves url, trying the static path first and escalating to a
// rendered fetch at most once per call (spec.md §4.1 guarantee).
func (f *Fetcher) Fetch(ctx context.Context, url string) FetchResult {
	if f.Cache != nil {
		if cached, ok := f.Cache.Get(ctx, url); ok {
			return cached
		}
	}

	result := f.fetchStatic(ctx, url)
	if result.Success && isLikelyDynamic(result.RawHTML, f.Thresholds) {
		rendered := f.fetchRendered(ctx, result)
		if rendered.Success {
			result = rendered
		} else {
			// Keep the static result but note the render failure for
			// diagnostics; a degraded static result still beats a hard
			// failure, per spec.md §4.2's robustness requirement.
			result.Metadata.ConsoleErrors = append(result.Metadata.ConsoleErrors, rendered.Error)
		}
	}

	if f.Cache != nil && result.Success {
		f.Cache.Set(ctx, url, result)
	}
	return result
}

func (f *Fetcher) fetchStatic(ctx context.Context, url string) FetchResult {
	fetchedAt := time.Now().UTC()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, f.timeoutOr(f.StaticTimeout, 30*time.Second))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return f.failure(url, fetchedAt, core.CodeInvalidInput, err)
	}
	req.Header.Set("User-Agent", f.userAgentOr(defaultUserAgent))
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	var redirects []string
	client := f.clientOr()
	client.CheckRedirect = func(r *http.Request, via []*http.Request) error {
		redirects = append(redirects, r.URL.String())
		if len(via) >= 10 {
			return http.ErrUseLastResponse
		}
		return nil
	}

	resp, err := client.Do(req)
	if err != nil {
		code := core.CodeFetchFailed
		if ctxErr := ctx.Err(); ctxErr != nil {
			code = core.CodeFetchTimeout
		}
		return f.failure(url, fetchedAt, code, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024*1024))
	if err != nil {
		return f.failure(url, fetchedAt, core.CodeFetchFailed, err)
	}

	httpMs := time.Since(start).Milliseconds()
	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300 && len(body) > 0
	result := FetchResult{
		Success:     success,
		ModeUsed:    ModeHTTP,
		OriginalURL: url,
		FinalURL:    finalURL,
		StatusCode:  resp.StatusCode,
		RawHTML:     string(body),
		FetchedAt:   fetchedAt,
		Metadata: Metadata{
			Redirects: redirects,
			Headers:   headers,
			Timing:    Timing{HTTPMs: httpMs},
		},
	}
	if !success {
		result.Error = core.NewError(core.CodeFetchFailed, "non-2xx or empty response", nil).Error()
	}
	return result
}

func (f *Fetcher) failure(url string, fetchedAt time.Time, code string, cause error) FetchResult {
	return FetchResult{
		Success:     false,
		ModeUsed:    ModeHTTP,
		OriginalURL: url,
		FinalURL:    url,
		FetchedAt:   fetchedAt,
		Error:       core.NewError(code, "fetch failed", cause).Error(),
	}
}

func (f *Fetcher) clientOr() *http.Client {
	if f.Client != nil {
		c := *f.Client
		if c.Transport == nil {
			c.Transport = &http.Transport{TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12}}
		}
		return &c
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (f *Fetcher) userAgentOr(def string) string {
	if f.UserAgent != "" {
		return f.UserAgent
	}
	return def
}

func (f *Fetcher) timeoutOr(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}

// hasAny reports whether s contains any of the substrings, case-insensitively.
func hasAny(s string, subs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
