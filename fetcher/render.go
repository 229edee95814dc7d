package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/shelfwatch/observer/internal/core"
)

// render.go: the rendered-mode fetch path. A single headless-Chromium
// allocator and browser context are created once per process (per the
// `price_fetcher.go` reference's global-allocator shape) and reused
// across fetches; every individual fetch gets its own short-lived tab
// context that is always torn down, regardless of exit path, so a
// throw-path leak (the Design Notes' "Headless lifecycle" concern)
// cannot happen.

type renderAllocator struct {
	once    sync.Once
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	setupErr error
}

func (f *Fetcher) ensureBrowser() error {
	f.allocOnce.once.Do(func() {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.DisableGPU,
			chromedp.NoDefaultBrowserCheck,
			chromedp.NoFirstRun,
			chromedp.Headless,
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(f.userAgentOr(defaultUserAgent)),
		)
		if f.HeadlessExecPath != "" {
			opts = append(opts, chromedp.ExecPath(f.HeadlessExecPath))
		}

		allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
		browserCtx, browserCancel := chromedp.NewContext(allocCtx)
		if err := chromedp.Run(browserCtx); err != nil {
			allocCancel()
			f.allocOnce.setupErr = err
			return
		}
		f.allocOnce.allocCtx = allocCtx
		f.allocOnce.allocCancel = allocCancel
		f.allocOnce.browserCtx = browserCtx
		f.allocOnce.browserCancel = browserCancel
	})
	return f.allocOnce.setupErr
}

// Close tears down the shared headless browser, if one was started. Call
// this once at process shutdown.
func (f *Fetcher) Close() {
	if f.allocOnce.browserCancel != nil {
		f.allocOnce.browserCancel()
	}
	if f.allocOnce.allocCancel != nil {
		f.allocOnce.allocCancel()
	}
}

func (f *Fetcher) fetchRendered(ctx context.Context, staticResult FetchResult) FetchResult {
	fetchedAt := time.Now().UTC()
	start := time.Now()

	if err := f.ensureBrowser(); err != nil {
		return f.renderFailure(staticResult, fetchedAt, err)
	}

	tabCtx, tabCancel := chromedp.NewContext(f.allocOnce.browserCtx)
	defer tabCancel()

	tabCtx, cancel := context.WithTimeout(tabCtx, f.timeoutOr(f.RenderTimeout, 60*time.Second))
	defer cancel()

	var consoleErrors []string
	chromedp.ListenTarget(tabCtx, func(ev any) {
		if errEv, ok := ev.(*runtime.EventExceptionThrown); ok && errEv.ExceptionDetails != nil {
			consoleErrors = append(consoleErrors, errEv.ExceptionDetails.Text)
		}
	})

	var html string
	settle := f.RenderSettle
	if settle <= 0 {
		settle = time.Second
	}
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(staticResult.FinalURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return f.renderFailure(staticResult, fetchedAt, err)
	}

	renderMs := time.Since(start).Milliseconds()
	result := staticResult
	result.ModeUsed = ModeRendered
	result.RenderedHTML = html
	result.FetchedAt = fetchedAt
	result.Metadata.Timing.RenderMs = &renderMs
	result.Metadata.ConsoleErrors = consoleErrors
	result.Success = true
	result.Error = ""
	return result
}

func (f *Fetcher) renderFailure(staticResult FetchResult, fetchedAt time.Time, cause error) FetchResult {
	return FetchResult{
		Success:     false,
		ModeUsed:    ModeRendered,
		OriginalURL: staticResult.OriginalURL,
		FinalURL:    staticResult.FinalURL,
		StatusCode:  staticResult.StatusCode,
		RawHTML:     staticResult.RawHTML,
		FetchedAt:   fetchedAt,
		Error:       core.NewError(core.CodeRenderFailed, "headless render failed", cause).Error(),
		Metadata:    staticResult.Metadata,
	}
}
