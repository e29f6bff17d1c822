// Package renderer drives a headless browser to obtain fully rendered HTML
// for pages that require script execution, then re-runs the multi-strategy
// extractor against it. Rendering failures of any kind yield a nil attempt,
// never an error: "no content" is a normal pipeline outcome.
package renderer

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/jobsift/jdextract/config"
	"github.com/jobsift/jdextract/extractor"
	"github.com/jobsift/jdextract/fetcher"
)

// Renderer renders pages in a headless browser scoped to a single call:
// acquired, used, and released before Render returns, on every exit path.
type Renderer struct {
	cfg        config.BrowserConfig
	navTimeout time.Duration
	extract    *extractor.Extractor
	mode       string
	bin        string
}

// New creates a Renderer. Browser acquisition strategy is resolved once
// here; individual Render calls obtain and release sessions through it.
// navTimeout mirrors the static fetch timeout so both paths are bounded
// identically.
func New(cfg config.BrowserConfig, navTimeout time.Duration, extract *extractor.Extractor) *Renderer {
	mode, bin := resolveMode(cfg)
	slog.Info("browser acquisition resolved", "mode", mode, "bin", bin)
	return &Renderer{
		cfg:        cfg,
		navTimeout: navTimeout,
		extract:    extract,
		mode:       mode,
		bin:        bin,
	}
}

// Mode reports the resolved acquisition mode, for health reporting.
func (r *Renderer) Mode() string { return r.mode }

// Render navigates to the URL, waits for DOM content plus a fixed settle
// period for client-side frameworks, captures the rendered HTML, and runs
// the full extraction pass against it. The winning attempt's method is
// prefixed "headless-".
//
// A nil return means no content was obtained; the caller decides what that
// implies.
func (r *Renderer) Render(ctx context.Context, url string) *extractor.Attempt {
	ctx, cancel := context.WithTimeout(ctx, r.navTimeout+r.cfg.SettleDelay+5*time.Second)
	defer cancel()

	browser, release, err := r.acquire()
	if err != nil {
		slog.Warn("browser acquisition failed", "url", url, "error", err)
		return nil
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		slog.Warn("page creation failed", "url", url, "error", err)
		return nil
	}
	defer func() { _ = page.Close() }()

	// Stealth and header overrides must be installed before navigation.
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		slog.Warn("stealth injection failed, proceeding without it", "error", err)
	}
	_ = proto.NetworkSetUserAgentOverride{UserAgent: fetcher.ChromeUA}.Call(page)
	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: proto.NetworkHeaders{"Accept-Language": gson.New("en-US,en;q=0.9")},
	}.Call(page)

	router := setupHijack(page, r.cfg.BlockedResourceTypes)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)

	// The listener must be registered before Navigate or the event can
	// fire unobserved.
	waitDOM := p.WaitEvent(&proto.PageDomContentEventFired{})

	if err := p.Timeout(r.navTimeout).Navigate(url); err != nil {
		slog.Warn("navigation failed", "url", url, "error", err)
		return nil
	}
	waitDOM()

	// Fixed settle period: DOM content loaded fires before client-side
	// rendering frameworks have populated anything.
	select {
	case <-time.After(r.cfg.SettleDelay):
	case <-ctx.Done():
		return nil
	}

	html, err := p.HTML()
	if err != nil {
		slog.Warn("rendered HTML capture failed", "url", url, "error", err)
		return nil
	}

	attempt := r.extract.Run(html, url)
	if attempt == nil {
		return nil
	}
	attempt.Method = "headless-" + attempt.Method
	return attempt
}
