// Package pipeline sequences URL normalization, redirect resolution,
// headless rendering, extraction, and job-signal validation into one
// extraction pass with a structured terminal classification.
//
// Every stage failure is absorbed into a state transition; the pipeline
// never returns an error for I/O or service trouble. Each invocation is
// independent and reentrant; nothing is cached or shared between calls.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobsift/jdextract/extractor"
	"github.com/jobsift/jdextract/fetcher"
	"github.com/jobsift/jdextract/joburl"
	"github.com/jobsift/jdextract/models"
	"github.com/jobsift/jdextract/validator"
)

// Fetcher is the static HTTP capability: redirect resolution and direct
// page fetch. Both are best-effort and never error.
type Fetcher interface {
	Resolve(ctx context.Context, url string) string
	Fetch(ctx context.Context, url string) fetcher.Result
}

// Renderer is the headless rendering capability. A nil attempt means no
// content could be obtained.
type Renderer interface {
	Render(ctx context.Context, url string) *extractor.Attempt
}

// Classifier is the AI validation capability. Validate is authoritative
// whenever a credential is configured and rejects otherwise.
type Classifier interface {
	Validate(ctx context.Context, text string) bool
	Available() bool
}

// Pipeline orchestrates one extraction per Extract call.
type Pipeline struct {
	fetcher    Fetcher
	renderer   Renderer
	classifier Classifier
}

// New wires the pipeline's stage capabilities.
func New(f Fetcher, r Renderer, c Classifier) *Pipeline {
	return &Pipeline{fetcher: f, renderer: r, classifier: c}
}

// Extract runs the full pipeline for one URL.
//
// State machine: normalize (pre-redirect) → feed check → redirect
// resolution (skipped when pre-normalization already produced a canonical
// job URL, since some sites redirect unauthenticated ID-bearing URLs
// straight to a login page) → normalize (post-redirect) → feed check →
// headless render → validate → terminal classification. The static fetch
// is consulted only on rejection paths, to look for login-wall phrases.
func (p *Pipeline) Extract(ctx context.Context, rawURL string) models.Result {
	slog.Info("extraction started", "url", rawURL)

	// Pre-normalization catches canonical job IDs before a redirect can
	// strip them.
	pre := joburl.Normalize(rawURL)
	if pre.IsFeed {
		return feedResult(pre.URL)
	}

	targetURL := rawURL
	if pre.URL != rawURL {
		slog.Debug("canonical job URL found, skipping redirect resolution", "url", pre.URL)
		targetURL = pre.URL
	} else {
		targetURL = p.fetcher.Resolve(ctx, rawURL)
	}

	final := joburl.Normalize(targetURL)
	if final.IsFeed {
		return feedResult(final.URL)
	}

	// Headless rendering is the primary extraction path: most job sites
	// require script execution before any content exists in the DOM.
	attempt := p.renderer.Render(ctx, final.URL)

	if attempt == nil || attempt.Text == "" {
		slog.Info("no content obtained from rendering", "url", final.URL)
		static := p.fetcher.Fetch(ctx, final.URL)

		if validator.DetectLoginWall(static.HTML, "") {
			return models.Result{
				Status:     models.StatusRestricted,
				Reason:     "Login wall detected; page requires authentication",
				FinalURL:   final.URL,
				HTTPStatus: static.Status,
				Debug:      &models.Debug{Stage: "login_detection"},
			}
		}
		return models.Result{
			Status:     models.StatusEmptyOrError,
			Reason:     "Could not extract content from page",
			FinalURL:   final.URL,
			HTTPStatus: static.Status,
			Debug:      &models.Debug{Stage: "headless_extraction_failed"},
		}
	}

	// Heuristic signals inform logging and diagnostics only; the AI
	// classification is authoritative whenever it is configured.
	strong := validator.HasStrongSignal(attempt.Text)
	weak := validator.HasWeakSignal(attempt.Text)
	slog.Info("content extracted",
		"url", final.URL,
		"method", attempt.Method,
		"length", len(attempt.Text),
		"strong_signal", strong,
		"weak_signal", weak,
	)

	debug := &models.Debug{
		ExtractedLength:  len(attempt.Text),
		ExtractionMethod: attempt.Method,
		StrongSignal:     strong,
		WeakSignal:       weak,
	}

	if p.classifier.Validate(ctx, attempt.Text) {
		debug.Stage = "ai_validation"
		return models.Result{
			Status:     models.StatusSuccess,
			JDText:     attempt.Text,
			JDHTML:     attempt.HTML,
			Reason:     fmt.Sprintf("Extracted via %s, validated with AI", attempt.Method),
			FinalURL:   final.URL,
			HTTPStatus: 200,
			Debug:      debug,
		}
	}

	// Rejected: decide between a login wall and a genuine non-job page.
	static := p.fetcher.Fetch(ctx, final.URL)
	if validator.DetectLoginWall(static.HTML, attempt.Text) {
		debug.Stage = "login_detection_deferred"
		return models.Result{
			Status:     models.StatusRestricted,
			Reason:     "Login wall detected; page requires authentication",
			FinalURL:   final.URL,
			HTTPStatus: static.Status,
			Debug:      debug,
		}
	}

	debug.Stage = "ai_validation_failed"
	return models.Result{
		Status:     models.StatusNotAJobURL,
		Reason:     "Extracted content does not appear to be a job description",
		FinalURL:   final.URL,
		HTTPStatus: 200,
		Debug:      debug,
	}
}

// feedResult short-circuits before any network activity, so no HTTP status
// was observed.
func feedResult(url string) models.Result {
	slog.Info("feed or search page detected", "url", url)
	return models.Result{
		Status:   models.StatusNotAJobURL,
		Reason:   "URL appears to be a job feed or search results page",
		FinalURL: url,
		Debug:    &models.Debug{Stage: "url_normalization"},
	}
}
