// Package extractor picks job-relevant text out of noisy HTML by running
// several independent strategies and keeping the best result.
package extractor

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/jobsift/jdextract/config"
)

const (
	// minAttemptChars is the floor below which a strategy's output is
	// discarded as noise.
	minAttemptChars = 50

	// weakFloorChars is the stricter floor applied by the semantic,
	// heuristic, and meta strategies, whose candidates carry less
	// structural signal than JSON-LD.
	weakFloorChars = 100
)

// Attempt is one strategy's output, ranked by Priority within a single
// extraction pass. Attempts are never persisted.
type Attempt struct {
	// Text is the cleaned plain text.
	Text string

	// HTML is the source region markup the text came from, when the
	// strategy had one. Used for optional markdown rendering downstream.
	HTML string

	// Method names the producing strategy, for diagnostics.
	Method string

	// Priority ranks strategies; higher wins.
	Priority int
}

// Extractor runs the multi-strategy extraction pass. It is stateless per
// call and safe for concurrent use.
type Extractor struct {
	extraSelectors []string
}

// New creates an Extractor. Configured extra selectors for the semantic
// strategy are validated with cascadia; invalid ones are dropped with a
// warning rather than failing construction.
func New(cfg config.ExtractConfig) *Extractor {
	valid := make([]string, 0, len(cfg.ExtraSelectors))
	for _, sel := range cfg.ExtraSelectors {
		if _, err := cascadia.Parse(sel); err != nil {
			slog.Warn("dropping invalid extra selector", "selector", sel, "error", err)
			continue
		}
		valid = append(valid, sel)
	}
	return &Extractor{extraSelectors: valid}
}

// Run attempts every strategy against the HTML and returns the best result
// by priority, or nil when no strategy cleared the minimum floor.
//
// All strategies are always attempted, not short-circuited, so the caller
// can see how many produced viable output. sourceURL is used only to
// resolve relative references during main-content detection; it may be
// empty.
func (e *Extractor) Run(html string, sourceURL string) *Attempt {
	strategies := []struct {
		fn       func(string, string) *Attempt
		priority int
		name     string
	}{
		{e.fromJSONLD, 4, "json-ld"},
		{e.fromSemanticHTML, 3, "semantic-html"},
		{e.fromLargestBlock, 2, "heuristic"},
		{e.fromMetaTags, 1, "meta-tags"},
	}

	var best *Attempt
	viable := 0
	for _, s := range strategies {
		attempt := s.fn(html, sourceURL)
		if attempt == nil || len(attempt.Text) <= minAttemptChars {
			continue
		}
		attempt.Method = s.name
		attempt.Priority = s.priority
		viable++
		if best == nil || attempt.Priority > best.Priority {
			best = attempt
		}
	}

	if best != nil {
		slog.Debug("extraction strategy selected",
			"method", best.Method,
			"viable_strategies", viable,
			"length", len(best.Text),
		)
	}
	return best
}

// parse builds a fresh document so strategies that prune subtrees never
// affect one another.
func parse(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return doc
}
