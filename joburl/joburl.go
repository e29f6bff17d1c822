// Package joburl canonicalizes job-posting URLs and flags feed/search pages.
//
// Normalization is best-effort: a URL that cannot be parsed is returned
// unchanged rather than rejected, because the fetch stages downstream are
// the authority on whether a URL is actually reachable.
package joburl

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Normalized is the outcome of normalizing one URL.
type Normalized struct {
	// URL is the canonical form, or the input unchanged when no
	// site-specific rewrite applied.
	URL string

	// IsFeed marks job feed / search / listing pages, which can never be
	// extracted as a single posting.
	IsFeed bool
}

var (
	linkedinViewRe = regexp.MustCompile(`/view/(\d+)`)
	facebookPostRe = regexp.MustCompile(`/posts/(\d+)`)
)

// feedIndicators are path keywords marking generic job-board listing pages.
var feedIndicators = []string{"search", "browse", "all-jobs", "job-search"}

// Normalize rewrites known job-site URL shapes to a canonical single-posting
// form and detects feed/search pages.
//
// The orchestrator runs this twice: once before redirect resolution, so a
// canonical job ID is captured before an authwall redirect can strip it, and
// once after, to canonicalize the final landing URL.
func Normalize(raw string) Normalized {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return Normalized{URL: raw}
	}

	host := strings.ToLower(u.Hostname())
	path := strings.ToLower(u.Path)

	if strings.Contains(host, "linkedin.com") {
		// Job IDs appear either as a currentJobId query parameter
		// (feed/search links, ads) or embedded in a /view/ path segment.
		jobID := u.Query().Get("currentJobId")
		if jobID == "" {
			if m := linkedinViewRe.FindStringSubmatch(u.Path); m != nil {
				jobID = m[1]
			}
		}
		if jobID != "" {
			return Normalized{URL: fmt.Sprintf("https://www.linkedin.com/jobs/view/%s/", jobID)}
		}

		if strings.Contains(path, "/jobs/collections") ||
			strings.Contains(path, "/jobs/search") ||
			strings.Contains(u.RawQuery, "keywords=") {
			return Normalized{URL: raw, IsFeed: true}
		}
	}

	if strings.Contains(host, "facebook.com") {
		postID := ""
		if m := facebookPostRe.FindStringSubmatch(u.Path); m != nil {
			postID = m[1]
		}
		if postID == "" {
			postID = u.Query().Get("id")
		}
		if postID != "" {
			return Normalized{URL: fmt.Sprintf("https://www.facebook.com/posts/%s/", postID)}
		}

		if strings.Contains(path, "/groups") {
			return Normalized{URL: raw, IsFeed: true}
		}
	}

	if strings.Contains(host, "indeed.com") {
		if strings.Contains(u.RawQuery, "q=") || path == "/jobs" || path == "/" {
			return Normalized{URL: raw, IsFeed: true}
		}
	}

	for _, indicator := range feedIndicators {
		if strings.Contains(path, indicator) {
			return Normalized{URL: raw, IsFeed: true}
		}
	}

	return Normalized{URL: raw}
}
