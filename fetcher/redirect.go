package fetcher

import (
	"context"
	"log/slog"
	"net/http"
)

// Resolve follows HTTP redirects with a header-only probe and returns the
// final URL, bounded by the configured hop budget. A redirect loop
// terminates at the bound and yields whatever URL was reached.
//
// Resolution failure is non-fatal: on any network error the original URL is
// returned unchanged and extraction proceeds against it directly.
func (f *Fetcher) Resolve(ctx context.Context, targetURL string) string {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return targetURL
	}
	req.Header.Set("User-Agent", ChromeUA)

	resp, err := f.client.Do(req)
	if err != nil {
		slog.Warn("redirect resolution failed, using original URL",
			"url", targetURL, "error", err)
		return targetURL
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL.String()
	if finalURL != targetURL {
		slog.Debug("redirect resolved", "from", targetURL, "to", finalURL)
	}
	return finalURL
}
