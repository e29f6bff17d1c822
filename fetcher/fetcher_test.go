package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jobsift/jdextract/config"
)

func testConfig() config.FetchConfig {
	return config.FetchConfig{Timeout: 5 * time.Second, MaxRedirects: 10}
}

func TestFetch_ReturnsHTMLAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Chrome") {
			t.Errorf("missing browser user-agent, got %q", ua)
		}
		fmt.Fprint(w, "<html><head><title>Backend Engineer</title></head><body>job body</body></html>")
	}))
	defer srv.Close()

	f := New(testConfig())
	res := f.Fetch(context.Background(), srv.URL)

	if res.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", res.Status)
	}
	if !strings.Contains(res.HTML, "job body") {
		t.Errorf("HTML missing body content: %q", res.HTML)
	}
	if res.Title != "Backend Engineer" {
		t.Errorf("Title = %q, want %q", res.Title, "Backend Engineer")
	}
}

func TestFetch_ErrorStatusStillReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "<html><body>please log in to continue</body></html>")
	}))
	defer srv.Close()

	f := New(testConfig())
	res := f.Fetch(context.Background(), srv.URL)

	if res.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want 403", res.Status)
	}
	if !strings.Contains(res.HTML, "please log in") {
		t.Error("error page body should be returned for login-wall scanning")
	}
}

func TestFetch_NetworkFailureYieldsZeroResult(t *testing.T) {
	f := New(testConfig())
	url := "http://127.0.0.1:1/unreachable"
	res := f.Fetch(context.Background(), url)

	if res.HTML != "" || res.Status != 0 {
		t.Errorf("expected zero result, got %+v", res)
	}
	if res.FinalURL != url {
		t.Errorf("FinalURL = %q, want input URL", res.FinalURL)
	}
}

func TestResolve_FollowsRedirectChain(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			http.Redirect(w, r, srv.URL+"/b", http.StatusFound)
		case "/b":
			http.Redirect(w, r, srv.URL+"/final", http.StatusMovedPermanently)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	f := New(testConfig())
	got := f.Resolve(context.Background(), srv.URL+"/a")
	if got != srv.URL+"/final" {
		t.Errorf("Resolve = %q, want %q", got, srv.URL+"/final")
	}
}

func TestResolve_LoopTerminatesAtHopBudget(t *testing.T) {
	hops := 0
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops++
		http.Redirect(w, r, srv.URL+"/loop", http.StatusFound)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxRedirects = 3
	f := New(cfg)

	got := f.Resolve(context.Background(), srv.URL+"/loop")
	if !strings.HasPrefix(got, srv.URL) {
		t.Errorf("Resolve = %q, want a URL on the loop server", got)
	}
	// Initial request plus at most MaxRedirects follows.
	if hops > 4 {
		t.Errorf("server saw %d requests, hop budget not enforced", hops)
	}
}

func TestResolve_FailureReturnsOriginal(t *testing.T) {
	f := New(testConfig())
	url := "http://127.0.0.1:1/unreachable"
	if got := f.Resolve(context.Background(), url); got != url {
		t.Errorf("Resolve = %q, want original URL on failure", got)
	}
}
