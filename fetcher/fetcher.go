// Package fetcher provides the static HTTP fetch and redirect resolution
// stages. Both are best-effort: network failures surface as zero-valued
// results, never as errors, so the pipeline can fall through to its next
// stage.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"
	"golang.org/x/net/html"

	"github.com/jobsift/jdextract/config"
)

// ChromeUA is the browser user-agent sent on every probe and fetch.
const ChromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// maxBody caps response reads to prevent unbounded memory use.
const maxBody = 10 << 20

// Result is the outcome of a static fetch. A zero Status with empty HTML
// means no network response was obtained.
type Result struct {
	HTML     string
	Status   int
	FinalURL string
	Title    string
}

// Fetcher performs direct HTTP requests with a Chrome TLS fingerprint.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Lock ALPN to http/1.1: Go's http.Transport cannot speak HTTP/2 over
	// a utls connection it did not negotiate itself.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// New creates a Fetcher bounded by cfg.Timeout and cfg.MaxRedirects.
func New(cfg config.FetchConfig) *Fetcher {
	transport := &http.Transport{
		DialTLSContext: dialTLSChrome,
		// See chromeH1Spec: h2 is off the table for utls connections.
		ForceAttemptHTTP2: false,
	}

	maxHops := cfg.MaxRedirects
	if maxHops <= 0 {
		maxHops = 10
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// At the hop budget, stop following and use whatever
				// URL was reached instead of failing the request.
				if len(via) >= maxHops {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		timeout: cfg.Timeout,
	}
}

// dialTLSChrome establishes a TLS connection presenting the Chrome
// ClientHello, which avoids trivial TLS-fingerprint bot blocking.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("fetcher: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}

// Fetch retrieves raw HTML via a full GET with browser-equivalent headers.
//
// Any failure (timeout, DNS, TLS, read error) yields a zero Result with
// FinalURL set to the input; callers treat empty HTML as "no static content
// available". Error status codes still return the body, since the pipeline
// scans error pages for login-wall phrases.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) Result {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return Result{FinalURL: targetURL}
	}
	setBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{FinalURL: targetURL}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Result{Status: resp.StatusCode, FinalURL: resp.Request.URL.String()}
	}

	htmlStr := string(body)
	return Result{
		HTML:     htmlStr,
		Status:   resp.StatusCode,
		FinalURL: resp.Request.URL.String(),
		Title:    extractTitle(htmlStr),
	}
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", ChromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
}

// extractTitle uses the HTML tokenizer to find the first <title> element.
func extractTitle(htmlStr string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(htmlStr))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		}
	}
}
