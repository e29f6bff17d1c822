package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobsift/jdextract/cache"
	"github.com/jobsift/jdextract/metrics"
	"github.com/jobsift/jdextract/models"
	"github.com/jobsift/jdextract/storage"
	"github.com/jobsift/jdextract/textsig"
)

// Extractor runs one extraction per call. Satisfied by *pipeline.Pipeline.
type Extractor interface {
	Extract(ctx context.Context, url string) models.Result
}

// Extract returns a handler for POST /api/v1/extract.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup when max_age_ms is set.
//  3. Pipeline.Extract → terminal Result     (records extraction_ms)
//  4. Optional Markdown conversion of the winning region HTML.
//  5. Map the terminal status to an HTTP code, fill Timing, respond.
//
// The cache store and audit recorder may be nil; both are optional.
func Extract(p Extractor, cc cache.Store, m *metrics.Metrics, rec storage.Recorder) gin.HandlerFunc {
	mdConverter := newMarkdownConverter()

	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ExtractResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		if cc != nil && req.MaxAgeMs > 0 {
			cacheKey := cache.Key(req.URL, req.Format)
			if cached, hit := cc.Get(c.Request.Context(), cacheKey, req.MaxAgeMs); hit {
				m.ObserveCacheLookup(true)
				// Copy before mutating: the stored response is shared
				// between concurrent hits on the same key.
				resp := *cached
				resp.CacheStatus = "hit"
				resp.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(statusCode(resp.Status), &resp)
				return
			}
			m.ObserveCacheLookup(false)
		}

		extractStart := time.Now()
		res := p.Extract(c.Request.Context(), req.URL)
		extractionMs := time.Since(extractStart).Milliseconds()

		resp := &models.ExtractResponse{
			Success:    res.Status == models.StatusSuccess,
			Status:     res.Status,
			JDText:     res.JDText,
			Reason:     res.Reason,
			FinalURL:   res.FinalURL,
			HTTPStatus: res.HTTPStatus,
			Debug:      res.Debug,
			Timing: models.TimingInfo{
				TotalMs:      time.Since(totalStart).Milliseconds(),
				ExtractionMs: extractionMs,
			},
		}

		if req.Format == "markdown" && res.JDHTML != "" {
			md, err := toMarkdown(mdConverter, res.JDHTML, domainOf(res.FinalURL))
			if err != nil {
				slog.Warn("markdown conversion failed", "url", res.FinalURL, "error", err)
			} else {
				resp.JDMarkdown = md
			}
		}

		observe(m, rec, req.URL, res, time.Duration(extractionMs)*time.Millisecond)

		if cc != nil && req.MaxAgeMs > 0 {
			resp.CacheStatus = "miss"
			cc.Set(c.Request.Context(), cache.Key(req.URL, req.Format), resp)
		}

		c.JSON(statusCode(res.Status), resp)
	}
}

// statusCode maps a terminal extraction status to the HTTP response code.
func statusCode(s models.Status) int {
	switch s {
	case models.StatusSuccess:
		return http.StatusOK // 200
	case models.StatusRestricted:
		return http.StatusForbidden // 403
	case models.StatusNotAJobURL:
		return http.StatusUnprocessableEntity // 422
	default:
		return http.StatusBadGateway // 502
	}
}

// duplicateWindow bounds how far back the audit log is consulted for
// syndicated copies of the same posting.
const duplicateWindow = 24 * time.Hour

// observe records metrics and, when configured, an audit row. The audit
// write runs detached so a slow database never delays the response.
func observe(m *metrics.Metrics, rec storage.Recorder, reqURL string, res models.Result, d time.Duration) {
	method := ""
	if res.Debug != nil {
		method = res.Debug.ExtractionMethod
	}
	m.ObserveExtraction(string(res.Status), method, d)

	if rec == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		entry := storage.AuditEntry{
			URL:         reqURL,
			FinalURL:    res.FinalURL,
			Status:      res.Status,
			Method:      method,
			HTTPStatus:  res.HTTPStatus,
			Duration:    d,
			Fingerprint: textsig.Fingerprint(res.JDText),
		}

		// Flag syndicated copies of recently seen postings before the
		// new row lands, so the lookup never matches itself.
		if res.Status == models.StatusSuccess && entry.Fingerprint != 0 {
			if rec.RecentDuplicate(ctx, entry.Fingerprint, duplicateWindow) {
				slog.Info("near-duplicate posting detected",
					"url", reqURL, "final_url", res.FinalURL)
			}
		}

		if err := rec.Record(ctx, entry); err != nil {
			slog.Warn("audit record failed", "url", reqURL, "error", err)
		}
	}()
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
