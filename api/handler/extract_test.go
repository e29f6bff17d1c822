package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobsift/jdextract/cache"
	"github.com/jobsift/jdextract/metrics"
	"github.com/jobsift/jdextract/models"
	"github.com/jobsift/jdextract/storage"
)

type stubExtractor struct {
	result models.Result
	calls  int
}

func (s *stubExtractor) Extract(_ context.Context, _ string) models.Result {
	s.calls++
	return s.result
}

// stubRecorder signals audit activity over channels so tests can wait for
// the detached write without sleeping.
type stubRecorder struct {
	recorded   chan storage.AuditEntry
	dupChecked chan uint64
	duplicate  bool
}

func newStubRecorder() *stubRecorder {
	return &stubRecorder{
		recorded:   make(chan storage.AuditEntry, 1),
		dupChecked: make(chan uint64, 1),
	}
}

func (s *stubRecorder) Record(_ context.Context, e storage.AuditEntry) error {
	s.recorded <- e
	return nil
}

func (s *stubRecorder) RecentDuplicate(_ context.Context, fp uint64, _ time.Duration) bool {
	s.dupChecked <- fp
	return s.duplicate
}

var testMetrics = metrics.New()

func performExtract(t *testing.T, p Extractor, cc cache.Store, rec storage.Recorder, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/extract", Extract(p, cc, testMetrics, rec))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestExtractStatusMapping(t *testing.T) {
	cases := []struct {
		status models.Status
		want   int
	}{
		{models.StatusSuccess, http.StatusOK},
		{models.StatusRestricted, http.StatusForbidden},
		{models.StatusNotAJobURL, http.StatusUnprocessableEntity},
		{models.StatusEmptyOrError, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			result := models.Result{Status: tc.status}
			if tc.status == models.StatusSuccess {
				result.JDText = "job text"
			}
			p := &stubExtractor{result: result}
			w := performExtract(t, p, nil, nil, `{"url":"https://example.com/job/1"}`)
			if w.Code != tc.want {
				t.Errorf("HTTP code = %d, want %d", w.Code, tc.want)
			}

			var resp models.ExtractResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("bad response body: %v", err)
			}
			if resp.Success != (tc.status == models.StatusSuccess) {
				t.Errorf("success = %v for status %s", resp.Success, tc.status)
			}
		})
	}
}

func TestExtractRejectsInvalidBody(t *testing.T) {
	p := &stubExtractor{}

	w := performExtract(t, p, nil, nil, `{"url":"not a url"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("HTTP code = %d, want 400", w.Code)
	}
	if p.calls != 0 {
		t.Errorf("pipeline ran %d times on invalid input", p.calls)
	}

	w = performExtract(t, p, nil, nil, `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("HTTP code = %d for missing url, want 400", w.Code)
	}
}

func TestExtractServesFromCache(t *testing.T) {
	p := &stubExtractor{result: models.Result{
		Status: models.StatusSuccess,
		JDText: "fresh text",
	}}
	cc := cache.NewMemory(10)

	body := `{"url":"https://example.com/job/1","max_age_ms":60000}`

	w := performExtract(t, p, cc, nil, body)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: HTTP %d", w.Code)
	}
	var first models.ExtractResponse
	json.Unmarshal(w.Body.Bytes(), &first)
	if first.CacheStatus != "miss" {
		t.Errorf("first cache_status = %q, want miss", first.CacheStatus)
	}

	w = performExtract(t, p, cc, nil, body)
	var second models.ExtractResponse
	json.Unmarshal(w.Body.Bytes(), &second)
	if second.CacheStatus != "hit" {
		t.Errorf("second cache_status = %q, want hit", second.CacheStatus)
	}
	if p.calls != 1 {
		t.Errorf("pipeline ran %d times, want 1 (second served from cache)", p.calls)
	}
}

func TestExtractAuditsSuccessWithDuplicateLookup(t *testing.T) {
	p := &stubExtractor{result: models.Result{
		Status:   models.StatusSuccess,
		JDText:   "Responsibilities and qualifications for a full-time position",
		FinalURL: "https://careers.example.com/roles/42",
		Debug:    &models.Debug{ExtractionMethod: "headless-json-ld"},
	}}
	rec := newStubRecorder()

	performExtract(t, p, nil, rec, `{"url":"https://example.com/job/1"}`)

	var checkedFp uint64
	select {
	case checkedFp = <-rec.dupChecked:
	case <-time.After(2 * time.Second):
		t.Fatal("duplicate lookup never ran for a successful extraction")
	}
	if checkedFp == 0 {
		t.Error("duplicate lookup ran with a zero fingerprint")
	}

	select {
	case entry := <-rec.recorded:
		if entry.Fingerprint != checkedFp {
			t.Errorf("recorded fingerprint %d differs from checked %d", entry.Fingerprint, checkedFp)
		}
		if entry.Status != models.StatusSuccess || entry.Method != "headless-json-ld" {
			t.Errorf("audit entry = %+v", entry)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("audit record never written")
	}
}

func TestExtractAuditSkipsDuplicateLookupOnFailure(t *testing.T) {
	p := &stubExtractor{result: models.Result{
		Status: models.StatusRestricted,
		Reason: "Login wall detected; page requires authentication",
	}}
	rec := newStubRecorder()

	performExtract(t, p, nil, rec, `{"url":"https://example.com/job/1"}`)

	select {
	case entry := <-rec.recorded:
		if entry.Status != models.StatusRestricted {
			t.Errorf("audit status = %s", entry.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("audit record never written")
	}

	select {
	case <-rec.dupChecked:
		t.Error("duplicate lookup ran for a non-success result")
	default:
	}
}

func TestExtractCacheHitDoesNotMutateStoredResponse(t *testing.T) {
	p := &stubExtractor{result: models.Result{
		Status: models.StatusSuccess,
		JDText: "stable text",
	}}
	cc := cache.NewMemory(10)
	body := `{"url":"https://example.com/job/1","max_age_ms":60000}`

	performExtract(t, p, cc, nil, body)
	performExtract(t, p, cc, nil, body)

	stored, ok := cc.Get(context.Background(), cache.Key("https://example.com/job/1", "text"), 60000)
	if !ok {
		t.Fatal("stored response missing")
	}
	if stored.CacheStatus != "miss" {
		t.Errorf("stored cache_status = %q, hit response leaked into the cache entry", stored.CacheStatus)
	}
}

func TestExtractMarkdownFormat(t *testing.T) {
	p := &stubExtractor{result: models.Result{
		Status:   models.StatusSuccess,
		JDText:   "Senior Engineer Responsibilities Build things",
		JDHTML:   "<div><h2>Senior Engineer</h2><ul><li>Build things</li></ul></div>",
		FinalURL: "https://example.com/job/1",
	}}

	w := performExtract(t, p, nil, nil, `{"url":"https://example.com/job/1","format":"markdown"}`)
	var resp models.ExtractResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.JDMarkdown == "" {
		t.Fatal("jd_markdown missing for format=markdown")
	}
	if resp.JDText == "" {
		t.Error("jd_text should still be present alongside markdown")
	}
}
