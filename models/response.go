package models

// TimingInfo records wall-clock durations of the request phases.
type TimingInfo struct {
	TotalMs      int64 `json:"total_ms"`
	ExtractionMs int64 `json:"extraction_ms,omitempty"`
}

// ExtractResponse is the body for POST /api/v1/extract.
//
// Success responses carry JDText (and JDMarkdown when requested); failure
// responses carry Reason and, for request-level errors, Error.
type ExtractResponse struct {
	Success     bool         `json:"success"`
	Status      Status       `json:"status,omitempty"`
	JDText      string       `json:"jd_text,omitempty"`
	JDMarkdown  string       `json:"jd_markdown,omitempty"`
	Reason      string       `json:"reason,omitempty"`
	FinalURL    string       `json:"final_url,omitempty"`
	HTTPStatus  int          `json:"http_status,omitempty"`
	Debug       *Debug       `json:"debug,omitempty"`
	CacheStatus string       `json:"cache_status,omitempty"` // "hit" or "miss" when caching was requested
	Timing      TimingInfo   `json:"timing"`
	Error       *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the body for GET /api/v1/health.
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	BrowserMode   string `json:"browser_mode"` // "remote", "serverless", "local", or "unavailable"
	Version       string `json:"version"`
}
