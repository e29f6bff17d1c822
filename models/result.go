package models

// Status is the terminal classification of an extraction attempt.
type Status string

const (
	// StatusSuccess means a validated job description was extracted.
	StatusSuccess Status = "SUCCESS"

	// StatusRestricted means the page sits behind a login wall.
	StatusRestricted Status = "RESTRICTED"

	// StatusNotAJobURL means the URL is a feed/search page or the
	// extracted content is not a job posting.
	StatusNotAJobURL Status = "NOT_A_JOB_URL"

	// StatusEmptyOrError means no usable content could be obtained.
	StatusEmptyOrError Status = "EMPTY_OR_ERROR"
)

// Debug carries per-run diagnostics. It is informational only and not part
// of the stable contract.
type Debug struct {
	Stage            string `json:"stage"`
	ExtractedLength  int    `json:"extracted_length"`
	ExtractionMethod string `json:"extraction_method,omitempty"`
	StrongSignal     bool   `json:"strong_signal,omitempty"`
	WeakSignal       bool   `json:"weak_signal,omitempty"`
}

// Result is the pipeline's sole output artifact.
//
// Invariant: Status == StatusSuccess if and only if JDText is non-empty.
type Result struct {
	Status     Status `json:"status"`
	JDText     string `json:"jd_text"`
	Reason     string `json:"reason"`
	FinalURL   string `json:"final_url"`
	HTTPStatus int    `json:"http_status"`
	Debug      *Debug `json:"debug,omitempty"`

	// JDHTML is the winning strategy's source region HTML when one was
	// available. Used for markdown conversion at the API layer; empty on
	// non-success.
	JDHTML string `json:"-"`
}
