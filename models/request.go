package models

// ExtractRequest is the payload for POST /api/v1/extract.
type ExtractRequest struct {
	// URL is the job posting to extract. Required.
	URL string `json:"url" binding:"required,url"`

	// Format controls the jd_text rendering in the response.
	// "text" (default) returns cleaned plain text only; "markdown"
	// additionally returns jd_markdown converted from the winning
	// strategy's region HTML.
	Format string `json:"format,omitempty" binding:"omitempty,oneof=text markdown"`

	// MaxAgeMs enables the result cache: a cached result younger than
	// this many milliseconds is returned without re-extracting.
	// 0 (default) bypasses the cache.
	MaxAgeMs int `json:"max_age_ms,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *ExtractRequest) Defaults() {
	if r.Format == "" {
		r.Format = "text"
	}
}
