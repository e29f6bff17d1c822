package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fromJSONLD assembles a job description from an embedded schema.org
// JobPosting block. This is the highest-priority strategy: structured data
// is purpose-built and low-noise.
func (e *Extractor) fromJSONLD(html, _ string) *Attempt {
	doc := parse(html)
	if doc == nil {
		return nil
	}

	var attempt *Attempt
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		posting := findJobPosting(s.Text())
		if posting == nil {
			// Malformed or unrelated block: skip it, keep scanning.
			return true
		}

		var parts []string
		if title := str(posting["title"]); title != "" {
			parts = append(parts, "Job Title: "+title)
		}
		if org, ok := posting["hiringOrganization"].(map[string]any); ok {
			if name := str(org["name"]); name != "" {
				parts = append(parts, "Company: "+name)
			}
		}
		for _, f := range []struct{ key, label string }{
			{"description", "Description"},
			{"responsibilities", "Responsibilities"},
			{"qualifications", "Qualifications"},
		} {
			if v := str(posting[f.key]); v != "" {
				parts = append(parts, fmt.Sprintf("\n%s:\n%s", f.label, v))
			}
		}
		if skills := str(posting["skills"]); skills != "" {
			parts = append(parts, "\nSkills: "+skills)
		}

		if len(parts) == 0 {
			return true
		}

		raw := strings.Join(parts, "\n")
		attempt = &Attempt{
			Text: CleanText(raw),
			// JobPosting descriptions commonly carry embedded HTML.
			HTML: raw,
		}
		return false
	})

	return attempt
}

// findJobPosting parses a JSON-LD payload and locates a JobPosting object,
// whether it is the top-level value, an element of a top-level array, or an
// entry in an @graph collection.
func findJobPosting(payload string) map[string]any {
	var parsed any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil
	}

	var scan func(v any) map[string]any
	scan = func(v any) map[string]any {
		switch val := v.(type) {
		case map[string]any:
			if str(val["@type"]) == "JobPosting" {
				return val
			}
			if graph, ok := val["@graph"]; ok {
				return scan(graph)
			}
		case []any:
			for _, item := range val {
				if found := scan(item); found != nil {
					return found
				}
			}
		}
		return nil
	}
	return scan(parsed)
}

// str extracts a string value, tolerating absent or non-string fields.
func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
