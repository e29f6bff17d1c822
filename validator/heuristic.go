// Package validator decides whether extracted text is actually a job
// posting, combining fast keyword heuristics with an AI-backed classifier.
package validator

import "strings"

const (
	// minStrongChars is the shortest text accepted with strong keyword
	// support.
	minStrongChars = 50

	// minWeakChars is the floor for the weak signal, below which text is
	// too thin to even bother classifying.
	minWeakChars = 100

	// lengthOverrideChars accepts long text with minimal vocabulary
	// overlap: noise dilutes keyword density in long real postings.
	lengthOverrideChars = 300
)

// jobKeywords is the fixed vocabulary scanned for heuristic scoring. Each
// keyword counts at most once, as a case-insensitive substring match.
var jobKeywords = []string{
	"responsibilities", "qualifications", "requirements", "required",
	"salary", "benefits", "experience", "apply", "candidate",
	"remote", "full-time", "part-time", "contract", "position",
	"skills", "education", "degree", "location", "hybrid",
}

// CountKeywords returns how many vocabulary terms appear in the text.
func CountKeywords(text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range jobKeywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}

// HasStrongSignal reports whether the text alone is convincing as a job
// posting: either two keywords in at least minimal text, or one keyword in
// text long enough that the length-override rule applies.
func HasStrongSignal(text string) bool {
	if len(text) < minStrongChars {
		return false
	}
	count := CountKeywords(text)
	return (count >= 2 && len(text) >= minStrongChars) ||
		(count >= 1 && len(text) >= lengthOverrideChars)
}

// HasWeakSignal reports borderline candidates: some job vocabulary and
// enough length to be worth classifying, but not strong on their own.
// Weak signals feed logging and diagnostics; the AI classifier is
// authoritative either way.
func HasWeakSignal(text string) bool {
	if len(text) < minWeakChars {
		return false
	}
	return CountKeywords(text) >= 1 && !HasStrongSignal(text)
}
