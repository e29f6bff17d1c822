package validator

import "strings"

// loginPhrases mark pages gated behind authentication. The scan is only
// consulted on rejection paths, to distinguish RESTRICTED from the other
// failure classifications; the success path never looks at it.
var loginPhrases = []string{
	"sign in to view", "login required", "members only",
	"create account", "join to see", "you must be logged in",
	"please log in", "authentication required", "access denied",
}

// DetectLoginWall scans raw HTML and extracted text for login-wall
// phrases, case-insensitive.
func DetectLoginWall(html, text string) bool {
	combined := strings.ToLower(html + " " + text)
	for _, phrase := range loginPhrases {
		if strings.Contains(combined, phrase) {
			return true
		}
	}
	return false
}
