package extractor

import (
	"regexp"
	"strings"
)

var (
	reTags       = regexp.MustCompile(`<[^>]*>`)
	reSpaces     = regexp.MustCompile(`[ \t\r\f]+`)
	reBlankLines = regexp.MustCompile(`\n{3,}`)
)

// entityReplacer decodes the entities that survive tag stripping in
// practice; full entity decoding is unnecessary for validation purposes.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// CleanText normalizes extracted text: residual tags stripped, common
// entities decoded, whitespace runs collapsed, consecutive blank lines
// capped at two, and the result trimmed.
func CleanText(text string) string {
	text = reTags.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	text = reSpaces.ReplaceAllString(text, " ")
	text = reBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
