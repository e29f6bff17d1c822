package extractor

import (
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// noiseSelectors match page chrome removed before the largest-block scan.
const noiseSelectors = "script, style, nav, header, footer, aside, .navigation, .menu, .sidebar"

// fromLargestBlock is the generic fallback for unknown site structures.
//
// It first lets the Readability algorithm locate the main content region;
// when that comes back too thin it falls back to scanning block-level
// containers for the single largest text block above the weak floor.
func (e *Extractor) fromLargestBlock(html, sourceURL string) *Attempt {
	if attempt := readabilityAttempt(html, sourceURL); attempt != nil {
		return attempt
	}
	return largestBlockAttempt(html)
}

func readabilityAttempt(html, sourceURL string) *Attempt {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil || parsedURL.Host == "" {
		return nil
	}
	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return nil
	}
	text := strings.TrimSpace(article.TextContent)
	if len(text) <= weakFloorChars {
		return nil
	}
	return &Attempt{Text: CleanText(text), HTML: article.Content}
}

func largestBlockAttempt(html string) *Attempt {
	doc := parse(html)
	if doc == nil {
		return nil
	}
	doc.Find(noiseSelectors).Remove()

	var largest *goquery.Selection
	maxLen := 0
	doc.Find("div, section, article").Each(func(_ int, el *goquery.Selection) {
		text := strings.TrimSpace(el.Text())
		if len(text) > maxLen && len(text) > weakFloorChars {
			maxLen = len(text)
			largest = el
		}
	})

	if largest == nil {
		return nil
	}
	regionHTML, _ := goquery.OuterHtml(largest)
	return &Attempt{Text: CleanText(largest.Text()), HTML: regionHTML}
}
