package extractor

import "github.com/PuerkitoBio/goquery"

// semanticSelectors are the built-in containers where job boards place the
// posting body, in probe order.
var semanticSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	".job-description",
	"#job-description",
	".description",
}

// fromSemanticHTML takes the first semantic container whose visible text
// clears the weak floor, with obvious chrome subtrees stripped.
func (e *Extractor) fromSemanticHTML(html, _ string) *Attempt {
	selectors := semanticSelectors
	if len(e.extraSelectors) > 0 {
		selectors = append(append([]string{}, semanticSelectors...), e.extraSelectors...)
	}

	for _, selector := range selectors {
		// Fresh parse per probe: Remove below mutates the tree.
		doc := parse(html)
		if doc == nil {
			return nil
		}
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		el.Find("script, style, nav, footer, .navigation").Remove()

		text := el.Text()
		if len(text) <= weakFloorChars {
			continue
		}

		regionHTML, _ := goquery.OuterHtml(el)
		return &Attempt{Text: CleanText(text), HTML: regionHTML}
	}
	return nil
}
