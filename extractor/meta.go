package extractor

// metaSelectors are probed in order; og:description is usually the most
// complete of the three.
var metaSelectors = []string{
	`meta[property="og:description"]`,
	`meta[name="description"]`,
	`meta[name="twitter:description"]`,
}

// fromMetaTags is the lowest-priority strategy: meta descriptions are
// usually truncated summaries, not full postings, but they are better than
// nothing on pages whose body never renders server-side.
func (e *Extractor) fromMetaTags(html, _ string) *Attempt {
	doc := parse(html)
	if doc == nil {
		return nil
	}

	for _, selector := range metaSelectors {
		content, exists := doc.Find(selector).First().Attr("content")
		if exists && len(content) > weakFloorChars {
			return &Attempt{Text: CleanText(content)}
		}
	}
	return nil
}
