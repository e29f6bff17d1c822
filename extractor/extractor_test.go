package extractor

import (
	"strings"
	"testing"

	"github.com/jobsift/jdextract/config"
)

func newExtractor() *Extractor {
	return New(config.ExtractConfig{})
}

const jsonLDFixture = `<html><head>
<script type="application/ld+json">
{"@type":"JobPosting","title":"Backend Engineer",
 "hiringOrganization":{"@type":"Organization","name":"Acme"},
 "description":"Build APIs and distributed systems for our payments platform. You will own services end to end."}
</script>
</head><body><div>tiny</div></body></html>`

func TestRun_JSONLDStrategy(t *testing.T) {
	attempt := newExtractor().Run(jsonLDFixture, "https://example.com/job/1")
	if attempt == nil {
		t.Fatal("expected an attempt, got nil")
	}
	if attempt.Method != "json-ld" {
		t.Errorf("Method = %q, want json-ld", attempt.Method)
	}
	if !strings.Contains(attempt.Text, "Backend Engineer") || !strings.Contains(attempt.Text, "Build APIs") {
		t.Errorf("Text missing expected content: %q", attempt.Text)
	}
	if !strings.Contains(attempt.Text, "Company: Acme") {
		t.Errorf("Text missing organization: %q", attempt.Text)
	}
}

func TestRun_JSONLDBeatsLargerTextBlock(t *testing.T) {
	filler := strings.Repeat("unrelated website commentary with plenty of text in it. ", 40)
	html := `<html><head>
<script type="application/ld+json">{"@type":"JobPosting","title":"Backend Engineer","description":"Build APIs and services. Design schemas. Review code and mentor."}</script>
</head><body><div id="noise">` + filler + `</div></body></html>`

	attempt := newExtractor().Run(html, "")
	if attempt == nil {
		t.Fatal("expected an attempt, got nil")
	}
	if attempt.Method != "json-ld" {
		t.Errorf("Method = %q, want json-ld to win over heuristic", attempt.Method)
	}
}

func TestRun_JSONLDGraphAndMalformedBlocks(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{not valid json</script>
<script type="application/ld+json">{"@graph":[{"@type":"WebSite"},{"@type":"JobPosting","title":"Data Engineer","description":"Maintain pipelines feeding the analytics warehouse, on-call one week a month."}]}</script>
</head><body></body></html>`

	attempt := newExtractor().Run(html, "")
	if attempt == nil {
		t.Fatal("malformed block must not abort the strategy")
	}
	if attempt.Method != "json-ld" || !strings.Contains(attempt.Text, "Data Engineer") {
		t.Errorf("unexpected attempt: %+v", attempt)
	}
}

func TestRun_SemanticStrategy(t *testing.T) {
	body := strings.Repeat("We are hiring a platform engineer to build tooling. ", 5)
	html := `<html><body>
<nav>Home | Jobs | About</nav>
<main><script>trackPageView()</script><p>` + body + `</p></main>
</body></html>`

	attempt := newExtractor().Run(html, "")
	if attempt == nil {
		t.Fatal("expected an attempt, got nil")
	}
	if attempt.Method != "semantic-html" {
		t.Errorf("Method = %q, want semantic-html", attempt.Method)
	}
	if strings.Contains(attempt.Text, "trackPageView") {
		t.Error("script content leaked into extracted text")
	}
}

func TestRun_ExtraSelectors(t *testing.T) {
	body := strings.Repeat("Senior engineer role with competitive salary and benefits. ", 4)
	html := `<html><body><div class="posting-body">` + body + `</div></body></html>`

	e := New(config.ExtractConfig{ExtraSelectors: []string{".posting-body", "!!!bad"}})
	attempt := e.Run(html, "")
	if attempt == nil {
		t.Fatal("expected an attempt via extra selector, got nil")
	}
	if attempt.Method != "semantic-html" {
		t.Errorf("Method = %q, want semantic-html", attempt.Method)
	}
}

func TestRun_HeuristicLargestBlock(t *testing.T) {
	big := strings.Repeat("Responsibilities include designing and operating backend services. ", 6)
	html := `<html><body>
<header>site chrome</header>
<div>short sidebar text</div>
<div id="content">` + big + `</div>
<footer>copyright</footer>
</body></html>`

	attempt := newExtractor().Run(html, "")
	if attempt == nil {
		t.Fatal("expected an attempt, got nil")
	}
	if attempt.Method != "heuristic" {
		t.Errorf("Method = %q, want heuristic", attempt.Method)
	}
	if strings.Contains(attempt.Text, "site chrome") || strings.Contains(attempt.Text, "copyright") {
		t.Errorf("chrome leaked into heuristic text: %q", attempt.Text)
	}
}

func TestRun_MetaTagsFallback(t *testing.T) {
	desc := strings.Repeat("Exciting opportunity for a frontend developer at a startup. ", 3)
	html := `<html><head><meta property="og:description" content="` + desc + `"></head><body></body></html>`

	attempt := newExtractor().Run(html, "")
	if attempt == nil {
		t.Fatal("expected an attempt, got nil")
	}
	if attempt.Method != "meta-tags" {
		t.Errorf("Method = %q, want meta-tags", attempt.Method)
	}
}

func TestRun_NothingAboveFloor(t *testing.T) {
	html := `<html><body><div>too short</div></body></html>`
	if attempt := newExtractor().Run(html, ""); attempt != nil {
		t.Errorf("expected nil attempt, got %+v", attempt)
	}
}

func TestRun_Deterministic(t *testing.T) {
	e := newExtractor()
	a := e.Run(jsonLDFixture, "https://example.com/job/1")
	b := e.Run(jsonLDFixture, "https://example.com/job/1")
	if a == nil || b == nil {
		t.Fatal("expected attempts from both runs")
	}
	if a.Method != b.Method || a.Text != b.Text {
		t.Errorf("extraction not deterministic: %+v vs %+v", a, b)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"tags stripped", "<p>hello <b>world</b></p>", "hello world"},
		{"entities decoded", "salary &amp; benefits&nbsp;included", "salary & benefits included"},
		{"whitespace collapsed", "a\t\t b   c", "a b c"},
		{"blank lines capped", "a\n\n\n\n\nb", "a\n\nb"},
		{"trimmed", "  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
