package audit

import (
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page bundles everything the signal extractors need from the main fetch.
// Doc may be nil when the body could not be parsed; every extractor treats a
// nil document as absence of the signal.
type Page struct {
	HTML    string
	Doc     *goquery.Document
	Headers http.Header
	BaseURL *url.URL
}

// NewPage parses the fetched body into a Page. Parse failures degrade to a
// Page without a document rather than failing the audit.
func NewPage(body []byte, headers http.Header, finalURL string) Page {
	p := Page{HTML: string(body), Headers: headers}
	if u, err := url.Parse(finalURL); err == nil {
		p.BaseURL = u
	}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML)); err == nil {
		p.Doc = doc
	}
	return p
}

// DetectLoginForm reports whether the page contains a password input,
// suggesting an auth wall.
func DetectLoginForm(p Page) bool {
	if p.Doc == nil {
		return false
	}
	return p.Doc.Find("input[type='password']").Length() > 0
}

var captchaKeywords = []string{
	"captcha",
	"recaptcha",
	"hcaptcha",
	"cloudflare turnstile",
	"turnstile",
}

var captchaSrcSelectors = []string{
	"iframe[src*='recaptcha']",
	"script[src*='recaptcha']",
	"iframe[src*='hcaptcha']",
	"script[src*='hcaptcha']",
	"iframe[src*='turnstile']",
	"script[src*='turnstile']",
}

// DetectCaptchaHints looks for common anti-bot providers via keywords and
// embedded widget sources.
func DetectCaptchaHints(p Page) bool {
	lower := strings.ToLower(p.HTML)
	for _, kw := range captchaKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if p.Doc == nil {
		return false
	}
	for _, sel := range captchaSrcSelectors {
		if p.Doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

// DetectStructuredData reports JSON-LD script blocks or microdata itemscope
// attributes.
func DetectStructuredData(p Page) bool {
	if p.Doc == nil {
		return false
	}
	if p.Doc.Find("script[type='application/ld+json']").Length() > 0 {
		return true
	}
	return p.Doc.Find("[itemscope]").Length() > 0
}

// DetectFeed reports RSS/Atom autodiscovery links.
func DetectFeed(p Page) bool {
	if p.Doc == nil {
		return false
	}
	found := false
	p.Doc.Find("link[rel~='alternate']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
		if t == "application/rss+xml" || t == "application/atom+xml" {
			found = true
			return false
		}
		return true
	})
	return found
}

var apiKeywords = []string{
	"openapi",
	"swagger",
	"api/docs",
	"api-docs",
	"/graphql",
	"rest api",
}

var apiPathMarkers = []string{"swagger", "openapi", "api-docs", "graphql"}

var jsonURLRe = regexp.MustCompile(`(?i)https?://[^\s'"]+\.json`)

// DetectAPIHints looks for evidence of a programmatic interface: doc
// keywords, links to API documentation paths, or JSON endpoints referenced
// in the markup.
func DetectAPIHints(p Page) bool {
	lower := strings.ToLower(p.HTML)
	for _, kw := range apiKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	if p.Doc != nil && p.BaseURL != nil {
		found := false
		p.Doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			ref, err := url.Parse(s.AttrOr("href", ""))
			if err != nil {
				return true
			}
			path := strings.ToLower(p.BaseURL.ResolveReference(ref).Path)
			for _, marker := range apiPathMarkers {
				if strings.Contains(path, marker) {
					found = true
					return false
				}
			}
			return true
		})
		if found {
			return true
		}
	}

	return jsonURLRe.MatchString(p.HTML)
}

// Platform fingerprint vocabulary.
const (
	PlatformWordPress   = "WordPress"
	PlatformShopify     = "Shopify"
	PlatformWix         = "Wix"
	PlatformSquarespace = "Squarespace"
	PlatformCloudflare  = "Cloudflare"
	PlatformSPA         = "Likely SPA/heavy JS"
)

// SPA heuristic thresholds: many scripts with barely any visible text.
const (
	spaMinScripts = 25
	spaMaxTextLen = 600
)

// DetectPlatformHints fingerprints the hosting platform from headers, markup
// and the generator meta tag. The result is deduplicated and sorted.
func DetectPlatformHints(p Page) []string {
	hints := make(map[string]struct{})

	server := strings.ToLower(p.Headers.Get("Server"))
	powered := strings.ToLower(p.Headers.Get("X-Powered-By"))
	lower := strings.ToLower(p.HTML)

	generator := ""
	if p.Doc != nil {
		generator = strings.ToLower(p.Doc.Find("meta[name='generator']").AttrOr("content", ""))
	}

	if strings.Contains(generator, "wordpress") || strings.Contains(lower, "wp-content") {
		hints[PlatformWordPress] = struct{}{}
	}
	if strings.Contains(lower, "shopify") || strings.Contains(powered, "x-shopify") || strings.Contains(server, "shopify") {
		hints[PlatformShopify] = struct{}{}
	}
	if strings.Contains(lower, "wix") {
		hints[PlatformWix] = struct{}{}
	}
	if strings.Contains(lower, "squarespace") {
		hints[PlatformSquarespace] = struct{}{}
	}
	if strings.Contains(server, "cloudflare") || strings.Contains(lower, "cloudflare") {
		hints[PlatformCloudflare] = struct{}{}
	}

	if p.Doc != nil {
		scripts := p.Doc.Find("script").Length()
		textLen := len(visibleText(p.Doc))
		if scripts >= spaMinScripts && textLen < spaMaxTextLen {
			hints[PlatformSPA] = struct{}{}
		}
	}

	out := make([]string, 0, len(hints))
	for h := range hints {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// visibleText extracts the document text with whitespace collapsed to single
// spaces.
func visibleText(doc *goquery.Document) string {
	return strings.Join(strings.Fields(doc.Text()), " ")
}
