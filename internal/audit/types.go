// Package audit implements the automation-potential scoring engine: it
// extracts heuristic signals from a fetched page and folds them into a
// bounded 0-100 score plus a recommendation.
package audit

// RobotsInfo summarizes the /robots.txt probe for the audited site.
type RobotsInfo struct {
	URL           string   `json:"url"`
	Present       bool     `json:"present"`
	AnyDisallow   bool     `json:"any_disallow"`
	DisallowLines []string `json:"disallow_lines"`
	// RootAllowed reports whether the configured user-agent may fetch "/"
	// according to the parsed robots rules. Informational only; it never
	// influences the score. True when robots.txt is absent or unparseable.
	RootAllowed bool `json:"root_allowed"`
}

// Report is the sole output of an audit run. It is fully determined by the
// fetched content and headers and is never mutated after construction.
type Report struct {
	InputURL      string `json:"input_url"`
	FinalURL      string `json:"final_url"`
	HTTPStatus    *int   `json:"http_status"`
	RedirectCount int    `json:"redirect_count"`

	Score          int    `json:"score"`
	Recommendation string `json:"recommendation"`

	Robots         RobotsInfo `json:"robots"`
	SitemapPresent bool       `json:"sitemap_present"`

	LoginFormDetected      bool `json:"login_form_detected"`
	CaptchaHintsDetected   bool `json:"captcha_hints_detected"`
	StructuredDataDetected bool `json:"structured_data_detected"`
	FeedDetected           bool `json:"feed_detected"`
	APIHintsDetected       bool `json:"api_hints_detected"`

	PlatformHints []string `json:"platform_hints"`

	Reasons  []string `json:"reasons"`
	Warnings []string `json:"warnings"`
}

// Signals gathers every extracted fact the score engine consumes. The score
// rules read from this struct and never re-inspect the page.
type Signals struct {
	HTTPStatus    *int
	RedirectCount int

	Robots         RobotsInfo
	SitemapPresent bool

	LoginForm      bool
	CaptchaHints   bool
	StructuredData bool
	Feed           bool
	APIHints       bool

	PlatformHints []string
}

// HasPlatformHint reports whether the given fingerprint was emitted.
func (s Signals) HasPlatformHint(hint string) bool {
	for _, h := range s.PlatformHints {
		if h == hint {
			return true
		}
	}
	return false
}
