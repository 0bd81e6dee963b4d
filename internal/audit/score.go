package audit

import "fmt"

// baselineScore is the neutral starting point before any rule fires.
const baselineScore = 60

// ruleOutcome is what a single scoring rule contributes: a score delta plus
// an optional reason and warning line.
type ruleOutcome struct {
	delta   int
	reason  string
	warning string
}

// scoreRule evaluates one heuristic against the extracted signals. Rules are
// pure; the engine owns all accumulation.
type scoreRule func(s Signals) ruleOutcome

// scoreRules is evaluated in order. Order matters: reasons and warnings are
// appended in rule order, and the running total is only clamped once at the
// very end.
var scoreRules = []scoreRule{
	statusRule,
	redirectRule,
	robotsRule,
	sitemapRule,
	structuredDataRule,
	feedRule,
	apiHintsRule,
	loginFormRule,
	captchaRule,
	spaRule,
	cloudflareCaptchaRule,
}

func statusRule(s Signals) ruleOutcome {
	if s.HTTPStatus == nil {
		return ruleOutcome{delta: -15, reason: "Homepage status unknown"}
	}
	status := *s.HTTPStatus
	switch {
	case status >= 200 && status < 300:
		return ruleOutcome{delta: 10, reason: "Homepage reachable (2xx)"}
	case status >= 300 && status < 400:
		return ruleOutcome{delta: 5, reason: "Homepage reachable with redirect"}
	default:
		return ruleOutcome{delta: -15, reason: fmt.Sprintf("Homepage status %d", status)}
	}
}

func redirectRule(s Signals) ruleOutcome {
	if s.RedirectCount >= 3 {
		return ruleOutcome{delta: -3, warning: "Many redirects; may complicate automation."}
	}
	return ruleOutcome{}
}

func robotsRule(s Signals) ruleOutcome {
	if !s.Robots.Present {
		return ruleOutcome{reason: "robots.txt missing"}
	}
	out := ruleOutcome{reason: "robots.txt present"}
	if s.Robots.AnyDisallow {
		out.delta = -6
		out.warning = "robots.txt contains Disallow rules; review legality/ToS before scraping."
	}
	return out
}

func sitemapRule(s Signals) ruleOutcome {
	if s.SitemapPresent {
		return ruleOutcome{delta: 6, reason: "sitemap.xml present (good for discovery)"}
	}
	return ruleOutcome{}
}

func structuredDataRule(s Signals) ruleOutcome {
	if s.StructuredData {
		return ruleOutcome{delta: 8, reason: "Structured data detected (JSON-LD/microdata)"}
	}
	return ruleOutcome{}
}

func feedRule(s Signals) ruleOutcome {
	if s.Feed {
		return ruleOutcome{delta: 4, reason: "RSS/Atom feed detected"}
	}
	return ruleOutcome{}
}

func apiHintsRule(s Signals) ruleOutcome {
	if s.APIHints {
		return ruleOutcome{delta: 10, reason: "API/OpenAPI/Swagger hints detected"}
	}
	return ruleOutcome{}
}

func loginFormRule(s Signals) ruleOutcome {
	if s.LoginForm {
		return ruleOutcome{delta: -12, warning: "Login/password form detected; automation may require authenticated flows."}
	}
	return ruleOutcome{}
}

func captchaRule(s Signals) ruleOutcome {
	if s.CaptchaHints {
		return ruleOutcome{delta: -20, warning: "CAPTCHA/anti-bot hints detected; browser automation may be blocked."}
	}
	return ruleOutcome{}
}

func spaRule(s Signals) ruleOutcome {
	if s.HasPlatformHint(PlatformSPA) {
		return ruleOutcome{delta: -6, reason: "Likely SPA/heavy JS (browser automation more likely than scraping)"}
	}
	return ruleOutcome{}
}

// cloudflareCaptchaRule compounds the captcha penalty behind Cloudflare. It
// intentionally emits no message of its own.
func cloudflareCaptchaRule(s Signals) ruleOutcome {
	if s.HasPlatformHint(PlatformCloudflare) && s.CaptchaHints {
		return ruleOutcome{delta: -6}
	}
	return ruleOutcome{}
}

// Score folds the rule table over the signals, starting from the neutral
// baseline. The running total is clamped to [0,100] only after the last rule.
func Score(s Signals) (score int, reasons, warnings []string) {
	score = baselineScore
	reasons = []string{}
	warnings = []string{}
	for _, rule := range scoreRules {
		out := rule(s)
		score += out.delta
		if out.reason != "" {
			reasons = append(reasons, out.reason)
		}
		if out.warning != "" {
			warnings = append(warnings, out.warning)
		}
	}
	return clamp(score, 0, 100), reasons, warnings
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// recommendations is an ordered priority chain; the first predicate that
// matches wins.
var recommendations = []struct {
	when  func(Signals) bool
	label string
}{
	{
		when:  func(s Signals) bool { return s.CaptchaHints },
		label: "Prefer official API / partnership; if browser automation needed, expect anti-bot friction",
	},
	{
		when:  func(s Signals) bool { return s.APIHints },
		label: "Prefer API integration (or reverse-proxy internal automation); fallback to scraping if allowed",
	},
	{
		when:  func(s Signals) bool { return s.HasPlatformHint(PlatformSPA) },
		label: "Browser automation likely; scraping may be brittle",
	},
}

// defaultRecommendation applies when no higher-priority signal fired.
const defaultRecommendation = "Scraping + light automation likely feasible (validate robots/ToS)"

// Recommend derives the suggested automation approach from the signals.
func Recommend(s Signals) string {
	for _, r := range recommendations {
		if r.when(s) {
			return r.label
		}
	}
	return defaultRecommendation
}
