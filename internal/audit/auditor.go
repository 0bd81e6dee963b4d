package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultUserAgent identifies the audit tool to target sites.
const DefaultUserAgent = "FlowOptSiteAudit/0.1 (+https://www.flowopt.nl)"

// unreachableRecommendation is used for the degraded fallback report.
const unreachableRecommendation = "Manual review (site unreachable from audit tool)"

// Config carries the per-run knobs the auditor passes to its fetcher and
// robots parser.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Auditor runs a full audit: main page fetch, robots/sitemap probes, signal
// extraction and scoring.
type Auditor struct {
	fetcher Fetcher
	cfg     Config
	logger  *zap.Logger
}

// New constructs an Auditor.
func New(fetcher Fetcher, cfg Config, logger *zap.Logger) *Auditor {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{fetcher: fetcher, cfg: cfg, logger: logger}
}

// Audit produces a Report for the given URL. The only error returned is
// input validation; every downstream network or parsing failure is absorbed
// into the report itself.
func (a *Auditor) Audit(ctx context.Context, rawURL string) (Report, error) {
	inputURL, err := NormalizeURL(rawURL)
	if err != nil {
		return Report{}, err
	}

	resp, err := a.fetcher.Fetch(ctx, inputURL)
	if err != nil {
		a.logger.Warn("main page unreachable", zap.String("url", inputURL), zap.Error(err))
		return a.unreachableReport(inputURL, err), nil
	}

	page := NewPage(resp.Body, resp.Headers, resp.FinalURL)

	status := resp.StatusCode
	signals := Signals{
		HTTPStatus:     &status,
		RedirectCount:  resp.RedirectCount,
		Robots:         a.probeRobots(ctx, resp.FinalURL),
		SitemapPresent: a.probeSitemap(ctx, resp.FinalURL),
		LoginForm:      DetectLoginForm(page),
		CaptchaHints:   DetectCaptchaHints(page),
		StructuredData: DetectStructuredData(page),
		Feed:           DetectFeed(page),
		APIHints:       DetectAPIHints(page),
		PlatformHints:  DetectPlatformHints(page),
	}

	score, reasons, warnings := Score(signals)

	return Report{
		InputURL:               inputURL,
		FinalURL:               resp.FinalURL,
		HTTPStatus:             signals.HTTPStatus,
		RedirectCount:          resp.RedirectCount,
		Score:                  score,
		Recommendation:         Recommend(signals),
		Robots:                 signals.Robots,
		SitemapPresent:         signals.SitemapPresent,
		LoginFormDetected:      signals.LoginForm,
		CaptchaHintsDetected:   signals.CaptchaHints,
		StructuredDataDetected: signals.StructuredData,
		FeedDetected:           signals.Feed,
		APIHintsDetected:       signals.APIHints,
		PlatformHints:          signals.PlatformHints,
		Reasons:                reasons,
		Warnings:               warnings,
	}, nil
}

// probeRobots fetches /robots.txt relative to the final URL. Any transport
// failure is treated as robots.txt being absent.
func (a *Auditor) probeRobots(ctx context.Context, baseURL string) RobotsInfo {
	robotsURL := resolveRelative(baseURL, "/robots.txt")
	resp, err := a.fetcher.Fetch(ctx, robotsURL)
	if err != nil {
		a.logger.Debug("robots probe failed", zap.String("url", robotsURL), zap.Error(err))
		return ParseRobots(0, nil, robotsURL, a.cfg.UserAgent)
	}
	return ParseRobots(resp.StatusCode, resp.Body, robotsURL, a.cfg.UserAgent)
}

// probeSitemap checks for a non-empty /sitemap.xml relative to the final URL.
func (a *Auditor) probeSitemap(ctx context.Context, baseURL string) bool {
	sitemapURL := resolveRelative(baseURL, "/sitemap.xml")
	resp, err := a.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		a.logger.Debug("sitemap probe failed", zap.String("url", sitemapURL), zap.Error(err))
		return false
	}
	return resp.StatusCode == 200 && strings.TrimSpace(string(resp.Body)) != ""
}

// unreachableReport synthesizes the degraded report used when the main page
// could not be fetched at all.
func (a *Auditor) unreachableReport(inputURL string, err error) Report {
	kind := FailureConnection
	var failure *FetchFailure
	if errors.As(err, &failure) {
		kind = failure.Kind
	}
	return Report{
		InputURL:       inputURL,
		FinalURL:       inputURL,
		HTTPStatus:     nil,
		RedirectCount:  0,
		Score:          0,
		Recommendation: unreachableRecommendation,
		Robots: RobotsInfo{
			URL:           resolveRelative(inputURL, "/robots.txt"),
			DisallowLines: []string{},
			RootAllowed:   true,
		},
		PlatformHints: []string{},
		Reasons:       []string{fmt.Sprintf("Request failed: %s", kind)},
		Warnings:      []string{"Site could not be reached from this environment."},
	}
}
