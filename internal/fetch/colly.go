// Package fetch implements the audit.Fetcher collaborator using the Colly
// collector: one HTTP GET with redirect following, a per-request timeout and
// a configurable user-agent.
package fetch

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/flowopt/siteaudit/internal/audit"
)

// acceptHeader mirrors what a browser-ish audit client advertises. Some
// sites vary markup on it.
const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// maxRedirects caps the redirect chain; the last response is returned rather
// than an error so the audit still sees the 3xx status.
const maxRedirects = 10

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// CollyFetcher implements audit.Fetcher with a fresh Colly collector per
// request over a shared pooled transport. A fresh collector keeps the
// per-request redirect handler and callbacks isolated so concurrent batch
// fetches cannot race. Robots.txt is never enforced here; the audit reads it
// as a signal only.
type CollyFetcher struct {
	transport http.RoundTripper
	cfg       Config
	logger    *zap.Logger
}

// New constructs a configured Colly-based fetcher.
func New(cfg Config, logger *zap.Logger) *CollyFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 12 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = audit.DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CollyFetcher{
		transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          64,
			MaxIdleConnsPerHost:   8,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: cfg.Timeout,
			ForceAttemptHTTP2:     true,
		},
		cfg:    cfg,
		logger: logger,
	}
}

func (f *CollyFetcher) newCollector() *colly.Collector {
	collector := colly.NewCollector(
		colly.UserAgent(f.cfg.UserAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
	)
	collector.WithTransport(f.transport)
	collector.SetRequestTimeout(f.cfg.Timeout)
	return collector
}

// Fetch retrieves rawURL, following redirects. Any HTTP status yields a
// FetchResponse; only transport-level failures return an error, always as
// *audit.FetchFailure.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (audit.FetchResponse, error) {
	collector := f.newCollector()

	var (
		mu        sync.Mutex
		result    audit.FetchResponse
		gotResult bool
		fetchErr  error
		redirects int
	)

	collector.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		mu.Lock()
		redirects = len(via)
		mu.Unlock()
		if len(via) >= maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	})

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", acceptHeader)
	})

	collector.OnResponse(func(r *colly.Response) {
		headers := http.Header{}
		if r.Headers != nil {
			headers = r.Headers.Clone()
		}
		mu.Lock()
		result = audit.FetchResponse{
			StatusCode:    r.StatusCode,
			FinalURL:      r.Request.URL.String(),
			RedirectCount: redirects,
			Headers:       headers,
			Body:          append([]byte(nil), r.Body...),
		}
		gotResult = true
		mu.Unlock()
	})

	collector.OnError(func(_ *colly.Response, err error) {
		mu.Lock()
		if fetchErr == nil {
			fetchErr = err
		}
		mu.Unlock()
	})

	visitErr := f.visit(ctx, collector, rawURL)

	mu.Lock()
	defer mu.Unlock()
	if gotResult {
		return result, nil
	}
	err := fetchErr
	if err == nil {
		err = visitErr
	}
	if err == nil {
		err = errors.New("fetch produced no response")
	}
	f.logger.Debug("fetch failed", zap.String("url", rawURL), zap.Error(err))
	return audit.FetchResponse{}, &audit.FetchFailure{Kind: classify(err), Err: err}
}

// visit runs the collector while honoring context cancellation.
func (f *CollyFetcher) visit(ctx context.Context, collector *colly.Collector, rawURL string) error {
	done := make(chan error, 1)
	go func() {
		err := collector.Visit(rawURL)
		collector.Wait()
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
