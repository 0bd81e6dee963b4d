package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowopt/siteaudit/internal/audit"
	"github.com/flowopt/siteaudit/internal/config"
)

// stubFetcher serves canned responses keyed by URL.
type stubFetcher struct {
	responses map[string]audit.FetchResponse
	failures  map[string]error
}

func (f *stubFetcher) Fetch(_ context.Context, rawURL string) (audit.FetchResponse, error) {
	if err, ok := f.failures[rawURL]; ok {
		return audit.FetchResponse{}, err
	}
	if resp, ok := f.responses[rawURL]; ok {
		return resp, nil
	}
	return audit.FetchResponse{}, &audit.FetchFailure{Kind: audit.FailureConnection, Err: context.Canceled}
}

func testConfig() config.Config {
	return config.Config{
		Audit: config.AuditConfig{
			TimeoutSeconds:   12,
			UserAgent:        audit.DefaultUserAgent,
			BatchConcurrency: 2,
			MaxBatchURLs:     3,
		},
		Server: config.ServerConfig{Port: 8080},
	}
}

func newTestServer(fetcher audit.Fetcher) *Server {
	auditor := audit.New(fetcher, audit.Config{}, nil)
	return NewServer(auditor, testConfig(), nil)
}

func okPage(finalURL, body string) audit.FetchResponse {
	return audit.FetchResponse{
		StatusCode: 200,
		FinalURL:   finalURL,
		Headers:    http.Header{},
		Body:       []byte(body),
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(&stubFetcher{})

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&stubFetcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRunAudit(t *testing.T) {
	fetcher := &stubFetcher{
		responses: map[string]audit.FetchResponse{
			"https://site.test":             okPage("https://site.test/", "<p>hello</p>"),
			"https://site.test/robots.txt":  okPage("https://site.test/robots.txt", "User-agent: *\n"),
			"https://site.test/sitemap.xml": okPage("https://site.test/sitemap.xml", "<urlset/>"),
		},
	}
	srv := newTestServer(fetcher)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/audits", strings.NewReader(`{"url":"site.test"}`))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var resp struct {
		GeneratedAt string       `json:"generated_at"`
		Report      audit.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.GeneratedAt)
	require.Equal(t, "https://site.test", resp.Report.InputURL)
	require.NotNil(t, resp.Report.HTTPStatus)
	require.Equal(t, 200, *resp.Report.HTTPStatus)
	// 60 +10 (2xx) +6 (sitemap)
	require.Equal(t, 76, resp.Report.Score)
}

func TestRunAuditUnreachable(t *testing.T) {
	fetcher := &stubFetcher{
		failures: map[string]error{
			"https://down.test": &audit.FetchFailure{Kind: audit.FailureDNS, Err: context.DeadlineExceeded},
		},
	}
	srv := newTestServer(fetcher)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/audits", strings.NewReader(`{"url":"down.test"}`))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "unreachable sites are a degraded report, not an API error")

	var resp struct {
		Report audit.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Nil(t, resp.Report.HTTPStatus)
	require.Equal(t, 0, resp.Report.Score)
}

func TestRunAuditBadRequests(t *testing.T) {
	srv := newTestServer(&stubFetcher{})

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"url":`},
		{name: "empty url", body: `{"url":"  "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/audits", strings.NewReader(tt.body))
			srv.Handler().ServeHTTP(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotEmpty(t, resp["error"])
		})
	}
}

func TestRunBatch(t *testing.T) {
	fetcher := &stubFetcher{
		responses: map[string]audit.FetchResponse{
			"https://a.test": okPage("https://a.test/", "<p>a</p>"),
		},
	}
	srv := newTestServer(fetcher)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/audits/batch",
		strings.NewReader(`{"urls":["a.test",""]}`))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []struct {
			URL    string        `json:"url"`
			Report *audit.Report `json:"report"`
			Error  string        `json:"error"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)

	require.NotNil(t, resp.Results[0].Report)
	require.Equal(t, "https://a.test", resp.Results[0].Report.InputURL)
	require.Empty(t, resp.Results[0].Error)

	require.Nil(t, resp.Results[1].Report)
	require.NotEmpty(t, resp.Results[1].Error)
}

func TestRunBatchLimits(t *testing.T) {
	srv := newTestServer(&stubFetcher{})

	tests := []struct {
		name string
		body string
	}{
		{name: "no urls", body: `{"urls":[]}`},
		{name: "too many urls", body: `{"urls":["a","b","c","d"]}`},
		{name: "invalid json", body: `{"urls"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/audits/batch", strings.NewReader(tt.body))
			srv.Handler().ServeHTTP(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
