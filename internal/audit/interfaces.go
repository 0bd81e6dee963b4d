package audit

import (
	"context"
	"fmt"
	"net/http"
)

// FetchResponse is the result of a successful HTTP GET, including responses
// with error statuses. FinalURL reflects the URL after redirects.
type FetchResponse struct {
	StatusCode    int
	FinalURL      string
	RedirectCount int
	Headers       http.Header
	Body          []byte
}

// FailureKind classifies a transport-level fetch failure. The distinction is
// only used for reason text, never for branching.
type FailureKind string

// Transport failure classes.
const (
	FailureTimeout    FailureKind = "timeout"
	FailureDNS        FailureKind = "name resolution failure"
	FailureTLS        FailureKind = "TLS failure"
	FailureConnection FailureKind = "connection failure"
)

// FetchFailure is returned by a Fetcher when no HTTP response was obtained.
type FetchFailure struct {
	Kind FailureKind
	Err  error
}

// Error implements the error interface.
func (f *FetchFailure) Error() string {
	return fmt.Sprintf("fetch failed (%s): %v", f.Kind, f.Err)
}

// Unwrap exposes the underlying transport error.
func (f *FetchFailure) Unwrap() error { return f.Err }

// Fetcher retrieves a URL following redirects. Implementations return a
// FetchResponse for any HTTP status and a *FetchFailure when the transport
// itself failed.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (FetchResponse, error)
}
