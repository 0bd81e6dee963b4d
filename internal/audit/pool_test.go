package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunBatchKeepsInputOrder(t *testing.T) {
	fetcher := &stubFetcher{
		responses: map[string]FetchResponse{
			"https://a.test": okResponse("https://a.test/", "<p>a</p>"),
			"https://b.test": okResponse("https://b.test/", "<p>b</p>"),
		},
		failures: map[string]error{
			"https://c.test": &FetchFailure{Kind: FailureConnection, Err: context.DeadlineExceeded},
		},
	}
	auditor := New(fetcher, Config{}, nil)

	urls := []string{"https://a.test", "", "https://b.test", "https://c.test"}
	outcomes := RunBatch(context.Background(), auditor, urls, 2)

	require.Len(t, outcomes, 4)
	require.Equal(t, urls[0], outcomes[0].URL)
	require.NoError(t, outcomes[0].Err)
	require.Equal(t, "https://a.test", outcomes[0].Report.InputURL)

	require.ErrorIs(t, outcomes[1].Err, ErrEmptyURL)

	require.NoError(t, outcomes[2].Err)
	require.Equal(t, "https://b.test", outcomes[2].Report.InputURL)

	// Unreachable target is a completed degraded report, not an error.
	require.NoError(t, outcomes[3].Err)
	require.Equal(t, 0, outcomes[3].Report.Score)
}

func TestRunBatchZeroConcurrency(t *testing.T) {
	fetcher := &stubFetcher{
		responses: map[string]FetchResponse{
			"https://a.test": okResponse("https://a.test/", "<p>a</p>"),
		},
	}
	auditor := New(fetcher, Config{}, nil)

	outcomes := RunBatch(context.Background(), auditor, []string{"https://a.test"}, 0)
	require.Len(t, outcomes, 1)
	require.NoError(t, outcomes[0].Err)
}
