package audit

import (
	"context"
	"sync"
)

// Outcome pairs one batch URL with its report or input error.
type Outcome struct {
	URL    string
	Report Report
	Err    error
}

// RunBatch audits independent URLs with at most concurrency runs in flight.
// Results come back in input order. Runs share no state, so each failure is
// confined to its own Outcome.
func RunBatch(ctx context.Context, auditor *Auditor, urls []string, concurrency int) []Outcome {
	if concurrency <= 0 {
		concurrency = 1
	}
	outcomes := make([]Outcome, len(urls))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			report, err := auditor.Audit(ctx, u)
			outcomes[i] = Outcome{URL: u, Report: report, Err: err}
		}(i, u)
	}
	wg.Wait()
	return outcomes
}
