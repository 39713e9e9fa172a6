// Package verify confirms that a candidate asset URL is actually reachable
// before it is offered to the requester. Verification failure is data, not an
// error: any timeout, network failure or non-success status simply yields
// false.
package verify

import (
	"context"
	"time"

	"moviesearch/internal/fetch"
	"moviesearch/internal/metrics"
)

const defaultTimeout = 8 * time.Second

type Verifier struct {
	client  *fetch.Client
	timeout time.Duration
}

func New(client *fetch.Client, timeout time.Duration) *Verifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Verifier{client: client, timeout: timeout}
}

// Verify performs a lightweight existence check (HEAD, no body download).
func (v *Verifier) Verify(ctx context.Context, url string) bool {
	result, err := v.client.Head(ctx, url, v.timeout)
	if err != nil {
		metrics.VerificationChecksTotal.WithLabelValues("error").Inc()
		return false
	}
	if !result.OK() {
		metrics.VerificationChecksTotal.WithLabelValues("dead").Inc()
		return false
	}
	metrics.VerificationChecksTotal.WithLabelValues("ok").Inc()
	return true
}
