package quip

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	quipbridge "github.com/opengovern/quip-bridge"
)

const (
	currentUserPath = "/users/current"

	// probeMaxAttempts bounds CheckUser's own 429 loop.
	probeMaxAttempts = 10
)

var errProbeRateLimited = errors.New("rate limited")

// hintedBackOff yields whatever wait the last 429 response asked for.
type hintedBackOff struct {
	next time.Duration
}

func (h *hintedBackOff) NextBackOff() time.Duration { return h.next }
func (h *hintedBackOff) Reset()                     { h.next = 0 }

// CheckUser reports whether the token is accepted by polling the current
// user. It retries only on 429, at most probeMaxAttempts times in total, and
// leaves the engine's retry counters untouched.
func (c *Client) CheckUser(ctx context.Context) bool {
	c.usage.record(OpCheckUser)

	baseWait := c.bridge.Config().BaseWait
	hint := &hintedBackOff{}
	policy := backoff.WithContext(backoff.WithMaxRetries(hint, probeMaxAttempts-1), ctx)
	req := &quipbridge.NormalizedRequest{Method: http.MethodGet, Endpoint: currentUserPath}

	attempt := 0
	op := func() error {
		attempt++
		resp, err := c.adapter.ExecuteRequest(ctx, req)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("request current user: %w", err))
		}
		switch {
		case quipbridge.IsSuccess(resp.StatusCode):
			return nil
		case c.adapter.IsRateLimitError(resp):
			hint.next = quipbridge.RateLimitWait(resp, c.now(), baseWait)
			return errProbeRateLimited
		default:
			return backoff.Permanent(fmt.Errorf("current user: status %d", resp.StatusCode))
		}
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Debug("User check rate limited, backing off", "attempt", attempt, "wait", wait)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		c.logger.Error("User check failed", err, "attempts", attempt)
		return false
	}
	return true
}
