package quipbridge

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/opengovern/quip-bridge/internal"
)

const (
	HeaderRetryAfter     = "retry-after"
	HeaderRateLimitReset = "x-ratelimit-reset"
)

// RequestExecutor runs one logical call: it sends the request, classifies the
// response, and on 429/503 waits and resends until success, a non-retryable
// outcome, or the per-endpoint ceiling for that failure class.
//
// Transport failures are returned without retry; only 429 and 503 are retried.
type RequestExecutor struct {
	bridge *Bridge
}

func NewRequestExecutor(bridge *Bridge) *RequestExecutor {
	return &RequestExecutor{bridge: bridge}
}

func (re *RequestExecutor) ExecuteWithRetry(ctx context.Context, req *NormalizedRequest, wantsBinary bool) (*Result, error) {
	b := re.bridge
	cfg := b.config
	key := req.Endpoint
	log := b.logger
	callID := uuid.NewString()

	// Counters only grow, so one call can retry each class at most ceiling times.
	maxAttempts := 1 + cfg.MaxServiceUnavailableRetries + cfg.MaxRateLimitRetries

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if cfg.UseProviderLimits {
			if delay := b.rateLimiter.delayBeforeNextRequest(); delay > 0 {
				log.Debug("Quota exhausted, waiting for reset", "call_id", callID, "endpoint", key, "wait", delay)
				if err := b.sleep(ctx, delay); err != nil {
					return nil, canceled(req, err)
				}
			}
		}

		log.Debug("Sending request", "call_id", callID, "method", req.Method, "endpoint", key, "attempt", attempt)
		b.stats.requests.Add(1)
		resp, err := b.adapter.ExecuteRequest(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, canceled(req, ctxErr)
			}
			b.stats.transportErrors.Add(1)
			log.Error("Request failed before a response was received", err, "call_id", callID, "method", req.Method, "endpoint", key)
			return nil, &CallError{Kind: KindTransport, Method: req.Method, Endpoint: key, Err: err}
		}

		if info, parseErr := b.adapter.ParseRateLimitInfo(resp); parseErr == nil && info != nil {
			b.rateLimiter.UpdateRateLimits(info)
		}

		switch {
		case IsSuccess(resp.StatusCode):
			b.stats.successes.Add(1)
			if attempt > 1 {
				log.Debug("Request succeeded after retries", "call_id", callID, "endpoint", key, "attempts", attempt)
			}
			return decodeResult(req, resp, wantsBinary)

		case b.adapter.IsServiceUnavailable(resp):
			b.stats.serviceUnavailable.Add(1)
			wait := ServiceUnavailableWait(resp, b.now(), cfg.BaseWait)
			if err := re.backOff(ctx, req, callID, ClassServiceUnavailable, wait); err != nil {
				return nil, err
			}

		case b.adapter.IsRateLimitError(resp):
			b.stats.rateLimited.Add(1)
			wait := RateLimitWait(resp, b.now(), cfg.BaseWait)
			if err := re.backOff(ctx, req, callID, ClassRateLimited, wait); err != nil {
				return nil, err
			}

		default:
			log.Debug("Non-retryable status", "call_id", callID, "method", req.Method, "endpoint", key, "status", resp.StatusCode)
			return nil, &CallError{Kind: KindStatus, Method: req.Method, Endpoint: key, StatusCode: resp.StatusCode}
		}
	}

	b.stats.exhausted.Add(1)
	return nil, &CallError{Kind: KindRetriesExhausted, Method: req.Method, Endpoint: key, Attempts: maxAttempts}
}

// backOff records a failure of class for the request's endpoint and either
// sleeps for wait or reports that the ceiling has been passed.
func (re *RequestExecutor) backOff(ctx context.Context, req *NormalizedRequest, callID string, class FailureClass, wait time.Duration) error {
	b := re.bridge
	counters, ceiling := b.countersFor(class)

	count := counters.Increment(req.Endpoint)
	if count > ceiling {
		b.stats.exhausted.Add(1)
		err := &CallError{Kind: KindRetriesExhausted, Method: req.Method, Endpoint: req.Endpoint, Class: class, Attempts: count}
		b.logger.Error("Retry ceiling reached, giving up", err, "call_id", callID, "endpoint", req.Endpoint, "class", string(class), "count", count, "ceiling", ceiling)
		return err
	}

	b.logger.Debug("Backing off before retry", "call_id", callID, "endpoint", req.Endpoint, "class", string(class), "count", count, "ceiling", ceiling, "wait", wait)
	if err := b.sleep(ctx, wait); err != nil {
		return canceled(req, err)
	}
	return nil
}

// ServiceUnavailableWait returns the wait until the x-ratelimit-reset instant
// when it lies ahead of now, or fallback otherwise.
func ServiceUnavailableWait(resp *NormalizedResponse, now time.Time, fallback time.Duration) time.Duration {
	if v, ok := resp.Header(HeaderRateLimitReset); ok {
		if wait, ok := internal.ParseResetEpoch(v, now); ok {
			return wait
		}
	}
	return fallback
}

// RateLimitWait derives the wait from retry-after: numeric values are seconds,
// anything else an HTTP-date whose past values clamp to zero. A missing or
// unparseable header yields fallback.
func RateLimitWait(resp *NormalizedResponse, now time.Time, fallback time.Duration) time.Duration {
	if v, ok := resp.Header(HeaderRetryAfter); ok {
		if wait, ok := internal.ParseRetryAfter(v, now); ok {
			return wait
		}
	}
	return fallback
}

func decodeResult(req *NormalizedRequest, resp *NormalizedResponse, wantsBinary bool) (*Result, error) {
	res := &Result{StatusCode: resp.StatusCode, Binary: wantsBinary, Data: resp.Data}
	if wantsBinary {
		return res, nil
	}
	v, err := decodeJSON(resp.Data)
	if err != nil {
		return nil, &CallError{Kind: KindDecode, Method: req.Method, Endpoint: req.Endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	res.Value = v
	return res, nil
}

func canceled(req *NormalizedRequest, err error) error {
	return &CallError{Kind: KindCanceled, Method: req.Method, Endpoint: req.Endpoint, Err: err}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsSuccess reports whether status is 2xx.
func IsSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

var errNilRequest = errors.New("quipbridge: nil request")
