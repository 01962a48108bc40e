// sdk.go
// ------
// The sdk.go file contains the core Bridge struct and its methods.
// This is the entry point for callers that want resilient access to a
// provider's REST API.
//
// Key functionalities include:
// - Initializing the engine with NewBridge()
// - Making requests via Call() and Request()
// - Inspecting retry counters, rate limit info and engine statistics
//
// The Bridge relies on a RateLimiter, two RetryCounters tables and a
// RequestExecutor to handle waiting and retries.
package quipbridge

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/opengovern/quip-bridge/logger"
)

type Bridge struct {
	adapter     ProviderAdapter
	config      *ProviderConfig
	logger      logger.Logger
	rateLimiter *RateLimiter
	executor    *RequestExecutor

	unavailableCounters *RetryCounters
	rateLimitedCounters *RetryCounters

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	stats engineStats
}

// Stats is a snapshot of engine counters. Requests counts HTTP attempts,
// so a call retried twice contributes three.
type Stats struct {
	Requests           uint64
	Successes          uint64
	RateLimited        uint64
	ServiceUnavailable uint64
	TransportErrors    uint64
	Exhausted          uint64
}

type engineStats struct {
	requests           atomic.Uint64
	successes          atomic.Uint64
	rateLimited        atomic.Uint64
	serviceUnavailable atomic.Uint64
	transportErrors    atomic.Uint64
	exhausted          atomic.Uint64
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logging collaborator. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithSleep replaces the function used to wait between attempts.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(b *Bridge) {
		if fn != nil {
			b.sleep = fn
		}
	}
}

// WithClock replaces the clock used to evaluate reset and retry-after hints.
func WithClock(fn func() time.Time) Option {
	return func(b *Bridge) {
		if fn != nil {
			b.now = fn
		}
	}
}

// NewBridge creates an engine in front of adapter. A nil config uses
// DefaultProviderConfig; zero fields fall back to their defaults.
func NewBridge(adapter ProviderAdapter, config *ProviderConfig, opts ...Option) *Bridge {
	cfg := config.withDefaults()
	b := &Bridge{
		adapter:             adapter,
		config:              cfg,
		logger:              logger.Nop,
		rateLimiter:         NewRateLimiter(),
		unavailableCounters: NewRetryCounters(cfg.CounterCapacity),
		rateLimitedCounters: NewRetryCounters(cfg.CounterCapacity),
		sleep:               sleepContext,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.executor = NewRequestExecutor(b)
	return b
}

// Call performs one logical request against path. JSON bodies are decoded
// unless wantsBinary is set. On failure the returned error is a *CallError.
func (b *Bridge) Call(ctx context.Context, path, method string, wantsBinary bool) (*Result, error) {
	if method == "" {
		method = http.MethodGet
	}
	return b.Request(ctx, &NormalizedRequest{Method: method, Endpoint: path}, wantsBinary)
}

// Request is Call for a fully specified request.
func (b *Bridge) Request(ctx context.Context, req *NormalizedRequest, wantsBinary bool) (*Result, error) {
	if req == nil {
		return nil, errNilRequest
	}
	return b.executor.ExecuteWithRetry(ctx, req, wantsBinary)
}

// Config returns a copy of the effective configuration.
func (b *Bridge) Config() ProviderConfig {
	return *b.config
}

// RetryCount returns the failures recorded for endpoint in class.
func (b *Bridge) RetryCount(class FailureClass, endpoint string) int {
	counters, _ := b.countersFor(class)
	if counters == nil {
		return 0
	}
	return counters.Count(endpoint)
}

// GetRateLimitInfo returns the latest quota reported by the provider.
func (b *Bridge) GetRateLimitInfo() *NormalizedRateLimitInfo {
	return b.rateLimiter.GetRateLimitInfo()
}

// Stats returns a snapshot of engine counters.
func (b *Bridge) Stats() Stats {
	return Stats{
		Requests:           b.stats.requests.Load(),
		Successes:          b.stats.successes.Load(),
		RateLimited:        b.stats.rateLimited.Load(),
		ServiceUnavailable: b.stats.serviceUnavailable.Load(),
		TransportErrors:    b.stats.transportErrors.Load(),
		Exhausted:          b.stats.exhausted.Load(),
	}
}

func (b *Bridge) countersFor(class FailureClass) (*RetryCounters, int) {
	switch class {
	case ClassServiceUnavailable:
		return b.unavailableCounters, b.config.MaxServiceUnavailableRetries
	case ClassRateLimited:
		return b.rateLimitedCounters, b.config.MaxRateLimitRetries
	}
	return nil, 0
}
