// retry_counter.go
// ----------------
// RetryCounters counts failed attempts per endpoint for one failure class.
// Counts live for the lifetime of the bridge and are never reset on success.
// The table is a bounded LRU so that a client touching an unbounded set of
// endpoints does not grow without limit; evicting a cold endpoint forgets its
// count.
package quipbridge

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// FailureClass names a retryable failure category.
type FailureClass string

const (
	ClassServiceUnavailable FailureClass = "service_unavailable"
	ClassRateLimited        FailureClass = "rate_limited"
)

type RetryCounters struct {
	mu     sync.Mutex
	counts *lru.Cache[string, int]
}

// NewRetryCounters creates a table holding at most capacity endpoints.
func NewRetryCounters(capacity int) *RetryCounters {
	if capacity <= 0 {
		capacity = DefaultCounterCapacity
	}
	// lru.New only fails for a non-positive size.
	counts, _ := lru.New[string, int](capacity)
	return &RetryCounters{counts: counts}
}

// Increment adds one failure for endpoint and returns the new count.
func (c *RetryCounters) Increment(endpoint string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, _ := c.counts.Get(endpoint)
	n++
	c.counts.Add(endpoint, n)
	return n
}

// Count returns the failures recorded for endpoint without touching recency.
func (c *RetryCounters) Count(endpoint string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, _ := c.counts.Peek(endpoint)
	return n
}

// Len returns the number of endpoints currently tracked.
func (c *RetryCounters) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts.Len()
}
