// rate_limiter.go
// ----------------
// This file defines the RateLimiter type, which stores the quota Quip last
// reported in its x-ratelimit-* and x-company-ratelimit-* headers.
//
// Responsibilities:
// - Storing the most recent NormalizedRateLimitInfo.
// - Checking if requests can proceed based on RemainingRequests and ResetRequestsAt.
// - Calculating the delay before the next request when the quota is exhausted.
//
// The engine only consults canProceed/delayBeforeNextRequest when
// ProviderConfig.UseProviderLimits is set; otherwise the info is kept for
// observability through Bridge.GetRateLimitInfo.
package quipbridge

import (
	"sync"
	"time"

	"github.com/opengovern/quip-bridge/internal"
)

type RateLimiter struct {
	mu   sync.Mutex
	info *NormalizedRateLimitInfo
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{}
}

// UpdateRateLimits merges freshly parsed info over what is stored. Fields the
// latest response did not carry keep their previous values.
func (r *RateLimiter) UpdateRateLimits(info *NormalizedRateLimitInfo) {
	if info == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.info == nil {
		r.info = &NormalizedRateLimitInfo{}
	}
	mergeInt(&r.info.MaxRequests, info.MaxRequests)
	mergeInt(&r.info.RemainingRequests, info.RemainingRequests)
	mergeInt64(&r.info.ResetRequestsAt, info.ResetRequestsAt)
	mergeInt(&r.info.CompanyMaxRequests, info.CompanyMaxRequests)
	mergeInt(&r.info.CompanyRemainingRequests, info.CompanyRemainingRequests)
	mergeInt64(&r.info.CompanyResetRequestsAt, info.CompanyResetRequestsAt)
}

// canProceed reports false while either quota is spent and its reset has not passed.
func (r *RateLimiter) canProceed() bool {
	return r.delayBeforeNextRequest() == 0
}

// delayBeforeNextRequest returns how long to wait until the latest exhausted
// quota resets, or zero if a request may go out now.
func (r *RateLimiter) delayBeforeNextRequest() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.info == nil {
		return 0
	}

	var resetAt int64
	if exhausted(r.info.RemainingRequests, r.info.ResetRequestsAt) {
		resetAt = *r.info.ResetRequestsAt
	}
	if exhausted(r.info.CompanyRemainingRequests, r.info.CompanyResetRequestsAt) && *r.info.CompanyResetRequestsAt > resetAt {
		resetAt = *r.info.CompanyResetRequestsAt
	}
	if resetAt == 0 {
		return 0
	}
	delay := time.Duration(resetAt-time.Now().UnixMilli()) * time.Millisecond
	if delay < 0 {
		return 0
	}
	return delay
}

// GetRateLimitInfo returns a copy of the stored info, or nil if none was seen.
func (r *RateLimiter) GetRateLimitInfo() *NormalizedRateLimitInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.info == nil {
		return nil
	}
	copyInfo := *r.info
	return &copyInfo
}

func exhausted(remaining *int, resetAt *int64) bool {
	return remaining != nil && *remaining <= 0 && resetAt != nil && internal.IsInFuture(*resetAt)
}

func mergeInt(dst **int, src *int) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func mergeInt64(dst **int64, src *int64) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
