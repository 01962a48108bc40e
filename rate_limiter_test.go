package quipbridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int       { return &i }
func int64Ptr(i int64) *int64 { return &i }

func TestRateLimiterEmpty(t *testing.T) {
	r := NewRateLimiter()
	assert.Nil(t, r.GetRateLimitInfo())
	assert.True(t, r.canProceed())
	assert.Zero(t, r.delayBeforeNextRequest())
}

func TestRateLimiterMergesPartialUpdates(t *testing.T) {
	r := NewRateLimiter()
	r.UpdateRateLimits(&NormalizedRateLimitInfo{MaxRequests: intPtr(50), RemainingRequests: intPtr(49)})
	r.UpdateRateLimits(&NormalizedRateLimitInfo{RemainingRequests: intPtr(48)})
	r.UpdateRateLimits(nil)

	info := r.GetRateLimitInfo()
	require.NotNil(t, info)
	assert.Equal(t, 50, *info.MaxRequests)
	assert.Equal(t, 48, *info.RemainingRequests)
	assert.Nil(t, info.ResetRequestsAt)
}

func TestRateLimiterDelayWhenExhausted(t *testing.T) {
	r := NewRateLimiter()
	reset := time.Now().Add(2 * time.Second).UnixMilli()
	r.UpdateRateLimits(&NormalizedRateLimitInfo{RemainingRequests: intPtr(0), ResetRequestsAt: int64Ptr(reset)})

	assert.False(t, r.canProceed())
	d := r.delayBeforeNextRequest()
	assert.Greater(t, d, time.Duration(0))
	assert.LessOrEqual(t, d, 2*time.Second)
}

func TestRateLimiterCompanyQuotaTakesLaterReset(t *testing.T) {
	r := NewRateLimiter()
	now := time.Now()
	r.UpdateRateLimits(&NormalizedRateLimitInfo{
		RemainingRequests:        intPtr(0),
		ResetRequestsAt:          int64Ptr(now.Add(time.Second).UnixMilli()),
		CompanyRemainingRequests: intPtr(0),
		CompanyResetRequestsAt:   int64Ptr(now.Add(10 * time.Second).UnixMilli()),
	})

	assert.Greater(t, r.delayBeforeNextRequest(), 5*time.Second)
}

func TestRateLimiterPastResetProceeds(t *testing.T) {
	r := NewRateLimiter()
	r.UpdateRateLimits(&NormalizedRateLimitInfo{
		RemainingRequests: intPtr(0),
		ResetRequestsAt:   int64Ptr(time.Now().Add(-time.Second).UnixMilli()),
	})
	assert.True(t, r.canProceed())
}

func TestRateLimiterRemainingQuota(t *testing.T) {
	r := NewRateLimiter()
	r.UpdateRateLimits(&NormalizedRateLimitInfo{
		RemainingRequests: intPtr(3),
		ResetRequestsAt:   int64Ptr(time.Now().Add(time.Minute).UnixMilli()),
	})
	assert.True(t, r.canProceed())
}
