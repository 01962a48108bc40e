// config.go
// ----------
// This file defines the ProviderConfig structure, which controls the retry
// behaviour of the call engine: the base wait used when the server gives no
// hint, one retry ceiling per failure class, the size of the per-endpoint
// counter tables and whether advertised quotas are respected proactively.
package quipbridge

import "time"

const (
	DefaultBaseWait        = 1000 * time.Millisecond
	DefaultMaxRetries      = 10
	DefaultCounterCapacity = 1024
)

// ProviderConfig allows customization of waits, ceilings and quota handling.
type ProviderConfig struct {
	// UseProviderLimits delays requests while the last response reported no
	// remaining quota and its reset instant lies ahead.
	UseProviderLimits bool

	MaxServiceUnavailableRetries int           // 503 ceiling per endpoint
	MaxRateLimitRetries          int           // 429 ceiling per endpoint
	BaseWait                     time.Duration // Wait used when the server gives no usable hint
	CounterCapacity              int           // Endpoints tracked per counter table
}

// DefaultProviderConfig returns the engine defaults.
func DefaultProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		MaxServiceUnavailableRetries: DefaultMaxRetries,
		MaxRateLimitRetries:          DefaultMaxRetries,
		BaseWait:                     DefaultBaseWait,
		CounterCapacity:              DefaultCounterCapacity,
	}
}

// withDefaults returns a copy with zero values replaced by defaults.
func (c *ProviderConfig) withDefaults() *ProviderConfig {
	out := DefaultProviderConfig()
	if c == nil {
		return out
	}
	out.UseProviderLimits = c.UseProviderLimits
	if c.MaxServiceUnavailableRetries > 0 {
		out.MaxServiceUnavailableRetries = c.MaxServiceUnavailableRetries
	}
	if c.MaxRateLimitRetries > 0 {
		out.MaxRateLimitRetries = c.MaxRateLimitRetries
	}
	if c.BaseWait > 0 {
		out.BaseWait = c.BaseWait
	}
	if c.CounterCapacity > 0 {
		out.CounterCapacity = c.CounterCapacity
	}
	return out
}
