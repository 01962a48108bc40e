// internal/time_parser.go
// ------------------------
// This internal package provides helper functions for turning the time hints
// Quip sends in response headers into wait durations.
//
// Functions:
// - ParseRetryAfter: Convert a retry-after value (seconds or HTTP-date) into a wait.
// - ParseResetEpoch: Convert an epoch-seconds reset value into a wait, if it lies ahead.
// - UnixToMs: Convert a UNIX timestamp in seconds to milliseconds.
// - IsInFuture: Check if a given timestamp (ms) is in the future.
package internal

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ParseRetryAfter converts a retry-after header value into a wait duration
// relative to now. A purely numeric value is read as seconds; anything else
// is read as an HTTP-date. Dates in the past yield a zero wait. The boolean is
// false when the value is empty or cannot be parsed.
func ParseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if isDigits(value) {
		sec, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, false
		}
		return time.Duration(sec) * time.Second, true
	}

	// http.ParseTime accepts RFC 1123, RFC 850 and ANSI C layouts.
	at, err := http.ParseTime(value)
	if err != nil {
		return 0, false
	}
	wait := at.Sub(now)
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

// ParseResetEpoch converts an epoch-seconds reset value into the wait until
// that instant. The boolean is false when the value cannot be parsed or the
// instant is not after now.
func ParseResetEpoch(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	sec, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	resetAt := time.UnixMilli(UnixToMs(sec))
	if !resetAt.After(now) {
		return 0, false
	}
	return resetAt.Sub(now), true
}

// UnixToMs converts a UNIX timestamp in seconds to milliseconds.
func UnixToMs(timestamp int64) int64 {
	return timestamp * 1000
}

// IsInFuture checks if a timestamp (in ms) is in the future relative to the current time.
func IsInFuture(ms int64) bool {
	return ms > time.Now().UnixMilli()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
