package internal

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		want   time.Duration
		wantOK bool
	}{
		{name: "numeric seconds", value: "2", want: 2 * time.Second, wantOK: true},
		{name: "zero seconds", value: "0", want: 0, wantOK: true},
		{name: "surrounding spaces", value: " 30 ", want: 30 * time.Second, wantOK: true},
		{name: "future http date", value: testNow.Add(90 * time.Second).Format(http.TimeFormat), want: 90 * time.Second, wantOK: true},
		{name: "past http date clamps to zero", value: testNow.Add(-time.Hour).Format(http.TimeFormat), want: 0, wantOK: true},
		{name: "rfc850 date", value: testNow.Add(5 * time.Second).Format(time.RFC850), want: 5 * time.Second, wantOK: true},
		{name: "empty", value: "", wantOK: false},
		{name: "negative number is not numeric", value: "-5", wantOK: false},
		{name: "fractional seconds", value: "1.5", wantOK: false},
		{name: "garbage", value: "soon", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRetryAfter(tt.value, testNow)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseResetEpoch(t *testing.T) {
	t.Run("future reset", func(t *testing.T) {
		value := "1709294430" // testNow + 30s
		got, ok := ParseResetEpoch(value, testNow)
		assert.True(t, ok)
		assert.Equal(t, 30*time.Second, got)
	})

	t.Run("reset equal to now", func(t *testing.T) {
		_, ok := ParseResetEpoch("1709294400", testNow)
		assert.False(t, ok)
	})

	t.Run("past reset", func(t *testing.T) {
		_, ok := ParseResetEpoch("1000", testNow)
		assert.False(t, ok)
	})

	t.Run("not a number", func(t *testing.T) {
		_, ok := ParseResetEpoch("tomorrow", testNow)
		assert.False(t, ok)
	})
}

func TestIsInFuture(t *testing.T) {
	assert.True(t, IsInFuture(time.Now().Add(time.Minute).UnixMilli()))
	assert.False(t, IsInFuture(time.Now().Add(-time.Minute).UnixMilli()))
	assert.Equal(t, int64(5000), UnixToMs(5))
}
