package quipbridge

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallErrorMatchesSentinel(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		sentinel error
	}{
		{KindTransport, ErrTransport},
		{KindStatus, ErrUnexpectedStatus},
		{KindDecode, ErrDecode},
		{KindRetriesExhausted, ErrRetriesExhausted},
		{KindCanceled, ErrCanceled},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &CallError{Kind: tt.kind, Method: "GET", Endpoint: "/threads/abc"})
			assert.ErrorIs(t, err, tt.sentinel)
			for _, other := range tests {
				if other.kind != tt.kind {
					assert.NotErrorIs(t, err, other.sentinel)
				}
			}
		})
	}
}

func TestCallErrorMessage(t *testing.T) {
	err := &CallError{Kind: KindStatus, Method: "GET", Endpoint: "/threads/abc", StatusCode: 404}
	assert.Equal(t, "GET /threads/abc: unexpected status 404", err.Error())

	err = &CallError{Kind: KindRetriesExhausted, Method: "GET", Endpoint: "/folders/xyz", Class: ClassServiceUnavailable, Attempts: 11}
	assert.Equal(t, "GET /folders/xyz: retries exhausted (service_unavailable, 11 attempts)", err.Error())

	err = &CallError{Kind: KindCanceled, Method: "GET", Endpoint: "/users/current", Err: context.Canceled}
	assert.Equal(t, "GET /users/current: call canceled: context canceled", err.Error())
	assert.True(t, errors.Is(err, context.Canceled))
}
