// Package mock provides a scripted ProviderAdapter for exercising the call
// engine without a network.
package mock

import (
	"context"
	"net/http"
	"strings"
	"sync"

	quipbridge "github.com/opengovern/quip-bridge"
	"github.com/opengovern/quip-bridge/adapters"
)

// Step is one scripted attempt outcome. A non-nil Err simulates a transport failure.
type Step struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Err        error
}

// Status returns a step with the given status and alternating header key/value pairs.
func Status(code int, headerKV ...string) Step {
	h := make(map[string]string, len(headerKV)/2)
	for i := 0; i+1 < len(headerKV); i += 2 {
		h[strings.ToLower(headerKV[i])] = headerKV[i+1]
	}
	return Step{StatusCode: code, Headers: h}
}

// JSON returns a 200 step with body.
func JSON(body string) Step {
	return Step{StatusCode: http.StatusOK, Headers: map[string]string{"content-type": "application/json"}, Body: []byte(body)}
}

// Blob returns a 200 step with a binary body.
func Blob(data []byte) Step {
	return Step{StatusCode: http.StatusOK, Headers: map[string]string{"content-type": "application/octet-stream"}, Body: data}
}

// Fail returns a step that fails at the transport level.
func Fail(err error) Step {
	return Step{Err: err}
}

// Repeat returns n copies of step.
func Repeat(step Step, n int) []Step {
	out := make([]Step, n)
	for i := range out {
		out[i] = step
	}
	return out
}

// Adapter replays scripted steps per endpoint. Once a script runs out, its
// last step repeats. Unscripted endpoints answer 404.
type Adapter struct {
	mu       sync.Mutex
	scripts  map[string][]Step
	calls    map[string]int
	requests []quipbridge.NormalizedRequest
}

var _ quipbridge.ProviderAdapter = (*Adapter)(nil)

func New() *Adapter {
	return &Adapter{
		scripts: make(map[string][]Step),
		calls:   make(map[string]int),
	}
}

// On appends steps to the script for endpoint.
func (m *Adapter) On(endpoint string, steps ...Step) *Adapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[endpoint] = append(m.scripts[endpoint], steps...)
	return m
}

// Calls returns how many attempts hit endpoint.
func (m *Adapter) Calls(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[endpoint]
}

// Requests returns a copy of every request received, in order.
func (m *Adapter) Requests() []quipbridge.NormalizedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]quipbridge.NormalizedRequest(nil), m.requests...)
}

func (m *Adapter) ExecuteRequest(ctx context.Context, req *quipbridge.NormalizedRequest) (*quipbridge.NormalizedResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	n := m.calls[req.Endpoint]
	m.calls[req.Endpoint] = n + 1
	m.requests = append(m.requests, *req)
	script := m.scripts[req.Endpoint]
	m.mu.Unlock()

	if len(script) == 0 {
		return &quipbridge.NormalizedResponse{
			StatusCode: http.StatusNotFound,
			Headers:    map[string]string{},
			Data:       []byte(`{"error":"Not found"}`),
		}, nil
	}
	if n >= len(script) {
		n = len(script) - 1
	}
	step := script[n]
	if step.Err != nil {
		return nil, step.Err
	}

	headers := make(map[string]string, len(step.Headers))
	for k, v := range step.Headers {
		headers[strings.ToLower(k)] = v
	}
	return &quipbridge.NormalizedResponse{
		StatusCode: step.StatusCode,
		Headers:    headers,
		Data:       step.Body,
	}, nil
}

func (m *Adapter) ParseRateLimitInfo(resp *quipbridge.NormalizedResponse) (*quipbridge.NormalizedRateLimitInfo, error) {
	return adapters.ParseQuipRateLimitHeaders(resp.Headers), nil
}

func (m *Adapter) IsRateLimitError(resp *quipbridge.NormalizedResponse) bool {
	return resp.StatusCode == http.StatusTooManyRequests
}

func (m *Adapter) IsServiceUnavailable(resp *quipbridge.NormalizedResponse) bool {
	return resp.StatusCode == http.StatusServiceUnavailable
}
