package quipbridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// NormalizedRequest is a single HTTP request relative to the provider origin.
// Endpoint is path plus query and doubles as the retry-counter key.
type NormalizedRequest struct {
	Method   string
	Endpoint string
	Headers  map[string]string
	Body     []byte
}

// NormalizedResponse carries the status, lower-cased headers and body of one attempt.
type NormalizedResponse struct {
	StatusCode int
	Headers    map[string]string
	Data       []byte
}

// Header looks up a response header case-insensitively.
func (r *NormalizedResponse) Header(key string) (string, bool) {
	if r == nil || r.Headers == nil {
		return "", false
	}
	v, ok := r.Headers[strings.ToLower(key)]
	return v, ok
}

// NormalizedRateLimitInfo holds the user and company quotas Quip reports.
// Reset instants are in milliseconds since the epoch.
type NormalizedRateLimitInfo struct {
	MaxRequests       *int
	RemainingRequests *int
	ResetRequestsAt   *int64

	CompanyMaxRequests       *int
	CompanyRemainingRequests *int
	CompanyResetRequestsAt   *int64
}

// Result is the payload of a successful call. Value holds the decoded JSON
// document for JSON calls and is nil for binary calls.
type Result struct {
	StatusCode int
	Binary     bool
	Data       []byte
	Value      any
}

var errBinaryDecode = errors.New("quipbridge: binary result cannot be decoded as JSON")

// Decode unmarshals the raw JSON body into v.
func (r *Result) Decode(v any) error {
	if r.Binary {
		return errBinaryDecode
	}
	return json.Unmarshal(r.Data, v)
}

func decodeJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	// Quip timestamps are microseconds; keep them exact.
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
