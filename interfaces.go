package quipbridge

import "context"

// ProviderAdapter defines the interface a transport must implement.
type ProviderAdapter interface {
	// ExecuteRequest performs one attempt. A non-nil error means the request
	// never produced an HTTP response.
	ExecuteRequest(ctx context.Context, req *NormalizedRequest) (*NormalizedResponse, error)
	ParseRateLimitInfo(resp *NormalizedResponse) (*NormalizedRateLimitInfo, error)
	IsRateLimitError(resp *NormalizedResponse) bool
	IsServiceUnavailable(resp *NormalizedResponse) bool
}
