// quip_adapter.go
// ---------------
// This adapter integrates with the Quip Automation API.
//
// Key Points:
// - Every request goes to BaseURL + endpoint, default https://platform.quip.com:443/1.
// - The API token is sent as a bearer token through an oauth2 transport, and
//   every request carries a JSON content type.
// - 429 means the per-user or per-company quota is spent; Quip sends
//   retry-after. 503 means the service is overloaded; Quip sends
//   x-ratelimit-reset as epoch seconds.
// - Quota headers: x-ratelimit-limit / -remaining / -reset for the user and
//   x-company-ratelimit-limit / -remaining / -reset for the company.
// - Optionally, requests can be paced client-side with a token bucket.
package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	quipbridge "github.com/opengovern/quip-bridge"
	"github.com/opengovern/quip-bridge/internal"
)

const QuipDefaultBaseURL = "https://platform.quip.com:443/1"

type QuipAdapter struct {
	BaseURL  string
	APIToken string

	client  *http.Client
	limiter *rate.Limiter
}

var _ quipbridge.ProviderAdapter = (*QuipAdapter)(nil)

// QuipOption configures a QuipAdapter.
type QuipOption func(*QuipAdapter)

// WithBaseURL overrides the API origin.
func WithBaseURL(baseURL string) QuipOption {
	return func(q *QuipAdapter) {
		if baseURL != "" {
			q.BaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets the client whose transport, timeout and jar are used
// underneath the bearer-token transport.
func WithHTTPClient(hc *http.Client) QuipOption {
	return func(q *QuipAdapter) {
		if hc != nil {
			q.client = hc
		}
	}
}

// WithRequestsPerSecond paces outgoing attempts with a token bucket.
// A non-positive rps disables pacing.
func WithRequestsPerSecond(rps float64, burst int) QuipOption {
	return func(q *QuipAdapter) {
		if rps <= 0 {
			q.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		q.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewQuipAdapter(apiToken string, opts ...QuipOption) *QuipAdapter {
	q := &QuipAdapter{
		BaseURL:  QuipDefaultBaseURL,
		APIToken: apiToken,
		client:   &http.Client{},
	}
	for _, opt := range opts {
		opt(q)
	}

	base := q.client
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiToken, TokenType: "Bearer"})
	q.client = &http.Client{
		Transport:     &oauth2.Transport{Source: ts, Base: base.Transport},
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}
	return q
}

func (q *QuipAdapter) ExecuteRequest(ctx context.Context, req *quipbridge.NormalizedRequest) (*quipbridge.NormalizedResponse, error) {
	if q.limiter != nil {
		if err := q.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("pacing wait: %w", err)
		}
	}

	fullURL := q.BaseURL + req.Endpoint
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := q.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k, vals := range resp.Header {
		if len(vals) > 0 {
			headers[strings.ToLower(k)] = vals[0]
		}
	}

	return &quipbridge.NormalizedResponse{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Data:       data,
	}, nil
}

func (q *QuipAdapter) ParseRateLimitInfo(resp *quipbridge.NormalizedResponse) (*quipbridge.NormalizedRateLimitInfo, error) {
	return ParseQuipRateLimitHeaders(resp.Headers), nil
}

func (q *QuipAdapter) IsRateLimitError(resp *quipbridge.NormalizedResponse) bool {
	return resp.StatusCode == http.StatusTooManyRequests
}

func (q *QuipAdapter) IsServiceUnavailable(resp *quipbridge.NormalizedResponse) bool {
	return resp.StatusCode == http.StatusServiceUnavailable
}

// ParseQuipRateLimitHeaders extracts Quip's quota headers from lower-cased
// headers. It returns nil when none are present.
func ParseQuipRateLimitHeaders(h map[string]string) *quipbridge.NormalizedRateLimitInfo {
	parseInt := func(key string) *int {
		if val, ok := h[key]; ok {
			if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
				return &i
			}
		}
		return nil
	}

	parseUnixTimestamp := func(key string) *int64 {
		if val, ok := h[key]; ok {
			if ts, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
				ms := internal.UnixToMs(ts)
				return &ms
			}
		}
		return nil
	}

	info := &quipbridge.NormalizedRateLimitInfo{
		MaxRequests:              parseInt("x-ratelimit-limit"),
		RemainingRequests:        parseInt("x-ratelimit-remaining"),
		ResetRequestsAt:          parseUnixTimestamp("x-ratelimit-reset"),
		CompanyMaxRequests:       parseInt("x-company-ratelimit-limit"),
		CompanyRemainingRequests: parseInt("x-company-ratelimit-remaining"),
		CompanyResetRequestsAt:   parseUnixTimestamp("x-company-ratelimit-reset"),
	}

	if info.MaxRequests == nil && info.RemainingRequests == nil && info.ResetRequestsAt == nil &&
		info.CompanyMaxRequests == nil && info.CompanyRemainingRequests == nil && info.CompanyResetRequestsAt == nil {
		return nil
	}
	return info
}
