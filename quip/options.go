package quip

import (
	"net/http"

	quipbridge "github.com/opengovern/quip-bridge"
	"github.com/opengovern/quip-bridge/logger"
)

// Option configures a Client.
type Option func(*config)

type config struct {
	baseURL    string
	httpClient *http.Client
	rps        float64
	burst      int

	provider   *quipbridge.ProviderConfig
	logger     logger.Logger
	adapter    quipbridge.ProviderAdapter
	bridgeOpts []quipbridge.Option
}

func defaultConfig() *config {
	return &config{
		burst:  1,
		logger: logger.Nop,
	}
}

// WithBaseURL sets the API origin, e.g. https://platform.quip.com:443/1.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithHTTPClient sets the underlying HTTP client. The bearer-token transport
// wraps its Transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// WithRequestsPerSecond paces outgoing attempts client-side. Zero disables pacing.
func WithRequestsPerSecond(rps float64, burst int) Option {
	return func(c *config) {
		c.rps = rps
		if burst > 0 {
			c.burst = burst
		}
	}
}

// WithProviderConfig sets retry ceilings, base wait and counter capacity.
func WithProviderConfig(pc quipbridge.ProviderConfig) Option {
	return func(c *config) { c.provider = &pc }
}

// WithLogger sets the logger shared by the client and its engine.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithAdapter replaces the HTTP adapter. Base URL, HTTP client and pacing
// options are ignored when an adapter is supplied.
func WithAdapter(a quipbridge.ProviderAdapter) Option {
	return func(c *config) { c.adapter = a }
}

// WithBridgeOptions passes extra options to the underlying engine.
func WithBridgeOptions(opts ...quipbridge.Option) Option {
	return func(c *config) { c.bridgeOpts = append(c.bridgeOpts, opts...) }
}
