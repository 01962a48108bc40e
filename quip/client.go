// Package quip exposes the Quip Automation API resources on top of the
// resilient call engine. Every method records one usage count and makes one
// logical call; retries on 429 and 503 happen inside the engine.
package quip

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	quipbridge "github.com/opengovern/quip-bridge"
	"github.com/opengovern/quip-bridge/adapters"
	"github.com/opengovern/quip-bridge/logger"
)

var (
	ErrMissingToken = errors.New("quip: api token is required")
	ErrMissingID    = errors.New("quip: id is required")
)

// Client is safe for concurrent use.
type Client struct {
	adapter quipbridge.ProviderAdapter
	bridge  *quipbridge.Bridge
	logger  logger.Logger
	usage   *UsageStats
	now     func() time.Time
}

// New builds a client authenticating with token.
func New(token string, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}

	adapter := cfg.adapter
	if adapter == nil {
		if strings.TrimSpace(token) == "" {
			return nil, ErrMissingToken
		}
		adapter = adapters.NewQuipAdapter(token,
			adapters.WithBaseURL(cfg.baseURL),
			adapters.WithHTTPClient(cfg.httpClient),
			adapters.WithRequestsPerSecond(cfg.rps, cfg.burst),
		)
	}

	bridgeOpts := append([]quipbridge.Option{quipbridge.WithLogger(cfg.logger)}, cfg.bridgeOpts...)
	return &Client{
		adapter: adapter,
		bridge:  quipbridge.NewBridge(adapter, cfg.provider, bridgeOpts...),
		logger:  cfg.logger,
		usage:   newUsageStats(),
		now:     time.Now,
	}, nil
}

// MessageListOptions narrows GetThreadMessages. Zero values are omitted.
type MessageListOptions struct {
	Count          int
	MaxCreatedUsec int64
}

func (o *MessageListOptions) query() string {
	if o == nil {
		return ""
	}
	q := url.Values{}
	if o.Count > 0 {
		q.Set("count", strconv.Itoa(o.Count))
	}
	if o.MaxCreatedUsec > 0 {
		q.Set("max_created_usec", strconv.FormatInt(o.MaxCreatedUsec, 10))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) GetThread(ctx context.Context, id string) (*quipbridge.Result, error) {
	return c.getJSON(ctx, OpGetThread, "/threads/%s", id)
}

// GetThreads fetches several threads at once; the result maps id to thread.
func (c *Client) GetThreads(ctx context.Context, ids ...string) (*quipbridge.Result, error) {
	return c.getJSONList(ctx, OpGetThreads, "/threads/", ids)
}

func (c *Client) GetFolder(ctx context.Context, id string) (*quipbridge.Result, error) {
	return c.getJSON(ctx, OpGetFolder, "/folders/%s", id)
}

// GetFolders fetches several folders at once; the result maps id to folder.
func (c *Client) GetFolders(ctx context.Context, ids ...string) (*quipbridge.Result, error) {
	return c.getJSONList(ctx, OpGetFolders, "/folders/", ids)
}

// GetThreadMessages lists messages on a thread, newest first. opts may be nil.
func (c *Client) GetThreadMessages(ctx context.Context, threadID string, opts *MessageListOptions) (*quipbridge.Result, error) {
	c.usage.record(OpGetThreadMessages)
	if threadID == "" {
		return nil, ErrMissingID
	}
	return c.bridge.Call(ctx, "/messages/"+url.PathEscape(threadID)+opts.query(), http.MethodGet, false)
}

func (c *Client) GetUser(ctx context.Context, id string) (*quipbridge.Result, error) {
	return c.getJSON(ctx, OpGetUser, "/users/%s", id)
}

func (c *Client) GetCurrentUser(ctx context.Context) (*quipbridge.Result, error) {
	c.usage.record(OpGetCurrentUser)
	return c.bridge.Call(ctx, currentUserPath, http.MethodGet, false)
}

// GetBlob downloads an image or attachment embedded in a thread.
func (c *Client) GetBlob(ctx context.Context, threadID, blobID string) ([]byte, error) {
	c.usage.record(OpGetBlob)
	if threadID == "" || blobID == "" {
		return nil, ErrMissingID
	}
	return c.getBinary(ctx, "/blob/"+url.PathEscape(threadID)+"/"+url.PathEscape(blobID))
}

func (c *Client) ExportPDF(ctx context.Context, threadID string) ([]byte, error) {
	return c.export(ctx, OpExportPDF, threadID, "pdf")
}

func (c *Client) ExportDOCX(ctx context.Context, threadID string) ([]byte, error) {
	return c.export(ctx, OpExportDOCX, threadID, "docx")
}

func (c *Client) ExportXLSX(ctx context.Context, threadID string) ([]byte, error) {
	return c.export(ctx, OpExportXLSX, threadID, "xlsx")
}

// Usage returns the per-operation call counters.
func (c *Client) Usage() *UsageStats { return c.usage }

// EngineStats returns attempt-level counters from the call engine.
func (c *Client) EngineStats() quipbridge.Stats { return c.bridge.Stats() }

// RateLimitInfo returns the quota Quip last reported, or nil.
func (c *Client) RateLimitInfo() *quipbridge.NormalizedRateLimitInfo {
	return c.bridge.GetRateLimitInfo()
}

// Bridge exposes the underlying engine for raw calls.
func (c *Client) Bridge() *quipbridge.Bridge { return c.bridge }

func (c *Client) getJSON(ctx context.Context, op, pathFmt, id string) (*quipbridge.Result, error) {
	c.usage.record(op)
	if id == "" {
		return nil, ErrMissingID
	}
	return c.bridge.Call(ctx, fmt.Sprintf(pathFmt, url.PathEscape(id)), http.MethodGet, false)
}

func (c *Client) getJSONList(ctx context.Context, op, path string, ids []string) (*quipbridge.Result, error) {
	c.usage.record(op)
	escaped := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, ErrMissingID
		}
		escaped = append(escaped, url.QueryEscape(id))
	}
	if len(escaped) == 0 {
		return nil, ErrMissingID
	}
	return c.bridge.Call(ctx, path+"?ids="+strings.Join(escaped, ","), http.MethodGet, false)
}

func (c *Client) export(ctx context.Context, op, threadID, format string) ([]byte, error) {
	c.usage.record(op)
	if threadID == "" {
		return nil, ErrMissingID
	}
	return c.getBinary(ctx, "/threads/"+url.PathEscape(threadID)+"/export/"+format)
}

func (c *Client) getBinary(ctx context.Context, path string) ([]byte, error) {
	res, err := c.bridge.Call(ctx, path, http.MethodGet, true)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}
