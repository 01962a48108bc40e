package adapters

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quipbridge "github.com/opengovern/quip-bridge"
)

const testToken = "test-token-123"

func TestQuipAdapterSendsBearerAndJSONHeaders(t *testing.T) {
	var gotAuth, gotContentType, gotPath, gotQuery, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotMethod = r.Method
		w.Header().Set("X-Ratelimit-Remaining", "42")
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer srv.Close()

	q := NewQuipAdapter(testToken, WithBaseURL(srv.URL+"/1"))
	resp, err := q.ExecuteRequest(context.Background(), &quipbridge.NormalizedRequest{
		Method:   http.MethodGet,
		Endpoint: "/threads/?ids=a,b",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer "+testToken, gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/1/threads/", gotPath)
	assert.Equal(t, "ids=a,b", gotQuery)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"id":"abc"}`, string(resp.Data))
	v, ok := resp.Header("X-RateLimit-Remaining")
	assert.True(t, ok)
	assert.Equal(t, "42", v)
}

func TestQuipAdapterKeepsCallerHeadersAndBody(t *testing.T) {
	var gotAccept, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	q := NewQuipAdapter(testToken, WithBaseURL(srv.URL))
	resp, err := q.ExecuteRequest(context.Background(), &quipbridge.NormalizedRequest{
		Method:   http.MethodPost,
		Endpoint: "/threads/edit-document",
		Headers:  map[string]string{"Accept": "application/pdf", "Content-Type": "application/x-www-form-urlencoded"},
		Body:     []byte("thread_id=abc"),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "application/pdf", gotAccept)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "thread_id=abc", gotBody)
}

func TestQuipAdapterTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	q := NewQuipAdapter(testToken, WithBaseURL(url))
	resp, err := q.ExecuteRequest(context.Background(), &quipbridge.NormalizedRequest{Method: http.MethodGet, Endpoint: "/users/current"})
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestQuipAdapterDefaults(t *testing.T) {
	q := NewQuipAdapter(testToken)
	assert.Equal(t, QuipDefaultBaseURL, q.BaseURL)
	assert.Nil(t, q.limiter)

	q = NewQuipAdapter(testToken, WithBaseURL("https://example.test/1/"))
	assert.Equal(t, "https://example.test/1", q.BaseURL)
}

func TestQuipAdapterKeepsCustomClientSettings(t *testing.T) {
	q := NewQuipAdapter(testToken, WithHTTPClient(&http.Client{Timeout: 7 * time.Second}))
	assert.Equal(t, 7*time.Second, q.client.Timeout)
}

func TestQuipAdapterPacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	// 20 rps with burst 1: three requests need at least ~100ms.
	q := NewQuipAdapter(testToken, WithBaseURL(srv.URL), WithRequestsPerSecond(20, 1))
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := q.ExecuteRequest(context.Background(), &quipbridge.NormalizedRequest{Method: http.MethodGet, Endpoint: "/users/current"})
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestQuipAdapterPacingHonoursContext(t *testing.T) {
	q := NewQuipAdapter(testToken, WithBaseURL("http://127.0.0.1:0"), WithRequestsPerSecond(0.001, 1))
	// Drain the single token.
	require.True(t, q.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := q.ExecuteRequest(ctx, &quipbridge.NormalizedRequest{Method: http.MethodGet, Endpoint: "/users/current"})
	assert.Error(t, err)
}

func TestQuipAdapterClassification(t *testing.T) {
	q := NewQuipAdapter(testToken)
	assert.True(t, q.IsRateLimitError(&quipbridge.NormalizedResponse{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, q.IsRateLimitError(&quipbridge.NormalizedResponse{StatusCode: http.StatusServiceUnavailable}))
	assert.True(t, q.IsServiceUnavailable(&quipbridge.NormalizedResponse{StatusCode: http.StatusServiceUnavailable}))
	assert.False(t, q.IsServiceUnavailable(&quipbridge.NormalizedResponse{StatusCode: http.StatusInternalServerError}))
}

func TestParseQuipRateLimitHeaders(t *testing.T) {
	t.Run("user and company quotas", func(t *testing.T) {
		info := ParseQuipRateLimitHeaders(map[string]string{
			"x-ratelimit-limit":             "50",
			"x-ratelimit-remaining":         "0",
			"x-ratelimit-reset":             "1709294430",
			"x-company-ratelimit-limit":     "600",
			"x-company-ratelimit-remaining": "599",
			"x-company-ratelimit-reset":     "1709294460",
		})
		require.NotNil(t, info)
		assert.Equal(t, 50, *info.MaxRequests)
		assert.Equal(t, 0, *info.RemainingRequests)
		assert.Equal(t, int64(1709294430000), *info.ResetRequestsAt)
		assert.Equal(t, 600, *info.CompanyMaxRequests)
		assert.Equal(t, 599, *info.CompanyRemainingRequests)
		assert.Equal(t, int64(1709294460000), *info.CompanyResetRequestsAt)
	})

	t.Run("no quota headers", func(t *testing.T) {
		assert.Nil(t, ParseQuipRateLimitHeaders(map[string]string{"content-type": "application/json"}))
	})

	t.Run("malformed values are skipped", func(t *testing.T) {
		info := ParseQuipRateLimitHeaders(map[string]string{
			"x-ratelimit-limit":     "lots",
			"x-ratelimit-remaining": "3",
		})
		require.NotNil(t, info)
		assert.Nil(t, info.MaxRequests)
		assert.Equal(t, 3, *info.RemainingRequests)
	})
}
