package netx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		w.Write([]byte(`{"value":42}`))
	}))
	defer srv.Close()

	c := NewClient(Options{})
	var out struct {
		Value int `json:"value"`
	}
	err := c.GetJSON(context.Background(), "test", srv.URL, map[string]string{"X-API-KEY": "secret"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 42, out.Value)
}

func TestGetJSONNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer srv.Close()

	c := NewClient(Options{})
	err := c.GetJSON(context.Background(), "test", srv.URL, nil, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTeapot, httpErr.Status)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Options{BreakerFailures: 2, BreakerOpenFor: time.Minute, RPS: 1000, Burst: 1000})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := c.GetJSON(ctx, "flaky", srv.URL, nil, nil)
		var httpErr *HTTPError
		assert.ErrorAs(t, err, &httpErr)
	}

	// Third call is rejected by the open breaker without hitting the server.
	err := c.GetJSON(ctx, "flaky", srv.URL, nil, nil)
	require.Error(t, err)
	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr), "expected breaker rejection, got HTTP error: %v", err)
}

func TestPostJSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"jsonrpc":"2.0","result":"0x1"}`))
	}))
	defer srv.Close()

	c := NewClient(Options{})
	var out struct {
		Result string `json:"result"`
	}
	err := c.PostJSON(context.Background(), "rpc", srv.URL, map[string]any{"method": "eth_call"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "0x1", out.Result)
}
