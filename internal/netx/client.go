// Package netx is the shared HTTP client for all provider adapters:
// one token-bucket rate limiter per host and one circuit breaker per
// provider, wrapped around plain net/http with JSON helpers.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "tokenscope/1.0"

// Options tune the shared client. Zero values fall back to sane defaults.
type Options struct {
	Timeout         time.Duration // transport-level timeout; the orchestrator owns per-call deadlines
	RPS             float64       // per-host requests per second
	Burst           int           // per-host burst capacity
	BreakerFailures uint32        // consecutive failures that open a breaker
	BreakerOpenFor  time.Duration // how long an open breaker rejects calls
	UserAgent       string
}

func (o *Options) withDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.Burst <= 0 {
		o.Burst = 10
	}
	if o.BreakerFailures == 0 {
		o.BreakerFailures = 5
	}
	if o.BreakerOpenFor <= 0 {
		o.BreakerOpenFor = 30 * time.Second
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
}

// Client is safe for concurrent use; adapters hold no other shared state.
type Client struct {
	http     *http.Client
	opts     Options
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewClient(opts Options) *Client {
	opts.withDefaults()
	return &Client{
		http:     &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// GetJSON issues a GET and decodes the JSON body into out. The breaker
// name groups calls belonging to one logical provider.
func (c *Client) GetJSON(ctx context.Context, breaker, rawURL string, headers map[string]string, out any) error {
	return c.doJSON(ctx, breaker, http.MethodGet, rawURL, headers, nil, out)
}

// PostJSON issues a POST with a JSON body and decodes the JSON response.
func (c *Client) PostJSON(ctx context.Context, breaker, rawURL string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("netx: encode request body: %w", err)
	}
	headers := map[string]string{"Content-Type": "application/json"}
	return c.doJSON(ctx, breaker, http.MethodPost, rawURL, headers, payload, out)
}

func (c *Client) doJSON(ctx context.Context, breaker, method, rawURL string, headers map[string]string, body []byte, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("netx: parse url: %w", err)
	}

	if err := c.limiterFor(u.Host).Wait(ctx); err != nil {
		return fmt.Errorf("netx: rate limit wait: %w", err)
	}

	_, err = c.breakerFor(breaker).Execute(func() (any, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Read a little of the body for diagnostics, then drop it.
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
			return nil, &HTTPError{Status: resp.StatusCode, Body: string(snippet)}
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, nil
	})
	return err
}

// HTTPError carries a non-2xx status through the breaker.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}

func (c *Client) limiterFor(host string) *rate.Limiter {
	c.mu.RLock()
	l, ok := c.limiters[host]
	c.mu.RUnlock()
	if ok {
		return l
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.limiters[host]; ok {
		return l
	}
	l = rate.NewLimiter(rate.Limit(c.opts.RPS), c.opts.Burst)
	c.limiters[host] = l
	return l
}

func (c *Client) breakerFor(name string) *gobreaker.CircuitBreaker {
	c.mu.RLock()
	b, ok := c.breakers[name]
	c.mu.RUnlock()
	if ok {
		return b
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.breakers[name]; ok {
		return b
	}

	failures := c.opts.BreakerFailures
	b = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: c.opts.BreakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})
	c.breakers[name] = b
	return b
}
