package portal

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the results portal base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRequestTimeout bounds a single report fetch.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// WithDelay sets the polite pause between consecutive portal requests.
func WithDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithMaxConsecutiveMisses sets how many unpublished rolls in a row end a
// batch walk.
func WithMaxConsecutiveMisses(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxConsecutiveMisses = n
		}
	}
}

// WithMaxRoll caps how far a batch walk probes.
func WithMaxRoll(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRoll = n
		}
	}
}
