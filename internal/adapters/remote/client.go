// Package remote talks to the route service over HTTP. It implements
// ports.RouteService and ports.AddressLookup.
package remote

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"route-planner/internal/platform/logger"
	"route-planner/internal/platform/validate"
)

// Client is safe for concurrent use.
type Client struct {
	session   *http.Client
	apiKey    string
	baseURL   string
	backoff   time.Duration
	attempts  int
	lookups   *rate.Limiter
	validator *validate.Validator
	log       *logger.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.session = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.session = &http.Client{Timeout: d} }
}

// WithRetry sets the attempt count and initial backoff for idempotent reads.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(attempts, 1)
		c.backoff = backoff
	}
}

// WithLookupRate limits geocode and autocomplete calls to rps per second.
// Zero or negative disables the limit.
func WithLookupRate(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.lookups = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.lookups = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("route service url is empty")
	}

	c := &Client{
		session:   &http.Client{Timeout: 10 * time.Second},
		apiKey:    apiKey,
		baseURL:   baseURL,
		backoff:   200 * time.Millisecond,
		attempts:  4,
		lookups:   rate.NewLimiter(rate.Inf, 0),
		validator: validate.New(),
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}
