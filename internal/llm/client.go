// Package llm wraps the generation backend behind a bounded-retry client.
// Every failure mode resolves to a user-facing string: callers of Generate
// never see an error and never wait longer than the bounded backoff total.
package llm

import (
	"context"
	"log"
	"time"

	"github.com/hanghive/hang-bot/internal/metrics"
	"github.com/hanghive/hang-bot/internal/prompt"
)

// Retry policy for rate-limited backend calls. The delay before attempt n+1
// is BaseDelay * n, so with three attempts the worst case sleeps 5s + 10s.
const (
	MaxRetries = 3
	BaseDelay  = 5 * time.Second
)

// User-facing fallback messages for the terminal states of a generation
// call. Exactly one of these (or a formatted success) is returned.
const (
	rateLimitedMessage = "I'm currently rate-limited by the API. " +
		"Please wait 30-60 seconds and try again."
	configIssueMessage    = "There seems to be a configuration issue. Please check the API key."
	genericFailureMessage = "Sorry, I encountered an issue while processing your message. Please try again."
)

// Backend is the external generation service. Implementations must return an
// error whose message (or embedded status code) is enough to classify it as
// rate-limited or not.
type Backend interface {
	GenerateContent(ctx context.Context, req prompt.Request) (string, error)
}

// Client drives a Backend through the bounded-retry state machine.
type Client struct {
	backend Backend

	maxRetries int
	baseDelay  time.Duration
	sleep      func(time.Duration) // injectable for tests
}

// Option tunes a Client.
type Option func(*Client)

// WithRetryPolicy overrides the attempt bound and base delay.
func WithRetryPolicy(maxRetries int, baseDelay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.baseDelay = baseDelay
	}
}

// WithSleep replaces the inter-attempt sleep. Tests use this to record the
// backoff schedule without real waiting.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// NewClient creates a Client around the given backend.
func NewClient(backend Backend, opts ...Option) *Client {
	c := &Client{
		backend:    backend,
		maxRetries: MaxRetries,
		baseDelay:  BaseDelay,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate runs the request through the backend with bounded retries and
// returns a displayable string. Rate-limited failures are retried up to the
// attempt bound with increasing delay; any other failure stops immediately
// (non-transient errors are assumed not to heal with retries). All failures
// resolve to one of the fixed fallback messages.
func (c *Client) Generate(ctx context.Context, req prompt.Request) string {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		metrics.GenerationAttempts.Inc()
		start := time.Now()

		text, err := c.backend.GenerateContent(ctx, req)
		if err == nil {
			metrics.GenerationLatency.Observe(time.Since(start).Seconds())
			metrics.GenerationsTotal.WithLabelValues("ok").Inc()
			return FormatResponse(text)
		}

		lastErr = err

		if classifyError(err) == errRateLimited && attempt < c.maxRetries {
			wait := c.baseDelay * time.Duration(attempt)
			log.Printf("[llm] rate limited, retrying in %s (%d/%d)", wait, attempt, c.maxRetries)
			metrics.GenerationRetries.Inc()
			c.sleep(wait)
			continue
		}

		// Non-transient error, or retries exhausted.
		break
	}

	log.Printf("[llm] generation failed: %v", truncateError(lastErr))

	switch classifyError(lastErr) {
	case errRateLimited:
		metrics.GenerationsTotal.WithLabelValues("rate_limited").Inc()
		return rateLimitedMessage
	case errAuthConfig:
		metrics.GenerationsTotal.WithLabelValues("config").Inc()
		return configIssueMessage
	default:
		metrics.GenerationsTotal.WithLabelValues("error").Inc()
		return genericFailureMessage
	}
}

// truncateError bounds error text for logging.
func truncateError(err error) string {
	if err == nil {
		return "<nil>"
	}
	s := err.Error()
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
