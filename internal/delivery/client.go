// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/robolog/internal/logging"
	"github.com/tomtom215/robolog/internal/metrics"
	"github.com/tomtom215/robolog/internal/models"
)

var (
	// ErrRetriesExhausted is returned when every attempt failed.
	ErrRetriesExhausted = errors.New("delivery retries exhausted")

	// ErrSinkStatus wraps a non-2xx sink response.
	ErrSinkStatus = errors.New("sink returned non-2xx status")
)

// maxErrorBodySize caps how much of an error response is kept for logs.
const maxErrorBodySize = 1024

// Config configures a Client.
type Config struct {
	// URL is the sink push endpoint.
	URL string

	// Timeout bounds one push. 0 means no per-attempt timeout.
	Timeout time.Duration

	// MaxRetries is the total number of attempts per event (>= 1).
	MaxRetries int

	// BaseDelay is the linear backoff unit.
	BaseDelay time.Duration

	// RateLimit caps pushes per second. 0 disables limiting.
	RateLimit float64
	RateBurst int

	// BreakerFailures opens the breaker after that many consecutive failed
	// pushes. 0 disables the breaker.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSleeper replaces the backoff sleep. Tests use it to record delays.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) {
		c.sleep = s
	}
}

// WithClock replaces time.Now for payload stamping.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client delivers events to the sink. It is safe for concurrent use; each
// Deliver call has at most one push in flight.
type Client struct {
	cfg        Config
	httpClient *http.Client
	sleep      Sleeper
	now        func() time.Time
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[struct{}]
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("delivery: sink URL is required")
	}
	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("delivery: max retries must be at least 1, got %d", cfg.MaxRetries)
	}
	if cfg.BaseDelay < 0 {
		return nil, fmt.Errorf("delivery: base delay must not be negative, got %v", cfg.BaseDelay)
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		sleep:      sleepContext,
		now:        time.Now,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	if cfg.BreakerFailures > 0 {
		c.breaker = newBreaker(cfg.BreakerFailures, cfg.BreakerTimeout)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Deliver pushes event to the sink, retrying with linear backoff. It returns
// true once a push succeeds and false when every attempt failed or ctx was
// cancelled.
func (c *Client) Deliver(ctx context.Context, event *models.LogEvent) bool {
	start := time.Now()
	err := c.deliver(ctx, event)

	switch {
	case err == nil:
		metrics.RecordDelivery("delivered", time.Since(start))
		return true
	case ctx.Err() != nil:
		metrics.RecordDelivery("aborted", time.Since(start))
		logging.Ctx(ctx).Debug().Str("robot_id", event.RobotID).Err(err).Msg("Delivery aborted")
	default:
		metrics.RecordDelivery("exhausted", time.Since(start))
		logging.Ctx(ctx).Warn().Str("robot_id", event.RobotID).Err(err).Msg("Delivery failed")
	}
	return false
}

func (c *Client) deliver(ctx context.Context, event *models.LogEvent) error {
	body, err := BuildPayload(event, c.now())
	if err != nil {
		return fmt.Errorf("%w: encode payload: %w", ErrRetriesExhausted, err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, c.cfg.BaseDelay*time.Duration(attempt-1)); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = c.attempt(ctx, body)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Ctx(ctx).Warn().
			Str("robot_id", event.RobotID).
			Int("attempt", attempt).
			Int("max_retries", c.cfg.MaxRetries).
			Err(lastErr).
			Msg("Sink push failed")
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, c.cfg.MaxRetries, lastErr)
}

// attempt performs one rate-limited, breaker-protected push.
func (c *Client) attempt(ctx context.Context, body []byte) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.RecordDeliveryAttempt("rate_limited")
			return fmt.Errorf("rate limiter: %w", err)
		}
	}
	if c.breaker == nil {
		return c.push(ctx, body)
	}

	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.push(ctx, body)
	})
	if isBreakerRejection(err) {
		metrics.RecordDeliveryAttempt("breaker_open")
	}
	return err
}

// push POSTs body to the sink once.
func (c *Client) push(ctx context.Context, body []byte) error {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordDeliveryAttempt("transport_error")
		return fmt.Errorf("push to sink: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordDeliveryAttempt("http_error")
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return fmt.Errorf("%w: %d %s", ErrSinkStatus, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	metrics.RecordDeliveryAttempt("success")
	return nil
}

// sleepContext is the default Sleeper.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
