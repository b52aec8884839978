// Package ratelimit provides client-side rate limiting for hosted AI
// provider APIs. It uses a token bucket with an additional backoff
// window for 429 responses.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Service identifies a provider API for rate limiting purposes.
type Service string

const (
	// ServiceOpenAI is the OpenAI API.
	ServiceOpenAI Service = "openai"
	// ServiceAnthropic is the Anthropic API.
	ServiceAnthropic Service = "anthropic"
)

// Config holds rate limiting configuration for a service.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultLimits provides conservative defaults for each hosted provider.
// These sit well below the providers' documented limits so bulk ingests
// don't trip quotas.
var DefaultLimits = map[Service]Config{
	ServiceOpenAI:    {RequestsPerSecond: 3.0, BurstSize: 6},
	ServiceAnthropic: {RequestsPerSecond: 2.0, BurstSize: 4},
}

// Limiter rate-limits requests to one provider API.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	service Service
}

// New creates a limiter for the specified service.
func New(service Service) *Limiter {
	cfg, ok := DefaultLimits[service]
	if !ok {
		cfg = Config{RequestsPerSecond: 5.0, BurstSize: 10}
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		service: service,
	}
}

// NewWithConfig creates a limiter with custom configuration.
func NewWithConfig(cfg Config) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a request can be made without exceeding the rate
// limit. It also respects any backoff period set by RecordRateLimitError.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return l.limiter.Wait(ctx)
}

// RecordRateLimitError records a 429 response and sets a backoff period.
func (l *Limiter) RecordRateLimitError(retryAfterSeconds int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if retryAfterSeconds <= 0 {
		// Default backoff: 60 seconds
		retryAfterSeconds = 60
	}

	l.retryAt = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
}

// Allow checks if a request can be made immediately without blocking.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}

	return l.limiter.Allow()
}
