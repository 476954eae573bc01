package api

import (
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig controls retry behavior for backend requests.
type RetryConfig struct {
	MaxRetries       int
	InitialBackoffMs int
	MaxBackoffMs     int
}

// DefaultRetryConfig returns the default retry settings.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:       3,
		InitialBackoffMs: 100,
		MaxBackoffMs:     30000,
	}
}

// backoff returns the exponential backoff delay for an attempt, with 0-25%
// jitter to avoid thundering-herd retries.
func backoff(attempt int, cfg RetryConfig) time.Duration {
	delay := float64(cfg.InitialBackoffMs) * math.Pow(2, float64(attempt))
	delay = math.Min(delay, float64(cfg.MaxBackoffMs))
	delay += rand.Float64() * 0.25 * delay
	return time.Duration(delay) * time.Millisecond
}

// rateLimitBackoff returns the delay for a 429 response. A server-provided
// Retry-After wins; otherwise a steeper 3x exponential curve is used.
func rateLimitBackoff(attempt int, cfg RetryConfig, resp *http.Response) time.Duration {
	if resp != nil {
		if after := resp.Header.Get("Retry-After"); after != "" {
			if seconds, err := strconv.Atoi(after); err == nil && seconds > 0 {
				return time.Duration(seconds)*time.Second + time.Duration(rand.Intn(1000))*time.Millisecond
			}
		}
	}
	delay := float64(cfg.InitialBackoffMs) * math.Pow(3, float64(attempt))
	delay = math.Min(delay, float64(cfg.MaxBackoffMs))
	delay += rand.Float64() * 0.25 * delay
	return time.Duration(delay) * time.Millisecond
}
