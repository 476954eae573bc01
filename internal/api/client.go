// Package api implements the REST client for the receipt-tracking backend.
// Every request carries the session bearer token, is throttled client-side,
// and retries transient failures with exponential backoff. A 401 response
// invalidates the session exactly once per request and is surfaced as an
// *Error for the caller to act on.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/kopeyka/receipt-service/internal/metrics"
)

// TokenSource supplies the bearer token for outgoing requests and is told
// when the backend rejects it.
type TokenSource interface {
	Token() string
	Invalidate()
}

// StaticToken is a TokenSource for a fixed token (server/gateway mode).
type StaticToken string

func (t StaticToken) Token() string { return string(t) }
func (StaticToken) Invalidate()     {}

// Options configures a Client.
type Options struct {
	BaseURL           string
	Tokens            TokenSource
	OnUnauthorized    func()
	RequestsPerSecond float64
	Burst             int
	Retry             RetryConfig
	Timeout           time.Duration
	Logger            zerolog.Logger
	Metrics           *metrics.Client
	HTTPClient        *http.Client
}

// Client is the backend REST client.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	retry          RetryConfig
	tokens         TokenSource
	onUnauthorized func()
	log            zerolog.Logger
	metrics        *metrics.Client
	tracer         trace.Tracer
}

// New creates a backend client. BaseURL is required; everything else has
// workable defaults.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 10
	}
	if opts.Burst == 0 {
		opts.Burst = 20
	}
	if opts.Retry == (RetryConfig{}) {
		opts.Retry = DefaultRetryConfig()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		httpClient:     httpClient,
		limiter:        rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		retry:          opts.Retry,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		log:            opts.Logger,
		metrics:        opts.Metrics,
		tracer:         otel.Tracer("receipt-service/api"),
	}
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	return c.send(ctx, http.MethodGet, endpoint, query, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", endpoint, err)
	}
	return c.send(ctx, http.MethodPost, endpoint, nil, "application/json", body, out)
}

func (c *Client) putJSON(ctx context.Context, endpoint string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", endpoint, err)
	}
	return c.send(ctx, http.MethodPut, endpoint, nil, "application/json", body, out)
}

func (c *Client) delete(ctx context.Context, endpoint string) error {
	return c.send(ctx, http.MethodDelete, endpoint, nil, "", nil, nil)
}

// postMultipart uploads a single file under the "file" form field.
func (c *Client) postMultipart(ctx context.Context, endpoint, filename string, content []byte, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}
	return c.send(ctx, http.MethodPost, endpoint, nil, mw.FormDataContentType(), buf.Bytes(), out)
}

// send executes one logical request with throttling and retries. The request
// body is rebuilt per attempt so retries never reuse a drained reader.
func (c *Client) send(ctx context.Context, method, endpoint string, query url.Values, contentType string, body []byte, out any) error {
	ctx, span := c.tracer.Start(ctx, method+" "+endpoint, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("backend.endpoint", endpoint),
	))
	defer span.End()

	start := time.Now()
	status, err := c.attemptAll(ctx, method, endpoint, query, contentType, body, out)
	c.metrics.Observe(endpoint, method, status, time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	return err
}

func (c *Client) attemptAll(ctx context.Context, method, endpoint string, query url.Values, contentType string, body []byte, out any) (int, error) {
	var lastStatus int
	var lastErr error

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return lastStatus, fmt.Errorf("request throttled: %w", err)
		}

		resp, err := c.doOnce(ctx, method, endpoint, query, contentType, body)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return lastStatus, ctx.Err()
			}
			if attempt < c.retry.MaxRetries {
				c.log.Debug().Err(err).Str("endpoint", endpoint).Int("attempt", attempt+1).Msg("request failed, retrying")
				sleep(ctx, backoff(attempt, c.retry))
				continue
			}
			return lastStatus, &RetryError{Endpoint: endpoint, Attempts: attempt + 1, LastErr: lastErr}
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		lastStatus = resp.StatusCode

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if readErr != nil {
				return lastStatus, fmt.Errorf("reading %s response: %w", endpoint, readErr)
			}
			if out != nil && len(respBody) > 0 {
				if err := json.Unmarshal(respBody, out); err != nil {
					return lastStatus, fmt.Errorf("decoding %s response: %w", endpoint, err)
				}
			}
			return lastStatus, nil
		}

		if resp.StatusCode == http.StatusUnauthorized {
			// Session expired. Clear credentials once; the caller decides
			// how to surface the login requirement.
			if c.tokens != nil {
				c.tokens.Invalidate()
			}
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			return lastStatus, &Error{Status: resp.StatusCode, Detail: DetailMessage(respBody)}
		}

		if !retryableStatus(resp.StatusCode) {
			return lastStatus, &Error{Status: resp.StatusCode, Detail: DetailMessage(respBody)}
		}

		if attempt == c.retry.MaxRetries {
			break
		}

		var delay time.Duration
		if resp.StatusCode == http.StatusTooManyRequests {
			delay = rateLimitBackoff(attempt, c.retry, resp)
		} else {
			delay = backoff(attempt, c.retry)
		}
		c.log.Debug().Int("status", resp.StatusCode).Str("endpoint", endpoint).Int("attempt", attempt+1).Msg("retryable status, backing off")
		sleep(ctx, delay)
	}

	return lastStatus, &RetryError{Endpoint: endpoint, Attempts: c.retry.MaxRetries + 1, LastStatus: lastStatus, LastErr: lastErr}
}

func (c *Client) doOnce(ctx context.Context, method, endpoint string, query url.Values, contentType string, body []byte) (*http.Response, error) {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "receipt-service/1.0")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return c.httpClient.Do(req)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
