package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	token       string
	invalidated atomic.Bool
}

func (f *fakeTokens) Token() string { return f.token }
func (f *fakeTokens) Invalidate()   { f.invalidated.Store(true) }

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource, onUnauthorized func()) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{
		BaseURL:           srv.URL,
		Tokens:            tokens,
		OnUnauthorized:    onUnauthorized,
		RequestsPerSecond: 1000,
		Burst:             1000,
		Retry:             RetryConfig{MaxRetries: 2, InitialBackoffMs: 1, MaxBackoffMs: 5},
		Logger:            zerolog.Nop(),
	})
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"total_sum": 100, "receipts_count": 1}`))
	})
	c := newTestClient(t, handler, &fakeTokens{token: "tok-1"}, nil)

	sums, err := c.TotalSums(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, 100.0, sums.TotalSum.Float64())
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	})
	c := newTestClient(t, handler, nil, nil)

	_, err := c.Receipts(context.Background(), 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c := newTestClient(t, handler, nil, nil)

	_, err := c.Receipts(context.Background(), 0, 100)
	require.Error(t, err)

	var retryErr *RetryError
	require.ErrorAs(t, err, &retryErr)
	assert.Equal(t, 3, retryErr.Attempts)
	assert.Equal(t, http.StatusServiceUnavailable, retryErr.LastStatus)
	assert.Equal(t, int32(3), calls.Load())
}

func TestUnauthorizedClearsSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Could not validate credentials"}`))
	})
	tokens := &fakeTokens{token: "stale"}
	var redirected atomic.Bool
	c := newTestClient(t, handler, tokens, func() { redirected.Store(true) })

	_, err := c.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.True(t, tokens.invalidated.Load())
	assert.True(t, redirected.Load())
}

func TestClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": [{"msg": "field required"}, {"msg": "value is not a valid email"}]}`))
	})
	c := newTestClient(t, handler, nil, nil)

	_, err := c.Login(context.Background(), Credentials{})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, IsValidation(err))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "field required; value is not a valid email", apiErr.Detail)
}

func TestQueryParameters(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})
	c := newTestClient(t, handler, nil, nil)

	_, err := c.TopProducts(context.Background(), 6, 10)
	require.NoError(t, err)
	assert.Equal(t, "limit=10&months=6", gotQuery)
}

func TestMultipartUpload(t *testing.T) {
	var filename string
	var content []byte
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		filename = header.Filename
		content, _ = io.ReadAll(file)
		w.Write([]byte(`{"id": 42, "total_sum": 1000}`))
	})
	c := newTestClient(t, handler, nil, nil)

	created, err := c.UploadReceipt(context.Background(), "receipt.json", []byte(`{"totalSum": 1000}`))
	require.NoError(t, err)
	assert.Equal(t, "receipt.json", filename)
	assert.JSONEq(t, `{"totalSum": 1000}`, string(content))
	assert.Equal(t, int64(42), created.ID)
}

func TestDetailMessage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"plain string", `{"detail": "Магазин не найден"}`, "Магазин не найден"},
		{"validation list", `{"detail": [{"msg": "a"}, {"msg": "b"}]}`, "a; b"},
		{"no detail", `{"error": "x"}`, ""},
		{"not json", `<html>`, ""},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetailMessage([]byte(tt.body)))
		})
	}
}
