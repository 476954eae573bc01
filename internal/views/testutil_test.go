package views

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kopeyka/receipt-service/internal/api"
)

// newBackend starts a fake backend serving the given routes and returns a
// client wired to it. Unrouted paths return 404, which the client treats as
// a non-retryable failure.
func newBackend(t *testing.T, routes map[string]http.HandlerFunc) *api.Client {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api.New(api.Options{
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		Burst:             1000,
		Retry:             api.RetryConfig{MaxRetries: 0, InitialBackoffMs: 1, MaxBackoffMs: 1},
		Logger:            zerolog.Nop(),
	})
}

func respondJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func respondStatus(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}
