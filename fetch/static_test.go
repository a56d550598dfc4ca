package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStaticConfig() StaticConfig {
	config := DefaultStaticConfig()
	config.Timeout = 2 * time.Second
	config.Backoff = time.Millisecond
	config.MaxBackoff = 5 * time.Millisecond
	return config
}

// TestStaticFetcher_Success verifies the body and browser headers
func TestStaticFetcher_Success(t *testing.T) {
	var userAgent, accept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		accept = r.Header.Get("Accept")
		w.Write([]byte("<table></table>"))
	}))
	defer server.Close()

	fetcher := NewStaticFetcher(testStaticConfig(), nil)
	html, err := fetcher.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "<table></table>", html)
	assert.Equal(t, DefaultUserAgent, userAgent)
	assert.Contains(t, accept, "text/html")
	assert.Equal(t, StaticName, fetcher.Name())
}

// TestStaticFetcher_RetriesTransientStatus verifies 503 is retried
func TestStaticFetcher_RetriesTransientStatus(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	html, err := NewStaticFetcher(testStaticConfig(), nil).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "ok", html)
	assert.Equal(t, int32(3), hits.Load())
}

// TestStaticFetcher_GivesUpAfterAttempts verifies the attempt bound and the
// final status in the error
func TestStaticFetcher_GivesUpAfterAttempts(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewStaticFetcher(testStaticConfig(), nil).Fetch(context.Background(), server.URL)

	require.Error(t, err)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusBadGateway, fetchErr.StatusCode)
	assert.Equal(t, int32(3), hits.Load())
}

// TestStaticFetcher_NoRetryOnNotFound verifies permanent statuses fail fast
func TestStaticFetcher_NoRetryOnNotFound(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewStaticFetcher(testStaticConfig(), nil).Fetch(context.Background(), server.URL)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

// TestStaticFetcher_NetworkError verifies unreachable hosts become a
// FetchError
func TestStaticFetcher_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewStaticFetcher(testStaticConfig(), nil).Fetch(context.Background(), url)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 0, fetchErr.StatusCode)
	assert.Equal(t, StaticName, fetchErr.Strategy)
}
