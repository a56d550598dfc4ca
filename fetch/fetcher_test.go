package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher returns canned content or an error and counts calls
type stubFetcher struct {
	name  string
	html  string
	err   error
	calls int
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", &FetchError{Strategy: s.name, URL: url, Err: s.err}
	}
	return s.html, nil
}

// TestChain_FirstSucceeds verifies later strategies are not tried
func TestChain_FirstSucceeds(t *testing.T) {
	rendered := &stubFetcher{name: "rendered", html: "<table></table>"}
	static := &stubFetcher{name: "static", html: "static"}

	chain := NewChain(nil, nil, rendered, static)
	result, err := chain.Fetch(context.Background(), "http://example.com")

	require.NoError(t, err)
	assert.Equal(t, "<table></table>", result.HTML)
	assert.Equal(t, "rendered", result.Strategy)
	assert.Equal(t, 0, static.calls)
}

// TestChain_FallsBackOnError verifies a failing strategy falls through
func TestChain_FallsBackOnError(t *testing.T) {
	rendered := &stubFetcher{name: "rendered", err: errors.New("browser not installed")}
	static := &stubFetcher{name: "static", html: "static"}

	chain := NewChain(nil, nil, rendered, static)
	result, err := chain.Fetch(context.Background(), "http://example.com")

	require.NoError(t, err)
	assert.Equal(t, "static", result.Strategy)
	assert.Equal(t, 1, rendered.calls)
	assert.Equal(t, 1, static.calls)
}

// TestChain_FallsBackOnRejectedContent verifies the acceptance check
func TestChain_FallsBackOnRejectedContent(t *testing.T) {
	rendered := &stubFetcher{name: "rendered", html: "no table here"}
	static := &stubFetcher{name: "static", html: "<table>"}

	accept := func(html string) error {
		if html == "no table here" {
			return errors.New("rejected")
		}
		return nil
	}

	chain := NewChain(nil, accept, rendered, static)
	result, err := chain.Fetch(context.Background(), "http://example.com")

	require.NoError(t, err)
	assert.Equal(t, "<table>", result.HTML)
}

// TestChain_AllFail verifies the error wraps the last failure
func TestChain_AllFail(t *testing.T) {
	rendered := &stubFetcher{name: "rendered", err: errors.New("launch failed")}
	static := &stubFetcher{name: "static", err: errors.New("connection refused")}

	chain := NewChain(nil, nil, rendered, static)
	result, err := chain.Fetch(context.Background(), "http://example.com")

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllStrategiesFailed)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "static", fetchErr.Strategy)
}

// TestChain_Empty verifies a chain without strategies fails
func TestChain_Empty(t *testing.T) {
	_, err := NewChain(nil, nil).Fetch(context.Background(), "http://example.com")
	assert.ErrorIs(t, err, ErrAllStrategiesFailed)
}

// TestChain_CancelledContext verifies no strategy runs after cancellation
func TestChain_CancelledContext(t *testing.T) {
	static := &stubFetcher{name: "static", html: "x"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewChain(nil, nil, static).Fetch(ctx, "http://example.com")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, static.calls)
}

// TestFetchError_Message verifies status codes appear in the message
func TestFetchError_Message(t *testing.T) {
	err := &FetchError{Strategy: "static", URL: "http://x", StatusCode: 503, Err: errors.New("unexpected status")}
	assert.Contains(t, err.Error(), "HTTP 503")

	err = &FetchError{Strategy: "static", URL: "http://x", Err: errors.New("timeout")}
	assert.NotContains(t, err.Error(), "HTTP")
}
