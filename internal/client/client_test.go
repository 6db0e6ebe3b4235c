package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pan93412/Stats/internal/demo"
)

// MockRoundTripper implements http.RoundTripper for testing
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func newDemoServer(t *testing.T) (*httptest.Server, *demo.Handler) {
	t.Helper()
	handler := demo.NewHandler(func() time.Time {
		return time.Date(2024, 3, 10, 14, 25, 0, 0, time.UTC)
	})
	srv := httptest.NewServer(demo.NewServeMux(handler))
	t.Cleanup(srv.Close)
	return srv, handler
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "ftp://example.com", "/relative", "http://"} {
		_, err := New(raw, time.Second)
		assert.ErrorIs(t, err, ErrInvalidBaseURL, "base URL %q", raw)
	}
}

func TestClient_FetchAgainstDemo(t *testing.T) {
	srv, _ := newDemoServer(t)
	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	ctx := context.Background()

	hourly, err := c.FetchHourly(ctx)
	require.NoError(t, err)
	assert.Len(t, hourly, demo.HistoryHours)
	assert.Equal(t, "2024-03-10 14:00:00", hourly[len(hourly)-1].Hour)

	urls, err := c.FetchURLs(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, urls)
	assert.Equal(t, "example.com", urls[0].Host())

	sessions, err := c.FetchSessions(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sessions)
	assert.Equal(t, "Taipei, TW", sessions[0].Origin())

	summary, err := c.FetchSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TW", summary.Value("top_country"))
	assert.Equal(t, "4", summary.Value("live_sessions"))
}

func TestClient_UnexpectedStatus(t *testing.T) {
	srv, handler := newDemoServer(t)
	handler.SetFailing(true)

	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = c.FetchHourly(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestClient_RequestShape(t *testing.T) {
	var gotPath, gotAccept, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/api/", time.Second)
	require.NoError(t, err)

	_, err = c.FetchSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/sessions", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, userAgent, gotAgent)
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = c.FetchHourly(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
	assert.False(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestClient_TransportError(t *testing.T) {
	c, err := New("http://stats.invalid", time.Second)
	require.NoError(t, err)

	boom := errors.New("connection refused")
	c.SetHTTPClient(&http.Client{Transport: &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			return nil, boom
		},
	}})

	_, err = c.FetchSummary(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestClient_ContextCancelled(t *testing.T) {
	srv, _ := newDemoServer(t)
	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.FetchURLs(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_SetBaseURL(t *testing.T) {
	c, err := New("http://localhost:8080", time.Second)
	require.NoError(t, err)

	require.NoError(t, c.SetBaseURL("https://stats.example.com"))
	assert.Equal(t, "https://stats.example.com", c.BaseURL())

	err = c.SetBaseURL("nope")
	assert.ErrorIs(t, err, ErrInvalidBaseURL)
	assert.Equal(t, "https://stats.example.com", c.BaseURL())

	var seen string
	c.SetHTTPClient(&http.Client{Transport: &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			seen = req.URL.String()
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       http.NoBody,
				Header:     make(http.Header),
			}, nil
		},
	}})
	_, err = c.FetchHourly(context.Background())
	require.Error(t, err) // empty body is not valid JSON
	assert.True(t, strings.HasPrefix(seen, "https://stats.example.com/summary/hourly"))
}
