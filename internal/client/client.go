// Package client talks to the analytics backend's JSON summary endpoints.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pan93412/Stats/internal/logger"
	"github.com/pan93412/Stats/internal/models"
)

// Backend endpoint paths, relative to the base URL.
const (
	PathHourly   = "/summary/hourly"
	PathURLs     = "/summary/urls"
	PathSessions = "/sessions"
	PathSummary  = "/summary"
)

const (
	// DefaultTimeout bounds a single request when none is configured.
	DefaultTimeout = 10 * time.Second

	userAgent    = "stats-tui"
	maxErrorBody = 512
)

var (
	// ErrUnexpectedStatus is returned when the backend answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrInvalidBaseURL is returned for base URLs that are not absolute http(s) URLs.
	ErrInvalidBaseURL = errors.New("invalid base URL")
)

// Client fetches dashboard data from the backend.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	mu         sync.RWMutex
}

// New creates a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    u,
	}, nil
}

// ParseBaseURL validates that raw is an absolute http or https URL.
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	return u, nil
}

// SetBaseURL points the client at a different backend.
func (c *Client) SetBaseURL(raw string) error {
	u, err := ParseBaseURL(raw)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.baseURL = u
	c.mu.Unlock()
	return nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL.String()
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.mu.Lock()
	c.httpClient = hc
	c.mu.Unlock()
}

// FetchHourly returns the raw hourly event counts.
func (c *Client) FetchHourly(ctx context.Context) ([]models.RawHourlyEvent, error) {
	var events []models.RawHourlyEvent
	if err := c.getJSON(ctx, PathHourly, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// FetchURLs returns the most visited URLs, most visited first.
func (c *Client) FetchURLs(ctx context.Context) ([]models.URLCount, error) {
	var urls []models.URLCount
	if err := c.getJSON(ctx, PathURLs, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

// FetchSessions returns the live visitor sessions.
func (c *Client) FetchSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	if err := c.getJSON(ctx, PathSessions, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// FetchSummary returns the headline counters.
func (c *Client) FetchSummary(ctx context.Context) (models.Summary, error) {
	summary := models.Summary{}
	if err := c.getJSON(ctx, PathSummary, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (c *Client) endpoint(path string) (string, *http.Client) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL.JoinPath(path).String(), c.httpClient
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	endpoint, hc := c.endpoint(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s returned %d: %s",
			ErrUnexpectedStatus, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	return nil
}
