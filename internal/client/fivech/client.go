package fivech

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"termwatch/internal/config"
)

type Client struct {
	baseURL    string
	boardPath  string
	httpClient *http.Client
	userAgent  string
	maxRetries int
	backoff    time.Duration
	delay      time.Duration
	jitter     time.Duration
}

type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.URL)
}

func NewClient(httpClient *http.Client, cfg config.CrawlerConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://medaka.5ch.net"
	}
	boardPath := cfg.BoardPath
	if boardPath == "" {
		boardPath = "/prog/"
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &Client{
		baseURL:    base,
		boardPath:  boardPath,
		httpClient: httpClient,
		userAgent:  cfg.UserAgent,
		maxRetries: maxRetries,
		backoff:    cfg.Backoff,
		delay:      cfg.RequestDelay,
		jitter:     cfg.Jitter,
	}
}

// FetchBoardPage fetches the board index with the thread listing.
func (c *Client) FetchBoardPage(ctx context.Context) (string, error) {
	return c.fetch(ctx, c.baseURL+c.boardPath)
}

// FetchThreadPage fetches one thread, capped to the last maxPosts posts via
// the board's /lN URL form.
func (c *Client) FetchThreadPage(ctx context.Context, path string, maxPosts int) (string, error) {
	fullURL := NormalizeThreadPath(path)
	if !strings.HasPrefix(fullURL, "http") {
		fullURL = c.baseURL + fullURL
	}
	if maxPosts > 0 {
		fullURL = fullURL + "/l" + strconv.Itoa(maxPosts)
	}
	return c.fetch(ctx, fullURL)
}

// fetch retries transient failures with exponential backoff and waits the
// polite delay after each success so the board is never hammered.
func (c *Client) fetch(ctx context.Context, fullURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, c.backoff<<(attempt-1)); err != nil {
				return "", err
			}
		}
		body, err := c.doFetch(ctx, fullURL)
		if err == nil {
			c.politeWait(ctx)
			return body, nil
		}
		lastErr = err
		if !retryable(err) {
			return "", err
		}
	}
	return "", lastErr
}

func (c *Client) doFetch(ctx context.Context, fullURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.9,en;q=0.8")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{Status: resp.StatusCode, URL: fullURL}
	}
	// 5ch still serves Shift_JIS.
	body, err := io.ReadAll(transform.NewReader(resp.Body, japanese.ShiftJIS.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

func retryable(err error) bool {
	if httpErr, ok := err.(*HTTPError); ok {
		switch httpErr.Status {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	return true
}

func (c *Client) politeWait(ctx context.Context) {
	wait := c.delay
	if c.jitter > 0 {
		wait += time.Duration(rand.Int63n(int64(2*c.jitter))) - c.jitter
	}
	if wait <= 0 {
		return
	}
	_ = sleepCtx(ctx, wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
