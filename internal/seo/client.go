package seo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxPageBytes caps how much of a fetched page is read.
const maxPageBytes = 5 << 20

// Fetcher retrieves pages from the audited site.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResult, error)
}

// FetchResult is a successful response.
type FetchResult struct {
	Status int
	Body   []byte
}

// Client implements Fetcher over HTTP.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates an HTTP fetcher with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  "unitconv-seo-audit/1.0",
	}
}

// Fetch GETs url. Any status outside 2xx is an error.
func (c *Client) Fetch(ctx context.Context, url string) (FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return FetchResult{}, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FetchResult{}, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return FetchResult{}, fmt.Errorf("read %s: %w", url, err)
	}
	return FetchResult{Status: resp.StatusCode, Body: body}, nil
}
