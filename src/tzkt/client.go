// Package tzkt downloads operation groups and token metadata from the
// TzKT indexer API.
package tzkt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/username/tezgains/src/logger"
)

const pageLimit = 1000

// Client is a rate-limited TzKT API client with an in-memory memo for
// operation group fetches.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	opCache    *cache.Cache
}

// NewClient builds a client against the given API base URL (e.g.
// "https://api.tzkt.io/v1"), capped at rps requests per second.
func NewClient(baseURL string, rps int, timeout time.Duration) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
		opCache:    cache.New(30*time.Minute, 10*time.Minute),
	}
}

// get performs one rate-limited GET against the API and decodes the
// JSON response into out.
func (c *Client) get(ctx context.Context, action string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + "/" + action
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", action, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetching %s: unexpected status %d: %s", action, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", action, err)
	}
	return nil
}

// fetchAll pages through a list endpoint until a page comes back empty.
func fetchAll[T any](fetcher func(offset int) ([]T, error)) ([]T, error) {
	var results []T
	offset := 0
	for {
		page, err := fetcher(offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return results, nil
		}
		offset += len(page)
		results = append(results, page...)
		if logger.L != nil {
			logger.L.Debug("fetched page", "total", len(results))
		}
	}
}
