package saavn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/echoplay/echoplay-backend/internal/modules/catalog/domain"
)

const maxRetries = 2

// Client talks to a saavn.dev-compatible catalog API. Requests are
// rate-limited client-side and idempotent GETs are retried on transport
// errors and 5xx responses.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	backoff    time.Duration
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, ratePerSecond float64, burst int) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		backoff:    200 * time.Millisecond,
	}
}

// SearchSongs queries the upstream song search endpoint.
func (c *Client) SearchSongs(ctx context.Context, query string) ([]domain.Song, error) {
	endpoint := fmt.Sprintf("%s/api/search/songs?query=%s", c.baseURL, url.QueryEscape(query))

	var payload struct {
		Data struct {
			Results []domain.Song `json:"results"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return payload.Data.Results, nil
}

// GetSongs fetches song details by upstream identifier. The upstream endpoint
// returns a list; an unknown id yields an empty one.
func (c *Client) GetSongs(ctx context.Context, id string) ([]domain.Song, error) {
	endpoint := fmt.Sprintf("%s/api/songs?id=%s", c.baseURL, url.QueryEscape(id))

	var payload struct {
		Data []domain.Song `json:"data"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", domain.ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", domain.ErrUpstream, err)
	}
	return nil
}

// get performs the request with retries on transport errors and 5xx
// responses. 4xx responses are returned as-is; retrying those cannot help.
func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << (attempt - 1)):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", domain.ErrUpstream, err)
			continue
		}

		if resp.StatusCode >= 500 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}
