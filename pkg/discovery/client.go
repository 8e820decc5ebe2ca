// Package discovery is the read-only client for the datacube explorer, the
// upstream service enumerating and describing available collections.
//
// All calls are remote and may fail with ErrNotFound or ErrUnavailable;
// callers decide whether to retry. Requests are rate limited when
// configured so bulk catalog resolution does not hammer the explorer.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/odcplane/odcplane/pkg/stac"
)

// Config configures the explorer client.
type Config struct {
	// Endpoint is the explorer base URL (required).
	Endpoint string

	// Timeout bounds each request. Zero uses DefaultTimeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	// Zero means unlimited.
	RateLimit float64
}

// DefaultTimeout bounds explorer requests when none is configured.
const DefaultTimeout = 30 * time.Second

// Client talks to the datacube explorer. Safe for concurrent use.
type Client struct {
	base    string
	httpc   *http.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("discovery endpoint is required")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid discovery endpoint: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		base:  endpoint,
		httpc: &http.Client{Timeout: timeout},
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return c, nil
}

// ListCollectionNames returns all known collection names.
//
// The explorer exposes these as a newline-separated plain-text listing.
func (c *Client) ListCollectionNames(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "ListCollectionNames", "", c.base+"/products.txt")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range strings.Split(string(body), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Describe returns the raw collection description for name.
func (c *Client) Describe(ctx context.Context, name string) (*stac.Collection, error) {
	body, err := c.get(ctx, "Describe", name, c.base+"/collections/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}

	var col stac.Collection
	if err := json.Unmarshal(body, &col); err != nil {
		return nil, &UpstreamError{Op: "Describe", Collection: name, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	if col.Name == "" {
		col.Name = name
	}
	return &col, nil
}

// Items returns the catalog items for name, with asset and band metadata.
func (c *Client) Items(ctx context.Context, name string) (*stac.ItemCollection, error) {
	body, err := c.get(ctx, "Items", name, c.base+"/collections/"+url.PathEscape(name)+"/items")
	if err != nil {
		return nil, err
	}

	var items stac.ItemCollection
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &UpstreamError{Op: "Items", Collection: name, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	return &items, nil
}

func (c *Client) get(ctx context.Context, op, collection, rawURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &UpstreamError{Op: op, Collection: collection, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &UpstreamError{Op: op, Collection: collection, Err: err}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: op, Collection: collection, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &UpstreamError{Op: op, Collection: collection, Err: ErrNotFound}
	case resp.StatusCode >= 400:
		return nil, &UpstreamError{Op: op, Collection: collection, Err: fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Op: op, Collection: collection, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	return body, nil
}
