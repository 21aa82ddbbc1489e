package trailer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/scanner"
)

const userAgent = "mediascan/1.0"

// Client fetches and parses pages of the trailer site.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	logger     zerolog.Logger
}

// NewClient creates a client for the site in def. A base URL in cfg
// overrides the definition's own link.
func NewClient(cfg config.TrailerConfig, def *Definition, logger zerolog.Logger) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = def.BaseURL()
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger.With().Str("component", "trailer").Logger(),
	}
	if raw == "" {
		return c, nil
	}

	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid trailer base URL %q: %w", raw, err)
	}
	c.baseURL = base
	return c, nil
}

// IsConfigured returns true if a site URL is known.
func (c *Client) IsConfigured() bool {
	return c.baseURL != nil
}

// Resolve turns a site-relative reference into an absolute URL.
func (c *Client) Resolve(ref string) (*url.URL, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("%w: trailer site URL not configured", scanner.ErrAPIError)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid reference %q: %w", ref, err)
	}
	if u.IsAbs() {
		return u, nil
	}
	if strings.HasPrefix(ref, "/") {
		joined := *c.baseURL
		joined.Path = strings.TrimRight(c.baseURL.Path, "/") + u.Path
		joined.RawPath = ""
		joined.RawQuery = u.RawQuery
		return &joined, nil
	}
	return c.baseURL.ResolveReference(u), nil
}

// Fetch downloads the page at ref and parses it.
func (c *Client) Fetch(ctx context.Context, ref string) (*goquery.Document, error) {
	pageURL, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	c.logger.Debug().Str("url", pageURL.String()).Msg("Fetching trailer page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, scanner.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, scanner.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", scanner.ErrAPIError, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Url = pageURL
	return doc, nil
}
