// Package omdb implements a movie scanner backed by the OMDb API.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/scanner"
)

// Client is an OMDb API client.
type Client struct {
	httpClient *http.Client
	config     config.OMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new OMDb client.
func NewClient(cfg config.OMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "omdb").Logger(),
	}
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// GetByTitle looks up a movie by exact title and optional year.
func (c *Client) GetByTitle(ctx context.Context, title string, year int) (*Response, error) {
	params := url.Values{}
	params.Set("t", title)
	params.Set("type", "movie")
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}
	return c.get(ctx, params)
}

// GetByIMDbID fetches a title by IMDb ID.
func (c *Client) GetByIMDbID(ctx context.Context, imdbID string) (*Response, error) {
	if imdbID == "" {
		return nil, scanner.ErrNotFound
	}

	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "full")
	return c.get(ctx, params)
}

func (c *Client) get(ctx context.Context, params url.Values) (*Response, error) {
	if !c.IsConfigured() {
		return nil, scanner.ErrAPIKeyMissing
	}
	params.Set("apikey", c.config.APIKey)

	reqURL := fmt.Sprintf("%s?%s", c.config.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: invalid API key", scanner.ErrAPIError)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, scanner.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", scanner.ErrAPIError, resp.StatusCode)
	}

	var omdbResp Response
	if err := json.NewDecoder(resp.Body).Decode(&omdbResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if omdbResp.Response == "False" {
		if omdbResp.Error == "Movie not found!" || omdbResp.Error == "Incorrect IMDb ID." {
			return nil, scanner.ErrNotFound
		}
		c.logger.Warn().Str("error", omdbResp.Error).Msg("OMDb API returned error")
		return nil, fmt.Errorf("%w: %s", scanner.ErrAPIError, omdbResp.Error)
	}

	return &omdbResp, nil
}
