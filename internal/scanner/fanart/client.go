// Package fanart implements an artwork scanner backed by fanart.tv.
package fanart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/scanner"
)

// Client is a fanart.tv API client.
type Client struct {
	httpClient *http.Client
	config     config.FanartConfig
	logger     zerolog.Logger
}

// NewClient creates a new fanart.tv client.
func NewClient(cfg config.FanartConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "fanart").Logger(),
	}
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// GetMovieImages fetches artwork for a movie by TMDB or IMDb ID.
func (c *Client) GetMovieImages(ctx context.Context, id string) (*MovieImages, error) {
	var result MovieImages
	if err := c.doRequest(ctx, "/movies/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSeriesImages fetches artwork for a series by TVDB ID.
func (c *Client) GetSeriesImages(ctx context.Context, tvdbID string) (*SeriesImages, error) {
	var result SeriesImages
	if err := c.doRequest(ctx, "/tv/"+url.PathEscape(tvdbID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) doRequest(ctx context.Context, path string, result any) error {
	if !c.IsConfigured() {
		return scanner.ErrAPIKeyMissing
	}

	params := url.Values{}
	params.Set("api_key", c.config.APIKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.config.BaseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("path", path).Msg("Making fanart.tv API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return scanner.ErrNotFound
	case http.StatusTooManyRequests:
		return scanner.ErrRateLimited
	default:
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.ErrorMessage != "" {
			return fmt.Errorf("%w: %s", scanner.ErrAPIError, errResp.ErrorMessage)
		}
		return fmt.Errorf("%w: status %d", scanner.ErrAPIError, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
