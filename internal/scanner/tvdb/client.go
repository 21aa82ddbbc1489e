// Package tvdb implements a series scanner backed by the TVDB v4 API.
package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/scanner"
)

// ErrAuthFailed is returned when the login endpoint rejects the API key.
var ErrAuthFailed = errors.New("TVDB authentication failed")

// tokenLifetime is shorter than the 30 days TVDB grants.
const tokenLifetime = 24 * time.Hour

// Client is a TVDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TVDBConfig
	logger     zerolog.Logger
	now        func() time.Time

	mu          sync.RWMutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a new TVDB client.
func NewClient(cfg config.TVDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tvdb").Logger(),
		now:    time.Now,
	}
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// authenticate gets or refreshes the bearer token.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.token != "" && c.now().Before(c.tokenExpiry) {
		token := c.token
		c.mu.RUnlock()
		return token, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	body, err := json.Marshal(LoginRequest{APIKey: c.config.APIKey})
	if err != nil {
		return "", fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Msg("TVDB authentication failed")
		return "", fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if loginResp.Data.Token == "" {
		return "", fmt.Errorf("%w: empty token", ErrAuthFailed)
	}

	c.token = loginResp.Data.Token
	c.tokenExpiry = c.now().Add(tokenLifetime)
	c.logger.Debug().Msg("TVDB authentication successful")
	return c.token, nil
}

// SearchSeries searches for series by name and optional year.
func (c *Client) SearchSeries(ctx context.Context, query string, year int) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("type", "series")
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var response SearchResponse
	if err := c.doRequest(ctx, "/search", params, &response); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(response.Data))
	for _, item := range response.Data {
		if item.Type == "series" {
			results = append(results, item)
		}
	}

	c.logger.Debug().Str("query", query).Int("year", year).Int("results", len(results)).Msg("Series search completed")
	return results, nil
}

// GetSeries gets the extended series record, including seasons and artwork.
func (c *Client) GetSeries(ctx context.Context, id int) (*SeriesDetail, error) {
	var response SeriesResponse
	if err := c.doRequest(ctx, fmt.Sprintf("/series/%d/extended", id), nil, &response); err != nil {
		return nil, err
	}
	return &response.Data, nil
}

// GetEpisode gets one episode of a series in the aired order.
func (c *Client) GetEpisode(ctx context.Context, seriesID, season, number int) (*Episode, error) {
	params := url.Values{}
	params.Set("season", strconv.Itoa(season))
	params.Set("episodeNumber", strconv.Itoa(number))

	var response EpisodesResponse
	if err := c.doRequest(ctx, fmt.Sprintf("/series/%d/episodes/default", seriesID), params, &response); err != nil {
		return nil, err
	}
	for i := range response.Data.Episodes {
		ep := &response.Data.Episodes[i]
		if ep.SeasonNumber == season && ep.Number == number {
			return ep, nil
		}
	}
	return nil, scanner.ErrNotFound
}

// doRequest performs an authenticated GET request.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result any) error {
	if !c.IsConfigured() {
		return scanner.ErrAPIKeyMissing
	}

	token, err := c.authenticate(ctx)
	if err != nil {
		return err
	}

	reqURL := c.config.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return scanner.ErrNotFound
	case http.StatusUnauthorized:
		// The token expired early; the next request logs in again.
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
		return fmt.Errorf("%w: unauthorized", scanner.ErrAPIError)
	case http.StatusTooManyRequests:
		return scanner.ErrRateLimited
	default:
		return fmt.Errorf("%w: status %d", scanner.ErrAPIError, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
