// Package tmdb implements movie and series scanners backed by The Movie Database.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/scanner"
)

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "tmdb").Logger(),
	}
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// SearchMovies searches for movies by title with an optional year filter.
func (c *Client) SearchMovies(ctx context.Context, query string, year int) ([]MovieResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	var response SearchMoviesResponse
	if err := c.doRequest(ctx, "/search/movie", params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().Str("query", query).Int("year", year).Int("results", len(response.Results)).Msg("Movie search completed")
	return response.Results, nil
}

// GetMovie gets detailed movie info by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, id int) (*MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "external_ids")

	var details MovieDetails
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", id), params, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// SearchSeries searches for TV series by title with an optional first-air year.
func (c *Client) SearchSeries(ctx context.Context, query string, year int) ([]TVResult, error) {
	params := url.Values{}
	params.Set("query", query)
	if year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(year))
	}

	var response SearchTVResponse
	if err := c.doRequest(ctx, "/search/tv", params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().Str("query", query).Int("year", year).Int("results", len(response.Results)).Msg("Series search completed")
	return response.Results, nil
}

// GetSeries gets detailed series info by TMDB ID.
func (c *Client) GetSeries(ctx context.Context, id int) (*TVDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "external_ids")

	var details TVDetails
	if err := c.doRequest(ctx, fmt.Sprintf("/tv/%d", id), params, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// GetSeason gets a season of a series.
func (c *Client) GetSeason(ctx context.Context, seriesID, seasonNumber int) (*SeasonDetails, error) {
	var details SeasonDetails
	if err := c.doRequest(ctx, fmt.Sprintf("/tv/%d/season/%d", seriesID, seasonNumber), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// GetEpisode gets one episode of a series.
func (c *Client) GetEpisode(ctx context.Context, seriesID, seasonNumber, episodeNumber int) (*EpisodeDetails, error) {
	var details EpisodeDetails
	endpoint := fmt.Sprintf("/tv/%d/season/%d/episode/%d", seriesID, seasonNumber, episodeNumber)
	if err := c.doRequest(ctx, endpoint, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// GetImageURL returns the full image URL for a path.
func (c *Client) GetImageURL(path *string, size string) string {
	if path == nil || *path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", strings.TrimSuffix(c.config.ImageBaseURL, "/"), size, *path)
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	if !c.IsConfigured() {
		return scanner.ErrAPIKeyMissing
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.config.APIKey)
	if c.config.Language != "" {
		params.Set("language", c.config.Language)
	}

	endpoint := strings.TrimSuffix(c.config.BaseURL, "/") + path
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return scanner.ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", scanner.ErrAPIError)
		case http.StatusTooManyRequests:
			return scanner.ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", scanner.ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseYear extracts the year from a YYYY-MM-DD date.
func parseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, _ := strconv.Atoi(date[:4])
	return year
}
