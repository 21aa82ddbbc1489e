package omdb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/library"
	"github.com/slipstream/mediascan/internal/scanner"
)

// Name is the source name OMDb values are recorded under.
const Name = "omdb"

// Scanner scans movies from OMDb. Its identifiers are IMDb IDs.
type Scanner struct {
	client *Client
	logger zerolog.Logger
}

// NewScanner creates an OMDb scanner.
func NewScanner(client *Client, logger zerolog.Logger) *Scanner {
	return &Scanner{
		client: client,
		logger: logger.With().Str("scanner", Name).Logger(),
	}
}

// Name returns the scanner name.
func (s *Scanner) Name() string {
	return Name
}

// ResolveMovieID returns the IMDb ID for video. An IMDb ID cached by another
// source is reused without a lookup.
func (s *Scanner) ResolveMovieID(ctx context.Context, video *library.VideoData) (string, error) {
	if id := video.SourceID(Name); scanner.ValidID(id) {
		return id, nil
	}
	if imdbID := video.SourceID("imdb"); scanner.ValidID(imdbID) {
		video.SetSourceID(Name, imdbID)
		return imdbID, nil
	}
	return scanner.ResolveID(ctx, video, Name, s.lookup)
}

func (s *Scanner) lookup(ctx context.Context, title string, year int) (string, error) {
	resp, err := s.client.GetByTitle(ctx, title, year)
	if err != nil {
		if errors.Is(err, scanner.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return resp.ImdbID, nil
}

// ScanMovie fetches the title by IMDb ID and merges it into video.
func (s *Scanner) ScanMovie(ctx context.Context, id string, video *library.VideoData) error {
	resp, err := s.client.GetByIMDbID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", id, err)
	}

	video.SetTitle(Name, value(resp.Title))
	video.SetYear(Name, parseYear(resp.Year))
	video.SetOverview(Name, value(resp.Plot))
	video.SetGenres(Name, splitList(resp.Genre))
	video.SetRuntime(Name, parseRuntime(resp.Runtime))
	video.SetPoster(Name, value(resp.Poster))
	if rating, err := strconv.ParseFloat(resp.ImdbRating, 64); err == nil {
		video.SetRating(Name, rating)
	}
	if resp.ImdbID != "" {
		video.SetSourceID("imdb", resp.ImdbID)
	}

	s.logger.Debug().Int64("videoId", video.ID).Str("imdbId", id).Msg("Scanned movie")
	return nil
}

// value maps OMDb's "N/A" placeholder to empty.
func value(s string) string {
	s = strings.TrimSpace(s)
	if s == "N/A" {
		return ""
	}
	return s
}

func splitList(s string) []string {
	s = value(s)
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseYear handles "1999" and series ranges like "2008–2013".
func parseYear(s string) int {
	s = value(s)
	if len(s) < 4 {
		return 0
	}
	year, _ := strconv.Atoi(s[:4])
	return year
}

// parseRuntime parses "136 min".
func parseRuntime(s string) int {
	fields := strings.Fields(value(s))
	if len(fields) == 0 {
		return 0
	}
	n, _ := strconv.Atoi(fields[0])
	return n
}
