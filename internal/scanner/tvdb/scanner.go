package tvdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/library"
	"github.com/slipstream/mediascan/internal/scanner"
)

// Name is the source name TVDB values and identifiers are recorded under.
const Name = "tvdb"

const (
	artworkPoster     = 2
	artworkBackground = 3
)

// Scanner scans series, seasons and episodes from TVDB.
type Scanner struct {
	client   *Client
	searches *scanner.Cache[string]
	logger   zerolog.Logger
}

// NewScanner creates a TVDB scanner. Search results are cached per title and year.
func NewScanner(client *Client, cache scanner.CacheConfig, logger zerolog.Logger) *Scanner {
	return &Scanner{
		client:   client,
		searches: scanner.NewCache[string](cache),
		logger:   logger.With().Str("scanner", Name).Logger(),
	}
}

// Name returns the scanner name.
func (s *Scanner) Name() string {
	return Name
}

// LookupSeries searches TVDB for a series and returns the best match's ID.
func (s *Scanner) LookupSeries(ctx context.Context, title string, year int) (string, error) {
	key := fmt.Sprintf("%s:%d", strings.ToLower(title), year)
	if id, ok := s.searches.Get(key); ok {
		return id, nil
	}

	results, err := s.client.SearchSeries(ctx, title, year)
	if err != nil {
		return "", err
	}

	id := bestMatch(results, title, year)
	s.searches.Set(key, id)
	return id, nil
}

// ResolveSeriesID finds the TVDB ID of a series. An ID cached by another
// source's external ID mapping is used without a search.
func (s *Scanner) ResolveSeriesID(ctx context.Context, series *library.Series) (string, error) {
	return scanner.ResolveID(ctx, series, Name, s.LookupSeries)
}

// ScanSeries fetches the extended series record and merges it into series.
func (s *Scanner) ScanSeries(ctx context.Context, id string, series *library.Series) error {
	tvdbID, err := parseID(id)
	if err != nil {
		return err
	}

	d, err := s.client.GetSeries(ctx, tvdbID)
	if err != nil {
		return fmt.Errorf("failed to get series %d: %w", tvdbID, err)
	}

	series.SetTitle(Name, d.Name)
	series.SetYear(Name, parseYear(firstNonEmpty(d.Year, d.FirstAired)))
	series.SetOverview(Name, d.Overview)
	series.SetGenres(Name, genreNames(d.Genres))
	series.SetPoster(Name, firstNonEmpty(d.Image, artwork(d.Artworks, artworkPoster)))
	series.SetFanart(Name, artwork(d.Artworks, artworkBackground))

	for _, rid := range d.RemoteIDs {
		switch rid.SourceName {
		case "IMDB":
			setMissingID(series, "imdb", rid.ID)
		case "TheMovieDB.com":
			setMissingID(series, "tmdb", rid.ID)
		}
	}

	s.logger.Debug().Int64("seriesId", series.ID).Int("tvdbId", tvdbID).Str("title", d.Name).Msg("Scanned series")
	return nil
}

// ScanSeason fills season details from the official season list of the
// series identified by seriesID.
func (s *Scanner) ScanSeason(ctx context.Context, seriesID string, season *library.Season) error {
	tvdbID, err := parseID(seriesID)
	if err != nil {
		return err
	}

	d, err := s.client.GetSeries(ctx, tvdbID)
	if err != nil {
		return fmt.Errorf("failed to get series %d: %w", tvdbID, err)
	}

	for _, ss := range d.Seasons {
		if ss.Number != season.SeasonNumber || (ss.Type.Type != "" && ss.Type.Type != "official") {
			continue
		}
		season.SetTitle(Name, ss.Name)
		season.SetYear(Name, parseYear(ss.Year))
		season.SetPoster(Name, ss.Image)
		season.SetSourceID(Name, strconv.Itoa(ss.ID))
		return nil
	}
	return fmt.Errorf("season %d of series %d: %w", season.SeasonNumber, tvdbID, scanner.ErrNotFound)
}

// ScanEpisode fetches episode details for the series identified by seriesID.
func (s *Scanner) ScanEpisode(ctx context.Context, seriesID string, seasonNumber int, episode *library.VideoData) error {
	tvdbID, err := parseID(seriesID)
	if err != nil {
		return err
	}

	d, err := s.client.GetEpisode(ctx, tvdbID, seasonNumber, episode.EpisodeNumber)
	if err != nil {
		return fmt.Errorf("failed to get episode S%02dE%02d of series %d: %w", seasonNumber, episode.EpisodeNumber, tvdbID, err)
	}

	episode.SetTitle(Name, d.Name)
	episode.SetOverview(Name, d.Overview)
	episode.SetYear(Name, parseYear(d.Aired))
	episode.SetRuntime(Name, d.Runtime)
	episode.SetPoster(Name, d.Image)
	if d.ID > 0 {
		episode.SetSourceID(Name, strconv.Itoa(d.ID))
	}
	return nil
}

// bestMatch prefers an exact name or alias match in the right year, then any
// result from the right year, then the first result.
func bestMatch(results []SearchResult, title string, year int) string {
	if len(results) == 0 {
		return ""
	}

	want := normalizeTitle(title)
	yearOK := func(r SearchResult) bool {
		y := parseYear(r.Year)
		return year == 0 || y == 0 || y == year
	}
	matches := func(r SearchResult) bool {
		if normalizeTitle(r.Name) == want {
			return true
		}
		for _, name := range r.Translations {
			if normalizeTitle(name) == want {
				return true
			}
		}
		for _, alias := range r.Aliases {
			if normalizeTitle(alias) == want {
				return true
			}
		}
		return false
	}

	for _, r := range results {
		if yearOK(r) && matches(r) {
			return r.TvdbID
		}
	}
	if year > 0 {
		for _, r := range results {
			if parseYear(r.Year) == year {
				return r.TvdbID
			}
		}
	}
	return results[0].TvdbID
}

// artwork returns the highest scored image of the given type.
func artwork(artworks []Artwork, kind int) string {
	best := -1
	for i, a := range artworks {
		if a.Type != kind || a.Image == "" {
			continue
		}
		if best < 0 || a.Score > artworks[best].Score {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return artworks[best].Image
}

func setMissingID(series *library.Series, source, id string) {
	if scanner.ValidID(id) && !scanner.ValidID(series.SourceID(source)) {
		series.SetSourceID(source, id)
	}
}

func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func genreNames(genres []Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseYear reads the leading year of "2008" or "2008-01-20".
func parseYear(s string) int {
	if len(s) < 4 {
		return 0
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0
	}
	return year
}

func parseID(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid TVDB id %q", id)
	}
	return n, nil
}
