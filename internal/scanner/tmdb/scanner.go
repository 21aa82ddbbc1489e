package tmdb

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

// Name is the source name TMDB values and identifiers are recorded under.
const Name = "tmdb"

// Scanner scans movies, series, seasons and episodes from TMDB.
type Scanner struct {
	client   *Client
	searches *scanner.Cache[string]
	logger   zerolog.Logger
}

// NewScanner creates a TMDB scanner. Search results are cached per title and year.
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

// LookupMovie searches TMDB for a movie and returns the best match's ID.
func (s *Scanner) LookupMovie(ctx context.Context, title string, year int) (string, error) {
	key := fmt.Sprintf("movie:%s:%d", strings.ToLower(title), year)
	if id, ok := s.searches.Get(key); ok {
		return id, nil
	}

	results, err := s.client.SearchMovies(ctx, title, year)
	if err != nil {
		return "", err
	}

	candidates := make([]candidate, len(results))
	for i, r := range results {
		candidates[i] = candidate{id: r.ID, title: r.Title, original: r.OriginalTitle, year: parseYear(r.ReleaseDate)}
	}

	id := bestMatch(candidates, title, year)
	s.searches.Set(key, id)
	return id, nil
}

// LookupSeries searches TMDB for a series and returns the best match's ID.
func (s *Scanner) LookupSeries(ctx context.Context, title string, year int) (string, error) {
	key := fmt.Sprintf("tv:%s:%d", strings.ToLower(title), year)
	if id, ok := s.searches.Get(key); ok {
		return id, nil
	}

	results, err := s.client.SearchSeries(ctx, title, year)
	if err != nil {
		return "", err
	}

	candidates := make([]candidate, len(results))
	for i, r := range results {
		candidates[i] = candidate{id: r.ID, title: r.Name, original: r.OriginalName, year: parseYear(r.FirstAirDate)}
	}

	id := bestMatch(candidates, title, year)
	s.searches.Set(key, id)
	return id, nil
}

// ResolveMovieID finds the TMDB ID of a movie.
func (s *Scanner) ResolveMovieID(ctx context.Context, video *library.VideoData) (string, error) {
	return scanner.ResolveID(ctx, video, Name, s.LookupMovie)
}

// ScanMovie fetches movie details and merges them into video.
func (s *Scanner) ScanMovie(ctx context.Context, id string, video *library.VideoData) error {
	tmdbID, err := parseID(id)
	if err != nil {
		return err
	}

	d, err := s.client.GetMovie(ctx, tmdbID)
	if err != nil {
		return fmt.Errorf("failed to get movie %d: %w", tmdbID, err)
	}

	video.SetTitle(Name, d.Title)
	video.SetOriginalTitle(Name, d.OriginalTitle)
	video.SetYear(Name, parseYear(d.ReleaseDate))
	video.SetOverview(Name, d.Overview)
	video.SetGenres(Name, genreNames(d.Genres))
	video.SetRating(Name, d.VoteAverage)
	video.SetRuntime(Name, d.Runtime)
	video.SetPoster(Name, s.client.GetImageURL(d.PosterPath, "w500"))
	video.SetFanart(Name, s.client.GetImageURL(d.BackdropPath, "original"))

	imdbID := d.ImdbID
	if imdbID == "" && d.ExternalIDs != nil {
		imdbID = d.ExternalIDs.ImdbID
	}
	if imdbID != "" {
		video.SetSourceID("imdb", imdbID)
	}

	s.logger.Debug().Int64("videoId", video.ID).Int("tmdbId", tmdbID).Str("title", d.Title).Msg("Scanned movie")
	return nil
}

// ResolveSeriesID finds the TMDB ID of a series.
func (s *Scanner) ResolveSeriesID(ctx context.Context, series *library.Series) (string, error) {
	return scanner.ResolveID(ctx, series, Name, s.LookupSeries)
}

// ScanSeries fetches series details and merges them into series.
func (s *Scanner) ScanSeries(ctx context.Context, id string, series *library.Series) error {
	tmdbID, err := parseID(id)
	if err != nil {
		return err
	}

	d, err := s.client.GetSeries(ctx, tmdbID)
	if err != nil {
		return fmt.Errorf("failed to get series %d: %w", tmdbID, err)
	}

	series.SetTitle(Name, d.Name)
	series.SetOriginalTitle(Name, d.OriginalName)
	series.SetYear(Name, parseYear(d.FirstAirDate))
	series.SetOverview(Name, d.Overview)
	series.SetGenres(Name, genreNames(d.Genres))
	series.SetRating(Name, d.VoteAverage)
	series.SetPoster(Name, s.client.GetImageURL(d.PosterPath, "w500"))
	series.SetFanart(Name, s.client.GetImageURL(d.BackdropPath, "original"))

	if d.ExternalIDs != nil {
		if d.ExternalIDs.TvdbID > 0 {
			series.SetSourceID("tvdb", strconv.Itoa(d.ExternalIDs.TvdbID))
		}
		if d.ExternalIDs.ImdbID != "" {
			series.SetSourceID("imdb", d.ExternalIDs.ImdbID)
		}
	}

	s.logger.Debug().Int64("seriesId", series.ID).Int("tmdbId", tmdbID).Str("title", d.Name).Msg("Scanned series")
	return nil
}

// ScanSeason fetches season details for the series identified by seriesID.
func (s *Scanner) ScanSeason(ctx context.Context, seriesID string, season *library.Season) error {
	tmdbID, err := parseID(seriesID)
	if err != nil {
		return err
	}

	d, err := s.client.GetSeason(ctx, tmdbID, season.SeasonNumber)
	if err != nil {
		return fmt.Errorf("failed to get season %d of series %d: %w", season.SeasonNumber, tmdbID, err)
	}

	season.SetTitle(Name, d.Name)
	season.SetOverview(Name, d.Overview)
	season.SetYear(Name, parseYear(d.AirDate))
	season.SetPoster(Name, s.client.GetImageURL(d.PosterPath, "w500"))
	if d.ID > 0 {
		season.SetSourceID(Name, strconv.Itoa(d.ID))
	}
	return nil
}

// ScanEpisode fetches episode details for the series identified by seriesID.
func (s *Scanner) ScanEpisode(ctx context.Context, seriesID string, seasonNumber int, episode *library.VideoData) error {
	tmdbID, err := parseID(seriesID)
	if err != nil {
		return err
	}

	d, err := s.client.GetEpisode(ctx, tmdbID, seasonNumber, episode.EpisodeNumber)
	if err != nil {
		return fmt.Errorf("failed to get episode S%02dE%02d of series %d: %w", seasonNumber, episode.EpisodeNumber, tmdbID, err)
	}

	episode.SetTitle(Name, d.Name)
	episode.SetOverview(Name, d.Overview)
	episode.SetYear(Name, parseYear(d.AirDate))
	episode.SetRuntime(Name, d.Runtime)
	episode.SetRating(Name, d.VoteAverage)
	episode.SetPoster(Name, s.client.GetImageURL(d.StillPath, "w300"))
	if d.ID > 0 {
		episode.SetSourceID(Name, strconv.Itoa(d.ID))
	}
	return nil
}

type candidate struct {
	id       int
	title    string
	original string
	year     int
}

// bestMatch prefers an exact title match in the right year, then any result
// from the right year, then the first result TMDB ranked.
func bestMatch(results []candidate, title string, year int) string {
	if len(results) == 0 {
		return ""
	}

	want := normalizeTitle(title)
	yearOK := func(c candidate) bool { return year == 0 || c.year == 0 || c.year == year }

	for _, c := range results {
		if yearOK(c) && (normalizeTitle(c.title) == want || normalizeTitle(c.original) == want) {
			return strconv.Itoa(c.id)
		}
	}
	if year > 0 {
		for _, c := range results {
			if c.year == year {
				return strconv.Itoa(c.id)
			}
		}
	}
	return strconv.Itoa(results[0].id)
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

func parseID(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid TMDB id %q", id)
	}
	return n, nil
}
