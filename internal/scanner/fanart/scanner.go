package fanart

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/library"
	"github.com/slipstream/mediascan/internal/scanner"
)

// Name is the source name fanart.tv values are recorded under.
const Name = "fanart"

// Source names whose identifiers fanart.tv accepts.
const (
	sourceTMDB = "tmdb"
	sourceIMDb = "imdb"
	sourceTVDB = "tvdb"
)

// Scanner fills poster and background artwork from fanart.tv. It has no
// search endpoint of its own, so it keys on identifiers other sources cached
// on the entity.
type Scanner struct {
	client      *Client
	movieLookup scanner.LookupFunc
	language    string
	logger      zerolog.Logger
}

// NewScanner creates a fanart.tv scanner. movieLookup, when set, finds a TMDB
// ID for movies that have none cached yet.
func NewScanner(client *Client, movieLookup scanner.LookupFunc, logger zerolog.Logger) *Scanner {
	return &Scanner{
		client:      client,
		movieLookup: movieLookup,
		language:    "en",
		logger:      logger.With().Str("scanner", Name).Logger(),
	}
}

// Name returns the scanner name.
func (s *Scanner) Name() string {
	return Name
}

// ResolveMovieArtworkID returns the TMDB or IMDb ID to fetch movie artwork by.
func (s *Scanner) ResolveMovieArtworkID(ctx context.Context, video *library.VideoData) (string, error) {
	for _, source := range []string{sourceTMDB, sourceIMDb} {
		if id := video.SourceID(source); scanner.ValidID(id) {
			return id, nil
		}
	}
	if s.movieLookup == nil {
		return "", nil
	}
	return scanner.ResolveID(ctx, video, sourceTMDB, s.movieLookup)
}

// ScanMovieArtwork fetches artwork for a movie.
func (s *Scanner) ScanMovieArtwork(ctx context.Context, id string, video *library.VideoData) error {
	images, err := s.client.GetMovieImages(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get movie artwork %s: %w", id, err)
	}

	video.SetPoster(Name, s.pick(images.MoviePoster))
	video.SetFanart(Name, s.pick(images.MovieBackground))
	return nil
}

// ResolveSeriesArtworkID returns the series' TVDB ID.
func (s *Scanner) ResolveSeriesArtworkID(_ context.Context, series *library.Series) (string, error) {
	if id := series.SourceID(sourceTVDB); scanner.ValidID(id) {
		return id, nil
	}
	return "", nil
}

// ScanSeriesArtwork fetches artwork for a series.
func (s *Scanner) ScanSeriesArtwork(ctx context.Context, id string, series *library.Series) error {
	images, err := s.client.GetSeriesImages(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get series artwork %s: %w", id, err)
	}

	series.SetPoster(Name, s.pick(images.TVPoster))
	series.SetFanart(Name, s.pick(images.ShowBackground))
	return nil
}

// pick returns the most liked image in the preferred language, falling back
// to language-neutral and then any image.
func (s *Scanner) pick(images []Image) string {
	var best *Image
	bestRank, bestLikes := -1, -1

	for i := range images {
		img := &images[i]
		if img.URL == "" {
			continue
		}
		rank := 0
		switch img.Lang {
		case s.language:
			rank = 2
		case "", "00":
			rank = 1
		}
		likes, _ := strconv.Atoi(img.Likes)
		if rank > bestRank || (rank == bestRank && likes > bestLikes) {
			best, bestRank, bestLikes = img, rank, likes
		}
	}

	if best == nil {
		return ""
	}
	return best.URL
}
