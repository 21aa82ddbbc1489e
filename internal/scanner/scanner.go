// Package scanner defines the metadata scanner plugin contracts, the registry
// that looks them up by name, and the shared identifier resolution protocol.
package scanner

import (
	"context"
	"errors"

	"github.com/slipstream/mediascan/internal/library"
)

// Errors shared by scanner implementations.
var (
	ErrAPIKeyMissing = errors.New("API key not configured")
	ErrNotFound      = errors.New("not found at source")
	ErrRateLimited   = errors.New("rate limited by source")
	ErrAPIError      = errors.New("source API error")
)

// Family is a scanner capability set.
type Family string

const (
	FamilyMovie   Family = "movie"
	FamilySeries  Family = "series"
	FamilyFanart  Family = "fanart"
	FamilyTrailer Family = "trailer"
)

// Scanner is implemented by every plugin.
type Scanner interface {
	Name() string
}

// MovieScanner fetches metadata for movie files.
type MovieScanner interface {
	Scanner
	ResolveMovieID(ctx context.Context, video *library.VideoData) (string, error)
	ScanMovie(ctx context.Context, id string, video *library.VideoData) error
}

// SeriesScanner fetches metadata for series, their seasons and episodes.
// Season and episode scans take the series identifier at this source.
type SeriesScanner interface {
	Scanner
	ResolveSeriesID(ctx context.Context, series *library.Series) (string, error)
	ScanSeries(ctx context.Context, id string, series *library.Series) error
	ScanSeason(ctx context.Context, seriesID string, season *library.Season) error
	ScanEpisode(ctx context.Context, seriesID string, seasonNumber int, episode *library.VideoData) error
}

// FanartScanner fetches artwork for movies and series.
type FanartScanner interface {
	Scanner
	ResolveMovieArtworkID(ctx context.Context, video *library.VideoData) (string, error)
	ScanMovieArtwork(ctx context.Context, id string, video *library.VideoData) error
	ResolveSeriesArtworkID(ctx context.Context, series *library.Series) (string, error)
	ScanSeriesArtwork(ctx context.Context, id string, series *library.Series) error
}

// TrailerScanner finds trailers for movies.
type TrailerScanner interface {
	Scanner
	ResolveTrailerID(ctx context.Context, video *library.VideoData) (string, error)
	ScanTrailer(ctx context.Context, id string, video *library.VideoData) error
}
