// Package library holds the media entities that metadata scanners enrich.
package library

import (
	"errors"
	"strings"
	"time"

	"github.com/slipstream/mediascan/internal/status"
)

var (
	ErrVideoNotFound  = errors.New("video not found")
	ErrSeriesNotFound = errors.New("series not found")
	ErrSeasonNotFound = errors.New("season not found")
	ErrUnknownKind    = errors.New("unknown entity kind")
)

// SourceFile marks values parsed from the file name rather than fetched.
// Any scanner may replace them.
const SourceFile = "file"

// Provenance field names.
const (
	FieldTitle         = "title"
	FieldOriginalTitle = "originalTitle"
	FieldYear          = "year"
	FieldOverview      = "overview"
	FieldPoster        = "poster"
	FieldGenres        = "genres"
	FieldRating        = "rating"
	FieldRuntime       = "runtime"
	FieldFanart        = "fanart"
	FieldTrailer       = "trailer"
)

// VideoKind distinguishes movie files from episode files.
type VideoKind string

const (
	VideoMovie   VideoKind = "movie"
	VideoEpisode VideoKind = "episode"
)

// Metadata is the descriptive part shared by every entity.
//
// Setters record the writing source per field. A field owned by one source
// is only replaced by that same source, so when scanners run in configured
// order the first source to provide a value keeps it.
type Metadata struct {
	Title         string            `json:"title"`
	OriginalTitle string            `json:"originalTitle,omitempty"`
	Year          int               `json:"year,omitempty"`
	Overview      string            `json:"overview,omitempty"`
	PosterURL     string            `json:"posterUrl,omitempty"`
	SourceIDs     map[string]string `json:"sourceIds,omitempty"`
	Provenance    map[string]string `json:"provenance,omitempty"`
}

// ScanState tracks where an entity is in the metadata scan lifecycle.
type ScanState struct {
	ScanStatus    status.Status `json:"scanStatus"`
	ScanDate      *time.Time    `json:"scanDate,omitempty"`
	LastScannedAt *time.Time    `json:"lastScannedAt,omitempty"`
	ScanError     string        `json:"scanError,omitempty"`
}

// VideoData is a single video file: a movie or one episode of a series.
type VideoData struct {
	ID            int64     `json:"id"`
	StagedFileID  *int64    `json:"stagedFileId,omitempty"`
	Path          string    `json:"path"`
	Kind          VideoKind `json:"kind"`
	SeasonID      *int64    `json:"seasonId,omitempty"`
	EpisodeNumber int       `json:"episodeNumber,omitempty"`
	Metadata
	Genres     []string `json:"genres,omitempty"`
	Rating     float64  `json:"rating,omitempty"`
	Runtime    int      `json:"runtime,omitempty"`
	FanartURL  string   `json:"fanartUrl,omitempty"`
	TrailerURL string   `json:"trailerUrl,omitempty"`
	ScanState
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Series is a TV show.
type Series struct {
	ID int64 `json:"id"`
	Metadata
	Genres    []string `json:"genres,omitempty"`
	Rating    float64  `json:"rating,omitempty"`
	FanartURL string   `json:"fanartUrl,omitempty"`
	ScanState
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Season is one season of a series.
type Season struct {
	ID           int64 `json:"id"`
	SeriesID     int64 `json:"seriesId"`
	SeasonNumber int   `json:"seasonNumber"`
	Metadata
	ScanState
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsMovie reports whether the video is a movie file.
func (v *VideoData) IsMovie() bool {
	return v.Kind == VideoMovie
}

// DisplayTitle returns the title shown to users.
func (m *Metadata) DisplayTitle() string {
	return m.Title
}

// OriginalLanguageTitle returns the title in the original language, if known.
func (m *Metadata) OriginalLanguageTitle() string {
	return m.OriginalTitle
}

// ReleaseYear returns the release year, or 0.
func (m *Metadata) ReleaseYear() int {
	return m.Year
}

// SourceID returns the cached identifier for source.
func (m *Metadata) SourceID(source string) string {
	return m.SourceIDs[normalizeSource(source)]
}

// SetSourceID caches the identifier for source.
func (m *Metadata) SetSourceID(source, id string) {
	if m.SourceIDs == nil {
		m.SourceIDs = make(map[string]string)
	}
	m.SourceIDs[normalizeSource(source)] = id
}

// FieldSource returns the source that last wrote field.
func (m *Metadata) FieldSource(field string) string {
	return m.Provenance[field]
}

// claim reports whether source may write field and records it as owner.
func (m *Metadata) claim(field, source string, currentEmpty bool) bool {
	source = normalizeSource(source)
	owner := m.Provenance[field]
	if !currentEmpty && owner != "" && owner != SourceFile && owner != source {
		return false
	}
	if m.Provenance == nil {
		m.Provenance = make(map[string]string)
	}
	m.Provenance[field] = source
	return true
}

// SetTitle sets the display title.
func (m *Metadata) SetTitle(source, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" || !m.claim(FieldTitle, source, m.Title == "") {
		return false
	}
	m.Title = title
	return true
}

// SetOriginalTitle sets the original language title.
func (m *Metadata) SetOriginalTitle(source, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" || !m.claim(FieldOriginalTitle, source, m.OriginalTitle == "") {
		return false
	}
	m.OriginalTitle = title
	return true
}

// SetYear sets the release year.
func (m *Metadata) SetYear(source string, year int) bool {
	if year <= 0 || !m.claim(FieldYear, source, m.Year == 0) {
		return false
	}
	m.Year = year
	return true
}

// SetOverview sets the plot summary.
func (m *Metadata) SetOverview(source, overview string) bool {
	overview = strings.TrimSpace(overview)
	if overview == "" || !m.claim(FieldOverview, source, m.Overview == "") {
		return false
	}
	m.Overview = overview
	return true
}

// SetPoster sets the poster image URL.
func (m *Metadata) SetPoster(source, url string) bool {
	if url == "" || !m.claim(FieldPoster, source, m.PosterURL == "") {
		return false
	}
	m.PosterURL = url
	return true
}

// SetGenres sets the genre list.
func (v *VideoData) SetGenres(source string, genres []string) bool {
	if len(genres) == 0 || !v.claim(FieldGenres, source, len(v.Genres) == 0) {
		return false
	}
	v.Genres = genres
	return true
}

// SetRating sets the community rating.
func (v *VideoData) SetRating(source string, rating float64) bool {
	if rating <= 0 || !v.claim(FieldRating, source, v.Rating == 0) {
		return false
	}
	v.Rating = rating
	return true
}

// SetRuntime sets the runtime in minutes.
func (v *VideoData) SetRuntime(source string, minutes int) bool {
	if minutes <= 0 || !v.claim(FieldRuntime, source, v.Runtime == 0) {
		return false
	}
	v.Runtime = minutes
	return true
}

// SetFanart sets the backdrop image URL.
func (v *VideoData) SetFanart(source, url string) bool {
	if url == "" || !v.claim(FieldFanart, source, v.FanartURL == "") {
		return false
	}
	v.FanartURL = url
	return true
}

// SetTrailer sets the trailer URL.
func (v *VideoData) SetTrailer(source, url string) bool {
	if url == "" || !v.claim(FieldTrailer, source, v.TrailerURL == "") {
		return false
	}
	v.TrailerURL = url
	return true
}

// SetGenres sets the genre list.
func (s *Series) SetGenres(source string, genres []string) bool {
	if len(genres) == 0 || !s.claim(FieldGenres, source, len(s.Genres) == 0) {
		return false
	}
	s.Genres = genres
	return true
}

// SetRating sets the community rating.
func (s *Series) SetRating(source string, rating float64) bool {
	if rating <= 0 || !s.claim(FieldRating, source, s.Rating == 0) {
		return false
	}
	s.Rating = rating
	return true
}

// SetFanart sets the backdrop image URL.
func (s *Series) SetFanart(source, url string) bool {
	if url == "" || !s.claim(FieldFanart, source, s.FanartURL == "") {
		return false
	}
	s.FanartURL = url
	return true
}

func normalizeSource(source string) string {
	return strings.ToLower(strings.TrimSpace(source))
}
