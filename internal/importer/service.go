// Package importer turns staged media files into library entities.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/library"
	"github.com/slipstream/mediascan/internal/staging"
	"github.com/slipstream/mediascan/internal/status"
)

// ErrUnparseable is returned when no title can be derived from a path.
var ErrUnparseable = errors.New("cannot derive a title from path")

// StagedFiles is the staging persistence the importer needs.
type StagedFiles interface {
	Get(ctx context.Context, id int64) (*staging.StagedFile, error)
	SetStatus(ctx context.Context, id int64, to status.Status) error
}

// Library is the library persistence the importer needs.
type Library interface {
	UpsertVideo(ctx context.Context, input library.VideoInput) (*library.VideoData, bool, error)
	DeleteVideoByPath(ctx context.Context, path string) (bool, error)
	EnsureSeries(ctx context.Context, title string, year int) (*library.Series, error)
	EnsureSeason(ctx context.Context, seriesID int64, number int) (*library.Season, error)
	ScheduleScan(ctx context.Context, kind library.EntityKind, id int64) error
}

// Service imports staged video files into the library.
type Service struct {
	staged  StagedFiles
	library Library
	logger  zerolog.Logger
}

// NewService creates an import service.
func NewService(staged StagedFiles, lib Library, logger zerolog.Logger) *Service {
	return &Service{
		staged:  staged,
		library: lib,
		logger:  logger.With().Str("component", "importer").Logger(),
	}
}

// Import processes one claimed staged file. The file ends DONE with its
// video scheduled for a metadata scan, or DELETED when it no longer exists.
// Any returned error leaves the status to the caller.
func (s *Service) Import(ctx context.Context, stagedFileID int64) error {
	file, err := s.staged.Get(ctx, stagedFileID)
	if err != nil {
		return err
	}

	if _, err := os.Stat(file.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.removeVanished(ctx, file)
		}
		return fmt.Errorf("failed to stat %s: %w", file.Path, err)
	}

	parsed := ParsePath(file.Path)
	if parsed.Title == "" {
		return fmt.Errorf("%w: %s", ErrUnparseable, file.Path)
	}

	var video *library.VideoData
	if parsed.IsEpisode {
		video, err = s.importEpisode(ctx, file, parsed)
	} else {
		video, err = s.importMovie(ctx, file, parsed)
	}
	if err != nil {
		return err
	}

	if err := s.staged.SetStatus(ctx, file.ID, status.Done); err != nil {
		return err
	}

	s.logger.Info().
		Int64("stagedFileId", file.ID).
		Int64("videoId", video.ID).
		Str("kind", string(video.Kind)).
		Str("title", parsed.Title).
		Int("year", parsed.Year).
		Msg("Imported file")
	return nil
}

func (s *Service) importMovie(ctx context.Context, file *staging.StagedFile, parsed *ParsedPath) (*library.VideoData, error) {
	video, _, err := s.library.UpsertVideo(ctx, library.VideoInput{
		StagedFileID:  file.ID,
		Path:          file.Path,
		Kind:          library.VideoMovie,
		Title:         parsed.Title,
		OriginalTitle: parsed.OriginalTitle,
		Year:          parsed.Year,
	})
	return video, err
}

func (s *Service) importEpisode(ctx context.Context, file *staging.StagedFile, parsed *ParsedPath) (*library.VideoData, error) {
	series, err := s.library.EnsureSeries(ctx, parsed.Title, parsed.Year)
	if err != nil {
		return nil, err
	}
	season, err := s.library.EnsureSeason(ctx, series.ID, parsed.Season)
	if err != nil {
		return nil, err
	}

	video, created, err := s.library.UpsertVideo(ctx, library.VideoInput{
		StagedFileID:  file.ID,
		Path:          file.Path,
		Kind:          library.VideoEpisode,
		Title:         parsed.Title,
		Year:          parsed.Year,
		SeasonID:      &season.ID,
		EpisodeNumber: parsed.Episode,
	})
	if err != nil {
		return nil, err
	}

	// A new episode in an already scanned season changes the season's
	// episode list.
	if created && scanned(season.ScanStatus) {
		if err := s.library.ScheduleScan(ctx, library.KindSeason, season.ID); err != nil {
			return nil, err
		}
	}
	return video, nil
}

func scanned(st status.Status) bool {
	return st == status.Done || st == status.Error
}

func (s *Service) removeVanished(ctx context.Context, file *staging.StagedFile) error {
	if err := s.staged.SetStatus(ctx, file.ID, status.Deleted); err != nil {
		return err
	}
	removed, err := s.library.DeleteVideoByPath(ctx, file.Path)
	if err != nil {
		return err
	}
	s.logger.Info().
		Int64("stagedFileId", file.ID).
		Str("path", file.Path).
		Bool("videoRemoved", removed).
		Msg("Staged file vanished before import")
	return nil
}
