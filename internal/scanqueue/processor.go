package scanqueue

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/library"
	"github.com/slipstream/mediascan/internal/scanner"
	"github.com/slipstream/mediascan/internal/status"
)

// EntityStore loads and persists the entities being scanned.
type EntityStore interface {
	GetVideo(ctx context.Context, id int64) (*library.VideoData, error)
	GetSeries(ctx context.Context, id int64) (*library.Series, error)
	GetSeason(ctx context.Context, id int64) (*library.Season, error)
	SaveVideo(ctx context.Context, v *library.VideoData) error
	SaveSeries(ctx context.Context, series *library.Series) error
	SaveSeason(ctx context.Context, season *library.Season) error
	MergeSeriesSourceIDs(ctx context.Context, id int64, ids map[string]string) error
	SetScanStatus(ctx context.Context, kind library.EntityKind, id int64, st status.Status, scanErr string) error
	FinishScan(ctx context.Context, kind library.EntityKind, id int64, st status.Status, scanErr string) (bool, error)
}

// Sources lists scanner names per family, in the order they run.
type Sources struct {
	Movie   []string
	Series  []string
	Fanart  []string
	Trailer []string
}

// EntityProcessor scans one entity with every configured source and
// records the outcome as its scan status.
type EntityProcessor struct {
	store    EntityStore
	registry *scanner.Registry
	sources  Sources
	logger   zerolog.Logger
}

// NewEntityProcessor creates a processor.
func NewEntityProcessor(store EntityStore, registry *scanner.Registry, sources Sources, logger zerolog.Logger) *EntityProcessor {
	return &EntityProcessor{
		store:    store,
		registry: registry,
		sources:  sources,
		logger:   logger.With().Str("component", "scan-processor").Logger(),
	}
}

// Process implements Processor. The entity ends DONE, or ERROR when any
// scanner invocation failed; the returned error joins those failures.
//
// Results are saved and the outcome recorded even when ctx is cancelled
// while the scan runs.
func (p *EntityProcessor) Process(ctx context.Context, item library.QueueItem) error {
	switch item.Kind {
	case library.KindVideoData, library.KindSeason, library.KindSeries:
	default:
		return fmt.Errorf("%w: %s", library.ErrUnknownKind, item.Kind)
	}

	if err := p.store.SetScanStatus(ctx, item.Kind, item.ID, status.Process, ""); err != nil {
		p.markFailed(ctx, item, err)
		return err
	}

	errs, save, err := p.scan(ctx, item)
	if err != nil {
		if isNotFound(err) {
			return err
		}
		return p.finish(ctx, item, []error{err})
	}

	if err := save(context.WithoutCancel(ctx)); err != nil {
		errs = append(errs, err)
	}
	return p.finish(ctx, item, errs)
}

// scan loads the entity and runs its scanner families. It returns an error
// only when the entity could not be loaded.
func (p *EntityProcessor) scan(ctx context.Context, item library.QueueItem) ([]error, func(context.Context) error, error) {
	switch item.Kind {
	case library.KindVideoData:
		video, err := p.store.GetVideo(ctx, item.ID)
		if err != nil {
			return nil, nil, err
		}
		var errs []error
		if video.IsMovie() {
			errs = p.scanMovie(ctx, video)
		} else {
			errs = p.scanEpisode(ctx, video)
		}
		return errs, func(ctx context.Context) error { return p.store.SaveVideo(ctx, video) }, nil

	case library.KindSeason:
		season, err := p.store.GetSeason(ctx, item.ID)
		if err != nil {
			return nil, nil, err
		}
		errs := p.scanSeason(ctx, season)
		return errs, func(ctx context.Context) error { return p.store.SaveSeason(ctx, season) }, nil

	default:
		series, err := p.store.GetSeries(ctx, item.ID)
		if err != nil {
			return nil, nil, err
		}
		errs := p.scanSeries(ctx, series)
		return errs, func(ctx context.Context) error { return p.store.SaveSeries(ctx, series) }, nil
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, library.ErrVideoNotFound) ||
		errors.Is(err, library.ErrSeasonNotFound) ||
		errors.Is(err, library.ErrSeriesNotFound)
}

// finish records DONE or ERROR. A status changed by someone else while the
// scan ran is left in place.
func (p *EntityProcessor) finish(ctx context.Context, item library.QueueItem, errs []error) error {
	scanErr := errors.Join(errs...)

	st, text := status.Done, ""
	if scanErr != nil {
		st, text = status.Error, scanErr.Error()
	}

	applied, err := p.store.FinishScan(context.WithoutCancel(ctx), item.Kind, item.ID, st, text)
	switch {
	case err != nil && scanErr == nil:
		return err
	case err != nil:
		p.logger.Error().Err(err).Int64("entityId", item.ID).Msg("Failed to record scan error")
	case !applied:
		p.logger.Debug().
			Int64("entityId", item.ID).
			Str("kind", string(item.Kind)).
			Msg("Entity changed during scan, keeping its new status")
	}
	return scanErr
}

// markFailed records ERROR after the scan could not start. A failure here is
// logged and dropped.
func (p *EntityProcessor) markFailed(ctx context.Context, item library.QueueItem, cause error) {
	if err := p.store.SetScanStatus(context.WithoutCancel(ctx), item.Kind, item.ID, status.Error, cause.Error()); err != nil {
		p.logger.Error().Err(err).Int64("entityId", item.ID).Msg("Failed to record scan error")
	}
}

func (p *EntityProcessor) scanMovie(ctx context.Context, video *library.VideoData) []error {
	var errs []error

	for _, name := range p.sources.Movie {
		s, ok := p.registry.Movie(name)
		if !ok {
			p.skip(name, scanner.FamilyMovie, "not registered")
			continue
		}
		id, err := s.ResolveMovieID(ctx, video)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: resolve movie: %w", name, err))
			continue
		}
		if !scanner.ValidID(id) {
			p.skip(name, scanner.FamilyMovie, "no match")
			continue
		}
		if err := s.ScanMovie(ctx, id, video); err != nil {
			errs = append(errs, fmt.Errorf("%s: scan movie: %w", name, err))
		}
	}

	for _, name := range p.sources.Fanart {
		s, ok := p.registry.Fanart(name)
		if !ok {
			p.skip(name, scanner.FamilyFanart, "not registered")
			continue
		}
		id, err := s.ResolveMovieArtworkID(ctx, video)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: resolve artwork: %w", name, err))
			continue
		}
		if !scanner.ValidID(id) {
			p.skip(name, scanner.FamilyFanart, "no match")
			continue
		}
		if err := s.ScanMovieArtwork(ctx, id, video); err != nil {
			errs = append(errs, fmt.Errorf("%s: scan artwork: %w", name, err))
		}
	}

	for _, name := range p.sources.Trailer {
		s, ok := p.registry.Trailer(name)
		if !ok {
			p.skip(name, scanner.FamilyTrailer, "not registered")
			continue
		}
		id, err := s.ResolveTrailerID(ctx, video)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: resolve trailer: %w", name, err))
			continue
		}
		if !scanner.ValidID(id) {
			p.skip(name, scanner.FamilyTrailer, "no match")
			continue
		}
		if err := s.ScanTrailer(ctx, id, video); err != nil {
			errs = append(errs, fmt.Errorf("%s: scan trailer: %w", name, err))
		}
	}

	return errs
}

// scanEpisode scans an episode through its season's series.
func (p *EntityProcessor) scanEpisode(ctx context.Context, video *library.VideoData) []error {
	if video.SeasonID == nil {
		return []error{fmt.Errorf("episode %d has no season", video.ID)}
	}
	season, err := p.store.GetSeason(ctx, *video.SeasonID)
	if err != nil {
		return []error{err}
	}

	return p.withSeries(ctx, season.SeriesID, func(name string, s scanner.SeriesScanner, seriesID string) error {
		if err := s.ScanEpisode(ctx, seriesID, season.SeasonNumber, video); err != nil {
			return fmt.Errorf("%s: scan episode: %w", name, err)
		}
		return nil
	})
}

func (p *EntityProcessor) scanSeason(ctx context.Context, season *library.Season) []error {
	return p.withSeries(ctx, season.SeriesID, func(name string, s scanner.SeriesScanner, seriesID string) error {
		if err := s.ScanSeason(ctx, seriesID, season); err != nil {
			return fmt.Errorf("%s: scan season: %w", name, err)
		}
		return nil
	})
}

// withSeries resolves the parent series at each series source and calls fn
// with its identifier. Only identifiers found on the way are written back;
// other series fields belong to the series' own scan.
func (p *EntityProcessor) withSeries(ctx context.Context, seriesID int64, fn func(name string, s scanner.SeriesScanner, id string) error) []error {
	series, err := p.store.GetSeries(ctx, seriesID)
	if err != nil {
		return []error{err}
	}
	known := maps.Clone(series.SourceIDs)

	var errs []error
	for _, name := range p.sources.Series {
		s, ok := p.registry.Series(name)
		if !ok {
			p.skip(name, scanner.FamilySeries, "not registered")
			continue
		}
		id, err := s.ResolveSeriesID(ctx, series)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: resolve series: %w", name, err))
			continue
		}
		if !scanner.ValidID(id) {
			p.skip(name, scanner.FamilySeries, "no match")
			continue
		}
		if err := fn(name, s, id); err != nil {
			errs = append(errs, err)
		}
	}

	if !maps.Equal(known, series.SourceIDs) {
		if err := p.store.MergeSeriesSourceIDs(ctx, series.ID, series.SourceIDs); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (p *EntityProcessor) scanSeries(ctx context.Context, series *library.Series) []error {
	var errs []error

	for _, name := range p.sources.Series {
		s, ok := p.registry.Series(name)
		if !ok {
			p.skip(name, scanner.FamilySeries, "not registered")
			continue
		}
		id, err := s.ResolveSeriesID(ctx, series)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: resolve series: %w", name, err))
			continue
		}
		if !scanner.ValidID(id) {
			p.skip(name, scanner.FamilySeries, "no match")
			continue
		}
		if err := s.ScanSeries(ctx, id, series); err != nil {
			errs = append(errs, fmt.Errorf("%s: scan series: %w", name, err))
		}
	}

	for _, name := range p.sources.Fanart {
		s, ok := p.registry.Fanart(name)
		if !ok {
			p.skip(name, scanner.FamilyFanart, "not registered")
			continue
		}
		id, err := s.ResolveSeriesArtworkID(ctx, series)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: resolve artwork: %w", name, err))
			continue
		}
		if !scanner.ValidID(id) {
			p.skip(name, scanner.FamilyFanart, "no match")
			continue
		}
		if err := s.ScanSeriesArtwork(ctx, id, series); err != nil {
			errs = append(errs, fmt.Errorf("%s: scan artwork: %w", name, err))
		}
	}

	return errs
}

func (p *EntityProcessor) skip(name string, family scanner.Family, reason string) {
	p.logger.Debug().Str("scanner", name).Str("family", string(family)).Str("reason", reason).Msg("Skipping source")
}
