package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/slipstream/mediascan/internal/database/sqlc"
	"github.com/slipstream/mediascan/internal/status"
)

// Store persists library entities.
type Store struct {
	db      *sql.DB
	queries *sqlc.Queries
	now     func() time.Time
}

// NewStore creates a library store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:      db,
		queries: sqlc.New(db),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// VideoInput describes a video file produced by import.
type VideoInput struct {
	StagedFileID  int64
	Path          string
	Kind          VideoKind
	Title         string
	OriginalTitle string
	Year          int
	SeasonID      *int64
	EpisodeNumber int
}

// GetVideo retrieves a video by ID.
func (s *Store) GetVideo(ctx context.Context, id int64) (*VideoData, error) {
	row, err := s.queries.GetVideo(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return rowToVideo(row), nil
}

// GetVideoByPath retrieves a video by file path.
func (s *Store) GetVideoByPath(ctx context.Context, path string) (*VideoData, error) {
	row, err := s.queries.GetVideoByPath(ctx, path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return rowToVideo(row), nil
}

// UpsertVideo creates the video for a path, or refreshes the file-derived
// fields of an existing one. Either way the video is scheduled for a scan.
// Scanner-owned fields are left alone on update.
func (s *Store) UpsertVideo(ctx context.Context, input VideoInput) (*VideoData, bool, error) {
	now := s.now()
	scanDate := sql.NullTime{Time: now, Valid: true}

	existing, err := s.GetVideoByPath(ctx, input.Path)
	if err != nil && !errors.Is(err, ErrVideoNotFound) {
		return nil, false, err
	}

	if existing == nil {
		row, err := s.queries.CreateVideo(ctx, sqlc.CreateVideoParams{
			StagedFileID:  sql.NullInt64{Int64: input.StagedFileID, Valid: input.StagedFileID > 0},
			Path:          input.Path,
			Kind:          string(input.Kind),
			Title:         input.Title,
			OriginalTitle: input.OriginalTitle,
			Year:          int64(input.Year),
			SeasonID:      nullInt64(input.SeasonID),
			EpisodeNumber: int64(input.EpisodeNumber),
			ScanStatus:    status.New.String(),
			ScanDate:      scanDate,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return nil, false, fmt.Errorf("failed to create video: %w", err)
		}
		video := rowToVideo(row)
		if err := s.seedFileProvenance(ctx, video); err != nil {
			return nil, false, err
		}
		return video, true, nil
	}

	existing.SetTitle(SourceFile, input.Title)
	existing.SetOriginalTitle(SourceFile, input.OriginalTitle)
	existing.SetYear(SourceFile, input.Year)

	if err := s.queries.UpdateVideoFile(ctx, sqlc.UpdateVideoFileParams{
		StagedFileID:  sql.NullInt64{Int64: input.StagedFileID, Valid: input.StagedFileID > 0},
		Title:         existing.Title,
		OriginalTitle: existing.OriginalTitle,
		Year:          int64(existing.Year),
		SeasonID:      nullInt64(input.SeasonID),
		EpisodeNumber: int64(input.EpisodeNumber),
		ScanStatus:    status.Updated.String(),
		ScanDate:      scanDate,
		UpdatedAt:     now,
		ID:            existing.ID,
	}); err != nil {
		return nil, false, fmt.Errorf("failed to update video: %w", err)
	}

	video, err := s.GetVideo(ctx, existing.ID)
	if err != nil {
		return nil, false, err
	}
	return video, false, nil
}

// seedFileProvenance marks file-derived fields so any scanner may replace them.
func (s *Store) seedFileProvenance(ctx context.Context, video *VideoData) error {
	video.Provenance = map[string]string{FieldTitle: SourceFile}
	if video.OriginalTitle != "" {
		video.Provenance[FieldOriginalTitle] = SourceFile
	}
	if video.Year > 0 {
		video.Provenance[FieldYear] = SourceFile
	}
	return s.SaveVideo(ctx, video)
}

// DeleteVideoByPath removes the video for a vanished file.
func (s *Store) DeleteVideoByPath(ctx context.Context, path string) (bool, error) {
	n, err := s.queries.DeleteVideoByPath(ctx, path)
	if err != nil {
		return false, fmt.Errorf("failed to delete video: %w", err)
	}
	return n > 0, nil
}

// SaveVideo persists scanner-provided metadata.
func (s *Store) SaveVideo(ctx context.Context, v *VideoData) error {
	genres, sourceIDs, provenance, err := encodeMetadata(v.Genres, v.Metadata)
	if err != nil {
		return err
	}

	if err := s.queries.UpdateVideoMetadata(ctx, sqlc.UpdateVideoMetadataParams{
		Title:         v.Title,
		OriginalTitle: v.OriginalTitle,
		Year:          int64(v.Year),
		Overview:      v.Overview,
		Genres:        genres,
		Rating:        v.Rating,
		Runtime:       int64(v.Runtime),
		PosterUrl:     v.PosterURL,
		FanartUrl:     v.FanartURL,
		TrailerUrl:    v.TrailerURL,
		SourceIds:     sourceIDs,
		Provenance:    provenance,
		UpdatedAt:     s.now(),
		ID:            v.ID,
	}); err != nil {
		return fmt.Errorf("failed to save video: %w", err)
	}
	return nil
}

// GetSeries retrieves a series by ID.
func (s *Store) GetSeries(ctx context.Context, id int64) (*Series, error) {
	row, err := s.queries.GetSeries(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		return nil, fmt.Errorf("failed to get series: %w", err)
	}
	return rowToSeries(row), nil
}

// EnsureSeries returns the series with title and year, creating it if needed.
// Newly created series are scheduled for a scan.
func (s *Store) EnsureSeries(ctx context.Context, title string, year int) (*Series, error) {
	row, err := s.queries.GetSeriesByTitleYear(ctx, sqlc.GetSeriesByTitleYearParams{
		Title: title,
		Year:  int64(year),
	})
	if err == nil {
		return rowToSeries(row), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get series: %w", err)
	}

	now := s.now()
	row, err = s.queries.CreateSeries(ctx, sqlc.CreateSeriesParams{
		Title:      title,
		Year:       int64(year),
		ScanStatus: status.New.String(),
		ScanDate:   sql.NullTime{Time: now, Valid: true},
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create series: %w", err)
	}

	series := rowToSeries(row)
	series.Provenance = map[string]string{FieldTitle: SourceFile}
	if year > 0 {
		series.Provenance[FieldYear] = SourceFile
	}
	if err := s.SaveSeries(ctx, series); err != nil {
		return nil, err
	}
	return series, nil
}

// SaveSeries persists the scanned metadata of a series. Identifiers stored
// since the series was loaded, by a concurrent season or episode scan, are
// kept when the series has none of its own for that source.
func (s *Store) SaveSeries(ctx context.Context, series *Series) error {
	return s.updateSeries(ctx, series.ID, func(stored *Series) (*Series, bool) {
		for source, value := range stored.SourceIDs {
			if series.SourceID(source) == "" && value != "" {
				series.SetSourceID(source, value)
			}
		}
		return series, true
	})
}

// MergeSeriesSourceIDs records identifiers on a series without touching
// its other metadata. Identifiers already stored are kept.
func (s *Store) MergeSeriesSourceIDs(ctx context.Context, id int64, ids map[string]string) error {
	return s.updateSeries(ctx, id, func(stored *Series) (*Series, bool) {
		changed := false
		for source, value := range ids {
			if stored.SourceID(source) == "" && value != "" {
				stored.SetSourceID(source, value)
				changed = true
			}
		}
		return stored, changed
	})
}

// updateSeries reads the stored series and writes back what fn returns, in
// one transaction. Nothing is written when fn reports no change.
func (s *Store) updateSeries(ctx context.Context, id int64, fn func(stored *Series) (*Series, bool)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := s.queries.WithTx(tx)
	row, err := q.GetSeries(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSeriesNotFound
		}
		return fmt.Errorf("failed to get series: %w", err)
	}

	series, changed := fn(rowToSeries(row))
	if !changed {
		return nil
	}

	genres, sourceIDs, provenance, err := encodeMetadata(series.Genres, series.Metadata)
	if err != nil {
		return err
	}
	if err := q.UpdateSeriesMetadata(ctx, sqlc.UpdateSeriesMetadataParams{
		Title:         series.Title,
		OriginalTitle: series.OriginalTitle,
		Year:          int64(series.Year),
		Overview:      series.Overview,
		Genres:        genres,
		Rating:        series.Rating,
		PosterUrl:     series.PosterURL,
		FanartUrl:     series.FanartURL,
		SourceIds:     sourceIDs,
		Provenance:    provenance,
		UpdatedAt:     s.now(),
		ID:            id,
	}); err != nil {
		return fmt.Errorf("failed to save series: %w", err)
	}
	return tx.Commit()
}

// GetSeason retrieves a season by ID.
func (s *Store) GetSeason(ctx context.Context, id int64) (*Season, error) {
	row, err := s.queries.GetSeason(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("failed to get season: %w", err)
	}
	return rowToSeason(row), nil
}

// EnsureSeason returns the season of a series, creating it if needed.
// Newly created seasons are scheduled for a scan.
func (s *Store) EnsureSeason(ctx context.Context, seriesID int64, number int) (*Season, error) {
	row, err := s.queries.GetSeasonByNumber(ctx, sqlc.GetSeasonByNumberParams{
		SeriesID:     seriesID,
		SeasonNumber: int64(number),
	})
	if err == nil {
		return rowToSeason(row), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get season: %w", err)
	}

	now := s.now()
	row, err = s.queries.CreateSeason(ctx, sqlc.CreateSeasonParams{
		SeriesID:     seriesID,
		SeasonNumber: int64(number),
		ScanStatus:   status.New.String(),
		ScanDate:     sql.NullTime{Time: now, Valid: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create season: %w", err)
	}
	return rowToSeason(row), nil
}

// SaveSeason persists scanner-provided metadata.
func (s *Store) SaveSeason(ctx context.Context, season *Season) error {
	_, sourceIDs, provenance, err := encodeMetadata(nil, season.Metadata)
	if err != nil {
		return err
	}

	if err := s.queries.UpdateSeasonMetadata(ctx, sqlc.UpdateSeasonMetadataParams{
		Title:      season.Title,
		Overview:   season.Overview,
		Year:       int64(season.Year),
		PosterUrl:  season.PosterURL,
		SourceIds:  sourceIDs,
		Provenance: provenance,
		UpdatedAt:  s.now(),
		ID:         season.ID,
	}); err != nil {
		return fmt.Errorf("failed to save season: %w", err)
	}
	return nil
}

// ScheduleScan flags an existing series or season for a fresh scan.
func (s *Store) ScheduleScan(ctx context.Context, kind EntityKind, id int64) error {
	now := s.now()
	date := sql.NullTime{Time: now, Valid: true}

	var err error
	switch kind {
	case KindSeries:
		err = s.queries.ScheduleSeriesScan(ctx, sqlc.ScheduleSeriesScanParams{
			ScanStatus: status.Updated.String(), ScanDate: date, UpdatedAt: now, ID: id,
		})
	case KindSeason:
		err = s.queries.ScheduleSeasonScan(ctx, sqlc.ScheduleSeasonScanParams{
			ScanStatus: status.Updated.String(), ScanDate: date, UpdatedAt: now, ID: id,
		})
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to schedule %s scan: %w", kind, err)
	}
	return nil
}

// SetScanStatus records the scan status of an entity. DONE and ERROR also
// stamp the last scan time; scanErr is stored only for ERROR.
func (s *Store) SetScanStatus(ctx context.Context, kind EntityKind, id int64, st status.Status, scanErr string) error {
	now := s.now()

	var scannedAt sql.NullTime
	if st == status.Done || st == status.Error {
		scannedAt = sql.NullTime{Time: now, Valid: true}
	}
	var errText sql.NullString
	if st == status.Error && scanErr != "" {
		errText = sql.NullString{String: scanErr, Valid: true}
	}

	var err error
	switch kind {
	case KindVideoData:
		err = s.queries.UpdateVideoScanState(ctx, sqlc.UpdateVideoScanStateParams{
			ScanStatus: st.String(), LastScannedAt: scannedAt, ScanError: errText, UpdatedAt: now, ID: id,
		})
	case KindSeries:
		err = s.queries.UpdateSeriesScanState(ctx, sqlc.UpdateSeriesScanStateParams{
			ScanStatus: st.String(), LastScannedAt: scannedAt, ScanError: errText, UpdatedAt: now, ID: id,
		})
	case KindSeason:
		err = s.queries.UpdateSeasonScanState(ctx, sqlc.UpdateSeasonScanStateParams{
			ScanStatus: st.String(), LastScannedAt: scannedAt, ScanError: errText, UpdatedAt: now, ID: id,
		})
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to set %s scan status: %w", kind, err)
	}
	return nil
}

// FinishScan records the outcome of a scan. It applies only while the
// entity is still in PROCESS, so a rescan requested during the scan is not
// overwritten; applied reports whether it was recorded.
func (s *Store) FinishScan(ctx context.Context, kind EntityKind, id int64, st status.Status, scanErr string) (applied bool, err error) {
	now := s.now()
	scannedAt := sql.NullTime{Time: now, Valid: true}
	var errText sql.NullString
	if st == status.Error && scanErr != "" {
		errText = sql.NullString{String: scanErr, Valid: true}
	}

	var n int64
	switch kind {
	case KindVideoData:
		n, err = s.queries.FinishVideoScan(ctx, sqlc.FinishVideoScanParams{
			ScanStatus: st.String(), LastScannedAt: scannedAt, ScanError: errText, UpdatedAt: now, ID: id,
		})
	case KindSeries:
		n, err = s.queries.FinishSeriesScan(ctx, sqlc.FinishSeriesScanParams{
			ScanStatus: st.String(), LastScannedAt: scannedAt, ScanError: errText, UpdatedAt: now, ID: id,
		})
	case KindSeason:
		n, err = s.queries.FinishSeasonScan(ctx, sqlc.FinishSeasonScanParams{
			ScanStatus: st.String(), LastScannedAt: scannedAt, ScanError: errText, UpdatedAt: now, ID: id,
		})
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if err != nil {
		return false, fmt.Errorf("failed to finish %s scan: %w", kind, err)
	}
	return n > 0, nil
}

// ListEntitiesNeedingScan returns every entity in NEW or UPDATED scan status,
// ordered by CompareQueueItems.
func (s *Store) ListEntitiesNeedingScan(ctx context.Context) ([]QueueItem, error) {
	var items []QueueItem

	videos, err := s.queries.ListVideosNeedingScan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos needing scan: %w", err)
	}
	for _, row := range videos {
		items = append(items, QueueItem{ID: row.ID, Kind: KindVideoData, ScheduledDate: timePtr(row.ScanDate)})
	}

	series, err := s.queries.ListSeriesNeedingScan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list series needing scan: %w", err)
	}
	for _, row := range series {
		items = append(items, QueueItem{ID: row.ID, Kind: KindSeries, ScheduledDate: timePtr(row.ScanDate)})
	}

	seasons, err := s.queries.ListSeasonsNeedingScan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons needing scan: %w", err)
	}
	for _, row := range seasons {
		items = append(items, QueueItem{ID: row.ID, Kind: KindSeason, ScheduledDate: timePtr(row.ScanDate)})
	}

	slices.SortStableFunc(items, CompareQueueItems)
	return items, nil
}

// FlagStaleForRescan moves DONE and ERROR entities last scanned before
// now-olderThan back to UPDATED. It returns how many entities were flagged.
func (s *Store) FlagStaleForRescan(ctx context.Context, olderThan time.Duration) (int64, error) {
	now := s.now()
	before := now.Add(-olderThan)

	videos, err := s.queries.FlagStaleVideos(ctx, sqlc.FlagStaleVideosParams{Now: now, Before: before})
	if err != nil {
		return 0, fmt.Errorf("failed to flag stale videos: %w", err)
	}
	series, err := s.queries.FlagStaleSeries(ctx, sqlc.FlagStaleSeriesParams{Now: now, Before: before})
	if err != nil {
		return 0, fmt.Errorf("failed to flag stale series: %w", err)
	}
	seasons, err := s.queries.FlagStaleSeasons(ctx, sqlc.FlagStaleSeasonsParams{Now: now, Before: before})
	if err != nil {
		return 0, fmt.Errorf("failed to flag stale seasons: %w", err)
	}
	return videos + series + seasons, nil
}

// ResumeInterruptedScans moves entities left in PROCESS by an unclean
// shutdown back to UPDATED so the next scan cycle picks them up.
func (s *Store) ResumeInterruptedScans(ctx context.Context) (int64, error) {
	now := s.now()

	videos, err := s.queries.ResumeInterruptedVideos(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to resume interrupted videos: %w", err)
	}
	series, err := s.queries.ResumeInterruptedSeries(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to resume interrupted series: %w", err)
	}
	seasons, err := s.queries.ResumeInterruptedSeasons(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to resume interrupted seasons: %w", err)
	}
	return videos + series + seasons, nil
}
