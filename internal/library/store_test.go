package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/mediascan/internal/status"
	"github.com/slipstream/mediascan/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testutil.NewTestDB(t).Conn)
}

func TestStore_UpsertVideo(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	video, created, err := store.UpsertVideo(ctx, VideoInput{
		Path:  "/movies/Heat (1995)/Heat.mkv",
		Kind:  VideoMovie,
		Title: "Heat",
		Year:  1995,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, status.New, video.ScanStatus)
	assert.NotNil(t, video.ScanDate)
	assert.Equal(t, SourceFile, video.FieldSource(FieldTitle))

	// A scanner takes ownership of the title.
	video.SetTitle("tmdb", "Heat")
	video.SetOverview("tmdb", "A group of professional bank robbers.")
	video.SetSourceID("tmdb", "949")
	require.NoError(t, store.SaveVideo(ctx, video))
	require.NoError(t, store.SetScanStatus(ctx, KindVideoData, video.ID, status.Done, ""))

	again, created, err := store.UpsertVideo(ctx, VideoInput{
		Path:  "/movies/Heat (1995)/Heat.mkv",
		Kind:  VideoMovie,
		Title: "heat",
		Year:  1995,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, video.ID, again.ID)
	assert.Equal(t, status.Updated, again.ScanStatus)
	assert.Equal(t, "Heat", again.Title, "scanner-owned title survives a re-import")
	assert.Equal(t, "949", again.SourceID("tmdb"))
	assert.Equal(t, "A group of professional bank robbers.", again.Overview)
}

func TestStore_SeriesAndSeasons(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	series, err := store.EnsureSeries(ctx, "Breaking Bad", 2008)
	require.NoError(t, err)
	same, err := store.EnsureSeries(ctx, "Breaking Bad", 2008)
	require.NoError(t, err)
	assert.Equal(t, series.ID, same.ID)
	assert.Equal(t, SourceFile, same.FieldSource(FieldTitle))

	season, err := store.EnsureSeason(ctx, series.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, season.SeasonNumber)
	assert.Equal(t, status.New, season.ScanStatus)

	season.SetOverview("tmdb", "Walt expands.")
	season.SetSourceID("tmdb", "3573")
	require.NoError(t, store.SaveSeason(ctx, season))

	got, err := store.GetSeason(ctx, season.ID)
	require.NoError(t, err)
	assert.Equal(t, "Walt expands.", got.Overview)
	assert.Equal(t, "3573", got.SourceID("tmdb"))

	series.SetGenres("tmdb", []string{"Drama"})
	series.SetFanart("fanart", "https://img/bb.jpg")
	require.NoError(t, store.SaveSeries(ctx, series))

	gotSeries, err := store.GetSeries(ctx, series.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Drama"}, gotSeries.Genres)
	assert.Equal(t, "https://img/bb.jpg", gotSeries.FanartURL)

	_, err = store.GetSeries(ctx, 999)
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}

func TestStore_ListEntitiesNeedingScan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	movie, _, err := store.UpsertVideo(ctx, VideoInput{Path: "/m/a.mkv", Kind: VideoMovie, Title: "A"})
	require.NoError(t, err)
	series, err := store.EnsureSeries(ctx, "Show", 0)
	require.NoError(t, err)
	season, err := store.EnsureSeason(ctx, series.ID, 1)
	require.NoError(t, err)
	done, _, err := store.UpsertVideo(ctx, VideoInput{Path: "/m/b.mkv", Kind: VideoMovie, Title: "B"})
	require.NoError(t, err)
	require.NoError(t, store.SetScanStatus(ctx, KindVideoData, done.ID, status.Done, ""))

	items, err := store.ListEntitiesNeedingScan(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, QueueItem{ID: movie.ID, Kind: KindVideoData}, withoutDate(items[0]))
	assert.Equal(t, QueueItem{ID: series.ID, Kind: KindSeries}, withoutDate(items[1]))
	assert.Equal(t, QueueItem{ID: season.ID, Kind: KindSeason}, withoutDate(items[2]))
	for _, it := range items {
		assert.NotNil(t, it.ScheduledDate)
	}
}

func TestStore_SetScanStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	video, _, err := store.UpsertVideo(ctx, VideoInput{Path: "/m/a.mkv", Kind: VideoMovie, Title: "A"})
	require.NoError(t, err)

	require.NoError(t, store.SetScanStatus(ctx, KindVideoData, video.ID, status.Process, ""))
	got, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Process, got.ScanStatus)
	assert.Nil(t, got.LastScannedAt)

	require.NoError(t, store.SetScanStatus(ctx, KindVideoData, video.ID, status.Error, "tmdb: rate limited"))
	got, err = store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Error, got.ScanStatus)
	assert.Equal(t, "tmdb: rate limited", got.ScanError)
	assert.NotNil(t, got.LastScannedAt)

	require.NoError(t, store.SetScanStatus(ctx, KindVideoData, video.ID, status.Done, ""))
	got, err = store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ScanError)

	err = store.SetScanStatus(ctx, EntityKind("BOOK"), 1, status.Done, "")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestStore_FinishScanOnlyFromProcess(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	video, _, err := store.UpsertVideo(ctx, VideoInput{Path: "/m/a.mkv", Kind: VideoMovie, Title: "A"})
	require.NoError(t, err)
	require.NoError(t, store.SetScanStatus(ctx, KindVideoData, video.ID, status.Process, ""))

	// Re-imported while the scan runs.
	_, _, err = store.UpsertVideo(ctx, VideoInput{Path: "/m/a.mkv", Kind: VideoMovie, Title: "A"})
	require.NoError(t, err)

	applied, err := store.FinishScan(ctx, KindVideoData, video.ID, status.Done, "")
	require.NoError(t, err)
	assert.False(t, applied)
	got, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Updated, got.ScanStatus)

	require.NoError(t, store.SetScanStatus(ctx, KindVideoData, video.ID, status.Process, ""))
	applied, err = store.FinishScan(ctx, KindVideoData, video.ID, status.Error, "tmdb: rate limited")
	require.NoError(t, err)
	assert.True(t, applied)
	got, err = store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Error, got.ScanStatus)
	assert.Equal(t, "tmdb: rate limited", got.ScanError)
	assert.NotNil(t, got.LastScannedAt)

	_, err = store.FinishScan(ctx, EntityKind("BOOK"), 1, status.Done, "")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestStore_SaveSeriesKeepsMergedIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	series, err := store.EnsureSeries(ctx, "Breaking Bad", 2008)
	require.NoError(t, err)

	// A season scan records the tvdb ID after the series scan loaded it.
	require.NoError(t, store.MergeSeriesSourceIDs(ctx, series.ID, map[string]string{"tvdb": "81189"}))

	series.SetSourceID("tmdb", "1396")
	series.SetOverview("tmdb", "A chemistry teacher turns to crime.")
	require.NoError(t, store.SaveSeries(ctx, series))

	got, err := store.GetSeries(ctx, series.ID)
	require.NoError(t, err)
	assert.Equal(t, "1396", got.SourceID("tmdb"))
	assert.Equal(t, "81189", got.SourceID("tvdb"))
	assert.Equal(t, "A chemistry teacher turns to crime.", got.Overview)
}

func TestStore_FlagStaleForRescan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	old, _, err := store.UpsertVideo(ctx, VideoInput{Path: "/m/old.mkv", Kind: VideoMovie, Title: "Old"})
	require.NoError(t, err)
	require.NoError(t, store.SetScanStatus(ctx, KindVideoData, old.ID, status.Done, ""))

	store.now = func() time.Time { return base.Add(40 * 24 * time.Hour) }
	fresh, _, err := store.UpsertVideo(ctx, VideoInput{Path: "/m/new.mkv", Kind: VideoMovie, Title: "New"})
	require.NoError(t, err)
	require.NoError(t, store.SetScanStatus(ctx, KindVideoData, fresh.ID, status.Done, ""))

	n, err := store.FlagStaleForRescan(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := store.GetVideo(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Updated, got.ScanStatus)

	got, err = store.GetVideo(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Done, got.ScanStatus)
}

func TestStore_DeleteVideoByPath(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.UpsertVideo(ctx, VideoInput{Path: "/m/a.mkv", Kind: VideoMovie, Title: "A"})
	require.NoError(t, err)

	deleted, err := store.DeleteVideoByPath(ctx, "/m/a.mkv")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.GetVideoByPath(ctx, "/m/a.mkv")
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func withoutDate(it QueueItem) QueueItem {
	it.ScheduledDate = nil
	return it
}

func TestStore_MergeSeriesSourceIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	series, err := store.EnsureSeries(ctx, "Breaking Bad", 2008)
	require.NoError(t, err)
	series.SetOverview("tmdb", "A chemistry teacher turns to crime.")
	series.SetSourceID("tmdb", "1396")
	require.NoError(t, store.SaveSeries(ctx, series))

	require.NoError(t, store.MergeSeriesSourceIDs(ctx, series.ID, map[string]string{
		"tmdb": "9999",
		"tvdb": "81189",
	}))

	got, err := store.GetSeries(ctx, series.ID)
	require.NoError(t, err)
	assert.Equal(t, "1396", got.SourceID("tmdb"), "stored identifiers are kept")
	assert.Equal(t, "81189", got.SourceID("tvdb"))
	assert.Equal(t, "A chemistry teacher turns to crime.", got.Overview)

	assert.ErrorIs(t, store.MergeSeriesSourceIDs(ctx, 424242, map[string]string{"tvdb": "1"}), ErrSeriesNotFound)
}

func TestStore_ResumeInterruptedScans(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	movie, _, err := store.UpsertVideo(ctx, VideoInput{Path: "/m/a.mkv", Kind: VideoMovie, Title: "A"})
	require.NoError(t, err)
	series, err := store.EnsureSeries(ctx, "Lost", 2004)
	require.NoError(t, err)
	require.NoError(t, store.SetScanStatus(ctx, KindVideoData, movie.ID, status.Process, ""))
	require.NoError(t, store.SetScanStatus(ctx, KindSeries, series.ID, status.Done, ""))

	n, err := store.ResumeInterruptedScans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := store.GetVideo(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Updated, got.ScanStatus)

	gotSeries, err := store.GetSeries(ctx, series.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Done, gotSeries.ScanStatus)
}
