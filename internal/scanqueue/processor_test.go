package scanqueue

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/mediascan/internal/library"
	"github.com/slipstream/mediascan/internal/scanner"
	"github.com/slipstream/mediascan/internal/status"
	"github.com/slipstream/mediascan/internal/testutil"
)

type fakeMovieScanner struct {
	name    string
	id      string
	scanErr error
	scans   int
}

func (f *fakeMovieScanner) Name() string { return f.name }

func (f *fakeMovieScanner) ResolveMovieID(_ context.Context, v *library.VideoData) (string, error) {
	if f.id == "" {
		return "", nil
	}
	v.SetSourceID(f.name, f.id)
	return f.id, nil
}

func (f *fakeMovieScanner) ScanMovie(_ context.Context, id string, v *library.VideoData) error {
	f.scans++
	if f.scanErr != nil {
		return f.scanErr
	}
	v.SetOverview(f.name, "overview from "+f.name)
	v.SetRuntime(f.name, 100)
	return nil
}

type fakeSeriesScanner struct{}

func (fakeSeriesScanner) Name() string { return "tmdb" }

func (fakeSeriesScanner) ResolveSeriesID(_ context.Context, s *library.Series) (string, error) {
	s.SetSourceID("tmdb", "1396")
	s.SetSourceID("tvdb", "81189")
	return "1396", nil
}

func (fakeSeriesScanner) ScanSeries(_ context.Context, _ string, s *library.Series) error {
	s.SetOverview("tmdb", "A chemistry teacher turns to crime.")
	return nil
}

func (fakeSeriesScanner) ScanSeason(_ context.Context, _ string, season *library.Season) error {
	season.SetTitle("tmdb", fmt.Sprintf("Season %d", season.SeasonNumber))
	return nil
}

func (fakeSeriesScanner) ScanEpisode(_ context.Context, _ string, seasonNumber int, v *library.VideoData) error {
	v.SetTitle("tmdb", fmt.Sprintf("S%02dE%02d", seasonNumber, v.EpisodeNumber))
	return nil
}

type fakeFanartScanner struct{}

func (fakeFanartScanner) Name() string { return "fanart" }

func (fakeFanartScanner) ResolveMovieArtworkID(_ context.Context, v *library.VideoData) (string, error) {
	return v.SourceID("tmdb"), nil
}

func (fakeFanartScanner) ScanMovieArtwork(_ context.Context, id string, v *library.VideoData) error {
	v.SetFanart("fanart", "https://assets.fanart.tv/"+id+".jpg")
	return nil
}

func (fakeFanartScanner) ResolveSeriesArtworkID(_ context.Context, s *library.Series) (string, error) {
	return s.SourceID("tvdb"), nil
}

func (fakeFanartScanner) ScanSeriesArtwork(_ context.Context, id string, s *library.Series) error {
	s.SetFanart("fanart", "https://assets.fanart.tv/tv-"+id+".jpg")
	return nil
}

func newTestProcessor(t *testing.T, sources Sources, scanners ...scanner.Scanner) (*EntityProcessor, *library.Store) {
	t.Helper()
	store := library.NewStore(testutil.NewTestDB(t).Conn)
	registry := scanner.NewRegistry(zerolog.Nop())
	for _, s := range scanners {
		registry.Register(s)
	}
	return NewEntityProcessor(store, registry, sources, zerolog.Nop()), store
}

func createMovie(t *testing.T, store *library.Store, title string) *library.VideoData {
	t.Helper()
	video, _, err := store.UpsertVideo(context.Background(), library.VideoInput{
		Path:  "/movies/" + title + ".mkv",
		Kind:  library.VideoMovie,
		Title: title,
	})
	require.NoError(t, err)
	return video
}

func TestEntityProcessor_Movie(t *testing.T) {
	tmdb := &fakeMovieScanner{name: "tmdb", id: "949"}
	processor, store := newTestProcessor(t,
		Sources{Movie: []string{"tmdb", "unregistered"}, Fanart: []string{"fanart"}},
		tmdb, fakeFanartScanner{})
	ctx := context.Background()

	video := createMovie(t, store, "Heat")
	require.NoError(t, processor.Process(ctx, library.QueueItem{ID: video.ID, Kind: library.KindVideoData}))

	got, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Done, got.ScanStatus)
	assert.NotNil(t, got.LastScannedAt)
	assert.Equal(t, "overview from tmdb", got.Overview)
	assert.Equal(t, "949", got.SourceID("tmdb"))
	assert.Equal(t, "https://assets.fanart.tv/949.jpg", got.FanartURL)
	assert.Equal(t, 1, tmdb.scans)
}

func TestEntityProcessor_ScannerErrorMarksError(t *testing.T) {
	tmdb := &fakeMovieScanner{name: "tmdb", id: "949"}
	omdb := &fakeMovieScanner{name: "omdb", id: "tt0113277", scanErr: errors.New("request limit reached")}
	processor, store := newTestProcessor(t, Sources{Movie: []string{"omdb", "tmdb"}}, tmdb, omdb)
	ctx := context.Background()

	video := createMovie(t, store, "Heat")
	err := processor.Process(ctx, library.QueueItem{ID: video.ID, Kind: library.KindVideoData})
	require.Error(t, err)

	got, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Error, got.ScanStatus)
	assert.Contains(t, got.ScanError, "request limit reached")
	assert.Equal(t, "overview from tmdb", got.Overview, "later sources still run and persist")
}

func TestEntityProcessor_ResolutionMissSkipsSource(t *testing.T) {
	tmdb := &fakeMovieScanner{name: "tmdb"}
	processor, store := newTestProcessor(t, Sources{Movie: []string{"tmdb"}}, tmdb)
	ctx := context.Background()

	video := createMovie(t, store, "Obscure Film")
	require.NoError(t, processor.Process(ctx, library.QueueItem{ID: video.ID, Kind: library.KindVideoData}))

	got, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Done, got.ScanStatus)
	assert.Equal(t, 0, tmdb.scans)
}

func TestEntityProcessor_SentinelIDNeverScanned(t *testing.T) {
	for _, id := range []string{"0", "-1"} {
		t.Run(id, func(t *testing.T) {
			tmdb := &fakeMovieScanner{name: "tmdb", id: id}
			processor, store := newTestProcessor(t, Sources{Movie: []string{"tmdb"}}, tmdb)
			ctx := context.Background()

			video := createMovie(t, store, "Obscure Film")
			require.NoError(t, processor.Process(ctx, library.QueueItem{ID: video.ID, Kind: library.KindVideoData}))

			got, err := store.GetVideo(ctx, video.ID)
			require.NoError(t, err)
			assert.Equal(t, status.Done, got.ScanStatus)
			assert.Equal(t, 0, tmdb.scans)
		})
	}
}

func TestEntityProcessor_RescanRequestedDuringScanSurvives(t *testing.T) {
	processor, store := newTestProcessor(t, Sources{Movie: []string{"tmdb"}})
	ctx := context.Background()

	video := createMovie(t, store, "Heat")
	reimport := &reimportingScanner{store: store}
	processor.registry.Register(reimport)

	require.NoError(t, processor.Process(ctx, library.QueueItem{ID: video.ID, Kind: library.KindVideoData}))
	require.Equal(t, 1, reimport.scans)

	got, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Updated, got.ScanStatus, "the re-import's rescan request is kept")
	assert.Equal(t, "overview from tmdb", got.Overview)
}

// reimportingScanner re-imports the video it is scanning, as a concurrent
// dispatcher run would.
type reimportingScanner struct {
	store *library.Store
	scans int
}

func (r *reimportingScanner) Name() string { return "tmdb" }

func (r *reimportingScanner) ResolveMovieID(context.Context, *library.VideoData) (string, error) {
	return "949", nil
}

func (r *reimportingScanner) ScanMovie(ctx context.Context, _ string, v *library.VideoData) error {
	r.scans++
	if _, _, err := r.store.UpsertVideo(ctx, library.VideoInput{Path: v.Path, Kind: library.VideoMovie, Title: v.Title}); err != nil {
		return err
	}
	v.SetOverview("tmdb", "overview from tmdb")
	return nil
}

func TestEntityProcessor_EpisodeSeasonSeries(t *testing.T) {
	processor, store := newTestProcessor(t,
		Sources{Series: []string{"tmdb"}, Fanart: []string{"fanart"}},
		fakeSeriesScanner{}, fakeFanartScanner{})
	ctx := context.Background()

	series, err := store.EnsureSeries(ctx, "Breaking Bad", 2008)
	require.NoError(t, err)
	season, err := store.EnsureSeason(ctx, series.ID, 2)
	require.NoError(t, err)
	episode, _, err := store.UpsertVideo(ctx, library.VideoInput{
		Path:          "/tv/Breaking Bad/Season 02/Breaking.Bad.S02E03.mkv",
		Kind:          library.VideoEpisode,
		Title:         "Breaking Bad",
		SeasonID:      &season.ID,
		EpisodeNumber: 3,
	})
	require.NoError(t, err)

	require.NoError(t, processor.Process(ctx, library.QueueItem{ID: episode.ID, Kind: library.KindVideoData}))
	gotEpisode, err := store.GetVideo(ctx, episode.ID)
	require.NoError(t, err)
	assert.Equal(t, "S02E03", gotEpisode.Title)
	assert.Equal(t, status.Done, gotEpisode.ScanStatus)

	gotSeries, err := store.GetSeries(ctx, series.ID)
	require.NoError(t, err)
	assert.Equal(t, "81189", gotSeries.SourceID("tvdb"), "series identifiers found while scanning the episode are kept")
	assert.Equal(t, status.New, gotSeries.ScanStatus)

	require.NoError(t, processor.Process(ctx, library.QueueItem{ID: season.ID, Kind: library.KindSeason}))
	gotSeason, err := store.GetSeason(ctx, season.ID)
	require.NoError(t, err)
	assert.Equal(t, "Season 2", gotSeason.Title)
	assert.Equal(t, status.Done, gotSeason.ScanStatus)

	require.NoError(t, processor.Process(ctx, library.QueueItem{ID: series.ID, Kind: library.KindSeries}))
	gotSeries, err = store.GetSeries(ctx, series.ID)
	require.NoError(t, err)
	assert.Equal(t, "A chemistry teacher turns to crime.", gotSeries.Overview)
	assert.Equal(t, "https://assets.fanart.tv/tv-81189.jpg", gotSeries.FanartURL)
	assert.Equal(t, status.Done, gotSeries.ScanStatus)
}

func TestEntityProcessor_LoadErrors(t *testing.T) {
	processor, _ := newTestProcessor(t, Sources{})
	ctx := context.Background()

	err := processor.Process(ctx, library.QueueItem{ID: 404, Kind: library.KindVideoData})
	assert.ErrorIs(t, err, library.ErrVideoNotFound)

	err = processor.Process(ctx, library.QueueItem{ID: 1, Kind: "PERSON"})
	assert.ErrorIs(t, err, library.ErrUnknownKind)
}

// flakyStore fails selected operations of a real store.
type flakyStore struct {
	*library.Store
	getVideoErr error
	processErr  error
}

func (f *flakyStore) GetVideo(ctx context.Context, id int64) (*library.VideoData, error) {
	if f.getVideoErr != nil {
		return nil, f.getVideoErr
	}
	return f.Store.GetVideo(ctx, id)
}

func (f *flakyStore) SetScanStatus(ctx context.Context, kind library.EntityKind, id int64, st status.Status, scanErr string) error {
	if st == status.Process && f.processErr != nil {
		return f.processErr
	}
	return f.Store.SetScanStatus(ctx, kind, id, st, scanErr)
}

func TestEntityProcessor_LoadFailureMarksError(t *testing.T) {
	store := library.NewStore(testutil.NewTestDB(t).Conn)
	ctx := context.Background()
	video := createMovie(t, store, "Heat")

	flaky := &flakyStore{Store: store, getVideoErr: errors.New("database is locked")}
	processor := NewEntityProcessor(flaky, scanner.NewRegistry(zerolog.Nop()), Sources{}, zerolog.Nop())

	err := processor.Process(ctx, library.QueueItem{ID: video.ID, Kind: library.KindVideoData})
	assert.ErrorIs(t, err, flaky.getVideoErr)

	got, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Error, got.ScanStatus)
	assert.Equal(t, "database is locked", got.ScanError)
}

func TestEntityProcessor_BeginFailureMarksError(t *testing.T) {
	store := library.NewStore(testutil.NewTestDB(t).Conn)
	ctx := context.Background()
	video := createMovie(t, store, "Heat")

	flaky := &flakyStore{Store: store, processErr: errors.New("disk I/O error")}
	processor := NewEntityProcessor(flaky, scanner.NewRegistry(zerolog.Nop()), Sources{}, zerolog.Nop())

	err := processor.Process(ctx, library.QueueItem{ID: video.ID, Kind: library.KindVideoData})
	assert.ErrorIs(t, err, flaky.processErr)

	got, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Error, got.ScanStatus)
}

func TestEntityProcessor_CancelledScanStillSaves(t *testing.T) {
	tmdb := &fakeMovieScanner{name: "tmdb", id: "949"}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	omdb := &cancellingScanner{cancel: cancel}
	processor, store := newTestProcessor(t, Sources{Movie: []string{"tmdb", "omdb"}}, tmdb, omdb)

	video := createMovie(t, store, "Heat")
	err := processor.Process(ctx, library.QueueItem{ID: video.ID, Kind: library.KindVideoData})
	assert.ErrorIs(t, err, context.Canceled)

	got, err := store.GetVideo(context.Background(), video.ID)
	require.NoError(t, err)
	assert.Equal(t, status.Error, got.ScanStatus)
	assert.Equal(t, "overview from tmdb", got.Overview, "results from finished sources are kept")
}

// cancellingScanner cancels the scan's context mid-scan.
type cancellingScanner struct{ cancel context.CancelFunc }

func (c *cancellingScanner) Name() string { return "omdb" }

func (c *cancellingScanner) ResolveMovieID(context.Context, *library.VideoData) (string, error) {
	return "tt0113277", nil
}

func (c *cancellingScanner) ScanMovie(ctx context.Context, _ string, _ *library.VideoData) error {
	c.cancel()
	return ctx.Err()
}
