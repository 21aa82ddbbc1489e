package omdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/mediascan/internal/config"
	"github.com/slipstream/mediascan/internal/library"
	"github.com/slipstream/mediascan/internal/scanner"
)

func newTestScanner(t *testing.T, lookups *int32) *Scanner {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if title := q.Get("t"); title != "" {
			atomic.AddInt32(lookups, 1)
			if title == "Heat" && q.Get("y") == "1995" {
				json.NewEncoder(w).Encode(Response{Title: "Heat", ImdbID: "tt0113277", Response: "True"})
				return
			}
			json.NewEncoder(w).Encode(Response{Response: "False", Error: "Movie not found!"})
			return
		}
		switch q.Get("i") {
		case "tt0113277":
			json.NewEncoder(w).Encode(Response{
				Title:      "Heat",
				Year:       "1995",
				Runtime:    "170 min",
				Genre:      "Action, Crime, Drama",
				Plot:       "A group of high-end professional thieves start to feel the heat.",
				Poster:     "N/A",
				ImdbRating: "8.3",
				ImdbID:     "tt0113277",
				Type:       "movie",
				Response:   "True",
			})
		case "tt0000000":
			json.NewEncoder(w).Encode(Response{Response: "False", Error: "Request limit reached!"})
		default:
			json.NewEncoder(w).Encode(Response{Response: "False", Error: "Incorrect IMDb ID."})
		}
	}))
	t.Cleanup(server.Close)

	client := NewClient(config.OMDBConfig{APIKey: "test-key", BaseURL: server.URL, Timeout: 5}, zerolog.Nop())
	return NewScanner(client, zerolog.Nop())
}

func TestScanner_ResolveAndScanMovie(t *testing.T) {
	var lookups int32
	s := newTestScanner(t, &lookups)
	ctx := context.Background()

	video := &library.VideoData{Kind: library.VideoMovie}
	video.SetTitle(library.SourceFile, "Heat")
	video.SetYear(library.SourceFile, 1995)

	id, err := s.ResolveMovieID(ctx, video)
	require.NoError(t, err)
	assert.Equal(t, "tt0113277", id)
	assert.Equal(t, "tt0113277", video.SourceID(Name))

	require.NoError(t, s.ScanMovie(ctx, id, video))
	assert.Equal(t, 170, video.Runtime)
	assert.Equal(t, []string{"Action", "Crime", "Drama"}, video.Genres)
	assert.InDelta(t, 8.3, video.Rating, 0.001)
	assert.Empty(t, video.PosterURL, "N/A is not a poster")
	assert.Equal(t, Name, video.FieldSource(library.FieldOverview))
	assert.Equal(t, "tt0113277", video.SourceID("imdb"))
}

func TestScanner_ReusesIMDbID(t *testing.T) {
	var lookups int32
	s := newTestScanner(t, &lookups)

	video := &library.VideoData{Kind: library.VideoMovie}
	video.SetTitle(library.SourceFile, "Heat")
	video.SetSourceID("imdb", "tt0113277")

	id, err := s.ResolveMovieID(context.Background(), video)
	require.NoError(t, err)
	assert.Equal(t, "tt0113277", id)
	assert.Equal(t, int32(0), atomic.LoadInt32(&lookups))
}

func TestScanner_ResolveMiss(t *testing.T) {
	var lookups int32
	s := newTestScanner(t, &lookups)

	video := &library.VideoData{Kind: library.VideoMovie}
	video.SetTitle(library.SourceFile, "Unknown Movie")

	id, err := s.ResolveMovieID(context.Background(), video)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, video.SourceID(Name))
}

func TestClient_Errors(t *testing.T) {
	var lookups int32
	s := newTestScanner(t, &lookups)
	ctx := context.Background()

	_, err := s.client.GetByIMDbID(ctx, "tt9999999")
	assert.ErrorIs(t, err, scanner.ErrNotFound)

	_, err = s.client.GetByIMDbID(ctx, "tt0000000")
	assert.ErrorIs(t, err, scanner.ErrAPIError)

	unconfigured := NewClient(config.OMDBConfig{}, zerolog.Nop())
	_, err = unconfigured.GetByTitle(ctx, "Heat", 1995)
	assert.ErrorIs(t, err, scanner.ErrAPIKeyMissing)
}

func TestParsers(t *testing.T) {
	assert.Equal(t, 2008, parseYear("2008–2013"))
	assert.Equal(t, 0, parseYear("N/A"))
	assert.Equal(t, 136, parseRuntime("136 min"))
	assert.Equal(t, 0, parseRuntime("N/A"))
	assert.Nil(t, splitList("N/A"))
}
