package fanart

// Image is one artwork entry.
type Image struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Lang   string `json:"lang"`
	Likes  string `json:"likes"`
	Season string `json:"season,omitempty"`
}

// MovieImages is the response of /movies/{id}.
type MovieImages struct {
	Name            string  `json:"name"`
	TmdbID          string  `json:"tmdb_id"`
	ImdbID          string  `json:"imdb_id"`
	MoviePoster     []Image `json:"movieposter"`
	MovieBackground []Image `json:"moviebackground"`
	MovieThumb      []Image `json:"moviethumb"`
}

// SeriesImages is the response of /tv/{tvdb_id}.
type SeriesImages struct {
	Name           string  `json:"name"`
	TvdbID         string  `json:"thetvdb_id"`
	TVPoster       []Image `json:"tvposter"`
	ShowBackground []Image `json:"showbackground"`
	TVThumb        []Image `json:"tvthumb"`
}

// ErrorResponse is returned with non-200 statuses.
type ErrorResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error message"`
}
