package tvdb

// LoginRequest is the request body for TVDB authentication.
type LoginRequest struct {
	APIKey string `json:"apikey"`
}

// LoginResponse is the response from TVDB authentication.
type LoginResponse struct {
	Status string `json:"status"`
	Data   struct {
		Token string `json:"token"`
	} `json:"data"`
}

// SearchResponse is the response from TVDB search.
type SearchResponse struct {
	Status string         `json:"status"`
	Data   []SearchResult `json:"data"`
}

// SearchResult is a search result from TVDB.
type SearchResult struct {
	TvdbID       string            `json:"tvdb_id"`
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	Year         string            `json:"year"`
	Translations map[string]string `json:"translations"`
	Aliases      []string          `json:"aliases"`
}

// SeriesResponse is the response for a single series.
type SeriesResponse struct {
	Status string       `json:"status"`
	Data   SeriesDetail `json:"data"`
}

// SeriesDetail is the extended series record.
type SeriesDetail struct {
	ID               int        `json:"id"`
	Name             string     `json:"name"`
	Image            string     `json:"image"`
	FirstAired       string     `json:"firstAired"`
	Score            float64    `json:"score"`
	OriginalLanguage string     `json:"originalLanguage"`
	Overview         string     `json:"overview"`
	Year             string     `json:"year"`
	Artworks         []Artwork  `json:"artworks"`
	Genres           []Genre    `json:"genres"`
	RemoteIDs        []RemoteID `json:"remoteIds"`
	Seasons          []Season   `json:"seasons"`
}

// Genre represents a genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Artwork is an image attached to a series. Type 2 is a poster, type 3 a
// background.
type Artwork struct {
	ID       int     `json:"id"`
	Image    string  `json:"image"`
	Language string  `json:"language"`
	Type     int     `json:"type"`
	Score    float64 `json:"score"`
}

// RemoteID is an identifier of the series at another site.
type RemoteID struct {
	ID         string `json:"id"`
	Type       int    `json:"type"`
	SourceName string `json:"sourceName"`
}

// Season is a season record inside an extended series.
type Season struct {
	ID     int        `json:"id"`
	Number int        `json:"number"`
	Name   string     `json:"name"`
	Image  string     `json:"image"`
	Year   string     `json:"year"`
	Type   SeasonType `json:"type"`
}

// SeasonType names the episode ordering a season belongs to.
type SeasonType struct {
	ID   int    `json:"id"`
	Type string `json:"type"` // "official", "dvd", "absolute", ...
}

// EpisodesResponse is the response for series episodes.
type EpisodesResponse struct {
	Status string `json:"status"`
	Data   struct {
		Episodes []Episode `json:"episodes"`
	} `json:"data"`
}

// Episode represents a TV episode.
type Episode struct {
	ID           int    `json:"id"`
	SeriesID     int    `json:"seriesId"`
	Name         string `json:"name"`
	Aired        string `json:"aired"`
	Runtime      int    `json:"runtime"`
	Overview     string `json:"overview"`
	Image        string `json:"image"`
	SeasonNumber int    `json:"seasonNumber"`
	Number       int    `json:"number"`
}
