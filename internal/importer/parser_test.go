package importer

import (
	"testing"
)

func TestParseFilename_Episodes(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		wantTitle  string
		wantYear   int
		wantSeason int
		wantEp     int
		wantEndEp  int
	}{
		{
			name:       "standard S01E02 format",
			filename:   "Breaking.Bad.S01E02.1080p.BluRay.x264.mkv",
			wantTitle:  "Breaking Bad",
			wantSeason: 1,
			wantEp:     2,
		},
		{
			name:       "lowercase s01e02 format",
			filename:   "the.office.s03e15.720p.hdtv.mkv",
			wantTitle:  "the office",
			wantSeason: 3,
			wantEp:     15,
		},
		{
			name:       "multi-episode S01E01E02",
			filename:   "Game.of.Thrones.S01E01E02.1080p.mkv",
			wantTitle:  "Game of Thrones",
			wantSeason: 1,
			wantEp:     1,
			wantEndEp:  2,
		},
		{
			name:       "with spaces and dash",
			filename:   "The Walking Dead - S10E05 - What It Always Is.mkv",
			wantTitle:  "The Walking Dead",
			wantSeason: 10,
			wantEp:     5,
		},
		{
			name:       "1x02 format",
			filename:   "Friends.1x02.mkv",
			wantTitle:  "Friends",
			wantSeason: 1,
			wantEp:     2,
		},
		{
			name:       "year in show name",
			filename:   "Doctor.Who.2005.S01E01.mkv",
			wantTitle:  "Doctor Who",
			wantYear:   2005,
			wantSeason: 1,
			wantEp:     1,
		},
		{
			name:       "bare episode marker",
			filename:   "S02E03 - Bit by a Dead Bee.mkv",
			wantSeason: 2,
			wantEp:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseFilename(tt.filename)

			if !result.IsEpisode {
				t.Fatalf("IsEpisode = false for %q", tt.filename)
			}
			if result.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", result.Title, tt.wantTitle)
			}
			if result.Year != tt.wantYear {
				t.Errorf("Year = %d, want %d", result.Year, tt.wantYear)
			}
			if result.Season != tt.wantSeason {
				t.Errorf("Season = %d, want %d", result.Season, tt.wantSeason)
			}
			if result.Episode != tt.wantEp {
				t.Errorf("Episode = %d, want %d", result.Episode, tt.wantEp)
			}
			if result.EndEpisode != tt.wantEndEp {
				t.Errorf("EndEpisode = %d, want %d", result.EndEpisode, tt.wantEndEp)
			}
		})
	}
}

func TestParseFilename_Movies(t *testing.T) {
	tests := []struct {
		filename  string
		wantTitle string
		wantYear  int
	}{
		{"Heat.1995.1080p.BluRay.x264.mkv", "Heat", 1995},
		{"Heat (1995).mkv", "Heat", 1995},
		{"Blade Runner 2049 (2017).mkv", "Blade Runner 2049", 2017},
		{"2001.A.Space.Odyssey.1968.mkv", "2001 A Space Odyssey", 1968},
		{"Spider-Man.2002.mkv", "Spider-Man", 2002},
		{"Home_Movie.mkv", "Home Movie", 0},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := ParseFilename(tt.filename)
			if result.IsEpisode {
				t.Fatalf("IsEpisode = true for %q", tt.filename)
			}
			if result.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", result.Title, tt.wantTitle)
			}
			if result.Year != tt.wantYear {
				t.Errorf("Year = %d, want %d", result.Year, tt.wantYear)
			}
		})
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		wantTitle    string
		wantOriginal string
		wantYear     int
		wantSeason   int
		wantEpisode  bool
	}{
		{
			name:      "folder supplies title and year",
			path:      "/movies/The Matrix (1999)/The.Matrix.1080p.BluRay.mkv",
			wantTitle: "The Matrix",
			wantYear:  1999,
		},
		{
			name:         "folder title differs",
			path:         "/movies/Le Fabuleux Destin d'Amélie Poulain (2001)/Amelie.2001.mkv",
			wantTitle:    "Amelie",
			wantOriginal: "Le Fabuleux Destin d'Amélie Poulain",
			wantYear:     2001,
		},
		{
			name:      "matching folder",
			path:      "/movies/Heat (1995)/Heat.1995.mkv",
			wantTitle: "Heat",
			wantYear:  1995,
		},
		{
			name:      "flat movie",
			path:      "/downloads/Heat.1995.mkv",
			wantTitle: "Heat",
			wantYear:  1995,
		},
		{
			name:        "episode under season folder",
			path:        "/tv/Breaking Bad (2008)/Season 02/Breaking.Bad.S02E03.mkv",
			wantTitle:   "Breaking Bad",
			wantYear:    2008,
			wantSeason:  2,
			wantEpisode: true,
		},
		{
			name:        "bare episode takes show folder",
			path:        "/tv/Breaking Bad (2008)/Season 02/S02E03 - Bit by a Dead Bee.mkv",
			wantTitle:   "Breaking Bad",
			wantYear:    2008,
			wantSeason:  2,
			wantEpisode: true,
		},
		{
			name:        "episode directly in show folder",
			path:        "/tv/Friends/Friends.S01E02.mkv",
			wantTitle:   "Friends",
			wantSeason:  1,
			wantEpisode: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParsePath(tt.path)
			if result.IsEpisode != tt.wantEpisode {
				t.Fatalf("IsEpisode = %v, want %v", result.IsEpisode, tt.wantEpisode)
			}
			if result.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", result.Title, tt.wantTitle)
			}
			if result.OriginalTitle != tt.wantOriginal {
				t.Errorf("OriginalTitle = %q, want %q", result.OriginalTitle, tt.wantOriginal)
			}
			if result.Year != tt.wantYear {
				t.Errorf("Year = %d, want %d", result.Year, tt.wantYear)
			}
			if result.Season != tt.wantSeason {
				t.Errorf("Season = %d, want %d", result.Season, tt.wantSeason)
			}
		})
	}
}

func TestSeasonFolder(t *testing.T) {
	tests := map[string]int{
		"Season 1":  1,
		"Season.02": 2,
		"S03":       3,
		"Specials":  0,
		"Extras":    -1,
	}
	for name, want := range tests {
		if got := seasonFolder(name); got != want {
			t.Errorf("seasonFolder(%q) = %d, want %d", name, got, want)
		}
	}
}
