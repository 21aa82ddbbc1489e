package importer

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ParsedPath is what a media path says about its content.
type ParsedPath struct {
	Title         string `json:"title"`
	OriginalTitle string `json:"originalTitle,omitempty"`
	Year          int    `json:"year,omitempty"`
	Season        int    `json:"season,omitempty"`
	Episode       int    `json:"episode,omitempty"`
	EndEpisode    int    `json:"endEpisode,omitempty"`
	IsEpisode     bool   `json:"isEpisode"`
}

// Regex patterns for parsing
var (
	// Episode patterns: Show.S01E02 or Show.1x02
	episodePatternSE = regexp.MustCompile(`(?i)^(.+?)[\.\s_-]+[Ss](\d{1,2})[Ee](\d{1,3})(?:-?[Ee](\d{1,3}))?(?:[\.\s_-]|$)`)
	episodePatternX  = regexp.MustCompile(`(?i)^(.+?)[\.\s_-]+(\d{1,2})[xX](\d{1,3})(?:[\.\s_-]|$)`)

	// Bare episode file inside a show folder: S01E02 - Title.mkv
	episodePatternBare = regexp.MustCompile(`(?i)^[Ss](\d{1,2})[Ee](\d{1,3})(?:-?[Ee](\d{1,3}))?(?:[\.\s_-]|$)`)

	// Season folder: "Season 1", "Season.02", "S03", "Specials"
	seasonFolderPattern = regexp.MustCompile(`(?i)^(?:season[\.\s_-]*|s)(\d{1,2})$`)

	// Movie pattern: Title.Year or Title (Year)
	moviePatternParen = regexp.MustCompile(`^(.+?)\s*[\(\[](\d{4})[\)\]]`)
	moviePatternDot   = regexp.MustCompile(`^(.+?)[\.\s_-]+(\d{4})(?:[\.\s_-]|$)`)

	// Clean up patterns
	cleanupPattern = regexp.MustCompile(`[\.\s_]+`)
)

// ParseFilename parses a media filename. Release tags after the year or
// episode marker are ignored.
func ParseFilename(filename string) *ParsedPath {
	return parseName(strings.TrimSuffix(filename, filepath.Ext(filename)))
}

// parseName parses a file or folder name without an extension.
func parseName(name string) *ParsedPath {
	parsed := &ParsedPath{}

	if match := episodePatternSE.FindStringSubmatch(name); match != nil {
		parsed.IsEpisode = true
		parsed.Title, parsed.Year = splitTitleYear(match[1])
		parsed.Season, _ = strconv.Atoi(match[2])
		parsed.Episode, _ = strconv.Atoi(match[3])
		if match[4] != "" {
			parsed.EndEpisode, _ = strconv.Atoi(match[4])
		}
		return parsed
	}

	if match := episodePatternX.FindStringSubmatch(name); match != nil {
		parsed.IsEpisode = true
		parsed.Title, parsed.Year = splitTitleYear(match[1])
		parsed.Season, _ = strconv.Atoi(match[2])
		parsed.Episode, _ = strconv.Atoi(match[3])
		return parsed
	}

	if match := episodePatternBare.FindStringSubmatch(name); match != nil {
		parsed.IsEpisode = true
		parsed.Season, _ = strconv.Atoi(match[1])
		parsed.Episode, _ = strconv.Atoi(match[2])
		if match[3] != "" {
			parsed.EndEpisode, _ = strconv.Atoi(match[3])
		}
		return parsed
	}

	parsed.Title, parsed.Year = splitTitleYear(name)
	return parsed
}

// splitTitleYear separates a trailing release year from a title.
func splitTitleYear(s string) (string, int) {
	if match := moviePatternParen.FindStringSubmatch(s); match != nil {
		if year := plausibleYear(match[2]); year > 0 {
			return cleanTitle(match[1]), year
		}
	}
	if match := moviePatternDot.FindStringSubmatch(s); match != nil {
		if year := plausibleYear(match[2]); year > 0 {
			return cleanTitle(match[1]), year
		}
	}
	return cleanTitle(s), 0
}

func plausibleYear(s string) int {
	year, _ := strconv.Atoi(s)
	if year >= 1900 && year <= 2100 {
		return year
	}
	return 0
}

// cleanTitle cleans up a parsed title by replacing separators with spaces.
func cleanTitle(title string) string {
	cleaned := cleanupPattern.ReplaceAllString(title, " ")
	return strings.TrimSpace(strings.Trim(cleaned, "-"))
}

// ParsePath extracts media info from a full path, using the folder layout
// where the filename is not enough.
//
// Movies: a folder with a year names the movie when the filename carries no
// year ("The Matrix (1999)/The.Matrix.1080p.mkv"). When both carry the same
// year but different titles, the folder title is kept as the original title
// ("Le Fabuleux Destin d'Amélie Poulain (2001)/Amelie.2001.mkv").
//
// Episodes: the show folder, above an optional "Season N" folder, names the
// series when the filename does not and supplies its year.
func ParsePath(fullPath string) *ParsedPath {
	parsed := ParseFilename(filepath.Base(fullPath))
	dir := filepath.Dir(fullPath)

	if parsed.IsEpisode {
		showDir := dir
		if seasonFolder(filepath.Base(dir)) >= 0 {
			showDir = filepath.Dir(dir)
		}
		showTitle, showYear := splitTitleYear(filepath.Base(showDir))
		if parsed.Title == "" {
			parsed.Title = showTitle
		}
		if parsed.Year == 0 && sameTitle(parsed.Title, showTitle) {
			parsed.Year = showYear
		}
		return parsed
	}

	folder := parseName(filepath.Base(dir))
	if folder.IsEpisode || folder.Year == 0 || folder.Title == "" {
		return parsed
	}

	switch {
	case parsed.Year == 0:
		parsed.Title = folder.Title
		parsed.Year = folder.Year
	case parsed.Year == folder.Year && !sameTitle(parsed.Title, folder.Title):
		parsed.OriginalTitle = folder.Title
	}
	return parsed
}

// seasonFolder returns the season number a folder name denotes, or -1.
func seasonFolder(name string) int {
	if strings.EqualFold(name, "specials") {
		return 0
	}
	match := seasonFolderPattern.FindStringSubmatch(strings.TrimSpace(name))
	if match == nil {
		return -1
	}
	n, _ := strconv.Atoi(match[1])
	return n
}

func sameTitle(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
