package trailer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/library"
	"github.com/slipstream/mediascan/internal/scanner"
)

// Name is the source name trailer values are recorded under.
const Name = "trailer"

// Scanner finds movie trailers by scraping the site in its definition.
// Identifiers are links to the movie's page on that site.
type Scanner struct {
	client *Client
	def    *Definition
	logger zerolog.Logger
}

// NewScanner creates a trailer scanner.
func NewScanner(client *Client, def *Definition, logger zerolog.Logger) *Scanner {
	return &Scanner{
		client: client,
		def:    def,
		logger: logger.With().Str("scanner", Name).Logger(),
	}
}

// Name returns the scanner name.
func (s *Scanner) Name() string {
	return Name
}

// ResolveTrailerID finds the movie's page on the trailer site.
func (s *Scanner) ResolveTrailerID(ctx context.Context, video *library.VideoData) (string, error) {
	return scanner.ResolveID(ctx, video, Name, s.search)
}

type searchRow struct {
	title string
	year  int
	link  string
}

func (s *Scanner) search(ctx context.Context, title string, year int) (string, error) {
	doc, err := s.client.Fetch(ctx, s.searchPath(title, year))
	if err != nil {
		if errors.Is(err, scanner.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	fields := s.def.Search.Fields
	var rows []searchRow
	doc.Find(s.def.Search.Rows.Selector).Each(func(_ int, row *goquery.Selection) {
		link := extract(row, fields.Link)
		if link == "" {
			return
		}
		rows = append(rows, searchRow{
			title: extract(row, fields.Title),
			year:  parseYear(extract(row, fields.Year)),
			link:  link,
		})
	})

	return matchRow(rows, title, year), nil
}

func (s *Scanner) searchPath(title string, year int) string {
	yearValue := ""
	if year > 0 {
		yearValue = strconv.Itoa(year)
	}
	return strings.NewReplacer(
		"{query}", url.QueryEscape(title),
		"{year}", yearValue,
	).Replace(s.def.Search.Path)
}

// ScanTrailer reads the trailer URL from the movie's page.
func (s *Scanner) ScanTrailer(ctx context.Context, id string, video *library.VideoData) error {
	doc, err := s.client.Fetch(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch trailer page %s: %w", id, err)
	}

	for _, sel := range s.def.Trailer {
		ref := extract(doc.Selection, sel)
		if ref == "" {
			continue
		}
		u, err := url.Parse(ref)
		if err != nil {
			continue
		}
		if doc.Url != nil {
			u = doc.Url.ResolveReference(u)
		}
		video.SetTrailer(Name, u.String())
		return nil
	}

	s.logger.Debug().Int64("videoId", video.ID).Str("page", id).Msg("No trailer on page")
	return nil
}

func extract(sel *goquery.Selection, field FieldSelect) string {
	target := sel
	if field.Selector != "" {
		target = sel.Find(field.Selector).First()
	}
	if target.Length() == 0 {
		return ""
	}
	if field.Attribute != "" {
		val, _ := target.Attr(field.Attribute)
		return strings.TrimSpace(val)
	}
	return strings.TrimSpace(target.Text())
}

// matchRow returns the link of the row whose title matches, preferring one
// released in year. Rows with other titles are never returned.
func matchRow(rows []searchRow, title string, year int) string {
	want := normalizeTitle(title)
	fallback := ""
	for _, r := range rows {
		if normalizeTitle(r.title) != want {
			continue
		}
		if year == 0 || r.year == year {
			return r.link
		}
		if r.year == 0 && fallback == "" {
			fallback = r.link
		}
	}
	return fallback
}

func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseYear finds the first four-digit run, so "(2009)" parses as 2009.
func parseYear(s string) int {
	digits := 0
	for i, r := range s {
		if r >= '0' && r <= '9' {
			digits++
			if digits == 4 {
				year, _ := strconv.Atoi(s[i-3 : i+1])
				return year
			}
			continue
		}
		digits = 0
	}
	return 0
}
