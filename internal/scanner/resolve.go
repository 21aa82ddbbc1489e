package scanner

import (
	"context"
	"errors"
	"strings"
)

// Identifiable is an entity that can carry identifiers from external sources.
type Identifiable interface {
	DisplayTitle() string
	OriginalLanguageTitle() string
	ReleaseYear() int
	SourceID(source string) string
	SetSourceID(source, id string)
}

// LookupFunc searches a source by title and year and returns its identifier.
// An empty identifier means nothing matched.
type LookupFunc func(ctx context.Context, title string, year int) (string, error)

// ValidID reports whether id identifies something. Sources use "", "-1" and
// "0" to mean "no match".
func ValidID(id string) bool {
	switch strings.TrimSpace(id) {
	case "", "-1", "0":
		return false
	}
	return true
}

// ResolveID returns the identifier of entity at source.
//
// A valid cached identifier is returned without calling lookup. Otherwise
// the original title is tried first when it differs from the display title,
// then the display title; each distinct title gets one attempt. A found
// identifier is cached on the entity before returning. A miss returns
// ("", nil). If every attempt failed with an error, the last error is
// returned.
func ResolveID(ctx context.Context, entity Identifiable, source string, lookup LookupFunc) (string, error) {
	if id := entity.SourceID(source); ValidID(id) {
		return id, nil
	}

	titles := candidateTitles(entity)
	if len(titles) == 0 {
		return "", nil
	}

	var lastErr error
	failed := 0
	for _, title := range titles {
		id, err := lookup(ctx, title, entity.ReleaseYear())
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrAPIKeyMissing) {
				return "", err
			}
			lastErr = err
			failed++
			continue
		}
		if ValidID(id) {
			id = strings.TrimSpace(id)
			entity.SetSourceID(source, id)
			return id, nil
		}
	}

	if failed == len(titles) {
		return "", lastErr
	}
	return "", nil
}

func candidateTitles(entity Identifiable) []string {
	display := strings.TrimSpace(entity.DisplayTitle())
	original := strings.TrimSpace(entity.OriginalLanguageTitle())

	var titles []string
	if original != "" && original != display {
		titles = append(titles, original)
	}
	if display != "" {
		titles = append(titles, display)
	}
	return titles
}
