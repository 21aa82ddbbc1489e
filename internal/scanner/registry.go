package scanner

import (
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Registry maps scanner names to plugins, one map per capability family.
// Names are case-insensitive. Registering a name again replaces the earlier
// plugin in that family.
type Registry struct {
	mu       sync.RWMutex
	movies   map[string]MovieScanner
	series   map[string]SeriesScanner
	fanart   map[string]FanartScanner
	trailers map[string]TrailerScanner
	logger   zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		movies:   make(map[string]MovieScanner),
		series:   make(map[string]SeriesScanner),
		fanart:   make(map[string]FanartScanner),
		trailers: make(map[string]TrailerScanner),
		logger:   logger.With().Str("component", "scanner-registry").Logger(),
	}
}

// Register adds s to every family whose interface it implements and returns
// those families. A plugin implementing none is not stored.
func (r *Registry) Register(s Scanner) []Family {
	var families []Family
	if m, ok := s.(MovieScanner); ok {
		r.RegisterMovie(m)
		families = append(families, FamilyMovie)
	}
	if m, ok := s.(SeriesScanner); ok {
		r.RegisterSeries(m)
		families = append(families, FamilySeries)
	}
	if m, ok := s.(FanartScanner); ok {
		r.RegisterFanart(m)
		families = append(families, FamilyFanart)
	}
	if m, ok := s.(TrailerScanner); ok {
		r.RegisterTrailer(m)
		families = append(families, FamilyTrailer)
	}
	if len(families) == 0 {
		r.logger.Warn().Str("scanner", s.Name()).Msg("Scanner implements no known capability")
	}
	return families
}

// RegisterMovie stores a movie scanner.
func (r *Registry) RegisterMovie(s MovieScanner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logReplace(FamilyMovie, s.Name(), r.movies[key(s.Name())] != nil)
	r.movies[key(s.Name())] = s
}

// RegisterSeries stores a series scanner.
func (r *Registry) RegisterSeries(s SeriesScanner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logReplace(FamilySeries, s.Name(), r.series[key(s.Name())] != nil)
	r.series[key(s.Name())] = s
}

// RegisterFanart stores an artwork scanner.
func (r *Registry) RegisterFanart(s FanartScanner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logReplace(FamilyFanart, s.Name(), r.fanart[key(s.Name())] != nil)
	r.fanart[key(s.Name())] = s
}

// RegisterTrailer stores a trailer scanner.
func (r *Registry) RegisterTrailer(s TrailerScanner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logReplace(FamilyTrailer, s.Name(), r.trailers[key(s.Name())] != nil)
	r.trailers[key(s.Name())] = s
}

// Movie looks up a movie scanner by name.
func (r *Registry) Movie(name string) (MovieScanner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.movies[key(name)]
	return s, ok
}

// Series looks up a series scanner by name.
func (r *Registry) Series(name string) (SeriesScanner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.series[key(name)]
	return s, ok
}

// Fanart looks up an artwork scanner by name.
func (r *Registry) Fanart(name string) (FanartScanner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.fanart[key(name)]
	return s, ok
}

// Trailer looks up a trailer scanner by name.
func (r *Registry) Trailer(name string) (TrailerScanner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.trailers[key(name)]
	return s, ok
}

// Names returns the sorted names registered in a family.
func (r *Registry) Names(family Family) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	switch family {
	case FamilyMovie:
		names = mapKeys(r.movies)
	case FamilySeries:
		names = mapKeys(r.series)
	case FamilyFanart:
		names = mapKeys(r.fanart)
	case FamilyTrailer:
		names = mapKeys(r.trailers)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) logReplace(family Family, name string, replaced bool) {
	if replaced {
		r.logger.Debug().Str("family", string(family)).Str("scanner", name).Msg("Replacing registered scanner")
	}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
