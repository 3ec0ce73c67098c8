package store

import (
	"strings"
	"sync"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Seed returns the fixed starter set of locations in display order.
func Seed() []weather.Location {
	return []weather.Location{
		{ID: "Kyiv", DisplayName: "Київ", Country: "Ukraine", Query: "Kyiv"},
		{ID: "Lviv", DisplayName: "Львів", Country: "Ukraine", Query: "Lviv"},
		{ID: "Odesa", DisplayName: "Одеса", Country: "Ukraine", Query: "Odesa"},
		{ID: "Kharkiv", DisplayName: "Харків", Country: "Ukraine", Query: "Kharkiv"},
		{ID: "London", DisplayName: "Лондон", Country: "UK", Query: "London"},
		{ID: "Paris", DisplayName: "Париж", Country: "France", Query: "Paris"},
		{ID: "New York", DisplayName: "Нью-Йорк", Country: "USA", Query: "New York"},
		{ID: "Tokyo", DisplayName: "Токіо", Country: "Japan", Query: "Tokyo"},
	}
}

// FindByQuery returns the entry whose Query matches query case-insensitively.
func FindByQuery(locs []weather.Location, query string) (weather.Location, bool) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return weather.Location{}, false
	}
	for _, l := range locs {
		if l.Key() == key {
			return l, true
		}
	}
	return weather.Location{}, false
}

// InsertFront prepends loc and reports whether it did. A loc whose query,
// id or resolved coordinates are already present leaves locs unchanged.
func InsertFront(locs []weather.Location, loc weather.Location) ([]weather.Location, bool) {
	if _, ok := findDuplicate(locs, loc); ok {
		return locs, false
	}

	out := make([]weather.Location, 0, len(locs)+1)
	out = append(out, loc)
	out = append(out, locs...)
	return out, true
}

// findDuplicate returns the entry loc would duplicate. Two spellings of one
// place match once either side knows its coordinates.
func findDuplicate(locs []weather.Location, loc weather.Location) (weather.Location, bool) {
	if l, ok := FindByQuery(locs, loc.Query); ok {
		return l, true
	}
	if l, ok := findByID(locs, loc.ID); ok {
		return l, true
	}
	if loc.Coords == "" {
		return weather.Location{}, false
	}
	for _, l := range locs {
		if l.Coords == loc.Coords || l.Key() == loc.Coords {
			return l, true
		}
	}
	return weather.Location{}, false
}

func findByID(locs []weather.Location, id string) (weather.Location, bool) {
	for _, l := range locs {
		if l.ID == id {
			return l, true
		}
	}
	return weather.Location{}, false
}

// Registry is a concurrency-safe ordered collection of saved locations.
type Registry struct {
	mu      sync.RWMutex
	entries []weather.Location
}

// NewRegistry creates a Registry holding a copy of initial.
func NewRegistry(initial []weather.Location) *Registry {
	var entries []weather.Location
	for i := len(initial) - 1; i >= 0; i-- {
		entries, _ = InsertFront(entries, initial[i])
	}
	return &Registry{entries: entries}
}

// List returns the entries, most recently added first.
func (r *Registry) List() []weather.Location {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]weather.Location, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Registry) Get(id string) (weather.Location, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return findByID(r.entries, id)
}

func (r *Registry) FindByQuery(query string) (weather.Location, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return FindByQuery(r.entries, query)
}

// InsertFront prepends loc unless it duplicates an entry, in which case the
// existing entry is returned with false.
func (r *Registry) InsertFront(loc weather.Location) (weather.Location, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := findDuplicate(r.entries, loc); ok {
		return existing, false
	}

	r.entries, _ = InsertFront(r.entries, loc)
	return loc, true
}

// Resolve records the coordinates the provider resolved entry id to.
// Unknown ids are ignored.
func (r *Registry) Resolve(id, coords string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries[i].Coords = coords
			return
		}
	}
}
