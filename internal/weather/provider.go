package weather

import (
	"context"
)

// Client abstracts the remote weather provider (e.g. WeatherAPI.com).
// Implementations translate transport and in-payload errors into *Error.
type Client interface {
	FetchCurrent(ctx context.Context, query string) (Current, error)
	FetchForecast(ctx context.Context, query string, days int) (Forecast, error)
	SearchLocations(ctx context.Context, partial string) ([]LocationSuggestion, error)
}

// Registry is the contract the location registry must satisfy.
type Registry interface {
	List() []Location
	Get(id string) (Location, bool)
	FindByQuery(query string) (Location, bool)
	// InsertFront prepends loc unless it duplicates an existing entry,
	// and returns the entry that ends up stored.
	InsertFront(loc Location) (Location, bool)
	// Resolve records the "lat,lon" the provider resolved entry id to.
	Resolve(id, coords string)
}
