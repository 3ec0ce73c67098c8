package weather

import (
	"strconv"
	"strings"
)

// Location is a saved dashboard entry.
// ID is unique within the registry; Query is what the provider accepts
// (a free-text name or "lat,lon").
type Location struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Country     string `json:"country"`
	Query       string `json:"query"`

	// Coords is the "lat,lon" the provider last resolved Query to. Empty
	// until the entry has been fetched once.
	Coords string `json:"coords,omitempty"`
}

// Key returns a canonical string key for dedupe lookups.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.Query))
}

// Place is the location a provider resolved a query to.
type Place struct {
	Name    string  `json:"name"`
	Region  string  `json:"region,omitempty"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CoordsQuery renders the place as a "lat,lon" query.
func (p Place) CoordsQuery() string {
	return CoordsQuery(p.Lat, p.Lon)
}

// CoordsQuery formats coordinates the way the provider accepts them.
func CoordsQuery(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}

// ConditionInfo is the provider's textual condition with its numeric code and icon.
type ConditionInfo struct {
	Text string `json:"text"`
	Code int    `json:"code"`
	Icon string `json:"icon,omitempty"`
}

// CurrentConditions holds the "now" part of a snapshot.
type CurrentConditions struct {
	TemperatureC float64       `json:"temperatureC"`
	FeelsLikeC   float64       `json:"feelsLikeC"`
	HumidityPct  float64       `json:"humidityPercent"`
	WindKph      float64       `json:"windKph"`
	PressureMb   float64       `json:"pressureMb"`
	Condition    ConditionInfo `json:"condition"`
	LastUpdated  string        `json:"lastUpdated"` // provider local time, "2006-01-02 15:04"
}

// ForecastDay is one day of a multi-day forecast.
type ForecastDay struct {
	Date      string        `json:"date"` // "2006-01-02"
	MinTempC  float64       `json:"minTempC"`
	MaxTempC  float64       `json:"maxTempC"`
	AvgTempC  float64       `json:"avgTempC"`
	Condition ConditionInfo `json:"condition"`
}

// Current is the result of a current-conditions lookup.
type Current struct {
	Place      Place             `json:"place"`
	Conditions CurrentConditions `json:"current"`
}

// Forecast is the result of a forecast lookup; the provider returns the
// current conditions alongside the daily entries.
type Forecast struct {
	Place      Place             `json:"place"`
	Conditions CurrentConditions `json:"current"`
	Days       []ForecastDay     `json:"days"`
}

// LocationSuggestion is one ranked search-as-you-type result.
type LocationSuggestion struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Query returns the "lat,lon" query that picks this suggestion.
func (s LocationSuggestion) Query() string {
	return CoordsQuery(s.Lat, s.Lon)
}

// Snapshot is the normalized weather for one location at one point in time.
// Snapshots are replaced wholesale, never patched.
type Snapshot struct {
	Place   Place             `json:"place"`
	Current CurrentConditions `json:"current"`

	// Days is empty when the snapshot came from a current-only lookup.
	Days []ForecastDay `json:"days,omitempty"`
}

// SnapshotFromCurrent builds a snapshot without forecast days.
func SnapshotFromCurrent(c Current) Snapshot {
	return Snapshot{Place: c.Place, Current: c.Conditions}
}

// SnapshotFromForecast builds a snapshot carrying the forecast days.
func SnapshotFromForecast(f Forecast) Snapshot {
	days := make([]ForecastDay, len(f.Days))
	copy(days, f.Days)
	return Snapshot{Place: f.Place, Current: f.Conditions, Days: days}
}

// LocationFromPlace synthesizes a registry entry for a resolved place.
// The id is the place's coordinates so the same physical place dedupes
// regardless of the text that was typed.
func LocationFromPlace(p Place) Location {
	q := p.CoordsQuery()
	return Location{
		ID:          q,
		DisplayName: p.Name,
		Country:     p.Country,
		Query:       q,
		Coords:      q,
	}
}
