// Package view turns coordinator state into what the dashboard renders.
// Everything here is a pure function of its inputs.
package view

import (
	"math"
	"strings"
	"time"
	_ "time/tzdata" // zone names must resolve on hosts without a zoneinfo db

	"github.com/zsefvlol/timezonemapper"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	geoItemName    = "Моя поточна геопозиція"
	geoItemCountry = "GPS"

	lastUpdatedLayout = "2006-01-02 15:04"
	forecastLayout    = "2006-01-02"
)

// Dashboard is the full render model: sidebar plus detail panel.
type Dashboard struct {
	Sidebar         []SidebarItem       `json:"sidebar"`
	Status          weather.FetchStatus `json:"status"`
	Loading         bool                `json:"loading"`
	Error           string              `json:"error,omitempty"`
	Detail          *Detail             `json:"detail"`
	ThemePreference ThemePreference     `json:"themePreference"`
}

// ThemePreference is the user's light/dark choice; system follows the OS.
type ThemePreference string

const (
	ThemeLight  ThemePreference = "light"
	ThemeSystem ThemePreference = "system"
	ThemeDark   ThemePreference = "dark"
)

// ParseThemePreference reads a preference; empty means system.
func ParseThemePreference(s string) (ThemePreference, bool) {
	switch p := ThemePreference(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ThemeSystem, true
	case ThemeLight, ThemeSystem, ThemeDark:
		return p, true
	default:
		return "", false
	}
}

// SidebarItem is one pill in the location list.
type SidebarItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Active  bool   `json:"active"`
	Geo     bool   `json:"geo"`
}

// Detail is the main panel for a loaded snapshot.
type Detail struct {
	City          string    `json:"city"`
	Country       string    `json:"country"`
	UpdatedAt     string    `json:"updatedAt"`
	TimeZone      string    `json:"timeZone,omitempty"`
	ConditionText string    `json:"conditionText"`
	IconURL       string    `json:"iconUrl,omitempty"`
	Theme         string    `json:"theme"`
	TempC         int       `json:"tempC"`
	FeelsLikeC    int       `json:"feelsLikeC"`
	HumidityPct   float64   `json:"humidity"`
	WindKph       float64   `json:"windKph"`
	PressureMb    float64   `json:"pressureMb"`
	Days          []DayCard `json:"days,omitempty"`
	Chart         []Point   `json:"chart,omitempty"`
}

// DayCard is one forecast day.
type DayCard struct {
	Label     string `json:"label"`
	MinC      int    `json:"minC"`
	MaxC      int    `json:"maxC"`
	AvgC      int    `json:"avgC"`
	Condition string `json:"condition"`
	IconURL   string `json:"iconUrl,omitempty"`
}

// Chart dimensions used by Build.
const (
	ChartWidth   = 320.0
	ChartHeight  = 120.0
	ChartPadding = 12.0
)

// Build renders the dashboard for st and the saved locations.
func Build(st weather.State, locations []weather.Location) Dashboard {
	d := Dashboard{
		Sidebar: Sidebar(locations, st.Selection),
		Status:  st.Fetch.Status,
		Loading: st.Fetch.Status == weather.StatusLoading,
		Error:   st.Fetch.Error,

		ThemePreference: ThemeSystem,
	}
	// Data kept during loading belongs to the previous selection; hide it.
	if st.Fetch.Status == weather.StatusSuccess && st.Fetch.Data != nil {
		d.Detail = NewDetail(*st.Fetch.Data)
	}
	return d
}

// Sidebar lists the geolocation pseudo-entry and the saved locations,
// with the selected entry moved to the top.
func Sidebar(locations []weather.Location, selected weather.Selection) []SidebarItem {
	all := make([]SidebarItem, 0, len(locations)+1)
	all = append(all, SidebarItem{
		ID:      string(weather.SelectionGeo),
		Name:    geoItemName,
		Country: geoItemCountry,
		Geo:     true,
	})
	for _, l := range locations {
		all = append(all, SidebarItem{
			ID:      l.ID,
			Name:    l.DisplayName,
			Country: strings.ToUpper(l.Country),
		})
	}

	out := make([]SidebarItem, 0, len(all))
	for _, item := range all {
		if item.ID == string(selected) {
			item.Active = true
			out = append([]SidebarItem{item}, out...)
			continue
		}
		out = append(out, item)
	}
	return out
}

// NewDetail formats a snapshot for the main panel.
func NewDetail(s weather.Snapshot) *Detail {
	d := &Detail{
		City:          s.Place.Name,
		Country:       s.Place.Country,
		UpdatedAt:     s.Current.LastUpdated,
		ConditionText: s.Current.Condition.Text,
		IconURL:       IconURL(s.Current.Condition.Icon),
		Theme:         Theme(s.Current.Condition),
		TempC:         Round(s.Current.TemperatureC),
		FeelsLikeC:    Round(s.Current.FeelsLikeC),
		HumidityPct:   s.Current.HumidityPct,
		WindKph:       s.Current.WindKph,
		PressureMb:    s.Current.PressureMb,
	}

	if t, tz, ok := LocalTime(s.Place, s.Current.LastUpdated); ok {
		d.UpdatedAt = t.Format("15:04, 02.01")
		d.TimeZone = tz
	}

	for _, day := range s.Days {
		d.Days = append(d.Days, DayCard{
			Label:     DayLabel(day.Date),
			MinC:      Round(day.MinTempC),
			MaxC:      Round(day.MaxTempC),
			AvgC:      Round(day.AvgTempC),
			Condition: day.Condition.Text,
			IconURL:   IconURL(day.Condition.Icon),
		})
	}
	d.Chart = Chart(s.Days, ChartWidth, ChartHeight, ChartPadding)
	return d
}

// Theme picks the page theme class for a condition.
func Theme(c weather.ConditionInfo) string {
	switch c.Kind() {
	case weather.ConditionClear:
		return "sunny-theme"
	case weather.ConditionRain, weather.ConditionStorm:
		return "rainy-theme"
	case weather.ConditionCloudy, weather.ConditionMist:
		return "cloudy-theme"
	case weather.ConditionSnow:
		return "snowy-theme"
	default:
		return ""
	}
}

// IconURL makes the provider's protocol-relative icon path absolute.
func IconURL(raw string) string {
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}

// Round rounds half away from zero, as the dashboard shows whole degrees.
func Round(v float64) int {
	return int(math.Round(v))
}

var weekdays = [...]string{"Нд", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// DayLabel renders "2024-03-05" as "Вт, 05.03". Unparseable input is returned as-is.
func DayLabel(date string) string {
	t, err := time.Parse(forecastLayout, date)
	if err != nil {
		return date
	}
	return weekdays[t.Weekday()] + ", " + t.Format("02.01")
}

// LocalTime parses the provider's last-updated stamp in the place's time zone.
func LocalTime(p weather.Place, lastUpdated string) (time.Time, string, bool) {
	if lastUpdated == "" {
		return time.Time{}, "", false
	}
	tz := timezonemapper.LatLngToTimezoneString(p.Lat, p.Lon)
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		return time.Time{}, "", false
	}
	t, err := time.ParseInLocation(lastUpdatedLayout, lastUpdated, loc)
	if err != nil {
		return time.Time{}, "", false
	}
	return t, tz, true
}
