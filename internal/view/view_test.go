package view

import (
	"testing"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestSidebarMovesSelectionToTop(t *testing.T) {
	locs := []weather.Location{
		{ID: "Kyiv", DisplayName: "Київ", Country: "Ukraine", Query: "Kyiv"},
		{ID: "Tokyo", DisplayName: "Токіо", Country: "Japan", Query: "Tokyo"},
	}

	items := Sidebar(locs, "Tokyo")
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].ID != "Tokyo" || !items[0].Active || items[0].Country != "JAPAN" {
		t.Fatalf("expected active Tokyo first, got %+v", items[0])
	}
	if !items[1].Geo || items[1].Name != "Моя поточна геопозиція" || items[1].Active {
		t.Fatalf("expected inactive geo item second, got %+v", items[1])
	}
	if items[2].ID != "Kyiv" {
		t.Fatalf("expected Kyiv last, got %+v", items[2])
	}

	items = Sidebar(locs, weather.SelectionGeo)
	if !items[0].Geo || !items[0].Active {
		t.Fatalf("expected active geo item first, got %+v", items[0])
	}
}

func TestBuildHidesDataWhileLoading(t *testing.T) {
	snap := &weather.Snapshot{Place: weather.Place{Name: "Kyiv"}}
	st := weather.State{
		Selection: "Tokyo",
		Fetch:     weather.FetchState{Status: weather.StatusLoading, Data: snap},
	}

	d := Build(st, nil)
	if !d.Loading || d.Detail != nil {
		t.Fatalf("expected loading without detail, got %+v", d)
	}

	st.Fetch.Status = weather.StatusSuccess
	d = Build(st, nil)
	if d.Loading || d.Detail == nil || d.Detail.City != "Kyiv" {
		t.Fatalf("expected Kyiv detail, got %+v", d)
	}
}

func TestBuildError(t *testing.T) {
	st := weather.State{
		Selection: "Paris",
		Fetch:     weather.FetchState{Status: weather.StatusError, Error: "No matching location found."},
	}

	d := Build(st, nil)
	if d.Detail != nil || d.Error != "No matching location found." {
		t.Fatalf("unexpected dashboard %+v", d)
	}
}

func TestNewDetail(t *testing.T) {
	snap := weather.Snapshot{
		Place: weather.Place{Name: "Kyiv", Country: "Ukraine", Lat: 50.45, Lon: 30.52},
		Current: weather.CurrentConditions{
			TemperatureC: 12.5,
			FeelsLikeC:   -0.4,
			LastUpdated:  "2024-03-05 14:30",
			Condition:    weather.ConditionInfo{Text: "Сонячно", Code: 1000, Icon: "//cdn.weatherapi.com/113.png"},
		},
		Days: []weather.ForecastDay{
			{Date: "2024-03-05", MinTempC: 4.4, MaxTempC: 13.6},
			{Date: "2024-03-06", MinTempC: 2, MaxTempC: 9},
		},
	}

	d := NewDetail(snap)
	if d.TempC != 13 || d.FeelsLikeC != 0 {
		t.Fatalf("unexpected rounding: %d / %d", d.TempC, d.FeelsLikeC)
	}
	if d.Theme != "sunny-theme" || d.IconURL != "https://cdn.weatherapi.com/113.png" {
		t.Fatalf("unexpected presentation %+v", d)
	}
	if d.TimeZone != "Europe/Kiev" && d.TimeZone != "Europe/Kyiv" {
		t.Fatalf("unexpected time zone %q", d.TimeZone)
	}
	if d.UpdatedAt != "14:30, 05.03" {
		t.Fatalf("unexpected updated at %q", d.UpdatedAt)
	}
	if len(d.Days) != 2 || d.Days[0].Label != "Вт, 05.03" || d.Days[0].MaxC != 14 || d.Days[0].MinC != 4 {
		t.Fatalf("unexpected days %+v", d.Days)
	}
	if len(d.Chart) != 2 {
		t.Fatalf("expected 2 chart points, got %d", len(d.Chart))
	}
}

func TestTheme(t *testing.T) {
	cases := []struct {
		cond weather.ConditionInfo
		want string
	}{
		{weather.ConditionInfo{Code: 1000}, "sunny-theme"},
		{weather.ConditionInfo{Code: 1183}, "rainy-theme"},
		{weather.ConditionInfo{Code: 1087}, "rainy-theme"},
		{weather.ConditionInfo{Code: 1006}, "cloudy-theme"},
		{weather.ConditionInfo{Code: 1135}, "cloudy-theme"},
		{weather.ConditionInfo{Code: 1225}, "snowy-theme"},
		{weather.ConditionInfo{Text: "Легкий дощ"}, "rainy-theme"},
		{weather.ConditionInfo{Text: "Patchy snow nearby"}, "snowy-theme"},
		{weather.ConditionInfo{Text: "Something odd"}, ""},
	}

	for _, tc := range cases {
		if got := Theme(tc.cond); got != tc.want {
			t.Fatalf("%+v: expected %q, got %q", tc.cond, tc.want, got)
		}
	}
}

func TestDayLabel(t *testing.T) {
	if got := DayLabel("2024-03-10"); got != "Нд, 10.03" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := DayLabel("not a date"); got != "not a date" {
		t.Fatalf("expected input back, got %q", got)
	}
}

func TestIconURL(t *testing.T) {
	if got := IconURL("https://x/y.png"); got != "https://x/y.png" {
		t.Fatalf("absolute url changed: %q", got)
	}
	if got := IconURL(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestChart(t *testing.T) {
	days := []weather.ForecastDay{{MaxTempC: 10}, {MaxTempC: 20}, {MaxTempC: 15}}

	pts := Chart(days, 100, 50, 5)
	want := []Point{{X: 5, Y: 45}, {X: 50, Y: 5}, {X: 95, Y: 25}}
	for i := range want {
		if pts[i] != want[i] {
			t.Fatalf("point %d: expected %+v, got %+v", i, want[i], pts[i])
		}
	}
}

func TestChartEdgeCases(t *testing.T) {
	if pts := Chart(nil, 100, 50, 5); pts != nil {
		t.Fatalf("expected nil for no days, got %+v", pts)
	}

	one := Chart([]weather.ForecastDay{{MaxTempC: 3}}, 100, 50, 5)
	if len(one) != 1 || one[0] != (Point{X: 50, Y: 25}) {
		t.Fatalf("expected centered point, got %+v", one)
	}

	flat := Chart([]weather.ForecastDay{{MaxTempC: 7}, {MaxTempC: 7}}, 100, 50, 5)
	if flat[0].Y != 25 || flat[1].Y != 25 {
		t.Fatalf("expected flat series in the middle, got %+v", flat)
	}
}

func TestParseThemePreference(t *testing.T) {
	cases := map[string]ThemePreference{
		"":       ThemeSystem,
		"light":  ThemeLight,
		" Dark ": ThemeDark,
		"system": ThemeSystem,
	}
	for in, want := range cases {
		got, ok := ParseThemePreference(in)
		if !ok || got != want {
			t.Fatalf("%q: expected %q, got %q (%v)", in, want, got, ok)
		}
	}
	if _, ok := ParseThemePreference("sepia"); ok {
		t.Fatalf("expected unknown preference to be rejected")
	}
	if d := Build(weather.State{}, nil); d.ThemePreference != ThemeSystem {
		t.Fatalf("expected system by default, got %q", d.ThemePreference)
	}
}
