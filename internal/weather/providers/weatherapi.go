package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	DefaultBaseURL = "https://api.weatherapi.com/v1"
	DefaultLang    = "uk"

	MinForecastDays = 1
	MaxForecastDays = 10

	// minSearchLength keeps single keystrokes from reaching the provider.
	minSearchLength = 2
)

// Config is the explicit per-client configuration; nothing is read from globals.
type Config struct {
	APIKey  string
	BaseURL string
	Lang    string
}

// WeatherAPIProvider implements weather.Client for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	lang    string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

var _ weather.Client = (*WeatherAPIProvider)(nil)

func NewWeatherAPIProvider(client *http.Client, cfg Config) *WeatherAPIProvider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	lang := cfg.Lang
	if lang == "" {
		lang = DefaultLang
	}

	httpCfg := HTTPClientConfig{
		Client: client,
		Breaker: BreakerConfig{
			Name:             "weatherapi",
			MaxRequests:      1,
			Interval:         1 * time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		lang:    lang,
		httpCfg: httpCfg,
		circuit: newCircuitBreaker(httpCfg.Breaker),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// ClampDays limits a forecast length to what the provider supports.
func ClampDays(days int) int {
	switch {
	case days < MinForecastDays:
		return MinForecastDays
	case days > MaxForecastDays:
		return MaxForecastDays
	default:
		return days
	}
}

// apiLocation and apiCondition mirror the provider's JSON.
type apiLocation struct {
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type apiCondition struct {
	Text string `json:"text"`
	Code int    `json:"code"`
	Icon string `json:"icon"`
}

type apiCurrent struct {
	TempC       float64      `json:"temp_c"`
	FeelsLikeC  float64      `json:"feelslike_c"`
	Humidity    float64      `json:"humidity"`
	WindKph     float64      `json:"wind_kph"`
	PressureMb  float64      `json:"pressure_mb"`
	LastUpdated string       `json:"last_updated"`
	Condition   apiCondition `json:"condition"`
}

type currentPayload struct {
	Location *apiLocation `json:"location"`
	Current  *apiCurrent  `json:"current"`
}

type forecastPayload struct {
	Location *apiLocation `json:"location"`
	Current  *apiCurrent  `json:"current"`
	Forecast *struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MinTempC  float64      `json:"mintemp_c"`
				MaxTempC  float64      `json:"maxtemp_c"`
				AvgTempC  float64      `json:"avgtemp_c"`
				Condition apiCondition `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) FetchCurrent(ctx context.Context, query string) (weather.Current, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("lang", p.lang)
	values.Set("aqi", "no")

	var payload currentPayload
	if err := p.get(ctx, "current.json", values, &payload); err != nil {
		return weather.Current{}, err
	}
	if payload.Location == nil || payload.Current == nil {
		return weather.Current{}, weather.NewError(weather.ErrMalformed, "", fmt.Errorf("current.json: missing location or current"))
	}

	return weather.Current{
		Place:      toPlace(*payload.Location),
		Conditions: toConditions(*payload.Current),
	}, nil
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, query string, days int) (weather.Forecast, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("days", strconv.Itoa(ClampDays(days)))
	values.Set("lang", p.lang)
	values.Set("aqi", "no")
	values.Set("alerts", "no")

	var payload forecastPayload
	if err := p.get(ctx, "forecast.json", values, &payload); err != nil {
		return weather.Forecast{}, err
	}
	if payload.Location == nil || payload.Current == nil || payload.Forecast == nil {
		return weather.Forecast{}, weather.NewError(weather.ErrMalformed, "", fmt.Errorf("forecast.json: missing location, current or forecast"))
	}

	out := weather.Forecast{
		Place:      toPlace(*payload.Location),
		Conditions: toConditions(*payload.Current),
		Days:       make([]weather.ForecastDay, 0, len(payload.Forecast.ForecastDay)),
	}
	for _, fd := range payload.Forecast.ForecastDay {
		out.Days = append(out.Days, weather.ForecastDay{
			Date:      fd.Date,
			MinTempC:  fd.Day.MinTempC,
			MaxTempC:  fd.Day.MaxTempC,
			AvgTempC:  fd.Day.AvgTempC,
			Condition: toCondition(fd.Day.Condition),
		})
	}
	return out, nil
}

// SearchLocations returns ranked suggestions. Inputs shorter than two
// characters return an empty slice without calling the provider.
func (p *WeatherAPIProvider) SearchLocations(ctx context.Context, partial string) ([]weather.LocationSuggestion, error) {
	q := strings.TrimSpace(partial)
	if utf8.RuneCountInString(q) < minSearchLength {
		return []weather.LocationSuggestion{}, nil
	}

	values := url.Values{}
	values.Set("q", q)

	var payload []apiLocation
	if err := p.get(ctx, "search.json", values, &payload); err != nil {
		return nil, err
	}

	out := make([]weather.LocationSuggestion, 0, len(payload))
	for _, l := range payload {
		out = append(out, weather.LocationSuggestion{
			Name:    l.Name,
			Region:  l.Region,
			Country: l.Country,
			Lat:     l.Lat,
			Lon:     l.Lon,
		})
	}
	return out, nil
}

func (p *WeatherAPIProvider) get(ctx context.Context, endpoint string, values url.Values, dst interface{}) error {
	if p.apiKey == "" {
		return weather.NewError(weather.ErrUnauthorized, "weatherapi api key is not configured", nil)
	}

	buildRequest := func() (*http.Request, error) {
		values.Set("key", p.apiKey)
		u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	status, body, err := doRequest(ctx, p.httpCfg.Client, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	return decodeResponse(status, body, dst)
}

func toPlace(l apiLocation) weather.Place {
	return weather.Place{
		Name:    l.Name,
		Region:  l.Region,
		Country: l.Country,
		Lat:     l.Lat,
		Lon:     l.Lon,
	}
}

func toConditions(c apiCurrent) weather.CurrentConditions {
	return weather.CurrentConditions{
		TemperatureC: c.TempC,
		FeelsLikeC:   c.FeelsLikeC,
		HumidityPct:  c.Humidity,
		WindKph:      c.WindKph,
		PressureMb:   c.PressureMb,
		Condition:    toCondition(c.Condition),
		LastUpdated:  c.LastUpdated,
	}
}

func toCondition(c apiCondition) weather.ConditionInfo {
	return weather.ConditionInfo{Text: c.Text, Code: c.Code, Icon: c.Icon}
}
