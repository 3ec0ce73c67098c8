package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// IPLocator resolves the host's public IP to coordinates via ip-api.com.
// It is the server-side stand-in for the browser's position capability.
type IPLocator struct {
	client  *http.Client
	baseURL string
}

func NewIPLocator(client *http.Client, baseURL string) *IPLocator {
	if client == nil {
		client = http.DefaultClient
	}
	return &IPLocator{client: client, baseURL: baseURL}
}

func (l *IPLocator) Locate(ctx context.Context, _ Options) (Coords, error) {
	values := url.Values{}
	values.Set("fields", "status,message,lat,lon")

	u := fmt.Sprintf("%s?%s", l.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Coords{}, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return Coords{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Coords{}, fmt.Errorf("%w: ip lookup status %d", ErrUnsupported, resp.StatusCode)
	}

	var payload struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Coords{}, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if payload.Status != "success" {
		return Coords{}, fmt.Errorf("%w: %s", ErrUnsupported, payload.Message)
	}

	return Coords{Lat: payload.Lat, Lon: payload.Lon}, nil
}
