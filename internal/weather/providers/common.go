package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// HTTPClientConfig bundles the HTTP client and the circuit breaker guarding it.
type HTTPClientConfig struct {
	Client  *http.Client
	Breaker BreakerConfig
}

// BreakerConfig controls when the circuit opens. Only transport failures and
// 5xx responses count as failures.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

var (
	errServerError  = errors.New("server error")
	errNoHTTPClient = errors.New("http client not configured")
)

// maxErrorSnippet bounds how much of a non-JSON error body is surfaced.
const maxErrorSnippet = 140

func newCircuitBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
}

// doRequest executes a single request through the circuit breaker and returns
// the full response body. It never retries: a failed attempt is terminal.
// Non-2xx responses are returned with their body so the caller can classify them.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (int, []byte, error) {
	if client == nil {
		return 0, nil, weather.NewError(weather.ErrNetwork, "", errNoHTTPClient)
	}

	req, err := buildRequest()
	if err != nil {
		return 0, nil, weather.NewError(weather.ErrNetwork, "", err)
	}
	// Ensure the request obeys context cancellation.
	req = req.WithContext(ctx)

	type result struct {
		status int
		body   []byte
	}

	out, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, readErr
		}
		if resp.StatusCode >= 500 {
			// Count against the breaker but keep the body for the message.
			return result{status: resp.StatusCode, body: body}, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		return result{status: resp.StatusCode, body: body}, nil
	})

	if r, ok := out.(result); ok {
		return r.status, r.body, nil
	}

	switch {
	case ctx.Err() != nil:
		return 0, nil, weather.NewError(weather.ErrNetwork, "", ctx.Err())
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return 0, nil, weather.NewError(weather.ErrNetwork, "provider temporarily unavailable", err)
	default:
		return 0, nil, weather.NewError(weather.ErrNetwork, "", err)
	}
}

// providerError is the error object WeatherAPI embeds in response bodies,
// on HTTP errors and occasionally on HTTP 200.
type providerError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// decodeResponse classifies a response and decodes a successful body into dst.
// HTTP-level and in-payload errors come out through the same *weather.Error channel.
func decodeResponse(status int, body []byte, dst interface{}) error {
	perr, jsonErr := embeddedError(body)

	if status < 200 || status >= 300 {
		msg := ""
		code := 0
		switch {
		case perr != nil:
			msg = perr.Message
			code = perr.Code
		case jsonErr != nil && len(bytes.TrimSpace(body)) > 0:
			msg = snippet(body)
		}
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d (%s)", status, statusText(status))
		}
		return weather.NewError(classify(status, code), msg, nil)
	}

	if perr != nil && perr.Message != "" {
		return weather.NewError(classify(status, perr.Code), perr.Message, nil)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return weather.NewError(weather.ErrMalformed, "", err)
	}
	return nil
}

// embeddedError extracts the provider error object from an object body.
// Array bodies (search results) carry none.
func embeddedError(body []byte) (*providerError, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if len(trimmed) > 0 && trimmed[0] == '[' {
			return nil, nil
		}
		return nil, errors.New("body is not a JSON object")
	}

	var envelope struct {
		Error *providerError `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	return envelope.Error, nil
}

// classify maps WeatherAPI error codes, then HTTP status, to a failure kind.
func classify(status, code int) error {
	switch code {
	case 1006:
		return weather.ErrNotFound
	case 1002, 1005, 2006:
		return weather.ErrUnauthorized
	case 2007, 2008, 2009:
		return weather.ErrRateLimited
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return weather.ErrUnauthorized
	case status == http.StatusTooManyRequests:
		return weather.ErrRateLimited
	case status >= 500:
		return weather.ErrNetwork
	default:
		return weather.ErrNotFound
	}
}

func snippet(body []byte) string {
	runes := []rune(string(body))
	if len(runes) > maxErrorSnippet {
		runes = runes[:maxErrorSnippet]
	}
	return string(runes)
}

func statusText(status int) string {
	if t := http.StatusText(status); t != "" {
		return t
	}
	return "error"
}
