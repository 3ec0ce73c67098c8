package geo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrDenied      = errors.New("geolocation permission denied")
	ErrTimeout     = errors.New("geolocation timed out")
	ErrUnsupported = errors.New("geolocation unavailable")
)

// DefaultTimeout bounds a position request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Coords is a device position.
type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Query renders the position as a "lat,lon" provider query.
func (c Coords) Query() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// Options mirrors the platform position request options.
type Options struct {
	Timeout      time.Duration
	HighAccuracy bool
}

// Locator is a source of device position.
type Locator interface {
	Locate(ctx context.Context, opts Options) (Coords, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context, opts Options) (Coords, error)

func (f LocatorFunc) Locate(ctx context.Context, opts Options) (Coords, error) {
	return f(ctx, opts)
}

// Adapter requests positions with a bounded wait. It never retries and never
// substitutes a position; fallback is the caller's decision.
type Adapter struct {
	locator Locator
	opts    Options
}

// NewAdapter creates an Adapter. locator may be nil when the host has no
// position capability of its own.
func NewAdapter(locator Locator, opts Options) *Adapter {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Adapter{locator: locator, opts: opts}
}

// RequestPosition asks override (or the configured locator when override is
// nil) for the current position. Failures unwrap to ErrDenied, ErrTimeout or
// ErrUnsupported, or to the caller's context error when ctx was cancelled.
func (a *Adapter) RequestPosition(ctx context.Context, override Locator) (Coords, error) {
	locator := override
	if locator == nil {
		locator = a.locator
	}
	if locator == nil {
		return Coords{}, ErrUnsupported
	}

	reqCtx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	coords, err := locator.Locate(reqCtx, a.opts)
	if err == nil {
		return coords, nil
	}

	switch {
	case ctx.Err() != nil:
		return Coords{}, ctx.Err()
	case errors.Is(err, ErrDenied), errors.Is(err, ErrTimeout), errors.Is(err, ErrUnsupported):
		return Coords{}, err
	case errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() != nil:
		return Coords{}, fmt.Errorf("%w after %s", ErrTimeout, a.opts.Timeout)
	default:
		return Coords{}, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
}
