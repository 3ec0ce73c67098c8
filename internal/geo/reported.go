package geo

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Browser GeolocationPositionError codes.
const (
	codePermissionDenied    = 1
	codePositionUnavailable = 2
	codeTimeout             = 3
)

// ReportedPosition is the shape a browser posts after calling
// navigator.geolocation.getCurrentPosition: either coords or an error,
// or unsupported when navigator.geolocation is missing.
type ReportedPosition struct {
	Coords *struct {
		Latitude  float64 `mapstructure:"latitude"`
		Longitude float64 `mapstructure:"longitude"`
		Accuracy  float64 `mapstructure:"accuracy"`
	} `mapstructure:"coords"`
	Error *struct {
		Code    int    `mapstructure:"code"`
		Message string `mapstructure:"message"`
	} `mapstructure:"error"`
	Unsupported bool `mapstructure:"unsupported"`
}

var errEmptyReport = errors.New("position report carries neither coords nor error")

// DecodeReport decodes a raw browser payload into a Locator that replays it.
func DecodeReport(raw map[string]any) (Locator, error) {
	var rep ReportedPosition
	if err := mapstructure.Decode(raw, &rep); err != nil {
		return nil, fmt.Errorf("decode position report: %w", err)
	}
	if rep.Coords == nil && rep.Error == nil && !rep.Unsupported {
		return nil, errEmptyReport
	}
	return Reported{report: rep}, nil
}

// Reported is a Locator answering with a position the browser already obtained.
type Reported struct {
	report ReportedPosition
}

func (r Reported) Locate(ctx context.Context, _ Options) (Coords, error) {
	if err := ctx.Err(); err != nil {
		return Coords{}, err
	}

	rep := r.report
	switch {
	case rep.Unsupported:
		return Coords{}, ErrUnsupported
	case rep.Error != nil:
		switch rep.Error.Code {
		case codePermissionDenied:
			return Coords{}, withMessage(ErrDenied, rep.Error.Message)
		case codeTimeout:
			return Coords{}, withMessage(ErrTimeout, rep.Error.Message)
		default:
			return Coords{}, withMessage(ErrUnsupported, rep.Error.Message)
		}
	case rep.Coords != nil:
		return Coords{Lat: rep.Coords.Latitude, Lon: rep.Coords.Longitude}, nil
	default:
		return Coords{}, ErrUnsupported
	}
}

func withMessage(kind error, msg string) error {
	if msg == "" {
		return kind
	}
	return fmt.Errorf("%w: %s", kind, msg)
}
