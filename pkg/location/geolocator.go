package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-ekonde/pkg/model"
)

// Reason classifies why a device position could not be obtained.
type Reason string

const (
	ReasonUnsupported Reason = "unsupported"
	ReasonDenied      Reason = "denied"
	ReasonUnavailable Reason = "unavailable"
	ReasonTimeout     Reason = "timeout"
	ReasonInvalid     Reason = "invalid"
)

// Sentinels matched by CapabilityError.Is.
var (
	ErrUnsupported = errors.New("location: geolocation not supported")
	ErrDenied      = errors.New("location: permission denied")
	ErrUnavailable = errors.New("location: position unavailable")
	ErrTimeout     = errors.New("location: request timed out")
	ErrInvalid     = errors.New("location: invalid position")
)

var errMissingPosition = errors.New("fix carries no position")

// CapabilityError reports that the platform could not provide a position.
type CapabilityError struct {
	Reason Reason
	Err    error
}

func (e *CapabilityError) Error() string {
	if e == nil {
		return "location: capability error"
	}
	if e.Err != nil {
		return fmt.Sprintf("location: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("location: %s", e.Reason)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's reason.
func (e *CapabilityError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrUnsupported:
		return e.Reason == ReasonUnsupported
	case ErrDenied:
		return e.Reason == ReasonDenied
	case ErrUnavailable:
		return e.Reason == ReasonUnavailable
	case ErrTimeout:
		return e.Reason == ReasonTimeout
	case ErrInvalid:
		return e.Reason == ReasonInvalid
	}
	return false
}

// Geolocator is the platform capability that reports the device position.
type Geolocator interface {
	Locate(ctx context.Context) (model.Coordinates, error)
}

// GeolocatorFunc adapts a function to Geolocator.
type GeolocatorFunc func(ctx context.Context) (model.Coordinates, error)

// Locate calls f(ctx).
func (f GeolocatorFunc) Locate(ctx context.Context) (model.Coordinates, error) {
	return f(ctx)
}

// Unavailable is a Geolocator for hosts without any position source.
type Unavailable struct{}

// Locate always fails with ReasonUnsupported.
func (Unavailable) Locate(context.Context) (model.Coordinates, error) {
	return model.Coordinates{}, &CapabilityError{Reason: ReasonUnsupported}
}

// Static reports a fixed position, e.g. one supplied on the command line.
type Static struct {
	Position model.Coordinates
}

// Locate returns the configured position unless ctx is already done.
func (s Static) Locate(ctx context.Context) (model.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinates{}, err
	}
	return s.Position, nil
}

// W3C GeolocationPositionError codes posted by the browser script.
const (
	BrowserCodeNone                = 0
	BrowserCodePermissionDenied    = 1
	BrowserCodePositionUnavailable = 2
	BrowserCodeTimeout             = 3
)

// BrowserFix is the outcome of navigator.geolocation as posted back by the
// apply page. Supported=false means the browser has no geolocation API.
type BrowserFix struct {
	Supported bool     `json:"supported"`
	Code      int      `json:"code,omitempty"`
	Message   string   `json:"message,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Locate converts the posted outcome into coordinates or a CapabilityError.
func (b BrowserFix) Locate(ctx context.Context) (model.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinates{}, err
	}
	if !b.Supported {
		return model.Coordinates{}, &CapabilityError{Reason: ReasonUnsupported}
	}
	var cause error
	if b.Message != "" {
		cause = errors.New(b.Message)
	}
	switch b.Code {
	case BrowserCodeNone:
		if b.Latitude == nil || b.Longitude == nil {
			return model.Coordinates{}, &CapabilityError{Reason: ReasonInvalid, Err: errMissingPosition}
		}
		return model.Coordinates{Latitude: *b.Latitude, Longitude: *b.Longitude}, nil
	case BrowserCodePermissionDenied:
		return model.Coordinates{}, &CapabilityError{Reason: ReasonDenied, Err: cause}
	case BrowserCodeTimeout:
		return model.Coordinates{}, &CapabilityError{Reason: ReasonTimeout, Err: cause}
	default:
		return model.Coordinates{}, &CapabilityError{Reason: ReasonUnavailable, Err: cause}
	}
}
