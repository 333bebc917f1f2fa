package location

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/goliatone/go-ekonde/pkg/model"
	"github.com/goliatone/go-ekonde/pkg/notify"
	"github.com/goliatone/go-ekonde/pkg/validation"
)

// Notification copy emitted by Capture.
const (
	TitleLocationFound  = "Your location found! 🎯"
	TitleLocationFailed = "Could not get your location"
	HintManualEntry     = "Please enter coordinates manually below"
	TitleNotSupported   = "Geolocation not supported"
	TitleManualAccepted = "Location set! 📍"
	inputDecimals       = 6
	labelDecimals       = 4
)

// Option configures a Capture.
type Option func(*Capture)

// WithNotifier routes success and failure notices to n.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Capture) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithPosition seeds the capture with an already known position, e.g. the
// coordinates stored in the draft.
func WithPosition(pos model.Coordinates) Option {
	return func(c *Capture) {
		c.set(pos)
	}
}

// Capture is the location widget: it acquires coordinates from the device or
// from manual entry, mirrors them into the two text inputs and hands the
// result to onSelect. Not safe for concurrent use.
type Capture struct {
	position *model.Coordinates
	locating bool
	latInput string
	lngInput string
	onSelect func(model.Coordinates)
	notifier notify.Notifier
}

// New builds a capture that reports accepted coordinates to onSelect.
func New(onSelect func(model.Coordinates), opts ...Option) *Capture {
	c := &Capture{onSelect: onSelect, notifier: notify.Discard}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// RequestDeviceLocation asks g for the current position. On success the
// position is committed and a success notice is emitted; on failure a
// failure notice is emitted and state is left unchanged. If ctx is done by
// the time g answers, nothing is updated or emitted and ctx.Err() is returned.
func (c *Capture) RequestDeviceLocation(ctx context.Context, g Geolocator) error {
	c.locating = true
	defer func() { c.locating = false }()

	if g == nil {
		c.notifier.Notify(notify.Error(TitleNotSupported, ""))
		return &CapabilityError{Reason: ReasonUnsupported}
	}

	pos, err := g.Locate(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			c.notifier.Notify(notify.Error(TitleNotSupported, ""))
		} else {
			c.notifier.Notify(notify.Error(TitleLocationFailed, HintManualEntry))
		}
		var capErr *CapabilityError
		if errors.As(err, &capErr) {
			return err
		}
		return &CapabilityError{Reason: ReasonUnavailable, Err: err}
	}
	if err := validation.Coordinates(pos.Latitude, pos.Longitude); err != nil {
		c.notifier.Notify(notify.Error(TitleLocationFailed, HintManualEntry))
		return &CapabilityError{Reason: ReasonInvalid, Err: err}
	}

	c.commit(pos)
	c.notifier.Notify(notify.Success(TitleLocationFound, ""))
	return nil
}

// SubmitManualCoordinates parses the typed latitude/longitude. Invalid input
// emits the validation message as a failure notice and leaves the stored
// position untouched.
func (c *Capture) SubmitManualCoordinates(latRaw, lngRaw string) error {
	c.latInput, c.lngInput = latRaw, lngRaw
	pos, err := validation.ParseCoordinates(latRaw, lngRaw)
	if err != nil {
		c.notifier.Notify(notify.Error(err.Error(), ""))
		return err
	}
	c.commit(pos)
	c.notifier.Notify(notify.Success(TitleManualAccepted, ""))
	return nil
}

// SetInputs mirrors what the citizen typed into the manual entry fields
// without committing anything.
func (c *Capture) SetInputs(latRaw, lngRaw string) {
	c.latInput, c.lngInput = latRaw, lngRaw
}

// Position returns the committed position, if any.
func (c *Capture) Position() (model.Coordinates, bool) {
	if c.position == nil {
		return model.Coordinates{}, false
	}
	return *c.position, true
}

// Locating reports whether a device request is in flight.
func (c *Capture) Locating() bool {
	return c.locating
}

// Inputs returns the latitude and longitude text input values.
func (c *Capture) Inputs() (string, string) {
	return c.latInput, c.lngInput
}

// Label renders the "Location set" line, or "" when nothing is set.
func (c *Capture) Label() string {
	pos, ok := c.Position()
	if !ok {
		return ""
	}
	return fmt.Sprintf("Location set: %s, %s",
		strconv.FormatFloat(pos.Latitude, 'f', labelDecimals, 64),
		strconv.FormatFloat(pos.Longitude, 'f', labelDecimals, 64))
}

// MapEmbedURL returns the map preview URL for the committed position.
func (c *Capture) MapEmbedURL() string {
	pos, ok := c.Position()
	if !ok {
		return MapEmbedURL(nil)
	}
	return MapEmbedURL(&pos)
}

// Reset clears the position and inputs.
func (c *Capture) Reset() {
	c.position = nil
	c.locating = false
	c.latInput, c.lngInput = "", ""
}

func (c *Capture) commit(pos model.Coordinates) {
	c.set(pos)
	if c.onSelect != nil {
		c.onSelect(pos)
	}
}

func (c *Capture) set(pos model.Coordinates) {
	p := pos
	c.position = &p
	c.latInput = strconv.FormatFloat(pos.Latitude, 'f', inputDecimals, 64)
	c.lngInput = strconv.FormatFloat(pos.Longitude, 'f', inputDecimals, 64)
}
