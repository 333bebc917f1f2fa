package validation

import (
	"math"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-ekonde/pkg/model"
)

// MinPasswordLength is the shortest password the auth forms accept.
const MinPasswordLength = 6

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

// User-facing messages, kept verbatim so the pages read the same as the
// registry's printed guidance.
const (
	MessageInvalidEmail        = "Please enter a valid email address"
	MessagePasswordTooShort    = "Password must be at least 6 characters"
	MessagePasswordTooLong     = "Password must be at most 72 bytes"
	MessagePasswordMismatch    = "Passwords don't match"
	MessageFullNameRequired    = "Please enter your full name"
	MessageInvalidCoordinates  = "Please enter valid coordinates"
	MessageCoordinatesOutRange = "Coordinates out of range"
)

// Latitude and longitude bounds.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// FieldCoordinates is the field key used for coordinate errors.
const FieldCoordinates = "coordinates"

var domainPattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`)

// Email fails when value is not a bare addr-spec with a dotted domain. Display
// names, quoted local parts and address literals are rejected.
func Email(value string) error {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Name != "" || addr.Address != value {
		return newError(model.FieldEmail, MessageInvalidEmail)
	}
	local, domain, _ := strings.Cut(addr.Address, "@")
	badLocal := local == "" || strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..")
	if badLocal || !domainPattern.MatchString(domain) {
		return newError(model.FieldEmail, MessageInvalidEmail)
	}
	return nil
}

// Password fails when value is shorter than MinPasswordLength characters or
// longer than MaxPasswordBytes bytes.
func Password(value string) error {
	if len([]rune(value)) < MinPasswordLength {
		return newError("password", MessagePasswordTooShort)
	}
	if len(value) > MaxPasswordBytes {
		return newError("password", MessagePasswordTooLong)
	}
	return nil
}

// Confirmation fails when the password and its confirmation differ.
func Confirmation(password, confirm string) error {
	if password != confirm {
		return newError("confirmPassword", MessagePasswordMismatch)
	}
	return nil
}

// NamePresent fails when name is empty or whitespace.
func NamePresent(name string) error {
	if strings.TrimSpace(name) == "" {
		return newError(model.FieldFullName, MessageFullNameRequired)
	}
	return nil
}

// Coordinates fails when either component is not finite or out of range.
func Coordinates(lat, lng float64) error {
	if !finite(lat) || !finite(lng) {
		return newError(FieldCoordinates, MessageInvalidCoordinates)
	}
	if lat < MinLatitude || lat > MaxLatitude || lng < MinLongitude || lng > MaxLongitude {
		return newError(FieldCoordinates, MessageCoordinatesOutRange)
	}
	return nil
}

// ParseCoordinates parses manual latitude/longitude input. Both strings must
// be plain decimal numbers; surrounding whitespace is ignored.
func ParseCoordinates(latRaw, lngRaw string) (model.Coordinates, error) {
	lat, latErr := parseNumber(latRaw)
	lng, lngErr := parseNumber(lngRaw)
	if latErr != nil || lngErr != nil {
		return model.Coordinates{}, newError(FieldCoordinates, MessageInvalidCoordinates)
	}
	if err := Coordinates(lat, lng); err != nil {
		return model.Coordinates{}, err
	}
	return model.Coordinates{Latitude: lat, Longitude: lng}, nil
}

func parseNumber(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if !finite(value) {
		return 0, strconv.ErrSyntax
	}
	return value, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
