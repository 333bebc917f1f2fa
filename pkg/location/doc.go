// Package location implements the land location widget of the wizard.
//
// Two paths converge on the same committed Coordinates: a device request
// through a Geolocator (the browser's navigator.geolocation result posted by
// the page, a fixed position from the command line, or nothing at all) and
// manual latitude/longitude entry. Both mirror the position into the text
// inputs and report it to the owning draft through the onSelect callback.
// Failures surface as notifications; the only state besides the position is
// a locating flag.
package location
