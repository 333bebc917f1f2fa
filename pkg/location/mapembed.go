package location

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-ekonde/pkg/model"
)

// Uganda is the default map centre shown before a position is set.
var Uganda = model.Coordinates{Latitude: 1.3733, Longitude: 32.2903}

const (
	mapEmbedBase    = "https://www.google.com/maps/embed?pb="
	zoomedSpanM     = 50000
	countrySpanM    = 2000000
	mapEmbedPattern = "!1m14!1m12!1m3!1d%d!2d%s!3d%s!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!5e0!3m2!1sen!2sus!4v1234567890"
)

// MapEmbedURL builds the embed URL consumed by the map preview collaborator.
// A nil position frames the whole country.
func MapEmbedURL(pos *model.Coordinates) string {
	span := zoomedSpanM
	center := Uganda
	if pos == nil {
		span = countrySpanM
	} else {
		center = *pos
	}
	return mapEmbedBase + fmt.Sprintf(mapEmbedPattern,
		span,
		strconv.FormatFloat(center.Longitude, 'f', -1, 64),
		strconv.FormatFloat(center.Latitude, 'f', -1, 64))
}
