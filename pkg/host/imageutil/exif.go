package imageutil

import (
	"bytes"
	"fmt"

	goexif "github.com/rwcarlsen/goexif/exif"
)

// Location is the decoded GPS latitude/longitude an image's EXIF tags
// carry, matching gfx/exif.rs's Location.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GPS extracts a Location from img's EXIF data, or returns (nil, nil) if
// the image has no GPS tags at all — exif.rs's `gps` collapses a missing
// field into Ok(None) rather than an error, since most images simply
// don't carry location data.
func GPS(img []byte) (*Location, error) {
	x, err := goexif.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("failed to decode EXIF data: %w", err)
	}

	lat, long, err := x.LatLong()
	if err != nil {
		return nil, nil
	}
	return &Location{Latitude: lat, Longitude: long}, nil
}
