package common

import (
	"fmt"
	"time"
)

// Object keys of the Sentinel-2 buckets follow the layout
// tiles/{utmZone}/{latitudeBand}/{gridSquare}/{year}/{month}/{day}/0/...
// Month and day are written without zero padding: that is how the upstream
// store lays its keys out, not a formatting choice.

func dayPrefix(tile TileID, date time.Time) string {
	utmZone, latitudeBand, gridSquare := tile.Decompose()
	return fmt.Sprintf("tiles/%s/%s/%s/%d/%d/%d/0", utmZone, latitudeBand, gridSquare, date.Year(), int(date.Month()), date.Day())
}

// MetadataKey returns the object key of the per-day tile metadata document
func MetadataKey(tile TileID, date time.Time) string {
	return dayPrefix(tile, date) + "/metadata.xml"
}

// CloudMaskKey returns the object key of the 20m cloud probability mask.
// Only L2A products carry one.
func CloudMaskKey(tile TileID, date time.Time) string {
	return dayPrefix(tile, date) + "/qi/CLD_20m.jp2"
}

// BandKey returns the object key of a band image at the effective resolution
// (see Band.Resolution). L2A products store each band under a per-resolution
// directory, L1C products do not.
func BandKey(tile TileID, date time.Time, level ProcessingLevel, band Band, resolutionOverride int) string {
	if level == L2A {
		return fmt.Sprintf("%s/R%dm/%s.jp2", dayPrefix(tile, date), band.Resolution(resolutionOverride), band)
	}
	return fmt.Sprintf("%s/%s.jp2", dayPrefix(tile, date), band)
}

// OutputFileName returns the name of the local GeoTIFF written for one layer
// (a band name or "CLD") of one acquisition date
func OutputFileName(tile TileID, date time.Time, level ProcessingLevel, layer string) string {
	return fmt.Sprintf("%s_%s_%s_%s.tif", tile.Canonical(), date.Format("20060102"), level, layer)
}
