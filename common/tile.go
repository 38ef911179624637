package common

import (
	"fmt"
	"regexp"
)

// TileID is the 5-character code of a Sentinel-2 grid cell: UTM zone (2 digits),
// latitude band (1 letter), grid square (2 letters). e.g. 35VNH
type TileID string

var tileIDRe = regexp.MustCompile(`^[0-9]{2}[A-Z]{3}$`)

// ErrInvalidTileID is returned when a tile id cannot be decomposed
type ErrInvalidTileID struct {
	Input string
}

func (e ErrInvalidTileID) Error() string {
	return fmt.Sprintf("invalid tile id: %s", e.Input)
}

// ParseTileID validates the user input and returns the bare 5-character tile id.
// The canonical "T" prefix (e.g. T35VNH) is accepted and stripped.
func ParseTileID(input string) (TileID, error) {
	id := input
	if len(id) > 0 && id[0] == 'T' {
		id = id[1:]
	}
	if !tileIDRe.MatchString(id) {
		return "", ErrInvalidTileID{Input: input}
	}
	return TileID(id), nil
}

// Decompose splits the tile id into the three components of the bucket layout
func (t TileID) Decompose() (utmZone, latitudeBand, gridSquare string) {
	s := string(t)
	return s[:2], s[2:3], s[3:]
}

// Canonical returns the tile id with its "T" prefix, as used in product names
func (t TileID) Canonical() string {
	return "T" + string(t)
}
