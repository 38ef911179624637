package common

import "fmt"

// Band is one spectral channel of the Sentinel-2 MSI instrument
type Band string

// Available bands, in product order. TCI is the true-color composite.
const (
	B01 Band = "B01"
	B02 Band = "B02"
	B03 Band = "B03"
	B04 Band = "B04"
	B05 Band = "B05"
	B06 Band = "B06"
	B07 Band = "B07"
	B08 Band = "B08"
	B8A Band = "B8A"
	B09 Band = "B09"
	B10 Band = "B10"
	B11 Band = "B11"
	B12 Band = "B12"
	TCI Band = "TCI"
)

// AllBands lists every available band in product order
var AllBands = []Band{B01, B02, B03, B04, B05, B06, B07, B08, B8A, B09, B10, B11, B12, TCI}

// nativeResolutions maps each band to the ground resolution (meters) it is sensed at
var nativeResolutions = map[Band]int{
	B02: 10, B03: 10, B04: 10, B08: 10, TCI: 10,
	B05: 20, B06: 20, B07: 20, B8A: 20, B11: 20, B12: 20,
	B01: 60, B09: 60, B10: 60,
}

// GetBandFromString returns the band matching the user input
func GetBandFromString(input string) (Band, error) {
	b := Band(input)
	if _, ok := nativeResolutions[b]; !ok {
		return "", fmt.Errorf("unknown band: %s", input)
	}
	return b, nil
}

// NativeResolution returns the resolution (meters) the band is natively stored at
func (b Band) NativeResolution() int {
	return nativeResolutions[b]
}

// Resolution returns the resolution used to address the band in the store.
// An override coarser than the native resolution wins; a band is never
// fetched finer than its native resolution. override==0 means no override.
func (b Band) Resolution(override int) int {
	if native := nativeResolutions[b]; override < native {
		return native
	}
	return override
}
