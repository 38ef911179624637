package common

//go:generate go run github.com/dmarkham/enumer -json -type ProcessingLevel

// ProcessingLevel defines the Sentinel-2 product variant
type ProcessingLevel int

const (
	L1C ProcessingLevel = iota // top-of-atmosphere reflectance
	L2A                        // surface reflectance, atmospherically corrected
)

// Bucket returns the AWS bucket holding the products of this level
func (l ProcessingLevel) Bucket() string {
	switch l {
	case L1C:
		return "sentinel-s2-l1c"
	case L2A:
		return "sentinel-s2-l2a"
	}
	return ""
}

// MetadataRoot returns the root element of the per-day tile metadata document
func (l ProcessingLevel) MetadataRoot() string {
	switch l {
	case L1C:
		return "Level-1C_Tile_ID"
	case L2A:
		return "Level-2A_Tile_ID"
	}
	return ""
}
