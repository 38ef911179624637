package search

import (
	"encoding/xml"
	"fmt"

	"github.com/nargyrop/s2-aws-dl/common"
)

type qualityIndicators struct {
	CloudCover  float64
	NodataCover float64
}

// parseQualityIndicators extracts the per-day quality indicators from a tile
// metadata document. The root element is named after the processing level;
// only L2A documents carry a no-data percentage.
func parseQualityIndicators(doc []byte, level common.ProcessingLevel) (qualityIndicators, error) {
	metadata := struct {
		XMLName xml.Name
		Cloudy  *float64 `xml:"Quality_Indicators_Info>Image_Content_QI>CLOUDY_PIXEL_PERCENTAGE"`
		Nodata  *float64 `xml:"Quality_Indicators_Info>Image_Content_QI>NODATA_PIXEL_PERCENTAGE"`
	}{}
	if err := xml.Unmarshal(doc, &metadata); err != nil {
		return qualityIndicators{}, fmt.Errorf("parseQualityIndicators.Unmarshal: %w", err)
	}

	if metadata.XMLName.Local != level.MetadataRoot() {
		return qualityIndicators{}, fmt.Errorf("parseQualityIndicators: unexpected root element %s, want %s", metadata.XMLName.Local, level.MetadataRoot())
	}
	if metadata.Cloudy == nil {
		return qualityIndicators{}, fmt.Errorf("parseQualityIndicators: missing CLOUDY_PIXEL_PERCENTAGE")
	}

	qi := qualityIndicators{CloudCover: *metadata.Cloudy}
	if level == common.L2A {
		if metadata.Nodata == nil {
			return qualityIndicators{}, fmt.Errorf("parseQualityIndicators: missing NODATA_PIXEL_PERCENTAGE")
		}
		qi.NodataCover = *metadata.Nodata
	}
	return qi, nil
}
