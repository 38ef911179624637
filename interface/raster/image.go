package raster

import (
	"fmt"

	"github.com/airbusgeo/godal"
)

// Image is a decoded raster with its georeferencing
type Image struct {
	Pixels       []float64 // band-interleaved, Bands x Height x Width
	Width        int
	Height       int
	Bands        int
	GeoTransform [6]float64
	Projection   string
	NoData       *float64 // nil when the dataset defines none
}

// Load reads the raster at path into memory
func Load(path string) (*Image, error) {
	registerOnce.Do(godal.RegisterAll)

	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("raster.Load: open %s: %w", path, err)
	}
	defer ds.Close()

	structure := ds.Structure()
	img := &Image{
		Width:  structure.SizeX,
		Height: structure.SizeY,
		Bands:  structure.NBands,
		Pixels: make([]float64, structure.SizeX*structure.SizeY*structure.NBands),
	}
	if img.GeoTransform, err = ds.GeoTransform(); err != nil {
		return nil, fmt.Errorf("raster.Load: geotransform of %s: %w", path, err)
	}
	img.Projection = ds.Projection()

	bandSize := structure.SizeX * structure.SizeY
	for i, band := range ds.Bands() {
		if nodata, ok := band.NoData(); ok && img.NoData == nil {
			img.NoData = &nodata
		}
		buf := img.Pixels[i*bandSize : (i+1)*bandSize]
		if err := band.Read(0, 0, buf, structure.SizeX, structure.SizeY); err != nil {
			return nil, fmt.Errorf("raster.Load: read band %d of %s: %w", i+1, path, err)
		}
	}
	return img, nil
}

// Write persists the image at path as a GeoTIFF
func Write(img *Image, path string) error {
	registerOnce.Do(godal.RegisterAll)

	ds, err := godal.Create(godal.GTiff, path, img.Bands, godal.Float64, img.Width, img.Height)
	if err != nil {
		return fmt.Errorf("raster.Write: create %s: %w", path, err)
	}
	if err := ds.SetGeoTransform(img.GeoTransform); err != nil {
		ds.Close()
		return fmt.Errorf("raster.Write: geotransform of %s: %w", path, err)
	}
	if err := ds.SetProjection(img.Projection); err != nil {
		ds.Close()
		return fmt.Errorf("raster.Write: projection of %s: %w", path, err)
	}

	bandSize := img.Width * img.Height
	for i, band := range ds.Bands() {
		if img.NoData != nil {
			if err := band.SetNoData(*img.NoData); err != nil {
				ds.Close()
				return fmt.Errorf("raster.Write: nodata of %s: %w", path, err)
			}
		}
		buf := img.Pixels[i*bandSize : (i+1)*bandSize]
		if err := band.Write(0, 0, buf, img.Width, img.Height); err != nil {
			ds.Close()
			return fmt.Errorf("raster.Write: write band %d of %s: %w", i+1, path, err)
		}
	}
	return ds.Close()
}
