// Package downloader fetches the rasters of selected Sentinel-2 acquisitions
// and persists them to a local output tree, one GeoTIFF per (date, band).
package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nargyrop/s2-aws-dl/common"
	"github.com/nargyrop/s2-aws-dl/service"
	"github.com/nargyrop/s2-aws-dl/service/log"
	"golang.org/x/sync/errgroup"
)

// Raster streams a remote raster and persists it locally with its
// georeferencing preserved
type Raster interface {
	// AccessPath returns the addressable path of bucket/key
	AccessPath(bucket, key string) string
	// Fetch retrieves the raster at accessPath and writes it to outputPath
	Fetch(ctx context.Context, accessPath, outputPath string) error
}

// FetchError reports the failure to retrieve or write one layer of one date
type FetchError struct {
	Date time.Time
	Band string // band name or "CLD"
	Err  error
}

func (e FetchError) Error() string {
	return fmt.Sprintf("fetch %s/%s: %v", e.Date.Format("20060102"), e.Band, e.Err)
}

func (e FetchError) Unwrap() error { return e.Err }

// CloudMaskLayer is the result key of the L2A cloud probability mask
const CloudMaskLayer = "CLD"

// Downloader writes the selected acquisitions of a tile to a local output tree
type Downloader struct {
	Raster Raster
	Level  common.ProcessingLevel
	Bands  []common.Band
	// Resolution overrides the native resolution of the bands (meters).
	// A band is never fetched finer than its native resolution. 0 = native.
	Resolution int
	// CloudMask also fetches the 20m cloud probability mask (L2A only)
	CloudMask bool
	// Overwrite refetches layers whose output file already exists
	Overwrite bool
	// ContinueOnError keeps fetching the remaining dates after a FetchError
	// instead of aborting, merging the errors
	ContinueOnError bool
	// Workers bounds the parallel layer fetches of one date; sequential when <= 1
	Workers int
}

// New creates a Downloader fetching every band plus the cloud mask
func New(raster Raster, level common.ProcessingLevel) *Downloader {
	return &Downloader{
		Raster:    raster,
		Level:     level,
		Bands:     common.AllBands,
		CloudMask: true,
	}
}

// Download fetches every date of the sequence in input order and merges the
// per-date results keyed by YYYYMMDD
func (d *Downloader) Download(ctx context.Context, tile common.TileID, dates []time.Time, outputDir string) (map[string]map[string]string, error) {
	results := make(map[string]map[string]string, len(dates))
	var err error
	for _, date := range dates {
		paths, e := d.DownloadDate(ctx, tile, date, outputDir)
		if paths != nil {
			results[date.Format("20060102")] = paths
		}
		if e != nil {
			if !d.ContinueOnError {
				return results, fmt.Errorf("Download.%w", e)
			}
			log.Logger(ctx).Sugar().Warnf("%v", e)
			err = service.MergeErrors(true, err, e)
		}
	}
	return results, err
}

// DownloadDate fetches the requested bands (and the cloud mask for L2A) of
// one acquisition date, returning the written file path per layer
func (d *Downloader) DownloadDate(ctx context.Context, tile common.TileID, date time.Time, outputDir string) (map[string]string, error) {
	dateDir := filepath.Join(outputDir, date.Format("20060102"))
	if err := os.MkdirAll(dateDir, 0755); err != nil {
		return nil, service.MakeTemporary(fmt.Errorf("DownloadDate: make directory %s: %w", dateDir, err))
	}

	type target struct {
		layer string
		key   string
	}
	var targets []target
	if d.CloudMask && d.Level == common.L2A {
		targets = append(targets, target{CloudMaskLayer, common.CloudMaskKey(tile, date)})
	}
	for _, band := range d.Bands {
		targets = append(targets, target{string(band), common.BandKey(tile, date, d.Level, band, d.Resolution)})
	}

	log.Logger(ctx).Sugar().Infof("downloading %s %s", tile.Canonical(), date.Format("20060102"))

	paths := make(map[string]string, len(targets))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(d.Workers, 1))
	for _, target := range targets {
		target := target
		g.Go(func() error {
			outputPath := filepath.Join(dateDir, common.OutputFileName(tile, date, d.Level, target.layer))
			if err := d.fetch(gctx, target.key, outputPath); err != nil {
				return FetchError{Date: date, Band: target.layer, Err: err}
			}
			mu.Lock()
			paths[target.layer] = outputPath
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return paths, err
	}
	return paths, nil
}

// fetch retrieves one layer unless its output file already exists. The write
// goes to a temporary path and is renamed into place on completion, so an
// interrupted fetch is not mistaken for a finished one on the next run.
func (d *Downloader) fetch(ctx context.Context, key, outputPath string) error {
	if !d.Overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			log.Logger(ctx).Sugar().Debugf("%s already downloaded", filepath.Base(outputPath))
			return nil
		}
	}

	tmpPath := outputPath + ".part"
	if err := d.Raster.Fetch(ctx, d.Raster.AccessPath(d.Level.Bucket(), key), tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("rename %s: %w", tmpPath, err)
	}
	return nil
}
