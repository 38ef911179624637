// Package search selects the acquisition dates of a Sentinel-2 tile worth
// downloading, filtering every day of a range by the cloud-cover and no-data
// quality indicators published alongside the imagery.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/nargyrop/s2-aws-dl/common"
	"github.com/nargyrop/s2-aws-dl/interface/store"
	"github.com/nargyrop/s2-aws-dl/service"
	"github.com/nargyrop/s2-aws-dl/service/log"
	"github.com/schollz/progressbar/v3"
)

// DateStatus tells what happened to one candidate date
type DateStatus int

const (
	// Accepted: metadata found and both thresholds satisfied
	Accepted DateStatus = iota
	// NoMetadata: no metadata document for that day (usually no acquisition)
	NoMetadata
	// BadMetadata: the metadata document could not be parsed
	BadMetadata
	// Rejected: quality indicators above the thresholds
	Rejected
)

// DateResult is the outcome of one candidate day of the searched range
type DateResult struct {
	Date        time.Time
	Status      DateStatus
	CloudCover  float64 // percent, only meaningful when metadata was parsed
	NodataCover float64
	Err         error // cause, for NoMetadata/BadMetadata
}

// Report lists the outcome of every day of the searched range, ascending
type Report []DateResult

// AcceptedDates returns the accepted dates in ascending order
func (r Report) AcceptedDates() []time.Time {
	var dates []time.Time
	for _, result := range r {
		if result.Status == Accepted {
			dates = append(dates, result.Date)
		}
	}
	return dates
}

// Searcher iterates a date range and keeps the dates passing the quality
// thresholds. The thresholds default to 100 (accept every date with
// retrievable metadata) unless tightened.
type Searcher struct {
	Store        store.Store
	Level        common.ProcessingLevel
	CloudCover   float64 // maximum cloud-cover percentage
	NodataCover  float64 // maximum no-data percentage (L2A only, L1C products carry no such field and count as 0)
	ShowProgress bool
}

// NewSearcher creates a Searcher with permissive thresholds
func NewSearcher(st store.Store, level common.ProcessingLevel) *Searcher {
	return &Searcher{
		Store:       st,
		Level:       level,
		CloudCover:  100,
		NodataCover: 100,
	}
}

// Search returns the accepted dates of [from, to] inclusive, ascending
func (s *Searcher) Search(ctx context.Context, tile common.TileID, from, to time.Time) ([]time.Time, error) {
	report, err := s.SearchReport(ctx, tile, from, to)
	if err != nil {
		return nil, err
	}
	return report.AcceptedDates(), nil
}

// SearchReport returns the outcome of every day of [from, to] inclusive, in
// ascending order. A day whose metadata cannot be fetched or parsed is
// recorded as skipped, never surfaced as an error.
func (s *Searcher) SearchReport(ctx context.Context, tile common.TileID, from, to time.Time) (Report, error) {
	if !s.Level.IsAProcessingLevel() {
		return nil, service.MakeFatal(fmt.Errorf("search: wrong processing level, choose between L1C and L2A"))
	}

	days := daysBetween(from, to)
	var bar *progressbar.ProgressBar
	if s.ShowProgress {
		bar = progressbar.Default(int64(len(days)), "searching")
	}

	report := make(Report, 0, len(days))
	for _, day := range days {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if bar != nil {
			bar.Add(1)
		}
		report = append(report, s.searchDay(ctx, tile, day))
	}
	return report, nil
}

func (s *Searcher) searchDay(ctx context.Context, tile common.TileID, day time.Time) DateResult {
	key := common.MetadataKey(tile, day)
	doc, err := s.Store.GetObject(ctx, s.Level.Bucket(), key)
	if err != nil {
		log.Logger(ctx).Sugar().Debugf("skipping %s: %v", day.Format("2006-01-02"), err)
		return DateResult{Date: day, Status: NoMetadata, Err: err}
	}

	qi, err := parseQualityIndicators(doc, s.Level)
	if err != nil {
		log.Logger(ctx).Sugar().Warnf("skipping %s: %v", day.Format("2006-01-02"), err)
		return DateResult{Date: day, Status: BadMetadata, Err: err}
	}

	result := DateResult{Date: day, Status: Rejected, CloudCover: qi.CloudCover, NodataCover: qi.NodataCover}
	if qi.CloudCover <= s.CloudCover && qi.NodataCover <= s.NodataCover {
		result.Status = Accepted
	}
	return result
}

// imageKeySuffixes identify one representative image object per acquisition,
// whatever the processing level (L2A stores B02 under R10m, L1C at the root)
var imageKeySuffixes = []string{"R10m/B02.jp2", "0/B02.jp2"}

// HasImagery reports whether at least one image object exists for the tile on
// the given day. Cheaper than fetching metadata when only availability matters.
func (s *Searcher) HasImagery(ctx context.Context, tile common.TileID, day time.Time) (bool, error) {
	prefix := common.MetadataKey(tile, day)
	prefix = prefix[:len(prefix)-len("metadata.xml")]
	keys, err := s.Store.ListKeys(ctx, s.Level.Bucket(), prefix, imageKeySuffixes...)
	if err != nil {
		return false, fmt.Errorf("HasImagery.%w", err)
	}
	return len(keys) > 0, nil
}

// daysBetween enumerates every calendar day of [from, to] inclusive
func daysBetween(from, to time.Time) []time.Time {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	var days []time.Time
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}
