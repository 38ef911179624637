package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/nargyrop/s2-aws-dl/common"
	"github.com/nargyrop/s2-aws-dl/downloader"
	"github.com/nargyrop/s2-aws-dl/interface/raster"
	"github.com/nargyrop/s2-aws-dl/interface/store"
	"github.com/nargyrop/s2-aws-dl/search"
	"github.com/nargyrop/s2-aws-dl/service/log"
	"go.uber.org/zap"
)

type config struct {
	Tile       common.TileID
	StartDate  time.Time
	EndDate    time.Time
	OutputPath string

	AccessKey       string
	SecretAccessKey string
	Region          string

	Level       common.ProcessingLevel
	Bands       []common.Band
	Resolution  int
	CloudCover  float64
	NodataCover float64
	NoCloudMask bool
	Overwrite   bool
	Workers     int
}

func newAppConfig() (*config, error) {
	config := config{}

	tileID := flag.String("tile-id", "", "Sentinel-2 tile id (e.g. T35VNH)")
	startDate := flag.String("start-date", "", "start date for search in YYYY-MM-DD format")
	endDate := flag.String("end-date", "", "end date for search in YYYY-MM-DD format")
	flag.StringVar(&config.OutputPath, "output-path", "", "path to directory where images will be downloaded")
	flag.StringVar(&config.AccessKey, "access-key", "", "AWS access key id")
	flag.StringVar(&config.SecretAccessKey, "secret-access-key", "", "AWS secret access key")
	flag.StringVar(&config.Region, "region", "", "AWS region of the imagery buckets (default "+store.DefaultRegion+")")
	level := flag.String("level", "l2a", "processing level (l1c or l2a)")
	bands := flag.String("bands", "", "comma-separated list of bands to download (default: all bands)")
	flag.IntVar(&config.Resolution, "resolution", 0, "resolution override in meters; a band is never fetched finer than its native resolution")
	flag.Float64Var(&config.CloudCover, "cloud-cover", 100, "maximum cloud-cover percentage of accepted dates")
	flag.Float64Var(&config.NodataCover, "nodata-cover", 100, "maximum no-data percentage of accepted dates (l2a only)")
	flag.BoolVar(&config.NoCloudMask, "no-cloud-mask", false, "do not download the l2a cloud mask")
	flag.BoolVar(&config.Overwrite, "overwrite", false, "overwrite already downloaded files")
	flag.IntVar(&config.Workers, "workers", 1, "parallel band downloads per date")

	flag.Parse()

	if *tileID == "" {
		return nil, fmt.Errorf("missing tile-id config flag")
	}
	if *startDate == "" || *endDate == "" {
		return nil, fmt.Errorf("missing start-date/end-date config flags")
	}
	if config.OutputPath == "" {
		return nil, fmt.Errorf("missing output-path config flag")
	}
	if config.AccessKey == "" || config.SecretAccessKey == "" {
		return nil, fmt.Errorf("missing access-key/secret-access-key config flags")
	}

	var err error
	if config.Tile, err = common.ParseTileID(*tileID); err != nil {
		return nil, err
	}
	if config.StartDate, err = dateparse.ParseAny(*startDate); err != nil {
		return nil, fmt.Errorf("invalid start-date: %w", err)
	}
	if config.EndDate, err = dateparse.ParseAny(*endDate); err != nil {
		return nil, fmt.Errorf("invalid end-date: %w", err)
	}
	if !config.StartDate.Before(config.EndDate) {
		return nil, fmt.Errorf("start date must be before the end date")
	}
	if config.Level, err = common.ProcessingLevelString(*level); err != nil {
		return nil, err
	}
	if *bands != "" {
		for _, name := range strings.Split(*bands, ",") {
			band, err := common.GetBandFromString(strings.TrimSpace(name))
			if err != nil {
				return nil, err
			}
			config.Bands = append(config.Bands, band)
		}
	}
	return &config, nil
}

func main() {
	ctx := context.Background()
	err := run(ctx)
	if err != nil {
		log.Fatal("error", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	config, err := newAppConfig()
	if err != nil {
		return err
	}

	st, err := store.NewS3Store(ctx, store.Config{
		AccessKeyID:     config.AccessKey,
		SecretAccessKey: config.SecretAccessKey,
		Region:          config.Region,
	})
	if err != nil {
		return err
	}

	searcher := search.NewSearcher(st, config.Level)
	searcher.CloudCover = config.CloudCover
	searcher.NodataCover = config.NodataCover
	searcher.ShowProgress = true

	dates, err := searcher.Search(ctx, config.Tile, config.StartDate, config.EndDate)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	log.Logger(ctx).Sugar().Infof("found %d acquisitions for %s between %s and %s",
		len(dates), config.Tile.Canonical(), config.StartDate.Format("2006-01-02"), config.EndDate.Format("2006-01-02"))
	if len(dates) == 0 {
		return nil
	}

	session, err := raster.NewSession(ctx, raster.Config{
		AccessKeyID:     config.AccessKey,
		SecretAccessKey: config.SecretAccessKey,
		Region:          config.Region,
	})
	if err != nil {
		return err
	}

	dl := downloader.New(session, config.Level)
	if len(config.Bands) > 0 {
		dl.Bands = config.Bands
	}
	dl.Resolution = config.Resolution
	dl.CloudMask = !config.NoCloudMask
	dl.Overwrite = config.Overwrite
	dl.Workers = config.Workers

	results, err := dl.Download(ctx, config.Tile, dates, config.OutputPath)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	files := 0
	for _, layers := range results {
		files += len(layers)
	}
	log.Logger(ctx).Sugar().Infof("downloaded %d files to %s", files, config.OutputPath)
	return nil
}
