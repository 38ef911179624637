package search_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nargyrop/s2-aws-dl/common"
	"github.com/nargyrop/s2-aws-dl/interface/store"
	"github.com/nargyrop/s2-aws-dl/search"
	"github.com/nargyrop/s2-aws-dl/service"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// MokeStore implements store.Store from an in-memory key/content map
type MokeStore struct {
	Objects map[string][]byte
	Gets    int
}

// GetObject implements store.Store
func (s *MokeStore) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	s.Gets++
	if doc, ok := s.Objects[key]; ok {
		return doc, nil
	}
	return nil, store.ErrObjectNotFound{Bucket: bucket, Key: key}
}

// DownloadToFile implements store.Store
func (s *MokeStore) DownloadToFile(ctx context.Context, bucket, key, localPath string) error {
	return fmt.Errorf("not implemented")
}

// ListKeys implements store.Store
func (s *MokeStore) ListKeys(ctx context.Context, bucket, prefix string, suffixes ...string) ([]string, error) {
	var keys []string
	for key := range s.Objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		for _, suffix := range suffixes {
			if strings.HasSuffix(key, suffix) {
				keys = append(keys, key)
				break
			}
		}
	}
	return keys, nil
}

func l2aMetadata(cloudy, nodata float64) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<n1:Level-2A_Tile_ID xmlns:n1="https://psd-14.sentinel2.eo.esa.int/PSD/S2_PDI_Level-2A_Tile_Metadata.xsd">
  <n1:Quality_Indicators_Info metadataLevel="Standard">
    <Image_Content_QI>
      <CLOUDY_PIXEL_PERCENTAGE>%g</CLOUDY_PIXEL_PERCENTAGE>
      <NODATA_PIXEL_PERCENTAGE>%g</NODATA_PIXEL_PERCENTAGE>
    </Image_Content_QI>
  </n1:Quality_Indicators_Info>
</n1:Level-2A_Tile_ID>`, cloudy, nodata))
}

func l1cMetadata(cloudy float64) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<n1:Level-1C_Tile_ID xmlns:n1="https://psd-14.sentinel2.eo.esa.int/PSD/S2_PDI_Level-1C_Tile_Metadata.xsd">
  <n1:Quality_Indicators_Info metadataLevel="Standard">
    <Image_Content_QI>
      <CLOUDY_PIXEL_PERCENTAGE>%g</CLOUDY_PIXEL_PERCENTAGE>
    </Image_Content_QI>
  </n1:Quality_Indicators_Info>
</n1:Level-1C_Tile_ID>`, cloudy))
}

var _ = Describe("AcquisitionSearch", func() {
	ctx := context.Background()
	tile := common.TileID("35VNH")
	day := func(d int) time.Time { return time.Date(2021, 6, d, 0, 0, 0, 0, time.UTC) }

	Describe("a range with no metadata documents", func() {
		st := &MokeStore{Objects: map[string][]byte{}}
		searcher := search.NewSearcher(st, common.L2A)

		It("returns an empty sequence, not an error", func() {
			dates, err := searcher.Search(ctx, tile, day(1), day(5))
			Expect(err).NotTo(HaveOccurred())
			Expect(dates).To(BeEmpty())
		})
		It("records every day as skipped", func() {
			report, err := searcher.SearchReport(ctx, tile, day(1), day(5))
			Expect(err).NotTo(HaveOccurred())
			Expect(report).To(HaveLen(5))
			for _, result := range report {
				Expect(result.Status).To(Equal(search.NoMetadata))
				Expect(result.Err).To(HaveOccurred())
			}
		})
	})

	Describe("permissive thresholds", func() {
		st := &MokeStore{Objects: map[string][]byte{
			"tiles/35/V/NH/2021/6/1/0/metadata.xml":  l2aMetadata(99.9, 87),
			"tiles/35/V/NH/2021/6/3/0/metadata.xml":  l2aMetadata(0, 0),
			"tiles/35/V/NH/2021/6/10/0/metadata.xml": l2aMetadata(45, 3),
		}}
		searcher := search.NewSearcher(st, common.L2A)

		It("accepts every date with retrievable metadata", func() {
			dates, err := searcher.Search(ctx, tile, day(1), day(10))
			Expect(err).NotTo(HaveOccurred())
			Expect(dates).To(Equal([]time.Time{day(1), day(3), day(10)}))
		})
		It("returns an ascending subset of the range, endpoints included", func() {
			dates, err := searcher.Search(ctx, tile, day(1), day(10))
			Expect(err).NotTo(HaveOccurred())
			for i, date := range dates {
				Expect(date.Before(day(1))).To(BeFalse())
				Expect(date.After(day(10))).To(BeFalse())
				if i > 0 {
					Expect(dates[i-1].Before(date)).To(BeTrue())
				}
			}
		})
	})

	Describe("strict thresholds", func() {
		st := &MokeStore{Objects: map[string][]byte{
			"tiles/35/V/NH/2021/6/1/0/metadata.xml": l2aMetadata(0, 0),
			"tiles/35/V/NH/2021/6/2/0/metadata.xml": l2aMetadata(0.1, 0),
			"tiles/35/V/NH/2021/6/3/0/metadata.xml": l2aMetadata(0, 0.1),
		}}
		searcher := search.NewSearcher(st, common.L2A)
		searcher.CloudCover = 0
		searcher.NodataCover = 0

		It("accepts a date only when both percentages are exactly 0", func() {
			report, err := searcher.SearchReport(ctx, tile, day(1), day(3))
			Expect(err).NotTo(HaveOccurred())
			Expect(report.AcceptedDates()).To(Equal([]time.Time{day(1)}))
			Expect(report[1].Status).To(Equal(search.Rejected))
			Expect(report[1].CloudCover).To(Equal(0.1))
			Expect(report[2].Status).To(Equal(search.Rejected))
		})
	})

	Describe("threshold comparisons are inclusive", func() {
		st := &MokeStore{Objects: map[string][]byte{
			"tiles/35/V/NH/2021/6/1/0/metadata.xml": l2aMetadata(70, 10),
		}}
		searcher := search.NewSearcher(st, common.L2A)
		searcher.CloudCover = 70
		searcher.NodataCover = 10

		It("accepts a date sitting exactly on both ceilings", func() {
			dates, err := searcher.Search(ctx, tile, day(1), day(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(dates).To(Equal([]time.Time{day(1)}))
		})
	})

	Describe("L1C products", func() {
		st := &MokeStore{Objects: map[string][]byte{
			"tiles/35/V/NH/2021/6/1/0/metadata.xml": l1cMetadata(12),
		}}
		searcher := search.NewSearcher(st, common.L1C)
		searcher.NodataCover = 0

		It("treats the missing no-data field as 0", func() {
			dates, err := searcher.Search(ctx, tile, day(1), day(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(dates).To(Equal([]time.Time{day(1)}))
		})
	})

	Describe("malformed metadata", func() {
		st := &MokeStore{Objects: map[string][]byte{
			"tiles/35/V/NH/2021/6/1/0/metadata.xml": []byte("not xml at all"),
			"tiles/35/V/NH/2021/6/2/0/metadata.xml": l1cMetadata(12), // wrong level root
			"tiles/35/V/NH/2021/6/3/0/metadata.xml": l2aMetadata(5, 1),
		}}
		searcher := search.NewSearcher(st, common.L2A)

		It("skips the date without failing the search", func() {
			report, err := searcher.SearchReport(ctx, tile, day(1), day(3))
			Expect(err).NotTo(HaveOccurred())
			Expect(report[0].Status).To(Equal(search.BadMetadata))
			Expect(report[1].Status).To(Equal(search.BadMetadata))
			Expect(report.AcceptedDates()).To(Equal([]time.Time{day(3)}))
		})
	})

	Describe("an invalid processing level", func() {
		st := &MokeStore{Objects: map[string][]byte{}}
		searcher := search.NewSearcher(st, common.ProcessingLevel(42))

		It("is rejected before any request is made", func() {
			_, err := searcher.Search(ctx, tile, day(1), day(5))
			Expect(err).To(HaveOccurred())
			Expect(service.Fatal(err)).To(BeTrue())
			Expect(st.Gets).To(BeZero())
		})
	})

	Describe("a cancelled context", func() {
		st := &MokeStore{Objects: map[string][]byte{
			"tiles/35/V/NH/2021/6/1/0/metadata.xml": l2aMetadata(5, 1),
		}}
		searcher := search.NewSearcher(st, common.L2A)

		It("stops the iteration before any day is fetched", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			report, err := searcher.SearchReport(cancelled, tile, day(1), day(5))
			Expect(err).To(MatchError(context.Canceled))
			Expect(report).To(BeEmpty())
			Expect(st.Gets).To(BeZero())
		})
	})

	Describe("the date iteration", func() {
		st := &MokeStore{Objects: map[string][]byte{}}
		searcher := search.NewSearcher(st, common.L2A)

		It("enumerates every calendar day across month boundaries", func() {
			report, err := searcher.SearchReport(ctx, tile,
				time.Date(2021, 6, 29, 0, 0, 0, 0, time.UTC),
				time.Date(2021, 7, 2, 0, 0, 0, 0, time.UTC))
			Expect(err).NotTo(HaveOccurred())
			Expect(report).To(HaveLen(4))
			Expect(report[3].Date).To(Equal(time.Date(2021, 7, 2, 0, 0, 0, 0, time.UTC)))
		})
	})

	Describe("imagery availability", func() {
		st := &MokeStore{Objects: map[string][]byte{
			"tiles/35/V/NH/2021/6/15/0/R10m/B02.jp2": {},
		}}
		searcher := search.NewSearcher(st, common.L2A)

		It("finds the representative image object of an acquisition", func() {
			ok, err := searcher.HasImagery(ctx, tile, day(15))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})
		It("reports missing acquisitions", func() {
			ok, err := searcher.HasImagery(ctx, tile, day(16))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})
})
