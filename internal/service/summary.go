package service

import (
	"sort"

	"productcat/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

// skewThreshold is the share of labeled items above which one category dominates the dataset
const skewThreshold = 0.8

type CategoryCount struct {
	Category string
	Count    int
}

// Summary describes a finished run
type Summary struct {
	RunID         string
	SampleSize    int
	Processed     int
	Succeeded     int
	Uncategorized int
	Flushes       int
	Location      string
	Distribution  []CategoryCount
}

// Labeled returns the number of items that received a taxonomy category
func (s *Summary) Labeled() int {
	return s.Processed - s.Uncategorized
}

// TopShare returns the most frequent category and its share of labeled items
func (s *Summary) TopShare() (string, float64) {
	labeled := s.Labeled()
	if len(s.Distribution) == 0 || labeled == 0 {
		return "", 0
	}
	return s.Distribution[0].Category, float64(s.Distribution[0].Count) / float64(labeled)
}

// Skewed reports whether one category holds more than 80% of the labeled items
func (s *Summary) Skewed() bool {
	_, share := s.TopShare()
	return share > skewThreshold
}

func newSummary(runID string, sampleSize int, results []domain.CategoryOutcome, succeeded int) *Summary {
	summary := &Summary{
		RunID:      runID,
		SampleSize: sampleSize,
		Processed:  len(results),
		Succeeded:  succeeded,
	}

	counts := make(map[string]int)
	for _, r := range results {
		if !r.Labeled() {
			summary.Uncategorized++
			continue
		}
		counts[r.StandardizedCategory]++
	}

	for category, count := range counts {
		summary.Distribution = append(summary.Distribution, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(summary.Distribution, func(i, j int) bool {
		a, b := summary.Distribution[i], summary.Distribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})

	return summary
}

func (s *Summary) Log() {
	log.Infof("🏁 Run %s finished: %d processed, %d succeeded, %d uncategorized",
		s.RunID, s.Processed, s.Succeeded, s.Uncategorized)
	log.Infof("💾 Output saved to %s (%d flushes)", s.Location, s.Flushes)

	labeled := s.Labeled()
	for _, c := range s.Distribution {
		log.Infof("   %-40s %5d (%.1f%%)", c.Category, c.Count, 100*float64(c.Count)/float64(labeled))
	}

	if s.Skewed() {
		category, share := s.TopShare()
		log.Warnf("⚠️ Dataset is skewed: %q holds %.1f%% of labeled items", category, 100*share)
	}
}
