package sampler

import (
	"math/rand/v2"
	"strings"

	"productcat/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Stats describes how a sample was assembled
type Stats struct {
	Matches  map[string]int // keyword matches per label, before deduplication
	Targeted int            // unique products found through keywords
	TopUp    int            // products drawn at random to reach the quota
	Total    int
}

// Sampler selects a quota-bounded work list biased toward keyword-matched products
type Sampler struct {
	keywords domain.KeywordMap
	quota    int
	seed     int64
}

func New(keywords domain.KeywordMap, quota int, seed int64) *Sampler {
	normalized := make(domain.KeywordMap, 0, len(keywords))
	for _, group := range keywords {
		terms := make([]string, 0, len(group.Keywords))
		for _, kw := range group.Keywords {
			if kw = strings.ToLower(kw); kw != "" {
				terms = append(terms, kw)
			}
		}
		normalized = append(normalized, domain.KeywordGroup{Label: group.Label, Keywords: terms})
	}

	return &Sampler{
		keywords: normalized,
		quota:    quota,
		seed:     seed,
	}
}

// Sample returns min(quota, len(universe)) distinct documents. Keyword matches come first,
// bucketed in keyword map order; a document matching several labels stays in the bucket of
// the first label that matched it. The remainder is a seeded random draw from the rest.
func (s *Sampler) Sample(universe domain.Universe) ([]domain.ProductDocument, Stats) {
	stats := Stats{Matches: make(map[string]int, len(s.keywords))}

	lowered := make([]string, len(universe))
	for i, doc := range universe {
		lowered[i] = strings.ToLower(doc.Text)
	}

	var candidates []int
	for _, group := range s.keywords {
		matched := 0
		for i := range universe {
			if containsAny(lowered[i], group.Keywords) {
				candidates = append(candidates, i)
				matched++
			}
		}
		stats.Matches[group.Label] += matched
		log.Infof("  - Found %d potential '%s' products", matched, group.Label)
	}

	selected := make(map[string]struct{}, s.quota)
	sample := make([]domain.ProductDocument, 0, min(s.quota, len(universe)))
	for _, i := range candidates {
		id := universe[i].ProductID
		if _, dup := selected[id]; dup {
			continue
		}
		selected[id] = struct{}{}
		sample = append(sample, universe[i])
	}
	stats.Targeted = len(sample)
	log.Infof("🎯 Found %d unique products through keyword targeting", stats.Targeted)

	if len(sample) < s.quota {
		var pool []int
		for i, doc := range universe {
			if _, taken := selected[doc.ProductID]; !taken {
				selected[doc.ProductID] = struct{}{}
				pool = append(pool, i)
			}
		}

		needed := min(s.quota-len(sample), len(pool))
		if needed > 0 {
			log.Infof("🎲 Topping up list with %d random products to reach %d", needed, s.quota)
		}
		for _, i := range drawWithoutReplacement(pool, needed, s.seed) {
			sample = append(sample, universe[i])
		}
		stats.TopUp = needed
	}

	if len(sample) > s.quota {
		sample = sample[:s.quota]
	}
	stats.Total = len(sample)

	return sample, stats
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// drawWithoutReplacement picks n entries of pool with a partial Fisher-Yates shuffle.
// n must not exceed len(pool).
func drawWithoutReplacement(pool []int, n int, seed int64) []int {
	if n <= 0 {
		return nil
	}

	shuffled := append([]int(nil), pool...)
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	for i := 0; i < n; i++ {
		j := i + r.IntN(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled[:n]
}
