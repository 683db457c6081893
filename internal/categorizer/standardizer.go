package categorizer

import (
	"strings"

	"productcat/scraper/internal/domain"
)

// Standardizer maps raw breadcrumb text onto the fixed taxonomy
type Standardizer struct {
	taxonomy domain.Taxonomy
}

func NewStandardizer(taxonomy domain.Taxonomy) *Standardizer {
	return &Standardizer{taxonomy: append(domain.Taxonomy(nil), taxonomy...)}
}

// Standardize returns the first taxonomy entry, in taxonomy order, contained in the
// breadcrumb text. Sentinel results and unmatched text become Uncategorized.
func (s *Standardizer) Standardize(result domain.RawCategoryResult) string {
	if result.Status != domain.StatusFound || result.Text == "" {
		return domain.Uncategorized
	}

	for _, category := range s.taxonomy {
		if strings.Contains(result.Text, category) {
			return category
		}
	}

	return domain.Uncategorized
}
