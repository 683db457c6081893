package categorizer

import (
	"errors"
	"testing"

	"productcat/scraper/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestStandardize(t *testing.T) {
	s := NewStandardizer(domain.DefaultTaxonomy)

	tests := []struct {
		name   string
		result domain.RawCategoryResult
		want   string
	}{
		{"breadcrumb match", domain.Found("› Pet Supplies › Dogs › Toys"), "Pet Supplies"},
		{"failed", domain.Failed(errors.New("net::ERR_NAME_NOT_RESOLVED")), domain.Uncategorized},
		{"not found", domain.NotFound(), domain.Uncategorized},
		{"no taxonomy entry", domain.Found("Handmade › Jewelry"), domain.Uncategorized},
		{"empty text", domain.Found(""), domain.Uncategorized},
		{"case sensitive", domain.Found("pet supplies › dogs"), domain.Uncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Standardize(tt.result))
		})
	}
}

func TestStandardize_TaxonomyOrderWinsOverTextOrder(t *testing.T) {
	text := "Sports & Outdoors › Outdoor Recreation › Pet Supplies"

	s := NewStandardizer(domain.Taxonomy{"Pet Supplies", "Sports"})
	assert.Equal(t, "Pet Supplies", s.Standardize(domain.Found(text)))

	s = NewStandardizer(domain.Taxonomy{"Sports", "Pet Supplies"})
	assert.Equal(t, "Sports", s.Standardize(domain.Found(text)))
}

func TestStandardize_DefaultTaxonomyPrefixEntries(t *testing.T) {
	// "Sports" precedes "Sports Collectibles" in the official list, so it wins
	s := NewStandardizer(domain.DefaultTaxonomy)
	assert.Equal(t, "Sports", s.Standardize(domain.Found("Sports Collectibles › Cards")))
}

func TestStandardize_TaxonomyIsCopied(t *testing.T) {
	taxonomy := domain.Taxonomy{"Books"}
	s := NewStandardizer(taxonomy)
	taxonomy[0] = "Beauty"

	assert.Equal(t, "Books", s.Standardize(domain.Found("Books › Fiction")))
}
