package corpus

import (
	"sort"
	"strings"

	"productcat/scraper/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Aggregate groups rows by product and joins each product's fragments with a single
// space in row order, lower-casing the result. Documents come back sorted by product id.
func Aggregate(rows []Row) domain.Universe {
	fragments := make(map[string][]string)
	for _, row := range rows {
		fragments[row.ProductID] = append(fragments[row.ProductID], row.Text)
	}

	ids := make([]string, 0, len(fragments))
	for id := range fragments {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lower := cases.Lower(language.Und)
	universe := make(domain.Universe, 0, len(ids))
	for _, id := range ids {
		universe = append(universe, domain.ProductDocument{
			ProductID: id,
			Text:      lower.String(strings.Join(fragments[id], " ")),
		})
	}

	return universe
}
