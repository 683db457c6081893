package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"productcat/scraper/internal/domain"
)

// OutcomeRepository persists the labeled dataset. Replace always rewrites the whole set,
// so a reader never observes a partially written checkpoint.
type OutcomeRepository interface {
	Reset(ctx context.Context) error
	Replace(ctx context.Context, outcomes []domain.CategoryOutcome) error
	Location() string
}

var csvHeader = []string{"product_id", "standardized_category", "aggregated_text"}

func encodeCSV(outcomes []domain.CategoryOutcome) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, o := range outcomes {
		if err := w.Write([]string{o.ProductID, o.StandardizedCategory, o.Text}); err != nil {
			return nil, fmt.Errorf("failed to write csv row for %s: %w", o.ProductID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
