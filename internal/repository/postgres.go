package repository

import (
	"context"
	"fmt"

	"productcat/scraper/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS labeled_products (
	position INTEGER PRIMARY KEY,
	product_id TEXT NOT NULL,
	raw_category TEXT NOT NULL,
	standardized_category TEXT NOT NULL,
	aggregated_text TEXT NOT NULL
)`

type postgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository stores the dataset in the labeled_products table
func NewPostgresRepository(ctx context.Context, db *pgxpool.Pool) (OutcomeRepository, error) {
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to create labeled_products table: %w", err)
	}
	return &postgresRepository{db: db}, nil
}

func (r *postgresRepository) Reset(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM labeled_products`); err != nil {
		return fmt.Errorf("failed to clear labeled_products: %w", err)
	}
	return nil
}

func (r *postgresRepository) Replace(ctx context.Context, outcomes []domain.CategoryOutcome) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM labeled_products`); err != nil {
		return fmt.Errorf("failed to clear labeled_products: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"labeled_products"},
		[]string{"position", "product_id", "raw_category", "standardized_category", "aggregated_text"},
		pgx.CopyFromSlice(len(outcomes), func(i int) ([]any, error) {
			o := outcomes[i]
			return []any{i, o.ProductID, o.RawCategory, o.StandardizedCategory, o.Text}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy outcomes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit outcomes: %w", err)
	}

	return nil
}

func (r *postgresRepository) Location() string {
	cfg := r.db.Config().ConnConfig
	return fmt.Sprintf("postgres://%s:%d/%s#labeled_products", cfg.Host, cfg.Port, cfg.Database)
}
