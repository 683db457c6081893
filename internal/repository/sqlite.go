package repository

import (
	"context"
	"database/sql"
	"fmt"

	"productcat/scraper/internal/domain"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS labeled_products (
	position INTEGER PRIMARY KEY,
	product_id TEXT NOT NULL,
	raw_category TEXT NOT NULL,
	standardized_category TEXT NOT NULL,
	aggregated_text TEXT NOT NULL
)`

type sqliteRepository struct {
	db   *sql.DB
	path string
}

// SQLiteRepository is an OutcomeRepository that owns its database handle
type SQLiteRepository interface {
	OutcomeRepository
	Close() error
}

func OpenSQLiteRepository(ctx context.Context, path string) (SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create labeled_products table: %w", err)
	}

	return &sqliteRepository{db: db, path: path}, nil
}

func (r *sqliteRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM labeled_products`); err != nil {
		return fmt.Errorf("failed to clear labeled_products: %w", err)
	}
	return nil
}

func (r *sqliteRepository) Replace(ctx context.Context, outcomes []domain.CategoryOutcome) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM labeled_products`); err != nil {
		return fmt.Errorf("failed to clear labeled_products: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO labeled_products (position, product_id, raw_category, standardized_category, aggregated_text)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range outcomes {
		if _, err := stmt.ExecContext(ctx, i, o.ProductID, o.RawCategory, o.StandardizedCategory, o.Text); err != nil {
			return fmt.Errorf("failed to insert outcome for %s: %w", o.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit outcomes: %w", err)
	}

	return nil
}

func (r *sqliteRepository) Location() string {
	return "sqlite://" + r.path + "#labeled_products"
}

func (r *sqliteRepository) Close() error {
	return r.db.Close()
}
