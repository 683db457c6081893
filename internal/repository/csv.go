package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"productcat/scraper/internal/domain"
)

type csvRepository struct {
	path string
}

// NewCSVRepository writes the dataset to a local CSV file
func NewCSVRepository(path string) OutcomeRepository {
	return &csvRepository{path: path}
}

func (r *csvRepository) Reset(ctx context.Context) error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale output %s: %w", r.path, err)
	}
	return nil
}

func (r *csvRepository) Replace(ctx context.Context, outcomes []domain.CategoryOutcome) error {
	body, err := encodeCSV(outcomes)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}

	return nil
}

func (r *csvRepository) Location() string {
	return r.path
}
