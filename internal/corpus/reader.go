package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	ErrInputNotFound = errors.New("input file not found")
	ErrMissingColumn = errors.New("required column missing")
)

// Row is one review of the cleaned corpus
type Row struct {
	ProductID string
	Text      string
}

// ReadRows loads the identifier and text columns of a cleaned review CSV
func ReadRows(path, idColumn, textColumn string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	rows, err := Decode(f, idColumn, textColumn)
	if err != nil {
		return nil, err
	}

	log.Infof("📄 Read %d rows from %s", len(rows), path)
	return rows, nil
}

// Decode reads rows from a CSV stream whose first record is the header
func Decode(r io.Reader, idColumn, textColumn string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: input has no header", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idIdx, textIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch name {
		case idColumn:
			idIdx = i
		case textColumn:
			textIdx = i
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, idColumn)
	}
	if textIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, textColumn)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}

		rows = append(rows, Row{
			ProductID: field(record, idIdx),
			Text:      field(record, textIdx),
		})
	}

	return rows, nil
}

// field returns an empty string for cells missing from short records
func field(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}
