package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"productcat/scraper/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	input := "Id,ProductId,Score,CleanedText\n" +
		"1,B001,5,Great Dog Food\n" +
		"2,B002,4,\"Nice, shiny\"\n" +
		"3,B001,3,My cat likes it\n" +
		"4,B003\n"

	rows, err := Decode(strings.NewReader(input), "ProductId", "CleanedText")
	require.NoError(t, err)

	assert.Equal(t, []Row{
		{ProductID: "B001", Text: "Great Dog Food"},
		{ProductID: "B002", Text: "Nice, shiny"},
		{ProductID: "B001", Text: "My cat likes it"},
		{ProductID: "B003", Text: ""},
	}, rows)
}

func TestDecode_MissingColumn(t *testing.T) {
	_, err := Decode(strings.NewReader("Id,ProductId,Text\n1,B001,x\n"), "ProductId", "CleanedText")
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Decode(strings.NewReader("Id,CleanedText\n1,x\n"), "ProductId", "CleanedText")
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Decode(strings.NewReader(""), "ProductId", "CleanedText")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffProductId,CleanedText\nB001,hello\n"), 0o644))

	rows, err := ReadRows(path, "ProductId", "CleanedText")
	require.NoError(t, err)
	assert.Equal(t, []Row{{ProductID: "B001", Text: "hello"}}, rows)
}

func TestReadRows_MissingFile(t *testing.T) {
	_, err := ReadRows(filepath.Join(t.TempDir(), "nope.csv"), "ProductId", "CleanedText")
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestAggregate(t *testing.T) {
	rows := []Row{
		{ProductID: "B002", Text: "Shiny"},
		{ProductID: "B001", Text: "Great Dog Food"},
		{ProductID: "B001", Text: ""},
		{ProductID: "B001", Text: "My CAT likes it"},
	}

	universe := Aggregate(rows)

	assert.Equal(t, domain.Universe{
		{ProductID: "B001", Text: "great dog food  my cat likes it"},
		{ProductID: "B002", Text: "shiny"},
	}, universe)
}

func TestAggregate_OneDocumentPerProduct(t *testing.T) {
	var rows []Row
	for i := 0; i < 200; i++ {
		rows = append(rows, Row{ProductID: string(rune('A' + i%17)), Text: "x"})
	}

	universe := Aggregate(rows)

	assert.Len(t, universe, 17)
	assert.LessOrEqual(t, len(universe), len(rows))
	seen := make(map[string]bool)
	for _, doc := range universe {
		assert.False(t, seen[doc.ProductID], "duplicate %s", doc.ProductID)
		seen[doc.ProductID] = true
	}
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}
