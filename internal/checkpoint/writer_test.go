package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"productcat/scraper/internal/domain"
	"productcat/scraper/internal/repository"
	"productcat/scraper/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	resets   int
	replaces int
	stored   []domain.CategoryOutcome
	failOn   map[int]bool
}

func (r *memoryRepository) Reset(ctx context.Context) error {
	r.resets++
	r.stored = nil
	return nil
}

func (r *memoryRepository) Replace(ctx context.Context, outcomes []domain.CategoryOutcome) error {
	r.replaces++
	if r.failOn[r.replaces] {
		return errors.New("disk full")
	}
	r.stored = append([]domain.CategoryOutcome(nil), outcomes...)
	return nil
}

func (r *memoryRepository) Location() string { return "memory" }

type countingObserver struct{ flushes int }

func (o *countingObserver) ObserveFlush() { o.flushes++ }

func outcomes(n int) []domain.CategoryOutcome {
	out := make([]domain.CategoryOutcome, n)
	for i := range out {
		out[i] = domain.CategoryOutcome{ProductID: fmt.Sprintf("P%03d", i), StandardizedCategory: domain.Uncategorized}
	}
	return out
}

// runItems records n items one by one and finishes with the final flush
func runItems(t *testing.T, w *Writer, n int) {
	t.Helper()
	all := outcomes(n)
	for i := 1; i <= n; i++ {
		w.Record(context.Background(), all[:i])
	}
	require.NoError(t, w.Flush(context.Background(), all))
}

func TestWriter_FlushCount(t *testing.T) {
	tests := []struct {
		n, cadence int
	}{
		{0, 50},
		{49, 50},
		{50, 50},
		{120, 50},
		{7, 1},
		{10, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("N=%d C=%d", tt.n, tt.cadence), func(t *testing.T) {
			repo := &memoryRepository{}
			observer := &countingObserver{}
			w := NewWriter(repo, tt.cadence, nil, observer, "run")

			runItems(t, w, tt.n)

			want := tt.n/tt.cadence + 1
			assert.Equal(t, want, w.Flushes())
			assert.Equal(t, want, repo.replaces)
			assert.Equal(t, want, observer.flushes)
			assert.Len(t, repo.stored, tt.n)
		})
	}
}

func TestWriter_AtMostCadenceMinusOneLost(t *testing.T) {
	const cadence = 5
	repo := &memoryRepository{}
	w := NewWriter(repo, cadence, nil, nil, "run")

	all := outcomes(23)
	for i := 1; i <= len(all); i++ {
		w.Record(context.Background(), all[:i])
		// simulated crash after every item: durable storage lags by less than the cadence
		assert.Less(t, i-len(repo.stored), cadence)
	}
	assert.Len(t, repo.stored, 20)
	assert.Equal(t, 20, w.Durable())
}

func TestWriter_FailedPeriodicFlushIsRetriedByNextFlush(t *testing.T) {
	repo := &memoryRepository{failOn: map[int]bool{1: true}}
	w := NewWriter(repo, 2, nil, nil, "run")

	all := outcomes(4)
	for i := 1; i <= len(all); i++ {
		w.Record(context.Background(), all[:i])
	}

	// item 2 fails to flush, item 3 flushes straight away, item 4 waits for the next cadence
	assert.Equal(t, 2, repo.replaces)
	assert.Equal(t, 1, w.Flushes())
	assert.Len(t, repo.stored, 3)
}

func TestWriter_RecordsProgress(t *testing.T) {
	progress := state.NewMemoryProgressRecorder()
	w := NewWriter(&memoryRepository{}, 2, progress, nil, "run-7")

	all := outcomes(5)
	for i := 1; i <= len(all); i++ {
		w.Record(context.Background(), all[:i])
	}

	durable, err := progress.GetDurable(context.Background(), "run-7")
	require.NoError(t, err)
	assert.Equal(t, 4, durable)
}

func TestWriter_ResetRemovesStaleCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labeled.csv")
	require.NoError(t, os.WriteFile(path, []byte("product_id,standardized_category,aggregated_text\nOLD,Books,x\n"), 0o644))

	w := NewWriter(repository.NewCSVRepository(path), 2, nil, nil, "run")
	require.NoError(t, w.Reset(context.Background()))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	runItems(t, w, 1)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "OLD")
	assert.Contains(t, string(data), "P000")
}
