package repository

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"productcat/scraper/internal/config"
	"productcat/scraper/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleOutcomes = []domain.CategoryOutcome{
	{ProductID: "B001", RawCategory: "Pet Supplies › Dogs", StandardizedCategory: "Pet Supplies", Text: "good dog food"},
	{ProductID: "B002", RawCategory: domain.RawCategoryFailed, StandardizedCategory: domain.Uncategorized, Text: "tea, \"green\""},
}

func TestEncodeCSV(t *testing.T) {
	body, err := encodeCSV(sampleOutcomes)
	require.NoError(t, err)

	assert.Equal(t,
		"product_id,standardized_category,aggregated_text\n"+
			"B001,Pet Supplies,good dog food\n"+
			"B002,Uncategorized,\"tea, \"\"green\"\"\"\n",
		string(body))
}

func TestCSVRepository_ReplaceRewritesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "labeled.csv")
	repo := NewCSVRepository(path)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, sampleOutcomes))
	require.NoError(t, repo.Replace(ctx, sampleOutcomes[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "product_id,standardized_category,aggregated_text\nB001,Pet Supplies,good dog food\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, path, repo.Location())
}

func TestCSVRepository_Reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labeled.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
	repo := NewCSVRepository(path)

	require.NoError(t, repo.Reset(context.Background()))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// resetting a missing file is fine
	assert.NoError(t, repo.Reset(context.Background()))
}

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "labeled.db")

	repo, err := OpenSQLiteRepository(ctx, path)
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Replace(ctx, sampleOutcomes))
	require.NoError(t, repo.Replace(ctx, sampleOutcomes))

	impl := repo.(*sqliteRepository)
	rows, err := impl.db.QueryContext(ctx, `SELECT product_id, raw_category, standardized_category, aggregated_text FROM labeled_products ORDER BY position`)
	require.NoError(t, err)
	defer rows.Close()

	var got []domain.CategoryOutcome
	for rows.Next() {
		var o domain.CategoryOutcome
		require.NoError(t, rows.Scan(&o.ProductID, &o.RawCategory, &o.StandardizedCategory, &o.Text))
		got = append(got, o)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, sampleOutcomes, got)

	require.NoError(t, repo.Reset(ctx))
	var count int
	require.NoError(t, impl.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM labeled_products`).Scan(&count))
	assert.Zero(t, count)
}

type fakeObjectStore struct {
	mu      sync.Mutex
	methods []string
	paths   []string
	bodies  []string
}

func (f *fakeObjectStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.methods = append(f.methods, r.Method)
	f.paths = append(f.paths, r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	if r.Method == http.MethodDelete {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func TestS3Repository(t *testing.T) {
	store := &fakeObjectStore{}
	server := httptest.NewServer(store)
	defer server.Close()

	ctx := context.Background()
	repo, err := NewS3Repository(ctx, config.S3Config{
		Endpoint:        server.URL,
		Region:          "us-east-1",
		Bucket:          "datasets",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
	}, "categories/labeled.csv")
	require.NoError(t, err)

	require.NoError(t, repo.Reset(ctx))
	require.NoError(t, repo.Replace(ctx, sampleOutcomes))

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.methods, 2)
	assert.Equal(t, []string{http.MethodDelete, http.MethodPut}, store.methods)
	assert.Equal(t, "/datasets/categories/labeled.csv", store.paths[1])
	assert.Contains(t, store.bodies[1], "B001,Pet Supplies,good dog food")
	assert.Equal(t, "s3://datasets/categories/labeled.csv", repo.Location())
}

func TestNewS3Repository_RequiresBucket(t *testing.T) {
	_, err := NewS3Repository(context.Background(), config.S3Config{Region: "us-east-1"}, "x.csv")
	assert.Error(t, err)
}
