package service

import (
	"context"
	"testing"
	"time"

	"productcat/scraper/internal/domain"

	"github.com/stretchr/testify/assert"
)

func outcome(id, category string) domain.CategoryOutcome {
	return domain.CategoryOutcome{ProductID: id, StandardizedCategory: category}
}

func TestNewSummary_Distribution(t *testing.T) {
	summary := newSummary("run", 6, []domain.CategoryOutcome{
		outcome("1", "Books"),
		outcome("2", "Pet Supplies"),
		outcome("3", domain.Uncategorized),
		outcome("4", "Books"),
		outcome("5", "Baby"),
	}, 4)

	assert.Equal(t, 5, summary.Processed)
	assert.Equal(t, 4, summary.Succeeded)
	assert.Equal(t, 1, summary.Uncategorized)
	assert.Equal(t, 4, summary.Labeled())
	assert.Equal(t, []CategoryCount{
		{Category: "Books", Count: 2},
		{Category: "Baby", Count: 1},
		{Category: "Pet Supplies", Count: 1},
	}, summary.Distribution)

	category, share := summary.TopShare()
	assert.Equal(t, "Books", category)
	assert.InDelta(t, 0.5, share, 1e-9)
	assert.False(t, summary.Skewed())
}

func TestSummary_Skewed(t *testing.T) {
	results := []domain.CategoryOutcome{outcome("0", "Grocery & Gourmet Food")}
	for i := 0; i < 9; i++ {
		results = append(results, outcome("g", "Grocery & Gourmet Food"))
	}
	results = append(results, outcome("b", "Books"))

	assert.True(t, newSummary("run", 11, results, 11).Skewed())
}

func TestSummary_NothingLabeled(t *testing.T) {
	summary := newSummary("run", 1, []domain.CategoryOutcome{outcome("1", domain.Uncategorized)}, 0)

	category, share := summary.TopShare()
	assert.Empty(t, category)
	assert.Zero(t, share)
	assert.False(t, summary.Skewed())
}

func TestRandomPacer_StaysInRange(t *testing.T) {
	p := NewRandomPacer(10*time.Millisecond, 20*time.Millisecond).(*randomPacer)
	for i := 0; i < 200; i++ {
		d := p.next()
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.LessOrEqual(t, d, 20*time.Millisecond)
	}

	assert.Equal(t, 5*time.Millisecond, (&randomPacer{min: 5 * time.Millisecond, max: 5 * time.Millisecond}).next())
}

func TestRandomPacer_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	started := time.Now()
	err := NewRandomPacer(time.Hour, 2*time.Hour).Wait(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(started), time.Second)
}
