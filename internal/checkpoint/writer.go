package checkpoint

import (
	"context"
	"fmt"

	"productcat/scraper/internal/domain"
	"productcat/scraper/internal/repository"
	"productcat/scraper/internal/state"

	log "github.com/sirupsen/logrus"
)

// FlushObserver is notified after every successful flush
type FlushObserver interface {
	ObserveFlush()
}

// Writer makes the result set durable every cadence items and once more at the end of a run.
// Every flush rewrites the whole set. Not safe for concurrent use.
type Writer struct {
	repo     repository.OutcomeRepository
	cadence  int
	progress state.ProgressRecorder
	observer FlushObserver
	runID    string

	sinceFlush int
	flushes    int
	durable    int
}

func NewWriter(
	repo repository.OutcomeRepository,
	cadence int,
	progress state.ProgressRecorder,
	observer FlushObserver,
	runID string,
) *Writer {
	if cadence <= 0 {
		cadence = 1
	}
	return &Writer{
		repo:     repo,
		cadence:  cadence,
		progress: progress,
		observer: observer,
		runID:    runID,
	}
}

// Reset removes output left by a previous run. Call it before the first Record.
func (w *Writer) Reset(ctx context.Context) error {
	if err := w.repo.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset output: %w", err)
	}
	log.Infof("🧹 Cleared stale output at %s", w.repo.Location())
	return nil
}

// Record is called after one outcome has been appended to results. When the cadence is
// reached the whole set is flushed. A failed periodic flush is logged and the run goes on:
// the next flush rewrites everything anyway.
func (w *Writer) Record(ctx context.Context, results []domain.CategoryOutcome) {
	w.sinceFlush++
	if w.sinceFlush < w.cadence {
		return
	}

	if err := w.Flush(ctx, results); err != nil {
		log.Errorf("❌ Checkpoint at %d items failed: %v", len(results), err)
		return
	}
	log.Infof("💾 Checkpoint: %d items saved to %s", len(results), w.repo.Location())
}

// Flush rewrites the durable output with results
func (w *Writer) Flush(ctx context.Context, results []domain.CategoryOutcome) error {
	if err := w.repo.Replace(ctx, results); err != nil {
		return fmt.Errorf("failed to write %d outcomes: %w", len(results), err)
	}

	w.sinceFlush = 0
	w.flushes++
	w.durable = len(results)

	if w.observer != nil {
		w.observer.ObserveFlush()
	}
	if w.progress != nil {
		if err := w.progress.SetDurable(ctx, w.runID, w.durable); err != nil {
			log.Warnf("⚠️ Failed to record progress: %v", err)
		}
	}

	return nil
}

// Flushes returns the number of successful flushes so far
func (w *Writer) Flushes() int {
	return w.flushes
}

// Durable returns the number of items in the last successful flush
func (w *Writer) Durable() int {
	return w.durable
}

func (w *Writer) Location() string {
	return w.repo.Location()
}
