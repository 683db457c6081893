package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"productcat/scraper/internal/categorizer"
	"productcat/scraper/internal/checkpoint"
	"productcat/scraper/internal/client"
	"productcat/scraper/internal/config"
	"productcat/scraper/internal/corpus"
	"productcat/scraper/internal/domain"
	"productcat/scraper/internal/queue"
	"productcat/scraper/internal/repository"
	"productcat/scraper/internal/sampler"
	"productcat/scraper/internal/state"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Observer receives run measurements; *metrics.Metrics implements it
type Observer interface {
	ObserveFetch(status domain.FetchStatus, elapsed time.Duration)
	ObserveCategory(category string)
	ObserveFlush()
	SetSampleSize(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveFetch(domain.FetchStatus, time.Duration) {}
func (nopObserver) ObserveCategory(string)                         {}
func (nopObserver) ObserveFlush()                                  {}
func (nopObserver) SetSampleSize(int)                              {}

// Dependencies are the external resources of a run. Sessions and Repository are required.
type Dependencies struct {
	Sessions   client.SessionFactory
	Repository repository.OutcomeRepository
	Progress   state.ProgressRecorder
	Publisher  queue.Publisher
	Observer   Observer
	Pacer      Pacer
}

// Orchestrator runs one acquisition: read and sample the corpus, fetch and standardize a
// category for every candidate through a single session, checkpoint as it goes.
type Orchestrator struct {
	config       config.Config
	sessions     client.SessionFactory
	repository   repository.OutcomeRepository
	progress     state.ProgressRecorder
	publisher    queue.Publisher
	observer     Observer
	pacer        Pacer
	fetcher      *client.Fetcher
	standardizer *categorizer.Standardizer
}

func NewOrchestrator(cfg config.Config, deps Dependencies) *Orchestrator {
	o := &Orchestrator{
		config:       cfg,
		sessions:     deps.Sessions,
		repository:   deps.Repository,
		progress:     deps.Progress,
		publisher:    deps.Publisher,
		observer:     deps.Observer,
		pacer:        deps.Pacer,
		fetcher:      client.NewFetcher(cfg.Fetch.URLTemplate),
		standardizer: categorizer.NewStandardizer(cfg.TaxonomyList()),
	}

	if o.progress == nil {
		o.progress = state.NewMemoryProgressRecorder()
	}
	if o.publisher == nil {
		o.publisher = queue.NopPublisher{}
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	if o.pacer == nil {
		o.pacer = NewRandomPacer(cfg.Fetch.MinDelay, cfg.Fetch.MaxDelay)
	}

	return o
}

// Run executes one acquisition. Errors before the candidate loop (missing input or column,
// session or output unavailable) abort with no output. Per-item failures never surface here.
// A panic or cancellation inside the loop stops it, but the collected results are still
// flushed; the returned Summary is then non-nil alongside the error.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	log.Infof("🚀 Starting acquisition run %s", runID)

	candidates, err := o.prepare()
	if err != nil {
		return nil, err
	}
	o.observer.SetSampleSize(len(candidates))

	log.Info("🔌 Opening fetch session...")
	session, err := o.sessions.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open fetch session: %w", err)
	}

	closed := false
	closeSession := func() {
		if closed {
			return
		}
		closed = true
		if err := session.Close(); err != nil {
			log.Warnf("⚠️ Failed to close fetch session: %v", err)
		}
	}
	defer closeSession()

	writer := checkpoint.NewWriter(o.repository, o.config.Output.Cadence, o.progress, o.observer, runID)
	if err := writer.Reset(ctx); err != nil {
		return nil, err
	}

	results := make([]domain.CategoryOutcome, 0, len(candidates))
	succeeded, loopErr := o.process(ctx, runID, session, writer, candidates, &results)

	closeSession()

	// the final flush must happen even when the run was cancelled
	if err := writer.Flush(context.WithoutCancel(ctx), results); err != nil {
		return nil, errors.Join(loopErr, fmt.Errorf("failed to write final results: %w", err))
	}

	summary := newSummary(runID, len(candidates), results, succeeded)
	summary.Flushes = writer.Flushes()
	summary.Location = writer.Location()

	finished := &queue.RunFinishedEvent{
		RunID:     runID,
		Processed: summary.Processed,
		Succeeded: summary.Succeeded,
		Location:  summary.Location,
	}
	if loopErr != nil {
		finished.Error = loopErr.Error()
	}
	o.publish(context.WithoutCancel(ctx), finished)

	return summary, loopErr
}

func (o *Orchestrator) prepare() ([]domain.ProductDocument, error) {
	in := o.config.Input
	log.Infof("📖 Reading corpus from %s", in.Path)

	rows, err := corpus.ReadRows(in.Path, in.IDColumn, in.TextColumn)
	if err != nil {
		return nil, err
	}

	universe := corpus.Aggregate(rows)
	log.Infof("📚 Aggregated %d rows into %d products", len(rows), len(universe))

	candidates, stats := sampler.New(o.config.KeywordMap(), o.config.Sampler.Quota, o.config.Sampler.Seed).Sample(universe)
	log.Infof("🎯 Selected %d candidates (%d keyword-targeted, %d random top-up)",
		len(candidates), stats.Targeted, stats.TopUp)

	return candidates, nil
}

// process runs the candidate loop. It returns the number of found breadcrumbs and the
// error that stopped the loop early, if any.
func (o *Orchestrator) process(
	ctx context.Context,
	runID string,
	session client.Session,
	writer *checkpoint.Writer,
	candidates []domain.ProductDocument,
	results *[]domain.CategoryOutcome,
) (succeeded int, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("💥 Candidate loop panicked after %d items: %v", len(*results), r)
			err = fmt.Errorf("candidate loop aborted: %v", r)
		}
	}()

	total := len(candidates)
	for i, candidate := range candidates {
		if ctx.Err() != nil {
			log.Warnf("🛑 Run interrupted after %d/%d candidates", i, total)
			return succeeded, ctx.Err()
		}

		started := time.Now()
		result := o.fetcher.Fetch(ctx, session, candidate.ProductID)
		if ctx.Err() != nil {
			// an interrupted fetch is not a processed item
			log.Warnf("🛑 Run interrupted while fetching %s, %d/%d candidates done", candidate.ProductID, i, total)
			return succeeded, ctx.Err()
		}
		o.observer.ObserveFetch(result.Status, time.Since(started))

		category := o.standardizer.Standardize(result)
		o.observer.ObserveCategory(category)

		if result.Status == domain.StatusFound {
			succeeded++
		}

		outcome := domain.CategoryOutcome{
			ProductID:            candidate.ProductID,
			RawCategory:          result.Raw(),
			StandardizedCategory: category,
			Text:                 candidate.Text,
		}
		*results = append(*results, outcome)

		switch result.Status {
		case domain.StatusFailed:
			log.Warnf("❌ [%d/%d] %s: %s (%v)", i+1, total, candidate.ProductID, result.Raw(), result.Err)
		default:
			log.Infof("🔎 [%d/%d] %s -> %s", i+1, total, candidate.ProductID, category)
		}

		o.publish(ctx, &queue.OutcomeEvent{
			RunID:    runID,
			Position: i,
			Status:   result.Status.String(),
			Outcome:  outcome,
		})

		if err := o.pacer.Wait(ctx); err != nil {
			log.Warnf("🛑 Run interrupted after %d/%d candidates", i+1, total)
			return succeeded, err
		}

		writer.Record(ctx, *results)
	}

	return succeeded, nil
}

func (o *Orchestrator) publish(ctx context.Context, event queue.Event) {
	if _, err := o.publisher.Publish(ctx, event); err != nil {
		log.Warnf("⚠️ Failed to publish %s event: %v", event.EventType(), err)
	}
}
