package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cfptracker/internal/domain"
	"cfptracker/internal/ports"
	"cfptracker/internal/reconcile"
	"cfptracker/internal/report"
)

// ErrEmptyObservation signals that the source returned zero postings while a
// non-empty prior snapshot exists. Persisting that run would silently delete
// every tracked posting, so it needs explicit confirmation.
var ErrEmptyObservation = errors.New("source returned zero postings while prior snapshot is non-empty; refusing mass deletion")

// PipelineDeps wires all driven adapters into the run orchestration.
type PipelineDeps struct {
	Source     ports.PostingSource
	Store      ports.SnapshotRepository
	Notifier   ports.Notifier
	DateLayout string
	Logger     *slog.Logger
}

// RunOptions tune a single pipeline execution.
type RunOptions struct {
	// DryRun classifies and reports but never writes.
	DryRun bool
	// AllowEmpty confirms persisting a run whose observation set is empty.
	AllowEmpty bool
}

// RunResult is what one reconciliation run did.
type RunResult struct {
	Classification reconcile.Classification
	Wrote          bool
	Rows           int
	PriorDegraded  bool
}

// Digest renders the human-readable summary of this result.
func (r RunResult) Digest(dateLayout string) string {
	return report.Digest(r.Classification, r.Wrote, r.Rows, dateLayout)
}

// Pipeline implements one reconciliation run: fetch, load, classify,
// persist if needed, report.
type Pipeline struct {
	source     ports.PostingSource
	store      ports.SnapshotRepository
	notifier   ports.Notifier
	dateLayout string
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:     deps.Source,
		store:      deps.Store,
		notifier:   deps.Notifier,
		dateLayout: deps.DateLayout,
		logger:     logger,
	}
}

// Run performs exactly one fetch, one load, one diff and at most one write,
// strictly in that sequence. A failed write aborts with no partial state; an
// unreadable prior snapshot degrades to a full resync with a diagnostic.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (RunResult, error) {
	var res RunResult

	if p.source == nil || p.store == nil {
		return res, errors.New("pipeline is missing source or store")
	}

	observed, err := p.source.FetchPostings(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch postings: %w", err)
	}

	fresh := p.keyPostings(observed)

	prior, err := p.store.Load()
	if err != nil {
		p.logger.Error("prior snapshot unreadable, resyncing from empty", "error", err)
		prior = map[string]domain.Posting{}
		res.PriorDegraded = true
	}

	if len(fresh) == 0 && len(prior) > 0 && !opts.AllowEmpty {
		return res, fmt.Errorf("%w (prior has %d postings)", ErrEmptyObservation, len(prior))
	}

	res.Classification = reconcile.Classify(fresh, prior)
	p.logger.Debug("classified postings",
		"new", len(res.Classification.New),
		"updated", len(res.Classification.Updated),
		"unmodified", len(res.Classification.Unmodified),
		"deleted", len(res.Classification.Deleted))

	switch {
	case !res.Classification.NeedsWrite():
		p.logger.Info("snapshot unchanged, skipping write")
	case opts.DryRun:
		p.logger.Info("dry run, skipping write")
	default:
		ordered := res.Classification.OrderForWrite()
		if err := p.store.Save(ordered); err != nil {
			return res, fmt.Errorf("persist snapshot: %w", err)
		}
		res.Wrote = true
		res.Rows = len(ordered)
		p.logger.Info("snapshot replaced", "rows", res.Rows)
	}

	if p.notifier != nil {
		if err := p.notifier.PublishDigest(ctx, res.Digest(p.dateLayout)); err != nil {
			p.logger.Warn("publish digest", "error", err)
		}
	}

	return res, nil
}

// keyPostings indexes observations by identity key. A posting missing any of
// the three identity fields is dropped with a diagnostic; the run continues.
func (p *Pipeline) keyPostings(observed []domain.Posting) map[string]domain.Posting {
	fresh := make(map[string]domain.Posting, len(observed))
	for _, posting := range observed {
		key, err := posting.Key()
		if err != nil {
			p.logger.Warn("dropping posting without identity", "title", posting.Title, "error", err)
			continue
		}
		fresh[key] = posting
	}
	return fresh
}
