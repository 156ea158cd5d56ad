// Package runner orchestrates one end-to-end check: fetch, filter,
// diff against the seen set, notify, persist.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"flat_watch/internal/fetcher"
	"flat_watch/internal/filter"
	"flat_watch/internal/model"
	"flat_watch/internal/storage"
	"flat_watch/internal/tracker"
)

// Notifier is the interface for delivering a summary of new listings.
type Notifier interface {
	SendSummary(ctx context.Context, listings []model.Listing) error
}

// Runner executes check runs over the configured sources.
type Runner struct {
	store    storage.Storage
	sources  []fetcher.Source
	notifier Notifier
	criteria model.SearchCriteria
	log      *slog.Logger
	tick     time.Duration
}

// New creates a Runner.
func New(store storage.Storage, sources []fetcher.Source, notifier Notifier, criteria model.SearchCriteria, log *slog.Logger) *Runner {
	return &Runner{
		store:    store,
		sources:  sources,
		notifier: notifier,
		criteria: criteria,
		log:      log,
		tick:     24 * time.Hour,
	}
}

// SetTickInterval overrides the default daily interval for Run.
func (r *Runner) SetTickInterval(d time.Duration) {
	r.tick = d
}

type sourceResult struct {
	name         string
	candidateIDs []string
}

// RunOnce performs a single run. A fetch or seen-set load failure
// aborts the run with nothing mutated. A notification failure aborts
// before the seen set is updated, so the next run re-notifies the same
// listings rather than silently dropping them.
func (r *Runner) RunOnce(ctx context.Context) error {
	var results []sourceResult
	var fresh []model.Listing

	for _, src := range r.sources {
		listings, err := src.Fetch(ctx, r.criteria)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", src.Name(), err)
		}

		candidates := filter.Apply(listings, r.criteria)

		seen, err := r.store.SeenIDs(ctx, src.Name())
		if err != nil {
			return fmt.Errorf("load seen set for %s: %w", src.Name(), err)
		}

		newListings := tracker.Diff(candidates, seen)
		r.log.Info("checked source",
			"source", src.Name(),
			"fetched", len(listings),
			"matched", len(candidates),
			"new", len(newListings),
		)

		results = append(results, sourceResult{name: src.Name(), candidateIDs: tracker.IDs(candidates)})
		fresh = append(fresh, newListings...)
	}

	if len(fresh) == 0 {
		r.log.Info("no new listings")
		return nil
	}

	if err := r.notifier.SendSummary(ctx, fresh); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}

	for _, res := range results {
		if err := r.store.MarkSeen(ctx, res.name, res.candidateIDs); err != nil {
			return fmt.Errorf("mark seen for %s: %w", res.name, err)
		}
	}
	if err := r.store.RecordNotified(ctx, fresh); err != nil {
		return fmt.Errorf("record notified: %w", err)
	}

	r.log.Info("run completed", "new", len(fresh))
	return nil
}

// Run checks immediately and then on every tick, blocking until ctx is
// cancelled. Per-tick errors are logged; the loop keeps going.
func (r *Runner) Run(ctx context.Context) {
	if err := r.RunOnce(ctx); err != nil {
		r.log.Error("run failed", "error", err)
	}

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RunOnce(ctx); err != nil {
				r.log.Error("run failed", "error", err)
			}
		}
	}
}
