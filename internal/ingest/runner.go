// Package ingest drives one fetch-normalize-upsert cycle over the
// ticker store. Cycles run serially; repeated runs are scheduled by the
// caller.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"marketboard/internal/fetcher"
	"marketboard/internal/store"
	"marketboard/internal/ticker"
)

// Report aggregates the outcome of one ingestion cycle
type Report struct {
	// Processed is the number of raw items the fetch returned,
	// including ones that later failed normalization or upsert
	Processed int
	// Created counts symbols seen for the first time
	Created int
	// Updated counts symbols that already had a record
	Updated int
	// Failures holds the per-item errors; the cycle keeps going past them
	Failures []error
}

// Runner runs ingestion cycles against a single fetcher and store
type Runner struct {
	fetcher fetcher.TickerFetcher
	store   store.Store
	logger  *slog.Logger
}

// New creates a Runner
func New(f fetcher.TickerFetcher, s store.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		fetcher: f,
		store:   s,
		logger:  logger,
	}
}

// Run executes one ingestion cycle for the given instrument category.
// A fetch failure aborts the cycle before anything touches the store
// and is returned as the error. Per-item failures are collected in the
// report and never stop the rest of the batch.
func (r *Runner) Run(ctx context.Context, category string) (Report, error) {
	list, err := r.fetcher.Fetch(ctx, category)
	if err != nil {
		r.logger.Error("ticker fetch failed, aborting cycle",
			"category", category,
			"error", err)
		return Report{}, err
	}

	report := Report{Processed: len(list)}

	for _, raw := range list {
		rec, err := ticker.Normalize(raw, category)
		if err != nil {
			r.logger.Warn("skipping malformed ticker item",
				"symbol", raw.Symbol,
				"error", err)
			report.Failures = append(report.Failures, err)
			continue
		}

		created, err := r.store.Upsert(ctx, rec)
		if err != nil {
			r.logger.Warn("ticker upsert failed",
				"symbol", rec.Symbol,
				"error", err)
			report.Failures = append(report.Failures, fmt.Errorf("upsert %s: %w", rec.Symbol, err))
			continue
		}

		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	r.logger.Info("ingestion cycle complete",
		"category", category,
		"processed", report.Processed,
		"created", report.Created,
		"updated", report.Updated,
		"failures", len(report.Failures))

	return report, nil
}
