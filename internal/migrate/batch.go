package migrate

import (
	"context"
	"log/slog"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
)

// DefaultProgressInterval is how many units are processed between running
// progress log lines when the caller does not configure one.
const DefaultProgressInterval = 50

// Summary aggregates one batch run.
type Summary struct {
	Examined    int `json:"examined"`
	Changed     int `json:"changed"`
	Committed   int `json:"committed"`
	Failed      int `json:"failed"`
	NeedsReview int `json:"needs_review"`
}

// BatchCoordinator processes an enumerated scope of units sequentially with
// partial-failure tolerance: a failing unit is counted and logged, never
// aborts the batch.
type BatchCoordinator struct {
	controller *Controller
	provider   catalog.Provider
	tokens     TokenGenerator
	logger     *slog.Logger

	// ProgressInterval is how many units between progress reports.
	ProgressInterval int
}

// NewBatchCoordinator wires a controller to a unit provider.
func NewBatchCoordinator(c *Controller, provider catalog.Provider, tokens TokenGenerator, logger *slog.Logger) *BatchCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchCoordinator{
		controller:       c,
		provider:         provider,
		tokens:           tokens,
		logger:           logger,
		ProgressInterval: DefaultProgressInterval,
	}
}

// Run enumerates the scope once and applies every unit under a single run
// token. All units are processed regardless of individual failures; the
// per-unit results carry the details, the summary carries the counts.
func (b *BatchCoordinator) Run(ctx context.Context, scope catalog.Scope, opts Options) (Summary, []UnitResult, error) {
	units, err := b.provider.Units(ctx, scope)
	if err != nil {
		return Summary{}, nil, err
	}

	runToken := b.tokens.Generate()
	b.logger.Info("batch started",
		"run_token", runToken,
		"units", len(units),
		"preview", opts.Preview,
		"backup", opts.BackupEnabled,
	)

	var (
		summary Summary
		results []UnitResult
	)
	interval := b.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	for _, unit := range units {
		res, err := b.controller.ApplyUnit(ctx, unit, opts, runToken)
		summary.Examined++
		if res.Changed {
			summary.Changed++
		}
		if res.Committed {
			summary.Committed++
		}
		if res.Report != nil && res.Report.NeedsReview() {
			summary.NeedsReview++
		}
		if err != nil {
			summary.Failed++
			b.logger.Error("unit failed", "unit", unit.Identity.String(), "error", err)
		}
		results = append(results, res)

		if summary.Examined%interval == 0 {
			b.logger.Info("batch progress",
				"processed", summary.Examined,
				"total", len(units),
				"changed", summary.Changed,
				"failed", summary.Failed,
			)
		}
	}

	b.logger.Info("batch finished",
		"run_token", runToken,
		"examined", summary.Examined,
		"changed", summary.Changed,
		"committed", summary.Committed,
		"failed", summary.Failed,
		"needs_review", summary.NeedsReview,
	)
	return summary, results, nil
}
