// Package scheduler drives periodic re-checks of tracked products and
// owns the check_run/scheduler_log lifecycle, following the teacher's
// single-long-lived-task shape (worker.StartCronJobs) generalized from
// one cron.AddFunc callback to a reentrancy-guarded sweep over many
// products.
package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shelfwatch/observer/extractor"
	"github.com/shelfwatch/observer/fetcher"
	"github.com/shelfwatch/observer/ingestion"
	"github.com/shelfwatch/observer/internal/core"
	"github.com/shelfwatch/observer/internal/database"
	"github.com/shelfwatch/observer/utils"
)

// coordinator.go: the Check Coordinator (spec.md §4.4), shared by the
// periodic sweep and the manual runCheck trigger. It owns check_runs'
// lifecycle: exactly one row persisted per call, always closed.

// Fetcher is the subset of *fetcher.Fetcher the coordinator calls.
type Fetcher interface {
	Fetch(ctx context.Context, url string) fetcher.FetchResult
}

// Ingester is the subset of *ingestion.Service the coordinator calls.
type Ingester interface {
	Ingest(ctx context.Context, shell extractor.ProductShell) (ingestion.Result, error)
}

// CheckRunQueries is the slice of database.Queries the coordinator needs
// to open and close a check_runs row.
type CheckRunQueries interface {
	GetProductByID(ctx context.Context, id int64) (database.Product, error)
	CreateCheckRun(ctx context.Context, arg database.CreateCheckRunParams) (database.CheckRun, error)
	FinishCheckRun(ctx context.Context, arg database.FinishCheckRunParams) (database.CheckRun, error)
}

// Coordinator runs the fetch/extract/ingest pipeline for one product and
// records a check_runs row around it.
type Coordinator struct {
	DB        CheckRunQueries
	Fetcher   Fetcher
	Ingestion Ingester
	Logger    logrus.FieldLogger
}

// NewCoordinator builds a Coordinator from its three collaborators.
func NewCoordinator(db CheckRunQueries, f Fetcher, ingest Ingester, logger logrus.FieldLogger) *Coordinator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Coordinator{DB: db, Fetcher: f, Ingestion: ingest, Logger: logger}
}

// CheckResult summarizes one Check call for the caller (scheduler sweep
// accounting or a manual-trigger HTTP response).
type CheckResult struct {
	CheckRun     database.CheckRun
	VariantCount int
}

// Check implements spec.md §4.4's five steps for one product. Fetch and
// Ingestion failures both close the check_runs row as failed and return
// a non-nil error; the row itself is always persisted and closed.
func (c *Coordinator) Check(ctx context.Context, productID int64, url string) (CheckResult, error) {
	runID := utils.NewUUIDString()
	startedAt := time.Now().UTC()

	run, err := c.DB.CreateCheckRun(ctx, database.CreateCheckRunParams{
		ProductID: productID,
		RunID:     runID,
		StartedAt: startedAt,
		Status:    "",
		Metadata:  core.Metadata{},
	})
	if err != nil {
		return CheckResult{}, core.NewError(core.CodeInternal, "check_runs insert failed", err)
	}

	result := c.Fetcher.Fetch(ctx, url)
	if !result.Success {
		c.finish(ctx, run.ID, database.CheckRunFailed, result.Error, core.Metadata{
			"modeUsed": string(result.ModeUsed),
		})
		return CheckResult{}, core.NewError(core.CodeFetchFailed, "fetch failed for product", errors.New(result.Error))
	}

	shell := extractor.Extract(result)

	ingested, err := c.Ingestion.Ingest(ctx, shell)
	if err != nil {
		c.finish(ctx, run.ID, database.CheckRunFailed, err.Error(), core.Metadata{
			"modeUsed":     string(result.ModeUsed),
			"variantsFound": len(shell.Variants),
			"notes":        shell.Notes,
		})
		return CheckResult{}, err
	}

	finished := c.finish(ctx, run.ID, database.CheckRunSuccess, "", core.Metadata{
		"modeUsed":      string(result.ModeUsed),
		"variantsFound": len(ingested.Variants),
		"notes":         shell.Notes,
	})

	return CheckResult{CheckRun: finished, VariantCount: len(ingested.Variants)}, nil
}

// finish closes a check_runs row. Errors finishing the row are logged,
// not returned: the caller already has the outcome it needs to act on,
// and a bookkeeping failure here must not mask the underlying result.
func (c *Coordinator) finish(ctx context.Context, runRowID int64, status, errMsg string, metadata core.Metadata) database.CheckRun {
	params := database.FinishCheckRunParams{
		ID:         runRowID,
		FinishedAt: time.Now().UTC(),
		Status:     status,
		Metadata:   metadata,
	}
	if errMsg != "" {
		params.ErrorMessage = sql.NullString{String: errMsg, Valid: true}
	}
	finished, err := c.DB.FinishCheckRun(ctx, params)
	if err != nil {
		c.Logger.WithError(err).WithField("check_run_id", runRowID).Error("coordinator: failed to close check_runs row")
	}
	return finished
}
