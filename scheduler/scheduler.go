package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/shelfwatch/observer/internal/core"
	"github.com/shelfwatch/observer/internal/database"
	"github.com/shelfwatch/observer/utils"
)

// scheduler.go: the periodic sweep driver (spec.md §4.5), grounded on
// worker.StartCronJobs's cron.New/AddFunc/Start/Stop lifecycle but
// generalized from one materialized-view refresh into a
// reentrancy-guarded sweep over every tracked product.

// Queries is the slice of database.Queries the scheduler needs beyond
// what the Coordinator already owns.
type Queries interface {
	ListDistinctTrackedProductIDs(ctx context.Context) ([]int64, error)
	GetProductByID(ctx context.Context, id int64) (database.Product, error)
	CreateSchedulerLog(ctx context.Context, arg database.CreateSchedulerLogParams) (database.SchedulerLog, error)
	FinishSchedulerLog(ctx context.Context, arg database.FinishSchedulerLogParams) (database.SchedulerLog, error)
}

// ErrSweepInProgress is returned by RunNow when a sweep is already
// active; the new tick or manual trigger must log and return without
// queuing (spec.md §4.5's single-instance reentrancy guard).
var ErrSweepInProgress = fmt.Errorf("scheduler: sweep already in progress")

// SweepResult summarizes one completed sweep.
type SweepResult struct {
	RunID           string
	ProductsChecked int
	ItemsChecked    int
	Success         bool
	Errors          []string
}

// state is the scheduler's in-memory bookkeeping (spec.md §5's
// isRunning/lastRun/nextRun/currentRunId), mutated only by the sweep
// goroutine and read by Status under a mutex rather than shared fields.
type state struct {
	mu          sync.Mutex
	lastRun     time.Time
	nextRun     time.Time
	currentRun  string
}

// Scheduler owns the cron-driven sweep over every tracked product.
type Scheduler struct {
	DB          Queries
	Coordinator *Coordinator
	Logger      logrus.FieldLogger

	IntervalMinutes int
	MaxWorkers      int

	cron      *cron.Cron
	isRunning atomic.Bool
	state     state
}

// NewScheduler builds a Scheduler that sweeps every intervalMinutes.
// MaxWorkers <= 1 runs each sweep strictly sequentially, per spec.md
// §4.5's default; a larger value bounds the number of products checked
// concurrently within one sweep.
func NewScheduler(db Queries, coordinator *Coordinator, intervalMinutes int, logger logrus.FieldLogger) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if intervalMinutes <= 0 {
		intervalMinutes = 30
	}
	return &Scheduler{
		DB:              db,
		Coordinator:     coordinator,
		Logger:          logger,
		IntervalMinutes: intervalMinutes,
		MaxWorkers:      1,
	}
}

// Start registers the sweep on the configured interval and starts the
// underlying cron scheduler. The returned error surfaces an invalid
// schedule so main() can fail fast, mirroring worker.StartCronJobs.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron = cron.New()
	schedule := fmt.Sprintf("@every %dm", s.IntervalMinutes)

	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.RunNow(ctx); err != nil && err != ErrSweepInProgress {
			s.Logger.WithError(err).Error("scheduler: sweep tick failed")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.state.mu.Lock()
	s.state.nextRun = time.Now().Add(time.Duration(s.IntervalMinutes) * time.Minute)
	s.state.mu.Unlock()

	s.Logger.WithField("interval_minutes", s.IntervalMinutes).Info("scheduler: started")
	return nil
}

// Stop halts the cron scheduler, waiting for any in-flight cron-triggered
// sweep to finish (via the context cron.Cron.Stop returns).
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Status is a read-only snapshot of the scheduler's in-memory state,
// safe to expose on a status endpoint without touching sweep internals.
type Status struct {
	IsRunning bool
	LastRun   time.Time
	NextRun   time.Time
	RunID     string
}

// Status returns a snapshot of the scheduler's current state.
func (s *Scheduler) Status() Status {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return Status{
		IsRunning: s.isRunning.Load(),
		LastRun:   s.state.lastRun,
		NextRun:   s.state.nextRun,
		RunID:     s.state.currentRun,
	}
}

// RunNow triggers a sweep immediately. If one is already in progress it
// logs and returns ErrSweepInProgress without queuing a second sweep,
// satisfying spec.md §8's reentrancy invariant: concurrent RunNow calls
// result in exactly one active sweep.
func (s *Scheduler) RunNow(ctx context.Context) (SweepResult, error) {
	if !s.isRunning.CompareAndSwap(false, true) {
		s.Logger.Warn("scheduler: sweep already in progress, skipping trigger")
		return SweepResult{}, ErrSweepInProgress
	}
	defer s.isRunning.Store(false)

	return s.sweep(ctx)
}

func (s *Scheduler) sweep(ctx context.Context) (SweepResult, error) {
	runID := utils.NewUUIDString()
	startedAt := time.Now().UTC()

	s.state.mu.Lock()
	s.state.currentRun = runID
	s.state.mu.Unlock()

	logRow, err := s.DB.CreateSchedulerLog(ctx, database.CreateSchedulerLogParams{
		RunID:        runID,
		RunStartedAt: startedAt,
		Metadata:     core.Metadata{},
	})
	if err != nil {
		return SweepResult{}, core.NewError(core.CodeInternal, "scheduler_logs insert failed", err)
	}

	productIDs, err := s.DB.ListDistinctTrackedProductIDs(ctx)
	if err != nil {
		s.finalizeLog(ctx, logRow.ID, 0, 0, []string{fmt.Sprintf("listing tracked products: %v", err)})
		return SweepResult{}, core.NewError(core.CodeInternal, "listing tracked products failed", err)
	}

	productsChecked, itemsChecked, errs := s.checkAll(ctx, productIDs)

	s.finalizeLog(ctx, logRow.ID, productsChecked, itemsChecked, errs)

	finishedAt := time.Now()
	s.state.mu.Lock()
	s.state.lastRun = finishedAt
	s.state.nextRun = finishedAt.Add(time.Duration(s.IntervalMinutes) * time.Minute)
	s.state.currentRun = ""
	s.state.mu.Unlock()

	return SweepResult{
		RunID:           runID,
		ProductsChecked: productsChecked,
		ItemsChecked:    itemsChecked,
		Success:         len(errs) == 0,
		Errors:          errs,
	}, nil
}

// checkAll walks productIDs, sequentially unless MaxWorkers > 1, in
// which case up to MaxWorkers products are checked concurrently. Either
// way, a failure on one product is recorded and does not abort the
// sweep (spec.md §4.5 step 3).
func (s *Scheduler) checkAll(ctx context.Context, productIDs []int64) (productsChecked, itemsChecked int, errs []string) {
	workers := s.MaxWorkers
	if workers <= 1 {
		for _, id := range productIDs {
			ok, items, errMsg := s.checkOne(ctx, id)
			if ok {
				productsChecked++
				itemsChecked += items
			} else {
				errs = append(errs, errMsg)
			}
		}
		return productsChecked, itemsChecked, errs
	}

	type outcome struct {
		ok      bool
		items   int
		errMsg  string
	}
	results := make([]outcome, len(productIDs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, id := range productIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id int64) {
			defer wg.Done()
			defer func() { <-sem }()
			ok, items, errMsg := s.checkOne(ctx, id)
			results[i] = outcome{ok: ok, items: items, errMsg: errMsg}
		}(i, id)
	}
	wg.Wait()

	for _, r := range results {
		if r.ok {
			productsChecked++
			itemsChecked += r.items
		} else {
			errs = append(errs, r.errMsg)
		}
	}
	return productsChecked, itemsChecked, errs
}

func (s *Scheduler) checkOne(ctx context.Context, productID int64) (ok bool, items int, errMsg string) {
	product, err := s.DB.GetProductByID(ctx, productID)
	if err != nil {
		return false, 0, fmt.Sprintf("product %d: loading row: %v", productID, err)
	}

	result, err := s.Coordinator.Check(ctx, productID, product.URL)
	if err != nil {
		return false, 0, fmt.Sprintf("product %d: %v", productID, err)
	}
	return true, result.VariantCount, ""
}

func (s *Scheduler) finalizeLog(ctx context.Context, logRowID int64, productsChecked, itemsChecked int, errs []string) {
	params := database.FinishSchedulerLogParams{
		ID:              logRowID,
		RunFinishedAt:   time.Now().UTC(),
		ProductsChecked: int32(productsChecked),
		ItemsChecked:    int32(itemsChecked),
		Success:         sql.NullBool{Bool: len(errs) == 0, Valid: true},
		Metadata:        core.Metadata{"errorCount": len(errs)},
	}
	if len(errs) > 0 {
		params.ErrorSummary = sql.NullString{String: strings.Join(errs, "; "), Valid: true}
	}
	if _, err := s.DB.FinishSchedulerLog(ctx, params); err != nil {
		s.Logger.WithError(err).WithField("scheduler_log_id", logRowID).Error("scheduler: failed to close scheduler_logs row")
	}
}
