package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"sentiment-dashboard/utils"
)

// Refreshable is anything whose cached state can be rebuilt.
// *Dashboard satisfies it.
type Refreshable interface {
	Refresh() []error
}

// Refresher rebuilds the dataset cache on a cron schedule, so edits to the
// corpus files show up without a restart.
type Refresher struct {
	schedule string
	target   Refreshable
	logger   *utils.Logger
	cron     *cron.Cron

	mu      sync.Mutex
	running bool
	runs    int
}

// NewRefresher validates a standard 5-field cron expression
// (minute hour day-of-month month day-of-week), e.g. "0 */6 * * *".
func NewRefresher(schedule string, target Refreshable, logger *utils.Logger) (*Refresher, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		return nil, fmt.Errorf("refresher: empty schedule")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return nil, fmt.Errorf("refresher: invalid schedule %q: %w", schedule, err)
	}

	r := &Refresher{
		schedule: schedule,
		target:   target,
		logger:   logger,
		cron:     cron.New(cron.WithParser(parser)),
	}
	if _, err := r.cron.AddFunc(schedule, func() { r.RefreshNow() }); err != nil {
		return nil, fmt.Errorf("refresher: schedule job: %w", err)
	}
	return r, nil
}

// Start runs the scheduler in its own goroutine.
func (r *Refresher) Start() {
	r.logger.Info("[refresher] cache refresh scheduled (cron: %s)", r.schedule)
	r.cron.Start()
}

// Stop halts the scheduler. The returned context is done once a running
// refresh has finished.
func (r *Refresher) Stop() context.Context {
	return r.cron.Stop()
}

// RefreshNow performs one refresh. Overlapping calls are dropped.
func (r *Refresher) RefreshNow() bool {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.logger.Warn("[refresher] previous refresh still running, skipping")
		return false
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.runs++
		r.mu.Unlock()
	}()

	errs := r.target.Refresh()
	if len(errs) > 0 {
		r.logger.Warn("[refresher] refresh finished with %d load errors", len(errs))
	} else {
		r.logger.Info("[refresher] refresh finished")
	}
	return true
}

// Runs returns the number of completed refreshes.
func (r *Refresher) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}
