// Package scheduler runs the publisher on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/umputun/sportswatch/pkg/publisher"
)

// ErrBusy is returned when a run is requested while another one is in progress
var ErrBusy = errors.New("publishing run already in progress")

// Runner performs one publishing run
type Runner interface {
	Run(ctx context.Context) (publisher.Report, error)
}

// Status of the scheduler
type Status struct {
	Schedule  string    `json:"schedule"`
	Running   bool      `json:"running"`
	Runs      int       `json:"runs"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
	Monetized int       `json:"monetized"`
	NextRun   time.Time `json:"next_run,omitempty"`
}

// Scheduler triggers runner by cron expression with seconds field, like "0 */30 * * * *",
// and on demand. Only one run is active at a time, cron ticks and manual runs share the guard.
type Scheduler struct {
	runner   Runner
	schedule string
	cron     *cron.Cron
	entryID  cron.EntryID

	mu     sync.Mutex
	status Status
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup // background runs started by Trigger
}

// New makes scheduler, returns error for invalid schedule.
// Empty schedule makes a scheduler for on-demand runs only.
func New(runner Runner, schedule string) (*Scheduler, error) {
	s := &Scheduler{
		runner:   runner,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		status:   Status{Schedule: schedule},
	}
	if schedule == "" {
		return s, nil
	}
	id, err := s.cron.AddFunc(schedule, s.tick)
	if err != nil {
		return nil, fmt.Errorf("register schedule %q: %w", schedule, err)
	}
	s.entryID = id
	return s, nil
}

// Start starts the cron loop, runs are canceled when ctx is done
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()
	s.cron.Start()
	log.Printf("[INFO] scheduler started with schedule %q", s.schedule)
}

// Stop stops the cron loop and waits for the active run to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	log.Printf("[INFO] scheduler stopped")
}

// RunNow executes a run immediately in the caller's goroutine, returns ErrBusy if a run is active
func (s *Scheduler) RunNow(ctx context.Context) (publisher.Report, error) {
	if !s.begin() {
		return publisher.Report{}, ErrBusy
	}
	return s.run(ctx)
}

// Trigger starts a run in background and returns without waiting for it, ErrBusy if a run is active.
// The run is bound to the context passed to Start and reports its result via Status.
func (s *Scheduler) Trigger() error {
	if !s.begin() {
		return ErrBusy
	}
	ctx := s.baseCtx()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.run(ctx); err != nil {
			log.Printf("[WARN] triggered run failed: %v", err)
		}
	}()
	return nil
}

// Status returns current status
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.status
	if entry := s.cron.Entry(s.entryID); entry.Valid() {
		res.NextRun = entry.Next
	}
	return res
}

func (s *Scheduler) tick() {
	if !s.begin() {
		log.Printf("[DEBUG] scheduled run skipped, previous run still active")
		return
	}
	if _, err := s.run(s.baseCtx()); err != nil {
		log.Printf("[WARN] scheduled run failed: %v", err)
	}
}

func (s *Scheduler) baseCtx() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// begin marks scheduler as running, false if it already was
func (s *Scheduler) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Running {
		return false
	}
	s.status.Running = true
	return true
}

// run executes runner and updates status, must be called after successful begin
func (s *Scheduler) run(ctx context.Context) (publisher.Report, error) {
	st := time.Now()
	rep, err := s.runner.Run(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Running = false
	s.status.Runs++
	s.status.LastRun = st
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
		return rep, err
	}
	s.status.Processed += rep.Succeeded + rep.Failed
	s.status.Failed += rep.Failed
	s.status.Monetized += rep.Monetized
	log.Printf("[INFO] run completed in %v, %d posts", time.Since(st).Round(time.Millisecond), rep.Total)
	return rep, nil
}
