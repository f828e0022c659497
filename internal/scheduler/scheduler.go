// Package scheduler drives periodic, non-overlapping execution of the
// agent's recurring jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	agerrors "polymarket-agent/internal/errors"
)

// DefaultTickInterval is the polling interval of the run loop.
const DefaultTickInterval = time.Second

// JobFunc is the body of a recurring job. Jobs perform unreliable external
// I/O; an error or panic here never escapes the scheduler loop.
type JobFunc func(ctx context.Context) error

// Job is a named recurring task owned by the Scheduler. It is created at
// registration and never mutated afterwards except for its next-fire time.
type Job struct {
	name    string
	cadence Cadence
	fn      JobFunc

	mu      sync.Mutex // held for the duration of a run; enforces single-flight
	nextRun time.Time
	lastRun time.Time
	runs    int
	errors  int
}

// JobStatus is a read-only snapshot of a job's bookkeeping.
type JobStatus struct {
	Name    string
	Cadence string
	NextRun time.Time
	LastRun time.Time
	Runs    int
	Errors  int
}

// Scheduler owns the job registry and the tick loop. All registry state is
// touched only by the loop goroutine; the per-job mutex keeps runs
// single-flight even if RunPending is ever driven concurrently.
type Scheduler struct {
	jobs   []*Job
	byName map[string]*Job
	tick   time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTickInterval overrides the polling interval.
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// New creates a Scheduler.
func New(logger zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		byName: make(map[string]*Job),
		tick:   DefaultTickInterval,
		now:    time.Now,
		logger: logger.With().Str("component", "scheduler").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a job with the given cadence. It fails on an unrecognized
// cadence or a duplicate name. The first fire time is computed from "now"
// at registration.
func (s *Scheduler) Register(name string, cadence Cadence, fn JobFunc) error {
	if err := cadence.validate(); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("job %q: nil callable", name)
	}
	if _, exists := s.byName[name]; exists {
		return fmt.Errorf("job %q: %w", name, agerrors.ErrDuplicateJob)
	}

	job := &Job{
		name:    name,
		cadence: cadence,
		fn:      fn,
		nextRun: cadence.Next(s.now()),
	}
	s.jobs = append(s.jobs, job)
	s.byName[name] = job

	s.logger.Info().
		Str("job", name).
		Str("cadence", cadence.String()).
		Time("next_run", job.nextRun).
		Msg("Job registered")
	return nil
}

// RunPending executes every due job synchronously, in registration order.
// After a job returns, its next-fire time is recomputed strictly after
// "now", so a long-delayed tick fires the job once rather than replaying
// the missed windows.
func (s *Scheduler) RunPending(ctx context.Context) {
	for _, job := range s.jobs {
		if ctx.Err() != nil {
			return
		}
		now := s.now()
		if now.Before(job.nextRun) {
			continue
		}
		s.runJob(ctx, job)
	}
}

// runJob invokes one job inside the containment barrier: panics are
// recovered and errors logged, so nothing a job does can kill the loop.
func (s *Scheduler) runJob(ctx context.Context, job *Job) {
	if !job.mu.TryLock() {
		// Previous execution still in flight; this tick skips the job.
		return
	}
	defer job.mu.Unlock()

	start := s.now()
	logger := s.logger.With().Str("job", job.name).Logger()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job panicked: %v", r)
			}
		}()
		return job.fn(ctx)
	}()

	end := s.now()
	job.lastRun = end
	job.runs++
	job.nextRun = job.cadence.Next(end)

	if err != nil {
		job.errors++
		logger.Error().
			Err(err).
			Dur("duration", end.Sub(start)).
			Time("next_run", job.nextRun).
			Msg("Job failed")
		return
	}

	logger.Info().
		Dur("duration", end.Sub(start)).
		Time("next_run", job.nextRun).
		Msg("Job finished")
}

// Start runs the tick loop until the context is cancelled. A running job
// always finishes before the loop exits.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().
		Int("jobs", len(s.jobs)).
		Dur("tick", s.tick).
		Msg("Scheduler starting")

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.RunPending(ctx)
		}
	}
}

// Jobs returns a snapshot of the registry in registration order.
func (s *Scheduler) Jobs() []JobStatus {
	statuses := make([]JobStatus, 0, len(s.jobs))
	for _, job := range s.jobs {
		statuses = append(statuses, JobStatus{
			Name:    job.name,
			Cadence: job.cadence.String(),
			NextRun: job.nextRun,
			LastRun: job.lastRun,
			Runs:    job.runs,
			Errors:  job.errors,
		})
	}
	return statuses
}
