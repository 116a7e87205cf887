// Package schedule wraps the cron runner that drives periodic sync runs.
// Expressions use the standard 5-field layout ("0 7 * * *" = daily at
// 07:00). A malformed expression surfaces as a ScheduleError so the caller
// can log a warning and keep the service running without a schedule.
package schedule

import (
	"context"

	"github.com/agentstation/utc"
	"github.com/robfig/cron/v3"

	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/logging"
)

// Job is the work a scheduler entry executes.
type Job func()

// Validate checks a cron expression without building a scheduler.
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return errors.NewScheduleError(spec, err)
	}
	return nil
}

// Scheduler drives a single recurring job on a cron expression.
type Scheduler struct {
	spec string
	cron *cron.Cron
}

// New validates the expression and registers the job. The job is wrapped
// with panic recovery so a blown run cannot take the runner down.
func New(spec string, job Job) (*Scheduler, error) {
	if err := Validate(spec); err != nil {
		return nil, err
	}

	c := cron.New()
	wrapped := func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Error().
					Interface("panic", r).
					Str("schedule", spec).
					Msg("Scheduled job panicked")
			}
		}()
		job()
	}
	if _, err := c.AddFunc(spec, wrapped); err != nil {
		return nil, errors.NewScheduleError(spec, err)
	}

	return &Scheduler{spec: spec, cron: c}, nil
}

// Spec returns the validated cron expression.
func (s *Scheduler) Spec() string {
	return s.spec
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	logging.Info().
		Str("schedule", s.spec).
		Time("next_run", s.NextRun().Time).
		Msg("Scheduler started")
}

// Stop halts the runner. The returned context is done once any in-flight
// job has finished.
func (s *Scheduler) Stop() context.Context {
	logging.Info().Str("schedule", s.spec).Msg("Scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the runner's registered entries.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// NextRun returns the next scheduled execution time, or the zero time
// before Start.
func (s *Scheduler) NextRun() utc.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return utc.Time{}
	}
	return utc.Time{Time: entries[0].Next}
}
