package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/deusflow/cyberdigest/internal/config"
	"github.com/deusflow/cyberdigest/internal/logger"
)

// maxWait bounds each sleep so wall-clock jumps are noticed within a minute.
const maxWait = time.Minute

type State int32

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Job is one pipeline run.
type Job func(ctx context.Context)

// Scheduler runs a job immediately and then once a day at a local time of day.
// Runs never overlap: the job executes on the Run goroutine.
type Scheduler struct {
	schedule cron.Schedule
	job      Job
	state    atomic.Int32

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) error
}

// New parses at ("HH:MM", local time) into a daily schedule.
func New(at string, job Job) (*Scheduler, error) {
	hour, minute, err := config.ParseScheduleTime(at)
	if err != nil {
		return nil, err
	}
	schedule, err := cron.ParseStandard(fmt.Sprintf("%d %d * * *", minute, hour))
	if err != nil {
		return nil, fmt.Errorf("parse daily schedule %s: %w", at, err)
	}

	return &Scheduler{
		schedule: schedule,
		job:      job,
		now:      time.Now,
		wait:     sleep,
	}, nil
}

func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Next returns the first trigger strictly after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Run blocks until ctx is cancelled. The first run starts immediately.
// Cancellation stops the loop between runs; a started run always completes.
func (s *Scheduler) Run(ctx context.Context) error {
	s.runJob(ctx)

	for {
		next := s.schedule.Next(s.now())
		logger.Info("next run scheduled", "at", next.Format(time.RFC1123))

		for {
			remaining := next.Sub(s.now())
			if remaining <= 0 {
				break
			}
			if remaining > maxWait {
				remaining = maxWait
			}
			if err := s.wait(ctx, remaining); err != nil {
				return err
			}
		}

		s.runJob(ctx)
	}
}

// RunOnce executes the job once outside the schedule.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.runJob(ctx)
}

func (s *Scheduler) runJob(ctx context.Context) {
	s.state.Store(int32(Running))
	defer s.state.Store(int32(Idle))
	defer func() {
		if r := recover(); r != nil {
			logger.Error("run panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	s.job(context.WithoutCancel(ctx))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
