// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs background jobs such as publishing scheduled posts.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Default schedules.
const (
	EveryMinute = "* * * * *"
	Nightly     = "30 3 * * *"
	Weekly      = "0 4 * * 1"
)

// ErrJobNotFound is returned by TriggerNow for an unknown job name.
var ErrJobNotFound = errors.New("job not found")

// DefaultJobTimeout bounds a single job run.
const DefaultJobTimeout = 2 * time.Minute

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context) error

type job struct {
	name        string
	description string
	schedule    string
	fn          JobFunc
	entryID     cron.EntryID

	mu        sync.Mutex
	lastError string
	runs      int64
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Schedule    string    `json:"schedule"`
	LastRun     time.Time `json:"last_run"`
	NextRun     time.Time `json:"next_run"`
	Runs        int64     `json:"runs"`
	LastError   string    `json:"last_error,omitempty"`
}

// Scheduler wraps a cron instance with named, manually triggerable jobs.
type Scheduler struct {
	cron    *cron.Cron
	parser  cron.Parser
	logger  *slog.Logger
	timeout time.Duration

	mu   sync.RWMutex
	jobs map[string]*job
}

// New creates a new scheduler instance. Schedules use UTC.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		parser:  cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		logger:  logger,
		timeout: DefaultJobTimeout,
		jobs:    make(map[string]*job),
	}
}

// Add registers a job. It may be called before or after Start.
func (s *Scheduler) Add(name, description, schedule string, fn JobFunc) error {
	sched, err := s.parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job already registered: %s", name)
	}

	j := &job{name: name, description: description, schedule: schedule, fn: fn}
	j.entryID = s.cron.Schedule(sched, cron.FuncJob(func() {
		_ = s.run(context.Background(), j)
	}))
	s.jobs[name] = j

	s.logger.Debug("registered scheduled job", "name", name, "schedule", schedule)
	return nil
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out", "error", ctx.Err())
	}
}

// List returns all registered jobs sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		entry := s.cron.Entry(j.entryID)
		j.mu.Lock()
		result = append(result, JobInfo{
			Name:        j.name,
			Description: j.description,
			Schedule:    j.schedule,
			LastRun:     entry.Prev,
			NextRun:     entry.Next,
			Runs:        j.runs,
			LastError:   j.lastError,
		})
		j.mu.Unlock()
	}

	sort.Slice(result, func(i, k int) bool { return result[i].Name < result[k].Name })
	return result
}

// TriggerNow runs a job immediately and returns its error.
func (s *Scheduler) TriggerNow(ctx context.Context, name string) error {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	s.logger.Info("manually triggering job", "name", name)
	return s.run(ctx, j)
}

// run executes one job with a timeout. Panics are logged as errors.
func (s *Scheduler) run(ctx context.Context, j *job) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}

		j.mu.Lock()
		j.runs++
		j.lastError = ""
		if err != nil {
			j.lastError = err.Error()
		}
		j.mu.Unlock()

		if err != nil {
			s.logger.Error("scheduled job failed", "job", j.name, "duration", time.Since(start), "error", err)
			return
		}
		s.logger.Debug("scheduled job finished", "job", j.name, "duration", time.Since(start))
	}()

	return j.fn(ctx)
}
