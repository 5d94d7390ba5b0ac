// Package scheduler runs named jobs on cron schedules under lifecycle coordination.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/JaimeStill/verdict/pkg/lifecycle"
)

// ErrDuplicateJob indicates a job with the same name is already scheduled.
var ErrDuplicateJob = errors.New("job already scheduled")

// Job is a unit of scheduled work. The context is cancelled on shutdown or
// when the job exceeds its timeout.
type Job func(ctx context.Context) error

// JobInfo describes a scheduled job.
type JobInfo struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	NextRun  time.Time `json:"next_run"`
	LastRun  time.Time `json:"last_run"`
}

// System schedules jobs and ties the cron runner to the application lifecycle.
type System interface {
	// Add schedules job under name. Schedule accepts standard five-field cron
	// expressions and descriptors such as "@daily" or "@every 1h".
	Add(name, schedule string, job Job) error
	// Run executes the named job immediately on the calling goroutine.
	Run(ctx context.Context, name string) error
	// Jobs lists scheduled jobs ordered by name.
	Jobs() []JobInfo
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type entry struct {
	id       cron.EntryID
	schedule string
	job      Job
}

type scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration

	mu   sync.RWMutex
	base context.Context
	jobs map[string]entry
}

// New creates a scheduler. Each run is bounded by timeout.
func New(timeout time.Duration, logger *slog.Logger) System {
	return &scheduler{
		cron:    cron.New(),
		logger:  logger.With("system", "scheduler"),
		timeout: timeout,
		base:    context.Background(),
		jobs:    make(map[string]entry),
	}
}

func (s *scheduler) Add(name, schedule string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	id, err := s.cron.AddFunc(schedule, func() {
		s.execute(name, job)
	})
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}

	s.jobs[name] = entry{id: id, schedule: schedule, job: job}
	s.logger.Info("job scheduled", "job", name, "schedule", schedule)
	return nil
}

func (s *scheduler) Run(ctx context.Context, name string) error {
	s.mu.RLock()
	e, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job %s not scheduled", name)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return e.job(ctx)
}

func (s *scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for name, e := range s.jobs {
		info := JobInfo{Name: name, Schedule: e.schedule}
		if ce := s.cron.Entry(e.id); ce.Valid() {
			info.NextRun = ce.Next
			info.LastRun = ce.Prev
		}
		infos = append(infos, info)
	}

	slices.SortFunc(infos, func(a, b JobInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return infos
}

func (s *scheduler) Start(lc *lifecycle.Coordinator) error {
	s.mu.Lock()
	s.base = lc.Context()
	s.mu.Unlock()

	lc.OnStartup(func() {
		s.cron.Start()
		s.logger.Info("scheduler started", "jobs", len(s.Jobs()))
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.logger.Info("stopping scheduler")
		<-s.cron.Stop().Done()
		s.logger.Info("scheduler stopped")
	})

	return nil
}

func (s *scheduler) execute(name string, job Job) {
	s.mu.RLock()
	base := s.base
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(base, s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error("job failed", "job", name, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Info("job completed", "job", name, "duration", time.Since(start))
}
