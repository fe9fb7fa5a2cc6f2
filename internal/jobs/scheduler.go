// Package jobs runs the periodic league refresh and season rollover.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	league "leximind.com/api/internal/modules/league/service"
	season "leximind.com/api/internal/modules/season/service"
	"leximind.com/api/pkg/logger"
)

const jobTimeout = 2 * time.Minute

// Job is a named unit of scheduled work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	cron *cron.Cron
	jobs []Job
	log  *logger.Logger
}

func NewScheduler(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		log:  log,
	}
}

// Register schedules job on a cron expression. An empty expression registers it for RunAll only.
func (s *Scheduler) Register(schedule string, job Job) error {
	s.jobs = append(s.jobs, job)
	if schedule == "" {
		s.log.Info("job registered on demand", "job", job.Name)
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.run(context.Background(), job) }); err != nil {
		return err
	}
	s.log.Info("job scheduled", "job", job.Name, "cron", schedule)
	return nil
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.log.Warn("job failed", "job", job.Name, "error", err)
		return
	}
	s.log.Debug("job completed", "job", job.Name, "took", time.Since(start))
}

// RunAll executes every registered job once, in registration order.
func (s *Scheduler) RunAll(ctx context.Context) {
	for _, job := range s.jobs {
		s.run(ctx, job)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", "jobs", len(s.jobs))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// LeagueRefresh recomputes the current weekly league.
func LeagueRefresh(leagues league.LeagueService) Job {
	return Job{Name: "league_refresh", Run: func(ctx context.Context) error {
		_, err := leagues.Recompute(ctx)
		return err
	}}
}

// SeasonRollover finalizes an expired season and opens the next one.
func SeasonRollover(seasons season.SeasonService) Job {
	return Job{Name: "season_rollover", Run: func(ctx context.Context) error {
		_, err := seasons.Resolve(ctx)
		return err
	}}
}
