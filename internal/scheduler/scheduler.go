package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/tropical-nights/internal/weather"
)

// runTimeout bounds a single scheduled sync run.
const runTimeout = 10 * time.Minute

// Syncer runs one full pass over the configured year range.
type Syncer interface {
	SyncAll(ctx context.Context) (weather.RunReport, error)
}

// Scheduler re-syncs the year datasets once a day.
type Scheduler struct {
	scheduler *gocron.Scheduler
	syncer    Syncer
	at        string
}

// New creates a new Scheduler firing daily at "HH:MM" in tz.
func New(syncer Syncer, at string, tz *time.Location) *Scheduler {
	if tz == nil {
		tz = time.UTC
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(tz),
		syncer:    syncer,
		at:        at,
	}
}

// Start schedules the daily job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(s.at).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Printf("scheduler: daily sync scheduled at %s", s.at)
	return nil
}

// NextRun returns when the daily job fires next.
func (s *Scheduler) NextRun() time.Time {
	_, next := s.scheduler.NextRun()
	return next
}

func (s *Scheduler) runOnce() {
	log.Println("scheduler: running weather sync job")

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	report, err := s.syncer.SyncAll(ctx)
	if err != nil {
		log.Printf("ERROR: scheduler: sync run %s failed: %v", report.ID, err)
		return
	}
	log.Printf("scheduler: completed sync run %s (%d years fetched)", report.ID, report.Fetched())
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
