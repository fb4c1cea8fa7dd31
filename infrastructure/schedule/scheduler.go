package schedule

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled run. The context is cancelled after the job timeout.
type Job func(ctx context.Context) error

type Scheduler struct {
	c       *cron.Cron
	timeout time.Duration
}

// New returns a scheduler whose jobs never overlap with their own previous run.
func New(loc *time.Location, timeout time.Duration) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	return &Scheduler{c: c, timeout: timeout}
}

// Add registers job under spec, a standard five-field cron expression or a descriptor like "@daily".
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		started := time.Now()
		if err := job(ctx); err != nil {
			log.Printf("[ERROR] job %s failed: %v", name, err)
			return
		}
		log.Printf("[INFO] job %s finished in %s", name, time.Since(started).Round(time.Millisecond))
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	log.Printf("[INFO] job %s scheduled %q", name, spec)
	return nil
}

func (s *Scheduler) Len() int {
	return len(s.c.Entries())
}

func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.c.Stop().Done():
	case <-ctx.Done():
		log.Printf("[WARN] scheduler stopped before running jobs finished")
	}
}
