package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs recurring background jobs in the configured timezone.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(location *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(location), cron.WithSeconds()),
	}
}

// ScheduleDaily registers a job that fires once per day at the given wall
// clock time.
func (scheduler *Scheduler) ScheduleDaily(hour int, minute int, job func()) (cron.EntryID, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid daily schedule %02d:%02d", hour, minute)
	}
	// cron format: second minute hour dom month dow
	spec := fmt.Sprintf("0 %d %d * * *", minute, hour)
	return scheduler.cron.AddFunc(spec, job)
}

func (scheduler *Scheduler) Start() {
	scheduler.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (scheduler *Scheduler) Stop() {
	ctx := scheduler.cron.Stop()
	<-ctx.Done()
}
